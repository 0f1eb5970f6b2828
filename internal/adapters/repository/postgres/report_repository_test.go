package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/ogurasousui/hiring-insights/internal/core/report"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestReportRepository_CountHiresByQuarter(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewReportRepository(mock)
	w := report.YearWindow(2021)

	mock.ExpectQuery(regexp.QuoteMeta(hiresByQuarterQuery)).
		WithArgs(w.From, w.To).
		WillReturnRows(pgxmock.NewRows([]string{"id", "id", "name", "title", "quarter", "hired"}).
			AddRow(int64(2), int64(3), "Maintenance", "Analyst", 1, 1).
			AddRow(int64(2), int64(3), "Maintenance", "Analyst", 4, 2).
			AddRow(int64(3), int64(2), "Staff", "Manager", 2, 1))

	counts, err := repo.CountHiresByQuarter(context.Background(), w)
	if err != nil {
		t.Fatalf("CountHiresByQuarter returned error: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("expected 3 counts, got %d", len(counts))
	}
	want := report.QuarterCount{DepartmentID: 2, JobID: 3, Department: "Maintenance", Job: "Analyst", Quarter: 4, Hired: 2}
	if counts[1] != want {
		t.Fatalf("unexpected count: %+v", counts[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportRepository_CountHiresByDepartment(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewReportRepository(mock)
	w := report.YearWindow(2021)

	mock.ExpectQuery(regexp.QuoteMeta(hiresByDepartmentQuery)).
		WithArgs(w.From, w.To).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "hired"}).
			AddRow(int64(1), "Supply Chain", 5).
			AddRow(int64(2), "Staff", 1))

	counts, err := repo.CountHiresByDepartment(context.Background(), w)
	if err != nil {
		t.Fatalf("CountHiresByDepartment returned error: %v", err)
	}
	if len(counts) != 2 || counts[0].ID != 1 || counts[0].Hired != 5 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportRepository_QueryError(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewReportRepository(mock)
	w := report.YearWindow(2021)

	queryErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(hiresByDepartmentQuery)).
		WithArgs(w.From, w.To).
		WillReturnError(queryErr)

	if _, err := repo.CountHiresByDepartment(context.Background(), w); !errors.Is(err, queryErr) {
		t.Fatalf("expected query error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
