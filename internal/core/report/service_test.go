package report

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ogurasousui/hiring-insights/internal/platform/logging"
)

type fakeRepo struct {
	quarters    []QuarterCount
	departments []DepartmentHires
	err         error
	windows     []Window
}

func (r *fakeRepo) CountHiresByQuarter(_ context.Context, w Window) ([]QuarterCount, error) {
	r.windows = append(r.windows, w)
	return r.quarters, r.err
}

func (r *fakeRepo) CountHiresByDepartment(_ context.Context, w Window) ([]DepartmentHires, error) {
	r.windows = append(r.windows, w)
	return r.departments, r.err
}

type countingTx struct{ calls int }

func (c *countingTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	c.calls++
	return fn(ctx)
}

func TestYearWindow(t *testing.T) {
	t.Parallel()

	w := YearWindow(2021)
	if !w.From.Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected window start: %v", w.From)
	}
	if !w.To.Equal(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected window end: %v", w.To)
	}
	if w.From.Location() != time.UTC {
		t.Errorf("expected UTC window, got %v", w.From.Location())
	}
}

func TestNewService_InvalidYear(t *testing.T) {
	t.Parallel()

	if _, err := NewService(&fakeRepo{}, nil, 0); !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}
}

func TestService_HiresByQuarter(t *testing.T) {
	t.Parallel()

	// months 1, 4, 9, 12, 12 split across two department/job pairs
	repo := &fakeRepo{quarters: []QuarterCount{
		{DepartmentID: 2, JobID: 3, Department: "Maintenance", Job: "Analyst", Quarter: 1, Hired: 1},
		{DepartmentID: 2, JobID: 3, Department: "Maintenance", Job: "Analyst", Quarter: 4, Hired: 2},
		{DepartmentID: 3, JobID: 2, Department: "Staff", Job: "Manager", Quarter: 2, Hired: 1},
		{DepartmentID: 3, JobID: 2, Department: "Staff", Job: "Manager", Quarter: 3, Hired: 1},
	}}
	tx := &countingTx{}
	svc, err := NewService(repo, tx, 2021)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	rows, err := svc.HiresByQuarter(context.Background())
	if err != nil {
		t.Fatalf("HiresByQuarter returned error: %v", err)
	}

	want := []QuarterlyHires{
		{Department: "Maintenance", Job: "Analyst", Q1: 1, Q4: 2},
		{Department: "Staff", Job: "Manager", Q2: 1, Q3: 1},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("unexpected rows: %+v", rows)
	}
	if tx.calls != 1 {
		t.Errorf("expected 1 read-only transaction, got %d", tx.calls)
	}
	if len(repo.windows) != 1 || repo.windows[0] != YearWindow(2021) {
		t.Errorf("unexpected windows: %+v", repo.windows)
	}
}

func TestService_HiresByQuarterEmpty(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&fakeRepo{}, nil, 2021)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	rows, err := svc.HiresByQuarter(context.Background())
	if err != nil {
		t.Fatalf("HiresByQuarter returned error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil rows, got %#v", rows)
	}
}

func TestService_HiresByQuarterInvalidBucket(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{quarters: []QuarterCount{{DepartmentID: 3, JobID: 2, Department: "Staff", Job: "Manager", Quarter: 5, Hired: 1}}}
	svc, err := NewService(repo, nil, 2021)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if _, err := svc.HiresByQuarter(context.Background()); !errors.Is(err, ErrInvalidQuarter) {
		t.Fatalf("expected ErrInvalidQuarter, got %v", err)
	}
}

func TestService_RepositoryError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")
	svc, err := NewService(&fakeRepo{err: storeErr}, nil, 2021)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if _, err := svc.HiresByQuarter(context.Background()); !errors.Is(err, storeErr) {
		t.Errorf("expected store error from HiresByQuarter, got %v", err)
	}
	if _, err := svc.AboveAverageByDepartment(context.Background()); !errors.Is(err, storeErr) {
		t.Errorf("expected store error from AboveAverageByDepartment, got %v", err)
	}
}

func TestService_AboveAverageByDepartment(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{departments: []DepartmentHires{
		{ID: 1, Department: "Supply Chain", Hired: 5},
		{ID: 2, Department: "Staff", Hired: 1},
	}}
	svc, err := NewService(repo, nil, 2021)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	rows, err := svc.AboveAverageByDepartment(context.Background())
	if err != nil {
		t.Fatalf("AboveAverageByDepartment returned error: %v", err)
	}
	want := []DepartmentHires{{ID: 1, Department: "Supply Chain", Hired: 5}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestService_LogsWithContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, "debug", false))

	repo := &fakeRepo{
		quarters:    []QuarterCount{{DepartmentID: 1, JobID: 1, Department: "Staff", Job: "Manager", Quarter: 2, Hired: 3}},
		departments: []DepartmentHires{{ID: 1, Department: "Staff", Hired: 3}},
	}
	svc, err := NewService(repo, nil, 2021)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if _, err := svc.HiresByQuarter(ctx); err != nil {
		t.Fatalf("HiresByQuarter returned error: %v", err)
	}
	if _, err := svc.AboveAverageByDepartment(ctx); err != nil {
		t.Fatalf("AboveAverageByDepartment returned error: %v", err)
	}

	out := buf.String()
	for _, msg := range []string{"hires by quarter computed", "above average computed"} {
		if !strings.Contains(out, msg) {
			t.Errorf("expected log %q, got %s", msg, out)
		}
	}
	if !strings.Contains(out, `"year":2021`) {
		t.Errorf("expected year field in log, got %s", out)
	}
}

func TestService_ReportsAreIdempotent(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		quarters:    []QuarterCount{{DepartmentID: 1, JobID: 1, Department: "Staff", Job: "Manager", Quarter: 2, Hired: 3}},
		departments: []DepartmentHires{{ID: 1, Department: "Staff", Hired: 3}, {ID: 2, Department: "Maintenance", Hired: 1}},
	}
	svc, err := NewService(repo, nil, 2021)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	first, err := svc.HiresByQuarter(context.Background())
	if err != nil {
		t.Fatalf("HiresByQuarter returned error: %v", err)
	}
	second, err := svc.HiresByQuarter(context.Background())
	if err != nil {
		t.Fatalf("HiresByQuarter returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("quarterly report changed between calls: %+v vs %+v", first, second)
	}

	a, err := svc.AboveAverageByDepartment(context.Background())
	if err != nil {
		t.Fatalf("AboveAverageByDepartment returned error: %v", err)
	}
	b, err := svc.AboveAverageByDepartment(context.Background())
	if err != nil {
		t.Fatalf("AboveAverageByDepartment returned error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("above-average report changed between calls: %+v vs %+v", a, b)
	}
}

func TestFilterAboveMean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		counts []DepartmentHires
		want   []int64
	}{
		{name: "empty", counts: nil, want: []int64{}},
		{name: "single department equals mean", counts: []DepartmentHires{{ID: 1, Hired: 4}}, want: []int64{}},
		{name: "all equal", counts: []DepartmentHires{{ID: 1, Hired: 2}, {ID: 2, Hired: 2}}, want: []int64{}},
		{
			name:   "fractional mean",
			counts: []DepartmentHires{{ID: 3, Hired: 2}, {ID: 1, Hired: 1}, {ID: 2, Hired: 1}},
			want:   []int64{3},
		},
		{
			name:   "keeps input order",
			counts: []DepartmentHires{{ID: 9, Hired: 10}, {ID: 4, Hired: 8}, {ID: 5, Hired: 1}, {ID: 6, Hired: 1}},
			want:   []int64{9, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FilterAboveMean(tt.counts)
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			ids := make([]int64, 0, len(got))
			for _, g := range got {
				ids = append(ids, g.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("want %v, got %v", tt.want, ids)
			}
		})
	}
}

func TestPivotQuarters_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	rows, err := PivotQuarters([]QuarterCount{
		{DepartmentID: 2, JobID: 1, Department: "B", Job: "x", Quarter: 1, Hired: 1},
		{DepartmentID: 1, JobID: 2, Department: "A", Job: "y", Quarter: 2, Hired: 1},
		{DepartmentID: 2, JobID: 1, Department: "B", Job: "x", Quarter: 3, Hired: 2},
	})
	if err != nil {
		t.Fatalf("PivotQuarters returned error: %v", err)
	}

	want := []QuarterlyHires{
		{Department: "B", Job: "x", Q1: 1, Q3: 2},
		{Department: "A", Job: "y", Q2: 1},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestPivotQuarters_SameNameDifferentIDs(t *testing.T) {
	t.Parallel()

	rows, err := PivotQuarters([]QuarterCount{
		{DepartmentID: 1, JobID: 7, Department: "Staff", Job: "Manager", Quarter: 1, Hired: 2},
		{DepartmentID: 4, JobID: 7, Department: "Staff", Job: "Manager", Quarter: 1, Hired: 3},
		{DepartmentID: 4, JobID: 7, Department: "Staff", Job: "Manager", Quarter: 2, Hired: 1},
	})
	if err != nil {
		t.Fatalf("PivotQuarters returned error: %v", err)
	}

	want := []QuarterlyHires{
		{Department: "Staff", Job: "Manager", Q1: 2},
		{Department: "Staff", Job: "Manager", Q1: 3, Q2: 1},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("departments sharing a name must stay separate rows: %+v", rows)
	}
}
