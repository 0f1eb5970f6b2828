package report

import (
	"context"
	"fmt"

	"github.com/ogurasousui/hiring-insights/internal/platform/logging"
)

// UseCase は集計レポートのユースケースです。
type UseCase interface {
	HiresByQuarter(ctx context.Context) ([]QuarterlyHires, error)
	AboveAverageByDepartment(ctx context.Context) ([]DepartmentHires, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は集計ユースケースの実装です。
type Service struct {
	repo Repository
	tx   TransactionManager
	year int
}

// NewService は対象年 year の集計を行う Service を生成します。
func NewService(repo Repository, tx TransactionManager, year int) (*Service, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx, year: year}, nil
}

// Year は対象年を返します。
func (s *Service) Year() int { return s.year }

// HiresByQuarter は対象年に 1 件以上採用のある部署・職種の組み合わせについて、
// 四半期ごとの採用数を部署名・職種名の昇順で返します。
func (s *Service) HiresByQuarter(ctx context.Context) ([]QuarterlyHires, error) {
	var counts []QuarterCount
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		counts, err = s.repo.CountHiresByQuarter(txCtx, YearWindow(s.year))
		return err
	}); err != nil {
		return nil, err
	}

	rows, err := PivotQuarters(counts)
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)
	log.Debug().Int("year", s.year).Int("rows", len(rows)).Msg("hires by quarter computed")
	return rows, nil
}

// AboveAverageByDepartment は対象年の部署別採用数が部署平均を厳密に上回る部署を、採用数の降順で返します。
func (s *Service) AboveAverageByDepartment(ctx context.Context) ([]DepartmentHires, error) {
	var counts []DepartmentHires
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		counts, err = s.repo.CountHiresByDepartment(txCtx, YearWindow(s.year))
		return err
	}); err != nil {
		return nil, err
	}

	rows := FilterAboveMean(counts)
	log := logging.FromContext(ctx)
	log.Debug().Int("year", s.year).Int("departments", len(counts)).Int("rows", len(rows)).Msg("above average computed")
	return rows, nil
}

// PivotQuarters は (部署, 職種, 四半期) の集計を部署 ID・職種 ID ごとの 1 行にまとめます。
// 行の順序は入力で最初に現れた順を保ちます。
func PivotQuarters(counts []QuarterCount) ([]QuarterlyHires, error) {
	type key struct{ department, job int64 }

	index := make(map[key]int)
	rows := make([]QuarterlyHires, 0)

	for _, c := range counts {
		k := key{c.DepartmentID, c.JobID}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, QuarterlyHires{Department: c.Department, Job: c.Job})
		}

		row := &rows[i]
		switch c.Quarter {
		case 1:
			row.Q1 += c.Hired
		case 2:
			row.Q2 += c.Hired
		case 3:
			row.Q3 += c.Hired
		case 4:
			row.Q4 += c.Hired
		default:
			return nil, fmt.Errorf("%w: %d", ErrInvalidQuarter, c.Quarter)
		}
	}

	return rows, nil
}

// FilterAboveMean は採用数が全体の平均を厳密に上回る部署のみを入力順のまま返します。
// 平均は整数演算 (hired * n > sum) で比較します。
func FilterAboveMean(counts []DepartmentHires) []DepartmentHires {
	rows := make([]DepartmentHires, 0)
	if len(counts) == 0 {
		return rows
	}

	var sum int64
	for _, c := range counts {
		sum += int64(c.Hired)
	}
	n := int64(len(counts))

	for _, c := range counts {
		if int64(c.Hired)*n > sum {
			rows = append(rows, c)
		}
	}
	return rows
}
