package ingest

import (
	"fmt"

	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
)

// Batch は 1 回のアップロードで受け入れた候補エンティティを、ファイル順のまま保持します。
// 保持するのは単一種別のみで、重複排除は行いません。
type Batch struct {
	kind        Kind
	departments []hiring.Department
	jobs        []hiring.Job
	employees   []hiring.Employee
}

// NewBatch は空の Batch を生成します。
func NewBatch(kind Kind) *Batch {
	return &Batch{kind: kind}
}

// Kind はバッチの種別を返します。
func (b *Batch) Kind() Kind { return b.kind }

// AddDepartment は部署を追加します。
func (b *Batch) AddDepartment(d hiring.Department) error {
	if b.kind != KindDepartment {
		return fmt.Errorf("%w: %s batch", ErrKindMismatch, b.kind)
	}
	b.departments = append(b.departments, d)
	return nil
}

// AddJob は職種を追加します。
func (b *Batch) AddJob(j hiring.Job) error {
	if b.kind != KindJob {
		return fmt.Errorf("%w: %s batch", ErrKindMismatch, b.kind)
	}
	b.jobs = append(b.jobs, j)
	return nil
}

// AddEmployee は社員を追加します。
func (b *Batch) AddEmployee(e hiring.Employee) error {
	if b.kind != KindEmployee {
		return fmt.Errorf("%w: %s batch", ErrKindMismatch, b.kind)
	}
	b.employees = append(b.employees, e)
	return nil
}

func (b *Batch) Departments() []hiring.Department { return b.departments }

func (b *Batch) Jobs() []hiring.Job { return b.jobs }

func (b *Batch) Employees() []hiring.Employee { return b.employees }

// Len は保持している候補エンティティ数を返します。
func (b *Batch) Len() int {
	switch b.kind {
	case KindDepartment:
		return len(b.departments)
	case KindJob:
		return len(b.jobs)
	case KindEmployee:
		return len(b.employees)
	default:
		return 0
	}
}
