package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
	pgdb "github.com/ogurasousui/hiring-insights/internal/platform/db/postgres"
)

// RosterRepository は部署・職種・社員を ID で参照する hiring.Repository の実装です。
type RosterRepository struct {
	pool pgdb.Queryer
}

// NewRosterRepository は RosterRepository を生成します。
func NewRosterRepository(pool pgdb.Queryer) *RosterRepository {
	return &RosterRepository{pool: pool}
}

// FindDepartmentByID は ID で部署を取得します。
func (r *RosterRepository) FindDepartmentByID(ctx context.Context, id int64) (*hiring.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT id, name FROM department WHERE id = $1`, id)

	d, err := scanDepartment(row)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// FindJobByID は ID で職種を取得します。
func (r *RosterRepository) FindJobByID(ctx context.Context, id int64) (*hiring.Job, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT id, title FROM job WHERE id = $1`, id)

	j, err := scanJob(row)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// FindEmployeeByID は ID で社員を取得します。
func (r *RosterRepository) FindEmployeeByID(ctx context.Context, id int64) (*hiring.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id,
               name,
               hire_time,
               department_id,
               job_id
          FROM employees
         WHERE id = $1
    `, id)

	e, err := scanEmployee(row)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func scanDepartment(row pgx.Row) (*hiring.Department, error) {
	var (
		id   int64
		name string
	)
	if err := row.Scan(&id, &name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, hiring.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &hiring.Department{ID: id, Name: name}, nil
}

func scanJob(row pgx.Row) (*hiring.Job, error) {
	var (
		id    int64
		title string
	)
	if err := row.Scan(&id, &title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, hiring.ErrJobNotFound
		}
		return nil, err
	}
	return &hiring.Job{ID: id, Title: title}, nil
}

func scanEmployee(row pgx.Row) (*hiring.Employee, error) {
	var (
		id           int64
		name         sql.NullString
		hireTime     time.Time
		departmentID sql.NullInt64
		jobID        sql.NullInt64
	)
	if err := row.Scan(&id, &name, &hireTime, &departmentID, &jobID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, hiring.ErrEmployeeNotFound
		}
		return nil, err
	}

	e := &hiring.Employee{ID: id, HireTime: hireTime.UTC()}
	if name.Valid {
		v := name.String
		e.Name = &v
	}
	if departmentID.Valid {
		v := departmentID.Int64
		e.DepartmentID = &v
	}
	if jobID.Valid {
		v := jobID.Int64
		e.JobID = &v
	}
	return e, nil
}
