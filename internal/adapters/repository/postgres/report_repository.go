package postgres

import (
	"context"

	"github.com/ogurasousui/hiring-insights/internal/core/report"
	pgdb "github.com/ogurasousui/hiring-insights/internal/platform/db/postgres"
)

const hiresByQuarterQuery = `
        SELECT d.id,
               j.id,
               d.name,
               j.title,
               EXTRACT(QUARTER FROM e.hire_time)::int AS quarter,
               COUNT(*)::int AS hired
          FROM employees e
          JOIN department d ON d.id = e.department_id
          JOIN job j ON j.id = e.job_id
         WHERE e.hire_time >= $1 AND e.hire_time < $2
         GROUP BY d.id, j.id, d.name, j.title, quarter
         ORDER BY d.name, j.title, d.id, j.id, quarter
    `

const hiresByDepartmentQuery = `
        SELECT d.id,
               d.name,
               COUNT(*)::int AS hired
          FROM employees e
          JOIN department d ON d.id = e.department_id
         WHERE e.hire_time >= $1 AND e.hire_time < $2
         GROUP BY d.id, d.name
         ORDER BY hired DESC, d.id
    `

// ReportRepository は集計クエリを実行する report.Repository の実装です。
type ReportRepository struct {
	pool pgdb.Queryer
}

// NewReportRepository は ReportRepository を生成します。
func NewReportRepository(pool pgdb.Queryer) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// CountHiresByQuarter は区間内の採用を (部署, 職種, 四半期) ごとに数えます。
// 同名の部署や職種は ID で区別されます。
func (r *ReportRepository) CountHiresByQuarter(ctx context.Context, w report.Window) ([]report.QuarterCount, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, hiresByQuarterQuery, w.From, w.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]report.QuarterCount, 0)
	for rows.Next() {
		var c report.QuarterCount
		if err := rows.Scan(&c.DepartmentID, &c.JobID, &c.Department, &c.Job, &c.Quarter, &c.Hired); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// CountHiresByDepartment は区間内の採用を部署ごとに数えます。
func (r *ReportRepository) CountHiresByDepartment(ctx context.Context, w report.Window) ([]report.DepartmentHires, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, hiresByDepartmentQuery, w.From, w.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]report.DepartmentHires, 0)
	for rows.Next() {
		var c report.DepartmentHires
		if err := rows.Scan(&c.ID, &c.Department, &c.Hired); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
