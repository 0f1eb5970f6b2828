package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/hiring-insights/internal/core/ingest"
	pgdb "github.com/ogurasousui/hiring-insights/internal/platform/db/postgres"
)

var (
	departmentTable   = pgx.Identifier{"department"}
	departmentColumns = []string{"id", "name"}

	jobTable   = pgx.Identifier{"job"}
	jobColumns = []string{"id", "title"}

	employeeTable   = pgx.Identifier{"employees"}
	employeeColumns = []string{"id", "name", "hire_time", "department_id", "job_id"}
)

// BatchRepository は COPY プロトコルでバッチを一括挿入する ingest.Gateway の実装です。
// 呼び出し側のトランザクション内で実行され、失敗時はバッチ全体がロールバックされます。
type BatchRepository struct {
	pool pgdb.Queryer
}

// NewBatchRepository は BatchRepository を生成します。
func NewBatchRepository(pool pgdb.Queryer) *BatchRepository {
	return &BatchRepository{pool: pool}
}

// InsertBatch はバッチをファイル順に挿入し、挿入件数を返します。
func (r *BatchRepository) InsertBatch(ctx context.Context, batch *ingest.Batch) (int64, error) {
	if batch == nil || batch.Len() == 0 {
		return 0, nil
	}

	table, columns, src, err := copySource(batch)
	if err != nil {
		return 0, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	n, err := exec.CopyFrom(ctx, table, columns, src)
	if err != nil {
		return 0, translatePgError(err)
	}
	return n, nil
}

func copySource(batch *ingest.Batch) (pgx.Identifier, []string, pgx.CopyFromSource, error) {
	switch batch.Kind() {
	case ingest.KindDepartment:
		rows := batch.Departments()
		return departmentTable, departmentColumns, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return []any{rows[i].ID, rows[i].Name}, nil
		}), nil
	case ingest.KindJob:
		rows := batch.Jobs()
		return jobTable, jobColumns, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return []any{rows[i].ID, rows[i].Title}, nil
		}), nil
	case ingest.KindEmployee:
		rows := batch.Employees()
		return employeeTable, employeeColumns, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			e := rows[i]
			return []any{e.ID, e.Name, e.HireTime.UTC(), e.DepartmentID, e.JobID}, nil
		}), nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", ingest.ErrUnsupportedKind, batch.Kind())
	}
}
