package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// translatePgError は PostgreSQL の制約違反をドメインエラーへ変換します。
// 変換後も元の pgconn.PgError は errors.As で取り出せます。
func translatePgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %w", hiring.ErrDuplicateID, err)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: %w", hiring.ErrReferenceNotFound, err)
		case checkViolationCode:
			return fmt.Errorf("%w: %w", hiring.ErrInvalidName, err)
		}
	}

	return err
}
