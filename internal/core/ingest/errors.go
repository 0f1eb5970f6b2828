package ingest

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedKind  = errors.New("ingest: unsupported kind")
	ErrMissingSource    = errors.New("ingest: source is required")
	ErrRowConstruction  = errors.New("ingest: row construction failed")
	ErrColumnCount      = errors.New("ingest: unexpected column count")
	ErrInvalidTimestamp = errors.New("ingest: invalid hire timestamp")
	ErrKindMismatch     = errors.New("ingest: entity kind does not match batch")
	ErrShortWrite       = errors.New("ingest: store persisted fewer rows than submitted")
	ErrPersistence      = errors.New("ingest: persistence failed")
)

// RowError は 1 行をエンティティへ変換できなかったことを表します。
// errors.Is(err, ErrRowConstruction) が成立します。
type RowError struct {
	Line  int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("ingest: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("ingest: line %d: field %s: %v", e.Line, e.Field, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrRowConstruction, e.Err}
}

func rowError(line int, field string, err error) error {
	return &RowError{Line: line, Field: field, Err: err}
}
