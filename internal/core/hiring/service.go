package hiring

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は永続化済みエンティティ参照の公開インターフェースです。
type UseCase interface {
	GetDepartment(ctx context.Context, in GetInput) (*Department, error)
	GetJob(ctx context.Context, in GetInput) (*Job, error)
	GetEmployee(ctx context.Context, in GetInput) (*Employee, error)
}

// GetInput は ID 指定の取得入力です。
type GetInput struct {
	ID string
}

// Service は参照ユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// GetDepartment は部署を取得します。
func (s *Service) GetDepartment(ctx context.Context, in GetInput) (*Department, error) {
	id, err := ParseID(in.ID)
	if err != nil {
		return nil, err
	}

	var found *Department
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		d, err := s.repo.FindDepartmentByID(txCtx, id)
		if err != nil {
			return err
		}
		found = d
		return nil
	}); err != nil {
		return nil, err
	}
	return found, nil
}

// GetJob は職種を取得します。
func (s *Service) GetJob(ctx context.Context, in GetInput) (*Job, error) {
	id, err := ParseID(in.ID)
	if err != nil {
		return nil, err
	}

	var found *Job
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		j, err := s.repo.FindJobByID(txCtx, id)
		if err != nil {
			return err
		}
		found = j
		return nil
	}); err != nil {
		return nil, err
	}
	return found, nil
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetInput) (*Employee, error) {
	id, err := ParseID(in.ID)
	if err != nil {
		return nil, err
	}

	var found *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		e, err := s.repo.FindEmployeeByID(txCtx, id)
		if err != nil {
			return err
		}
		found = e
		return nil
	}); err != nil {
		return nil, err
	}
	return found, nil
}

// ParseID は整数 ID を解析します。負の値は受け付けません。
func ParseID(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("id: %w", ErrInvalidID)
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("id %q: %w", raw, ErrInvalidID)
	}
	return id, nil
}
