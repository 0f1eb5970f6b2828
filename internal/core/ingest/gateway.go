package ingest

import (
	"context"
	"time"
)

// Gateway は候補エンティティのバッチを保存する唯一の操作を提供します。
// 呼び出し側のトランザクション内で全件を挿入し、挿入件数を返します。
// 制約違反時はエラーを返し、トランザクションはロールバックされます。
type Gateway interface {
	InsertBatch(ctx context.Context, batch *Batch) (int64, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

// BatchIngested はバッチのコミット完了を表すイベントです。
type BatchIngested struct {
	Kind       Kind
	Count      int
	IngestedAt time.Time
}

// EventPublisher はコミット済みバッチを外部へ通知します。
type EventPublisher interface {
	PublishBatchIngested(ctx context.Context, event BatchIngested) error
}

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
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

type noopPublisher struct{}

func (noopPublisher) PublishBatchIngested(context.Context, BatchIngested) error { return nil }
