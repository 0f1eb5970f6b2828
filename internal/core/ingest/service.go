package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
	"github.com/ogurasousui/hiring-insights/internal/platform/logging"
)

// UseCase は CSV 取り込みユースケースの公開インターフェースです。
type UseCase interface {
	Ingest(ctx context.Context, in IngestInput) (*IngestResult, error)
}

// IngestInput は取り込み時の入力です。
type IngestInput struct {
	Kind   string
	Source io.Reader
}

// IngestResult は取り込み結果です。Count は保存したバッチの件数です。
type IngestResult struct {
	Kind  Kind
	Count int
}

// Options は Service の任意設定です。
type Options struct {
	DepartmentNames hiring.NamePolicy
	JobNames        hiring.NamePolicy
	Timestamps      TimestampPolicy
	Publisher       EventPublisher
	Clock           Clock
}

// Service は行解析・行フィルタ・バッチ蓄積・一括保存をまとめます。
type Service struct {
	gateway   Gateway
	tx        TransactionManager
	converter Converter
	publisher EventPublisher
	clock     Clock
}

// NewService は Service を生成します。
func NewService(gateway Gateway, tx TransactionManager, opts Options) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if opts.Publisher == nil {
		opts.Publisher = noopPublisher{}
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	return &Service{
		gateway:   gateway,
		tx:        tx,
		converter: NewConverter(opts.DepartmentNames, opts.JobNames, opts.Timestamps),
		publisher: opts.Publisher,
		clock:     opts.Clock,
	}
}

// Ingest はソースを読み込み、受け入れた行を 1 トランザクションで保存します。
// 1 行でも変換に失敗した場合、または保存が拒否された場合は何も永続化されません。
func (s *Service) Ingest(ctx context.Context, in IngestInput) (*IngestResult, error) {
	kind, err := ParseKind(in.Kind)
	if err != nil {
		return nil, err
	}
	if in.Source == nil {
		return nil, ErrMissingSource
	}

	ctx = logging.WithStr(ctx, "kind", kind.String())
	log := logging.FromContext(ctx)

	batch, err := s.Accumulate(kind, in.Source)
	if err != nil {
		ingestBatches.WithLabelValues(kind.String(), resultRejected).Inc()
		log.Info().Err(err).Msg("batch rejected")
		return nil, err
	}

	if batch.Len() == 0 {
		ingestBatches.WithLabelValues(kind.String(), resultEmpty).Inc()
		log.Info().Msg("no rows admitted")
		return &IngestResult{Kind: kind, Count: 0}, nil
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		n, err := s.gateway.InsertBatch(txCtx, batch)
		if err != nil {
			return err
		}
		if n != int64(batch.Len()) {
			return fmt.Errorf("%w: submitted %d, persisted %d", ErrShortWrite, batch.Len(), n)
		}
		return nil
	}); err != nil {
		ingestBatches.WithLabelValues(kind.String(), resultFailed).Inc()
		log.Error().Err(err).Int("rows", batch.Len()).Msg("batch commit failed")
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	ingestBatches.WithLabelValues(kind.String(), resultCommitted).Inc()
	ingestRows.WithLabelValues(kind.String()).Add(float64(batch.Len()))
	log.Info().Int("rows", batch.Len()).Msg("batch committed")

	event := BatchIngested{Kind: kind, Count: batch.Len(), IngestedAt: s.clock.Now()}
	if err := s.publisher.PublishBatchIngested(ctx, event); err != nil {
		log.Warn().Err(err).Msg("publish batch_ingested failed")
	}

	return &IngestResult{Kind: kind, Count: batch.Len()}, nil
}

// Accumulate はソース全体を読み、受け入れた行だけをファイル順に Batch へ蓄積します。
func (s *Service) Accumulate(kind Kind, src io.Reader) (*Batch, error) {
	reader := NewRowReader(src, kind.Fields())
	batch := NewBatch(kind)

	for {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return batch, nil
		}
		if err != nil {
			return nil, err
		}

		if err := s.admit(batch, row); err != nil {
			return nil, err
		}
	}
}

func (s *Service) admit(batch *Batch, row Row) error {
	switch batch.Kind() {
	case KindDepartment:
		d, err := s.converter.Department(row)
		if err != nil {
			return err
		}
		return batch.AddDepartment(d)
	case KindJob:
		j, err := s.converter.Job(row)
		if err != nil {
			return err
		}
		return batch.AddJob(j)
	case KindEmployee:
		e, ok, err := s.converter.Employee(row)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return batch.AddEmployee(e)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, batch.Kind())
	}
}
