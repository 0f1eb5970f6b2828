// Package app は設定からコアサービスとその依存を組み立てます。
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/hiring-insights/internal/adapters/events/kafka"
	"github.com/ogurasousui/hiring-insights/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
	"github.com/ogurasousui/hiring-insights/internal/core/ingest"
	"github.com/ogurasousui/hiring-insights/internal/core/report"
	"github.com/ogurasousui/hiring-insights/internal/platform/config"
	pg "github.com/ogurasousui/hiring-insights/internal/platform/db/postgres"
	"github.com/rs/zerolog"
)

// App は組み立て済みのサービス群です。
type App struct {
	Pool    *pgxpool.Pool
	Ingest  *ingest.Service
	Reports *report.Service
	Roster  *hiring.Service

	closers []func() error
}

// New はデータベースへ接続し、サービスを組み立てます。
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	opts, err := IngestOptions(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pg.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize database pool: %w", err)
	}

	a := &App{Pool: pool}
	if err := a.wire(cfg, opts, pool, logger); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// database は App が必要とするプールの操作です。
type database interface {
	pg.Queryer
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

func (a *App) wire(cfg *config.Config, opts ingest.Options, db database, logger zerolog.Logger) error {
	tx := pg.NewTransactionManager(db)

	reports, err := report.NewService(postgres.NewReportRepository(db), tx, cfg.Report.Year)
	if err != nil {
		return err
	}

	if cfg.Kafka.Enabled {
		pub := kafka.NewPublisher(kafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		opts.Publisher = pub
		a.closers = append(a.closers, pub.Close)
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka publisher enabled")
	}

	a.Ingest = ingest.NewService(postgres.NewBatchRepository(db), tx, opts)
	a.Reports = reports
	a.Roster = hiring.NewService(postgres.NewRosterRepository(db), tx)
	return nil
}

// IngestOptions は設定から取り込みのポリシーを組み立てます。
func IngestOptions(cfg *config.Config) (ingest.Options, error) {
	timestamps, err := ingest.ParseTimestampPolicy(cfg.Ingest.TimestampPolicy)
	if err != nil {
		return ingest.Options{}, err
	}
	return ingest.Options{
		DepartmentNames: hiring.PolicyFor(cfg.Names.Departments),
		JobNames:        hiring.PolicyFor(cfg.Names.Jobs),
		Timestamps:      timestamps,
	}, nil
}

// Close は外部接続を閉じます。
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	return firstErr
}
