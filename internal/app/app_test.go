package app

import (
	"testing"

	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
	"github.com/ogurasousui/hiring-insights/internal/core/ingest"
	"github.com/ogurasousui/hiring-insights/internal/core/report"
	"github.com/ogurasousui/hiring-insights/internal/platform/config"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestOptions_Defaults(t *testing.T) {
	t.Parallel()

	opts, err := IngestOptions(&config.Config{Ingest: config.IngestConfig{TimestampPolicy: config.TimestampPolicySkip}})
	require.NoError(t, err)

	assert.Equal(t, ingest.SkipUnparseable, opts.Timestamps)
	assert.IsType(t, hiring.AnyName{}, opts.DepartmentNames)
	assert.IsType(t, hiring.AnyName{}, opts.JobNames)
}

func TestIngestOptions_Enumerated(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Ingest: config.IngestConfig{TimestampPolicy: config.TimestampPolicyAbort},
		Names: config.NamesConfig{
			Departments: []string{"Supply Chain", "Maintenance", "Staff"},
			Jobs:        []string{"Recruiter", "Manager", "Analyst"},
		},
	}

	opts, err := IngestOptions(cfg)
	require.NoError(t, err)

	assert.Equal(t, ingest.AbortOnUnparseable, opts.Timestamps)
	assert.True(t, opts.DepartmentNames.Allows("Staff"))
	assert.False(t, opts.DepartmentNames.Allows("Legal"))
	assert.True(t, opts.JobNames.Allows("Analyst"))
	assert.False(t, opts.JobNames.Allows("analyst"))
}

func TestIngestOptions_InvalidPolicy(t *testing.T) {
	t.Parallel()

	_, err := IngestOptions(&config.Config{Ingest: config.IngestConfig{TimestampPolicy: "lenient"}})
	assert.Error(t, err)
}

func TestWire_InvalidYearLeavesNothingOpen(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := &config.Config{
		Report: config.ReportConfig{Year: 0},
		Kafka:  config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "hiring.batch-ingested"},
	}

	a := &App{}
	err = a.wire(cfg, ingest.Options{}, mock, zerolog.Nop())
	assert.ErrorIs(t, err, report.ErrInvalidYear)
	assert.Empty(t, a.closers)
	assert.NoError(t, a.Close())
}

func TestWire_KafkaEnabled(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := &config.Config{
		Report: config.ReportConfig{Year: 2021},
		Kafka:  config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "hiring.batch-ingested"},
	}

	a := &App{}
	require.NoError(t, a.wire(cfg, ingest.Options{}, mock, zerolog.Nop()))
	assert.NotNil(t, a.Ingest)
	assert.NotNil(t, a.Reports)
	assert.NotNil(t, a.Roster)
	assert.Equal(t, 2021, a.Reports.Year())
	assert.Len(t, a.closers, 1)
	assert.NoError(t, a.Close())
}
