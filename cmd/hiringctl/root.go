package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ogurasousui/hiring-insights/internal/app"
	"github.com/ogurasousui/hiring-insights/internal/platform/config"
	"github.com/ogurasousui/hiring-insights/internal/platform/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "hiringctl",
		Short:         "Ingest hiring CSV batches and print hiring reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	cmd.AddCommand(newIngestCmd(&opts))
	cmd.AddCommand(newReportCmd(&opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}
}

// loadConfig は設定を読み込み、ロガーを初期化した context を返します。
func loadConfig(ctx context.Context, opts *rootOptions) (context.Context, *config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return ctx, nil, withCode(exitUsage, err)
	}
	cfg, err := config.Load(config.EffectivePath(opts.configPath))
	if err != nil {
		return ctx, nil, withCode(exitUsage, err)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger := logging.NewWithWriter(os.Stderr, cfg.Logging.Level, true)
	logging.SetDefault(logger)
	return logging.WithLogger(ctx, logger), cfg, nil
}

func openApp(ctx context.Context, cfg *config.Config) (*app.App, error) {
	a, err := app.New(ctx, cfg, logging.FromContext(ctx))
	if err != nil {
		return nil, withCode(exitDB, err)
	}
	return a, nil
}
