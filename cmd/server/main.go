package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	grpchandler "github.com/ogurasousui/hiring-insights/internal/adapters/grpc/handler"
	httphandler "github.com/ogurasousui/hiring-insights/internal/adapters/http/handler"
	"github.com/ogurasousui/hiring-insights/internal/app"
	"github.com/ogurasousui/hiring-insights/internal/platform/config"
	"github.com/ogurasousui/hiring-insights/internal/platform/httpserver"
	"github.com/ogurasousui/hiring-insights/internal/platform/logging"
	"github.com/ogurasousui/hiring-insights/internal/platform/server"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		log := logging.FromContext(ctx)
		log.Error().Err(err).Msg("server stopped with error")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.Load(config.EffectivePath(configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Human)
	logging.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("close application")
		}
	}()

	httpSrv := httpserver.New(httpserver.Options{
		ListenAddr:   cfg.HTTP.ListenAddr,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ErrorHandler: httphandler.ErrorHandler,
		Middleware:   []echo.MiddlewareFunc{httphandler.RequestLogger(logger)},
	}, logger,
		httphandler.NewHiringHandler(a.Ingest, a.Reports, a.Roster),
		httphandler.NewHealth(a.Pool),
	)

	grpcSrv := server.New(cfg.Server.ListenAddr, grpchandler.NewHiringGrpcHandler(a.Ingest, a.Reports, a.Roster), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTP.ListenAddr).Msg("HTTP server listening")
		return httpSrv.Run(gctx)
	})
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Server.ListenAddr).Int("report_year", cfg.Report.Year).Msg("gRPC server listening")
		return grpcSrv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("servers stopped")
	return nil
}
