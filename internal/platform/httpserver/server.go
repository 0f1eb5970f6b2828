// Package httpserver は echo による HTTP サーバーのライフサイクルを管理します。
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// Router はルートを登録できるハンドラーです。
type Router interface {
	RegisterRoutes(e *echo.Echo)
}

// Options は Server の設定です。
type Options struct {
	ListenAddr   string
	BodyLimit    string
	ErrorHandler echo.HTTPErrorHandler
	Middleware   []echo.MiddlewareFunc
}

// Server は echo インスタンスをラップします。
type Server struct {
	listenAddr string
	echo       *echo.Echo
	logger     zerolog.Logger
}

// New は routers を登録した Server を生成します。/metrics は常に登録されます。
func New(opts Options, logger zerolog.Logger, routers ...Router) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if opts.ErrorHandler != nil {
		e.HTTPErrorHandler = opts.ErrorHandler
	}

	e.Use(middleware.Recover())
	e.Use(opts.Middleware...)
	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	for _, r := range routers {
		r.RegisterRoutes(e)
	}

	return &Server{listenAddr: opts.ListenAddr, echo: e, logger: logger}
}

// Handler はテスト用に http.Handler を返します。
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run はサーバーを起動し、コンテキストがキャンセルされると Shutdown します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は lis で待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.echo.Listener = lis

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start("")
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("http server shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown HTTP: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}
	return nil
}
