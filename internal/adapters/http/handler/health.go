package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	pgdb "github.com/ogurasousui/hiring-insights/internal/platform/db/postgres"
)

const readinessTimeout = 2 * time.Second

// Health は liveness / readiness を返します。
type Health struct {
	db pgdb.Pinger
}

// NewHealth は Health を生成します。
func NewHealth(db pgdb.Pinger) *Health {
	return &Health{db: db}
}

// RegisterRoutes はヘルスチェックのルートを登録します。
func (h *Health) RegisterRoutes(e *echo.Echo) {
	e.GET("/health/live", h.Live)
	e.GET("/health/ready", h.Ready)
}

// Live はプロセスが応答可能であることを返します。
func (h *Health) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

// Ready はデータベースへ到達できる場合のみ 200 を返します。
func (h *Health) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.check(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready", "message": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Health) check(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	return pgdb.Check(ctx, h.db, readinessTimeout)
}
