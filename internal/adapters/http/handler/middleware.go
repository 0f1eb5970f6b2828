package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/hiring-insights/internal/platform/logging"
	"github.com/rs/zerolog"
)

// RequestLogger はリクエスト ID を払い出し、リクエスト単位のロガーを context に載せて
// 完了時にアクセスログを出力します。
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			res.Header().Set(echo.HeaderXRequestID, id)

			logger := base.With().Str("request_id", id).Logger()
			c.SetRequest(req.WithContext(logging.WithLogger(req.Context(), logger)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			event := logger.Info()
			if res.Status >= 500 {
				event = logger.Error().Err(err)
			} else if res.Status >= 400 {
				event = logger.Warn().Err(err)
			}
			event.
				Str("method", req.Method).
				Str("route", c.Path()).
				Str("uri", req.RequestURI).
				Int("status", res.Status).
				Int64("response_size", res.Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return nil
		}
	}
}
