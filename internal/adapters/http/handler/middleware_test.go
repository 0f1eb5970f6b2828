package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/hiring-insights/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info", false)))

	var ctxHasLogger bool
	e.GET("/ping", func(c echo.Context) error {
		log := logging.FromContext(c.Request().Context())
		log.Info().Msg("inside")
		ctxHasLogger = true
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, ctxHasLogger)
	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &access))
	assert.Equal(t, "req-123", inner["request_id"])
	assert.Equal(t, "request", access["message"])
	assert.Equal(t, "/ping", access["route"])
	assert.Equal(t, float64(http.StatusNoContent), access["status"])
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info", false)))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), body.RequestID)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	e := echo.New()
	NewHealth(stubPinger{}).RegisterRoutes(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_NotReady(t *testing.T) {
	t.Parallel()

	e := echo.New()
	NewHealth(stubPinger{err: errors.New("connection refused")}).RegisterRoutes(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
