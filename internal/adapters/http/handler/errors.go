package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
	"github.com/ogurasousui/hiring-insights/internal/core/ingest"
)

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

// toHTTPError はドメインエラーを HTTP ステータスへ変換します。
// 永続化エラーは原因が名前制約違反でも 500 とするため、行エラーより先に判定します。
func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &he):
		return he
	case errors.Is(err, ingest.ErrUnsupportedKind),
		errors.Is(err, ingest.ErrMissingSource),
		errors.Is(err, hiring.ErrInvalidID) && !errors.Is(err, ingest.ErrRowConstruction):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, ingest.ErrPersistence):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	case errors.Is(err, ingest.ErrRowConstruction):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()).SetInternal(err)
	case errors.Is(err, hiring.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}

// ErrorHandler は echo の HTTPErrorHandler です。{"detail": ...} 形式で返します。
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := toHTTPError(err)
	detail := http.StatusText(he.Code)
	if msg, ok := he.Message.(string); ok && msg != "" {
		detail = msg
	}

	body := ErrorResponse{
		Detail:    detail,
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(he.Code)
	} else {
		werr = c.JSON(he.Code, body)
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}
