package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"voltcart/internal/delivery/http/response"
	domainerrors "voltcart/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runErrorHandler(t *testing.T, err error) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.HandleHTTPError(err, c)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, body
}

func TestHandleHTTPError_AppError(t *testing.T) {
	rec, body := runErrorHandler(t, domainerrors.ErrProductNotFound)

	assert.Equal(t, domainerrors.ErrProductNotFound.HTTPCode(), rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, domainerrors.ErrProductNotFound.ErrorCode(), body.Error.Code)
	assert.Equal(t, domainerrors.ErrProductNotFound.Message(), body.Message)
}

func TestHandleHTTPError_WrappedAppError(t *testing.T) {
	wrapped := errors.Wrap(domainerrors.ErrForbidden, "order belongs to another user")

	rec, body := runErrorHandler(t, wrapped)

	assert.Equal(t, domainerrors.ErrForbidden.HTTPCode(), rec.Code)
	assert.Equal(t, domainerrors.ErrForbidden.ErrorCode(), body.Error.Code)
}

func TestHandleHTTPError_EchoHTTPError(t *testing.T) {
	rec, body := runErrorHandler(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "HTTP_ERROR", body.Error.Code)
	assert.Equal(t, "Not Found", body.Message)
}

func TestHandleHTTPError_UnknownErrorIsOpaque(t *testing.T) {
	rec, body := runErrorHandler(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	// Internal details never leak into the response.
	assert.NotContains(t, body.Message, "connection refused")
	assert.NotContains(t, body.Error.Details, "connection refused")
}

func TestHandleHTTPError_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, c.NoContent(http.StatusNoContent))

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.HandleHTTPError(errors.New("late failure"), c)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
