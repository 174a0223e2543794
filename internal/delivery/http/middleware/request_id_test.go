package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "warden/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware_Process(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	mw := NewRequestIDMiddleware(logger)

	e := echo.New()
	e.Use(mw.Process)
	e.GET("/ping", func(c echo.Context) error {
		// The request-scoped logger planted by the middleware carries the id.
		scoped := deliverycontext.GetLoggerOrDefault(c.Request().Context(), nil)
		require.NotNil(t, scoped)
		scoped.Info("handled")

		return c.NoContent(http.StatusOK)
	})

	t.Run("generates id when absent", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
		assert.Contains(t, buf.String(), "request_id="+rec.Header().Get(deliverycontext.HeaderXRequestID))
	})

	t.Run("echoes client-provided id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(deliverycontext.HeaderXRequestID, "client-req-42")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "client-req-42", rec.Header().Get(deliverycontext.HeaderXRequestID))
		assert.Contains(t, buf.String(), "request_id=client-req-42")
	})
}
