package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finance-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
		reused  bool
	}{
		{name: "no header", inbound: "", reused: false},
		{name: "caller uuid", inbound: "0d5e3c2a-7a4b-4b8e-9f61-2f1c0c8f9a10", reused: true},
		{name: "caller token", inbound: "web_client-42abc", reused: true},
		{name: "too short", inbound: "abc", reused: false},
		{name: "too long", inbound: strings.Repeat("a", 65), reused: false},
		{name: "log injection", inbound: "abc123\nlevel=ERROR", reused: false},
		{name: "spaces", inbound: "trace id with spaces", reused: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.inbound != "" {
				req.Header.Set(TraceIDHeader, tt.inbound)
			}
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			var fromEcho, fromRequest string
			handler := RequestID()(func(c echo.Context) error {
				fromEcho = GetTraceID(c)
				fromRequest, _ = c.Request().Context().Value(services.RequestIDKey).(string)
				return c.NoContent(http.StatusOK)
			})
			require.NoError(t, handler(c))

			header := rec.Header().Get(TraceIDHeader)
			assert.Equal(t, header, fromEcho)
			assert.Equal(t, header, fromRequest)

			if tt.reused {
				assert.Equal(t, tt.inbound, header)
				return
			}
			_, err := uuid.Parse(header)
			assert.NoError(t, err, "generated trace id should be a uuid")
		})
	}
}

func TestGetTraceID_OutsideMiddleware(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, GetTraceID(c))

	c.Set(TraceIDContextKey, 42)
	assert.Empty(t, GetTraceID(c))
}
