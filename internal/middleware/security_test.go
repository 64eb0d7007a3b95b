package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	want := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"X-XSS-Protection":          "1; mode=block",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Permissions-Policy":        "geolocation=(), microphone=(), camera=()",
		"Cache-Control":             "no-store, no-cache, must-revalidate, private",
		"Pragma":                    "no-cache",
		"Expires":                   "0",
	}

	responses := []struct {
		name        string
		target      string
		respond     echo.HandlerFunc
		contentType string
	}{
		{
			name:   "account balances",
			target: "/api/v1/accounts",
			respond: func(c echo.Context) error {
				return c.JSON(http.StatusOK, map[string]string{"balance": "1250.00"})
			},
			contentType: echo.MIMEApplicationJSON,
		},
		{
			name:   "statement pdf",
			target: "/api/v1/accounts/x/statement",
			respond: func(c echo.Context) error {
				return c.Blob(http.StatusOK, "application/pdf", []byte("%PDF-1.3"))
			},
			contentType: "application/pdf",
		},
		{
			name:   "error response",
			target: "/api/v1/transactions/missing",
			respond: func(c echo.Context) error {
				return c.JSON(http.StatusNotFound, map[string]bool{"success": false})
			},
			contentType: echo.MIMEApplicationJSON,
		},
	}

	for _, tt := range responses {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, tt.target, nil), rec)

			called := false
			handler := SecurityHeaders()(func(c echo.Context) error {
				called = true
				return tt.respond(c)
			})

			require.NoError(t, handler(c))
			assert.True(t, called)
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), tt.contentType)
			for header, value := range want {
				assert.Equal(t, value, rec.Header().Get(header), header)
			}
		})
	}
}
