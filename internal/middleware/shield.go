package middleware

import (
	"log/slog"
	"strings"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// forwardedHeaders are the request headers the shield uses for bot detection.
var forwardedHeaders = []string{
	"Accept",
	"Accept-Encoding",
	"Accept-Language",
	"User-Agent",
	"Referer",
	"Sec-Ch-Ua",
	"Sec-Fetch-Mode",
}

// Shield screens every request with the shield service. Only a blocking
// decision stops the request; a nil service disables screening.
func Shield(shield services.ShieldServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if shield == nil {
			return next
		}

		return func(c echo.Context) error {
			req := c.Request()

			decision, err := shield.Decide(req.Context(), shieldDetails(c))
			if err != nil {
				slog.WarnContext(req.Context(), "shield check abandoned", "error", err)
				return err
			}

			c.Set("shield_decision", decision)
			if !decision.Allowed {
				return handlers.SendError(c, errors.AuthRequestBlocked)
			}

			return next(c)
		}
	}
}

func shieldDetails(c echo.Context) dto.ShieldRequestDetails {
	req := c.Request()

	headers := make(map[string]string, len(forwardedHeaders))
	for _, name := range forwardedHeaders {
		if v := req.Header.Get(name); v != "" {
			headers[strings.ToLower(name)] = v
		}
	}

	protocol := "http"
	if c.IsTLS() || strings.EqualFold(req.Header.Get(echo.HeaderXForwardedProto), "https") {
		protocol = "https"
	}

	return dto.ShieldRequestDetails{
		IP:        c.RealIP(),
		Method:    req.Method,
		Protocol:  protocol,
		Host:      req.Host,
		Path:      req.URL.Path,
		Headers:   headers,
		UserAgent: req.UserAgent(),
	}
}

