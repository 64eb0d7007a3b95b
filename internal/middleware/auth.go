package middleware

import (
	stderrors "errors"
	"log/slog"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// RequireSession verifies the identity provider's session token, taken from
// the Authorization header or else the session cookie, and resolves it to a
// local user. The user is created on first sight.
func RequireSession(
	verifier services.SessionVerifierInterface,
	userRepo repositories.UserRepositoryInterface,
	cookieName string,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := sessionToken(c, verifier, cookieName)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidSession)
			}
			if token == "" {
				return handlers.SendError(c, errors.AuthMissingSession)
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if stderrors.Is(err, services.ErrExpiredToken) {
					return handlers.SendError(c, errors.AuthExpiredSession)
				}
				return handlers.SendError(c, errors.AuthInvalidSession)
			}

			user, err := userRepo.EnsureUser(&models.User{
				ExternalID: claims.Subject,
				Email:      claims.Email,
				Name:       claims.Name,
				ImageURL:   claims.ImageURL,
			})
			if err != nil {
				if stderrors.Is(err, models.ErrExternalIDRequired) || stderrors.Is(err, models.ErrInvalidEmail) {
					return handlers.SendError(c, errors.AuthInvalidSession)
				}
				slog.ErrorContext(c.Request().Context(), "failed to resolve session user",
					"subject", claims.Subject,
					"error", err,
				)
				return handlers.SendSystemError(c, err)
			}

			c.Set("user_id", user.ID)
			c.Set("user_email", user.Email)
			c.Set("session_id", claims.SessionID)

			req := c.Request()
			ctx := services.WithClientInfo(req.Context(), c.RealIP(), req.UserAgent())
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

// sessionToken returns "" when the request carries no session at all.
func sessionToken(c echo.Context, verifier services.SessionVerifierInterface, cookieName string) (string, error) {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		return verifier.ExtractTokenFromHeader(header)
	}

	if cookieName == "" {
		return "", nil
	}
	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return "", nil
	}
	return cookie.Value, nil
}
