package services

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"slices"
	"strings"

	"finance-tracker/internal/config"
	"finance-tracker/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken           = errors.New("invalid token")
	ErrExpiredToken           = errors.New("token is expired")
	ErrInvalidIssuer          = errors.New("invalid issuer")
	ErrUnauthorizedParty      = errors.New("token issued for an unauthorized party")
	ErrMissingSubject         = errors.New("token has no subject")
	ErrEmptyToken             = errors.New("empty token")
	ErrInvalidAuthHeader      = errors.New("invalid authorization header format")
	ErrSessionKeyNotAvailable = errors.New("session verification key not configured")
)

// SessionVerifier validates session tokens issued by the hosted identity
// provider. Tokens are never minted here.
type SessionVerifier struct {
	publicKey         *rsa.PublicKey
	issuer            string
	authorizedParties []string
	parser            *jwt.Parser
}

func NewSessionVerifier(cfg config.AuthConfig) SessionVerifierInterface {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithLeeway(cfg.ClockSkew),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &SessionVerifier{
		publicKey:         cfg.PublicKey,
		issuer:            cfg.Issuer,
		authorizedParties: cfg.AuthorizedParties,
		parser:            jwt.NewParser(opts...),
	}
}

// Verify checks the signature, expiry, issuer and authorized party of a
// session token and returns its claims.
func (v *SessionVerifier) Verify(tokenString string) (*models.SessionClaims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}
	if v.publicKey == nil {
		return nil, ErrSessionKeyNotAvailable
	}

	claims := &models.SessionClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		return nil, v.mapTokenError(err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	// azp is only present on browser sessions
	if claims.AuthorizedParty != "" && len(v.authorizedParties) > 0 &&
		!slices.Contains(v.authorizedParties, claims.AuthorizedParty) {
		return nil, ErrUnauthorizedParty
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts the JWT token from the Authorization header
func (v *SessionVerifier) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidAuthHeader
	}

	const bearerPrefix = "bearer "
	if !strings.HasPrefix(strings.ToLower(authHeader), bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", ErrInvalidAuthHeader
	}

	return token, nil
}

func (v *SessionVerifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.publicKey, nil
}

func (v *SessionVerifier) mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrInvalidIssuer
	default:
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
}
