package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "testing")
	t.Setenv("CLERK_JWT_KEY", "")
	t.Setenv("ARCJET_KEY", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsTesting())
	assert.False(t, cfg.ShieldEnabled())
	assert.Equal(t, DefaultSessionCookie, cfg.Auth.SessionCookie)
	assert.Equal(t, DefaultEmailFrom, cfg.Email.From)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, []string{"CATEGORY:SEARCH_ENGINE", "GO_HTTP"}, cfg.Shield.AllowedBots)
	assert.Equal(t, 10, cfg.Security.TransactionCreatePerHour)
	assert.NotNil(t, cfg.Auth.PublicKey)
}

func TestLoad_FromEnvironment(t *testing.T) {
	_, publicKey, err := GenerateRSAKeyPair()
	require.NoError(t, err)
	encoded, err := EncodeRSAPublicKey(publicKey)
	require.NoError(t, err)

	t.Setenv("APP_ENV", "production")
	t.Setenv("CLERK_JWT_KEY", base64.StdEncoding.EncodeToString([]byte(encoded)))
	t.Setenv("CLERK_AUTHORIZED_PARTIES", "https://app.example.com, ,https://admin.example.com")
	t.Setenv("ARCJET_KEY", "ajkey_test")
	t.Setenv("ARCJET_MODE", "dry_run")
	t.Setenv("ARCJET_ALLOWED_BOTS", "CURL")
	t.Setenv("RECURRING_INTERVAL", "15m")
	t.Setenv("RECURRING_ENABLED", "false")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.ShieldEnabled())
	assert.Equal(t, ShieldModeDryRun, cfg.Shield.Mode)
	assert.Equal(t, []string{"CURL"}, cfg.Shield.AllowedBots)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Auth.AuthorizedParties)
	assert.Equal(t, 15*time.Minute, cfg.Recurring.Interval)
	assert.False(t, cfg.Recurring.Enabled)
	assert.Equal(t, 10, cfg.Security.RateLimitBurst)
	assert.Equal(t, publicKey.N, cfg.Auth.PublicKey.N)
}

func TestLoad_ProductionRequiresKey(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CLERK_JWT_KEY", "")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "CLERK_JWT_KEY")
}

func TestParseRSAPublicKey(t *testing.T) {
	_, publicKey, err := GenerateRSAKeyPair()
	require.NoError(t, err)
	encoded, err := EncodeRSAPublicKey(publicKey)
	require.NoError(t, err)

	parsed, err := ParseRSAPublicKey(encoded)
	require.NoError(t, err)
	assert.Equal(t, publicKey.E, parsed.E)

	_, err = ParseRSAPublicKey("!!! not base64")
	assert.Error(t, err)

	_, err = ParseRSAPublicKey(base64.StdEncoding.EncodeToString([]byte("no pem here")))
	assert.ErrorContains(t, err, "PEM block")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", Name: "finance", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=finance sslmode=require", cfg.DSN())
}
