package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultEmailFrom     = "Finance Tracker <onboarding@resend.dev>"
	DefaultShieldBaseURL = "https://api.arcjet.com"
	DefaultSessionCookie = "__session"

	ShieldModeLive   = "LIVE"
	ShieldModeDryRun = "DRY_RUN"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Shield    ShieldConfig
	Email     EmailConfig
	Recurring RecurringConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

// AuthConfig describes how session tokens issued by the hosted identity
// provider are verified.
type AuthConfig struct {
	PublicKey         *rsa.PublicKey
	Issuer            string
	AuthorizedParties []string
	SessionCookie     string
	ClockSkew         time.Duration
}

type ShieldConfig struct {
	APIKey      string
	BaseURL     string
	Mode        string
	AllowedBots []string
	Timeout     time.Duration
}

type EmailConfig struct {
	APIKey string
	From   string
}

type RecurringConfig struct {
	Enabled    bool
	Interval   time.Duration
	BatchSize  int
	MaxWorkers int
}

type SecurityConfig struct {
	RateLimitPerSecond       int
	RateLimitBurst           int
	TransactionCreatePerHour int
}

func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Host:            getEnv("SERVER_HOST", "localhost"),
			Environment:     getEnv("APP_ENV", "development"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "finance_user"),
			Password:        getEnv("DB_PASSWORD", "finance_password"),
			Name:            getEnv("DB_NAME", "finance_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			MigrationsPath:  getEnv("DB_MIGRATIONS_PATH", "db/migrations"),
		},
		Auth: AuthConfig{
			Issuer:            getEnv("CLERK_ISSUER", ""),
			AuthorizedParties: getListEnv("CLERK_AUTHORIZED_PARTIES"),
			SessionCookie:     getEnv("CLERK_SESSION_COOKIE", DefaultSessionCookie),
			ClockSkew:         getDurationEnv("CLERK_CLOCK_SKEW", 5*time.Second),
		},
		Shield: ShieldConfig{
			APIKey:      getEnv("ARCJET_KEY", ""),
			BaseURL:     getEnv("ARCJET_BASE_URL", DefaultShieldBaseURL),
			Mode:        strings.ToUpper(getEnv("ARCJET_MODE", ShieldModeLive)),
			AllowedBots: []string{"CATEGORY:SEARCH_ENGINE", "GO_HTTP"},
			Timeout:     getDurationEnv("ARCJET_TIMEOUT", 2*time.Second),
		},
		Email: EmailConfig{
			APIKey: getEnv("RESEND_API_KEY", ""),
			From:   getEnv("EMAIL_FROM", DefaultEmailFrom),
		},
		Recurring: RecurringConfig{
			Enabled:    getBoolEnv("RECURRING_ENABLED", true),
			Interval:   getDurationEnv("RECURRING_INTERVAL", time.Hour),
			BatchSize:  getIntEnv("RECURRING_BATCH_SIZE", 100),
			MaxWorkers: getIntEnv("RECURRING_MAX_WORKERS", 4),
		},
		Security: SecurityConfig{
			RateLimitPerSecond:       getIntEnv("RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:           getIntEnv("RATE_LIMIT_BURST", 10),
			TransactionCreatePerHour: getIntEnv("TRANSACTION_CREATE_PER_HOUR", 10),
		},
	}

	if allowed := getListEnv("ARCJET_ALLOWED_BOTS"); len(allowed) > 0 {
		config.Shield.AllowedBots = allowed
	}

	config.Server.CORSAllowOrigins = config.loadCORSAllowOrigins()

	publicKey, err := config.loadSessionPublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to load session verification key: %w", err)
	}
	config.Auth.PublicKey = publicKey

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

// ShieldEnabled reports whether requests should be screened by the shield service.
func (c *Config) ShieldEnabled() bool {
	return c.Shield.APIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadSessionPublicKey loads the identity provider's PEM public key.
// Priority order:
// 1. CLERK_JWT_KEY (raw PEM or base64-encoded PEM)
// 2. production without a key is an error
// 3. development/testing generates a throwaway key so the server can boot
func (c *Config) loadSessionPublicKey() (*rsa.PublicKey, error) {
	raw := os.Getenv("CLERK_JWT_KEY")
	if raw != "" {
		slog.Info("loading session verification key from environment")
		return ParseRSAPublicKey(raw)
	}

	if c.IsProduction() {
		return nil, errors.New("CLERK_JWT_KEY environment variable must be set in production environments")
	}

	slog.Warn("CLERK_JWT_KEY not set, generating a throwaway RSA key; no externally issued session will verify")
	_, publicKey, err := GenerateRSAKeyPair()
	return publicKey, err
}

func (c *Config) loadCORSAllowOrigins() []string {
	origins := getListEnv("CORS_ALLOW_ORIGINS")
	if len(origins) == 0 {
		if c.IsProduction() {
			slog.Warn("CORS_ALLOW_ORIGINS not set in production, defaulting to '*'")
		}
		return []string{"*"}
	}

	slog.Info("CORS allowed origins configured", "origins", origins)
	return origins
}

// GenerateRSAKeyPair generates a new RSA key pair
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	return privateKey, &privateKey.PublicKey, nil
}

// ParseRSAPublicKey accepts a PEM encoded public key, either verbatim or base64 wrapped.
func ParseRSAPublicKey(value string) (*rsa.PublicKey, error) {
	pemData := []byte(value)
	if !strings.Contains(value, "-----BEGIN") {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("failed to decode public key: %w", err)
		}
		pemData = decoded
	}

	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// PKCS1 "RSA PUBLIC KEY" blocks
		rsaKey, pkcs1Err := x509.ParsePKCS1PublicKey(block.Bytes)
		if pkcs1Err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		return rsaKey, nil
	}

	rsaPublicKey, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}

	return rsaPublicKey, nil
}

// EncodeRSAPublicKey renders a public key as a PKIX PEM block.
func EncodeRSAPublicKey(key *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}
