package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Driver identifies the persistence backend selected by DATABASE_URL.
type Driver string

const (
	DriverMongo    Driver = "mongo"
	DriverPostgres Driver = "postgres"
)

const devJWTSecret = "devsecret"

// defaultBcryptCost is ten salt rounds, the stored-hash format every
// environment shares.
const defaultBcryptCost = 10

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Database. The scheme of DatabaseURL picks the backend:
	// mongodb:// or mongodb+srv:// for MongoDB, postgres:// for PostgreSQL.
	DatabaseURL      string
	DatabaseName     string // MongoDB database name
	DBMaxConns       int32
	DBMinConns       int32
	DBMaxConnLife    time.Duration
	DBConnectTimeout time.Duration

	// Redis (author cache). Empty address disables the cache.
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	AuthorCacheTTL time.Duration

	// JWT
	JWTSecret        string
	JWTSigningMethod string
	JWTTTL           time.Duration

	BcryptCost int

	// CORS
	CORSAllowedOrigins string // comma-separated

	// RabbitMQ. Empty URL disables domain events.
	RabbitMQURL         string
	RabbitMQExchange    string
	RabbitMQNotifyQueue string

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// Email sending toggle
	MailSendEnabled bool

	// Public URL of the web client, used for links in emails
	AppURL string

	// Prometheus metrics on /api/debug/metrics
	DebugMetricsEnabled bool

	// HTTP access log toggle
	HTTPLogEnabled bool

	// Read the client address from CF-Connecting-IP / X-Forwarded-For
	TrustProxyHeaders bool

	// Reject answers/insights whose questionId does not exist
	EnforceQuestionRefs bool

	// Let /auth/register create manager accounts
	AllowManagerSignup bool

	// cmd/seed
	SeedManagerName     string
	SeedManagerEmail    string
	SeedManagerPassword string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	env := getenv("APP_ENV", "development")
	return &Config{
		AppName: getenv("APP_NAME", "qa-community-api"),
		Env:     env,
		Port:    getenv("PORT", "5001"),
		GinMode: getenv("GIN_MODE", "release"),

		DatabaseURL:      getenv("DATABASE_URL", getenv("MONGO_URI", "mongodb://localhost:27017")),
		DatabaseName:     getenv("DATABASE_NAME", "qa"),
		DBMaxConns:       int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:       int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife:    getdur("DB_MAX_CONN_LIFETIME", time.Hour),
		DBConnectTimeout: getdur("DB_CONNECT_TIMEOUT", 10*time.Second),

		RedisAddr:      getenv("REDIS_ADDR", ""),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		RedisDB:        getint("REDIS_DB", 0),
		AuthorCacheTTL: getdur("AUTHOR_CACHE_TTL", 10*time.Minute),

		JWTSecret:        getenv("JWT_SECRET", devJWTSecret),
		JWTSigningMethod: getenv("JWT_SIGNING_METHOD", "HS256"),
		JWTTTL:           getdur("JWT_TTL", 168*time.Hour),

		BcryptCost: bcryptCost(env),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		RabbitMQURL:         getenv("RABBITMQ_URL", ""),
		RabbitMQExchange:    getenv("RABBITMQ_EXCHANGE", "qa.events"),
		RabbitMQNotifyQueue: getenv("RABBITMQ_NOTIFY_QUEUE", "qa.answer-notifications"),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		MailSendEnabled: getbool("MAIL_SEND_ENABLED", false),

		AppURL: getenv("APP_URL", "http://localhost:5173"),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", true),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),

		TrustProxyHeaders: getbool("TRUST_PROXY_HEADERS", false),

		EnforceQuestionRefs: getbool("ENFORCE_QUESTION_REFS", true),

		AllowManagerSignup: getbool("ALLOW_MANAGER_SIGNUP", true),

		SeedManagerName:     getenv("SEED_MANAGER_NAME", "Manager"),
		SeedManagerEmail:    getenv("SEED_MANAGER_EMAIL", ""),
		SeedManagerPassword: getenv("SEED_MANAGER_PASSWORD", ""),
	}
}

// bcryptCost honours BCRYPT_COST only in development and test, where a low
// cost keeps suites fast. Other environments always hash at the default.
func bcryptCost(env string) int {
	cost := getint("BCRYPT_COST", defaultBcryptCost)
	if cost != defaultBcryptCost && env != "development" && env != "test" {
		log.Printf("BCRYPT_COST ignored in %s, using %d", env, defaultBcryptCost)
		return defaultBcryptCost
	}
	return cost
}

// Validate rejects configurations that must not reach a shared environment.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if _, err := c.Driver(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Env != "development" && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be set outside development")
	}
	origins := c.CORSOrigins()
	if len(origins) == 0 {
		return errors.New("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	for _, o := range origins {
		if o == "*" {
			continue
		}
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS: %q must start with http:// or https://", o)
		}
	}
	return nil
}

// Driver derives the backend from the DatabaseURL scheme.
func (c *Config) Driver() (Driver, error) {
	u := strings.ToLower(c.DatabaseURL)
	switch {
	case strings.HasPrefix(u, "mongodb://"), strings.HasPrefix(u, "mongodb+srv://"):
		return DriverMongo, nil
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres, nil
	}
	return "", errors.New("DATABASE_URL must start with mongodb://, mongodb+srv:// or postgres://")
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
