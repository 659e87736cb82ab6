package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGO_URI", "")
	cfg := Load()

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.DatabaseURL)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "HS256", cfg.JWTSigningMethod)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.EnforceQuestionRefs)
	assert.True(t, cfg.AllowManagerSignup)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/qa?sslmode=disable")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("ENFORCE_QUESTION_REFS", "false")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.EnforceQuestionRefs)
	assert.Equal(t, 10, cfg.BcryptCost, "invalid ints fall back to the default")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())

	d, err := cfg.Driver()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, d)
}

func TestLoad_LegacyMongoURI(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGO_URI", "mongodb+srv://cluster.example/qa")
	cfg := Load()
	d, err := cfg.Driver()
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, d)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Env: "development", DatabaseURL: "mongodb://localhost", JWTSecret: devJWTSecret, CORSAllowedOrigins: "http://localhost:5173"}
	assert.NoError(t, cfg.Validate())

	cfg.Env = "production"
	assert.Error(t, cfg.Validate(), "dev secret outside development")

	cfg.JWTSecret = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.DatabaseURL = "mysql://nope"
	assert.Error(t, cfg.Validate())

	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_CORSOrigins(t *testing.T) {
	cfg := &Config{Env: "development", DatabaseURL: "mongodb://localhost", JWTSecret: devJWTSecret}

	for _, origins := range []string{"", " , ", ",,"} {
		cfg.CORSAllowedOrigins = origins
		assert.Error(t, cfg.Validate(), "%q", origins)
	}

	cfg.CORSAllowedOrigins = "localhost:5173"
	assert.Error(t, cfg.Validate(), "origins need a scheme")

	cfg.CORSAllowedOrigins = "*"
	assert.NoError(t, cfg.Validate())

	cfg.CORSAllowedOrigins = "https://a.example, http://localhost:5173"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BcryptCostOnlyOverriddenOutsideProduction(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")

	t.Setenv("APP_ENV", "test")
	assert.Equal(t, 4, Load().BcryptCost)

	t.Setenv("APP_ENV", "development")
	assert.Equal(t, 4, Load().BcryptCost)

	t.Setenv("APP_ENV", "production")
	assert.Equal(t, 10, Load().BcryptCost)
}
