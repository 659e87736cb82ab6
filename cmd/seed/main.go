package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/qa-community-api/config"
	"github.com/oksasatya/qa-community-api/internal/application"
	"github.com/oksasatya/qa-community-api/internal/container"
	"github.com/oksasatya/qa-community-api/pkg/helpers"
)

// Seeds a manager account, which /auth/register may refuse to create
// when ALLOW_MANAGER_SIGNUP=false.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.SeedManagerEmail == "" || cfg.SeedManagerPassword == "" {
		log.Fatal("SEED_MANAGER_EMAIL and SEED_MANAGER_PASSWORD are required")
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	// Register is the only path that creates users; let it through for this run.
	cfg.AllowManagerSignup = true
	cfg.RabbitMQURL = ""

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() { _ = c.Close(ctx) }()

	res, err := c.Auth.Register(ctx, application.RegisterInput{
		Name:     cfg.SeedManagerName,
		Email:    cfg.SeedManagerEmail,
		Password: cfg.SeedManagerPassword,
		Role:     "manager",
	})
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		logger.Infof("manager %s already exists", cfg.SeedManagerEmail)
	case err != nil:
		logger.Fatalf("failed to seed manager: %v", err)
	default:
		logger.Infof("seeded manager: id=%s email=%s", res.User.ID, res.User.Email)
	}
}
