// Package container builds the process-wide components once and hands them
// to the router and commands. Nothing here is global: main owns the value.
package container

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/qa-community-api/config"
	"github.com/oksasatya/qa-community-api/internal/application"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
	"github.com/oksasatya/qa-community-api/internal/infrastructure/cache"
	"github.com/oksasatya/qa-community-api/internal/infrastructure/mongodb"
	"github.com/oksasatya/qa-community-api/internal/infrastructure/postgres"
	"github.com/oksasatya/qa-community-api/pkg/helpers"
)

type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Repos   repo.Repositories
	Tokens  *helpers.TokenManager
	Metrics *prometheus.Registry

	Redis     *redis.Client            // nil when REDIS_ADDR is empty
	Publisher *helpers.RabbitPublisher // nil when RABBITMQ_URL is empty or unreachable

	Auth      *application.AuthService
	Authors   *application.AuthorResolver
	Questions *application.QuestionService
	Answers   *application.AnswerService
	Insights  *application.InsightService

	// DatabaseReady reports whether the lazy connection has been opened.
	DatabaseReady func() bool

	closers []func(context.Context) error
}

// New connects the optional clients and prepares the lazily opened store
// selected by DATABASE_URL. The database itself is opened on first use.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	driver, err := cfg.Driver()
	if err != nil {
		return nil, err
	}
	switch driver {
	case config.DriverMongo:
		conn := mongodb.NewConn(mongodb.Options{
			URI:            cfg.DatabaseURL,
			Database:       cfg.DatabaseName,
			MaxPoolSize:    uint64(max(cfg.DBMaxConns, 0)),
			MinPoolSize:    uint64(max(cfg.DBMinConns, 0)),
			ConnectTimeout: cfg.DBConnectTimeout,
		})
		c.Repos = mongodb.NewRepositories(conn)
		c.DatabaseReady = conn.Opened
		c.closers = append(c.closers, conn.Close)
	case config.DriverPostgres:
		conn := postgres.NewConn(postgres.Options{
			DSN:            cfg.DatabaseURL,
			MaxConns:       cfg.DBMaxConns,
			MinConns:       cfg.DBMinConns,
			MaxConnLife:    cfg.DBMaxConnLife,
			ConnectTimeout: cfg.DBConnectTimeout,
			Logger:         logger,
		})
		c.Repos = postgres.NewRepositories(conn)
		c.DatabaseReady = conn.Opened
		c.closers = append(c.closers, conn.Close)
	}

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb, 3*time.Second); err != nil {
			logger.WithError(err).Warn("redis unreachable; author cache disabled")
			_ = rdb.Close()
		} else {
			c.Redis = rdb
			c.closers = append(c.closers, func(context.Context) error { return rdb.Close() })
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unreachable; domain events disabled")
		} else {
			c.Publisher = pub
			c.closers = append(c.closers, func(context.Context) error { pub.Close(); return nil })
		}
	}

	if err := c.wire(); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	return c, nil
}

// NewWithRepositories wires services over the given repositories without
// any external clients. Tests and tools use it with in-memory stores.
func NewWithRepositories(cfg *config.Config, logger *logrus.Logger, repos repo.Repositories) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, Repos: repos, DatabaseReady: func() bool { return true }}
	if err := c.wire(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) wire() error {
	tokens, err := helpers.NewTokenManager(c.Config.JWTSecret, c.Config.JWTSigningMethod, c.Config.JWTTTL)
	if err != nil {
		return err
	}
	c.Tokens = tokens

	c.Metrics = prometheus.NewRegistry()
	c.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Optional collaborators stay untyped nil when absent so the services'
	// nil checks see them as missing.
	var authorCache application.AuthorCache
	if c.Redis != nil {
		authorCache = cache.NewAuthorCache(c.Redis, c.Config.AuthorCacheTTL)
	}
	var events application.EventPublisher
	if c.Publisher != nil {
		events = c.Publisher
	}
	var checker application.QuestionChecker
	if c.Config.EnforceQuestionRefs {
		checker = c.Repos.Questions
	}

	c.Auth = application.NewAuthService(c.Repos.Users, tokens, c.Logger, c.Config.BcryptCost, c.Config.AllowManagerSignup)
	c.Authors = application.NewAuthorResolver(c.Repos.Users, authorCache, c.Logger)
	c.Questions = application.NewQuestionService(c.Repos.Questions, c.Authors, events, c.Logger)
	c.Answers = application.NewAnswerService(c.Repos.Answers, checker, c.Authors, events, c.Logger)
	c.Insights = application.NewInsightService(c.Repos.Insights, checker, c.Authors, events, c.Logger)
	return nil
}

// Close releases everything New opened, in reverse order.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
