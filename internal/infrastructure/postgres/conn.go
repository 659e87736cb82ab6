// Package postgres implements the repositories on PostgreSQL through pgx.
// Identifiers use the same 24-character hex format as the MongoDB backend.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
	"github.com/oksasatya/qa-community-api/internal/infrastructure/lazyconn"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Conn is the lazily opened pool shared by all repositories.
type Conn = lazyconn.Conn[*pgxpool.Pool]

type Options struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	MaxConnLife    time.Duration
	ConnectTimeout time.Duration
	Logger         *logrus.Logger
}

// NewConn returns an unopened handle. The first repository call applies
// pending migrations and opens the pool.
func NewConn(opts Options) *Conn {
	return lazyconn.New(openFunc(opts), closePool, opts.ConnectTimeout)
}

func openFunc(o Options) lazyconn.OpenFunc[*pgxpool.Pool] {
	return func(ctx context.Context) (*pgxpool.Pool, error) {
		if err := RunMigrations(o.DSN, o.Logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return NewPool(ctx, o.DSN, o.MaxConns, o.MinConns, o.MaxConnLife)
	}
}

func closePool(_ context.Context, pool *pgxpool.Pool) error {
	pool.Close()
	return nil
}

func NewPool(ctx context.Context, dsn string, maxConns, minConns int32, maxConnLife time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if minConns > 0 {
		cfg.MinConns = minConns
	}
	if maxConnLife > 0 {
		cfg.MaxConnLifetime = maxConnLife
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// RunMigrations applies the embedded schema using database/sql with the pgx
// stdlib driver.
func RunMigrations(dsn string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.Info("running migrations...")
	}
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		if logger != nil {
			logger.Info("no migrations to run")
		}
		return nil
	}
	return err
}

// NewRepositories builds every repository over one pool.
func NewRepositories(conn *Conn) repo.Repositories {
	return repo.Repositories{
		Users:     NewUserRepository(conn),
		Questions: NewQuestionRepository(conn),
		Answers:   NewAnswerRepository(conn),
		Insights:  NewInsightRepository(conn),
	}
}
