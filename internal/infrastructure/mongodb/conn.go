// Package mongodb implements the repositories on MongoDB. Documents keep the
// field names of the existing collections: users, questions, answers and
// insights with camelCase keys and ObjectID references.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
	"github.com/oksasatya/qa-community-api/internal/infrastructure/lazyconn"
)

const (
	usersCollection     = "users"
	questionsCollection = "questions"
	answersCollection   = "answers"
	insightsCollection  = "insights"
)

// Conn is the lazily opened database handle shared by all repositories.
type Conn = lazyconn.Conn[*mongo.Database]

type Options struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
}

// NewConn returns an unopened handle. The first repository call connects,
// pings the primary and ensures indexes.
func NewConn(opts Options) *Conn {
	return lazyconn.New(openFunc(opts), closeDatabase, opts.ConnectTimeout)
}

func openFunc(o Options) lazyconn.OpenFunc[*mongo.Database] {
	return func(ctx context.Context) (*mongo.Database, error) {
		co := options.Client().ApplyURI(o.URI)
		if o.MaxPoolSize > 0 {
			co.SetMaxPoolSize(o.MaxPoolSize)
		}
		if o.MinPoolSize > 0 {
			co.SetMinPoolSize(o.MinPoolSize)
		}
		if o.ConnectTimeout > 0 {
			co.SetConnectTimeout(o.ConnectTimeout)
			co.SetServerSelectionTimeout(o.ConnectTimeout)
		}
		client, err := mongo.Connect(ctx, co)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ping mongodb: %w", err)
		}
		db := client.Database(o.Database)
		if err := EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return db, nil
	}
}

func closeDatabase(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes the queries rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
		},
		questionsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, Options: options.Index().SetName("idx_created")},
			{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("idx_tags")},
		},
		answersCollection: {
			{Keys: bson.D{{Key: "questionId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_question_created")},
		},
		insightsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, Options: options.Index().SetName("idx_created")},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", coll, err)
		}
	}
	return nil
}

// NewRepositories builds every repository over one connection.
func NewRepositories(conn *Conn) repo.Repositories {
	return repo.Repositories{
		Users:     NewUserRepository(conn),
		Questions: NewQuestionRepository(conn),
		Answers:   NewAnswerRepository(conn),
		Insights:  NewInsightRepository(conn),
	}
}

// newestFirst is the sort every listing uses.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func collection(ctx context.Context, conn *Conn, name string) (*mongo.Collection, error) {
	db, err := conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}
