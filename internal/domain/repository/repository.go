package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindAuthors loads the users with the given ids in one round trip.
	// Unknown ids are skipped.
	FindAuthors(ctx context.Context, ids []string) ([]entity.User, error)
}

// QuestionFilter narrows a question listing. Empty fields do not filter.
type QuestionFilter struct {
	Title string // case-insensitive substring
	Tag   string // exact tag membership
}

type QuestionRepository interface {
	Create(ctx context.Context, q *entity.Question) error
	GetByID(ctx context.Context, id string) (*entity.Question, error)
	List(ctx context.Context, f QuestionFilter) ([]entity.Question, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type AnswerRepository interface {
	Create(ctx context.Context, a *entity.Answer) error
	ListByQuestion(ctx context.Context, questionID string) ([]entity.Answer, error)
}

type InsightRepository interface {
	Create(ctx context.Context, i *entity.Insight) error
	List(ctx context.Context) ([]entity.Insight, error)
}

// Repositories bundles one backend's implementations.
type Repositories struct {
	Users     UserRepository
	Questions QuestionRepository
	Answers   AnswerRepository
	Insights  InsightRepository
}
