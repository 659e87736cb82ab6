package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

// QuestionChecker confirms a referenced question exists.
type QuestionChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type QuestionService struct {
	Questions repo.QuestionRepository
	Authors   *AuthorResolver
	Events    EventPublisher
	Logger    *logrus.Logger
}

func NewQuestionService(questions repo.QuestionRepository, authors *AuthorResolver, events EventPublisher, logger *logrus.Logger) *QuestionService {
	return &QuestionService{Questions: questions, Authors: authors, Events: events, Logger: logger}
}

type CreateQuestionInput struct {
	Title       string
	Description string
	Tags        []string
}

// QuestionView is a question with its creator populated. Author is nil when
// the creator no longer exists.
type QuestionView struct {
	entity.Question
	Author *entity.Author
}

func (s *QuestionService) Create(ctx context.Context, creatorID string, in CreateQuestionInput) (*entity.Question, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ValidationError("title is required")
	}
	q := &entity.Question{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Tags:        normalizeTags(in.Tags),
		CreatedBy:   creatorID,
	}
	if err := s.Questions.Create(ctx, q); err != nil {
		return nil, err
	}
	publish(ctx, s.Events, s.Logger, EventQuestionCreated, QuestionCreatedEvent{
		QuestionID: q.ID, Title: q.Title, Tags: q.Tags, CreatedBy: q.CreatedBy, CreatedAt: q.CreatedAt,
	})
	return q, nil
}

// List returns questions newest first, creators populated with name and email.
func (s *QuestionService) List(ctx context.Context, f repo.QuestionFilter) ([]QuestionView, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Tag = strings.TrimSpace(f.Tag)
	qs, err := s.Questions.List(ctx, f)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(qs))
	for i := range qs {
		ids[i] = qs[i].CreatedBy
	}
	authors, err := s.Authors.Resolve(ctx, ids, true)
	if err != nil {
		return nil, err
	}
	out := make([]QuestionView, len(qs))
	for i := range qs {
		out[i] = QuestionView{Question: qs[i], Author: authorOf(authors, qs[i].CreatedBy)}
	}
	return out, nil
}

// Get loads one question. A malformed id is a validation failure, distinct
// from a well-formed id that matches nothing.
func (s *QuestionService) Get(ctx context.Context, id string) (*QuestionView, error) {
	id, ok := entity.NormalizeID(id)
	if !ok {
		return nil, ErrInvalidQuestionID
	}
	q, err := s.Questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	authors, err := s.Authors.Resolve(ctx, []string{q.CreatedBy}, true)
	if err != nil {
		return nil, err
	}
	return &QuestionView{Question: *q, Author: authorOf(authors, q.CreatedBy)}, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// requireQuestion validates a questionId reference and returns it
// normalized. With a nil checker any well-formed id is accepted.
func requireQuestion(ctx context.Context, checker QuestionChecker, id string) (string, error) {
	id, ok := entity.NormalizeID(id)
	if !ok {
		return "", ErrInvalidQuestionID
	}
	if checker == nil {
		return id, nil
	}
	exists, err := checker.Exists(ctx, id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrMissingQuestion
	}
	return id, nil
}
