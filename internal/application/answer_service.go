package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

type AnswerService struct {
	Answers   repo.AnswerRepository
	Questions QuestionChecker // nil accepts dangling questionIds
	Authors   *AuthorResolver
	Events    EventPublisher
	Logger    *logrus.Logger
}

func NewAnswerService(answers repo.AnswerRepository, questions QuestionChecker, authors *AuthorResolver, events EventPublisher, logger *logrus.Logger) *AnswerService {
	return &AnswerService{Answers: answers, Questions: questions, Authors: authors, Events: events, Logger: logger}
}

type CreateAnswerInput struct {
	QuestionID string
	Content    string
}

type AnswerView struct {
	entity.Answer
	Author *entity.Author
}

func (s *AnswerService) Create(ctx context.Context, creatorID string, in CreateAnswerInput) (*entity.Answer, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ValidationError("content is required")
	}
	qid, err := requireQuestion(ctx, s.Questions, in.QuestionID)
	if err != nil {
		return nil, err
	}
	a := &entity.Answer{QuestionID: qid, Content: content, CreatedBy: creatorID}
	if err := s.Answers.Create(ctx, a); err != nil {
		return nil, err
	}
	publish(ctx, s.Events, s.Logger, EventAnswerCreated, AnswerCreatedEvent{
		AnswerID: a.ID, QuestionID: a.QuestionID, CreatedBy: a.CreatedBy,
		Excerpt: excerpt(a.Content, 280), CreatedAt: a.CreatedAt,
	})
	return a, nil
}

// ListByQuestion returns the answers to one question, newest first, with
// creator names populated.
func (s *AnswerService) ListByQuestion(ctx context.Context, questionID string) ([]AnswerView, error) {
	questionID, ok := entity.NormalizeID(questionID)
	if !ok {
		return nil, ErrInvalidQuestionID
	}
	as, err := s.Answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(as))
	for i := range as {
		ids[i] = as[i].CreatedBy
	}
	authors, err := s.Authors.Resolve(ctx, ids, false)
	if err != nil {
		return nil, err
	}
	out := make([]AnswerView, len(as))
	for i := range as {
		out[i] = AnswerView{Answer: as[i], Author: authorOf(authors, as[i].CreatedBy)}
	}
	return out, nil
}
