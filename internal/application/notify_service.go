package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
	"github.com/oksasatya/qa-community-api/pkg/mailer"
	tpl "github.com/oksasatya/qa-community-api/pkg/mailer/templates"
)

// Mailer delivers a rendered email.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// AnswerNotifier emails a question's author when someone else answers it.
type AnswerNotifier struct {
	Questions repo.QuestionRepository
	Users     repo.UserRepository
	Mailer    Mailer
	AppName   string
	AppURL    string
	Logger    *logrus.Logger
}

func NewAnswerNotifier(questions repo.QuestionRepository, users repo.UserRepository, m Mailer, appName, appURL string, logger *logrus.Logger) *AnswerNotifier {
	return &AnswerNotifier{Questions: questions, Users: users, Mailer: m, AppName: appName, AppURL: appURL, Logger: logger}
}

// Handle processes one answer.created event. A nil error with no email sent
// means the event needed no notification; a non-nil error is worth retrying.
func (n *AnswerNotifier) Handle(ctx context.Context, ev AnswerCreatedEvent) error {
	q, err := n.Questions.GetByID(ctx, ev.QuestionID)
	if errors.Is(err, repo.ErrNotFound) {
		n.skip(ev, "question not found")
		return nil
	}
	if err != nil {
		return err
	}
	if q.CreatedBy == ev.CreatedBy {
		n.skip(ev, "author answered own question")
		return nil
	}

	users, err := n.Users.FindAuthors(ctx, []string{q.CreatedBy, ev.CreatedBy})
	if err != nil {
		return err
	}
	var recipientName, recipientEmail, answererName string
	for _, u := range users {
		switch u.ID {
		case q.CreatedBy:
			recipientName, recipientEmail = u.Name, u.Email
		case ev.CreatedBy:
			answererName = u.Name
		}
	}
	if recipientEmail == "" {
		n.skip(ev, "question author not found")
		return nil
	}

	subject, text, html, err := tpl.Render(tpl.AnswerNotification, tpl.AnswerNotificationData{
		AppName:       n.AppName,
		RecipientName: recipientName,
		QuestionTitle: q.Title,
		QuestionURL:   strings.TrimRight(n.AppURL, "/") + "/question/" + q.ID,
		AnswererName:  answererName,
		AnswerExcerpt: ev.Excerpt,
		AnsweredAt:    ev.CreatedAt,
	})
	if err != nil {
		return err
	}
	if err := n.Mailer.Send(ctx, mailer.Message{To: recipientEmail, Subject: subject, Text: text, HTML: html}); err != nil {
		return err
	}
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"answer_id": ev.AnswerID, "question_id": q.ID}).Info("answer notification sent")
	}
	return nil
}

func (n *AnswerNotifier) skip(ev AnswerCreatedEvent, reason string) {
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"answer_id": ev.AnswerID, "reason": reason}).Debug("answer notification skipped")
	}
}
