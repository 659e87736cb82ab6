package postgres

import (
	"context"
	"strings"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

type AnswerRepository struct {
	conn *Conn
}

func NewAnswerRepository(conn *Conn) *AnswerRepository {
	return &AnswerRepository{conn: conn}
}

func (r *AnswerRepository) Create(ctx context.Context, a *entity.Answer) error {
	pool, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}
	id, now := entity.NewID(), entity.Now()
	_, err = pool.Exec(ctx, `
		INSERT INTO answers (id, question_id, content, created_by, is_accepted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, id, a.QuestionID, a.Content, a.CreatedBy, a.IsAccepted, now)
	if err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID string) ([]entity.Answer, error) {
	pool, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `
		SELECT id, question_id, content, created_by, is_accepted, created_at, updated_at
		FROM answers
		WHERE question_id = $1
		ORDER BY created_at DESC, id DESC
	`, strings.ToLower(questionID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []entity.Answer{}
	for rows.Next() {
		var a entity.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Content, &a.CreatedBy, &a.IsAccepted, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ repo.AnswerRepository = (*AnswerRepository)(nil)
