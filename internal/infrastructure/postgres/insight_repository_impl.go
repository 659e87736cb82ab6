package postgres

import (
	"context"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

type InsightRepository struct {
	conn *Conn
}

func NewInsightRepository(conn *Conn) *InsightRepository {
	return &InsightRepository{conn: conn}
}

func (r *InsightRepository) Create(ctx context.Context, i *entity.Insight) error {
	pool, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}
	id, now := entity.NewID(), entity.Now()
	_, err = pool.Exec(ctx, `
		INSERT INTO insights (id, question_id, summary, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, id, i.QuestionID, i.Summary, i.CreatedBy, now)
	if err != nil {
		return err
	}
	i.ID, i.CreatedAt, i.UpdatedAt = id, now, now
	return nil
}

func (r *InsightRepository) List(ctx context.Context) ([]entity.Insight, error) {
	pool, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `
		SELECT id, question_id, summary, created_by, created_at, updated_at
		FROM insights
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []entity.Insight{}
	for rows.Next() {
		var i entity.Insight
		if err := rows.Scan(&i.ID, &i.QuestionID, &i.Summary, &i.CreatedBy, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

var _ repo.InsightRepository = (*InsightRepository)(nil)
