package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

type QuestionRepository struct {
	conn *Conn
}

func NewQuestionRepository(conn *Conn) *QuestionRepository {
	return &QuestionRepository{conn: conn}
}

const questionColumns = `id, title, description, tags, created_by, created_at, updated_at`

func (r *QuestionRepository) Create(ctx context.Context, q *entity.Question) error {
	pool, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	id, now := entity.NewID(), entity.Now()
	_, err = pool.Exec(ctx, `
		INSERT INTO questions (`+questionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, id, q.Title, q.Description, q.Tags, q.CreatedBy, now)
	if err != nil {
		return err
	}
	q.ID, q.CreatedAt, q.UpdatedAt = id, now, now
	return nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*entity.Question, error) {
	pool, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	row := pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, strings.ToLower(id))
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) List(ctx context.Context, f repo.QuestionFilter) ([]entity.Question, error) {
	pool, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	sql, args := listQuestionsQuery(f)
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []entity.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *QuestionRepository) Exists(ctx context.Context, id string) (bool, error) {
	pool, err := r.conn.Get(ctx)
	if err != nil {
		return false, err
	}
	var ok bool
	err = pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM questions WHERE id = $1)`, strings.ToLower(id)).Scan(&ok)
	return ok, err
}

func scanQuestion(row pgx.Row) (entity.Question, error) {
	var q entity.Question
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Tags, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return entity.Question{}, err
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	return q, nil
}

// listQuestionsQuery builds the listing statement. The title is matched as a
// literal, case-insensitive substring; the tag must be an exact element.
func listQuestionsQuery(f repo.QuestionFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.Title != "" {
		args = append(args, "%"+escapeLike(f.Title)+"%")
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		where = append(where, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	var b strings.Builder
	b.WriteString("SELECT " + questionColumns + " FROM questions")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ repo.QuestionRepository = (*QuestionRepository)(nil)
