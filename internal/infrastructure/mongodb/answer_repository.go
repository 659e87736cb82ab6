package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

type answerDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	QuestionID primitive.ObjectID `bson:"questionId"`
	Content    string             `bson:"content"`
	CreatedBy  primitive.ObjectID `bson:"createdBy"`
	IsAccepted bool               `bson:"isAccepted"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

type AnswerRepository struct {
	conn *Conn
}

func NewAnswerRepository(conn *Conn) *AnswerRepository {
	return &AnswerRepository{conn: conn}
}

func (r *AnswerRepository) Create(ctx context.Context, a *entity.Answer) error {
	refs, err := parseRefs(a.QuestionID, a.CreatedBy)
	if err != nil {
		return err
	}
	c, err := collection(ctx, r.conn, answersCollection)
	if err != nil {
		return err
	}
	now := entity.Now()
	doc := answerDoc{
		ID:         primitive.NewObjectID(),
		QuestionID: refs[0],
		Content:    a.Content,
		CreatedBy:  refs[1],
		IsAccepted: a.IsAccepted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := c.InsertOne(ctx, doc); err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = doc.ID.Hex(), now, now
	return nil
}

func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID string) ([]entity.Answer, error) {
	qid, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return []entity.Answer{}, nil
	}
	c, err := collection(ctx, r.conn, answersCollection)
	if err != nil {
		return nil, err
	}
	cur, err := c.Find(ctx, bson.M{"questionId": qid}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	var docs []answerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	out := make([]entity.Answer, len(docs))
	for i, d := range docs {
		out[i] = entity.Answer{
			ID:         d.ID.Hex(),
			QuestionID: d.QuestionID.Hex(),
			Content:    d.Content,
			CreatedBy:  d.CreatedBy.Hex(),
			IsAccepted: d.IsAccepted,
			CreatedAt:  d.CreatedAt,
			UpdatedAt:  d.UpdatedAt,
		}
	}
	return out, nil
}

// parseRefs converts questionId and createdBy references.
func parseRefs(questionID, createdBy string) ([2]primitive.ObjectID, error) {
	var out [2]primitive.ObjectID
	var err error
	if out[0], err = primitive.ObjectIDFromHex(questionID); err != nil {
		return out, fmt.Errorf("questionId: %w", err)
	}
	if out[1], err = primitive.ObjectIDFromHex(createdBy); err != nil {
		return out, fmt.Errorf("createdBy: %w", err)
	}
	return out, nil
}

var _ repo.AnswerRepository = (*AnswerRepository)(nil)
