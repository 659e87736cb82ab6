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

type insightDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	QuestionID primitive.ObjectID `bson:"questionId"`
	Summary    string             `bson:"summary"`
	CreatedBy  primitive.ObjectID `bson:"createdBy"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

type InsightRepository struct {
	conn *Conn
}

func NewInsightRepository(conn *Conn) *InsightRepository {
	return &InsightRepository{conn: conn}
}

func (r *InsightRepository) Create(ctx context.Context, i *entity.Insight) error {
	refs, err := parseRefs(i.QuestionID, i.CreatedBy)
	if err != nil {
		return err
	}
	c, err := collection(ctx, r.conn, insightsCollection)
	if err != nil {
		return err
	}
	now := entity.Now()
	doc := insightDoc{
		ID:         primitive.NewObjectID(),
		QuestionID: refs[0],
		Summary:    i.Summary,
		CreatedBy:  refs[1],
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := c.InsertOne(ctx, doc); err != nil {
		return err
	}
	i.ID, i.CreatedAt, i.UpdatedAt = doc.ID.Hex(), now, now
	return nil
}

func (r *InsightRepository) List(ctx context.Context) ([]entity.Insight, error) {
	c, err := collection(ctx, r.conn, insightsCollection)
	if err != nil {
		return nil, err
	}
	cur, err := c.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	var docs []insightDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	out := make([]entity.Insight, len(docs))
	for i, d := range docs {
		out[i] = entity.Insight{
			ID:         d.ID.Hex(),
			QuestionID: d.QuestionID.Hex(),
			Summary:    d.Summary,
			CreatedBy:  d.CreatedBy.Hex(),
			CreatedAt:  d.CreatedAt,
			UpdatedAt:  d.UpdatedAt,
		}
	}
	return out, nil
}

var _ repo.InsightRepository = (*InsightRepository)(nil)
