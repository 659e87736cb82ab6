package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

type questionDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Tags        []string           `bson:"tags"`
	CreatedBy   primitive.ObjectID `bson:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *questionDoc) entity() entity.Question {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return entity.Question{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Tags:        tags,
		CreatedBy:   d.CreatedBy.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type QuestionRepository struct {
	conn *Conn
}

func NewQuestionRepository(conn *Conn) *QuestionRepository {
	return &QuestionRepository{conn: conn}
}

func (r *QuestionRepository) Create(ctx context.Context, q *entity.Question) error {
	creator, err := primitive.ObjectIDFromHex(q.CreatedBy)
	if err != nil {
		return fmt.Errorf("createdBy: %w", err)
	}
	c, err := collection(ctx, r.conn, questionsCollection)
	if err != nil {
		return err
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	now := entity.Now()
	doc := questionDoc{
		ID:          primitive.NewObjectID(),
		Title:       q.Title,
		Description: q.Description,
		Tags:        q.Tags,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := c.InsertOne(ctx, doc); err != nil {
		return err
	}
	q.ID, q.CreatedAt, q.UpdatedAt = doc.ID.Hex(), now, now
	return nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*entity.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repo.ErrNotFound
	}
	c, err := collection(ctx, r.conn, questionsCollection)
	if err != nil {
		return nil, err
	}
	var d questionDoc
	if err := c.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	q := d.entity()
	return &q, nil
}

func (r *QuestionRepository) List(ctx context.Context, f repo.QuestionFilter) ([]entity.Question, error) {
	c, err := collection(ctx, r.conn, questionsCollection)
	if err != nil {
		return nil, err
	}
	cur, err := c.Find(ctx, questionFilter(f), options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	var docs []questionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	out := make([]entity.Question, len(docs))
	for i := range docs {
		out[i] = docs[i].entity()
	}
	return out, nil
}

func (r *QuestionRepository) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	c, err := collection(ctx, r.conn, questionsCollection)
	if err != nil {
		return false, err
	}
	n, err := c.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// questionFilter translates a listing filter into a query. The title is
// matched as a literal, case-insensitive substring.
func questionFilter(f repo.QuestionFilter) bson.M {
	filter := bson.M{}
	if f.Title != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(f.Title), "$options": "i"}
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	return filter
}

var _ repo.QuestionRepository = (*QuestionRepository)(nil)
