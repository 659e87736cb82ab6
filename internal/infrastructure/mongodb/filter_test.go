package mongodb

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	repo "github.com/oksasatya/qa-community-api/internal/domain/repository"
)

func TestQuestionFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, questionFilter(repo.QuestionFilter{}))
	assert.Equal(t, bson.M{"tags": "css"}, questionFilter(repo.QuestionFilter{Tag: "css"}))

	f := questionFilter(repo.QuestionFilter{Title: "c++ (basics)", Tag: "cpp"})
	title, ok := f["title"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "i", title["$options"])
	pattern := title["$regex"].(string)
	assert.Equal(t, `c\+\+ \(basics\)`, pattern)

	re := regexp.MustCompile("(?i)" + pattern)
	assert.True(t, re.MatchString("Learning C++ (Basics) fast"))
	assert.False(t, re.MatchString("c basics"))
	assert.Equal(t, "cpp", f["tags"])
}

func TestObjectIDs_DropsMalformed(t *testing.T) {
	got := objectIDs([]string{"507f1f77bcf86cd799439011", "nope", ""})
	require.Len(t, got, 1)
	assert.Equal(t, "507f1f77bcf86cd799439011", got[0].Hex())
}

func TestParseRefs(t *testing.T) {
	_, err := parseRefs("507f1f77bcf86cd799439011", "bad")
	assert.ErrorContains(t, err, "createdBy")
	_, err = parseRefs("bad", "507f1f77bcf86cd799439011")
	assert.ErrorContains(t, err, "questionId")
}

func TestConn_UnreachableServerFailsWithoutCaching(t *testing.T) {
	conn := NewConn(Options{
		URI:            "mongodb://127.0.0.1:1/?directConnection=true",
		Database:       "qa_test",
		ConnectTimeout: 200 * time.Millisecond,
	})
	repos := NewRepositories(conn)

	_, err := repos.Questions.List(context.Background(), repo.QuestionFilter{})
	require.Error(t, err)
	assert.False(t, conn.Opened())
}
