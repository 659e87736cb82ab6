package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
	"github.com/oksasatya/qa-community-api/pkg/helpers"
)

func newCache(t *testing.T) (*AuthorCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := helpers.NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, helpers.PingRedis(context.Background(), rdb, time.Second))
	return NewAuthorCache(rdb, time.Minute), mr
}

func TestAuthorCache_RoundTrip(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	ann := entity.Author{ID: entity.NewID(), Name: "Ann", Email: "ann@example.com"}
	bob := entity.Author{ID: entity.NewID(), Name: "Bob", Email: "bob@example.com"}

	require.NoError(t, c.SetMany(ctx, []entity.Author{ann, bob}))
	assert.True(t, mr.Exists("author:"+ann.ID))
	assert.Equal(t, time.Minute, mr.TTL("author:"+ann.ID))

	missing := entity.NewID()
	got, err := c.GetMany(ctx, []string{ann.ID, missing, bob.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, ann, got[ann.ID])
	assert.Equal(t, bob, got[bob.ID])
}

func TestAuthorCache_Expiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	a := entity.Author{ID: entity.NewID(), Name: "Ann"}
	require.NoError(t, c.SetMany(ctx, []entity.Author{a}))

	mr.FastForward(2 * time.Minute)
	got, err := c.GetMany(ctx, []string{a.ID})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAuthorCache_SkipsCorruptEntries(t *testing.T) {
	c, mr := newCache(t)
	id := entity.NewID()
	require.NoError(t, mr.Set("author:"+id, "{not json"))
	got, err := c.GetMany(context.Background(), []string{id})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAuthorCache_EmptyInput(t *testing.T) {
	c, _ := newCache(t)
	got, err := c.GetMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, c.SetMany(context.Background(), nil))
}

func TestAuthorCache_ServerDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()
	_, err := c.GetMany(context.Background(), []string{entity.NewID()})
	assert.Error(t, err)
}

func TestNewAuthorCache_DefaultTTL(t *testing.T) {
	assert.Equal(t, 10*time.Minute, NewAuthorCache(nil, 0).ttl)
}
