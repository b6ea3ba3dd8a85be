package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pinduca/internal/microservices/http-api/dto"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "pinduca:comics:list:3:monica", listKey(3, "monica"))
	assert.Equal(t, "pinduca:comics:list:0:", listKey(0, ""))
	assert.Equal(t, "pinduca:comics:detail:3:42", detailKey(3, 42))
}

func TestNop(t *testing.T) {
	var c ComicCache = Nop{}
	ctx := context.Background()

	_, ok := c.Generation(ctx)
	assert.False(t, ok)

	c.SetList(ctx, 0, "x", []dto.ComicResponse{{ID: 1}})
	_, ok = c.GetList(ctx, 0, "x")
	assert.False(t, ok)

	c.SetDetail(ctx, 0, 1, &dto.ComicResponse{ID: 1})
	_, ok = c.GetDetail(ctx, 0, 1)
	assert.False(t, ok)

	c.Invalidate(ctx)
}

// Runs only against a real server: PINDUCA_TEST_REDIS_URL=redis://localhost:6379/15
func TestRedisComicCache(t *testing.T) {
	url := os.Getenv("PINDUCA_TEST_REDIS_URL")
	if url == "" {
		t.Skip("PINDUCA_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.FlushDB(ctx).Err())

	c := NewRedisComicCache(client, time.Minute, zap.NewNop())

	gen, ok := c.Generation(ctx)
	require.True(t, ok)
	assert.Zero(t, gen)

	_, ok = c.GetList(ctx, gen, "monica")
	assert.False(t, ok)

	c.SetList(ctx, gen, "monica", []dto.ComicResponse{{ID: 7, Title: "Turma da Mônica"}})
	list, ok := c.GetList(ctx, gen, "monica")
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "Turma da Mônica", list[0].Title)

	c.SetDetail(ctx, gen, 7, &dto.ComicResponse{ID: 7, Title: "Turma da Mônica"})
	detail, ok := c.GetDetail(ctx, gen, 7)
	require.True(t, ok)
	assert.Equal(t, int64(7), detail.ID)

	c.Invalidate(ctx)

	next, ok := c.Generation(ctx)
	require.True(t, ok)
	assert.Equal(t, gen+1, next)
	_, ok = c.GetList(ctx, next, "monica")
	assert.False(t, ok, "lists from the previous generation must be unreachable")
	_, ok = c.GetDetail(ctx, next, 7)
	assert.False(t, ok)

	// a fill computed before the invalidation stays out of reach
	c.SetDetail(ctx, gen, 7, &dto.ComicResponse{ID: 7})
	_, ok = c.GetDetail(ctx, next, 7)
	assert.False(t, ok)
}
