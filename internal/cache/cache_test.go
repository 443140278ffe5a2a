package cache_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/krasavchik01/rbbb-sub002/internal/cache"
	"github.com/krasavchik01/rbbb-sub002/internal/config"
	"github.com/krasavchik01/rbbb-sub002/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newSQLiteCache(t *testing.T, opts cache.Options) (*cache.Cache, *cache.SQLiteBackend) {
	db := testutil.SetupSQLiteDB(t)
	backend, err := cache.NewSQLiteBackend(db)
	require.NoError(t, err)
	return cache.New(backend, opts, zap.NewNop(), nil), backend
}

func TestCache_SaveLoad(t *testing.T) {
	c, _ := newSQLiteCache(t, cache.Options{Namespace: "rbbb"})
	ctx := context.Background()

	t.Run("missing key is empty", func(t *testing.T) {
		got := cache.Load[item](ctx, c, cache.KeyTasks)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("round trip", func(t *testing.T) {
		in := []item{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
		require.NoError(t, cache.Save(ctx, c, cache.KeyTasks, in))
		assert.Equal(t, in, cache.Load[item](ctx, c, cache.KeyTasks))
	})

	t.Run("overwrite replaces document", func(t *testing.T) {
		require.NoError(t, cache.Save(ctx, c, cache.KeyTasks, []item{{ID: "c"}}))
		got := cache.Load[item](ctx, c, cache.KeyTasks)
		require.Len(t, got, 1)
		assert.Equal(t, "c", got[0].ID)
	})

	t.Run("nil saves as empty list", func(t *testing.T) {
		require.NoError(t, cache.Save[item](ctx, c, cache.KeyBonuses, nil))
		assert.Empty(t, cache.Load[item](ctx, c, cache.KeyBonuses))
	})
}

func TestCache_CorruptDocumentReadsEmpty(t *testing.T) {
	c, backend := newSQLiteCache(t, cache.Options{Namespace: "rbbb"})
	ctx := context.Background()

	require.NoError(t, backend.Write(ctx, "rbbb:"+cache.KeyProjects, "{not json"))
	assert.Empty(t, cache.Load[item](ctx, c, cache.KeyProjects))
}

func TestCache_Namespace(t *testing.T) {
	c, backend := newSQLiteCache(t, cache.Options{Namespace: "tenant"})
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, c, cache.KeyEmployees, []item{{ID: "e1"}}))

	raw, ok, err := backend.Read(ctx, "tenant:employees")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, raw, `"e1"`)
}

func TestCache_QuotaExceeded(t *testing.T) {
	c, _ := newSQLiteCache(t, cache.Options{MaxDocumentBytes: 64})
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, c, cache.KeyTasks, []item{{ID: "small"}}))

	err := cache.Save(ctx, c, cache.KeyTasks, []item{{ID: "big", Name: strings.Repeat("x", 100)}})
	assert.True(t, errors.Is(err, cache.ErrQuotaExceeded))

	got := cache.Load[item](ctx, c, cache.KeyTasks)
	require.Len(t, got, 1, "rejected write leaves previous snapshot")
	assert.Equal(t, "small", got[0].ID)
}

func TestCache_Documents(t *testing.T) {
	c, _ := newSQLiteCache(t, cache.Options{})
	ctx := context.Background()
	key := cache.ProjectDataKey("proj-1")
	assert.Equal(t, "project_data:proj-1", key)

	_, ok := cache.LoadDocument[item](ctx, c, key)
	assert.False(t, ok)

	require.NoError(t, cache.SaveDocument(ctx, c, key, item{ID: "proj-1", Name: "data"}))
	doc, ok := cache.LoadDocument[item](ctx, c, key)
	assert.True(t, ok)
	assert.Equal(t, "data", doc.Name)
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	backend, err := cache.NewRedisBackend(ctx, &config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	c := cache.New(backend, cache.Options{Namespace: "rbbb"}, zap.NewNop(), nil)
	t.Cleanup(func() { _ = c.Close() })

	t.Run("missing key", func(t *testing.T) {
		raw, ok, err := backend.Read(ctx, "rbbb:absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, raw)
		assert.Empty(t, cache.Load[item](ctx, c, cache.KeyTasks))
	})

	t.Run("write then read", func(t *testing.T) {
		require.NoError(t, backend.Write(ctx, "rbbb:raw", `{"id":"x"}`))
		raw, ok, err := backend.Read(ctx, "rbbb:raw")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"id":"x"}`, raw)
		assert.Zero(t, mr.TTL("rbbb:raw"), "documents never expire")
	})

	t.Run("lists and documents round trip", func(t *testing.T) {
		in := []item{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
		require.NoError(t, cache.Save(ctx, c, cache.KeyTasks, in))
		assert.Equal(t, in, cache.Load[item](ctx, c, cache.KeyTasks))
		assert.True(t, mr.Exists("rbbb:"+cache.KeyTasks))

		key := cache.ProjectDataKey("proj-1")
		require.NoError(t, cache.SaveDocument(ctx, c, key, item{ID: "proj-1", Name: "data"}))
		doc, ok := cache.LoadDocument[item](ctx, c, key)
		assert.True(t, ok)
		assert.Equal(t, "data", doc.Name)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, c.Ping(ctx))
	})
}

func TestNewRedisBackend_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := cache.NewRedisBackend(context.Background(), &config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestCache_BackendFaults(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := cache.New(cache.NewRedisBackendFromClient(rdb), cache.Options{}, zap.NewNop(), nil)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	assert.Empty(t, cache.Load[item](ctx, c, cache.KeyTasks), "read fault yields empty list")
	assert.Error(t, cache.Save(ctx, c, cache.KeyTasks, []item{{ID: "a"}}), "write fault is reported")
}
