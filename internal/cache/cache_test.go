package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sbrowser/internal/cache"
	"github.com/raysh454/sbrowser/internal/testutil"
)

func backends(t *testing.T) map[string]cache.ResponseCache {
	t.Helper()

	fc, err := cache.NewFileCache(filepath.Join(t.TempDir(), "files"))
	require.NoError(t, err)

	sc, err := cache.NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Close() })

	mc, err := cache.NewMemoryCache(16)
	require.NoError(t, err)

	return map[string]cache.ResponseCache{"file": fc, "sqlite": sc, "memory": mc}
}

func TestKey_IsSHA1Hex(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", cache.Key(""))
	k := cache.Key("http://example.com/?a=1")
	assert.Len(t, k, 40)
	assert.Equal(t, k, cache.Key("http://example.com/?a=1"))
	assert.NotEqual(t, k, cache.Key("http://example.com/?a=2"))
}

func TestBackends_SaveLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, c := range backends(t) {
		c := c
		t.Run(name, func(t *testing.T) {
			key := cache.Key("http://example.com/page")

			got, ok, err := c.Load(ctx, key)
			require.NoError(t, err)
			assert.False(t, ok, "fresh cache must miss")
			assert.Nil(t, got)

			require.NoError(t, c.Save(ctx, key, []byte("<html>v1</html>")))
			got, ok, err = c.Load(ctx, key)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "<html>v1</html>", string(got))

			require.NoError(t, c.Save(ctx, key, []byte("<html>v2</html>")))
			got, _, err = c.Load(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, "<html>v2</html>", string(got), "save overwrites")

			empty := cache.Key("http://example.com/empty")
			require.NoError(t, c.Save(ctx, empty, nil))
			got, ok, err = c.Load(ctx, empty)
			require.NoError(t, err)
			assert.True(t, ok, "empty body is still a hit")
			assert.Empty(t, got)
		})
	}
}

func TestBackends_RejectInvalidKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, c := range backends(t) {
		c := c
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../etc/passwd", "a/b"} {
				err := c.Save(ctx, key, []byte("x"))
				assert.ErrorIs(t, err, cache.ErrInvalidKey, "key %q", key)
				_, _, err = c.Load(ctx, key)
				assert.ErrorIs(t, err, cache.ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestFileCache_ShardsByKeyPrefix(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	require.NoError(t, err)

	key := cache.Key("http://example.com/")
	require.NoError(t, fc.Save(context.Background(), key, []byte("body")))

	data, err := os.ReadFile(filepath.Join(dir, key[:2], key))
	require.NoError(t, err)
	assert.Equal(t, "body", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, key[:2]))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileCache_CancelledContext(t *testing.T) {
	t.Parallel()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, fc.Save(ctx, "abcd", []byte("x")), context.Canceled)
}

func TestSQLiteCache_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	sc, err := cache.NewSQLiteCache(path)
	require.NoError(t, err)
	require.NoError(t, sc.Save(ctx, "k1", []byte("one")))
	require.NoError(t, sc.Save(ctx, "k1", []byte("uno")))
	n, err := sc.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, sc.Close())

	sc, err = cache.NewSQLiteCache(path)
	require.NoError(t, err)
	defer sc.Close()
	got, ok, err := sc.Load(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "uno", string(got))
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mc, err := cache.NewMemoryCache(2)
	require.NoError(t, err)

	require.NoError(t, mc.Save(ctx, "a1", []byte("a")))
	require.NoError(t, mc.Save(ctx, "b1", []byte("b")))
	_, _, _ = mc.Load(ctx, "a1")
	require.NoError(t, mc.Save(ctx, "c1", []byte("c")))

	assert.Equal(t, 2, mc.Len())
	_, ok, _ := mc.Load(ctx, "b1")
	assert.False(t, ok, "b1 should have been evicted")
	_, ok, _ = mc.Load(ctx, "a1")
	assert.True(t, ok)
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mc, err := cache.NewMemoryCache(0)
	require.NoError(t, err)

	src := []byte("abc")
	require.NoError(t, mc.Save(ctx, "k1", src))
	src[0] = 'X'
	got, _, _ := mc.Load(ctx, "k1")
	assert.Equal(t, "abc", string(got))
}

func TestNew_SelectsDriver(t *testing.T) {
	t.Parallel()
	logger := &testutil.DummyLogger{}

	c, closeFn, err := cache.New(cache.Config{Driver: cache.DriverNone}, logger)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, closeFn())

	c, closeFn, err = cache.New(cache.Config{Driver: cache.DriverFile, Dir: t.TempDir()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &cache.FileCache{}, c)
	assert.NoError(t, closeFn())

	c, closeFn, err = cache.New(cache.Config{Driver: cache.DriverSQLite, Path: filepath.Join(t.TempDir(), "c.db")}, logger)
	require.NoError(t, err)
	assert.IsType(t, &cache.SQLiteCache{}, c)
	assert.NoError(t, closeFn())

	c, closeFn, err = cache.New(cache.Config{Driver: cache.DriverMemory}, logger)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, c)
	assert.NoError(t, closeFn())

	_, _, err = cache.New(cache.Config{Driver: "redis"}, logger)
	assert.Error(t, err)
	assert.False(t, cache.Driver("redis").Valid())
	assert.True(t, cache.DriverSQLite.Valid())

	assert.Len(t, logger.Infos, 3, "ready messages are logged")
}
