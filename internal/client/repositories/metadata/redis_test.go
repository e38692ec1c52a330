package metadata

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisRepository(client, "test"), mr
}

func TestRedis_SetGetDelete(t *testing.T) {
	r, _ := setupRedis(t)
	ctx := context.Background()

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.Set(ctx, "token", []byte("abc")))
	v, err = r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), v)

	require.NoError(t, r.Delete(ctx, "token"))
	require.NoError(t, r.Delete(ctx, "token"))

	v, err = r.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestRedis_SetManyListClear(t *testing.T) {
	r, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string][]byte{
		"token":  []byte("t"),
		"expiry": []byte("42"),
	}))
	require.True(t, mr.Exists("botfolio:test"))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"token": []byte("t"), "expiry": []byte("42")}, m)

	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
	assert.False(t, mr.Exists("botfolio:test"))
}

func TestRedis_NamespacesAreIsolated(t *testing.T) {
	r, _ := setupRedis(t)
	other := NewRedisRepository(r.client, "other")
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("mine")))
	v, err := other.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestRedis_SharedNamespaceLastWriterWins(t *testing.T) {
	r, _ := setupRedis(t)
	second := NewRedisRepository(r.client, "test")
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("first")))
	require.NoError(t, second.Set(ctx, "token", []byte("second")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("second"), v)
}

func TestRedis_ErrorsWrapped(t *testing.T) {
	r, mr := setupRedis(t)
	ctx := context.Background()
	mr.Close()

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")
	require.ErrorContains(t, r.Set(ctx, "k", []byte("v")), "failed to set metadata[k]")
	require.ErrorContains(t, r.Clear(ctx), "failed to clear metadata")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	require.ErrorContains(t, err, "failed to connect to Redis")
}
