package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	s, err := New(Config{Client: client, CloseClient: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	return s, mr
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNilClient)
}

func TestTransientRoundTrip(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	ok, err := s.TransientSet(ctx, "p/x", []byte("42"), 0)
	require.NoError(t, err)
	require.True(t, ok)

	// bit-exact record naming
	assert.True(t, mr.Exists("_transient_p/x"))

	v, hit, err := s.TransientGet(ctx, "p/x")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("42"), v)
}

func TestNativeExpiry(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	ok, err := s.TransientSet(ctx, "p/short", []byte("v"), 60)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(61 * time.Second)

	_, hit, err := s.TransientGet(ctx, "p/short")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestZeroTTLClearsExpiry(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	_, err := s.TransientSet(ctx, "p/k", []byte("v1"), 60)
	require.NoError(t, err)
	_, err = s.TransientSet(ctx, "p/k", []byte("v2"), 0)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	v, hit, err := s.TransientGet(ctx, "p/k")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("v2"), v)
}

func TestDeleteReportsMissing(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	deleted, err := s.TransientDelete(ctx, "p/absent")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.TransientSet(ctx, "p/here", []byte("v"), 0)
	require.NoError(t, err)
	deleted, err = s.TransientDelete(ctx, "p/here")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestOptionGetDefault(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	def := []byte("sentinel-bytes")
	got, err := s.OptionGet(ctx, "_transient_p/none", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	_, err = s.TransientSet(ctx, "p/here", []byte("v"), 0)
	require.NoError(t, err)
	got, err = s.OptionGet(ctx, "_transient_p/here", def)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestNamesMatchingScan(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	for _, k := range []string{"alpha/a", "alpha/b", "beta/a"} {
		_, err := s.TransientSet(ctx, k, []byte("v"), 0)
		require.NoError(t, err)
	}

	names, err := s.NamesMatching(ctx, "_transient_alpha/%")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"_transient_alpha/a", "_transient_alpha/b"}, names)
}

func TestGlobFromLike(t *testing.T) {
	cases := map[string]string{
		"_transient_p/%": "_transient_p/*",
		"plain":          "plain",
		"has*star%":      `has\*star*`,
		`q?[x]\%`:        `q\?\[x\]\\*`,
	}
	for in, want := range cases {
		assert.Equal(t, want, globFromLike(in), "pattern %q", in)
	}
}
