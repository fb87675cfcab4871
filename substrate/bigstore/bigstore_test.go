package bigstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newStore(t *testing.T) (*Store, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	s, err := New(Config{LifeWindow: time.Hour, Now: clock.Now})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	return s, clock
}

func TestTransientRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	ok, err := s.TransientSet(ctx, "p/x", []byte("42"), 0)
	require.NoError(t, err)
	require.True(t, ok)

	v, hit, err := s.TransientGet(ctx, "p/x")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("42"), v)
}

func TestTimeoutRecordExpiry(t *testing.T) {
	s, clock := newStore(t)
	ctx := context.Background()

	_, err := s.TransientSet(ctx, "p/short", []byte("v"), 60)
	require.NoError(t, err)

	_, hit, err := s.TransientGet(ctx, "p/short")
	require.NoError(t, err)
	require.True(t, hit)

	clock.Advance(61 * time.Second)

	_, hit, err = s.TransientGet(ctx, "p/short")
	require.NoError(t, err)
	assert.False(t, hit)

	// purged on the expired read: the raw records are gone too
	got, err := s.OptionGet(ctx, "_transient_p/short", []byte("def"))
	require.NoError(t, err)
	assert.Equal(t, []byte("def"), got)
}

func TestZeroTTLDropsTimeoutRecord(t *testing.T) {
	s, clock := newStore(t)
	ctx := context.Background()

	_, err := s.TransientSet(ctx, "p/k", []byte("v1"), 60)
	require.NoError(t, err)
	_, err = s.TransientSet(ctx, "p/k", []byte("v2"), 0)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)

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

func TestNamesMatchingIterator(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	for _, k := range []string{"alpha/a", "alpha/b", "beta/a"} {
		_, err := s.TransientSet(ctx, k, []byte("v"), 60)
		require.NoError(t, err)
	}

	names, err := s.NamesMatching(ctx, "_transient_alpha/%")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"_transient_alpha/a", "_transient_alpha/b"}, names,
		"timeout records and other pools must not match")
}

func TestLikeMatch(t *testing.T) {
	cases := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"_transient_p/%", "_transient_p/x", true},
		{"_transient_p/%", "_transient_p/", true},
		{"_transient_p/%", "_transient_timeout_p/x", false},
		{"_transient_p/%", "_transient_q/x", false},
		{"exact", "exact", true},
		{"exact", "exactly", false},
		{"%suffix", "a-suffix", true},
		{"%mid%", "has-mid-dle", true},
		{"%mid%", "nothing", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, likeMatch(tc.pattern, tc.name), "likeMatch(%q, %q)", tc.pattern, tc.name)
	}
}
