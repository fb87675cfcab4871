package transientcache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/transientcache/codec"
	sb "github.com/unkn0wn-root/transientcache/substrate"
)

// Pool is a named, isolated cache namespace over a storage substrate.
// V is the caller's value type; serialization is handled by a pluggable
// Codec[V].
//
// Pools are stateless given the substrate's contents: no locks, no spawned
// work, every operation is one or more direct substrate calls. Batch forms
// are sequential and non-atomic - the first failing item aborts the call and
// earlier items stay applied.
type Pool[V any] interface {
	// Name returns the pool's namespace.
	Name() string

	// Get returns the cached value for key, or def when the entry is absent.
	Get(ctx context.Context, key string, def V) (V, error)

	// Set stores value under key. ttl == 0 means no expiration; otherwise
	// ttl must be a positive whole number of seconds.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes the entry for key.
	Delete(ctx context.Context, key string) error

	// Has reports whether an entry exists for key, distinguishing "absent"
	// from "present with a falsy value".
	Has(ctx context.Context, key string) (bool, error)

	// Clear removes every entry belonging to this pool. Entries of other
	// pools on the same substrate are untouched.
	Clear(ctx context.Context) error

	// GetMultiple resolves keys in input order, mapping each to its value
	// or def.
	GetMultiple(ctx context.Context, keys []string, def V) (map[string]V, error)

	// SetMultiple stores all items with one shared ttl, in sorted key order.
	SetMultiple(ctx context.Context, items map[string]V, ttl time.Duration) error

	// DeleteMultiple removes keys in input order.
	DeleteMultiple(ctx context.Context, keys []string) error
}

// Options configure a single pool.
// PoolName, Substrate and Codec are required.
type Options[V any] struct {
	// Required
	PoolName  string // namespace prefix; must be unique per logical pool, same-name pools silently merge
	Substrate sb.Substrate
	Codec     c.Codec[V]

	Logger Logger // if nil, NopLogger is used

	// Sentinel overrides the per-pool miss marker. Leave nil outside tests:
	// New generates a fresh high-entropy value, which is what makes the
	// absent-vs-falsy check sound.
	Sentinel []byte
}

// New constructs a pool. It fails when a required option is missing or when
// PoolName collides with the reserved timeout-prefix token.
func New[V any](opts Options[V]) (Pool[V], error) {
	return newPool[V](opts)
}
