// Package substrate defines the storage contract transientcache pools run on.
//
// The substrate's native model is a flat name -> value table. A transient
// entry is represented by up to two records derived from a storage key:
//
//	_transient_<key>          - the value record
//	_transient_timeout_<key>  - optional expiry record (stores that need one)
//
// Implementations own expiration: TransientGet must never return an entry
// whose deadline has passed. They MUST be safe for concurrent use and must
// return values byte-for-byte as written (no re-encoding, no mutation).
//
// Option names are capped at MaxOptionNameLength bytes by the reference
// table's index; callers are expected to validate before writing.
package substrate

import "context"

// Naming scheme tokens. Reproduce these bit-exact when a substrate
// interoperates with data written by the reference platform.
const (
	// OptionPrefix derives a value-record name from a storage key.
	OptionPrefix = "_transient_"

	// TimeoutOptionPrefix derives an expiry-record name from a storage key.
	TimeoutOptionPrefix = "_transient_timeout_"

	// PoolSeparator joins a pool name and a caller key into a storage key.
	PoolSeparator = "/"

	// MaxOptionNameLength is the longest record name the substrate index holds.
	MaxOptionNameLength = 191
)

// Substrate is the narrow storage interface consumed by a cache pool.
//
// TransientGet is best-effort: a (nil, false, nil) miss may be a false
// negative when the store cannot distinguish an absent entry from one whose
// payload it collapses (the reference platform folds "stored falsy value"
// into the miss signal). Pools disambiguate through OptionGet with a
// sentinel default.
type Substrate interface {
	// TransientGet reads the live value for a storage key.
	// Returns (value, true, nil) on hit; (nil, false, nil) on miss or after
	// transparent expiry; (nil, false, err) on store errors.
	TransientGet(ctx context.Context, key string) ([]byte, bool, error)

	// TransientSet writes value under the storage key with a whole-second
	// TTL. ttlSeconds == 0 means no expiration and must drop any existing
	// expiry record. Returns ok=false when the store refused the write.
	TransientSet(ctx context.Context, key string, value []byte, ttlSeconds int64) (ok bool, err error)

	// TransientDelete removes the entry and its expiry record.
	// Returns deleted=false when there was nothing to remove.
	TransientDelete(ctx context.Context, key string) (deleted bool, err error)

	// OptionGet reads a record by its full name with no expiration
	// semantics, returning def when the name is absent. Used by pools for
	// existence disambiguation only.
	OptionGet(ctx context.Context, name string, def []byte) ([]byte, error)

	// NamesMatching enumerates stored record names against a SQL-LIKE style
	// pattern where '%' matches any run of bytes. Only value-record
	// patterns are passed by pools (Clear's reverse key derivation).
	NamesMatching(ctx context.Context, pattern string) ([]string, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
