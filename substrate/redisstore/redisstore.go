// Package redisstore implements the substrate contract on Redis.
//
// Records are plain string keys named by the option naming scheme. Expiry
// rides on native Redis TTLs, so no timeout records are written; a stored
// entry simply vanishes at its deadline. NamesMatching walks SCAN with the
// pattern's '%' wildcards mapped to globs.
package redisstore

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	sb "github.com/unkn0wn-root/transientcache/substrate"
)

var ErrNilClient = errors.New("redisstore: nil client")

type Store struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ sb.Substrate = (*Store)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Store{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (s *Store) TransientGet(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, sb.OptionPrefix+key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (s *Store) TransientSet(ctx context.Context, key string, value []byte, ttlSeconds int64) (bool, error) {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	// ttl == 0 clears any previous expiry per SET semantics
	if err := s.rdb.Set(ctx, sb.OptionPrefix+key, value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) TransientDelete(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Del(ctx, sb.OptionPrefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) OptionGet(ctx context.Context, name string, def []byte) ([]byte, error) {
	b, err := s.rdb.Get(ctx, name).Bytes()
	if err == goredis.Nil {
		return def, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) NamesMatching(ctx context.Context, pattern string) ([]string, error) {
	glob := globFromLike(pattern)
	var names []string
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, glob, 256).Result()
		if err != nil {
			return nil, err
		}
		names = append(names, keys...)
		if next == 0 {
			return names, nil
		}
		cursor = next
	}
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Store) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

// globFromLike converts a SQL-LIKE pattern into a SCAN MATCH glob: '%'
// becomes '*' and glob metacharacters in the literal part are escaped.
// LIKE's '_' wildcard is deliberately matched literally - the naming scheme
// uses underscores as plain characters and substrate callers only build
// %-patterns.
func globFromLike(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteByte('*')
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
