// Package bigstore implements the substrate contract on BigCache.
//
// BigCache has no per-entry TTL, so expiry is carried by timeout records
// checked on read; the global LifeWindow acts as an upper bound on entry
// lifetime. NamesMatching walks the cache iterator.
package bigstore

import (
	"context"
	"strconv"
	"strings"
	"time"

	bc "github.com/allegro/bigcache/v3"

	sb "github.com/unkn0wn-root/transientcache/substrate"
)

type Store struct {
	c   *bc.BigCache
	now func() time.Time
}

var _ sb.Substrate = (*Store)(nil)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int              // ~ memory limit; 0 = unlimited
	Now                func() time.Time // clock override for tests; defaults to time.Now
}

func New(cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{c: c, now: now}, nil
}

func (s *Store) TransientGet(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := s.c.Get(sb.TimeoutOptionPrefix + key)
	switch {
	case err == nil:
		secs, perr := strconv.ParseInt(string(raw), 10, 64)
		if perr != nil || !s.now().Before(time.Unix(secs, 0)) {
			// expired or unreadable deadline; purge both records
			_ = s.c.Delete(sb.TimeoutOptionPrefix + key)
			_ = s.c.Delete(sb.OptionPrefix + key)
			return nil, false, nil
		}
	case err != bc.ErrEntryNotFound:
		return nil, false, err
	}

	v, err := s.c.Get(sb.OptionPrefix + key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) TransientSet(_ context.Context, key string, value []byte, ttlSeconds int64) (bool, error) {
	if err := s.c.Set(sb.OptionPrefix+key, value); err != nil {
		return false, err
	}
	toName := sb.TimeoutOptionPrefix + key
	if ttlSeconds > 0 {
		deadline := s.now().Add(time.Duration(ttlSeconds) * time.Second).Unix()
		if err := s.c.Set(toName, []byte(strconv.FormatInt(deadline, 10))); err != nil {
			return false, err
		}
		return true, nil
	}
	// zero ttl: the entry never expires; drop any stale timeout record
	if err := s.c.Delete(toName); err != nil && err != bc.ErrEntryNotFound {
		return false, err
	}
	return true, nil
}

func (s *Store) TransientDelete(_ context.Context, key string) (bool, error) {
	if err := s.c.Delete(sb.TimeoutOptionPrefix + key); err != nil && err != bc.ErrEntryNotFound {
		return false, err
	}
	err := s.c.Delete(sb.OptionPrefix + key)
	if err == bc.ErrEntryNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) OptionGet(_ context.Context, name string, def []byte) ([]byte, error) {
	v, err := s.c.Get(name)
	if err == bc.ErrEntryNotFound {
		return def, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) NamesMatching(_ context.Context, pattern string) ([]string, error) {
	var names []string
	it := s.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			return nil, err
		}
		if likeMatch(pattern, e.Key()) {
			names = append(names, e.Key())
		}
	}
	return names, nil
}

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}

// likeMatch reports whether name matches a SQL-LIKE pattern where '%'
// matches any run of bytes. '_' is matched literally: the naming scheme uses
// it as a plain character and substrate callers only build %-patterns.
func likeMatch(pattern, name string) bool {
	parts := strings.Split(pattern, "%")
	if len(parts) == 1 {
		return name == pattern
	}
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	name = name[len(parts[0]):]

	last := parts[len(parts)-1]
	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		i := strings.Index(name, part)
		if i < 0 {
			return false
		}
		name = name[i+len(part):]
	}
	return strings.HasSuffix(name, last)
}
