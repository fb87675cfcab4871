// Package sqlstore implements the substrate contract on a relational
// options table, the reference platform's native storage:
//
//	CREATE TABLE options (
//	    option_name  VARCHAR(191) PRIMARY KEY,
//	    option_value BLOB NOT NULL
//	);
//
// A transient entry is a value row plus an optional timeout row holding a
// unix deadline in seconds. Expired entries are purged lazily on read.
//
// NamesMatching maps straight onto SQL LIKE, so '_' in a pattern is a
// single-character wildcard too. The naming scheme's literal underscores
// make patterns slightly broader than a strict prefix; callers are expected
// to verify the prefix structurally on the results.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	sb "github.com/unkn0wn-root/transientcache/substrate"
)

var ErrNilDB = errors.New("sqlstore: nil db")

type Store struct {
	db      *sqlx.DB
	table   string
	now     func() time.Time
	closeDB bool
}

var _ sb.Substrate = (*Store)(nil)

type Config struct {
	DB      *sqlx.DB
	Table   string           // options table name; defaults to "options"
	CloseDB bool             // set true only if this store exclusively owns the DB
	Now     func() time.Time // clock override for tests; defaults to time.Now
}

func New(cfg Config) (*Store, error) {
	if cfg.DB == nil {
		return nil, ErrNilDB
	}
	s := &Store{
		db:      cfg.DB,
		table:   cfg.Table,
		now:     cfg.Now,
		closeDB: cfg.CloseDB,
	}
	if s.table == "" {
		s.table = "options"
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// EnsureSchema creates the options table when missing. The DDL is accepted
// by SQLite and Postgres; run your own migration for other dialects.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
		option_name VARCHAR(191) PRIMARY KEY,
		option_value BLOB NOT NULL
	)`)
	return err
}

func (s *Store) TransientGet(ctx context.Context, key string) ([]byte, bool, error) {
	deadline, ok, err := s.timeout(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if ok && !s.now().Before(deadline) {
		// lazy purge, the way the reference platform expires transients
		if _, err := s.deleteRows(ctx, key); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return s.optionRow(ctx, sb.OptionPrefix+key)
}

func (s *Store) TransientSet(ctx context.Context, key string, value []byte, ttlSeconds int64) (bool, error) {
	if err := s.upsert(ctx, sb.OptionPrefix+key, value); err != nil {
		return false, err
	}

	toName := sb.TimeoutOptionPrefix + key
	if ttlSeconds > 0 {
		deadline := s.now().Add(time.Duration(ttlSeconds) * time.Second).Unix()
		if err := s.upsert(ctx, toName, []byte(strconv.FormatInt(deadline, 10))); err != nil {
			return false, err
		}
		return true, nil
	}

	// zero ttl: the entry never expires; drop any stale timeout row
	q := s.db.Rebind(`DELETE FROM ` + s.table + ` WHERE option_name = ?`)
	if _, err := s.db.ExecContext(ctx, q, toName); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) TransientDelete(ctx context.Context, key string) (bool, error) {
	n, err := s.deleteRows(ctx, key)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) OptionGet(ctx context.Context, name string, def []byte) ([]byte, error) {
	v, ok, err := s.optionRow(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

func (s *Store) NamesMatching(ctx context.Context, pattern string) ([]string, error) {
	names := []string{}
	q := s.db.Rebind(`SELECT option_name FROM ` + s.table + ` WHERE option_name LIKE ?`)
	if err := s.db.SelectContext(ctx, &names, q, pattern); err != nil {
		return nil, err
	}
	return names, nil
}

// Close releases the underlying DB only when this store owns it.
func (s *Store) Close(context.Context) error {
	if s.closeDB {
		return s.db.Close()
	}
	return nil
}

func (s *Store) optionRow(ctx context.Context, name string) ([]byte, bool, error) {
	var v []byte
	q := s.db.Rebind(`SELECT option_value FROM ` + s.table + ` WHERE option_name = ?`)
	err := s.db.GetContext(ctx, &v, q, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) timeout(ctx context.Context, key string) (time.Time, bool, error) {
	raw, ok, err := s.optionRow(ctx, sb.TimeoutOptionPrefix+key)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	secs, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("sqlstore: bad timeout record for %q: %w", key, err)
	}
	return time.Unix(secs, 0), true, nil
}

func (s *Store) upsert(ctx context.Context, name string, value []byte) error {
	q := s.db.Rebind(`INSERT INTO ` + s.table + ` (option_name, option_value) VALUES (?, ?)
		ON CONFLICT (option_name) DO UPDATE SET option_value = excluded.option_value`)
	_, err := s.db.ExecContext(ctx, q, name, value)
	return err
}

func (s *Store) deleteRows(ctx context.Context, key string) (int64, error) {
	q := s.db.Rebind(`DELETE FROM ` + s.table + ` WHERE option_name IN (?, ?)`)
	res, err := s.db.ExecContext(ctx, q, sb.OptionPrefix+key, sb.TimeoutOptionPrefix+key)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
