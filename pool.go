package transientcache

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	c "github.com/unkn0wn-root/transientcache/codec"
	sb "github.com/unkn0wn-root/transientcache/substrate"
)

// reservedKeySymbols may not appear in caller keys: "/" would collide with
// the pool separator and the rest break the substrate's naming scheme.
const reservedKeySymbols = `{}()/\@:`

// reservedPoolToken is the pool name whose value records would be
// indistinguishable from timeout records once prefixed.
const reservedPoolToken = "timeout_"

type pool[V any] struct {
	name     string
	sub      sb.Substrate
	codec    c.Codec[V]
	log      Logger
	sentinel []byte
}

func newPool[V any](opts Options[V]) (*pool[V], error) {
	if opts.Substrate == nil {
		return nil, fmt.Errorf("transientcache: substrate is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("transientcache: codec is required")
	}
	if opts.PoolName == reservedPoolToken {
		return nil, &PoolNameError{Name: opts.PoolName}
	}

	p := &pool[V]{
		name:  opts.PoolName,
		sub:   opts.Substrate,
		codec: opts.Codec,
	}
	p.log = coalesce[Logger](opts.Logger, NopLogger{})

	if len(opts.Sentinel) > 0 {
		p.sentinel = opts.Sentinel
	} else {
		p.sentinel = []byte(uuid.NewString())
	}
	return p, nil
}

func (p *pool[V]) Name() string { return p.name }

func (p *pool[V]) Get(ctx context.Context, key string, def V) (V, error) {
	var zero V
	if err := p.validateKey(key); err != nil {
		return zero, err
	}
	k := p.storageKey(key)
	raw, ok, err := p.sub.TransientGet(ctx, k)
	if err != nil {
		return zero, &OpError{Op: "get", Key: key, Err: err}
	}
	if ok {
		v, err := p.codec.Decode(raw)
		if err != nil {
			return zero, &OpError{Op: "get", Key: key, Err: err}
		}
		return v, nil
	}

	// The transient read collapses "absent" and "stored falsy value" into
	// one miss signal. The raw option record, read with the pool sentinel
	// as its default, decides: only a truly absent entry equals the sentinel.
	opt, err := p.sub.OptionGet(ctx, sb.OptionPrefix+k, p.sentinel)
	if err != nil {
		return zero, &OpError{Op: "get", Key: key, Err: err}
	}
	if bytes.Equal(opt, p.sentinel) {
		return def, nil
	}
	v, err := p.codec.Decode(opt)
	if err != nil {
		return zero, &OpError{Op: "get", Key: key, Err: err}
	}
	return v, nil
}

func (p *pool[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if err := p.validateKey(key); err != nil {
		return err
	}
	secs, err := normalizeTTL(ttl)
	if err != nil {
		return err
	}
	raw, err := p.codec.Encode(value)
	if err != nil {
		return &OpError{Op: "set", Key: key, Err: err}
	}
	ok, err := p.sub.TransientSet(ctx, p.storageKey(key), raw, secs)
	if err != nil {
		return &OpError{Op: "set", Key: key, Err: err}
	}
	if !ok {
		return &OpError{Op: "set", Key: key, Err: ErrWriteRejected}
	}
	return nil
}

func (p *pool[V]) Delete(ctx context.Context, key string) error {
	if err := p.validateKey(key); err != nil {
		return err
	}
	return p.deleteStorage(ctx, key)
}

// deleteStorage removes a validated (or Clear-recovered) key.
func (p *pool[V]) deleteStorage(ctx context.Context, key string) error {
	ok, err := p.sub.TransientDelete(ctx, p.storageKey(key))
	if err != nil {
		return &OpError{Op: "delete", Key: key, Err: err}
	}
	if !ok {
		return &OpError{Op: "delete", Key: key, Err: ErrWriteRejected}
	}
	return nil
}

func (p *pool[V]) Has(ctx context.Context, key string) (bool, error) {
	if err := p.validateKey(key); err != nil {
		return false, err
	}
	opt, err := p.sub.OptionGet(ctx, sb.OptionPrefix+p.storageKey(key), p.sentinel)
	if err != nil {
		return false, &OpError{Op: "has", Key: key, Err: err}
	}
	return !bytes.Equal(opt, p.sentinel), nil
}

func (p *pool[V]) Clear(ctx context.Context) error {
	prefix := sb.OptionPrefix + p.name + sb.PoolSeparator
	names, err := p.sub.NamesMatching(ctx, prefix+"%")
	if err != nil {
		return &OpError{Op: "clear", Err: err}
	}
	for _, name := range names {
		// a matched name without the structural prefix means foreign writes
		// under the scheme's keyspace; fatal, not skipped
		if !strings.HasPrefix(name, prefix) {
			return &OpError{Op: "clear", Err: &NameSchemeError{Name: name, WantPrefix: prefix}}
		}
		if err := p.deleteStorage(ctx, name[len(prefix):]); err != nil {
			return &OpError{Op: "clear", Err: err}
		}
	}
	p.log.Debug("pool cleared", Fields{"pool": p.name, "entries": len(names)})
	return nil
}

func (p *pool[V]) GetMultiple(ctx context.Context, keys []string, def V) (map[string]V, error) {
	out := make(map[string]V, len(keys))
	for _, k := range keys {
		v, err := p.Get(ctx, k, def)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (p *pool[V]) SetMultiple(ctx context.Context, items map[string]V, ttl time.Duration) error {
	// deterministic application order
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := p.Set(ctx, k, items[k], ttl); err != nil {
			return err
		}
	}
	return nil
}

func (p *pool[V]) DeleteMultiple(ctx context.Context, keys []string) error {
	for _, k := range keys {
		if err := p.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (p *pool[V]) storageKey(key string) string {
	return p.name + sb.PoolSeparator + key
}

func (p *pool[V]) validateKey(key string) error {
	if i := strings.IndexAny(key, reservedKeySymbols); i >= 0 {
		return &InvalidKeyError{Key: key, Reason: fmt.Sprintf("reserved symbol %q", string(key[i]))}
	}
	// the timeout record is the longest name derived from a key
	if n := len(sb.TimeoutOptionPrefix) + len(p.storageKey(key)); n > sb.MaxOptionNameLength {
		return &InvalidKeyError{
			Key:    key,
			Reason: fmt.Sprintf("derived name is %d bytes, max %d", n, sb.MaxOptionNameLength),
		}
	}
	return nil
}

// normalizeTTL maps a caller TTL onto the substrate's whole-second model.
// Zero means no expiration.
func normalizeTTL(ttl time.Duration) (int64, error) {
	switch {
	case ttl == 0:
		return 0, nil
	case ttl < 0:
		return 0, &InvalidTTLError{TTL: ttl}
	case ttl%time.Second != 0:
		return 0, &InvalidTTLError{TTL: ttl}
	}
	return int64(ttl / time.Second), nil
}
