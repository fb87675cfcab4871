package transientcache

import (
	"fmt"

	c "github.com/unkn0wn-root/transientcache/codec"
	sb "github.com/unkn0wn-root/transientcache/substrate"
)

// Factory builds pools sharing one substrate, codec and logger. Every
// created pool receives its own fresh sentinel. The factory performs no
// uniqueness check on pool names: two pools created with the same name
// silently address the same stored entries.
type Factory[V any] struct {
	sub   sb.Substrate
	codec c.Codec[V]
	log   Logger
}

// NewFactory constructs a pool factory. log may be nil.
func NewFactory[V any](sub sb.Substrate, codec c.Codec[V], log Logger) (*Factory[V], error) {
	if sub == nil {
		return nil, fmt.Errorf("transientcache: substrate is required")
	}
	if codec == nil {
		return nil, fmt.Errorf("transientcache: codec is required")
	}
	return &Factory[V]{
		sub:   sub,
		codec: codec,
		log:   coalesce[Logger](log, NopLogger{}),
	}, nil
}

// CreatePool builds a pool for the given namespace. It fails only by
// propagating the pool constructor's name validation.
func (f *Factory[V]) CreatePool(name string) (Pool[V], error) {
	return New[V](Options[V]{
		PoolName:  name,
		Substrate: f.sub,
		Codec:     f.codec,
		Logger:    f.log,
	})
}
