package transientcache

import (
	"errors"
	"fmt"
	"time"
)

// ErrWriteRejected reports a substrate that signalled a failed write or
// delete without a transport error.
var ErrWriteRejected = errors.New("substrate rejected the operation")

// InvalidKeyError reports a caller key the naming scheme cannot hold.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid cache key %q: %s", e.Key, e.Reason)
}

// InvalidTTLError reports a TTL outside the substrate's whole-second model.
type InvalidTTLError struct {
	TTL time.Duration
}

func (e *InvalidTTLError) Error() string {
	return fmt.Sprintf("invalid ttl %s: must be zero or a positive whole number of seconds", e.TTL)
}

// PoolNameError reports a pool name that collides with a naming-scheme token.
type PoolNameError struct {
	Name string
}

func (e *PoolNameError) Error() string {
	return fmt.Sprintf("pool name %q collides with the timeout-record prefix", e.Name)
}

// NameSchemeError reports an enumerated storage name without the pool's
// expected prefix. It indicates foreign writes under the scheme's keyspace
// and aborts Clear.
type NameSchemeError struct {
	Name       string
	WantPrefix string
}

func (e *NameSchemeError) Error() string {
	return fmt.Sprintf("storage name %q does not start with %q", e.Name, e.WantPrefix)
}

// OpError wraps a substrate failure behind a cache operation. Key is the
// caller's original, non-namespaced key; empty for pool-wide operations.
type OpError struct {
	Op  string
	Key string
	Err error
}

func (e *OpError) Error() string {
	switch {
	case e.Op == "clear":
		return fmt.Sprintf("could not clear cache: %v", e.Err)
	case e.Key == "":
		return fmt.Sprintf("cache %s failed: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("cache %s for key %q failed: %v", e.Op, e.Key, e.Err)
	}
}

func (e *OpError) Unwrap() error { return e.Err }
