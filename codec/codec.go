// Package codec provides pluggable value serialization for transientcache
// pools. Cached values cross the substrate boundary as raw bytes; a Codec
// decides how a V becomes those bytes and back.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
