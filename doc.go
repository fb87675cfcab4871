// Package transientcache implements namespaced, TTL-aware cache pools on top
// of a pluggable persistent key/value substrate whose native model is a flat
// name -> value table with a transient naming convention.
//
// Components:
//   - Substrate: the storage contract (SQL options table, Redis, BigCache).
//   - Codec[V]: (de)serializes V <-> []byte.
//   - Pool[V]: the cache contract - get/set/delete/clear/has plus batch forms.
//   - Factory[V]: builds pools over one shared substrate, one fresh sentinel
//     per pool.
//
// Storage names (bit-exact with the reference platform):
//
//	_transient_<pool>/<key>          - value record
//	_transient_timeout_<pool>/<key>  - expiry record (substrates that need one)
//
// Existence checks are false-negative safe: a substrate may collapse "stored
// falsy value" and "absent" into one miss signal, so each pool holds a random
// per-instance sentinel and re-reads the raw option record with the sentinel
// as the default. Only a truly absent entry comes back as the sentinel.
package transientcache
