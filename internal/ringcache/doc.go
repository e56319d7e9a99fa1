// Package ringcache implements a client-side cache of a partitioned
// cluster's token-range-to-node topology, letting callers route keys
// directly to the owning node(s) without a proxy hop.
//
// # Overview
//
// A Cache is built from four inputs: a keyspace name, a partitioner
// capability (key bytes to ring token, token string form back to token), a
// comma-separated list of seed addresses, and a default port. Construction
// performs one synchronous refresh; afterwards callers issue Lookup calls
// against the cached snapshot and may trigger Refresh at will — on lookup
// failures, periodically, or never.
//
// The cache reflects the topology as of the last successful refresh, not
// the true current topology. It performs no background work, tracks no
// liveness, and reads or writes no data.
//
// # Refresh protocol
//
// Seeds are candidates for discovering topology, not a priority list of
// owners. Refresh walks them in input order and distinguishes two failure
// tiers, following the describe boundary's classification:
//
//   - transport failure: seed unreachable, timed out, or its payload was
//     unusable — logged, next seed tried
//   - application rejection: a reachable seed refused the request —
//     refresh aborts at once, remaining seeds untouched
//
// The first seed to answer usably is authoritative; answers are never
// merged across seeds. Its descriptors are parsed into a fresh snapshot,
// installed with one atomic pointer swap only once fully built.
//
// # Lookup path
//
// Lookup hashes the key through the partitioner and binary searches the
// snapshot's ranges for the one containing the token, honoring ring
// wraparound. Failures are precise about the remedy: ErrNotRefreshed means
// the cache was never populated (refresh and retry), ErrNoOwningRange means
// the cached ranges do not cover the token (refresh, then retry once).
//
// Lookups are lock-free and safe concurrently with a refresh; each observes
// either the pre-refresh or post-refresh snapshot in full.
package ringcache
