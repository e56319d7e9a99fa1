// Package topology models the cluster's token-range layout as seen by a
// routing client: wrapped half-open ranges over the circular token space and
// immutable snapshots mapping each range to the endpoints that own it.
//
// # Containment
//
// A Range (Start, End] contains a token by walking forward around the ring
// from Start; Start > End wraps past the ring maximum, and Start == End
// denotes the full ring. Containment is the only topology question lookups
// ask, so it is the invariant everything else is arranged around.
//
// # Snapshots
//
// A Snapshot is built once, from the complete response of a single topology
// source, and never mutated. Entries are kept sorted by end token so Locate
// can binary search for the owning range; a containment check guards the
// search result and a linear scan is the fallback authority when the source
// data does not tile the ring cleanly. Readers therefore need no locks: the
// cache publishes whole snapshots through an atomic pointer and every reader
// sees either the old view or the new one, never a mix.
package topology
