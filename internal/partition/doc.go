// Package partition defines the token space the topology cache routes over
// and the Partitioner capability that places keys on it.
//
// A Token is an opaque, totally ordered position on a fixed circular space.
// The cache never inspects token internals; it only compares them, so any
// partitioner whose tokens round-trip through their string form can be
// plugged in. RandomPartitioner (MD5 over the raw key bytes, read as an
// unsigned 128-bit integer) is provided as the default.
package partition
