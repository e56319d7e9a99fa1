// Package cluster is the boundary to the cluster's topology source: the wire
// types of a describe-ring exchange and a Describer that performs it against
// one node.
//
// The cache consumes this boundary, it does not own it. The only contract
// that matters to callers is the failure split: a transport failure (node
// unreachable, timed out, or answering garbage) is returned as a plain
// error and is worth retrying against a different seed, while an
// application-level rejection (*RejectionError: the node is reachable and
// says the request itself is invalid) is not — no other seed will answer a
// bad request differently. IsRejection distinguishes the two.
//
// HTTPDescriber is the concrete transport: GET /ring/{keyspace} on a seed,
// JSON range descriptors back, bounded by a per-request timeout.
package cluster
