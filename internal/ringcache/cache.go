package ringcache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slices"

	"github.com/dreamware/ringcache/internal/cluster"
	"github.com/dreamware/ringcache/internal/partition"
	"github.com/dreamware/ringcache/internal/topology"
)

var (
	// ErrNotRefreshed is returned by Lookup before any refresh has
	// succeeded. Recoverable: call Refresh and retry.
	ErrNotRefreshed = errors.New("ringcache: not refreshed")

	// ErrNoOwningRange is returned by Lookup when no cached range contains
	// the key's token. The installed topology does not tile the ring, or
	// the cache is stale relative to the cluster; callers should Refresh
	// and retry once before treating it as persistent.
	ErrNoOwningRange = errors.New("ringcache: no owning range for key")

	// ErrNoSeedAvailable is returned by Refresh when every seed failed at
	// the transport level and no usable response was obtained. A previously
	// installed snapshot, if any, is left untouched.
	ErrNoSeedAvailable = errors.New("ringcache: no seed available")

	// ErrNoSeeds is returned by New when the seed list parses to nothing.
	ErrNoSeeds = errors.New("ringcache: no seeds")
)

// Cache is a client-side cache of a keyspace's token-range-to-node layout,
// used to route keys directly to the node(s) owning them.
//
// State model: a cache is either uninitialized (no refresh has ever
// succeeded; every Lookup returns ErrNotRefreshed) or ready (the last
// successful refresh's snapshot is installed). There is no intermediate
// state: a refresh builds its snapshot fully off to the side and publishes
// it with a single atomic store.
//
// Concurrency: any number of goroutines may call Lookup concurrently with
// each other and with a Refresh; each Lookup reads one fully formed
// snapshot, never a mix of two. Refreshes are serialized internally, and a
// failed refresh never retracts or corrupts the installed snapshot.
type Cache struct {
	keyspace    string
	partitioner partition.Partitioner
	seeds       []string
	opts        options

	// refreshMu serializes refreshes; lookups never take it.
	refreshMu sync.Mutex
	snapshot  atomic.Pointer[topology.Snapshot]
}

// New builds a cache for keyspace and performs one synchronous refresh
// against the given seeds, failing fast if that refresh fails.
//
// seeds is a comma-separated address list. A bare "host" entry is combined
// with port; a "host:port" entry keeps its explicit port. Input order is
// preserved (refresh tries seeds in this order) and duplicates are dropped.
func New(ctx context.Context, keyspace string, p partition.Partitioner, seeds string, port int, opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.describer == nil {
		o.describer = cluster.NewHTTPDescriber(o.seedTimeout)
	}

	parsed, err := parseSeeds(seeds, port)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		keyspace:    keyspace,
		partitioner: p,
		seeds:       parsed,
		opts:        o,
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// parseSeeds splits a comma-separated seed list, applying defaultPort to
// entries without an explicit port. Order is preserved, duplicates dropped.
func parseSeeds(s string, defaultPort int) ([]string, error) {
	var seeds []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, ":") {
			part = fmt.Sprintf("%s:%d", part, defaultPort)
		}
		if !slices.Contains(seeds, part) {
			seeds = append(seeds, part)
		}
	}
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}
	return seeds, nil
}

// Refresh rebuilds the snapshot from the live cluster.
//
// Seeds are tried in input order. A transport failure against one seed is
// logged and the next seed is tried; an application-level rejection from a
// reachable seed aborts immediately without contacting further seeds, since
// no other seed will accept a request this one called invalid. The first
// seed to yield a usable response is authoritative: its ranges are parsed
// into a brand-new snapshot, which is installed atomically, and no further
// seeds are contacted. If every seed is exhausted, ErrNoSeedAvailable is
// returned (wrapping the last transport failure) and the previously
// installed snapshot is left as it was.
func (c *Cache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	var lastErr error
	for _, seed := range c.seeds {
		seedCtx, cancel := context.WithTimeout(ctx, c.opts.seedTimeout)
		descs, err := c.opts.describer.DescribeRing(seedCtx, seed, c.keyspace)
		cancel()
		if err != nil {
			if cluster.IsRejection(err) {
				return err
			}
			log.Printf("ringcache: seed %s unavailable: %v", seed, err)
			lastErr = err
			continue
		}

		snap, err := c.buildSnapshot(descs)
		if err != nil {
			// The seed answered but its payload is unusable. Nothing of it
			// is installed; the next seed gets a chance.
			log.Printf("ringcache: seed %s returned unusable topology: %v", seed, err)
			lastErr = err
			continue
		}

		c.snapshot.Store(snap)
		return nil
	}

	return fmt.Errorf("%w for keyspace %q: %v", ErrNoSeedAvailable, c.keyspace, lastErr)
}

// buildSnapshot parses one seed's descriptors into a new snapshot. Any
// unparsable token or endpoint-less range fails the whole response.
func (c *Cache) buildSnapshot(descs []cluster.RangeDescriptor) (*topology.Snapshot, error) {
	entries := make([]topology.RangeOwners, 0, len(descs))
	for _, d := range descs {
		start, err := c.partitioner.ParseToken(d.StartToken)
		if err != nil {
			return nil, fmt.Errorf("start token: %w", err)
		}
		end, err := c.partitioner.ParseToken(d.EndToken)
		if err != nil {
			return nil, fmt.Errorf("end token: %w", err)
		}
		if len(d.Endpoints) == 0 {
			return nil, fmt.Errorf("range (%s,%s] has no endpoints", d.StartToken, d.EndToken)
		}

		endpoints := d.Endpoints
		if c.opts.primaryOnly {
			endpoints = endpoints[:1]
		}
		entries = append(entries, topology.RangeOwners{
			Range:     topology.Range{Start: start, End: end},
			Endpoints: endpoints,
		})
	}
	return topology.NewSnapshot(entries)
}

// Lookup returns the endpoint addresses owning key, per the snapshot
// installed by the last successful refresh. It performs no I/O and never
// blocks on a refresh in progress.
func (c *Cache) Lookup(key []byte) ([]string, error) {
	snap := c.snapshot.Load()
	if snap == nil {
		return nil, ErrNotRefreshed
	}

	t := c.partitioner.Token(key)
	endpoints, ok := snap.Locate(t)
	if !ok {
		return nil, fmt.Errorf("%w: token %s", ErrNoOwningRange, t)
	}
	// Copy so callers cannot mutate the shared snapshot.
	return append([]string(nil), endpoints...), nil
}

// Snapshot returns the currently installed snapshot, or nil before the
// first successful refresh.
func (c *Cache) Snapshot() *topology.Snapshot {
	return c.snapshot.Load()
}

// Seeds returns the parsed seed addresses in the order refresh tries them.
func (c *Cache) Seeds() []string {
	return append([]string(nil), c.seeds...)
}
