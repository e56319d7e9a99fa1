// Package main implements ringlookup, a CLI that resolves keys to their
// owning endpoints through a live ring cache.
//
// It constructs a cache against the configured seeds (performing one
// synchronous refresh), then resolves each key given on the command line and
// prints the owning endpoints. When a lookup reports no owning range, it
// refreshes once and retries before giving up — the recommended caller
// response to a stale cache.
//
// Configuration:
//   - RING_SEEDS:        Comma-separated seed addresses (required; "host" or "host:port")
//   - RING_PORT:         Default port for seeds without one (default: "9160")
//   - RING_KEYSPACE:     Keyspace to describe (required)
//   - RING_PRIMARY_ONLY: "true" to retain only the first endpoint per range
//
// Example usage:
//
//	RING_SEEDS=10.0.0.1,10.0.0.2 RING_KEYSPACE=events ./ringlookup user:123 order:9
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dreamware/ringcache/internal/partition"
	"github.com/dreamware/ringcache/internal/ringcache"
)

func main() {
	seeds := os.Getenv("RING_SEEDS")
	if seeds == "" {
		log.Fatalf("RING_SEEDS is required")
	}
	keyspace := os.Getenv("RING_KEYSPACE")
	if keyspace == "" {
		log.Fatalf("RING_KEYSPACE is required")
	}
	port, err := strconv.Atoi(getenv("RING_PORT", "9160"))
	if err != nil {
		log.Fatalf("RING_PORT: %v", err)
	}

	keys := os.Args[1:]
	if len(keys) == 0 {
		log.Fatalf("usage: ringlookup KEY [KEY...]")
	}

	var opts []ringcache.Option
	if getenv("RING_PRIMARY_ONLY", "false") == "true" {
		opts = append(opts, ringcache.WithPrimaryOnly())
	}

	ctx := context.Background()
	cache, err := ringcache.New(ctx, keyspace, partition.NewRandomPartitioner(), seeds, port, opts...)
	if err != nil {
		log.Fatalf("build ring cache: %v", err)
	}
	log.Printf("cached %d ranges for keyspace %q", cache.Snapshot().Len(), keyspace)

	for _, key := range keys {
		endpoints, err := lookupWithRetry(ctx, cache, []byte(key))
		if err != nil {
			log.Fatalf("lookup %q: %v", key, err)
		}
		fmt.Printf("%s -> %v\n", key, endpoints)
	}
}

// lookupWithRetry resolves key, refreshing the cache and retrying once when
// the installed topology has no owning range for it.
func lookupWithRetry(ctx context.Context, cache *ringcache.Cache, key []byte) ([]string, error) {
	endpoints, err := cache.Lookup(key)
	if err == nil || !errors.Is(err, ringcache.ErrNoOwningRange) {
		return endpoints, err
	}
	if err := cache.Refresh(ctx); err != nil {
		return nil, err
	}
	return cache.Lookup(key)
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
