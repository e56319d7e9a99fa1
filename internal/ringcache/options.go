package ringcache

import (
	"time"

	"github.com/dreamware/ringcache/internal/cluster"
)

// options holds the configurable knobs of a Cache.
type options struct {
	seedTimeout time.Duration
	primaryOnly bool
	describer   cluster.Describer
}

func defaultOptions() options {
	return options{
		seedTimeout: 5 * time.Second,
	}
}

// Option configures a Cache at construction.
type Option func(*options)

// WithSeedTimeout bounds each per-seed describe-ring round trip during a
// refresh. One dead seed then costs at most d before the next is tried.
func WithSeedTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.seedTimeout = d
		}
	}
}

// WithPrimaryOnly retains only the first endpoint reported for each range,
// for callers that route to a single primary and never fan out to replicas.
// The default retains the full replica list.
func WithPrimaryOnly() Option {
	return func(o *options) {
		o.primaryOnly = true
	}
}

// WithDescriber injects the topology source used to contact seeds. The
// default is an HTTP describer bound by the seed timeout.
func WithDescriber(d cluster.Describer) Option {
	return func(o *options) {
		o.describer = d
	}
}
