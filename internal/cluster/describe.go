package cluster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultTimeout bounds a describe-ring round trip when the caller supplies
// no tighter deadline, so one dead seed cannot stall a refresh.
const defaultTimeout = 5 * time.Second

// Describer is the consumed topology-source boundary: ask one node to
// describe the ring for a keyspace. Implementations classify failures into
// two tiers — a transport failure (plain error) means the node could not be
// reached or answered garbage, while a *RejectionError means a reachable
// node explicitly refused the request.
type Describer interface {
	DescribeRing(ctx context.Context, addr, keyspace string) ([]RangeDescriptor, error)
}

// RejectionError is an application-level rejection from a reachable node:
// the node understood the request and refused it (unknown keyspace,
// malformed call). Unlike a transport failure, trying another seed cannot
// help, so callers abort on it.
type RejectionError struct {
	Addr     string
	Keyspace string
	Status   int
	Reason   string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("node %s rejected describe-ring for keyspace %q: %d %s",
		e.Addr, e.Keyspace, e.Status, e.Reason)
}

// IsRejection reports whether err is an application-level rejection rather
// than a transport failure.
func IsRejection(err error) bool {
	var r *RejectionError
	return errors.As(err, &r)
}

// HTTPDescriber fetches ring descriptions over HTTP/JSON with
// GET http://{addr}/ring/{keyspace}. HTTP 4xx responses become
// RejectionError; connection failures, timeouts, 5xx responses, and
// undecodable bodies are transport failures.
type HTTPDescriber struct {
	client *http.Client
}

// NewHTTPDescriber returns a describer whose round trips are bounded by
// timeout; a non-positive timeout selects the default. The per-request
// context can always impose a tighter deadline.
func NewHTTPDescriber(timeout time.Duration) *HTTPDescriber {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPDescriber{
		client: &http.Client{Timeout: timeout},
	}
}

// DescribeRing fetches the token-range layout of keyspace from the node at
// addr ("host:port").
func (d *HTTPDescriber) DescribeRing(ctx context.Context, addr, keyspace string) ([]RangeDescriptor, error) {
	target := fmt.Sprintf("http://%s/ring/%s", addr, url.PathEscape(keyspace))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("describe ring %s: %w", addr, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("describe ring %s: %w", addr, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &RejectionError{
			Addr:     addr,
			Keyspace: keyspace,
			Status:   resp.StatusCode,
			Reason:   strings.TrimSpace(string(reason)),
		}
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("describe ring %s: http %d", addr, resp.StatusCode)
	}

	var out DescribeRingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("describe ring %s: decode: %w", addr, err)
	}
	return out.Ranges, nil
}
