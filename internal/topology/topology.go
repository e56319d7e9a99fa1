package topology

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dreamware/ringcache/internal/partition"
)

// Range is a half-open interval (Start, End] on the circular token space.
//
// A range contains token t if t falls strictly after Start and at or before
// End, walking forward around the ring. When Start sorts after End in
// absolute order the interval wraps past the ring maximum back to the
// minimum. Start == End conventionally denotes the entire ring.
//
// Ranges are value types: structurally equal ranges describe the same
// interval.
type Range struct {
	Start partition.Token
	End   partition.Token
}

// Contains reports whether t falls inside the range, honoring wraparound.
func (r Range) Contains(t partition.Token) bool {
	cmp := r.Start.Cmp(r.End)
	if cmp == 0 {
		// Start == End denotes the entire ring.
		return true
	}
	if cmp < 0 {
		return r.Start.Cmp(t) < 0 && t.Cmp(r.End) <= 0
	}
	// Wrapping range: forward past the ring maximum and back around to End.
	return r.Start.Cmp(t) < 0 || t.Cmp(r.End) <= 0
}

// Equal reports whether two ranges describe the same interval.
func (r Range) Equal(o Range) bool {
	return r.Start.Equal(o.Start) && r.End.Equal(o.End)
}

// String renders the range in interval notation.
func (r Range) String() string {
	return fmt.Sprintf("(%s,%s]", r.Start, r.End)
}

// RangeOwners associates one range with the endpoint addresses that own it.
// Every range must carry at least one endpoint; Endpoints preserves the
// order the topology source reported.
type RangeOwners struct {
	Range     Range
	Endpoints []string
}

// Snapshot is one refresh's fully formed view of the topology: a set of
// ranges and the endpoints owning each. Snapshots are immutable once built;
// a later refresh replaces the whole snapshot rather than mutating it, so a
// reader holding a snapshot can use it without locking.
type Snapshot struct {
	// entries is sorted by end token. Ranges are expected to tile the ring,
	// so end tokens are unique boundary points and at most one entry wraps.
	entries []RangeOwners
}

// ErrEmptyTopology is returned when a snapshot is built from zero ranges.
var ErrEmptyTopology = errors.New("topology: no ranges")

// NewSnapshot builds an immutable snapshot from the given entries.
//
// A range with zero endpoints is a contract violation by the topology source
// and fails the whole snapshot; partial snapshots are never produced.
// Entry slices are copied, so callers may reuse their inputs.
func NewSnapshot(entries []RangeOwners) (*Snapshot, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTopology
	}

	sorted := make([]RangeOwners, len(entries))
	for i, e := range entries {
		if len(e.Endpoints) == 0 {
			return nil, fmt.Errorf("topology: range %s has no endpoints", e.Range)
		}
		sorted[i] = RangeOwners{
			Range:     e.Range,
			Endpoints: append([]string(nil), e.Endpoints...),
		}
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.End.Cmp(sorted[j].Range.End) < 0
	})

	return &Snapshot{entries: sorted}, nil
}

// Locate returns the endpoints owning the range that contains t.
//
// Because the ranges of a well-formed topology tile the ring, the owner of t
// is the entry with the smallest end token at or after t, wrapping to the
// smallest end token overall when t sorts past every boundary. Locate binary
// searches on that property and verifies containment; if the source data is
// gappy or overlapping the guess can miss, in which case a linear scan is
// the authority. Returns false when no range contains t.
//
// The returned slice is shared with the snapshot and must not be modified.
func (s *Snapshot) Locate(t partition.Token) ([]string, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}

	idx := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Range.End.Cmp(t) >= 0
	})
	if idx == len(s.entries) {
		// Past the highest boundary: the wrapping range owns the tail of
		// the ring, and its end token is the smallest.
		idx = 0
	}
	if s.entries[idx].Range.Contains(t) {
		return s.entries[idx].Endpoints, true
	}

	for _, e := range s.entries {
		if e.Range.Contains(t) {
			return e.Endpoints, true
		}
	}
	return nil, false
}

// Ranges returns the snapshot's ranges in end-token order.
// The slice is a copy and safe for the caller to modify.
func (s *Snapshot) Ranges() []Range {
	ranges := make([]Range, len(s.entries))
	for i, e := range s.entries {
		ranges[i] = e.Range
	}
	return ranges
}

// Entries returns a copy of the snapshot's (range, endpoints) pairs in
// end-token order.
func (s *Snapshot) Entries() []RangeOwners {
	entries := make([]RangeOwners, len(s.entries))
	for i, e := range s.entries {
		entries[i] = RangeOwners{
			Range:     e.Range,
			Endpoints: append([]string(nil), e.Endpoints...),
		}
	}
	return entries
}

// Len returns the number of ranges in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Equal reports whether two snapshots describe the same topology: the same
// set of ranges, each owned by the same endpoints in the same order.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if len(s.entries) != len(o.entries) {
		return false
	}
	for i, e := range s.entries {
		oe := o.entries[i]
		if !e.Range.Equal(oe.Range) {
			return false
		}
		if len(e.Endpoints) != len(oe.Endpoints) {
			return false
		}
		for j, ep := range e.Endpoints {
			if ep != oe.Endpoints[j] {
				return false
			}
		}
	}
	return true
}
