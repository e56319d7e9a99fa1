package topology

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/ringcache/internal/partition"
)

// tok builds a token from its decimal form.
func tok(t *testing.T, s string) partition.Token {
	t.Helper()
	v, err := partition.RandomPartitioner{}.ParseToken(s)
	require.NoError(t, err)
	return v
}

func TestRangeContains(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		token    string
		contains bool
	}{
		{"inside plain range", "0", "25", "10", true},
		{"start is exclusive", "0", "25", "0", false},
		{"end is inclusive", "0", "25", "25", true},
		{"outside plain range", "0", "25", "30", false},
		{"wrapping range high side", "75", "0", "90", true},
		{"wrapping range low side", "75", "0", "0", true},
		{"wrapping range start exclusive", "75", "0", "75", false},
		{"wrapping range middle excluded", "75", "0", "40", false},
		{"full ring contains anything", "50", "50", "7", true},
		{"full ring contains its boundary", "50", "50", "50", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Range{Start: tok(t, tt.start), End: tok(t, tt.end)}
			assert.Equal(t, tt.contains, r.Contains(tok(t, tt.token)))
		})
	}
}

func TestRangeEqual(t *testing.T) {
	a := Range{Start: tok(t, "0"), End: tok(t, "25")}
	b := Range{Start: tok(t, "0"), End: tok(t, "25")}
	c := Range{Start: tok(t, "25"), End: tok(t, "75")}

	assert.True(t, a.Equal(b), "structurally equal ranges must compare equal")
	assert.False(t, a.Equal(c))
}

func TestNewSnapshotRejectsEmptyTopology(t *testing.T) {
	_, err := NewSnapshot(nil)
	assert.ErrorIs(t, err, ErrEmptyTopology)
}

func TestNewSnapshotRejectsRangeWithoutEndpoints(t *testing.T) {
	_, err := NewSnapshot([]RangeOwners{
		{Range: Range{Start: tok(t, "0"), End: tok(t, "25")}, Endpoints: []string{"n1:9160"}},
		{Range: Range{Start: tok(t, "25"), End: tok(t, "0")}, Endpoints: nil},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no endpoints")
}

// exampleRing is the three-node wrapped ring used throughout: ranges
// (0,25]->n1, (25,75]->n2, (75,0]->n3.
func exampleRing(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot([]RangeOwners{
		{Range: Range{Start: tok(t, "0"), End: tok(t, "25")}, Endpoints: []string{"n1:9160"}},
		{Range: Range{Start: tok(t, "25"), End: tok(t, "75")}, Endpoints: []string{"n2:9160"}},
		{Range: Range{Start: tok(t, "75"), End: tok(t, "0")}, Endpoints: []string{"n3:9160"}},
	})
	require.NoError(t, err)
	return snap
}

func TestSnapshotLocate(t *testing.T) {
	snap := exampleRing(t)

	tests := []struct {
		token string
		owner string
	}{
		{"10", "n1:9160"},
		{"25", "n1:9160"}, // boundary: end is inclusive
		{"26", "n2:9160"},
		{"75", "n2:9160"},
		{"90", "n3:9160"}, // above the highest boundary, wrapping range owns it
		{"0", "n3:9160"},  // ring minimum resolves per the wrap rule
	}

	for _, tt := range tests {
		t.Run("token "+tt.token, func(t *testing.T) {
			endpoints, ok := snap.Locate(tok(t, tt.token))
			require.True(t, ok)
			assert.Equal(t, []string{tt.owner}, endpoints)
		})
	}
}

func TestSnapshotLocateFullRing(t *testing.T) {
	snap, err := NewSnapshot([]RangeOwners{
		{Range: Range{Start: tok(t, "42"), End: tok(t, "42")}, Endpoints: []string{"only:9160"}},
	})
	require.NoError(t, err)

	for _, s := range []string{"0", "42", "41", "43", "1000000"} {
		endpoints, ok := snap.Locate(tok(t, s))
		require.True(t, ok, "token %s", s)
		assert.Equal(t, []string{"only:9160"}, endpoints)
	}
}

func TestSnapshotLocateGapReportsNoOwner(t *testing.T) {
	// Deliberately gappy topology: nothing owns (25, 75].
	snap, err := NewSnapshot([]RangeOwners{
		{Range: Range{Start: tok(t, "0"), End: tok(t, "25")}, Endpoints: []string{"n1:9160"}},
		{Range: Range{Start: tok(t, "75"), End: tok(t, "0")}, Endpoints: []string{"n3:9160"}},
	})
	require.NoError(t, err)

	_, ok := snap.Locate(tok(t, "40"))
	assert.False(t, ok)
}

func TestSnapshotIsACopy(t *testing.T) {
	owners := []RangeOwners{
		{Range: Range{Start: tok(t, "0"), End: tok(t, "0")}, Endpoints: []string{"n1:9160"}},
	}
	snap, err := NewSnapshot(owners)
	require.NoError(t, err)

	// Mutating the input after construction must not reach the snapshot.
	owners[0].Endpoints[0] = "evil:9160"
	endpoints, ok := snap.Locate(tok(t, "5"))
	require.True(t, ok)
	assert.Equal(t, []string{"n1:9160"}, endpoints)
}

func TestSnapshotEqual(t *testing.T) {
	a := exampleRing(t)
	b := exampleRing(t)
	assert.True(t, a.Equal(b))

	c, err := NewSnapshot([]RangeOwners{
		{Range: Range{Start: tok(t, "0"), End: tok(t, "0")}, Endpoints: []string{"n1:9160"}},
	})
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
}

// TestLocateMatchesLinearScan cross-checks the sorted binary search against
// a naive linear scan over randomly tiled rings.
func TestLocateMatchesLinearScan(t *testing.T) {
	p := partition.NewRandomPartitioner()

	for trial := 0; trial < 20; trial++ {
		// Derive boundary tokens by hashing, then tile the ring with the
		// sorted boundaries: (b[i-1], b[i]] plus the wrapping (b[last], b[0]].
		n := 3 + trial%8
		boundaries := make([]partition.Token, 0, n)
		for i := 0; i < n; i++ {
			boundaries = append(boundaries, p.Token([]byte(fmt.Sprintf("boundary-%d-%d", trial, i))))
		}
		sort.Slice(boundaries, func(i, j int) bool {
			return boundaries[i].Cmp(boundaries[j]) < 0
		})

		entries := make([]RangeOwners, 0, n)
		for i := 1; i < n; i++ {
			entries = append(entries, RangeOwners{
				Range:     Range{Start: boundaries[i-1], End: boundaries[i]},
				Endpoints: []string{fmt.Sprintf("node-%d", i)},
			})
		}
		entries = append(entries, RangeOwners{
			Range:     Range{Start: boundaries[n-1], End: boundaries[0]},
			Endpoints: []string{"node-0"},
		})

		snap, err := NewSnapshot(entries)
		require.NoError(t, err)

		for i := 0; i < 50; i++ {
			probe := p.Token([]byte(fmt.Sprintf("probe-%d-%d", trial, i)))

			var want []string
			for _, e := range entries {
				if e.Range.Contains(probe) {
					want = e.Endpoints
					break
				}
			}
			require.NotNil(t, want, "tiled ring must contain every token")

			got, ok := snap.Locate(probe)
			require.True(t, ok, "Locate missed token %s", probe)
			assert.Equal(t, want, got)
		}
	}
}

func TestSnapshotAccessors(t *testing.T) {
	snap := exampleRing(t)

	assert.Equal(t, 3, snap.Len())
	assert.Len(t, snap.Ranges(), 3)

	entries := snap.Entries()
	require.Len(t, entries, 3)
	// Entries are ordered by end token: 0, 25, 75.
	assert.True(t, entries[0].Range.End.Equal(tok(t, "0")))
	assert.True(t, entries[1].Range.End.Equal(tok(t, "25")))
	assert.True(t, entries[2].Range.End.Equal(tok(t, "75")))
}
