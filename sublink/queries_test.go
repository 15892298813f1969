package sublink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KuanWang-Astro/mergertools/sublink"
)

var queryFields = []string{sublink.FieldSubhaloID, sublink.FieldSnapNum, sublink.FieldGroupMass}

func sliceIDs(t *testing.T, s *sublink.TreeSlice) sublink.IntColumn {
	t.Helper()
	ids, err := s.Ints(sublink.FieldSubhaloID)
	require.NoError(t, err)
	return ids
}

func TestSingle(t *testing.T) {
	b := mergerTreeBuilder(1)
	c := b.Chunk(t)

	s, err := sublink.Single(c, b.ID(4), queryFields)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, sublink.IntColumn{b.ID(4)}, sliceIDs(t, s))
	snaps, err := s.Ints(sublink.FieldSnapNum)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{2}, snaps)

	_, err = sublink.Single(c, b.ID(77), queryFields)
	assert.ErrorIs(t, err, sublink.ErrNodeNotFound)
}

// A five row chunk where only one link exists: the progenitor pointer of row
// 102 lands one row up, and row 103's pointer is the self terminator. The
// pointer arithmetic must produce exactly [103] for the former and nothing
// for the latter.
func TestImmediateProgenitorsMinimal(t *testing.T) {
	c := sublink.NewChunk(0)
	require.NoError(t, c.MergeColumns(map[string]sublink.Column{
		sublink.FieldSubhaloID: sublink.IntColumn{100, 101, 102, 103, 104},
		sublink.FieldFirstProgenitorID: sublink.IntColumn{
			sublink.NoPointer, sublink.NoPointer, 103, 103, sublink.NoPointer,
		},
		sublink.FieldNextProgenitorID: sublink.IntColumn{
			sublink.NoPointer, sublink.NoPointer, sublink.NoPointer, sublink.NoPointer, sublink.NoPointer,
		},
	}))

	s, err := sublink.ImmediateProgenitors(c, 102, []string{sublink.FieldSubhaloID})
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{103}, sliceIDs(t, s))

	s, err = sublink.ImmediateProgenitors(c, 103, []string{sublink.FieldSubhaloID})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, sublink.IntColumn{}, sliceIDs(t, s))
}

func TestImmediateProgenitors(t *testing.T) {
	b := mergerTreeBuilder(1)
	c := b.Chunk(t)
	id := b.ID

	// the root's progenitors come back in next progenitor chain order,
	// highest mass history rank first
	s, err := sublink.ImmediateProgenitors(c, id(0), queryFields)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(1), id(4)}, sliceIDs(t, s))

	s, err = sublink.ImmediateProgenitors(c, id(2), queryFields)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(3)}, sliceIDs(t, s))

	// a leaf has none
	s, err = sublink.ImmediateProgenitors(c, id(3), queryFields)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count)
}

func TestImmediateDescendant(t *testing.T) {
	b := mergerTreeBuilder(1)
	c := b.Chunk(t)
	id := b.ID

	s, err := sublink.ImmediateDescendant(c, id(5), queryFields)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(4)}, sliceIDs(t, s))

	// the root has no descendant
	s, err = sublink.ImmediateDescendant(c, id(0), queryFields)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count)
}

func TestGroupMembers(t *testing.T) {
	b := mergerTreeBuilder(1)
	c := b.Chunk(t)
	id := b.ID

	// membership is the same from the primary and from a satellite
	for _, start := range []int64{id(1), id(4)} {
		s, err := sublink.GroupMembers(c, start, queryFields, 0)
		require.NoError(t, err)
		assert.Equal(t, sublink.IntColumn{id(1), id(4)}, sliceIDs(t, s))
	}

	// numlimit caps the membership at exactly that many rows
	s, err := sublink.GroupMembers(c, id(4), queryFields, 1)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(1)}, sliceIDs(t, s))

	// a singleton group is just the subhalo
	s, err = sublink.GroupMembers(c, id(0), queryFields, 0)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(0)}, sliceIDs(t, s))

	_, err = sublink.GroupMembers(c, id(0), queryFields, -3)
	assert.ErrorIs(t, err, sublink.ErrInvalidLimit)
}

func TestTreeProgenitors(t *testing.T) {
	b := mergerTreeBuilder(1)
	c := b.Chunk(t)
	id := b.ID

	// the full subtree is the contiguous range down to the last progenitor
	s, err := sublink.TreeProgenitors(c, id(0), queryFields, false)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(0), id(1), id(2), id(3), id(4), id(5)}, sliceIDs(t, s))

	s, err = sublink.TreeProgenitors(c, id(4), queryFields, false)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(4), id(5)}, sliceIDs(t, s))

	// the main branch stops at the main leaf
	s, err = sublink.TreeProgenitors(c, id(0), queryFields, true)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(0), id(1), id(2), id(3)}, sliceIDs(t, s))

	// a leaf's subtree is itself
	s, err = sublink.TreeProgenitors(c, id(3), queryFields, true)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(3)}, sliceIDs(t, s))
}

func TestTreeDescendants(t *testing.T) {
	b := mergerTreeBuilder(1)
	c := b.Chunk(t)
	id := b.ID

	s, err := sublink.TreeDescendants(c, id(3), queryFields, false)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(3), id(2), id(1), id(0)}, sliceIDs(t, s))

	// 5 descends into 4, which is a secondary progenitor of 0: the chain
	// leaves the main branch there and the main branch walk must stop
	s, err = sublink.TreeDescendants(c, id(5), queryFields, false)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(5), id(4), id(0)}, sliceIDs(t, s))

	s, err = sublink.TreeDescendants(c, id(5), queryFields, true)
	require.NoError(t, err)
	assert.Equal(t, sublink.IntColumn{id(5), id(4)}, sliceIDs(t, s))
}

// The main branch walk steps through the same pointer validation as the
// iterative walks, so a corrupt descendant pointer is an error, never a
// panic or a silently wrong row.
func TestTreeDescendantsDanglingPointer(t *testing.T) {
	// pointer off the front of the chunk
	c := sublink.NewChunk(0)
	require.NoError(t, c.MergeColumns(map[string]sublink.Column{
		sublink.FieldSubhaloID:    sublink.IntColumn{5, 6},
		sublink.FieldDescendantID: sublink.IntColumn{4, sublink.NoPointer},
	}))
	_, err := sublink.TreeDescendants(c, 5, []string{sublink.FieldSubhaloID}, true)
	assert.ErrorIs(t, err, sublink.ErrNodeNotFound)

	// pointer into an id gap: the row above does not hold the target id
	c = sublink.NewChunk(0)
	require.NoError(t, c.MergeColumns(map[string]sublink.Column{
		sublink.FieldSubhaloID:    sublink.IntColumn{0, 2},
		sublink.FieldDescendantID: sublink.IntColumn{sublink.NoPointer, 1},
	}))
	_, err = sublink.TreeDescendants(c, 2, []string{sublink.FieldSubhaloID}, true)
	assert.ErrorIs(t, err, sublink.ErrNodeNotFound)
}
