// Package treetesting builds small synthetic merger tree catalogs for tests.
// Pointer chains are wired by the builder so the contiguity and sortedness
// invariants of real SubLink chunks hold by construction.
package treetesting

import (
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/KuanWang-Astro/mergertools/sublink"
)

type TestContext struct {
	T   *testing.T
	Log logger.Logger
}

func NewTestContext(t *testing.T) TestContext {
	logger.New("NOOP")
	return TestContext{T: t, Log: logger.Sugar}
}

// Node is one synthetic subhalo row. Use NewNode so pointers default to the
// -1 sentinel rather than the zero value, which is a legal id in chunk 0.
type Node struct {
	SubhaloID int64
	SnapNum   int64
	SubfindID int64
	GrNr      int64

	FirstProg   int64
	NextProg    int64
	Desc        int64
	LastProg    int64
	MainLeaf    int64
	RootDesc    int64
	GroupFirst  int64
	NextInGroup int64

	GroupMTopHat float32
	GroupMass    float32
	SubhaloMass  float32
}

// NewNode makes a node with every pointer cleared. Its own-subtree pointers
// default to itself, the correct encoding for a leaf.
func NewNode(subhaloID, snapNum, grNr int64, groupMass float32) Node {
	return Node{
		SubhaloID:    subhaloID,
		SnapNum:      snapNum,
		SubfindID:    -1,
		GrNr:         grNr,
		FirstProg:    -1,
		NextProg:     -1,
		Desc:         -1,
		LastProg:     subhaloID,
		MainLeaf:     subhaloID,
		RootDesc:     -1,
		GroupFirst:   -1,
		NextInGroup:  -1,
		GroupMTopHat: groupMass,
		GroupMass:    groupMass,
		SubhaloMass:  groupMass,
	}
}

// Builder assembles one tree chunk plus the per snapshot offsets and group
// tables that reference it.
type Builder struct {
	chunkNum int64
	nodes    map[int64]*Node
	order    []int64
}

func NewBuilder(chunkNum int64) *Builder {
	return &Builder{chunkNum: chunkNum, nodes: map[int64]*Node{}}
}

// ID returns the i'th SubhaloID of the builder's chunk.
func (b *Builder) ID(i int64) int64 {
	return b.chunkNum*sublink.ChunkModulus + i
}

func (b *Builder) Add(nodes ...Node) *Builder {
	for _, n := range nodes {
		n := n
		b.nodes[n.SubhaloID] = &n
		b.order = append(b.order, n.SubhaloID)
	}
	return b
}

func (b *Builder) node(id int64) *Node {
	n, ok := b.nodes[id]
	if !ok {
		panic("treetesting: unknown node id")
	}
	return n
}

// LinkGroup wires the FOF membership chain: ids[0] becomes the group primary
// and the rest follow in the given (mass history) order.
func (b *Builder) LinkGroup(ids ...int64) *Builder {
	for i, id := range ids {
		n := b.node(id)
		n.GroupFirst = ids[0]
		if i+1 < len(ids) {
			n.NextInGroup = ids[i+1]
		} else {
			n.NextInGroup = -1
		}
	}
	return b
}

// LinkProgenitors wires descID's progenitors in rank order: the first becomes
// the first progenitor, the rest chain through the next progenitor pointers,
// and every progenitor's descendant points back at descID.
func (b *Builder) LinkProgenitors(descID int64, progIDs ...int64) *Builder {
	desc := b.node(descID)
	desc.FirstProg = progIDs[0]
	for i, id := range progIDs {
		p := b.node(id)
		p.Desc = descID
		if i+1 < len(progIDs) {
			p.NextProg = progIDs[i+1]
		} else {
			p.NextProg = -1
		}
	}
	return b
}

// sortedNodes returns the nodes ascending by SubhaloID, the chunk's storage
// order.
func (b *Builder) sortedNodes() []*Node {
	ids := make([]int64, len(b.order))
	copy(ids, b.order)
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	nodes := make([]*Node, len(ids))
	for i, id := range ids {
		nodes[i] = b.node(id)
	}
	return nodes
}

// Chunk materializes the tree chunk with every column resident.
func (b *Builder) Chunk(t *testing.T) *sublink.Chunk {
	t.Helper()
	chunk := sublink.NewChunk(b.chunkNum)
	if err := chunk.MergeColumns(b.treeColumns()); err != nil {
		t.Fatalf("treetesting: bad chunk: %v", err)
	}
	return chunk
}

func (b *Builder) treeColumns() map[string]sublink.Column {
	nodes := b.sortedNodes()
	n := len(nodes)

	ints := func(get func(*Node) int64) sublink.IntColumn {
		col := make(sublink.IntColumn, n)
		for i, nd := range nodes {
			col[i] = get(nd)
		}
		return col
	}
	floats := func(get func(*Node) float32) sublink.FloatColumn {
		col := make(sublink.FloatColumn, n)
		for i, nd := range nodes {
			col[i] = get(nd)
		}
		return col
	}

	// Singleton groups are their own primary; subfind ids default to the
	// node's rank within its snapshot.
	subfindNext := map[int64]int64{}
	for _, nd := range nodes {
		if nd.GroupFirst == -1 {
			nd.GroupFirst = nd.SubhaloID
		}
		if nd.SubfindID == -1 {
			nd.SubfindID = subfindNext[nd.SnapNum]
			subfindNext[nd.SnapNum]++
		}
	}
	groupFirstSub := func(nd *Node) int64 { return b.node(nd.GroupFirst).SubfindID }

	return map[string]sublink.Column{
		sublink.FieldGroupFirstSub:            ints(groupFirstSub),
		sublink.FieldSubhaloID:                ints(func(nd *Node) int64 { return nd.SubhaloID }),
		sublink.FieldSnapNum:                  ints(func(nd *Node) int64 { return nd.SnapNum }),
		sublink.FieldSubfindID:                ints(func(nd *Node) int64 { return nd.SubfindID }),
		sublink.FieldSubhaloGrNr:              ints(func(nd *Node) int64 { return nd.GrNr }),
		sublink.FieldFirstProgenitorID:        ints(func(nd *Node) int64 { return nd.FirstProg }),
		sublink.FieldNextProgenitorID:         ints(func(nd *Node) int64 { return nd.NextProg }),
		sublink.FieldDescendantID:             ints(func(nd *Node) int64 { return nd.Desc }),
		sublink.FieldLastProgenitorID:         ints(func(nd *Node) int64 { return nd.LastProg }),
		sublink.FieldMainLeafProgenitorID:     ints(func(nd *Node) int64 { return nd.MainLeaf }),
		sublink.FieldRootDescendantID:         ints(func(nd *Node) int64 { return nd.RootDesc }),
		sublink.FieldFirstSubhaloInFOFGroupID: ints(func(nd *Node) int64 { return nd.GroupFirst }),
		sublink.FieldNextSubhaloInFOFGroupID:  ints(func(nd *Node) int64 { return nd.NextInGroup }),
		sublink.FieldGroupMTopHat:             floats(func(nd *Node) float32 { return nd.GroupMTopHat }),
		sublink.FieldGroupMass:                floats(func(nd *Node) float32 { return nd.GroupMass }),
		sublink.FieldSubhaloMass:              floats(func(nd *Node) float32 { return nd.SubhaloMass }),
	}
}
