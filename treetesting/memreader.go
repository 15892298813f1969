package treetesting

import (
	"context"
	"fmt"
	"testing"

	"github.com/KuanWang-Astro/mergertools/catalog"
	"github.com/KuanWang-Astro/mergertools/sublink"
)

// MemReader is an in-memory catalog.ColumnReader. Reads and Requested record
// every fetch so tests can assert that the store never re-reads a resident
// column.
type MemReader struct {
	// columns[catalog][num][field]
	columns map[string]map[int64]map[string]sublink.Column

	Reads     int
	Requested []string
}

func NewMemReader() *MemReader {
	return &MemReader{columns: map[string]map[int64]map[string]sublink.Column{}}
}

func (m *MemReader) Put(cat string, num int64, cols map[string]sublink.Column) {
	byNum, ok := m.columns[cat]
	if !ok {
		byNum = map[int64]map[string]sublink.Column{}
		m.columns[cat] = byNum
	}
	byFld, ok := byNum[num]
	if !ok {
		byFld = map[string]sublink.Column{}
		byNum[num] = byFld
	}
	for name, col := range cols {
		byFld[name] = col
	}
}

func (m *MemReader) ReadColumns(
	ctx context.Context, cat string, num int64, fields []string,
) (map[string]sublink.Column, error) {
	m.Reads++
	out := make(map[string]sublink.Column, len(fields))
	for _, f := range fields {
		m.Requested = append(m.Requested, catalog.ResidentKey(cat, num)+"/"+f)
		col, ok := m.columns[cat][num][f]
		if !ok {
			return nil, fmt.Errorf("treetesting: no column %s in %s %d", f, cat, num)
		}
		out[f] = col
	}
	return out, nil
}

// Reader assembles the in-memory catalog for the builder's chunk: the tree
// columns plus the offsets and group tables of every snapshot that appears.
func (b *Builder) Reader(t *testing.T) *MemReader {
	t.Helper()
	m := NewMemReader()
	m.Put(catalog.CatalogSubLink, b.chunkNum, b.treeColumns())

	// The offsets table of a snapshot maps SubfindID to SubhaloID; the
	// group table maps group number to the GroupFirstSub subfind id.
	type snapTables struct {
		offsets map[int64]int64
		firsts  map[int64]int64
		maxSub  int64
		maxGrp  int64
	}
	snaps := map[int64]*snapTables{}
	for _, nd := range b.sortedNodes() {
		st, ok := snaps[nd.SnapNum]
		if !ok {
			st = &snapTables{offsets: map[int64]int64{}, firsts: map[int64]int64{}}
			snaps[nd.SnapNum] = st
		}
		st.offsets[nd.SubfindID] = nd.SubhaloID
		if nd.SubfindID > st.maxSub {
			st.maxSub = nd.SubfindID
		}
		if nd.GroupFirst == nd.SubhaloID {
			st.firsts[nd.GrNr] = nd.SubfindID
		}
		if nd.GrNr > st.maxGrp {
			st.maxGrp = nd.GrNr
		}
	}
	for snap, st := range snaps {
		offsets := make(sublink.IntColumn, st.maxSub+1)
		for i := range offsets {
			offsets[i] = -1
		}
		for sub, id := range st.offsets {
			offsets[sub] = id
		}
		m.Put(catalog.CatalogOffsets, snap, map[string]sublink.Column{
			sublink.FieldSubhaloID: offsets,
		})

		firsts := make(sublink.IntColumn, st.maxGrp+1)
		for i := range firsts {
			firsts[i] = -1
		}
		for grp, sub := range st.firsts {
			firsts[grp] = sub
		}
		m.Put(catalog.CatalogGroup, snap, map[string]sublink.Column{
			sublink.FieldGroupFirstSub: firsts,
		})
	}
	return m
}

// Store builds a catalog store over the builder's synthetic catalog.
func (b *Builder) Store(tc TestContext) (*catalog.Store, *MemReader) {
	reader := b.Reader(tc.T)
	return catalog.NewStore(tc.Log, reader), reader
}
