package sublink

import (
	"fmt"
	"sort"
)

// Chunk is one resident storage partition of a catalog: a set of equal length
// columns for a contiguous, ascending range of SubhaloID. Chunks are built by
// the catalog store and treated as read only by every query.
//
// SubLink tree chunks always carry the SubhaloID column, sorted ascending,
// which is what makes Locate a binary search. Chunks of the per snapshot
// catalogs (offsets, groups) are positional and are not searched by id.
type Chunk struct {
	// Num is the chunk number for tree chunks, or the snapshot number for
	// per snapshot catalogs.
	Num int64

	columns map[string]Column
}

func NewChunk(num int64) *Chunk {
	return &Chunk{Num: num, columns: map[string]Column{}}
}

// MergeColumns adds resident columns to the chunk. Loading is additive:
// a column that is already resident is left untouched, so repeated loads of
// overlapping field sets are idempotent. All columns in one chunk must have
// the same length.
func (c *Chunk) MergeColumns(cols map[string]Column) error {
	length := -1
	for _, col := range c.columns {
		length = col.Len()
		break
	}
	for name, col := range cols {
		if _, ok := c.columns[name]; ok {
			continue
		}
		if length >= 0 && col.Len() != length {
			return fmt.Errorf("%w: %s has %d rows, chunk has %d",
				ErrColumnLenMismatch, name, col.Len(), length)
		}
		if length < 0 {
			length = col.Len()
		}
		c.columns[name] = col
	}
	return nil
}

// Column returns the resident column by name.
func (c *Chunk) Column(name string) (Column, error) {
	col, ok := c.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (chunk %d)", ErrFieldNotLoaded, name, c.Num)
	}
	return col, nil
}

// HasColumn reports whether the named column is resident.
func (c *Chunk) HasColumn(name string) bool {
	_, ok := c.columns[name]
	return ok
}

// Ints returns the named resident column as int64 values.
func (c *Chunk) Ints(name string) (IntColumn, error) {
	col, err := c.Column(name)
	if err != nil {
		return nil, err
	}
	ints, ok := col.(IntColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an integer column", ErrFieldWrongType, name)
	}
	return ints, nil
}

// Floats returns the named resident column as float32 values.
func (c *Chunk) Floats(name string) (FloatColumn, error) {
	col, err := c.Column(name)
	if err != nil {
		return nil, err
	}
	floats, ok := col.(FloatColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a float column", ErrFieldWrongType, name)
	}
	return floats, nil
}

// Len returns the number of rows in the chunk, 0 when nothing is resident.
func (c *Chunk) Len() int {
	for _, col := range c.columns {
		return col.Len()
	}
	return 0
}

func (c *Chunk) ids() (IntColumn, error) {
	return c.Ints(FieldSubhaloID)
}

// Locate finds the row of the given subhalo in the chunk's sorted SubhaloID
// column. The id must belong to this chunk and must be present exactly.
func (c *Chunk) Locate(subhaloID int64) (int, error) {
	chunkNum, err := ChunkNum(subhaloID)
	if err != nil {
		return 0, err
	}
	if chunkNum != c.Num {
		return 0, fmt.Errorf("%w: id %d is in chunk %d, not %d",
			ErrCrossChunkQuery, subhaloID, chunkNum, c.Num)
	}
	ids, err := c.ids()
	if err != nil {
		return 0, err
	}
	row := sort.Search(len(ids), func(i int) bool { return ids[i] >= subhaloID })
	if row == len(ids) || ids[row] != subhaloID {
		return 0, fmt.Errorf("%w: %d", ErrNodeNotFound, subhaloID)
	}
	return row, nil
}

// LocateMany locates a batch of subhalo ids which are required to all be in
// this chunk. A cross chunk batch fails with ErrCrossChunkQuery naming the
// first offending index.
func (c *Chunk) LocateMany(subhaloIDs []int64) ([]int, error) {
	if _, err := ChunkNumMany(subhaloIDs); err != nil {
		return nil, err
	}
	rows := make([]int, len(subhaloIDs))
	for i, id := range subhaloIDs {
		row, err := c.Locate(id)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

// Gather builds a TreeSlice from the given rows, copying each requested field
// under the row selection. Rows may be empty; the result then has Count zero
// and typed zero length columns.
func (c *Chunk) Gather(rows []int, fields []string) (*TreeSlice, error) {
	if rows == nil {
		rows = []int{}
	}
	s := &TreeSlice{
		Count:    len(rows),
		ChunkNum: c.Num,
		Rows:     rows,
		Fields:   make(map[string]Column, len(fields)),
	}
	for _, name := range fields {
		col, err := c.Column(name)
		if err != nil {
			return nil, err
		}
		s.Fields[name] = col.Gather(rows)
	}
	return s, nil
}
