package sublink

import "fmt"

// SubLink catalog column names. The pointer columns hold either NoPointer or
// the SubhaloID of the related subhalo.
const (
	FieldSubhaloID   = "SubhaloID"
	FieldSnapNum     = "SnapNum"
	FieldSubfindID   = "SubfindID"
	FieldSubhaloGrNr = "SubhaloGrNr"

	FieldFirstProgenitorID        = "FirstProgenitorID"
	FieldNextProgenitorID         = "NextProgenitorID"
	FieldDescendantID             = "DescendantID"
	FieldLastProgenitorID         = "LastProgenitorID"
	FieldMainLeafProgenitorID     = "MainLeafProgenitorID"
	FieldRootDescendantID         = "RootDescendantID"
	FieldFirstSubhaloInFOFGroupID = "FirstSubhaloInFOFGroupID"
	FieldNextSubhaloInFOFGroupID  = "NextSubhaloInFOFGroupID"

	FieldGroupFirstSub = "GroupFirstSub"
	FieldGroupMTopHat  = "Group_M_TopHat200"
	FieldGroupMass     = "GroupMass"
	FieldSubhaloMass   = "SubhaloMass"
	FieldMassHistory   = "MassHistory"
)

// Column is one fixed-length catalog column resident in memory. Concrete
// columns are IntColumn and FloatColumn; the engine never mutates a resident
// column, Gather always allocates.
type Column interface {
	Len() int
	// Gather selects the given rows, in order, into a new column of the
	// same concrete type. rows may be empty, the result is then a typed
	// zero length column.
	Gather(rows []int) Column
}

type IntColumn []int64

func (c IntColumn) Len() int { return len(c) }

func (c IntColumn) Gather(rows []int) Column {
	out := make(IntColumn, len(rows))
	for i, r := range rows {
		out[i] = c[r]
	}
	return out
}

type FloatColumn []float32

func (c FloatColumn) Len() int { return len(c) }

func (c FloatColumn) Gather(rows []int) Column {
	out := make(FloatColumn, len(rows))
	for i, r := range rows {
		out[i] = c[r]
	}
	return out
}

// TreeSlice is the result record for every query in this package: a set of
// rows from a single chunk together with the columns the caller requested.
// Field presence and element type are checked once, through Ints and Floats,
// rather than at each access.
type TreeSlice struct {
	// Count is the number of distinct rows in the slice.
	Count int
	// ChunkNum is the chunk every row belongs to.
	ChunkNum int64
	// Rows holds the row indices into the chunk, in result order.
	Rows []int
	// Fields maps column name to the gathered values, aligned with Rows.
	Fields map[string]Column
}

// Field returns the gathered column by name.
func (s *TreeSlice) Field(name string) (Column, error) {
	col, ok := s.Fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotLoaded, name)
	}
	return col, nil
}

// Ints returns the named column as int64 values.
func (s *TreeSlice) Ints(name string) (IntColumn, error) {
	col, err := s.Field(name)
	if err != nil {
		return nil, err
	}
	ints, ok := col.(IntColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an integer column", ErrFieldWrongType, name)
	}
	return ints, nil
}

// Floats returns the named column as float32 values.
func (s *TreeSlice) Floats(name string) (FloatColumn, error) {
	col, err := s.Field(name)
	if err != nil {
		return nil, err
	}
	floats, ok := col.(FloatColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a float column", ErrFieldWrongType, name)
	}
	return floats, nil
}
