package sublink

import "errors"

var (
	ErrInvalidIdentifier = errors.New("subhalo id is negative or malformed")
	ErrInvalidLimit      = errors.New("row limit must not be negative")
	ErrNodeNotFound      = errors.New("subhalo id not present in the chunk")
	ErrCrossChunkQuery   = errors.New("operation requires all subhalos to be in the same tree chunk")
	ErrUnknownRelation   = errors.New("unknown pointer relation")
)

var (
	ErrFieldNotLoaded    = errors.New("column is not resident in the chunk")
	ErrFieldWrongType    = errors.New("column does not have the requested element type")
	ErrColumnLenMismatch = errors.New("columns in one chunk must all have the same length")
	ErrNoSlices          = errors.New("merge requires at least one input slice")
)
