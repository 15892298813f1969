// Package sublink implements traversal of SubLink subhalo merger trees.
//
// A SubLink catalog stores every subhalo of every snapshot of a simulation as
// one row in a flat table, partitioned into chunks. Rows are sorted ascending
// by SubhaloID and the ids are assigned depth first, so the subtree below any
// subhalo occupies a contiguous id range. Tree edges are stored as pointer
// columns (FirstProgenitorID, DescendantID, ...) holding either -1 or the
// SubhaloID of the related subhalo. Because related subhalos always share a
// chunk, a pointer is followed by adding the id difference to the current row
// index; no second lookup is required.
//
// The package is purely computational. It operates on Chunk values whose
// columns are already resident in memory; loading them is the catalog
// package's concern. All operations either return a result or an error, and
// all of them honour the single chunk locality rule: inputs that span chunks
// fail with ErrCrossChunkQuery rather than returning a partial answer.
//
// Query results are returned as TreeSlice values: a set of row indices into
// the chunk plus the gathered columns the caller asked for. An empty result
// is a TreeSlice with Count zero and zero length, correctly typed columns,
// never nil.
package sublink
