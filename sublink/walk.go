package sublink

import "fmt"

// Walk follows the named pointer relation from the given subhalo and returns
// the visited rows in traversal order.
//
// Single jump relations (MainLeafProgenitorID, LastProgenitorID,
// RootDescendantID, FirstSubhaloInFOFGroupID) resolve once through the stored
// offset and return the singleton resolved row; when the pointer equals the
// start id (offset zero) that is the start row itself.
//
// Iterative relations (FirstProgenitorID, NextProgenitorID, DescendantID,
// NextSubhaloInFOFGroupID) emit the start row and then every row reached by
// repeatedly applying the pointer offset, stopping at the -1 sentinel, at a
// self pointer, or once limit rows have been collected. limit 0 means
// unbounded, a negative limit is rejected. A DescendantID walk therefore
// emits the earliest snapshot first.
//
// Pointer targets are required to stay inside the start's chunk; a pointer
// whose target id resolves to a different chunk fails with ErrCrossChunkQuery
// and nothing is returned.
func Walk(c *Chunk, startID int64, relationName string, limit int) ([]int, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit %d", ErrInvalidLimit, limit)
	}
	rel, err := parseRelation(relationName)
	if err != nil {
		return nil, err
	}
	row, err := c.Locate(startID)
	if err != nil {
		return nil, err
	}
	ids, err := c.ids()
	if err != nil {
		return nil, err
	}
	ptrs, err := c.Ints(rel.field)
	if err != nil {
		return nil, err
	}

	if !rel.iterative {
		target := ptrs[row]
		if target == NoPointer || target == ids[row] {
			return []int{row}, nil
		}
		trow, err := c.jump(ids, row, target)
		if err != nil {
			return nil, err
		}
		return []int{trow}, nil
	}

	rows := []int{row}
	for limit == 0 || len(rows) < limit {
		target := ptrs[row]
		if target == NoPointer || target == ids[row] {
			break
		}
		row, err = c.jump(ids, row, target)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// jump resolves a pointer target to a row by adding the id difference to the
// source row. Valid catalogs always satisfy this (related subhalos share a
// chunk and ids within a chunk are dense in row order), so a target outside
// the chunk is a locality violation, not a lookup miss.
func (c *Chunk) jump(ids IntColumn, row int, target int64) (int, error) {
	targetChunk, err := ChunkNum(target)
	if err != nil {
		return 0, err
	}
	if targetChunk != c.Num {
		return 0, fmt.Errorf("%w: pointer target %d is in chunk %d, not %d",
			ErrCrossChunkQuery, target, targetChunk, c.Num)
	}
	next := row + int(target-ids[row])
	if next < 0 || next >= len(ids) {
		return 0, fmt.Errorf("%w: pointer target %d", ErrNodeNotFound, target)
	}
	if ids[next] != target {
		return 0, fmt.Errorf("%w: pointer target %d", ErrNodeNotFound, target)
	}
	return next, nil
}
