package sublink

import "fmt"

// Single gathers the requested fields for one subhalo.
func Single(c *Chunk, subhaloID int64, fields []string) (*TreeSlice, error) {
	row, err := c.Locate(subhaloID)
	if err != nil {
		return nil, err
	}
	return c.Gather([]int{row}, fields)
}

// ImmediateProgenitors gathers the direct progenitors of a subhalo: the
// subhalos in earlier snapshots whose descendant is the given subhalo. The
// first progenitor pointer leads to the highest ranked progenitor and the
// next progenitor chain enumerates the rest, so the result is ordered by the
// catalog's mass history ranking. A subhalo with no progenitors yields an
// empty slice.
func ImmediateProgenitors(c *Chunk, subhaloID int64, fields []string) (*TreeSlice, error) {
	rows, err := Walk(c, subhaloID, FieldFirstProgenitorID, 2)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return c.Gather(nil, fields)
	}
	ids, err := c.ids()
	if err != nil {
		return nil, err
	}
	prows, err := Walk(c, ids[rows[1]], FieldNextProgenitorID, 0)
	if err != nil {
		return nil, err
	}
	return c.Gather(prows, fields)
}

// ImmediateDescendant gathers the direct descendant of a subhalo, the single
// subhalo one descendant step forward in time. The result is empty when the
// subhalo has no descendant.
func ImmediateDescendant(c *Chunk, subhaloID int64, fields []string) (*TreeSlice, error) {
	rows, err := Walk(c, subhaloID, FieldDescendantID, 2)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return c.Gather(nil, fields)
	}
	return c.Gather(rows[1:2], fields)
}

// GroupMembers gathers all subhalos in the same FOF group as the given
// subhalo, ordered by the catalog's mass history ranking, the group's primary
// subhalo first. numlimit caps the membership, 0 loads all members.
func GroupMembers(c *Chunk, subhaloID int64, fields []string, numlimit int) (*TreeSlice, error) {
	if numlimit < 0 {
		return nil, fmt.Errorf("%w: numlimit %d", ErrInvalidLimit, numlimit)
	}
	first, err := Walk(c, subhaloID, FieldFirstSubhaloInFOFGroupID, 1)
	if err != nil {
		return nil, err
	}
	ids, err := c.ids()
	if err != nil {
		return nil, err
	}
	rows, err := Walk(c, ids[first[0]], FieldNextSubhaloInFOFGroupID, numlimit)
	if err != nil {
		return nil, err
	}
	return c.Gather(rows, fields)
}

// TreeProgenitors gathers the progenitor subtree rooted at a subhalo. The
// depth first id assignment makes the subtree a contiguous row range ending
// at LastProgenitorID, or at MainLeafProgenitorID when only the main branch
// is wanted, so no pointer chase is needed.
func TreeProgenitors(c *Chunk, subhaloID int64, fields []string, mainBranchOnly bool) (*TreeSlice, error) {
	row, err := c.Locate(subhaloID)
	if err != nil {
		return nil, err
	}
	end := FieldLastProgenitorID
	if mainBranchOnly {
		end = FieldMainLeafProgenitorID
	}
	last, err := Walk(c, subhaloID, end, 1)
	if err != nil {
		return nil, err
	}
	rows := make([]int, 0, last[0]-row+1)
	for r := row; r <= last[0]; r++ {
		rows = append(rows, r)
	}
	return c.Gather(rows, fields)
}

// TreeDescendants gathers the descendant chain of a subhalo, from the subhalo
// itself forward in time. With mainBranchOnly the walk stops where the chain
// leaves the stored main branch, which is exactly where the descendant row is
// not the immediately preceding row.
func TreeDescendants(c *Chunk, subhaloID int64, fields []string, mainBranchOnly bool) (*TreeSlice, error) {
	if !mainBranchOnly {
		rows, err := Walk(c, subhaloID, FieldDescendantID, 0)
		if err != nil {
			return nil, err
		}
		return c.Gather(rows, fields)
	}

	row, err := c.Locate(subhaloID)
	if err != nil {
		return nil, err
	}
	ids, err := c.ids()
	if err != nil {
		return nil, err
	}
	ptrs, err := c.Ints(FieldDescendantID)
	if err != nil {
		return nil, err
	}
	rows := []int{row}
	for ptrs[row] != NoPointer && ptrs[row]-ids[row] == -1 {
		row, err = c.jump(ids, row, ptrs[row])
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return c.Gather(rows, fields)
}
