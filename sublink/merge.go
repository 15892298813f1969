package sublink

import "fmt"

// Merge combines several TreeSlices from the same chunk into one, with every
// distinct row appearing exactly once. Duplicate rows keep their first
// occurrence, so the result order is the stable concatenation order of the
// inputs. Each requested field is gathered under the same dedup mask. This is
// the seam that lets halo level queries combine per member pointer walks
// without double counting subhalos shared between overlapping searches.
func Merge(slices []*TreeSlice, fields []string) (*TreeSlice, error) {
	if len(slices) == 0 {
		return nil, ErrNoSlices
	}
	chunkNum := slices[0].ChunkNum
	for i, s := range slices[1:] {
		if s.ChunkNum != chunkNum {
			return nil, fmt.Errorf("%w: slice at index %d is from chunk %d, not %d",
				ErrCrossChunkQuery, i+1, s.ChunkNum, chunkNum)
		}
	}

	type pick struct {
		slice int
		pos   int
	}
	seen := map[int]struct{}{}
	var rows []int
	var picks []pick
	for si, s := range slices {
		for pi, row := range s.Rows {
			if _, ok := seen[row]; ok {
				continue
			}
			seen[row] = struct{}{}
			rows = append(rows, row)
			picks = append(picks, pick{si, pi})
		}
	}
	if rows == nil {
		rows = []int{}
	}

	out := &TreeSlice{
		Count:    len(rows),
		ChunkNum: chunkNum,
		Rows:     rows,
		Fields:   make(map[string]Column, len(fields)),
	}
	for _, name := range fields {
		first, err := slices[0].Field(name)
		if err != nil {
			return nil, err
		}
		switch first.(type) {
		case IntColumn:
			col := make(IntColumn, len(picks))
			for i, p := range picks {
				src, err := slices[p.slice].Ints(name)
				if err != nil {
					return nil, err
				}
				col[i] = src[p.pos]
			}
			out.Fields[name] = col
		case FloatColumn:
			col := make(FloatColumn, len(picks))
			for i, p := range picks {
				src, err := slices[p.slice].Floats(name)
				if err != nil {
					return nil, err
				}
				col[i] = src[p.pos]
			}
			out.Fields[name] = col
		default:
			return nil, fmt.Errorf("%w: %s", ErrFieldWrongType, name)
		}
	}
	return out, nil
}
