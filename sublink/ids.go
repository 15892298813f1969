package sublink

import "fmt"

// ChunkModulus partitions the global SubhaloID space into chunks. Ids are
// assigned so that subhaloID / ChunkModulus identifies the chunk holding the
// row, and every subhalo reachable by a pointer walk shares the chunk of its
// starting subhalo.
const ChunkModulus = int64(10_000_000_000_000_000)

// NoPointer is the sentinel stored in a pointer column when there is no
// related subhalo.
const NoPointer = int64(-1)

// ChunkNum identifies the tree chunk holding the given subhalo. This is a
// property of the id alone and needs no catalog data.
func ChunkNum(subhaloID int64) (int64, error) {
	if subhaloID < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIdentifier, subhaloID)
	}
	return subhaloID / ChunkModulus, nil
}

// ChunkNumMany identifies the common chunk of a batch of subhalo ids. All ids
// must resolve to the same chunk; if they do not, the error reports the index
// of the first id whose chunk differs from the first id's.
func ChunkNumMany(subhaloIDs []int64) (int64, error) {
	if len(subhaloIDs) == 0 {
		return 0, fmt.Errorf("%w: empty id batch", ErrInvalidIdentifier)
	}
	chunkNum, err := ChunkNum(subhaloIDs[0])
	if err != nil {
		return 0, err
	}
	for i, id := range subhaloIDs[1:] {
		c, err := ChunkNum(id)
		if err != nil {
			return 0, err
		}
		if c != chunkNum {
			return 0, fmt.Errorf("%w: id %d at index %d is in chunk %d, not %d",
				ErrCrossChunkQuery, id, i+1, c, chunkNum)
		}
	}
	return chunkNum, nil
}
