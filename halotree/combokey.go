package halotree

import (
	"fmt"

	"github.com/KuanWang-Astro/mergertools/sublink"
)

// GroupSnapModulus combines a group number and snapshot into one sortable
// key. It exceeds the group count of any single snapshot, so the encoding
// round trips exactly.
const GroupSnapModulus = int64(1_000_000_000_000)

// EncodeGroupSnap combines a snapshot local group number and the snapshot
// into one key, unique across the whole history.
func EncodeGroupSnap(groupNum, snapNum int64) int64 {
	return snapNum*GroupSnapModulus + groupNum
}

// DecodeGroupSnap is the exact inverse of EncodeGroupSnap.
func DecodeGroupSnap(key int64) (int64, int64, error) {
	if key < 0 {
		return 0, 0, fmt.Errorf("%w: combined key %d", sublink.ErrInvalidIdentifier, key)
	}
	return key % GroupSnapModulus, key / GroupSnapModulus, nil
}
