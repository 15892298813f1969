package catalog

import (
	"context"
	"fmt"

	"github.com/KuanWang-Astro/mergertools/sublink"
)

// Functions converting between the identifier schemes of the catalogs.
//
// SubfindID is the subhalo's index within one snapshot, unique only there.
// SubhaloID is the global SubLink id, unique across all snapshots. GroupNum
// is the index of the host FOF group within one snapshot.

// SubLinkID converts a snapshot local SubfindID to the global SubhaloID,
// through the SubLinkOffsets table of the snapshot.
func SubLinkID(ctx context.Context, s *Store, subfindID int64, snapNum int64) (int64, error) {
	if subfindID < 0 {
		return 0, fmt.Errorf("%w: subfind id %d", sublink.ErrInvalidIdentifier, subfindID)
	}
	if err := s.EnsureLoaded(ctx, CatalogOffsets, snapNum, []string{sublink.FieldSubhaloID}); err != nil {
		return 0, err
	}
	offsets, err := s.Resident(CatalogOffsets, snapNum)
	if err != nil {
		return 0, err
	}
	ids, err := offsets.Ints(sublink.FieldSubhaloID)
	if err != nil {
		return 0, err
	}
	if subfindID >= int64(len(ids)) {
		return 0, fmt.Errorf("%w: subfind id %d, snapshot %d has %d subhalos",
			ErrIndexOutOfRange, subfindID, snapNum, len(ids))
	}
	return ids[subfindID], nil
}

// SubfindCentral finds the SubfindID of the primary (highest instantaneous
// mass) subhalo of a group, through the snapshot's group table.
func SubfindCentral(ctx context.Context, s *Store, groupNum int64, snapNum int64) (int64, error) {
	if groupNum < 0 {
		return 0, fmt.Errorf("%w: group number %d", sublink.ErrInvalidIdentifier, groupNum)
	}
	if err := s.EnsureLoaded(ctx, CatalogGroup, snapNum, []string{sublink.FieldGroupFirstSub}); err != nil {
		return 0, err
	}
	groups, err := s.Resident(CatalogGroup, snapNum)
	if err != nil {
		return 0, err
	}
	firsts, err := groups.Ints(sublink.FieldGroupFirstSub)
	if err != nil {
		return 0, err
	}
	if groupNum >= int64(len(firsts)) {
		return 0, fmt.Errorf("%w: group %d, snapshot %d has %d groups",
			ErrIndexOutOfRange, groupNum, snapNum, len(firsts))
	}
	central := firsts[groupNum]
	if central < 0 {
		return 0, fmt.Errorf("%w: group %d at snapshot %d has no subhalos",
			sublink.ErrNodeNotFound, groupNum, snapNum)
	}
	return central, nil
}

// SubLinkCentral finds the SubhaloID of the subhalo with the highest mass
// history in a group. This is the traversal seed for halo level queries: the
// group's SubFind central is resolved to its SubLink row and the group
// primary pointer is followed from there.
func SubLinkCentral(ctx context.Context, s *Store, groupNum int64, snapNum int64) (int64, error) {
	subfindCentral, err := SubfindCentral(ctx, s, groupNum, snapNum)
	if err != nil {
		return 0, err
	}
	subhaloID, err := SubLinkID(ctx, s, subfindCentral, snapNum)
	if err != nil {
		return 0, err
	}
	chunk, err := s.ChunkFor(ctx, subhaloID, []string{
		sublink.FieldSubhaloID, sublink.FieldFirstSubhaloInFOFGroupID,
	})
	if err != nil {
		return 0, err
	}
	row, err := chunk.Locate(subhaloID)
	if err != nil {
		return 0, err
	}
	firsts, err := chunk.Ints(sublink.FieldFirstSubhaloInFOFGroupID)
	if err != nil {
		return 0, err
	}
	return firsts[row], nil
}

// RowInChunk locates a subhalo within its tree chunk, loading the id column
// if needed.
func RowInChunk(ctx context.Context, s *Store, subhaloID int64) (int, int64, error) {
	chunk, err := s.ChunkFor(ctx, subhaloID, []string{sublink.FieldSubhaloID})
	if err != nil {
		return 0, 0, err
	}
	row, err := chunk.Locate(subhaloID)
	if err != nil {
		return 0, 0, err
	}
	return row, chunk.Num, nil
}

// SubfindID converts a global SubhaloID back to its snapshot local SubfindID
// and snapshot number.
func SubfindID(ctx context.Context, s *Store, subhaloID int64) (int64, int64, error) {
	chunk, err := s.ChunkFor(ctx, subhaloID, []string{
		sublink.FieldSubhaloID, sublink.FieldSubfindID, sublink.FieldSnapNum,
	})
	if err != nil {
		return 0, 0, err
	}
	row, err := chunk.Locate(subhaloID)
	if err != nil {
		return 0, 0, err
	}
	subfind, err := chunk.Ints(sublink.FieldSubfindID)
	if err != nil {
		return 0, 0, err
	}
	snaps, err := chunk.Ints(sublink.FieldSnapNum)
	if err != nil {
		return 0, 0, err
	}
	return subfind[row], snaps[row], nil
}

// GroupNum identifies the host group of a subhalo, returning the group number
// and the snapshot holding it.
func GroupNum(ctx context.Context, s *Store, subhaloID int64) (int64, int64, error) {
	chunk, err := s.ChunkFor(ctx, subhaloID, []string{
		sublink.FieldSubhaloID, sublink.FieldSubhaloGrNr, sublink.FieldSnapNum,
	})
	if err != nil {
		return 0, 0, err
	}
	row, err := chunk.Locate(subhaloID)
	if err != nil {
		return 0, 0, err
	}
	grnr, err := chunk.Ints(sublink.FieldSubhaloGrNr)
	if err != nil {
		return 0, 0, err
	}
	snaps, err := chunk.Ints(sublink.FieldSnapNum)
	if err != nil {
		return 0, 0, err
	}
	return grnr[row], snaps[row], nil
}

// IsSubfindCentral reports whether the subhalo has the highest instantaneous
// mass in its host group.
func IsSubfindCentral(ctx context.Context, s *Store, subhaloID int64) (bool, error) {
	chunk, err := s.ChunkFor(ctx, subhaloID, []string{
		sublink.FieldSubhaloID, sublink.FieldSubfindID, sublink.FieldGroupFirstSub,
	})
	if err != nil {
		return false, err
	}
	row, err := chunk.Locate(subhaloID)
	if err != nil {
		return false, err
	}
	subfind, err := chunk.Ints(sublink.FieldSubfindID)
	if err != nil {
		return false, err
	}
	firsts, err := chunk.Ints(sublink.FieldGroupFirstSub)
	if err != nil {
		return false, err
	}
	return subfind[row] == firsts[row], nil
}

// IsSubLinkCentral reports whether the subhalo has the highest mass history
// in its host group.
func IsSubLinkCentral(ctx context.Context, s *Store, subhaloID int64) (bool, error) {
	chunk, err := s.ChunkFor(ctx, subhaloID, []string{
		sublink.FieldSubhaloID, sublink.FieldFirstSubhaloInFOFGroupID,
	})
	if err != nil {
		return false, err
	}
	row, err := chunk.Locate(subhaloID)
	if err != nil {
		return false, err
	}
	firsts, err := chunk.Ints(sublink.FieldFirstSubhaloInFOFGroupID)
	if err != nil {
		return false, err
	}
	ids, err := chunk.Ints(sublink.FieldSubhaloID)
	if err != nil {
		return false, err
	}
	return ids[row] == firsts[row], nil
}
