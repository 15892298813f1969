package halotree

import (
	"context"
	"sort"

	"github.com/KuanWang-Astro/mergertools/catalog"
	"github.com/KuanWang-Astro/mergertools/sublink"
)

// HaloList is a sequence of halos with their virial masses. The three slices
// are parallel and always non-nil; an empty result has length zero.
type HaloList struct {
	GroupNums []int64
	SnapNums  []int64
	Masses    []float32
}

// Len returns the number of halos in the list.
func (l HaloList) Len() int { return len(l.GroupNums) }

func emptyHaloList() HaloList {
	return HaloList{GroupNums: []int64{}, SnapNums: []int64{}, Masses: []float32{}}
}

func (l *HaloList) push(groupNum, snapNum int64, mass float32) {
	l.GroupNums = append(l.GroupNums, groupNum)
	l.SnapNums = append(l.SnapNums, snapNum)
	l.Masses = append(l.Masses, mass)
}

func (l *HaloList) reverse() {
	for i, j := 0, l.Len()-1; i < j; i, j = i+1, j-1 {
		l.GroupNums[i], l.GroupNums[j] = l.GroupNums[j], l.GroupNums[i]
		l.SnapNums[i], l.SnapNums[j] = l.SnapNums[j], l.SnapNums[i]
		l.Masses[i], l.Masses[j] = l.Masses[j], l.Masses[i]
	}
}

// haloFields are the columns gathered for every halo level query.
var haloFields = []string{
	sublink.FieldSubhaloID,
	sublink.FieldGroupMTopHat,
	sublink.FieldGroupMass,
	sublink.FieldSubhaloGrNr,
	sublink.FieldSnapNum,
	sublink.FieldFirstSubhaloInFOFGroupID,
}

// loadFields adds the pointer columns the underlying walks follow.
var loadFields = append([]string{
	sublink.FieldFirstProgenitorID,
	sublink.FieldNextProgenitorID,
	sublink.FieldDescendantID,
	sublink.FieldNextSubhaloInFOFGroupID,
}, haloFields...)

// haloRow is one candidate halo derived from a subhalo row.
type haloRow struct {
	groupNum int64
	snapNum  int64
	mass     float32
	// subhaloID of the member row the halo was derived from; for deduped
	// rows, the member with the largest mass.
	subhaloID int64
}

// collectHalos maps merged subhalo rows to their host halos and deduplicates
// by combined group/snapshot key. Of the rows that land on the same halo the
// one with the largest group mass is kept; ties keep the first seen. mask, if
// non nil, drops rows where it is false.
func collectHalos(merged *sublink.TreeSlice, mask []bool) ([]haloRow, error) {
	grnr, err := merged.Ints(sublink.FieldSubhaloGrNr)
	if err != nil {
		return nil, err
	}
	snaps, err := merged.Ints(sublink.FieldSnapNum)
	if err != nil {
		return nil, err
	}
	masses, err := merged.Floats(sublink.FieldGroupMTopHat)
	if err != nil {
		return nil, err
	}
	subs, err := merged.Ints(sublink.FieldSubhaloID)
	if err != nil {
		return nil, err
	}

	byCombo := map[int64]int{}
	var rows []haloRow
	for i := range grnr {
		if mask != nil && !mask[i] {
			continue
		}
		combo := EncodeGroupSnap(grnr[i], snaps[i])
		if j, ok := byCombo[combo]; ok {
			if masses[i] > rows[j].mass {
				rows[j].mass = masses[i]
				rows[j].subhaloID = subs[i]
			}
			continue
		}
		byCombo[combo] = len(rows)
		rows = append(rows, haloRow{
			groupNum:  grnr[i],
			snapNum:   snaps[i],
			mass:      masses[i],
			subhaloID: subs[i],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].mass > rows[j].mass })
	return rows, nil
}

func haloListFrom(rows []haloRow, keepSnap int64, adjacentOnly bool) HaloList {
	list := emptyHaloList()
	for _, r := range rows {
		if adjacentOnly && r.snapNum != keepSnap {
			continue
		}
		list.push(r.groupNum, r.snapNum, r.mass)
	}
	return list
}

// memberIDs loads the group membership of the subhalo, capped at limit.
func memberIDs(chunk *sublink.Chunk, subhaloID int64, limit int) (sublink.IntColumn, error) {
	members, err := sublink.GroupMembers(chunk, subhaloID, []string{sublink.FieldSubhaloID}, limit)
	if err != nil {
		return nil, err
	}
	return members.Ints(sublink.FieldSubhaloID)
}

// ImmediateProgenitorHalos finds the immediate progenitor halos of the given
// halo: every halo hosting a direct progenitor of one of the halo's member
// subhalos, sorted descending by virial mass. Progenitors can sit more than
// one snapshot back; WithAdjacentSnapshotOnly keeps only the previous
// snapshot.
func ImmediateProgenitorHalos(
	ctx context.Context, s *catalog.Store, groupNum, snapNum int64, opts ...Option,
) (HaloList, error) {
	o := newOptions(opts...)

	centralID, err := catalog.SubLinkCentral(ctx, s, groupNum, snapNum)
	if err != nil {
		return HaloList{}, err
	}
	chunk, err := s.ChunkFor(ctx, centralID, loadFields)
	if err != nil {
		return HaloList{}, err
	}
	members, err := memberIDs(chunk, centralID, o.subhaloLimit)
	if err != nil {
		return HaloList{}, err
	}

	slices := make([]*sublink.TreeSlice, 0, len(members))
	for _, id := range members {
		slice, err := sublink.ImmediateProgenitors(chunk, id, haloFields)
		if err != nil {
			return HaloList{}, err
		}
		slices = append(slices, slice)
	}
	merged, err := sublink.Merge(slices, haloFields)
	if err != nil {
		return HaloList{}, err
	}
	if merged.Count == 0 {
		return emptyHaloList(), nil
	}
	rows, err := collectHalos(merged, nil)
	if err != nil {
		return HaloList{}, err
	}
	return haloListFrom(rows, snapNum-1, o.adjacentOnly), nil
}

// ImmediateDescendantHalos finds the immediate descendant halos of the given
// halo, sorted descending by virial mass. WithAdjacentSnapshotOnly keeps only
// the next snapshot.
func ImmediateDescendantHalos(
	ctx context.Context, s *catalog.Store, groupNum, snapNum int64, opts ...Option,
) (HaloList, error) {
	o := newOptions(opts...)

	centralID, err := catalog.SubLinkCentral(ctx, s, groupNum, snapNum)
	if err != nil {
		return HaloList{}, err
	}
	chunk, err := s.ChunkFor(ctx, centralID, loadFields)
	if err != nil {
		return HaloList{}, err
	}
	members, err := memberIDs(chunk, centralID, o.subhaloLimit)
	if err != nil {
		return HaloList{}, err
	}

	slices := make([]*sublink.TreeSlice, 0, len(members))
	for _, id := range members {
		slice, err := sublink.ImmediateDescendant(chunk, id, haloFields)
		if err != nil {
			return HaloList{}, err
		}
		slices = append(slices, slice)
	}
	merged, err := sublink.Merge(slices, haloFields)
	if err != nil {
		return HaloList{}, err
	}
	if merged.Count == 0 {
		return emptyHaloList(), nil
	}
	rows, err := collectHalos(merged, nil)
	if err != nil {
		return HaloList{}, err
	}
	return haloListFrom(rows, snapNum+1, o.adjacentOnly), nil
}
