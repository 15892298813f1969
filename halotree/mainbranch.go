package halotree

import (
	"context"

	"github.com/KuanWang-Astro/mergertools/catalog"
	"github.com/KuanWang-Astro/mergertools/sublink"
)

// selfHalo resolves the halo hosting one subhalo.
func selfHalo(ctx context.Context, s *catalog.Store, subhaloID int64) ([]haloRow, error) {
	chunk, err := s.ChunkFor(ctx, subhaloID, loadFields)
	if err != nil {
		return nil, err
	}
	slice, err := sublink.Single(chunk, subhaloID, haloFields)
	if err != nil {
		return nil, err
	}
	return collectHalos(slice, nil)
}

// progenitorHalosOf finds the immediate progenitor halos of the halo hosting
// the given subhalo, sorted descending by virial mass and truncated to
// numkeep (0 keeps all). Only progenitor subhalos that are the mass history
// primary of their own group represent a progenitor halo; satellites falling
// into the group do not carry their host halo onto the branch.
func progenitorHalosOf(
	ctx context.Context, s *catalog.Store, subhaloID int64, subhaloLimit, numkeep int,
) ([]haloRow, error) {
	chunk, err := s.ChunkFor(ctx, subhaloID, loadFields)
	if err != nil {
		return nil, err
	}
	members, err := memberIDs(chunk, subhaloID, subhaloLimit)
	if err != nil {
		return nil, err
	}

	slices := make([]*sublink.TreeSlice, 0, len(members))
	for _, id := range members {
		slice, err := sublink.ImmediateProgenitors(chunk, id, haloFields)
		if err != nil {
			return nil, err
		}
		slices = append(slices, slice)
	}
	merged, err := sublink.Merge(slices, haloFields)
	if err != nil {
		return nil, err
	}
	if merged.Count == 0 {
		return nil, nil
	}

	subs, err := merged.Ints(sublink.FieldSubhaloID)
	if err != nil {
		return nil, err
	}
	firsts, err := merged.Ints(sublink.FieldFirstSubhaloInFOFGroupID)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(subs))
	for i := range subs {
		mask[i] = subs[i] == firsts[i]
	}

	rows, err := collectHalos(merged, mask)
	if err != nil {
		return nil, err
	}
	if numkeep > 0 && len(rows) > numkeep {
		rows = rows[:numkeep]
	}
	return rows, nil
}

// descendantHaloOf finds the halo hosting the immediate descendant of the
// given subhalo. Empty when the subhalo has no descendant.
func descendantHaloOf(ctx context.Context, s *catalog.Store, subhaloID int64) ([]haloRow, error) {
	chunk, err := s.ChunkFor(ctx, subhaloID, loadFields)
	if err != nil {
		return nil, err
	}
	slice, err := sublink.ImmediateDescendant(chunk, subhaloID, haloFields)
	if err != nil {
		return nil, err
	}
	if slice.Count == 0 {
		return nil, nil
	}
	return collectHalos(slice, nil)
}

// MainMergerTree builds the main merger tree of the halo hosting the anchor
// subhalo.
//
// The main branch is threaded backward in time by always stepping to the
// highest mass immediate progenitor halo, until a halo with no progenitors
// is reached. At every step where a second progenitor halo exists and its
// mass is at least WithMassRatioThreshold times the primary's, that secondary
// is recorded as an incoming merger at its snapshot; both masses come from
// the same progenitor lookup.
//
// With WithTrackDescendants the branch is also extended forward from the
// anchor: a descendant is accepted only while its own progenitor search still
// ranks the current branch's group number first, so the branch cannot jump
// onto an unrelated structure once the subhalo stops being the descendant's
// dominant progenitor.
//
// Both lists are returned in chronological order, earliest snapshot first.
func MainMergerTree(
	ctx context.Context, s *catalog.Store, subhaloID int64, opts ...Option,
) (HaloList, HaloList, error) {
	o := newOptions(opts...)

	main := emptyHaloList()
	incoming := emptyHaloList()

	result, err := selfHalo(ctx, s, subhaloID)
	if err != nil {
		return HaloList{}, HaloList{}, err
	}
	headGroup := result[0].groupNum

	// Backward in time. Rows are appended latest first and reversed after.
	head := subhaloID
	for len(result) > 0 {
		main.push(result[0].groupNum, result[0].snapNum, result[0].mass)
		if len(result) > 1 && result[1].mass >= o.massRatioThr*result[0].mass {
			incoming.push(result[1].groupNum, result[1].snapNum, result[1].mass)
		}
		head = result[0].subhaloID
		result, err = progenitorHalosOf(ctx, s, head, o.subhaloLimit, 2)
		if err != nil {
			return HaloList{}, HaloList{}, err
		}
	}
	main.reverse()
	incoming.reverse()

	if !o.trackDescendants {
		return main, incoming, nil
	}

	head = subhaloID
	result, err = descendantHaloOf(ctx, s, head)
	if err != nil {
		return HaloList{}, HaloList{}, err
	}
	for len(result) > 0 {
		backcheck, err := progenitorHalosOf(ctx, s, result[0].subhaloID, o.subhaloLimit, 2)
		if err != nil {
			return HaloList{}, HaloList{}, err
		}
		if len(backcheck) == 0 || backcheck[0].groupNum != headGroup {
			break
		}
		main.push(result[0].groupNum, result[0].snapNum, result[0].mass)
		head = result[0].subhaloID
		headGroup = result[0].groupNum
		result, err = descendantHaloOf(ctx, s, head)
		if err != nil {
			return HaloList{}, HaloList{}, err
		}
	}

	return main, incoming, nil
}
