// Package halotree lifts the subhalo level merger trees of package sublink
// to halo (FOF group) level answers.
//
// Halos are not stored as records of their own; they are views derived from
// the subhalos that belong to them. A halo is identified by its group number
// and snapshot, unique only within the snapshot, so halo level results key on
// the combined group/snapshot integer produced by EncodeGroupSnap.
//
// Two kinds of question are answered. The immediate progenitor or descendant
// halos of a halo: every halo hosting a direct progenitor or descendant of
// any of the halo's subhalos, ranked by virial mass. And the main merger tree
// of a subhalo: the single branch threaded backward through the highest mass
// progenitor at every step, together with the secondary progenitors massive
// enough to count as incoming mergers.
package halotree
