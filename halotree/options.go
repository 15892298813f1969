package halotree

// Options tune the halo level queries. The zero value is completed by
// newOptions with the catalog's customary defaults.
type Options struct {
	// subhaloLimit caps how many group members, ranked by mass history,
	// contribute pointer lookups to a halo level query. 0 means all.
	subhaloLimit int
	// adjacentOnly keeps only progenitors in the immediately previous
	// snapshot (or descendants in the immediately next one). Mergers can
	// skip a snapshot, so this is opt in.
	adjacentOnly bool
	// massRatioThr is the minimum secondary to primary progenitor mass
	// ratio for a secondary to be recorded as an incoming merger.
	massRatioThr float32
	// trackDescendants extends a main merger tree forward in time from
	// the anchor subhalo.
	trackDescendants bool
}

type Option func(*Options)

const defaultSubhaloLimit = 20

func newOptions(opts ...Option) Options {
	o := Options{subhaloLimit: defaultSubhaloLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSubhaloLimit caps the group membership considered per halo. 0 removes
// the cap.
func WithSubhaloLimit(n int) Option {
	return func(o *Options) {
		o.subhaloLimit = n
	}
}

// WithAdjacentSnapshotOnly restricts results to the snapshot adjacent to the
// queried halo.
func WithAdjacentSnapshotOnly() Option {
	return func(o *Options) {
		o.adjacentOnly = true
	}
}

// WithMassRatioThreshold sets the incoming merger mass ratio threshold.
func WithMassRatioThreshold(thr float32) Option {
	return func(o *Options) {
		o.massRatioThr = thr
	}
}

// WithTrackDescendants extends the main merger tree forward in time.
func WithTrackDescendants() Option {
	return func(o *Options) {
		o.trackDescendants = true
	}
}
