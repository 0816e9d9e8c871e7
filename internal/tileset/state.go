// Package tileset implements the tile bounding-volume hierarchy: an
// arena-indexed tree of tiles, each carrying a tagged-variant bounding
// volume, a tagged-variant content slot, and a load state machine.
// Parent/child relations are u32 arena indices rather than pointers, so
// the tree has no reference-count cycle between a tile and its parent
// back-pointer, and eviction is O(1).
package tileset

// LoadState is a tile's position in its load lifecycle. State is the
// single source of truth for whether content may be read: only
// ContentLoaded and Done permit content access; only Unloaded and
// FailedTemporarily permit load initiation; ContentLoading forbids both
// destruction and re-load.
type LoadState int

const (
	Unloaded LoadState = iota
	ContentLoading
	ContentLoaded
	Done
	FailedTemporarily
	Failed
	Unloading
)

func (s LoadState) String() string {
	switch s {
	case Unloaded:
		return "Unloaded"
	case ContentLoading:
		return "ContentLoading"
	case ContentLoaded:
		return "ContentLoaded"
	case Done:
		return "Done"
	case FailedTemporarily:
		return "FailedTemporarily"
	case Failed:
		return "Failed"
	case Unloading:
		return "Unloading"
	default:
		return "Unknown"
	}
}

// CanInitiateLoad reports whether a load may be started from this state.
func (s LoadState) CanInitiateLoad() bool {
	return s == Unloaded || s == FailedTemporarily
}

// PermitsContentAccess reports whether content may be read in this state.
func (s LoadState) PermitsContentAccess() bool {
	return s == ContentLoaded || s == Done
}

// allowedTransitions enumerates every legal state transition. Any
// transition not listed here, notably ContentLoading -> Unloaded, is
// forbidden: a tile with in-flight work must be kept until its future
// settles.
var allowedTransitions = map[LoadState]map[LoadState]bool{
	Unloaded:           {ContentLoading: true},
	FailedTemporarily:  {ContentLoading: true},
	ContentLoading:     {ContentLoaded: true, FailedTemporarily: true, Failed: true},
	ContentLoaded:      {Done: true, Unloading: true},
	Done:               {Unloading: true},
	Unloading:          {Unloaded: true},
	Failed:             {},
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition per the state machine.
func (s LoadState) CanTransitionTo(next LoadState) bool {
	return allowedTransitions[s][next]
}
