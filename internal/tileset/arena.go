package tileset

import (
	"fmt"
	"sync"
)

// Arena owns a flat sequence of tiles; parent/child relations between
// tiles are arena indices, not pointers, so a tile's parent back-pointer
// cannot form a reference-count cycle with its parent's owned child
// slice, and evicting a tile is O(1) (clear the slot, no pointer chasing
// required to free descendants individually).
//
// Mutation is confined to the main lane per the concurrency model; Arena
// itself still serialises access with a mutex so a misuse from a worker
// goroutine fails safe (blocks/serialises) rather than racing, the same
// defensive locking shape shared/mapdata/store.go uses around its tile
// map.
type Arena struct {
	mu    sync.RWMutex
	tiles []Tile
	free  []uint32 // reclaimed slots, eviction makes eviction O(1) without requiring a compaction pass
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add inserts t, returning its arena index. If parent != ParentNone, t is
// appended to the parent's child list.
func (a *Arena) Add(t Tile) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		a.tiles[idx] = t
	} else {
		idx = uint32(len(a.tiles))
		a.tiles = append(a.tiles, t)
	}

	if t.Parent != ParentNone {
		a.tiles[t.Parent].Children = append(a.tiles[t.Parent].Children, idx)
	}

	return idx
}

// Get returns a copy of the tile at idx.
func (a *Arena) Get(idx uint32) (Tile, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if int(idx) >= len(a.tiles) {
		return Tile{}, false
	}
	return a.tiles[idx], true
}

// Mutate applies f to the tile at idx in place, returning an error if idx
// is out of range.
func (a *Arena) Mutate(idx uint32, f func(*Tile)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int(idx) >= len(a.tiles) {
		return fmt.Errorf("tile index %d out of range", idx)
	}
	f(&a.tiles[idx])
	return nil
}

// Children returns the arena indices of idx's children.
func (a *Arena) Children(idx uint32) []uint32 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if int(idx) >= len(a.tiles) {
		return nil
	}
	out := make([]uint32, len(a.tiles[idx].Children))
	copy(out, a.tiles[idx].Children)
	return out
}

// Evict reclaims idx's slot for reuse, provided the tile's state is not
// ContentLoading. It detaches idx from its parent's child list. Returns
// false without mutating anything if the tile is mid-load.
func (a *Arena) Evict(idx uint32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int(idx) >= len(a.tiles) {
		return false
	}
	t := &a.tiles[idx]
	if t.State == ContentLoading {
		return false
	}

	if t.Parent != ParentNone && int(t.Parent) < len(a.tiles) {
		parent := &a.tiles[t.Parent]
		for i, c := range parent.Children {
			if c == idx {
				parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
				break
			}
		}
	}

	*t = Tile{}
	t.State = Unloaded
	a.free = append(a.free, idx)
	return true
}

// Len returns the number of slots in the arena, including reclaimed
// (free) ones.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.tiles)
}
