// Package contentmgr implements the tileset content manager: the piece
// that turns a tile in the Unloaded state into one in ContentLoaded,
// fetching and decoding its content on the worker lane and handing the
// result to the renderer preparer's two phases, committing the result
// onto the tile only if it is still mid-load when the work completes.
package contentmgr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/brunomvsouza/singleflight"

	"geostream/internal/accessor"
	"geostream/internal/asyncrt"
	"geostream/internal/endpoint"
	"geostream/internal/logging"
	"geostream/internal/renderer"
	"geostream/internal/tileset"
)

// backoffBaseDelay and backoffMaxDelay bound the exponential backoff
// tracked per tile for 5xx/timeout failures (§7): each consecutive
// transient failure doubles the delay before the tile is eligible for
// another load attempt, capped so a tile that has been failing for a
// while still gets retried at a bounded cadence rather than essentially
// never.
const (
	backoffBaseDelay = 500 * time.Millisecond
	backoffMaxDelay  = 30 * time.Second
)

type backoffState struct {
	attempts    int
	nextAttempt time.Time
}

// Manager owns the load/unload lifecycle for tiles held in an Arena. It
// does not own tile selection (which tiles to load): the selection
// traversal returns that set, and the embedding application calls
// Load/Update/Unload. It does not expand an external-tileset tile into
// new child tiles either.
type Manager struct {
	rt       *asyncrt.Runtime
	arena    *tileset.Arena
	accessor accessor.AssetAccessor
	preparer renderer.Preparer
	loader   ContentLoader

	headersMu sync.RWMutex
	headers   map[string]string

	sf singleflight.Group[uint32, loadResult]

	broker      *endpoint.Broker
	endpointURL string

	backoffMu sync.Mutex
	backoff   map[uint32]backoffState
}

// NewManager constructs a Manager. loader decides how a fetched payload
// becomes tile Content; pass contentmgr.QuantizedMeshLoader{} for a
// terrain-only tileset.
func NewManager(rt *asyncrt.Runtime, arena *tileset.Arena, acc accessor.AssetAccessor, prep renderer.Preparer, loader ContentLoader) *Manager {
	return &Manager{
		rt:       rt,
		arena:    arena,
		accessor: acc,
		preparer: prep,
		loader:   loader,
		headers:  make(map[string]string),
		backoff:  make(map[uint32]backoffState),
	}
}

// WithEndpointBroker attaches the ion-style endpoint broker this
// tileset's assets resolve through, so a 401 from the accessor can
// trigger a token refresh instead of a permanent failure.
func (m *Manager) WithEndpointBroker(b *endpoint.Broker, endpointURL string) *Manager {
	m.broker = b
	m.endpointURL = endpointURL
	return m
}

// UpdateRequestHeader sets a header attached to every subsequent content
// fetch, e.g. a refreshed bearer token. Mutated only from the main lane,
// matching the concurrency model's rule that shared request state is not
// touched from worker goroutines.
func (m *Manager) UpdateRequestHeader(key, value string) {
	m.headersMu.Lock()
	defer m.headersMu.Unlock()
	m.headers[key] = value
}

func (m *Manager) snapshotHeaders() map[string]string {
	m.headersMu.RLock()
	defer m.headersMu.RUnlock()
	out := make(map[string]string, len(m.headers))
	for k, v := range m.headers {
		out[k] = v
	}
	return out
}

type loadResult struct {
	content      tileset.Content
	workerHandle tileset.RendererResourceHandle
}

// Load initiates an asynchronous load of the tile at idx. A no-op if the
// tile's current state does not permit initiating a load (it is already
// loading, loaded, or permanently failed). Concurrent Load calls for the
// same idx collapse into a single fetch+decode, since the same tile can
// be tagged for load by more than one frame's selection pass before the
// first request lands.
func (m *Manager) Load(ctx context.Context, idx uint32) {
	tile, ok := m.arena.Get(idx)
	if !ok || !tile.State.CanInitiateLoad() {
		return
	}
	if !m.backoffElapsed(idx) {
		return
	}
	if err := m.arena.Mutate(idx, func(t *tileset.Tile) {
		t.State = tileset.ContentLoading
	}); err != nil {
		return
	}

	fut := asyncrt.Go(m.rt, func() (loadResult, error) {
		res, err, _ := m.sf.Do(idx, func() (loadResult, error) {
			return m.fetchDecodePrepare(ctx, tile)
		})
		return res, err
	})

	asyncrt.ThenInMain(m.rt, fut, func(res loadResult, err error) (struct{}, error) {
		m.commit(idx, res, err)
		return struct{}{}, nil
	})
}

func (m *Manager) fetchDecodePrepare(ctx context.Context, tile tileset.Tile) (loadResult, error) {
	if m.broker != nil && m.endpointURL != "" && m.broker.IsRefreshing(m.endpointURL) {
		return loadResult{}, ErrRetryLater
	}
	resp, err := m.accessor.Get(ctx, tile.ContentURI, m.snapshotHeaders())
	if err != nil {
		// A transport-level failure (timeout, connection reset) is
		// presumed transient per §7; it retries with backoff rather
		// than permanently failing the tile.
		return loadResult{}, fmt.Errorf("fetch tile content: %w: %w", ErrTransient, err)
	}
	if resp.Status == http.StatusUnauthorized {
		m.handleUnauthorized(ctx)
		return loadResult{}, ErrRetryLater
	}
	if resp.Status >= 500 {
		return loadResult{}, fmt.Errorf("tile content fetch failed: status %d: %w", resp.Status, ErrTransient)
	}
	if resp.Status >= 400 {
		return loadResult{}, fmt.Errorf("tile content fetch failed: status %d: %w", resp.Status, ErrPermanent)
	}

	content, err := m.loader.Decode(tile, resp.Body)
	if err != nil {
		// Any decode failure, including one surfaced by a glTF
		// external-resource resolution fetch that failed, is treated as
		// unrecoverable per §7 ("decode raised an unrecoverable error");
		// retrying would just repeat the same malformed bytes.
		return loadResult{}, fmt.Errorf("decode tile content: %w: %w", ErrMalformed, err)
	}
	if content.Kind == tileset.ContentEmpty {
		return loadResult{}, fmt.Errorf("decoded content has no geometry: %w", ErrMalformed)
	}

	var workerHandle tileset.RendererResourceHandle
	if content.Kind == tileset.ContentMesh && content.Mesh != nil {
		h, err := m.preparer.PrepareInWorker(content.Mesh, tile.Transform)
		if err != nil {
			return loadResult{}, fmt.Errorf("prepare tile resource: %w: %w", ErrTransient, err)
		}
		workerHandle = h
	}

	return loadResult{content: content, workerHandle: workerHandle}, nil
}

// backoffElapsed reports whether idx has no pending backoff or its delay
// has passed. A tile with no recorded transient failure always reports
// true, so the common case (first load, or a tile that has never failed
// transiently) pays no cost here.
func (m *Manager) backoffElapsed(idx uint32) bool {
	m.backoffMu.Lock()
	defer m.backoffMu.Unlock()
	st, ok := m.backoff[idx]
	return !ok || !time.Now().Before(st.nextAttempt)
}

// recordTransientFailure tracks idx's exponential backoff: each
// consecutive transient failure doubles the delay (base
// backoffBaseDelay, capped at backoffMaxDelay) before Load will initiate
// another attempt for this tile.
func (m *Manager) recordTransientFailure(idx uint32) {
	m.backoffMu.Lock()
	defer m.backoffMu.Unlock()
	st := m.backoff[idx]
	st.attempts++
	delay := backoffBaseDelay << uint(st.attempts-1)
	if delay > backoffMaxDelay || delay <= 0 {
		delay = backoffMaxDelay
	}
	st.nextAttempt = time.Now().Add(delay)
	m.backoff[idx] = st
}

// clearBackoff forgets idx's tracked backoff state, called once a load
// either succeeds or fails permanently, since neither case should keep
// delaying a future attempt.
func (m *Manager) clearBackoff(idx uint32) {
	m.backoffMu.Lock()
	defer m.backoffMu.Unlock()
	delete(m.backoff, idx)
}

// classifyLoadError maps a fetchDecodePrepare failure to the load state
// it should leave the tile in. ErrRetryLater and ErrTransient both park
// the tile in FailedTemporarily so a later selection pass retries it;
// ErrPermanent and ErrMalformed are terminal per §4.5's ContentLoading ->
// Failed transition. An error carrying none of these sentinels defaults
// to FailedTemporarily, the safer of the two for a failure mode this
// code does not yet recognise.
func classifyLoadError(err error) tileset.LoadState {
	if errors.Is(err, ErrPermanent) || errors.Is(err, ErrMalformed) {
		return tileset.Failed
	}
	return tileset.FailedTemporarily
}

// handleUnauthorized kicks off a token refresh through the endpoint
// broker, the ion credential-refresh flow from the spec's concrete
// scenario 4. It is a no-op if the manager has no broker attached or a
// refresh for this endpoint is already in flight, so a burst of 401s
// from concurrently in-flight requests triggers exactly one refresh.
func (m *Manager) handleUnauthorized(ctx context.Context) {
	if m.broker == nil || m.endpointURL == "" {
		return
	}
	if m.broker.IsRefreshing(m.endpointURL) {
		return
	}
	go func() {
		r, err := m.broker.Refresh(ctx, m.endpointURL)
		if err != nil {
			logging.Warn("endpoint token refresh failed", "endpoint", m.endpointURL, "err", err)
			return
		}
		asyncrt.ThenInMain(m.rt, asyncrt.Resolved(r.BearerToken), func(token string, _ error) (struct{}, error) {
			m.UpdateRequestHeader("Authorization", "Bearer "+token)
			return struct{}{}, nil
		})
	}()
}

// commit applies a completed load's result onto the tile at idx, but
// only if the tile is still in ContentLoading: this is the
// state-check-on-commit that stands in for explicit cancellation. A tile
// evicted or force-unloaded while its load was in flight simply has its
// result discarded here, and any worker-prepared renderer resource is
// freed immediately rather than leaked.
func (m *Manager) commit(idx uint32, res loadResult, err error) {
	tile, ok := m.arena.Get(idx)
	if !ok || tile.State != tileset.ContentLoading {
		if res.workerHandle != nil {
			m.preparer.Free(&tile, res.workerHandle, nil)
		}
		return
	}

	if err != nil {
		next := classifyLoadError(err)
		if !errors.Is(err, ErrRetryLater) {
			logging.Warn("tile load failed", "tile", tile.ID, "err", err, "state", next)
		}
		if next == tileset.Failed {
			m.clearBackoff(idx)
		} else if errors.Is(err, ErrTransient) {
			m.recordTransientFailure(idx)
		}
		_ = m.arena.Mutate(idx, func(t *tileset.Tile) { t.State = next })
		return
	}

	m.clearBackoff(idx)

	// Main-lane renderer prep, the tile initialiser, and the
	// ContentLoaded -> Done transition are Update's responsibility
	// (§4.6), not commit's: commit only settles the worker-lane result,
	// so a tile that never gets Update-polled still sits in a legal,
	// content-bearing state rather than blocking here.
	_ = m.arena.Mutate(idx, func(t *tileset.Tile) {
		t.Content = res.content
		t.WorkerResourceHandle = res.workerHandle
		t.State = tileset.ContentLoaded
	})
}

// Unload releases a loaded tile's renderer resources and returns it to
// Unloaded. A no-op returning false if the tile is not currently in a
// state that permits unloading: that covers ContentLoading (never
// forcibly unloaded here, mid-load) but also Unloaded/Failed/
// FailedTemporarily, which have no renderer resources to free, and
// Unloading itself, all of which are equally legitimate reasons to
// return false even though they aren't the "mid-load" case.
func (m *Manager) Unload(idx uint32) bool {
	tile, ok := m.arena.Get(idx)
	if !ok || !(tile.State == tileset.ContentLoaded || tile.State == tileset.Done) {
		return false
	}

	_ = m.arena.Mutate(idx, func(t *tileset.Tile) { t.State = tileset.Unloading })
	m.preparer.Free(&tile, tile.WorkerResourceHandle, tile.MainResourceHandle)
	_ = m.arena.Mutate(idx, func(t *tileset.Tile) {
		t.Content = tileset.Content{}
		t.WorkerResourceHandle = nil
		t.MainResourceHandle = nil
		t.State = tileset.Unloaded
	})
	m.clearBackoff(idx)
	return true
}

// Update drives a tile's post-load work (§4.6): once a load has settled
// in ContentLoaded, it runs the loader's tile initialiser (if any),
// performs the main-lane half of renderer prep, and transitions the tile
// to Done. For a tile in any other state it is a read-only snapshot, the
// hook point the selection traversal polls every frame to decide whether
// to call Load or Unload next.
func (m *Manager) Update(idx uint32) (tileset.Tile, bool) {
	tile, ok := m.arena.Get(idx)
	if !ok || tile.State != tileset.ContentLoaded {
		return tile, ok
	}

	if init := tile.Content.Initializer; init != nil {
		_ = m.arena.Mutate(idx, func(t *tileset.Tile) { init(t) })
		tile, ok = m.arena.Get(idx)
		if !ok {
			return tile, ok
		}
	}

	var mainHandle tileset.RendererResourceHandle
	if tile.Content.Kind == tileset.ContentMesh && tile.WorkerResourceHandle != nil {
		h, err := m.preparer.PrepareInMain(&tile, tile.WorkerResourceHandle)
		if err != nil {
			logging.Warn("tile prepare-in-main failed", "tile", tile.ID, "err", err)
			_ = m.arena.Mutate(idx, func(t *tileset.Tile) { t.State = tileset.FailedTemporarily })
			return m.arena.Get(idx)
		}
		mainHandle = h
	}

	_ = m.arena.Mutate(idx, func(t *tileset.Tile) {
		t.MainResourceHandle = mainHandle
		t.State = tileset.Done
	})
	return m.arena.Get(idx)
}
