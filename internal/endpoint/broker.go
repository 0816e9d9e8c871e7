package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/brunomvsouza/singleflight"

	"geostream/internal/accessor"
	"geostream/internal/logging"
)

// ErrUnsupportedAssetType is returned when an endpoint response names an
// asset type this broker does not know how to resolve.
var ErrUnsupportedAssetType = fmt.Errorf("unsupported asset type")

// Broker resolves an asset-endpoint URL to a Resolution, caching results
// and collapsing concurrent misses for the same URL into one fetch.
// Instance-scoped, not a process singleton, per the design note.
type Broker struct {
	accessor accessor.AssetAccessor
	cache    *cache
	journal  *journal // nil if persistence is disabled
	sf       singleflight.Group[string, Resolution]
	ttl      time.Duration

	refreshing sync.Map // endpointURL string -> struct{}, set while a refresh is in flight
}

// Options configures a new Broker.
type Options struct {
	TTL             time.Duration
	PersistencePath string // empty disables the on-disk journal
}

// NewBroker constructs a Broker backed by the given asset accessor.
func NewBroker(a accessor.AssetAccessor, opts Options) (*Broker, error) {
	c, err := newCache()
	if err != nil {
		return nil, fmt.Errorf("create endpoint cache: %w", err)
	}

	b := &Broker{accessor: a, cache: c, ttl: opts.TTL}

	if opts.PersistencePath != "" {
		j, err := openJournal(opts.PersistencePath)
		if err != nil {
			logging.Warn("endpoint journal disabled", "err", err)
		} else {
			b.journal = j
		}
	}

	return b, nil
}

type endpointResponseJSON struct {
	Type         string        `json:"type"`
	URL          string        `json:"url"`
	AccessToken  string        `json:"accessToken"`
	Attributions []Attribution `json:"attributions"`
}

// Resolve returns the Resolution for endpointURL, consulting the cache,
// then the persisted journal (if a still-fresh record exists), then
// issuing a fetch, collapsing concurrent fetches for the same URL.
func (b *Broker) Resolve(ctx context.Context, endpointURL string) (Resolution, error) {
	if r, ok := b.cache.Get(endpointURL); ok {
		return r, nil
	}

	if b.journal != nil {
		if r, ok := b.journal.Load(endpointURL); ok && time.Since(r.ResolvedAt) < b.ttl {
			b.cache.Set(endpointURL, r)
			return r, nil
		}
	}

	r, err, _ := b.sf.Do(endpointURL, func() (Resolution, error) {
		return b.fetch(ctx, endpointURL)
	})
	if err != nil {
		return Resolution{}, err
	}

	b.cache.Set(endpointURL, r)
	if b.journal != nil {
		if err := b.journal.Save(endpointURL, r); err != nil {
			logging.Warn("failed to persist endpoint resolution", "err", err)
		}
	}
	return r, nil
}

// Refresh re-resolves endpointURL, bypassing the cache and journal. A
// content manager calls this when a tile request comes back 401, per the
// ion access-token-expiry flow: resolution is re-fetched, and the tile
// whose request failed is left for a later Load to retry with whatever
// token is then in place. IsRefreshing reports whether a refresh for this URL
// is currently in flight, so callers can choose to retry later instead
// of piling on redundant 401s.
func (b *Broker) Refresh(ctx context.Context, endpointURL string) (Resolution, error) {
	b.refreshing.Store(endpointURL, struct{}{})
	defer b.refreshing.Delete(endpointURL)

	r, err, _ := b.sf.Do(endpointURL, func() (Resolution, error) {
		return b.fetch(ctx, endpointURL)
	})
	if err != nil {
		return Resolution{}, err
	}

	b.cache.Set(endpointURL, r)
	if b.journal != nil {
		if err := b.journal.Save(endpointURL, r); err != nil {
			logging.Warn("failed to persist refreshed endpoint resolution", "err", err)
		}
	}
	return r, nil
}

// IsRefreshing reports whether a token refresh for endpointURL is
// currently in flight.
func (b *Broker) IsRefreshing(endpointURL string) bool {
	_, refreshing := b.refreshing.Load(endpointURL)
	return refreshing
}

func (b *Broker) fetch(ctx context.Context, endpointURL string) (Resolution, error) {
	resp, err := b.accessor.Get(ctx, endpointURL, nil)
	if err != nil {
		return Resolution{}, fmt.Errorf("fetch endpoint %s: %w", endpointURL, err)
	}

	var body endpointResponseJSON
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return Resolution{}, fmt.Errorf("malformed endpoint response: %w", err)
	}

	kind, ok := parseKind(body.Type)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnsupportedAssetType, body.Type)
	}

	targetURL := body.URL
	if kind == Terrain {
		resolved, err := resolveAgainstLayerJSON(targetURL)
		if err != nil {
			return Resolution{}, err
		}
		targetURL = resolved
	}

	return Resolution{
		Kind:         kind,
		URL:          targetURL,
		BearerToken:  body.AccessToken,
		Attributions: body.Attributions,
		ResolvedAt:   time.Now(),
	}, nil
}

// resolveAgainstLayerJSON resolves a terrain base URL against layer.json,
// the per-tileset manifest terrain endpoints publish their URL template
// relative to.
func resolveAgainstLayerJSON(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse terrain base url: %w", err)
	}
	u.Path = path.Join(u.Path, "layer.json")
	return u.String(), nil
}
