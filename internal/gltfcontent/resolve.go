package gltfcontent

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"geostream/internal/accessor"
)

// resolveExternalBuffers fetches every Buffer with a non-empty, non-data
// URI concurrently and returns a parallel slice of resolved byte
// payloads, one per entry in doc.Buffers (nil for buffers with no
// external URI, which are served by the GLB's own BIN chunk instead).
// Each external buffer is fetched on its own errgroup goroutine; the
// number of concurrent fetches is not capped, and the first failure
// cancels the shared context the remaining fetches run under.
func resolveExternalBuffers(ctx context.Context, acc accessor.AssetAccessor, baseURL string, doc Document) ([][]byte, error) {
	resolved := make([][]byte, len(doc.Buffers))
	g, gctx := errgroup.WithContext(ctx)

	for i, buf := range doc.Buffers {
		if buf.URI == "" || isDataURI(buf.URI) {
			continue
		}
		i, buf := i, buf
		g.Go(func() error {
			resp, err := acc.Get(gctx, resolveRelative(baseURL, buf.URI), nil)
			if err != nil {
				return fmt.Errorf("fetch external buffer %q: %w", buf.URI, err)
			}
			if resp.Status >= 400 {
				return fmt.Errorf("fetch external buffer %q: status %d", buf.URI, resp.Status)
			}
			resolved[i] = resp.Body
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// resolveExternalImages fetches every Image with a non-empty, non-data
// URI concurrently, the same errgroup fan-out resolveExternalBuffers
// uses. Decoding pixel data is out of scope (no render-engine binding
// ships here), so the fetched bytes are discarded; this only exists to
// make the glTF graph self-contained by surfacing a missing/failed
// external image as the same kind of decode error a missing buffer
// produces, rather than silently leaving it unresolved.
func resolveExternalImages(ctx context.Context, acc accessor.AssetAccessor, baseURL string, doc Document) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, img := range doc.Images {
		if img.URI == "" || isDataURI(img.URI) {
			continue
		}
		img := img
		g.Go(func() error {
			resp, err := acc.Get(gctx, resolveRelative(baseURL, img.URI), nil)
			if err != nil {
				return fmt.Errorf("fetch external image %q: %w", img.URI, err)
			}
			if resp.Status >= 400 {
				return fmt.Errorf("fetch external image %q: status %d", img.URI, resp.Status)
			}
			return nil
		})
	}

	return g.Wait()
}

func isDataURI(uri string) bool {
	return len(uri) >= 5 && uri[:5] == "data:"
}

// resolveRelative resolves a glTF-relative URI against the tile's own
// content URL. A proper net/url.Parse-based join is unnecessary here
// since glTF buffer/image URIs are always simple relative paths, never
// carrying query strings or fragments worth preserving.
func resolveRelative(base, rel string) string {
	if rel == "" {
		return base
	}
	if isAbsoluteURL(rel) {
		return rel
	}
	lastSlash := -1
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			lastSlash = i
			break
		}
	}
	if lastSlash < 0 {
		return rel
	}
	return base[:lastSlash+1] + rel
}

func isAbsoluteURL(uri string) bool {
	for i := 0; i < len(uri); i++ {
		switch uri[i] {
		case ':':
			return i > 0
		case '/', '?', '#':
			return false
		}
	}
	return false
}
