// Command geostream is a headless embedding-application entrypoint for
// the tile streaming runtime: it resolves a tileset (directly, or
// through the ion-style endpoint broker), loads the root tileset.json,
// and runs the selection/load pump loop against a fixed orbiting
// camera, logging each frame's selection and load activity. It exists
// to exercise the full pipeline end to end; no concrete rendering
// happens (rendering itself is out of scope), so the "frame" loop below
// stands in for what an embedding 3D engine's own per-frame tick would
// drive.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"

	"geostream/internal/accessor"
	"geostream/internal/asyncrt"
	"geostream/internal/config"
	"geostream/internal/contentmgr"
	"geostream/internal/endpoint"
	"geostream/internal/geomath"
	"geostream/internal/gltfcontent"
	"geostream/internal/logging"
	"geostream/internal/renderer"
	"geostream/internal/selection"
	"geostream/internal/tileset"
	"geostream/internal/tilesetjson"
)

func main() {
	tilesetURL := flag.String("tileset", "", "direct tileset.json URL (mutually exclusive with -endpoint)")
	endpointURL := flag.String("endpoint", "", "ion-style asset endpoint URL, e.g. https://api.cesium.com/v1/assets/1/endpoint")
	frames := flag.Int("frames", 0, "number of frames to pump before exiting (0 = run until interrupted)")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	if *debug {
		logging.SetLevel(charmlog.DebugLevel)
	}

	cfg := config.Load()

	if *tilesetURL == "" && *endpointURL == "" {
		fmt.Fprintln(os.Stderr, "geostream: one of -tileset or -endpoint is required")
		os.Exit(2)
	}
	if *tilesetURL != "" && *endpointURL != "" {
		fmt.Fprintln(os.Stderr, "geostream: -tileset and -endpoint are mutually exclusive")
		os.Exit(2)
	}

	if err := run(cfg, *tilesetURL, *endpointURL, *frames); err != nil {
		logging.Error("geostream exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, tilesetURL, endpointURL string, maxFrames int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt := asyncrt.NewRuntime(cfg.WorkerCount)
	defer rt.Stop()

	httpAccessor := accessor.NewHTTPAccessor(cfg.RequestTimeout)
	prep := renderer.NoOp{}
	arena := tileset.NewArena()

	loader := contentmgr.NewRouterLoader(gltfcontent.Loader{Accessor: httpAccessor}, cfg.SkirtHeightMeters)
	mgr := contentmgr.NewManager(rt, arena, httpAccessor, prep, loader)

	rootURL := tilesetURL
	if endpointURL != "" {
		broker, err := endpoint.NewBroker(httpAccessor, endpoint.Options{
			TTL:             cfg.EndpointCacheTTL,
			PersistencePath: persistencePath(cfg),
		})
		if err != nil {
			return fmt.Errorf("create endpoint broker: %w", err)
		}
		resolution, err := broker.Resolve(ctx, endpointURL)
		if err != nil {
			return fmt.Errorf("resolve endpoint %q: %w", endpointURL, err)
		}
		mgr.WithEndpointBroker(broker, endpointURL)
		mgr.UpdateRequestHeader("Authorization", "Bearer "+resolution.BearerToken)
		rootURL = resolution.URL
		logging.Info("resolved ion endpoint", "kind", resolution.Kind, "url", resolution.URL)
	}

	rootIdx, err := loadRootTileset(ctx, httpAccessor, arena, rootURL)
	if err != nil {
		return fmt.Errorf("load root tileset: %w", err)
	}

	traversal := selection.NewTraversal(arena, selection.Options{
		MaximumScreenSpaceError: 16,
		MaxLoadsPerFrame:        cfg.MaxLoadsPerFrame,
	})
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	var frame uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		rt.Pump()

		cam := orbitingCamera(frame)
		result := traversal.Select(rootIdx, cam, frame)
		for _, idx := range result.LoadQueue {
			mgr.Load(ctx, idx)
		}
		for _, idx := range result.Selected {
			mgr.Update(idx)
		}
		logging.Debug("frame pumped", "frame", frame, "selected", len(result.Selected), "loading", len(result.LoadQueue))

		frame++
		if maxFrames > 0 && frame >= uint64(maxFrames) {
			return nil
		}
	}
}

// loadRootTileset fetches and parses rootURL's tileset.json into arena,
// returning the new root tile's index.
func loadRootTileset(ctx context.Context, acc accessor.AssetAccessor, arena *tileset.Arena, rootURL string) (uint32, error) {
	resp, err := acc.Get(ctx, rootURL, nil)
	if err != nil {
		return 0, err
	}
	if resp.Status >= 400 {
		return 0, fmt.Errorf("fetch tileset.json: status %d", resp.Status)
	}

	doc, err := tilesetjson.JSONReader{}.ReadDocument(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse tileset.json: %w", err)
	}

	return tilesetjson.BuildArena(arena, doc, rootURL), nil
}

// orbitingCamera stands in for a real embedding application's camera
// state: it circles the ellipsoid at a fixed altitude so the demo loop's
// screen-space-error ranking has a changing distance/view to react to.
func orbitingCamera(frame uint64) selection.Camera {
	angle := float64(frame) * 0.01
	radius := 8_000_000.0
	return selection.Camera{
		Position:         geomath.Vec3{X: radius * math.Cos(angle), Y: radius * math.Sin(angle), Z: 0},
		ViewportHeightPx: 1080,
		FOVYRadians:      1.0,
	}
}

func persistencePath(cfg *config.Config) string {
	if !cfg.PersistEndpoints {
		return ""
	}
	return cfg.PersistencePath
}
