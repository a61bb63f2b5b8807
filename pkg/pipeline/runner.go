package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barchart/pkg/cache"
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
	"github.com/matzehuels/barchart/pkg/chart/scene"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeScene    = "scene"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it so cache keys stay identical.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete validate → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, vm *chart.ViewModel, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ValidateChart(vm); err != nil {
		return nil, err
	}

	chartHash, err := ChartHash(vm)
	if err != nil {
		return nil, err
	}
	result := &Result{ChartHash: chartHash}

	// Stage 1: Layout
	layoutStart := time.Now()
	entry, layoutHit, err := r.LayoutWithCacheInfo(ctx, vm, chartHash, opts)
	if err != nil {
		return nil, err
	}
	result.Scene = entry.Scene
	result.Geometry = entry.Geometry
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.BarCount = len(entry.Geometry.Bars)
	result.Stats.NodeCount = len(entry.Scene.Nodes)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"bars", result.Stats.BarCount,
		"nodes", result.Stats.NodeCount,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	sceneHash := cache.Hash([]byte(r.Keyer.SceneKey(chartHash, opts.SceneKeyOpts())))
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, vm, entry, sceneHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ChartHash returns the content hash that keys every cache entry derived
// from vm.
func ChartHash(vm *chart.ViewModel) (string, error) {
	h, err := cache.HashJSON(vm)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash chart")
	}
	return h, nil
}

// LayoutWithCacheInfo computes the scene for vm with caching and reports
// whether it came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, vm *chart.ViewModel, chartHash string, opts Options) (LayoutResult, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return LayoutResult{}, false, err
	}
	hooks := observability.Cache()
	cacheKey := r.Keyer.SceneKey(chartHash, opts.SceneKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached LayoutResult
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnCacheHit(ctx, keyTypeScene)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", cacheKey, "err", err)
		}
		hooks.OnCacheMiss(ctx, keyTypeScene)
	}

	pipelineHooks := observability.Pipeline()
	pipelineHooks.OnLayoutStart(ctx, vm.Len())
	start := time.Now()
	s, g, err := Layout(vm, opts)
	pipelineHooks.OnLayoutComplete(ctx, vm.Len(), time.Since(start), err)
	if err != nil {
		return LayoutResult{}, false, err
	}
	entry := LayoutResult{Scene: s, Geometry: g}

	if data, err := json.Marshal(entry); err == nil {
		r.set(ctx, cacheKey, keyTypeScene, data, cache.TTLScene)
	}
	return entry, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, vm *chart.ViewModel, entry LayoutResult, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if _, seen := artifacts[format]; seen {
			continue
		}
		if !opts.Refresh {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				hooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, vm, entry.Scene, entry.Geometry, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, cacheKey, keyTypeArtifact, data, cache.TTLArtifact)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// set writes to the cache. Cache failures never fail a run.
func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Scene is a convenience wrapper that lays vm out without caching or
// rendering.
func (r *Runner) Scene(vm *chart.ViewModel, opts Options) (scene.Scene, layout.Geometry, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return scene.Scene{}, layout.Geometry{}, err
	}
	if err := ValidateChart(vm); err != nil {
		return scene.Scene{}, layout.Geometry{}, err
	}
	return Layout(vm, opts)
}
