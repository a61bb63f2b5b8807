package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/barchart/pkg/cache"
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/measure"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/observability"
)

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func weekChart() *chart.ViewModel {
	return chart.New(
		[]float64{10.4, 12.1, 5.6, 16.9, 3.1, 13.8, 24.2},
		[]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
	)
}

func testOptions(formats ...string) Options {
	return Options{Width: 350, Height: 212, Measurer: MeasurerApprox, Formats: formats}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{[]string{"svg", "png"}, false},
		{[]string{"pdf", "json", "html"}, false},
		{[]string{"SVG"}, false}, // case-insensitive
		{[]string{"svg", "gif"}, true},
		{[]string{""}, true},
		{nil, false},
	}

	for _, tt := range tests {
		err := ValidateFormats(tt.formats)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%q) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormats(%q) code = %s, want %s", tt.formats, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateMeasurer(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"face", false},
		{"approx", false},
		{"cells", false},
		{"ruler", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateMeasurer(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMeasurer(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestNewMeasurer(t *testing.T) {
	tests := []struct {
		name string
		want chart.Measurer
	}{
		{"face", measure.Face{}},
		{"", measure.Face{}},
		{"approx", measure.Approx{}},
		{"cells", measure.Cells{}},
	}

	for _, tt := range tests {
		got, err := NewMeasurer(tt.name)
		if err != nil {
			t.Fatalf("NewMeasurer(%q) error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("NewMeasurer(%q) = %T, want %T", tt.name, got, tt.want)
		}
	}

	if _, err := NewMeasurer("ruler"); err == nil {
		t.Error("NewMeasurer(ruler) should fail")
	}
}

func TestValidateChart(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(vm *chart.ViewModel)
		code   errors.Code
	}{
		{"valid", func(*chart.ViewModel) {}, ""},
		{"empty values", func(vm *chart.ViewModel) { vm.Values = nil }, ""},
		{"negative value", func(vm *chart.ViewModel) { vm.Values[2] = -1 }, errors.ErrCodeInvalidChart},
		{"negative margin", func(vm *chart.ViewModel) { vm.Margin.Left = -3 }, errors.ErrCodeInvalidChart},
		{"negative spacing", func(vm *chart.ViewModel) { vm.BarSpacing = -1 }, errors.ErrCodeInvalidChart},
		{"nan spacing", func(vm *chart.ViewModel) { vm.BarSpacing = math.NaN() }, errors.ErrCodeInvalidChart},
		{"infinite spacing", func(vm *chart.ViewModel) { vm.BarSpacing = math.Inf(1) }, errors.ErrCodeInvalidChart},
		{"negative line width", func(vm *chart.ViewModel) { vm.BoxLineWidth = -1 }, errors.ErrCodeInvalidChart},
		{"infinite line width", func(vm *chart.ViewModel) { vm.BoxLineWidth = math.Inf(1) }, errors.ErrCodeInvalidChart},
		{"nan padding", func(vm *chart.ViewModel) { vm.Padding.Top = math.NaN() }, errors.ErrCodeInvalidChart},
		{"infinite margin", func(vm *chart.ViewModel) { vm.Margin.Right = math.Inf(1) }, errors.ErrCodeInvalidChart},
		{"nan value", func(vm *chart.ViewModel) { vm.Values[0] = math.NaN() }, errors.ErrCodeInvalidChart},
		{"infinite font", func(vm *chart.ViewModel) { vm.YAxisFont.Size = math.Inf(1) }, errors.ErrCodeInvalidChart},
		{"bad box style", func(vm *chart.ViewModel) { vm.BoxStyle = "dashed" }, errors.ErrCodeInvalidChart},
		{"zero font", func(vm *chart.ViewModel) { vm.XAxisFont.Size = 0 }, errors.ErrCodeInvalidChart},
		{"too many steps", func(vm *chart.ViewModel) { vm.YAxisSteps = 1000 }, errors.ErrCodeInvalidChart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := weekChart()
			tt.mutate(vm)
			err := ValidateChart(vm)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("ValidateChart() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateChart() = %v, want code %s", err, tt.code)
			}
		})
	}

	if err := ValidateChart(nil); !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("ValidateChart(nil) = %v, want %s", err, errors.ErrCodeInvalidChart)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("bounds = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Measurer != DefaultMeasurer {
		t.Errorf("Measurer = %q, want %q", opts.Measurer, DefaultMeasurer)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative width", Options{Width: -1}, errors.ErrCodeInvalidBounds},
		{"huge height", Options{Height: 1e9}, errors.ErrCodeInvalidBounds},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad measurer", Options{Measurer: "ruler"}, errors.ErrCodeInvalidInput},
		{"bad scale", Options{Scale: 100}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Animate: true, Scale: 3}

	if k := opts.ArtifactKeyOpts(FormatSVG); !k.Animate || k.Scale != 0 {
		t.Errorf("svg key = %+v, want animate only", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Animate || k.Scale != 3 {
		t.Errorf("png key = %+v, want scale only", k)
	}
	if k := opts.ArtifactKeyOpts(FormatJSON); k != (cache.ArtifactKeyOpts{Format: FormatJSON}) {
		t.Errorf("json key = %+v, want format only", k)
	}
}

func TestLayout(t *testing.T) {
	s, g, err := Layout(weekChart(), testOptions())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if len(g.Bars) != 7 {
		t.Errorf("len(Bars) = %d, want 7", len(g.Bars))
	}
	if !s.Transition.Animate() {
		t.Errorf("Transition = %v, want enter", s.Transition)
	}
	if s.Width != 350 || s.Height != 212 {
		t.Errorf("scene size = %vx%v, want 350x212", s.Width, s.Height)
	}
}

func TestExecute(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	ctx := context.Background()

	result, err := runner.Execute(ctx, weekChart(), testOptions(FormatSVG, FormatJSON, FormatPNG))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.ChartHash == "" {
		t.Error("ChartHash is empty")
	}
	if result.Stats.BarCount != 7 {
		t.Errorf("BarCount = %d, want 7", result.Stats.BarCount)
	}
	if result.Stats.NodeCount != len(result.Scene.Nodes) {
		t.Errorf("NodeCount = %d, want %d", result.Stats.NodeCount, len(result.Scene.Nodes))
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", result.CacheInfo)
	}
	for _, f := range []string{FormatSVG, FormatJSON, FormatPNG} {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !bytes.HasPrefix(result.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact does not start with <svg")
	}
	if !bytes.HasPrefix(result.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Errorf("png artifact is not a PNG")
	}

	var doc struct {
		Nodes    []json.RawMessage `json:"nodes"`
		Geometry struct {
			BarWidth float64 `json:"bar_width"`
		} `json:"geometry"`
	}
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc.Geometry.BarWidth != result.Geometry.BarWidth {
		t.Errorf("json bar_width = %v, want %v", doc.Geometry.BarWidth, result.Geometry.BarWidth)
	}

	// 1 scene + 3 artifacts
	if c.sets != 4 {
		t.Errorf("cache sets = %d, want 4", c.sets)
	}

	again, err := runner.Execute(ctx, weekChart(), testOptions(FormatSVG, FormatJSON, FormatPNG))
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", again.CacheInfo)
	}
	if again.ChartHash != result.ChartHash {
		t.Errorf("ChartHash changed: %s vs %s", again.ChartHash, result.ChartHash)
	}
	for f, data := range result.Artifacts {
		if !bytes.Equal(again.Artifacts[f], data) {
			t.Errorf("cached %s differs from rendered", f)
		}
	}
	if len(again.Scene.Nodes) != len(result.Scene.Nodes) {
		t.Errorf("cached scene has %d nodes, want %d", len(again.Scene.Nodes), len(result.Scene.Nodes))
	}
}

func TestExecutePartialCacheHit(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, weekChart(), testOptions(FormatSVG)); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	result, err := runner.Execute(ctx, weekChart(), testOptions(FormatSVG, FormatJSON))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !result.CacheInfo.LayoutHit {
		t.Error("LayoutHit = false, want true")
	}
	if result.CacheInfo.RenderHit {
		t.Error("RenderHit = true, want false when one format is missing")
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("len(Artifacts) = %d, want 2", len(result.Artifacts))
	}
}

func TestExecuteCacheKeys(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	ctx := context.Background()

	base, err := runner.Execute(ctx, weekChart(), testOptions(FormatSVG))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	tests := []struct {
		name   string
		vm     func() *chart.ViewModel
		opts   func() Options
		layout bool
	}{
		{"resized", weekChart, func() Options { o := testOptions(FormatSVG); o.Width = 400; return o }, false},
		{"animated", weekChart, func() Options { o := testOptions(FormatSVG); o.Animate = true; return o }, true},
		{"restyled", func() *chart.ViewModel { vm := weekChart(); vm.BarColor = chart.MustColor("#00ff00"); return vm }, func() Options { return testOptions(FormatSVG) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := runner.Execute(ctx, tt.vm(), tt.opts())
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if result.CacheInfo.LayoutHit != tt.layout {
				t.Errorf("LayoutHit = %v, want %v", result.CacheInfo.LayoutHit, tt.layout)
			}
			if result.CacheInfo.RenderHit {
				t.Error("RenderHit = true, want false")
			}
			if bytes.Equal(result.Artifacts[FormatSVG], base.Artifacts[FormatSVG]) {
				t.Error("svg unchanged, want a different rendering")
			}
		})
	}
}

func TestExecuteRefresh(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, weekChart(), testOptions()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	opts := testOptions()
	opts.Refresh = true
	result, err := runner.Execute(ctx, weekChart(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want misses with Refresh", result.CacheInfo)
	}
}

func TestExecuteInvalid(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	bad := weekChart()
	bad.Values[0] = -5
	if _, err := runner.Execute(ctx, bad, testOptions()); !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("negative value: err = %v, want %s", err, errors.ErrCodeInvalidChart)
	}
	if _, err := runner.Execute(ctx, nil, testOptions()); !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("nil chart: err = %v, want %s", err, errors.ErrCodeInvalidChart)
	}
	inf := weekChart()
	inf.BarSpacing = math.Inf(1)
	if _, err := runner.Execute(ctx, inf, testOptions()); !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("infinite bar spacing: err = %v, want %s", err, errors.ErrCodeInvalidChart)
	}
	if _, err := runner.Execute(ctx, weekChart(), testOptions("gif")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: err = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestExecuteEmptyChart(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), chart.New(nil, nil), testOptions(FormatSVG, FormatJSON))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !result.Scene.Empty() {
		t.Errorf("scene has %d nodes, want 0", len(result.Scene.Nodes))
	}
	if len(result.Artifacts[FormatSVG]) == 0 {
		t.Error("empty chart should still produce an svg document")
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	s, g, err := Layout(weekChart(), testOptions())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	_, err = Render(context.Background(), weekChart(), s, g, testOptions("bmp"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(bmp) = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestRenderHTML(t *testing.T) {
	vm := weekChart()
	s, g, err := Layout(vm, testOptions())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	artifacts, err := Render(context.Background(), vm, s, g, testOptions(FormatHTML))
	if err != nil {
		t.Fatalf("Render(html) error: %v", err)
	}
	if !bytes.Contains(artifacts[FormatHTML], []byte("echarts")) {
		t.Error("html artifact does not reference echarts")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu      sync.Mutex
	layouts int
	renders []string
	hits    map[string]int
	misses  map[string]int
}

func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layouts++
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, format string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders = append(h.renders, format)
}

func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[keyType]++
}

func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses[keyType]++
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{hits: map[string]int{}, misses: map[string]int{}}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	runner := NewRunner(newMemCache(), nil, nil)
	ctx := context.Background()
	for range 2 {
		if _, err := runner.Execute(ctx, weekChart(), testOptions(FormatSVG, FormatJSON)); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
	}

	if hooks.layouts != 1 {
		t.Errorf("layouts = %d, want 1", hooks.layouts)
	}
	if len(hooks.renders) != 2 {
		t.Errorf("renders = %v, want svg and json once", hooks.renders)
	}
	if hooks.misses[keyTypeScene] != 1 || hooks.hits[keyTypeScene] != 1 {
		t.Errorf("scene hits/misses = %d/%d, want 1/1", hooks.hits[keyTypeScene], hooks.misses[keyTypeScene])
	}
	if hooks.misses[keyTypeArtifact] != 2 || hooks.hits[keyTypeArtifact] != 2 {
		t.Errorf("artifact hits/misses = %d/%d, want 2/2", hooks.hits[keyTypeArtifact], hooks.misses[keyTypeArtifact])
	}
}
