package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
	"github.com/matzehuels/barchart/pkg/chart/measure"
	"github.com/matzehuels/barchart/pkg/chart/scene"
)

func testViewModel() *chart.ViewModel {
	vm := chart.New(
		[]float64{10.4, 12.1, 5.6, 16.9, 3.1, 13.8, 24.2},
		[]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
	)
	vm.Title = "Download <Mbit/s>"
	return vm
}

func testScene() scene.Scene {
	return scene.Compute(testViewModel(), chart.Size{W: 360, H: 220}, measure.Approx{})
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testScene()))

	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if got := strings.Count(svg, "<rect id=\"bar-"); got != 7 {
		t.Errorf("bar rects = %d, want 7", got)
	}
	if !strings.Contains(svg, `id="box"`) || !strings.Contains(svg, "Z\"") {
		t.Error("closed box path missing")
	}
	if !strings.Contains(svg, ">Average</text>") {
		t.Error("average caption missing")
	}
	if strings.Contains(svg, "<animate") {
		t.Error("animations rendered without WithAnimation")
	}
}

func TestRenderSVGAnimation(t *testing.T) {
	svg := string(RenderSVG(testScene(), WithAnimation()))

	tests := []string{
		`attributeName="height" from="0"`,
		`attributeName="y"`,
		`attributeName="x2"`,
		`attributeName="opacity" from="0" to="1"`,
		`dur="0.2s"`,
		`keySplines="0.42 0 1 1"`,
		`fill="freeze"`,
	}
	for _, want := range tests {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	// two per bar, one for the line and one for the caption
	if got := strings.Count(svg, "<animate "); got != 7*2+2 {
		t.Errorf("animate elements = %d, want %d", got, 7*2+2)
	}
}

func TestRenderSVGEscapesTitle(t *testing.T) {
	svg := string(RenderSVG(testScene(), WithTitle(), WithBackground(chart.Color{R: 0xff, G: 0xff, B: 0xff})))
	if !strings.Contains(svg, "<title>Download &lt;Mbit/s&gt;</title>") {
		t.Errorf("title not escaped:\n%s", svg)
	}
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("background missing")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(scene.Compute(nil, chart.Size{W: 10, H: 10}, measure.Approx{})))
	if strings.Contains(svg, "<rect") || strings.Contains(svg, "<text") {
		t.Errorf("empty scene drew content:\n%s", svg)
	}
}

func TestRenderJSON(t *testing.T) {
	s := testScene()
	g := layout.Compute(testViewModel(), chart.Size{W: 360, H: 220}, measure.Approx{})

	data, err := RenderJSON(s, WithJSONGeometry(g))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out struct {
		Width      float64          `json:"width"`
		Transition string           `json:"transition"`
		Nodes      []scene.Node     `json:"nodes"`
		Animations []map[string]any `json:"animations"`
		Geometry   *layout.Geometry `json:"geometry"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Width != 360 {
		t.Errorf("Width = %v, want 360", out.Width)
	}
	if out.Transition != "enter" {
		t.Errorf("Transition = %q, want enter", out.Transition)
	}
	if len(out.Nodes) != len(s.Nodes) {
		t.Errorf("Nodes = %d, want %d", len(out.Nodes), len(s.Nodes))
	}
	if len(out.Animations) == 0 || out.Animations[0]["duration"] != 0.2 {
		t.Errorf("first animation = %v, want duration 0.2", out.Animations)
	}
	if out.Geometry == nil || out.Geometry.BarWidth != g.BarWidth {
		t.Errorf("Geometry = %+v, want bar width %v", out.Geometry, g.BarWidth)
	}
}

func TestRenderJSONCompact(t *testing.T) {
	data, err := RenderJSON(testScene(), WithJSONCompact())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if bytes.Contains(data, []byte("\n  ")) {
		t.Error("compact output is indented")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testScene(), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 360 || b.Dy() != 220 {
		t.Errorf("image size = %dx%d, want 360x220", b.Dx(), b.Dy())
	}

	s := testScene()
	bar, _ := s.Node(scene.BarID(6))
	r, g, b, _ := img.At(int(bar.Rect.MidX()), int(bar.Rect.MidY())).RGBA()
	if r>>8 != 0xff || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("bar pixel = %02x%02x%02x, want ff0000", r>>8, g>>8, b>>8)
	}
}

func TestRenderPNGErrors(t *testing.T) {
	tests := []struct {
		name string
		s    scene.Scene
		opts []PNGOption
	}{
		{"zero scale", testScene(), []PNGOption{WithScale(0)}},
		{"empty canvas", scene.Scene{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderPNG(tt.s, tt.opts...); err == nil {
				t.Error("RenderPNG() error = nil, want error")
			}
		})
	}
}

func TestRenderHTML(t *testing.T) {
	data, err := RenderHTML(testViewModel(), chart.Size{W: 600, H: 400}, WithSeriesName("Mbit/s"))
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	html := string(data)
	for _, want := range []string{"echarts", "Mbit/s", "Average", "600px"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestXAxisLabels(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		labels []string
		want   []string
	}{
		{"aligned", []float64{1, 2}, []string{"a", "b"}, []string{"a", "b"}},
		{"stride", []float64{1, 2, 3, 4}, []string{"a", "b"}, []string{"a", "", "b", ""}},
		{"none", []float64{1, 2}, nil, []string{"", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := xAxisLabels(chart.New(tt.values, tt.labels))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("xAxisLabels() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.5, "1.5"},
		{40, "40"},
		{0.2, "0.2"},
		{-0.001, "0"},
		{12.346, "12.35"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderPDFKeepsCallerOptions(t *testing.T) {
	opts := make([]SVGOption, 1, 4)
	opts[0] = WithBackground(chart.MustColor("#ffffff"))

	// The result depends on rsvg-convert being installed; only the
	// caller's slice matters here.
	_, _ = RenderPDF(context.Background(), testScene(), WithPDFSVGOptions(opts...))

	if spare := opts[:cap(opts)][1]; spare != nil {
		t.Error("RenderPDF wrote into the caller's option slice")
	}
}
