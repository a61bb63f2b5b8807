package scene

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
	"github.com/matzehuels/barchart/pkg/chart/measure"
)

func weekScene(t *testing.T) (Scene, layout.Geometry) {
	t.Helper()
	vm := chart.New(
		[]float64{10.4, 12.1, 5.6, 16.9, 3.1, 13.8, 24.2},
		[]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
	)
	bounds := chart.Size{W: 360, H: 220}
	g := layout.Compute(vm, bounds, measure.Approx{})
	return Build(vm, g), g
}

func TestBuildNodes(t *testing.T) {
	s, g := weekScene(t)

	if got := len(s.NodesOf(KindBar)); got != 7 {
		t.Errorf("bar nodes = %d, want 7", got)
	}
	if got := len(s.NodesOf(KindLabel)); got != 7 {
		t.Errorf("label nodes = %d, want 7", got)
	}
	if s.Nodes[0].Kind != KindBox {
		t.Errorf("first node = %s, want box", s.Nodes[0].Kind)
	}
	if s.Width != 360 || s.Height != 220 {
		t.Errorf("scene size = %vx%v, want 360x220", s.Width, s.Height)
	}

	bar, ok := s.Node(BarID(3))
	if !ok {
		t.Fatal("bar-3 missing")
	}
	if bar.Rect != g.Bars[3].Rect {
		t.Errorf("bar-3 rect = %+v, want %+v", bar.Rect, g.Bars[3].Rect)
	}
	if bar.Fill == nil || *bar.Fill != chart.DefaultBarColor {
		t.Errorf("bar-3 fill = %v, want %v", bar.Fill, chart.DefaultBarColor)
	}

	line, ok := s.Node(AverageLineID)
	if !ok {
		t.Fatal("average line missing")
	}
	if len(line.Points) != 2 || line.Points[0].Y != g.Average.Y {
		t.Errorf("average line points = %+v, want y %v", line.Points, g.Average.Y)
	}
	label, ok := s.Node(AverageLabelID)
	if !ok || label.Text != chart.AverageLabel {
		t.Errorf("average label = %+v, %v", label, ok)
	}
}

func TestBuildAnimations(t *testing.T) {
	s, g := weekScene(t)

	tests := []struct {
		target   string
		property Property
		from, to float64
		duration time.Duration
	}{
		{BarID(0), PropY, g.Baseline, g.Bars[0].Rect.Y, BarsDuration},
		{BarID(0), PropHeight, 0, g.Bars[0].Rect.H, BarsDuration},
		{AverageLineID, PropX2, g.Average.X1, g.Average.X2, AverageDuration},
		{AverageLabelID, PropOpacity, 0, 1, AverageDuration},
	}

	for _, tt := range tests {
		t.Run(tt.target+"/"+string(tt.property), func(t *testing.T) {
			var found *Animation
			for _, a := range s.AnimationsFor(tt.target) {
				if a.Property == tt.property {
					a := a
					found = &a
				}
			}
			if found == nil {
				t.Fatal("animation missing")
			}
			if found.From != tt.from || found.To != tt.to {
				t.Errorf("from/to = %v/%v, want %v/%v", found.From, found.To, tt.from, tt.to)
			}
			if found.Duration != tt.duration {
				t.Errorf("Duration = %v, want %v", found.Duration, tt.duration)
			}
			if found.Easing != EaseIn || !found.FillBackwards {
				t.Errorf("easing = %s fill = %v, want ease-in with fill", found.Easing, found.FillBackwards)
			}
		})
	}
}

func TestBuildBoxStyle(t *testing.T) {
	vm := chart.New([]float64{1, 2}, nil)
	g := layout.Compute(vm, chart.Size{W: 100, H: 100}, measure.Approx{})

	box, _ := Build(vm, g).Node(BoxID)
	if !box.Closed {
		t.Error("default box should be closed")
	}
	if len(box.Points) != 4 {
		t.Errorf("box points = %d, want 4", len(box.Points))
	}

	vm.BoxStyle = chart.BoxOpen
	box, _ = Build(vm, g).Node(BoxID)
	if box.Closed {
		t.Error("open box should not be closed")
	}
}

func TestBuildNoAverage(t *testing.T) {
	tests := []struct {
		name string
		vm   *chart.ViewModel
	}{
		{"all zero", chart.New([]float64{0, 0}, nil)},
		{"hidden", func() *chart.ViewModel {
			vm := chart.New([]float64{1, 2}, nil)
			vm.ShowAverage = false
			return vm
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(tt.vm, chart.Size{W: 100, H: 100}, measure.Approx{})
			if _, ok := s.Node(AverageLineID); ok {
				t.Error("unexpected average line")
			}
			if len(s.AnimationsFor(AverageLabelID)) != 0 {
				t.Error("unexpected average label animation")
			}
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	s := Compute(nil, chart.Size{W: 50, H: 50}, measure.Approx{})
	if !s.Empty() {
		t.Errorf("Empty() = false, nodes = %d", len(s.Nodes))
	}
	if len(s.Animations) != 0 {
		t.Errorf("animations = %d, want 0", len(s.Animations))
	}
}

func TestComputeIsEntrance(t *testing.T) {
	s := Compute(chart.New([]float64{1}, nil), chart.Size{W: 50, H: 50}, measure.Approx{})
	if s.Transition != TransitionEnter || !s.Transition.Animate() {
		t.Errorf("Transition = %v, want enter", s.Transition)
	}
}

func TestAnimationJSONSeconds(t *testing.T) {
	a := Animation{Target: "bar-0", Property: PropHeight, To: 10, Duration: 200 * time.Millisecond, Easing: EaseIn}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw: %v", err)
	}
	if raw["duration"] != 0.2 {
		t.Errorf("duration = %v, want 0.2", raw["duration"])
	}

	var back Animation
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Duration != a.Duration {
		t.Errorf("Duration = %v, want %v", back.Duration, a.Duration)
	}
}

func TestTransitionText(t *testing.T) {
	for _, tr := range []Transition{TransitionNone, TransitionReflow, TransitionEnter} {
		text, _ := tr.MarshalText()
		var back Transition
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != tr {
			t.Errorf("round trip %v = %v", tr, back)
		}
	}
	var tr Transition
	if err := tr.UnmarshalText([]byte("bounce")); err == nil {
		t.Error("UnmarshalText(bounce) succeeded, want error")
	}
}
