package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/scene"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestPreview(t *testing.T) (*previewModel, *fakeClock, *int) {
	t.Helper()
	vm := chart.New([]float64{10.4, 12.1, 5.6}, []string{"Mon", "Tue", "Wed"})
	layouts := 0
	m := newPreviewModel(vm, func(n int, _ time.Duration) { layouts = n })
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	m.now = clock.now
	return m, clock, &layouts
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPreviewEntrance(t *testing.T) {
	m, clock, layouts := newTestPreview(t)

	if got := m.View(); got != "loading…" {
		t.Errorf("View() before size = %q", got)
	}

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if cmd == nil || !m.playing {
		t.Fatal("first size should start the entrance animation")
	}

	start := m.View()
	if strings.ContainsRune(start, '█') {
		t.Error("bars should start collapsed")
	}
	if strings.Contains(start, chart.AverageLabel) {
		t.Error("average label should start hidden")
	}
	if !strings.Contains(start, "Tue") {
		t.Error("x-axis labels are not animated and should be visible")
	}

	clock.advance(scene.BarsDuration)
	end := m.View()
	if !strings.ContainsRune(end, '█') {
		t.Error("bars should be drawn once the animation ends")
	}
	if !strings.Contains(end, chart.AverageLabel) {
		t.Error("average label should be visible once the animation ends")
	}

	_, cmd = m.Update(frameMsg(clock.now()))
	if cmd != nil || m.playing {
		t.Error("frame after the animation ended should stop ticking")
	}
	if *layouts != 1 {
		t.Errorf("layouts = %d, want 1", *layouts)
	}
}

func TestPreviewFrameTicksWhilePlaying(t *testing.T) {
	m, clock, _ := newTestPreview(t)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	clock.advance(scene.BarsDuration / 2)
	if _, cmd := m.Update(frameMsg(clock.now())); cmd == nil {
		t.Error("mid-animation frame should schedule another tick")
	}
}

func TestPreviewResize(t *testing.T) {
	m, clock, layouts := newTestPreview(t)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	clock.advance(time.Second)
	m.Update(frameMsg(clock.now()))

	if _, cmd := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20}); cmd != nil {
		t.Error("same size should not animate")
	}
	if *layouts != 1 {
		t.Errorf("same size relaid out: layouts = %d", *layouts)
	}

	if _, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24}); cmd != nil || m.playing {
		t.Error("resize reflows without replaying the entrance")
	}
	if *layouts != 2 {
		t.Errorf("layouts = %d, want 2", *layouts)
	}
	if m.scene.Transition != scene.TransitionReflow {
		t.Errorf("transition = %v, want reflow", m.scene.Transition)
	}
	if !strings.ContainsRune(m.View(), '█') {
		t.Error("reflowed chart should be fully drawn")
	}
}

func TestPreviewKeys(t *testing.T) {
	m, clock, _ := newTestPreview(t)
	original := m.source
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	clock.advance(time.Second)
	m.Update(frameMsg(clock.now()))

	if _, cmd := m.Update(key("a")); cmd == nil {
		t.Error("toggling the average should replay the entrance")
	}
	if m.source.ShowAverage || !original.ShowAverage {
		t.Error("toggle should produce a new view model and leave the original alone")
	}
	clock.advance(time.Second)
	if strings.Contains(m.View(), chart.AverageLabel) {
		t.Error("average should be hidden after toggling")
	}
	m.Update(frameMsg(clock.now()))

	if _, cmd := m.Update(key("r")); cmd == nil || !m.playing {
		t.Error("replay should restart the animation")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestCellChart(t *testing.T) {
	vm := chart.New([]float64{1, 2}, nil)
	got := cellChart(vm)

	if got == vm {
		t.Fatal("cellChart should copy")
	}
	if got.Padding.Left != 5 || got.Padding.Top != 1 {
		t.Errorf("padding = %+v", got.Padding)
	}
	if got.Margin.Left != 1 {
		t.Errorf("margin = %+v", got.Margin)
	}
	if got.BarSpacing != 1 || got.BoxLineWidth != 1 {
		t.Errorf("bar spacing %v, line width %v", got.BarSpacing, got.BoxLineWidth)
	}
	if vm.Padding != chart.DefaultPadding {
		t.Error("source view model was modified")
	}
}

func TestCellCanvasBox(t *testing.T) {
	tests := []struct {
		name    string
		closed  bool
		wantTop string
	}{
		{"closed", true, "┌───┐"},
		{"open", false, "│   │"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCellCanvas(5, 3)
			c.draw(scene.Node{
				Kind:      scene.KindBox,
				Rect:      chart.Rect{W: 5, H: 3},
				Closed:    tt.closed,
				LineWidth: 1,
			}, 1)
			rows := strings.Split(c.String(), "\n")
			if rows[0] != tt.wantTop {
				t.Errorf("top = %q, want %q", rows[0], tt.wantTop)
			}
			if rows[1] != "│   │" {
				t.Errorf("side = %q", rows[1])
			}
		})
	}
}

func TestCellCanvasText(t *testing.T) {
	c := newCellCanvas(6, 1)
	c.draw(scene.Node{Kind: scene.KindLabel, Text: "月a", Rect: chart.Rect{X: 1, W: 3, H: 1}}, 1)
	if got := c.String(); got != " 月a  " {
		t.Errorf("canvas = %q", got)
	}

	c = newCellCanvas(4, 1)
	c.draw(scene.Node{Kind: scene.KindAverageLabel, Text: "Avg", Rect: chart.Rect{W: 3, H: 1}}, 0.2)
	if got := c.String(); got != "    " {
		t.Errorf("transparent text drawn: %q", got)
	}
}
