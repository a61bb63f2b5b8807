package cli

import (
	"context"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
	"github.com/matzehuels/barchart/pkg/chart/measure"
	"github.com/matzehuels/barchart/pkg/chart/scene"
	"github.com/matzehuels/barchart/pkg/chart/view"
	chartio "github.com/matzehuels/barchart/pkg/io"
	"github.com/matzehuels/barchart/pkg/pipeline"
)

// frameInterval paces the entrance animation.
const frameInterval = time.Second / 30

// Terminal cells are much coarser than points, so chart spacing is scaled
// down before laying out in cells.
const (
	cellsPerPointX = 0.25
	cellsPerPointY = 0.125
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <chart-file>",
		Short: "Animate a chart in the terminal",
		Long: `Lay out a chart in terminal cells and play its entrance animation.

The chart reflows when the terminal is resized. Keys:
  a  toggle the average line (plays the entrance again)
  r  replay the entrance animation
  q  quit`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeChartFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runPreview(ctx context.Context, input string) error {
	vm, err := chartio.ImportChart(input)
	if err != nil {
		return err
	}
	if err := pipeline.ValidateChart(vm); err != nil {
		return err
	}
	logger := loggerFromContext(ctx)
	m := newPreviewModel(vm, func(layouts int, d time.Duration) {
		logger.Debug("preview layout", "count", layouts, "duration", d)
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// Model
// =============================================================================

type frameMsg time.Time

// previewModel hosts a view.View inside a bubbletea program. The view
// memoizes geometry; the model only tracks the playing animation.
type previewModel struct {
	view   *view.View
	source *chart.ViewModel
	scene  scene.Scene

	started time.Time
	now     func() time.Time
	playing bool
	ready   bool
}

func newPreviewModel(vm *chart.ViewModel, onLayout func(layouts int, d time.Duration)) *previewModel {
	m := &previewModel{source: vm, now: time.Now}
	layouts := 0
	m.view = view.New(
		view.WithMeasurer(measure.Cells{}),
		view.WithLayoutHook(func(_ layout.Geometry, d time.Duration) {
			layouts++
			if onLayout != nil {
				onLayout(layouts, d)
			}
		}),
	)
	m.view.SetViewModel(cellChart(vm))
	return m
}

func (m *previewModel) Init() tea.Cmd { return nil }

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Last row holds the key help.
		m.view.SetBounds(chart.Size{W: float64(msg.Width), H: float64(max(0, msg.Height-1))})
		m.ready = true
		return m, m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "a":
			next := *m.source
			next.ShowAverage = !next.ShowAverage
			m.source = &next
			m.view.SetViewModel(cellChart(m.source))
			return m, m.refresh()
		case "r":
			m.view.Invalidate()
			return m, m.refresh()
		}

	case frameMsg:
		if !m.playing {
			return m, nil
		}
		if m.elapsed() >= m.scene.Duration() {
			m.playing = false
			return m, nil
		}
		return m, frameTick()
	}
	return m, nil
}

// refresh pulls a new scene from the view and starts the entrance
// animation when the scene asks for it.
func (m *previewModel) refresh() tea.Cmd {
	if !m.ready {
		return nil
	}
	m.scene = m.view.Scene()
	if !m.scene.Transition.Animate() || len(m.scene.Animations) == 0 {
		return nil
	}
	m.started = m.now()
	if m.playing {
		return nil
	}
	m.playing = true
	return frameTick()
}

func (m *previewModel) elapsed() time.Duration {
	if !m.playing {
		return m.scene.Duration()
	}
	return m.now().Sub(m.started)
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *previewModel) View() string {
	if !m.ready {
		return "loading…"
	}
	b := m.view.Bounds()
	frame := m.scene.FrameAt(m.elapsed())
	canvas := newCellCanvas(int(b.W), int(b.H))
	for _, n := range frame.Nodes {
		opacity := 1.0
		if o, ok := frame.Opacity[n.ID]; ok {
			opacity = o
		}
		canvas.draw(n, opacity)
	}
	help := StyleDim.Render("a average · r replay · q quit")
	return canvas.String() + "\n" + help
}

// cellChart returns a copy of vm with spacing converted to terminal cells.
func cellChart(vm *chart.ViewModel) *chart.ViewModel {
	out := *vm
	out.Margin = cellSpacing(vm.Margin)
	out.Padding = cellSpacing(vm.Padding)
	out.AxisLabelPadding = cellSpacing(vm.AxisLabelPadding)
	if vm.BarSpacing > 0 {
		out.BarSpacing = math.Max(1, math.Round(vm.BarSpacing*cellsPerPointX))
	}
	if vm.BoxLineWidth > 0 {
		out.BoxLineWidth = 1
	}
	return &out
}

func cellSpacing(s chart.Spacing) chart.Spacing {
	return chart.Spacing{
		Left:   math.Round(s.Left * cellsPerPointX),
		Right:  math.Round(s.Right * cellsPerPointX),
		Top:    math.Round(s.Top * cellsPerPointY),
		Bottom: math.Round(s.Bottom * cellsPerPointY),
	}
}

// =============================================================================
// Cell Canvas
// =============================================================================

// wideTail marks the second cell of a double-width rune.
const wideTail = rune(0)

type cell struct {
	r     rune
	style *lipgloss.Style
}

type cellCanvas struct {
	w, h   int
	cells  [][]cell
	styles map[chart.Color]*lipgloss.Style

	// avgRow is the row of the average line once drawn. In cells the
	// caption sits directly above it.
	avgRow int
}

func newCellCanvas(w, h int) *cellCanvas {
	c := &cellCanvas{w: max(0, w), h: max(0, h), styles: map[chart.Color]*lipgloss.Style{}, avgRow: -1}
	c.cells = make([][]cell, c.h)
	for y := range c.cells {
		row := make([]cell, c.w)
		for x := range row {
			row[x].r = ' '
		}
		c.cells[y] = row
	}
	return c
}

func (c *cellCanvas) set(x, y int, r rune, style *lipgloss.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, style: style}
}

func (c *cellCanvas) text(x, y int, s string, style *lipgloss.Style) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		c.set(x, y, r, style)
		for i := 1; i < w; i++ {
			c.set(x+i, y, wideTail, style)
		}
		x += max(w, 1)
	}
}

// draw paints one scene node. Nodes below half opacity are skipped.
func (c *cellCanvas) draw(n scene.Node, opacity float64) {
	if opacity < 0.5 {
		return
	}
	switch n.Kind {
	case scene.KindBox:
		c.box(n)
	case scene.KindBar:
		style := c.colorStyle(n.Fill)
		top := int(math.Round(n.Rect.Y))
		bottom := int(math.Round(n.Rect.MaxY()))
		for y := top; y < bottom; y++ {
			for x := int(n.Rect.X); x < int(n.Rect.MaxX()); x++ {
				c.set(x, y, '█', style)
			}
		}
	case scene.KindAverageLine:
		if len(n.Points) < 2 {
			return
		}
		style := c.colorStyle(n.Stroke)
		y := int(math.Round(n.Points[0].Y))
		c.avgRow = y
		for x := int(n.Points[0].X); x < int(n.Points[1].X); x++ {
			c.set(x, y, '┄', style)
		}
	default:
		if n.IsText() {
			var style *lipgloss.Style
			row := int(math.Floor(n.Rect.MidY()))
			if n.Kind == scene.KindAverageLabel {
				style = c.colorStyle(n.Fill)
				if c.avgRow >= 0 {
					row = max(0, c.avgRow-1)
				}
			}
			c.text(int(math.Round(n.Rect.X)), row, n.Text, style)
		}
	}
}

func (c *cellCanvas) box(n scene.Node) {
	left := int(n.Rect.X)
	right := int(n.Rect.MaxX() - n.LineWidth)
	top := int(n.Rect.Y)
	bottom := int(n.Rect.MaxY() - n.LineWidth)
	if right <= left || bottom <= top {
		return
	}
	for x := left + 1; x < right; x++ {
		c.set(x, bottom, '─', nil)
		if n.Closed {
			c.set(x, top, '─', nil)
		}
	}
	for y := top + 1; y < bottom; y++ {
		c.set(left, y, '│', nil)
		c.set(right, y, '│', nil)
	}
	c.set(left, bottom, '└', nil)
	c.set(right, bottom, '┘', nil)
	if n.Closed {
		c.set(left, top, '┌', nil)
		c.set(right, top, '┐', nil)
	} else {
		c.set(left, top, '│', nil)
		c.set(right, top, '│', nil)
	}
}

// String renders the canvas, styling runs of equally styled cells together.
func (c *cellCanvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		var runStyle *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle != nil {
				b.WriteString(runStyle.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.r == wideTail {
				continue
			}
			if cl.style != runStyle {
				flush()
				runStyle = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}

// colorStyle returns the shared foreground style for col.
func (c *cellCanvas) colorStyle(col *chart.Color) *lipgloss.Style {
	if col == nil {
		return nil
	}
	if s, ok := c.styles[*col]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex()))
	c.styles[*col] = &s
	return &s
}
