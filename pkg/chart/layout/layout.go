package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/barchart/pkg/chart"
)

const (
	// averageLabelInset is the horizontal offset of the "Average" caption
	// from the left edge of the plot box.
	averageLabelInset = 9.0
	// averageLabelGap separates the caption's bottom edge from the line.
	averageLabelGap = 5.0
)

// LabelMode tells how x-axis labels were placed.
type LabelMode int

const (
	// LabelsNone means the chart has no x-axis labels.
	LabelsNone LabelMode = iota
	// LabelsAligned centers label i under bar i.
	LabelsAligned
	// LabelsStride spaces labels uniformly across the inner plot width,
	// independent of bar positions.
	LabelsStride
)

func (m LabelMode) String() string {
	switch m {
	case LabelsAligned:
		return "aligned"
	case LabelsStride:
		return "stride"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m LabelMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *LabelMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "aligned":
		*m = LabelsAligned
	case "stride":
		*m = LabelsStride
	case "none", "":
		*m = LabelsNone
	default:
		return fmt.Errorf("unknown label mode %q", text)
	}
	return nil
}

// Bar is the placed rectangle for one value.
type Bar struct {
	Index int        `json:"index"`
	Value float64    `json:"value"`
	Rect  chart.Rect `json:"rect"`
}

// Label is a text run with its draw rectangle.
type Label struct {
	Text string     `json:"text"`
	Rect chart.Rect `json:"rect"`
}

// Tick is one y-axis mark.
type Tick struct {
	Value float64 `json:"value"`
	Y     float64 `json:"y"`
	Label Label   `json:"label"`
}

// Average is the placed average overlay.
type Average struct {
	Value float64 `json:"value"`
	Y     float64 `json:"y"`
	X1    float64 `json:"x1"`
	X2    float64 `json:"x2"`
	Label Label   `json:"label"`
}

// Geometry is everything needed to draw a chart inside Bounds.
// The zero Geometry draws nothing.
type Geometry struct {
	Bounds       chart.Size `json:"bounds"`
	Box          chart.Rect `json:"box"`
	Baseline     float64    `json:"baseline"`
	BarWidth     float64    `json:"bar_width"`
	MaxBarHeight float64    `json:"max_bar_height"`
	Bars         []Bar      `json:"bars"`
	Labels       []Label    `json:"labels,omitempty"`
	LabelMode    LabelMode  `json:"label_mode"`
	Ticks        []Tick     `json:"ticks,omitempty"`
	Average      *Average   `json:"average,omitempty"`
	YLabelSize   chart.Size `json:"y_label_size"`
	XLabelSize   chart.Size `json:"x_label_size"`
}

// Empty reports whether the geometry has no bars.
func (g Geometry) Empty() bool { return len(g.Bars) == 0 }

// Compute lays out vm inside a container of the given size. Text is sized
// with m. A nil or empty view model yields an empty Geometry carrying only
// Bounds.
func Compute(vm *chart.ViewModel, bounds chart.Size, m chart.Measurer) Geometry {
	g := Geometry{Bounds: bounds}
	if vm.Empty() {
		return g
	}

	g.YLabelSize = vm.YAxisLabelsMaxSize(m).Ceil()
	g.XLabelSize = vm.XAxisLabelsMaxSize(m).Ceil()
	g.Box = PlotBox(vm, bounds, g.YLabelSize, g.XLabelSize)
	g.Baseline = g.Box.MaxY() - vm.BoxLineWidth
	g.BarWidth = BarWidth(vm, g.Box)
	g.MaxBarHeight = math.Max(0, g.Box.H-vm.Padding.Top)

	g.Bars = placeBars(vm, g)
	g.Labels, g.LabelMode = placeLabels(vm, g, m)
	g.Ticks = placeTicks(vm, g, m)
	g.Average = placeAverage(vm, g, m)
	return g
}

// PlotBox returns the box the bars are drawn in: the container minus the
// margins and the space reserved for axis labels.
func PlotBox(vm *chart.ViewModel, bounds, yLabels, xLabels chart.Size) chart.Rect {
	return chart.Rect{
		X: yLabels.W + vm.Margin.Left,
		Y: vm.Margin.Top,
		W: math.Max(0, bounds.W-yLabels.W-vm.Margin.Horizontal()),
		H: math.Max(0, bounds.H-xLabels.H-vm.Margin.Vertical()),
	}
}

// BarWidth returns the shared width of every bar in box. The width is
// floored to whole pixels; leftover pixels stay as whitespace on the right.
// When the bars do not fit, the width is 0.
func BarWidth(vm *chart.ViewModel, box chart.Rect) float64 {
	n := vm.Len()
	if n == 0 {
		return 0
	}
	inner := box.W - vm.Padding.Horizontal() - vm.BarSpacing*float64(n-1)
	return math.Max(0, math.Floor(inner/float64(n)))
}

func placeBars(vm *chart.ViewModel, g Geometry) []Bar {
	bars := make([]Bar, len(vm.Values))
	x0 := g.Box.X + vm.Padding.Left
	for i, v := range vm.Values {
		h := vm.ScaledHeight(v, g.MaxBarHeight)
		bars[i] = Bar{
			Index: i,
			Value: v,
			Rect: chart.Rect{
				X: x0 + float64(i)*(g.BarWidth+vm.BarSpacing),
				Y: g.Baseline - h,
				W: g.BarWidth,
				H: h,
			},
		}
	}
	return bars
}

func placeLabels(vm *chart.ViewModel, g Geometry, m chart.Measurer) ([]Label, LabelMode) {
	if len(vm.Labels) == 0 {
		return nil, LabelsNone
	}
	top := g.Box.MaxY() + vm.Margin.Bottom
	labels := make([]Label, len(vm.Labels))

	if vm.LabelsAligned() {
		for i, text := range vm.Labels {
			bar := g.Bars[i].Rect
			size := measureText(m, text, vm.XAxisFont)
			labels[i] = Label{
				Text: text,
				Rect: chart.AlignedTo(size, chart.Point{X: bar.MidX(), Y: top}, chart.AlignTopCenter),
			}
		}
		return labels, LabelsAligned
	}

	x0 := g.Box.X + vm.AxisLabelPadding.Left
	stride := (g.Box.W - vm.Padding.Horizontal()) / float64(len(vm.Labels))
	for i, text := range vm.Labels {
		size := measureText(m, text, vm.XAxisFont)
		labels[i] = Label{
			Text: text,
			Rect: chart.Rect{X: x0 + stride*float64(i), Y: top, W: size.W, H: size.H},
		}
	}
	return labels, LabelsStride
}

func placeTicks(vm *chart.ViewModel, g Geometry, m chart.Measurer) []Tick {
	values := vm.YAxisTicks()
	if values == nil {
		return nil
	}
	texts := vm.YAxisLabels()
	right := g.Box.X - vm.Margin.Left
	ticks := make([]Tick, len(values))
	for i, v := range values {
		y := g.Baseline - vm.ScaledHeight(v, g.MaxBarHeight)
		size := measureText(m, texts[i], vm.YAxisFont)
		ticks[i] = Tick{
			Value: v,
			Y:     y,
			Label: Label{
				Text: texts[i],
				Rect: chart.AlignedTo(size, chart.Point{X: right, Y: y}, chart.AlignCenterRight),
			},
		}
	}
	return ticks
}

func placeAverage(vm *chart.ViewModel, g Geometry, m chart.Measurer) *Average {
	if !vm.ShowAverage || vm.MaxValue() <= 0 {
		return nil
	}
	avg, ok := vm.Average()
	if !ok {
		return nil
	}
	y := g.Baseline - vm.ScaledHeight(avg, g.MaxBarHeight)
	size := measureText(m, chart.AverageLabel, vm.AverageFont)
	return &Average{
		Value: avg,
		Y:     y,
		X1:    g.Box.X,
		X2:    g.Box.MaxX() - vm.BoxLineWidth,
		Label: Label{
			Text: chart.AverageLabel,
			Rect: chart.Rect{
				X: g.Box.X + averageLabelInset,
				Y: y - size.H - averageLabelGap,
				W: size.W,
				H: size.H,
			},
		},
	}
}

func measureText(m chart.Measurer, text string, f chart.Font) chart.Size {
	if m == nil {
		return chart.Size{}
	}
	return m.Measure(text, f)
}
