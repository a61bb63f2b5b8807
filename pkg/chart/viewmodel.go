package chart

// BoxStyle selects how the plot box outline is stroked.
type BoxStyle string

const (
	// BoxClosed strokes all four sides of the plot box.
	BoxClosed BoxStyle = "closed"
	// BoxOpen strokes left, bottom and right only.
	BoxOpen BoxStyle = "open"
)

// AverageLabel is the text drawn next to the average line.
const AverageLabel = "Average"

// Default style values applied by New.
const (
	DefaultMargin       = 5.0
	DefaultBarSpacing   = 1.0
	DefaultBoxLineWidth = 1.0
	DefaultFontSize     = 10.0
)

var (
	DefaultPadding      = Spacing{Left: 20, Right: 20, Top: 8, Bottom: 0}
	DefaultBoxColor     = Color{}
	DefaultBarColor     = Color{R: 0xff}
	DefaultLabelColor   = Color{}
	DefaultAverageColor = RGB(0.259, 0.616, 0.867)
)

// ViewModel is a complete, declarative description of one bar chart.
//
// A ViewModel is treated as immutable once handed to a view: assigning a
// different ViewModel triggers a relayout, mutating an assigned one does not.
type ViewModel struct {
	Title  string    `json:"title,omitempty" toml:"title" yaml:"title"`
	Values []float64 `json:"values" toml:"values" yaml:"values"`
	Labels []string  `json:"labels,omitempty" toml:"labels" yaml:"labels"`

	Margin           Spacing  `json:"margin" toml:"margin" yaml:"margin"`
	Padding          Spacing  `json:"padding" toml:"padding" yaml:"padding"`
	AxisLabelPadding Spacing  `json:"axis_label_padding" toml:"axis_label_padding" yaml:"axis_label_padding"`
	BarSpacing       float64  `json:"bar_spacing" toml:"bar_spacing" yaml:"bar_spacing"`
	YAxisSteps       int      `json:"y_axis_steps,omitempty" toml:"y_axis_steps" yaml:"y_axis_steps"`
	ShowAverage      bool     `json:"show_average" toml:"show_average" yaml:"show_average"`
	BoxLineWidth     float64  `json:"box_line_width" toml:"box_line_width" yaml:"box_line_width"`
	BoxStyle         BoxStyle `json:"box_style,omitempty" toml:"box_style" yaml:"box_style"`

	BoxColor     Color `json:"box_color" toml:"box_color" yaml:"box_color"`
	BarColor     Color `json:"bar_color" toml:"bar_color" yaml:"bar_color"`
	LabelColor   Color `json:"label_color" toml:"label_color" yaml:"label_color"`
	AverageColor Color `json:"average_color" toml:"average_color" yaml:"average_color"`

	YAxisFont   Font `json:"y_axis_font" toml:"y_axis_font" yaml:"y_axis_font"`
	XAxisFont   Font `json:"x_axis_font" toml:"x_axis_font" yaml:"x_axis_font"`
	AverageFont Font `json:"average_font" toml:"average_font" yaml:"average_font"`
}

// New returns a ViewModel for values and labels with the default style.
func New(values []float64, labels []string) *ViewModel {
	vm := Defaults()
	vm.Values = values
	vm.Labels = labels
	return vm
}

// Defaults returns a ViewModel with no data and the default style. Chart
// definition files are decoded on top of it.
func Defaults() *ViewModel {
	return &ViewModel{
		Margin:       Uniform(DefaultMargin),
		Padding:      DefaultPadding,
		BarSpacing:   DefaultBarSpacing,
		ShowAverage:  true,
		BoxLineWidth: DefaultBoxLineWidth,
		BoxStyle:     BoxClosed,
		BoxColor:     DefaultBoxColor,
		BarColor:     DefaultBarColor,
		LabelColor:   DefaultLabelColor,
		AverageColor: DefaultAverageColor,
		YAxisFont:    Regular(DefaultFontSize),
		XAxisFont:    Regular(DefaultFontSize),
		AverageFont:  BoldFont(DefaultFontSize),
	}
}

// Len returns the number of bars.
func (vm *ViewModel) Len() int {
	if vm == nil {
		return 0
	}
	return len(vm.Values)
}

// Empty reports whether there is nothing to draw.
func (vm *ViewModel) Empty() bool { return vm.Len() == 0 }

// LabelsAligned reports whether there is exactly one label per bar.
func (vm *ViewModel) LabelsAligned() bool {
	return !vm.Empty() && len(vm.Labels) == len(vm.Values)
}

// OpenBox reports whether the outline omits the top edge.
func (vm *ViewModel) OpenBox() bool { return vm.BoxStyle == BoxOpen }
