package scene

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
)

// Entrance animation timings.
const (
	BarsDuration    = 200 * time.Millisecond
	AverageDuration = 200 * time.Millisecond
)

// averageLineWidth is the stroke width of the average line, independent of
// the box line width.
const averageLineWidth = 1.0

// Kind identifies what a Node depicts.
type Kind string

const (
	KindBox          Kind = "box"
	KindBar          Kind = "bar"
	KindTick         Kind = "tick"
	KindLabel        Kind = "label"
	KindAverageLine  Kind = "average-line"
	KindAverageLabel Kind = "average-label"
)

// Node IDs for singleton nodes.
const (
	BoxID          = "box"
	AverageLineID  = "average-line"
	AverageLabelID = "average-label"
)

// BarID returns the node ID of bar i.
func BarID(i int) string { return fmt.Sprintf("bar-%d", i) }

// LabelID returns the node ID of x-axis label i.
func LabelID(i int) string { return fmt.Sprintf("label-%d", i) }

// TickID returns the node ID of y-axis label i.
func TickID(i int) string { return fmt.Sprintf("tick-%d", i) }

// Node is one drawable primitive in its final state. Rect is used by bars
// and text; Points by strokes.
type Node struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Rect      chart.Rect    `json:"rect"`
	Points    []chart.Point `json:"points,omitempty"`
	Closed    bool          `json:"closed,omitempty"`
	Text      string        `json:"text,omitempty"`
	Font      *chart.Font   `json:"font,omitempty"`
	Fill      *chart.Color  `json:"fill,omitempty"`
	Stroke    *chart.Color  `json:"stroke,omitempty"`
	LineWidth float64       `json:"line_width,omitempty"`
}

// IsText reports whether the node is a text run.
func (n Node) IsText() bool { return n.Text != "" }

// Property is an animatable node attribute.
type Property string

const (
	PropY       Property = "y"
	PropHeight  Property = "height"
	PropX2      Property = "x2"
	PropOpacity Property = "opacity"
)

// Easing is a timing curve name in CSS vocabulary.
type Easing string

const (
	EaseIn Easing = "ease-in"
	Linear Easing = "linear"
)

// Animation describes a transition of one property of one node. The node
// holds the To value; From is shown until the animation starts.
type Animation struct {
	Target        string
	Property      Property
	From, To      float64
	Duration      time.Duration
	Easing        Easing
	FillBackwards bool
}

type jsonAnimation struct {
	Target        string   `json:"target"`
	Property      Property `json:"property"`
	From          float64  `json:"from"`
	To            float64  `json:"to"`
	Duration      float64  `json:"duration"`
	Easing        Easing   `json:"easing"`
	FillBackwards bool     `json:"fill_backwards,omitempty"`
}

// MarshalJSON writes Duration in seconds.
func (a Animation) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonAnimation{
		Target:        a.Target,
		Property:      a.Property,
		From:          a.From,
		To:            a.To,
		Duration:      a.Duration.Seconds(),
		Easing:        a.Easing,
		FillBackwards: a.FillBackwards,
	})
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (a *Animation) UnmarshalJSON(data []byte) error {
	var ja jsonAnimation
	if err := json.Unmarshal(data, &ja); err != nil {
		return err
	}
	*a = Animation{
		Target:        ja.Target,
		Property:      ja.Property,
		From:          ja.From,
		To:            ja.To,
		Duration:      time.Duration(ja.Duration * float64(time.Second)),
		Easing:        ja.Easing,
		FillBackwards: ja.FillBackwards,
	}
	return nil
}

// Transition tells the host why a scene was produced, so it can decide
// whether to play the entrance animations.
type Transition int

const (
	// TransitionNone means nothing changed since the previous scene.
	TransitionNone Transition = iota
	// TransitionReflow means only the container bounds changed.
	TransitionReflow
	// TransitionEnter means first render or a new view model.
	TransitionEnter
)

func (t Transition) String() string {
	switch t {
	case TransitionReflow:
		return "reflow"
	case TransitionEnter:
		return "enter"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Transition) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Transition) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*t = TransitionNone
	case "reflow":
		*t = TransitionReflow
	case "enter":
		*t = TransitionEnter
	default:
		return fmt.Errorf("unknown transition %q", text)
	}
	return nil
}

// Animate reports whether the host should play entrance animations.
func (t Transition) Animate() bool { return t == TransitionEnter }

// Scene is the complete drawable output for one chart: nodes in paint order
// plus the animations that bring them in.
type Scene struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Title      string      `json:"title,omitempty"`
	Transition Transition  `json:"transition"`
	Nodes      []Node      `json:"nodes"`
	Animations []Animation `json:"animations,omitempty"`
}

// Empty reports whether the scene draws nothing.
func (s Scene) Empty() bool { return len(s.Nodes) == 0 }

// Node returns the node with the given ID.
func (s Scene) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// AnimationsFor returns the animations targeting the node id.
func (s Scene) AnimationsFor(id string) []Animation {
	var out []Animation
	for _, a := range s.Animations {
		if a.Target == id {
			out = append(out, a)
		}
	}
	return out
}

// NodesOf returns the nodes of the given kind in paint order.
func (s Scene) NodesOf(k Kind) []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// Compute lays out vm in bounds and builds its scene in one step. The
// result is marked as an entrance.
func Compute(vm *chart.ViewModel, bounds chart.Size, m chart.Measurer) Scene {
	s := Build(vm, layout.Compute(vm, bounds, m))
	s.Transition = TransitionEnter
	return s
}
