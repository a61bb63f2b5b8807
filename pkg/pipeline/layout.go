package pipeline

import (
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
	"github.com/matzehuels/barchart/pkg/chart/measure"
	"github.com/matzehuels/barchart/pkg/chart/scene"
)

// NewMeasurer returns the text measurer registered under name.
func NewMeasurer(name string) (chart.Measurer, error) {
	switch name {
	case MeasurerFace, "":
		return measure.Face{}, nil
	case MeasurerApprox:
		return measure.Approx{}, nil
	case MeasurerCells:
		return measure.Cells{}, nil
	}
	return nil, ValidateMeasurer(name)
}

// Layout computes the geometry of vm and builds its entrance scene. It does
// not validate vm; use ValidateChart or Runner.Execute for untrusted input.
func Layout(vm *chart.ViewModel, opts Options) (scene.Scene, layout.Geometry, error) {
	opts.SetLayoutDefaults()
	m, err := NewMeasurer(opts.Measurer)
	if err != nil {
		return scene.Scene{}, layout.Geometry{}, err
	}
	g := layout.Compute(vm, opts.Bounds(), m)
	s := scene.Build(vm, g)
	s.Transition = scene.TransitionEnter
	opts.Logger.Debug("layout",
		"bars", len(g.Bars),
		"box", g.Box,
		"bar_width", g.BarWidth,
		"labels", g.LabelMode)
	return s, g, nil
}

// LayoutResult is the output of the layout stage, cached as JSON.
type LayoutResult struct {
	Scene    scene.Scene     `json:"scene"`
	Geometry layout.Geometry `json:"geometry"`
}
