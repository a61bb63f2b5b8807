// Package view hosts a bar chart the way a UI surface would: it owns a view
// model and the container bounds, memoizes the computed geometry, and hands
// out scenes tagged with why they were produced.
//
// Geometry is recomputed only when the view is dirty, which happens when a
// different view model is assigned or the bounds change. Assigning the same
// view model again, or mutating an assigned view model in place, does not
// invalidate anything.
//
// A View is not safe for concurrent use; like any UI component it is driven
// from a single thread.
package view

import (
	"time"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
	"github.com/matzehuels/barchart/pkg/chart/measure"
	"github.com/matzehuels/barchart/pkg/chart/scene"
)

type state int

const (
	stateDirty state = iota
	stateClean
)

// Stats counts work done by a View.
type Stats struct {
	Layouts int // geometry computations
	Scenes  int // scenes built
}

// LayoutFunc is called after every geometry computation.
type LayoutFunc func(g layout.Geometry, elapsed time.Duration)

// Option configures a View.
type Option func(*View)

// WithMeasurer sets the text measurer. The default is measure.Default().
func WithMeasurer(m chart.Measurer) Option { return func(v *View) { v.measurer = m } }

// WithLayoutHook registers fn to observe geometry computations.
func WithLayoutHook(fn LayoutFunc) Option { return func(v *View) { v.onLayout = fn } }

// WithBounds sets the initial container size.
func WithBounds(s chart.Size) Option { return func(v *View) { v.bounds = s } }

// View is a memoizing bar-chart component.
type View struct {
	vm       *chart.ViewModel
	bounds   chart.Size
	measurer chart.Measurer
	onLayout LayoutFunc

	state    state
	geom     layout.Geometry
	pending  scene.Transition
	rendered bool
	stats    Stats
}

// New returns an empty, dirty view.
func New(opts ...Option) *View {
	v := &View{measurer: measure.Default(), pending: scene.TransitionEnter}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ViewModel returns the assigned view model, or nil.
func (v *View) ViewModel() *chart.ViewModel { return v.vm }

// Bounds returns the current container size.
func (v *View) Bounds() chart.Size { return v.bounds }

// SetViewModel assigns vm. The view is invalidated only if vm is a
// different view model than the one assigned.
func (v *View) SetViewModel(vm *chart.ViewModel) {
	if vm == v.vm {
		return
	}
	v.vm = vm
	v.invalidate(scene.TransitionEnter)
}

// SetBounds resizes the container. Equal bounds are a no-op.
func (v *View) SetBounds(s chart.Size) {
	if s == v.bounds {
		return
	}
	v.bounds = s
	v.invalidate(scene.TransitionReflow)
}

// Invalidate forces the next Layout to recompute, for callers that mutated
// the assigned view model in place and want the change picked up.
func (v *View) Invalidate() { v.invalidate(scene.TransitionEnter) }

func (v *View) invalidate(reason scene.Transition) {
	v.state = stateDirty
	v.pending = max(v.pending, reason)
}

// Dirty reports whether the next Layout will recompute.
func (v *View) Dirty() bool { return v.state == stateDirty }

// Layout returns the geometry for the current view model and bounds,
// computing it only if the view is dirty.
func (v *View) Layout() layout.Geometry {
	if v.state == stateClean {
		return v.geom
	}
	start := time.Now()
	v.geom = layout.Compute(v.vm, v.bounds, v.measurer)
	v.state = stateClean
	v.stats.Layouts++
	if v.onLayout != nil {
		v.onLayout(v.geom, time.Since(start))
	}
	return v.geom
}

// Scene returns a freshly built scene for the current state. Its
// Transition is TransitionEnter on first render and after a new view model,
// TransitionReflow after a bounds-only change, and TransitionNone when
// nothing changed since the previous call.
func (v *View) Scene() scene.Scene {
	g := v.Layout()
	s := scene.Build(v.vm, g)
	s.Transition = v.pending
	if !v.rendered {
		s.Transition = scene.TransitionEnter
	}
	v.rendered = true
	v.pending = scene.TransitionNone
	v.stats.Scenes++
	return s
}

// Stats returns the work counters.
func (v *View) Stats() Stats { return v.stats }
