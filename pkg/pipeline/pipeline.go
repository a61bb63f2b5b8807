// Package pipeline provides the chart rendering pipeline shared by the CLI
// and the HTTP server.
//
// This package implements the complete validate → layout → render pipeline
// for one bar chart. Centralizing it keeps cache keys, defaults and error
// codes identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Validate: Check the view model and options at the boundary
//  2. Layout: Compute geometry and build the animated scene
//  3. Render: Serialize the scene in each requested format
//
// Layout and render results are cached by content hash, so rendering the
// same chart twice costs one cache lookup per format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	vm := chart.New([]float64{10.4, 12.1, 5.6}, []string{"Mon", "Tue", "Wed"})
//	result, err := runner.Execute(ctx, vm, pipeline.Options{
//	    Width:   350,
//	    Height:  212,
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barchart/pkg/cache"
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
	"github.com/matzehuels/barchart/pkg/chart/scene"
	"github.com/matzehuels/barchart/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default container width in pixels.
	DefaultWidth = 320.0

	// DefaultHeight is the default container height in pixels.
	DefaultHeight = 200.0

	// DefaultScale is the default PNG pixel density.
	DefaultScale = 2.0

	// DefaultMeasurer is the default text measurer.
	DefaultMeasurer = MeasurerFace
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Measurer names accepted in Options.Measurer.
const (
	MeasurerFace   = "face"
	MeasurerApprox = "approx"
	MeasurerCells  = "cells"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatHTML}

// ValidMeasurers lists the supported text measurers.
var ValidMeasurers = []string{MeasurerFace, MeasurerApprox, MeasurerCells}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run. It supports JSON
// so the server can read it from a request.
type Options struct {
	// Layout options
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Measurer string  `json:"measurer,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Animate bool     `json:"animate,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ChartHash is the content hash of the view model.
	ChartHash string

	// Scene is the drawable output with its entrance animations.
	Scene scene.Scene

	// Geometry is the computed layout the scene was built from.
	Geometry layout.Geometry

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BarCount   int
	NodeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, ValidFormats); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMeasurer checks that a measurer name is supported.
func ValidateMeasurer(name string) error {
	for _, m := range ValidMeasurers {
		if name == m {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown measurer %q", name)
}

// ValidateChart checks a view model before it enters the pipeline. The
// layout engine itself never fails; everything it cannot draw sensibly is
// rejected here.
func ValidateChart(vm *chart.ViewModel) error {
	if vm == nil {
		return errors.New(errors.ErrCodeInvalidChart, "chart is required")
	}
	if err := errors.ValidateValues(vm.Values); err != nil {
		return err
	}
	if err := errors.ValidateLabels(vm.Labels); err != nil {
		return err
	}
	for _, s := range []struct {
		name string
		v    chart.Spacing
	}{
		{"margin", vm.Margin},
		{"padding", vm.Padding},
		{"axis_label_padding", vm.AxisLabelPadding},
	} {
		if err := errors.ValidateSpacing(s.name, s.v.Left, s.v.Right, s.v.Top, s.v.Bottom); err != nil {
			return err
		}
	}
	if err := errors.ValidateLength("bar_spacing", vm.BarSpacing); err != nil {
		return err
	}
	if err := errors.ValidateLength("box_line_width", vm.BoxLineWidth); err != nil {
		return err
	}
	switch vm.BoxStyle {
	case "", chart.BoxClosed, chart.BoxOpen:
	default:
		return errors.New(errors.ErrCodeInvalidChart, "unknown box_style %q", vm.BoxStyle)
	}
	for _, f := range []struct {
		name string
		v    chart.Font
	}{
		{"y_axis_font", vm.YAxisFont},
		{"x_axis_font", vm.XAxisFont},
		{"average_font", vm.AverageFont},
	} {
		if err := errors.ValidateFontSize(f.name, f.v.Size); err != nil {
			return err
		}
	}
	return errors.ValidateYAxisSteps(vm.YAxisSteps)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option values and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 || o.Scale > 8 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, 8], got %v", o.Scale)
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateBounds(o.Width, o.Height); err != nil {
		return err
	}
	return ValidateMeasurer(o.Measurer)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	o.Formats = formats
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Bounds returns the container size.
func (o *Options) Bounds() chart.Size {
	return chart.Size{W: o.Width, H: o.Height}
}

// SceneKeyOpts returns cache key options for layout computation.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Width:    o.Width,
		Height:   o.Height,
		Measurer: o.Measurer,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format. Only
// the options that change that format's bytes are included.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Animate = o.Animate
	case FormatPNG:
		k.Scale = o.Scale
	}
	return k
}
