package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
	"github.com/matzehuels/barchart/pkg/chart/scene"
	"github.com/matzehuels/barchart/pkg/chart/sink"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/observability"
)

// Render generates output artifacts in the requested formats. The HTML
// format needs vm because ECharts lays the chart out itself; the other
// formats only read the scene and geometry.
func Render(ctx context.Context, vm *chart.ViewModel, s scene.Scene, g layout.Geometry, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))
	hooks := observability.Pipeline()

	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(s, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(s, sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, s, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(s, sink.WithJSONGeometry(g))
		case FormatHTML:
			data, err = sink.RenderHTML(vm, opts.Bounds())
		default:
			err = errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, renderError(format, err)
		}
		opts.Logger.Debug("rendered", "format", format, "bytes", len(data))
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderError attaches an error code to a sink failure, keeping the code of
// errors that already carry one.
func renderError(format string, err error) error {
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "render %s", format)
	default:
		return errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
	}
}

// buildSVGOptions constructs SVG render options from pipeline options.
func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithTitle()}
	if opts.Animate {
		svgOpts = append(svgOpts, sink.WithAnimation())
	}
	return svgOpts
}
