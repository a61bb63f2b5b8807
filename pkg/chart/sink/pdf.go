package sink

import (
	"context"
	"slices"

	"github.com/matzehuels/barchart/pkg/chart/scene"
	"github.com/matzehuels/barchart/pkg/render"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
}

// WithPDFSVGOptions passes options through to the underlying SVG renderer.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// RenderPDF renders the final frame of s as PDF via SVG conversion.
// Animations are never included.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, s scene.Scene, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	svgOpts := append(slices.Clone(r.svgOpts), func(sr *svgRenderer) { sr.animate = false })
	svg := RenderSVG(s, svgOpts...)
	return render.ToPDF(ctx, svg)
}
