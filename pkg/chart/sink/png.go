package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/scene"
	"github.com/matzehuels/barchart/pkg/fonts"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background chart.Color
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground sets the canvas color (default white).
func WithPNGBackground(c chart.Color) PNGOption {
	return func(r *pngRenderer) { r.background = c }
}

// RenderPNG rasterizes the final frame of s. Coordinates and font sizes are
// multiplied by the scale factor so text stays sharp at high resolution.
func RenderPNG(s scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, background: chart.Color{R: 0xff, G: 0xff, B: 0xff}}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("png scale must be positive, got %v", r.scale)
	}

	w := int(math.Ceil(s.Width * r.scale))
	h := int(math.Ceil(s.Height * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("png canvas is empty: %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(r.background.NRGBA())
	dc.Clear()

	for _, n := range s.Nodes {
		if err := r.draw(dc, n); err != nil {
			return nil, fmt.Errorf("draw %s: %w", n.ID, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r pngRenderer) draw(dc *gg.Context, n scene.Node) error {
	k := r.scale
	switch {
	case n.IsText():
		return r.drawText(dc, n)
	case n.Kind == scene.KindBar:
		if n.Fill == nil || n.Rect.H <= 0 {
			return nil
		}
		dc.SetColor(n.Fill.NRGBA())
		dc.DrawRectangle(n.Rect.X*k, n.Rect.Y*k, n.Rect.W*k, n.Rect.H*k)
		dc.Fill()
	case len(n.Points) >= 2:
		if n.Stroke == nil {
			return nil
		}
		dc.SetColor(n.Stroke.NRGBA())
		dc.SetLineWidth(n.LineWidth * k)
		dc.MoveTo(n.Points[0].X*k, n.Points[0].Y*k)
		for _, p := range n.Points[1:] {
			dc.LineTo(p.X*k, p.Y*k)
		}
		if n.Closed {
			dc.ClosePath()
		}
		dc.Stroke()
	}
	return nil
}

func (r pngRenderer) drawText(dc *gg.Context, n scene.Node) error {
	f := chart.Regular(chart.DefaultFontSize)
	if n.Font != nil {
		f = *n.Font
	}
	f.Size *= r.scale
	face, err := fonts.Face(f)
	if err != nil {
		return err
	}
	defer face.Close()

	dc.SetFontFace(face)
	fill := chart.DefaultLabelColor
	if n.Fill != nil {
		fill = *n.Fill
	}
	dc.SetColor(fill.NRGBA())
	baseline := n.Rect.MaxY() - n.Rect.H*descentRatio
	dc.DrawString(n.Text, n.Rect.X*r.scale, baseline*r.scale)
	return nil
}
