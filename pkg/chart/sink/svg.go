package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/scene"
	"github.com/matzehuels/barchart/pkg/fonts"
)

// descentRatio is the share of a text rect below the baseline.
const descentRatio = 0.2

// easeInSpline is the cubic-bezier control points of CSS ease-in.
const easeInSpline = "0.42 0 1 1"

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	animate    bool
	background *chart.Color
	title      bool
}

// WithAnimation emits the scene's animations as SMIL elements.
func WithAnimation() SVGOption { return func(r *svgRenderer) { r.animate = true } }

// WithBackground fills the canvas with c before drawing.
func WithBackground(c chart.Color) SVGOption {
	return func(r *svgRenderer) { r.background = &c }
}

// WithTitle writes the scene title as an SVG <title> element.
func WithTitle() SVGOption { return func(r *svgRenderer) { r.title = true } }

// RenderSVG serializes s as a standalone SVG document.
func RenderSVG(s scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(s.Width), num(s.Height), num(s.Width), num(s.Height))

	if r.title && s.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(s.Title))
	}
	if r.background != nil {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="100%%" height="100%%" fill="%s"/>`+"\n", r.background.Hex())
	}

	for _, n := range s.Nodes {
		var anims []scene.Animation
		if r.animate {
			anims = s.AnimationsFor(n.ID)
		}
		renderNode(&buf, n, anims)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderNode(buf *bytes.Buffer, n scene.Node, anims []scene.Animation) {
	switch {
	case n.IsText():
		renderText(buf, n, anims)
	case n.Kind == scene.KindBar:
		renderRect(buf, n, anims)
	case len(n.Points) == 2:
		renderLine(buf, n, anims)
	case len(n.Points) > 2:
		renderPath(buf, n)
	}
}

func renderRect(buf *bytes.Buffer, n scene.Node, anims []scene.Animation) {
	fmt.Fprintf(buf, `  <rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"`,
		n.ID, num(n.Rect.X), num(n.Rect.Y), num(n.Rect.W), num(n.Rect.H), colorOr(n.Fill, "none"))
	closeElement(buf, "rect", anims)
}

func renderLine(buf *bytes.Buffer, n scene.Node, anims []scene.Animation) {
	a, b := n.Points[0], n.Points[1]
	fmt.Fprintf(buf, `  <line id="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"`,
		n.ID, num(a.X), num(a.Y), num(b.X), num(b.Y), colorOr(n.Stroke, "none"), num(n.LineWidth))
	closeElement(buf, "line", anims)
}

func renderPath(buf *bytes.Buffer, n scene.Node) {
	var d strings.Builder
	for i, p := range n.Points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&d, "%s%s %s ", cmd, num(p.X), num(p.Y))
	}
	if n.Closed {
		d.WriteString("Z")
	}
	fmt.Fprintf(buf, `  <path id="%s" d="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
		n.ID, strings.TrimSpace(d.String()), colorOr(n.Stroke, "none"), num(n.LineWidth))
}

func renderText(buf *bytes.Buffer, n scene.Node, anims []scene.Animation) {
	size, weight := chart.DefaultFontSize, "normal"
	if n.Font != nil {
		size, weight = n.Font.Size, n.Font.Weight()
	}
	baseline := n.Rect.MaxY() - n.Rect.H*descentRatio
	fmt.Fprintf(buf, `  <text id="%s" x="%s" y="%s" font-family="%s" font-size="%s" font-weight="%s" fill="%s"`,
		n.ID, num(n.Rect.X), num(baseline), fonts.FontFamily, num(size), weight, colorOr(n.Fill, "black"))
	if len(anims) == 0 {
		fmt.Fprintf(buf, ">%s</text>\n", escapeXML(n.Text))
		return
	}
	fmt.Fprintf(buf, ">%s\n", escapeXML(n.Text))
	for _, a := range anims {
		renderAnimate(buf, a)
	}
	buf.WriteString("  </text>\n")
}

func closeElement(buf *bytes.Buffer, tag string, anims []scene.Animation) {
	if len(anims) == 0 {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteString(">\n")
	for _, a := range anims {
		renderAnimate(buf, a)
	}
	fmt.Fprintf(buf, "  </%s>\n", tag)
}

func renderAnimate(buf *bytes.Buffer, a scene.Animation) {
	fmt.Fprintf(buf, `    <animate attributeName="%s" from="%s" to="%s" dur="%ss" fill="freeze"`,
		a.Property, num(a.From), num(a.To), num(a.Duration.Seconds()))
	if a.Easing == scene.EaseIn {
		fmt.Fprintf(buf, ` calcMode="spline" keyTimes="0;1" keySplines="%s"`, easeInSpline)
	}
	buf.WriteString("/>\n")
}

func colorOr(c *chart.Color, fallback string) string {
	if c == nil {
		return fallback
	}
	return c.Hex()
}

// num formats v with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
