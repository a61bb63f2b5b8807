// Package sink writes chart scenes in output formats.
//
// # Overview
//
// A sink takes a [scene.Scene] produced by [scene.Build] or [scene.Compute]
// and serializes it:
//
//   - SVG: vector output, optionally with SMIL entrance animations
//   - JSON: nodes and animation descriptors for external hosts
//   - PNG: the final frame rasterized with the embedded Go fonts
//   - PDF: print output via rsvg-convert
//   - HTML: an interactive ECharts page built from the view model
//
// # SVG Output
//
// [RenderSVG] draws every node in paint order. With [WithAnimation] the
// scene's animations are emitted as <animate> elements that play once on
// load and freeze on their final value:
//
//	svg := sink.RenderSVG(s, sink.WithAnimation())
//
// # PDF Output
//
// [RenderPDF] renders SVG first and converts it with [render.ToPDF], which
// requires librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// PNG output does not need librsvg; it is drawn directly with fogleman/gg.
//
// [render.ToPDF]: github.com/matzehuels/barchart/pkg/render.ToPDF
package sink
