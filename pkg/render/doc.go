// Package render converts SVG documents to PDF.
//
// [ToPDF] pipes the document through rsvg-convert from librsvg. Raster
// output does not come through here: the PNG sink draws the scene itself.
//
//	svg := sink.RenderSVG(s)
//	pdf, err := render.ToPDF(ctx, svg)
//
// Install librsvg with:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// When the tool is missing, ToPDF fails with an UNSUPPORTED error. [Available]
// lets callers check up front.
package render
