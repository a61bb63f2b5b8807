// Package pkg provides the libraries behind barchart, a bar chart layout and
// animation engine.
//
// # Overview
//
// Barchart turns a declarative chart description (values, labels and style)
// into placed rectangles, axis labels and an average line, plus the entrance
// animations that bring them in. The pkg directory is organized as follows:
//
//  1. [chart] - Domain model (view model, geometry, colors, fonts)
//  2. [chart/layout] - Pure geometry computation
//  3. [chart/scene] - Drawable nodes and animations built from geometry
//  4. [chart/sink] - Output formats (SVG, PNG, PDF, JSON, HTML)
//  5. [pipeline] - Orchestration (validate → layout → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	Chart file (TOML/YAML/JSON)
//	         ↓
//	    [io] package (decode over the default style)
//	         ↓
//	    [chart/layout] package (geometry inside the container bounds)
//	         ↓
//	    [chart/scene] package (nodes in paint order + animations)
//	         ↓
//	    [chart/sink] package (SVG/PNG/PDF/JSON/HTML)
//
// [chart/view] wraps the same steps for interactive hosts: it memoizes the
// geometry and tags each scene with why it was produced (enter, reflow or
// none).
//
// # Quick Start
//
//	vm := chart.New([]float64{10.4, 12.1, 5.6}, []string{"Mon", "Tue", "Wed"})
//	s := scene.Compute(vm, chart.Size{W: 350, H: 212}, measure.Default())
//	svg := sink.RenderSVG(s, sink.WithAnimation())
//
// # Supporting Packages
//
// [chart/measure] - Text measurers: font metrics, a fast approximation and
// terminal cells.
//
// [cache] - Content-addressed storage for scenes and artifacts, with file
// (lz4-compressed), Redis and no-op backends.
//
// [errors] - Coded errors and boundary validation shared by the CLI and the
// HTTP server.
//
// [observability] - Hooks for pipeline, cache and server events, with a
// Prometheus implementation.
//
// [render] - SVG to PDF conversion through librsvg.
//
// [fonts] - The embedded Go font family used for measuring and rasterizing.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/chart/...      # Layout, scene and sinks
//	go test -run Example ./...   # Examples only
//
// [chart]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/chart
// [chart/layout]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/chart/layout
// [chart/scene]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/chart/scene
// [chart/sink]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/chart/sink
// [chart/view]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/chart/view
// [chart/measure]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/chart/measure
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/render
// [fonts]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/barchart/pkg/buildinfo
package pkg
