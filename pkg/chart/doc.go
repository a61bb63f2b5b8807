// Package chart describes a single-series bar chart.
//
// A [ViewModel] holds the values, the category labels and every style knob
// (spacing, colors, fonts, y-axis steps, average overlay). It carries no
// geometry. Derived metrics such as [ViewModel.MaxValue],
// [ViewModel.Average] and [ViewModel.ScaledHeight] are computed on demand.
//
// Geometry is produced by the layout package, drawable scenes by the scene
// package and output files by the sink package:
//
//	vm := chart.New([]float64{10.4, 12.1, 5.6}, []string{"Mon", "Tue", "Wed"})
//	g := layout.Compute(vm, chart.Size{W: 350, H: 200}, measure.Default())
//	s := scene.Build(vm, g)
//	svg := sink.RenderSVG(s, sink.WithAnimation())
//
// Text measurement is the only host capability the engine needs; it is
// supplied through the [Measurer] interface.
package chart
