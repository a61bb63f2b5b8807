package chart

import (
	"math"

	"github.com/dustin/go-humanize"
)

// MaxValue returns the largest value, or 0 for an empty chart.
func (vm *ViewModel) MaxValue() float64 {
	if vm.Empty() {
		return 0
	}
	m := vm.Values[0]
	for _, v := range vm.Values[1:] {
		m = max(m, v)
	}
	return m
}

// Average returns the mean of the strictly positive values. Zero and
// negative entries count in neither the sum nor the divisor. ok is false
// when no value is positive.
//
// The mean is accumulated incrementally, so it stays finite for values
// near math.MaxFloat64.
func (vm *ViewModel) Average() (avg float64, ok bool) {
	if vm.Empty() {
		return 0, false
	}
	n := 0
	for _, v := range vm.Values {
		if v > 0 {
			n++
			avg += (v - avg) / float64(n)
		}
	}
	return avg, n > 0
}

// ScaledHeight maps value onto [0, maxHeight] proportionally to MaxValue,
// rounded to the nearest pixel. A non-positive maximum collapses every
// height to zero.
func (vm *ViewModel) ScaledHeight(value, maxHeight float64) float64 {
	m := vm.MaxValue()
	if m <= 0 || maxHeight <= 0 {
		return 0
	}
	return math.Max(0, math.Round(value/m*maxHeight))
}

// BarHeight is the scaled height of bar i. Indices outside Values give 0.
func (vm *ViewModel) BarHeight(i int, maxHeight float64) float64 {
	if vm == nil || i < 0 || i >= len(vm.Values) {
		return 0
	}
	return vm.ScaledHeight(vm.Values[i], maxHeight)
}

// YAxisTicks returns the values marked on the y axis, from 0 to MaxValue in
// YAxisSteps equal intervals. It is nil when steps are disabled or the
// chart has no positive maximum.
func (vm *ViewModel) YAxisTicks() []float64 {
	m := vm.MaxValue()
	if vm.Empty() || vm.YAxisSteps <= 0 || m <= 0 {
		return nil
	}
	ticks := make([]float64, vm.YAxisSteps+1)
	for k := range ticks {
		ticks[k] = m * float64(k) / float64(vm.YAxisSteps)
	}
	return ticks
}

// YAxisLabels returns the formatted text for each of YAxisTicks.
func (vm *ViewModel) YAxisLabels() []string {
	ticks := vm.YAxisTicks()
	if ticks == nil {
		return nil
	}
	labels := make([]string, len(ticks))
	for i, t := range ticks {
		labels[i] = FormatValue(t)
	}
	return labels
}

// FormatValue renders a value with at most one decimal digit.
func FormatValue(v float64) string {
	return humanize.FtoaWithDigits(v, 1)
}

// YAxisLabelsMaxSize returns the largest measured y-axis label.
func (vm *ViewModel) YAxisLabelsMaxSize(m Measurer) Size {
	return maxSize(m, vm.YAxisLabels(), vm.YAxisFont)
}

// XAxisLabelsMaxSize returns the largest measured x-axis label.
func (vm *ViewModel) XAxisLabelsMaxSize(m Measurer) Size {
	if vm.Empty() {
		return Size{}
	}
	return maxSize(m, vm.Labels, vm.XAxisFont)
}

func maxSize(m Measurer, labels []string, f Font) Size {
	var out Size
	if m == nil {
		return out
	}
	for _, l := range labels {
		s := m.Measure(l, f)
		out.W = max(out.W, s.W)
		out.H = max(out.H, s.H)
	}
	return out
}
