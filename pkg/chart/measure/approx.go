package measure

import (
	"unicode/utf8"

	"github.com/matzehuels/barchart/pkg/chart"
)

const (
	approxCharWidth  = 0.55
	approxLineHeight = 1.2
	approxBoldFactor = 1.06
)

// Approx estimates text extents from the rune count and font size. It needs
// no font files and is stable across platforms, which makes it the measurer
// of choice for tests and cache keys.
type Approx struct{}

func (Approx) Measure(text string, f chart.Font) chart.Size {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return chart.Size{}
	}
	w := float64(n) * f.Size * approxCharWidth
	if f.Bold {
		w *= approxBoldFactor
	}
	return chart.Size{W: w, H: f.Size * approxLineHeight}
}
