package measure

import (
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/barchart/pkg/chart"
)

// Cells measures text in terminal cells: one row high and as wide as the
// string's display width. Font size is ignored.
type Cells struct{}

func (Cells) Measure(text string, _ chart.Font) chart.Size {
	if text == "" {
		return chart.Size{}
	}
	return chart.Size{W: float64(runewidth.StringWidth(text)), H: 1}
}
