// Package fonts provides font faces for measuring and rasterizing chart
// text.
//
// The Go font family (golang.org/x/image/font/gofont) is compiled into the
// binary, so measurement and PNG output work without system fonts. Parsed
// fonts are cached for the life of the process; faces are not, because a
// font.Face is not safe for concurrent use.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/barchart/pkg/chart"
)

// DPI is the resolution faces are created at. At 72 DPI one point is one
// pixel, matching the layout engine's units.
const DPI = 72

// FontFamily is the CSS font-family written into SVG output.
const FontFamily = "'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif"

var (
	parseOnce sync.Once
	regular   *opentype.Font
	bold      *opentype.Font
	parseErr  error
)

func parse() {
	regular, parseErr = opentype.Parse(goregular.TTF)
	if parseErr != nil {
		return
	}
	bold, parseErr = opentype.Parse(gobold.TTF)
}

// Face returns a new face for f at DPI. The Family field is ignored; every
// family resolves to Go Regular or Go Bold. The caller owns the face.
func Face(f chart.Font) (font.Face, error) {
	if f.Size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", f.Size)
	}
	parseOnce.Do(parse)
	if parseErr != nil {
		return nil, fmt.Errorf("parse embedded font: %w", parseErr)
	}

	src := regular
	if f.Bold {
		src = bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s: %w", f, err)
	}
	return face, nil
}
