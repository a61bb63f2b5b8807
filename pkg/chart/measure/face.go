package measure

import (
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/fonts"
)

// Face measures text with the embedded Go fonts rasterized at 72 DPI, so one
// point equals one pixel. Faces are built once per (size, weight) and shared
// by every Face value. It is safe for concurrent use.
type Face struct {
	// Fallback is used if a face cannot be loaded. Defaults to Approx.
	Fallback chart.Measurer
}

func (m Face) Measure(text string, f chart.Font) chart.Size {
	if text == "" {
		return chart.Size{}
	}
	sf, err := cachedFace(f)
	if err != nil {
		log.Debug("font face unavailable, estimating", "font", f, "err", err)
		return m.fallback().Measure(text, f)
	}
	sf.mu.Lock()
	defer sf.mu.Unlock()
	adv := font.MeasureString(sf.face, text)
	return chart.Size{
		W: fixedToFloat(adv),
		H: fixedToFloat(sf.face.Metrics().Height),
	}
}

func (m Face) fallback() chart.Measurer {
	if m.Fallback != nil {
		return m.Fallback
	}
	return Approx{}
}

// faceKey identifies a face; the family is ignored like in fonts.Face.
type faceKey struct {
	size float64
	bold bool
}

// sharedFace guards a face, which is not safe for concurrent use.
type sharedFace struct {
	mu   sync.Mutex
	face font.Face
}

var (
	facesMu sync.Mutex
	faces   = map[faceKey]*sharedFace{}
)

func cachedFace(f chart.Font) (*sharedFace, error) {
	key := faceKey{size: f.Size, bold: f.Bold}
	facesMu.Lock()
	defer facesMu.Unlock()
	if sf, ok := faces[key]; ok {
		return sf, nil
	}
	face, err := fonts.Face(f)
	if err != nil {
		return nil, err
	}
	sf := &sharedFace{face: face}
	faces[key] = sf
	return sf, nil
}

// Default returns the measurer used when callers do not supply one.
func Default() chart.Measurer { return Face{} }
