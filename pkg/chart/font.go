package chart

import "fmt"

// DefaultFontFamily is used when a Font leaves Family empty.
const DefaultFontFamily = "Go"

// Font describes how a text run is drawn and measured.
type Font struct {
	Family string  `json:"family,omitempty" toml:"family" yaml:"family"`
	Size   float64 `json:"size" toml:"size" yaml:"size"`
	Bold   bool    `json:"bold,omitempty" toml:"bold" yaml:"bold"`
}

// Regular returns a non-bold font of the given point size.
func Regular(size float64) Font { return Font{Size: size} }

// BoldFont returns a bold font of the given point size.
func BoldFont(size float64) Font { return Font{Size: size, Bold: true} }

// FamilyOrDefault returns Family, falling back to DefaultFontFamily.
func (f Font) FamilyOrDefault() string {
	if f.Family == "" {
		return DefaultFontFamily
	}
	return f.Family
}

// Weight returns the CSS font-weight keyword.
func (f Font) Weight() string {
	if f.Bold {
		return "bold"
	}
	return "normal"
}

func (f Font) String() string {
	return fmt.Sprintf("%s %.1fpt %s", f.FamilyOrDefault(), f.Size, f.Weight())
}

// Measurer reports the rendered size of a string under a font. It is the
// only host capability the layout engine depends on.
type Measurer interface {
	Measure(text string, f Font) Size
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(text string, f Font) Size

func (fn MeasurerFunc) Measure(text string, f Font) Size { return fn(text, f) }
