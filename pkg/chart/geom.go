package chart

import "math"

// Point is a position in user units (pixels for raster and SVG output).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Ceil rounds both dimensions up to whole pixels.
func (s Size) Ceil() Size { return Size{W: math.Ceil(s.W), H: math.Ceil(s.H)} }

// Empty reports whether the size has no drawable area.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis-aligned rectangle. Y grows downwards.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }
func (r Rect) MidX() float64 { return r.X + r.W/2 }
func (r Rect) MidY() float64 { return r.Y + r.H/2 }
func (r Rect) Size() Size    { return Size{W: r.W, H: r.H} }

// Alignment selects which anchor of a rect is placed on a point.
type Alignment int

const (
	AlignTopLeft Alignment = iota
	AlignTopCenter
	AlignTopRight
	AlignCenterLeft
	AlignCenter
	AlignCenterRight
	AlignBottomLeft
	AlignBottomCenter
	AlignBottomRight
)

// AlignedTo returns a rect of size s whose anchor a sits on p.
func AlignedTo(s Size, p Point, a Alignment) Rect {
	r := Rect{W: s.W, H: s.H}
	switch a % 3 {
	case 0:
		r.X = p.X
	case 1:
		r.X = p.X - s.W/2
	case 2:
		r.X = p.X - s.W
	}
	switch a / 3 {
	case 0:
		r.Y = p.Y
	case 1:
		r.Y = p.Y - s.H/2
	case 2:
		r.Y = p.Y - s.H
	}
	return r
}
