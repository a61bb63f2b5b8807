package chart

// Spacing holds independent insets for the four sides of a rectangle.
type Spacing struct {
	Left   float64 `json:"left" toml:"left" yaml:"left"`
	Right  float64 `json:"right" toml:"right" yaml:"right"`
	Top    float64 `json:"top" toml:"top" yaml:"top"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom"`
}

// Uniform returns a Spacing with every side set to v.
func Uniform(v float64) Spacing {
	return Spacing{Left: v, Right: v, Top: v, Bottom: v}
}

// Horizontal returns Left + Right.
func (s Spacing) Horizontal() float64 { return s.Left + s.Right }

// Vertical returns Top + Bottom.
func (s Spacing) Vertical() float64 { return s.Top + s.Bottom }
