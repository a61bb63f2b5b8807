package scene

import (
	"math"
	"time"

	"github.com/matzehuels/barchart/pkg/chart"
)

// Control points of the CSS ease-in curve, cubic-bezier(0.42, 0, 1, 1).
const (
	easeInX1, easeInY1 = 0.42, 0.0
	easeInX2, easeInY2 = 1.0, 1.0
)

// Apply maps linear progress t in [0, 1] through the timing curve.
func (e Easing) Apply(t float64) float64 {
	t = math.Min(1, math.Max(0, t))
	switch e {
	case EaseIn:
		return cubicBezier(t, easeInX1, easeInY1, easeInX2, easeInY2)
	default:
		return t
	}
}

// cubicBezier evaluates a CSS timing curve at x by bisecting its
// monotonic x polynomial.
func cubicBezier(x, x1, y1, x2, y2 float64) float64 {
	bez := func(u, p1, p2 float64) float64 {
		v := 1 - u
		return 3*v*v*u*p1 + 3*v*u*u*p2 + u*u*u
	}
	lo, hi := 0.0, 1.0
	for range 40 {
		mid := (lo + hi) / 2
		if bez(mid, x1, x2) < x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return bez((lo+hi)/2, y1, y2)
}

// Progress returns the eased completion of a at elapsed, in [0, 1].
func (a Animation) Progress(elapsed time.Duration) float64 {
	if a.Duration <= 0 || elapsed >= a.Duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return a.Easing.Apply(float64(elapsed) / float64(a.Duration))
}

// ValueAt returns the animated property value at elapsed.
func (a Animation) ValueAt(elapsed time.Duration) float64 {
	return a.From + (a.To-a.From)*a.Progress(elapsed)
}

// Frame is a scene as drawn at one instant of its entrance.
type Frame struct {
	Nodes []Node
	// Opacity holds the opacity of nodes that fade in. Nodes not listed
	// are fully opaque.
	Opacity map[string]float64
	// Done is true once every animation has finished.
	Done bool
}

// FrameAt applies the scene's animations at elapsed time since the
// entrance started. Animated nodes are copied; the scene is not modified.
// Scenes that should not animate can be drawn from FrameAt with any
// elapsed time past Duration.
func (s Scene) FrameAt(elapsed time.Duration) Frame {
	f := Frame{Nodes: make([]Node, len(s.Nodes)), Done: elapsed >= s.Duration()}
	index := make(map[string]int, len(s.Nodes))
	for i, n := range s.Nodes {
		f.Nodes[i] = n
		index[n.ID] = i
	}

	for _, a := range s.Animations {
		i, ok := index[a.Target]
		if !ok {
			continue
		}
		n := &f.Nodes[i]
		v := a.ValueAt(elapsed)
		switch a.Property {
		case PropY:
			n.Rect.Y = v
		case PropHeight:
			n.Rect.H = v
		case PropX2:
			if len(n.Points) == 2 {
				pts := append([]chart.Point(nil), n.Points...)
				pts[1].X = v
				n.Points = pts
				n.Rect.W = v - n.Rect.X
			}
		case PropOpacity:
			if f.Opacity == nil {
				f.Opacity = make(map[string]float64)
			}
			f.Opacity[a.Target] = v
		}
	}
	return f
}

// Duration returns the time until the last animation ends.
func (s Scene) Duration() time.Duration {
	var d time.Duration
	for _, a := range s.Animations {
		d = max(d, a.Duration)
	}
	return d
}
