// Package scene turns chart geometry into drawable nodes and declarative
// entrance animations.
//
// A [Scene] lists [Node] values in paint order (box outline, bars, y-axis
// ticks, x-axis labels, average line, average caption) and the [Animation]
// descriptors that bring them in:
//
//   - bars grow from the baseline (y and height, ease-in, 0.2s)
//   - the average line wipes in from the left (x2, ease-in, 0.2s)
//   - the average caption fades in (opacity, ease-in, 0.2s)
//
// Nodes always hold their final state, so a host that skips animations (for
// example on a bounds-only reflow, see [Transition]) still draws the right
// picture. Scenes are rebuilt from scratch; there is no diffing.
package scene
