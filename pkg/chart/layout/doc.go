// Package layout computes bar-chart geometry.
//
// [Compute] takes a [chart.ViewModel], the container size and a
// [chart.Measurer] and returns a [Geometry]: the plot box, one rectangle per
// bar, x-axis label rectangles, optional y-axis ticks and the average line.
//
// # Algorithm
//
//  1. Reserve the widest y-axis label on the left and the tallest x-axis
//     label at the bottom (both rounded up to whole pixels).
//  2. Shrink the container by those reservations and the margins to get
//     the plot box.
//  3. Give every bar the same floored width; leftover pixels become
//     whitespace on the right.
//  4. Scale heights against the maximum value and the box height minus the
//     top padding, rounded to the nearest pixel. Bars grow up from the
//     baseline, which sits one box line width above the box bottom.
//  5. Center each label under its bar when there is one label per bar.
//     Otherwise spread labels at a uniform stride across the inner width.
//  6. Place the average of the positive values as a horizontal line.
//
// A maximum of zero collapses every bar to zero height and suppresses the
// average line. Compute never fails; unusable input draws nothing.
package layout
