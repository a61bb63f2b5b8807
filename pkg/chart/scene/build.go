package scene

import (
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
)

// Build turns computed geometry into a scene. It is pure: the same inputs
// always produce the same scene, and a full scene is rebuilt on every call.
// The returned scene has TransitionNone; callers that track render history
// set Transition themselves.
func Build(vm *chart.ViewModel, g layout.Geometry) Scene {
	s := Scene{Width: g.Bounds.W, Height: g.Bounds.H}
	if vm == nil || g.Empty() {
		return s
	}
	s.Title = vm.Title

	b := builder{vm: vm, g: g, scene: &s}
	b.box()
	b.bars()
	b.ticks()
	b.labels()
	b.average()
	return s
}

type builder struct {
	vm    *chart.ViewModel
	g     layout.Geometry
	scene *Scene
}

func (b *builder) add(n Node, anims ...Animation) {
	b.scene.Nodes = append(b.scene.Nodes, n)
	b.scene.Animations = append(b.scene.Animations, anims...)
}

func (b *builder) box() {
	box := b.g.Box
	right := box.MaxX() - b.vm.BoxLineWidth
	pts := []chart.Point{
		{X: box.X, Y: box.Y},
		{X: box.X, Y: box.MaxY()},
		{X: right, Y: box.MaxY()},
		{X: right, Y: box.Y},
	}
	stroke := b.vm.BoxColor
	b.add(Node{
		ID:        BoxID,
		Kind:      KindBox,
		Rect:      box,
		Points:    pts,
		Closed:    !b.vm.OpenBox(),
		Stroke:    &stroke,
		LineWidth: b.vm.BoxLineWidth,
	})
}

func (b *builder) bars() {
	fill := b.vm.BarColor
	for _, bar := range b.g.Bars {
		id := BarID(bar.Index)
		b.add(Node{ID: id, Kind: KindBar, Rect: bar.Rect, Fill: &fill},
			Animation{
				Target:        id,
				Property:      PropY,
				From:          b.g.Baseline,
				To:            bar.Rect.Y,
				Duration:      BarsDuration,
				Easing:        EaseIn,
				FillBackwards: true,
			},
			Animation{
				Target:        id,
				Property:      PropHeight,
				From:          0,
				To:            bar.Rect.H,
				Duration:      BarsDuration,
				Easing:        EaseIn,
				FillBackwards: true,
			},
		)
	}
}

func (b *builder) ticks() {
	font := b.vm.YAxisFont
	fill := b.vm.LabelColor
	for i, t := range b.g.Ticks {
		b.add(Node{ID: TickID(i), Kind: KindTick, Rect: t.Label.Rect, Text: t.Label.Text, Font: &font, Fill: &fill})
	}
}

func (b *builder) labels() {
	font := b.vm.XAxisFont
	fill := b.vm.LabelColor
	for i, l := range b.g.Labels {
		b.add(Node{ID: LabelID(i), Kind: KindLabel, Rect: l.Rect, Text: l.Text, Font: &font, Fill: &fill})
	}
}

func (b *builder) average() {
	avg := b.g.Average
	if avg == nil {
		return
	}
	color := b.vm.AverageColor
	b.add(Node{
		ID:        AverageLineID,
		Kind:      KindAverageLine,
		Rect:      chart.Rect{X: avg.X1, Y: avg.Y, W: avg.X2 - avg.X1},
		Points:    []chart.Point{{X: avg.X1, Y: avg.Y}, {X: avg.X2, Y: avg.Y}},
		Stroke:    &color,
		LineWidth: averageLineWidth,
	}, Animation{
		Target:        AverageLineID,
		Property:      PropX2,
		From:          avg.X1,
		To:            avg.X2,
		Duration:      AverageDuration,
		Easing:        EaseIn,
		FillBackwards: true,
	})

	font := b.vm.AverageFont
	b.add(Node{
		ID:   AverageLabelID,
		Kind: KindAverageLabel,
		Rect: avg.Label.Rect,
		Text: avg.Label.Text,
		Font: &font,
		Fill: &color,
	}, Animation{
		Target:        AverageLabelID,
		Property:      PropOpacity,
		From:          0,
		To:            1,
		Duration:      AverageDuration,
		Easing:        EaseIn,
		FillBackwards: true,
	})
}
