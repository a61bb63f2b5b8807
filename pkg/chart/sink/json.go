package sink

import (
	"encoding/json"

	"github.com/matzehuels/barchart/pkg/chart/layout"
	"github.com/matzehuels/barchart/pkg/chart/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	geometry *layout.Geometry
	compact  bool
}

// WithJSONGeometry embeds the computed geometry alongside the scene, for
// hosts that do their own drawing.
func WithJSONGeometry(g layout.Geometry) JSONOption {
	return func(r *jsonRenderer) { r.geometry = &g }
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	scene.Scene
	Geometry *layout.Geometry `json:"geometry,omitempty"`
}

// RenderJSON exports the scene as a JSON document. Animation durations are
// written in seconds.
func RenderJSON(s scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{Scene: s, Geometry: r.geometry}
	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
