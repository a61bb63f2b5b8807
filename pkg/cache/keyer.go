package cache

// Keyer derives cache keys.
type Keyer interface {
	// SceneKey is the key of a computed scene for a chart.
	SceneKey(chartHash string, opts SceneKeyOpts) string
	// ArtifactKey is the key of one rendered output format for a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts are the inputs besides the chart that change a scene.
type SceneKeyOpts struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Measurer string  `json:"measurer"`
}

// ArtifactKeyOpts are the sink options that change rendered bytes.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Animate bool    `json:"animate,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SceneKey(chartHash string, opts SceneKeyOpts) string {
	return hashKey("scene", chartHash, opts)
}

func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, sceneHash, opts)
}
