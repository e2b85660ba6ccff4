package director

// Manifest describes a rendered composition for the external painter.
type Manifest struct {
	Version          string    `yaml:"version" json:"version"`
	Width            int       `yaml:"width" json:"width"`
	Height           int       `yaml:"height" json:"height"`
	FPS              int       `yaml:"fps" json:"fps"`
	DurationInFrames int       `yaml:"duration_in_frames" json:"durationInFrames"`
	Tempo            float64   `yaml:"tempo" json:"tempo"`
	Song             string    `yaml:"song" json:"song"`
	Segments         []Segment `yaml:"segments" json:"segments"`
}

// Segment is one timeline window and the scene it shows.
type Segment struct {
	Index    int    `yaml:"index" json:"index"`
	Scene    string `yaml:"scene" json:"scene"`
	Start    int    `yaml:"start" json:"start"`
	Duration int    `yaml:"duration" json:"duration"`
}

// Describe lists every segment of t, naming each after scenes[i] when given.
func (t *Timeline) Describe(scenes []string) []Segment {
	segs := make([]Segment, t.segments)
	for i := range segs {
		segs[i] = Segment{Index: i, Start: t.Start(i), Duration: t.Length(i)}
		if i < len(scenes) {
			segs[i].Scene = scenes[i]
		}
	}
	return segs
}
