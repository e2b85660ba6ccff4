package effects

import (
	"fmt"

	"github.com/ivlev/rewind2video/internal/config"
	"github.com/ivlev/rewind2video/internal/director"
	"github.com/ivlev/rewind2video/internal/easing"
	"github.com/ivlev/rewind2video/internal/renderer"
	"github.com/ivlev/rewind2video/internal/source"
)

// State is the full visual state of one frame.
type State struct {
	Frame    int       `json:"frame"`
	Segment  int       `json:"segment"`
	Scene    string    `json:"scene"`
	Offset   int       `json:"offset"`
	Elements []Element `json:"elements"`
	Items    []Item    `json:"items,omitempty"`
}

// Overrun is a list item whose scaled start falls outside its segment.
type Overrun struct {
	Scene    string
	Segment  int
	Item     int
	Start    float64
	Duration int
}

func (o Overrun) String() string {
	return fmt.Sprintf("scene %s item %d starts at %.1f of %d frames", o.Scene, o.Item, o.Start, o.Duration)
}

// Composer maps global frames to scene states. It is immutable after
// construction and safe for concurrent use.
type Composer struct {
	timeline *director.Timeline
	fps      int
	tempo    float64
	effects  []Effect
	overruns []Overrun
}

// NewComposer validates cfg, compiles one scene per segment and rejects any
// malformed keyframe data up front.
func NewComposer(cfg config.Config, scenes []Scene) (*Composer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tl, err := director.NewTimeline(cfg.DurationInFrames, cfg.Segments, cfg.HoldPad)
	if err != nil {
		return nil, err
	}
	if len(scenes) != tl.Segments() {
		return nil, fmt.Errorf("%w: %d scenes for %d segments", config.ErrInvalid, len(scenes), tl.Segments())
	}
	mode, err := renderer.ParseColorMode(cfg.ColorMode)
	if err != nil {
		return nil, err
	}

	ease, err := easing.ByName(cfg.Easing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	opts := compileOptions{tempo: cfg.Tempo, mode: mode, spring: renderer.DefaultSpring(), ease: ease}

	c := &Composer{timeline: tl, fps: cfg.FPS, tempo: cfg.Tempo}
	for i, s := range scenes {
		cs, err := compileScene(s, opts)
		if err != nil {
			return nil, err
		}
		c.effects = append(c.effects, cs)

		if s.List == nil {
			continue
		}
		for item := 0; item < s.List.Limit; item++ {
			start := cfg.Tempo * float64(s.List.StartFrame(item))
			if start >= float64(tl.Length(i)) {
				c.overruns = append(c.overruns, Overrun{Scene: s.Name, Segment: i, Item: item, Start: start, Duration: tl.Length(i)})
			}
		}
	}
	return c, nil
}

func (c *Composer) Timeline() *director.Timeline { return c.timeline }

// StaggerOverruns lists list items that would never become visible.
func (c *Composer) StaggerOverruns() []Overrun {
	return append([]Overrun(nil), c.overruns...)
}

func (c *Composer) SceneNames() []string {
	names := make([]string, len(c.effects))
	for i, e := range c.effects {
		names[i] = e.Name()
	}
	return names
}

// Params resolves the segment parameters for a global frame.
func (c *Composer) Params(frame int) config.SegmentParams {
	idx, off := c.timeline.SegmentFor(frame)
	return config.SegmentParams{
		Index:    idx,
		Start:    c.timeline.Start(idx),
		Duration: c.timeline.Length(idx),
		Offset:   off,
		FPS:      c.fps,
		Tempo:    c.tempo,
	}
}

// Render computes the state of frame from scratch. A nil payload renders as
// an empty one.
func (c *Composer) Render(frame int, p *source.Payload) State {
	if p == nil {
		p = &source.Payload{}
	}
	sp := c.Params(frame)
	effect := c.effects[sp.Index]
	elements, items := effect.Render(sp, p)
	return State{
		Frame:    frame,
		Segment:  sp.Index,
		Scene:    effect.Name(),
		Offset:   sp.Offset,
		Elements: elements,
		Items:    items,
	}
}
