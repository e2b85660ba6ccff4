package effects

import (
	"fmt"

	"github.com/ivlev/rewind2video/internal/config"
	"github.com/ivlev/rewind2video/internal/easing"
	"github.com/ivlev/rewind2video/internal/renderer"
	"github.com/ivlev/rewind2video/internal/source"
)

// Entry is one row of a list scene.
type Entry struct {
	Name     string
	Subtitle string
	Image    string
	Count    int
}

// TextFunc pulls a string for an element out of the payload. For list items
// e is the item's entry; otherwise it is the zero Entry.
type TextFunc func(p *source.Payload, e Entry) string

type ElementSpec struct {
	ID        string
	Text      TextFunc
	Src       TextFunc
	Color     string
	ColorKeys []renderer.ColorKeyframe
	ColorEase easing.Func
	Shadow    string
	Channels  []Channel
}

// ListSpec staggers up to Limit entries: entry i starts Delay + i*Stride
// frames into the segment, before tempo scaling.
type ListSpec struct {
	Entries  func(p *source.Payload) []Entry
	Limit    int
	Delay    int
	Stride   int
	Elements []ElementSpec
}

// StartFrame is the unscaled local start of item i.
func (l *ListSpec) StartFrame(i int) int {
	return l.Delay + i*l.Stride
}

// Scene is the declarative description of one timeline segment.
type Scene struct {
	Name     string
	Elements []ElementSpec
	List     *ListSpec
}

// Element is the resolved state of one visual element on one frame.
type Element struct {
	ID          string             `json:"id"`
	Text        string             `json:"text,omitempty"`
	Src         string             `json:"src,omitempty"`
	Color       string             `json:"color,omitempty"`
	ShadowColor string             `json:"shadowColor,omitempty"`
	Props       map[string]float64 `json:"props"`
}

// Item groups the elements of one list entry.
type Item struct {
	Index    int       `json:"index"`
	Start    int       `json:"start"`
	Elements []Element `json:"elements"`
}

// Effect renders the elements of one segment.
type Effect interface {
	Name() string
	Render(sp config.SegmentParams, p *source.Payload) ([]Element, []Item)
}

type compiledElement struct {
	spec      ElementSpec
	color     string
	shadow    string
	colorSeq  *renderer.ColorSequence
	colorEase easing.Func
	channels  []compiledChannel
}

type compiledScene struct {
	name     string
	elements []compiledElement
	list     *ListSpec
	items    []compiledElement
	spring   renderer.SpringConfig
}

// compileOptions carries the composition-wide settings every scene is
// compiled against. ease applies to channels that name no curve.
type compileOptions struct {
	tempo  float64
	mode   renderer.ColorMode
	spring renderer.SpringConfig
	ease   easing.Func
}

func compileScene(s Scene, o compileOptions) (*compiledScene, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("scene without a name")
	}
	cs := &compiledScene{name: s.Name, list: s.List, spring: o.spring}

	var err error
	if cs.elements, err = compileElements(s.Elements, o); err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	if s.List != nil {
		switch {
		case s.List.Entries == nil:
			return nil, fmt.Errorf("scene %s: list has no entry source", s.Name)
		case s.List.Limit <= 0:
			return nil, fmt.Errorf("scene %s: list limit must be positive, got %d", s.Name, s.List.Limit)
		case s.List.Delay < 0 || s.List.Stride < 0:
			return nil, fmt.Errorf("scene %s: negative stagger %d/%d", s.Name, s.List.Delay, s.List.Stride)
		}
		if cs.items, err = compileElements(s.List.Elements, o); err != nil {
			return nil, fmt.Errorf("scene %s: list: %w", s.Name, err)
		}
	}
	return cs, nil
}

func compileElements(specs []ElementSpec, o compileOptions) ([]compiledElement, error) {
	out := make([]compiledElement, 0, len(specs))
	for _, spec := range specs {
		ce := compiledElement{spec: spec, colorEase: spec.ColorEase}
		if ce.colorEase == nil {
			ce.colorEase = o.ease
		}
		var err error
		if spec.Color != "" {
			if ce.color, err = renderer.ResolveColor(spec.Color); err != nil {
				return nil, fmt.Errorf("element %s: %w", spec.ID, err)
			}
		}
		if spec.Shadow != "" {
			if ce.shadow, err = renderer.ResolveColor(spec.Shadow); err != nil {
				return nil, fmt.Errorf("element %s: %w", spec.ID, err)
			}
		}
		if len(spec.ColorKeys) > 0 {
			if ce.colorSeq, err = renderer.NewColorSequence(o.tempo, o.mode, spec.ColorKeys...); err != nil {
				return nil, fmt.Errorf("element %s: color: %w", spec.ID, err)
			}
		}

		seen := make(map[Prop]bool, len(spec.Channels))
		for _, ch := range spec.Channels {
			if seen[ch.Prop] {
				return nil, fmt.Errorf("element %s: %s animated twice", spec.ID, ch.Prop)
			}
			seen[ch.Prop] = true
			cc, err := compileChannel(ch, o.tempo, o.ease)
			if err != nil {
				return nil, fmt.Errorf("element %s: %w", spec.ID, err)
			}
			ce.channels = append(ce.channels, cc)
		}
		out = append(out, ce)
	}
	return out, nil
}

func (s *compiledScene) Name() string { return s.name }

func (s *compiledScene) Render(sp config.SegmentParams, p *source.Payload) ([]Element, []Item) {
	base := clock{
		offset: float64(sp.Offset),
		local:  float64(sp.Offset),
		spring: sp.Offset,
		fps:    sp.FPS,
		spr:    s.spring,
	}

	elements := make([]Element, 0, len(s.elements))
	for _, e := range s.elements {
		elements = append(elements, e.render(p, Entry{}, base))
	}
	if s.list == nil {
		return elements, nil
	}

	entries := s.list.Entries(p)
	n := min(len(entries), s.list.Limit)
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		start := s.list.StartFrame(i)
		t := base
		t.local = float64(sp.Offset) - sp.Tempo*float64(start)
		t.spring = sp.Offset - start
		t.index = i
		t.count = entries[i].Count

		item := Item{Index: i, Start: start, Elements: make([]Element, 0, len(s.items))}
		for _, e := range s.items {
			item.Elements = append(item.Elements, e.render(p, entries[i], t))
		}
		items = append(items, item)
	}
	return elements, items
}

func (e compiledElement) render(p *source.Payload, entry Entry, t clock) Element {
	el := Element{
		ID:          e.spec.ID,
		Color:       e.color,
		ShadowColor: e.shadow,
		Props:       make(map[string]float64, len(e.channels)),
	}
	if e.spec.Text != nil {
		el.Text = e.spec.Text(p, entry)
	}
	if e.spec.Src != nil {
		el.Src = e.spec.Src(p, entry)
	}
	if e.colorSeq != nil {
		el.Color = e.colorSeq.At(t.local, e.colorEase)
	}
	for _, ch := range e.channels {
		el.Props[string(ch.Prop)] = ch.eval(t)
	}
	return el
}
