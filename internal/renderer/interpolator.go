package renderer

import (
	"errors"
	"fmt"

	"github.com/ivlev/rewind2video/internal/easing"
)

var (
	ErrTooFewKeyframes    = errors.New("keyframe sequence needs at least 2 keyframes")
	ErrUnorderedKeyframes = errors.New("keyframe times must be non-decreasing")
)

// Extrapolation selects what happens outside the keyframe range.
type Extrapolation int

const (
	Clamp Extrapolation = iota
	Extend
	Identity
)

func (e Extrapolation) String() string {
	switch e {
	case Extend:
		return "extend"
	case Identity:
		return "identity"
	default:
		return "clamp"
	}
}

// Keyframe is a value pinned to a frame.
type Keyframe struct {
	Time  float64 `yaml:"time" json:"time"`
	Value float64 `yaml:"value" json:"value"`
}

// K builds a keyframe list from alternating time/value pairs.
func K(pairs ...float64) []Keyframe {
	keys := make([]Keyframe, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		keys = append(keys, Keyframe{Time: pairs[i], Value: pairs[i+1]})
	}
	return keys
}

// Sequence is an immutable, tempo-scaled keyframe list.
type Sequence struct {
	keys  []Keyframe
	tempo float64
}

// NewSequence validates keys and stretches every time by tempo.
func NewSequence(tempo float64, keys ...Keyframe) (*Sequence, error) {
	if err := checkTimes(len(keys), func(i int) float64 { return keys[i].Time }); err != nil {
		return nil, err
	}
	if tempo <= 0 {
		return nil, fmt.Errorf("tempo must be positive, got %g", tempo)
	}
	scaled := make([]Keyframe, len(keys))
	for i, k := range keys {
		scaled[i] = Keyframe{Time: k.Time * tempo, Value: k.Value}
	}
	return &Sequence{keys: scaled, tempo: tempo}, nil
}

func checkTimes(n int, at func(int) float64) error {
	if n < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewKeyframes, n)
	}
	for i := 1; i < n; i++ {
		if at(i) < at(i-1) {
			return fmt.Errorf("%w: %g after %g", ErrUnorderedKeyframes, at(i), at(i-1))
		}
	}
	return nil
}

// Keys returns a copy of the scaled keyframes.
func (s *Sequence) Keys() []Keyframe {
	return append([]Keyframe(nil), s.keys...)
}

func (s *Sequence) Tempo() float64 { return s.tempo }

// Start and End report the scaled time range.
func (s *Sequence) Start() float64 { return s.keys[0].Time }
func (s *Sequence) End() float64   { return s.keys[len(s.keys)-1].Time }

// At evaluates the sequence at frame.
func (s *Sequence) At(frame float64, ease easing.Func, left, right Extrapolation) float64 {
	if ease == nil {
		ease = easing.Smooth
	}
	first, last := s.keys[0], s.keys[len(s.keys)-1]

	if frame < first.Time {
		return extrapolate(frame, left, first, s.keys[1])
	}
	if frame > last.Time {
		return extrapolate(frame, right, last, s.keys[len(s.keys)-2])
	}
	if frame == last.Time {
		return last.Value
	}

	for i := 0; i < len(s.keys)-1; i++ {
		a, b := s.keys[i], s.keys[i+1]
		if frame >= a.Time && frame < b.Time {
			progress := (frame - a.Time) / (b.Time - a.Time)
			return lerp(a.Value, b.Value, ease(progress))
		}
	}
	return last.Value
}

// Interpolate evaluates seq at frame with the given easing and extrapolation.
func Interpolate(frame float64, seq *Sequence, ease easing.Func, left, right Extrapolation) float64 {
	return seq.At(frame, ease, left, right)
}

// extrapolate handles frames outside the range; edge is the boundary key and
// inner its neighbour, which together define the boundary slope.
func extrapolate(frame float64, mode Extrapolation, edge, inner Keyframe) float64 {
	switch mode {
	case Identity:
		return frame
	case Extend:
		dt := inner.Time - edge.Time
		if dt == 0 {
			return edge.Value
		}
		slope := (inner.Value - edge.Value) / dt
		return edge.Value + slope*(frame-edge.Time)
	default:
		return edge.Value
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
