package effects

import (
	"fmt"
	"math"

	"github.com/ivlev/rewind2video/internal/easing"
	"github.com/ivlev/rewind2video/internal/renderer"
)

// Prop names an animated visual property.
type Prop string

const (
	Opacity       Prop = "opacity"
	X             Prop = "x"
	Y             Prop = "y"
	Rotation      Prop = "rotation"
	Scale         Prop = "scale"
	ShadowBlur    Prop = "shadow-blur"
	ShadowOpacity Prop = "shadow-opacity"
	ShadowY       Prop = "shadow-y"
	Brightness    Prop = "brightness"
	BorderOpacity Prop = "border-opacity"
	Count         Prop = "count"
	Gradient      Prop = "gradient"
	Radius        Prop = "radius"
)

// WaveFn is the periodic function behind an ambient wave.
type WaveFn int

const (
	Sin WaveFn = iota
	Cos
	AbsSin
)

// Wave is a continuous oscillation layered over keyframe or spring motion:
// (Amp + AmpStep*i) * fn(Freq * (offset + Phase*i + Shift)) for item i.
type Wave struct {
	Fn      WaveFn
	Amp     float64
	AmpStep float64
	Freq    float64
	Phase   float64
	Shift   float64
}

func (w Wave) at(offset float64, index int) float64 {
	amp := w.Amp + w.AmpStep*float64(index)
	arg := w.Freq * (offset + w.Phase*float64(index) + w.Shift)
	switch w.Fn {
	case Cos:
		return amp * math.Cos(arg)
	case AbsSin:
		return amp * math.Abs(math.Sin(arg))
	default:
		return amp * math.Sin(arg)
	}
}

// SpringDrive maps the shared spring onto a property:
// clamp(Min, Max, Bias + Gain*spring(frame - Delay)).
type SpringDrive struct {
	Delay int
	Gain  float64
	Bias  float64
	Min   float64
	Max   float64
}

// Channel animates one property of an element. The value starts at Const,
// is replaced by the keyframe value when Keys are set and by the spring when
// Spring is set. Waves are then added and Pulse waves scale the result by
// (1 + sum).
type Channel struct {
	Prop   Prop
	Const  float64
	Keys   []renderer.Keyframe
	Ease   easing.Func
	Left   renderer.Extrapolation
	Right  renderer.Extrapolation
	Spring *SpringDrive
	Waves  []Wave
	Pulse  []Wave

	// Mirror negates keyframe values for odd list items.
	Mirror bool
	// PerCount multiplies keyframe values by the entry's count.
	PerCount bool
	Round    bool
}

type compiledChannel struct {
	Channel
	seq *renderer.Sequence
}

func compileChannel(c Channel, tempo float64, fallback easing.Func) (compiledChannel, error) {
	cc := compiledChannel{Channel: c}
	if cc.Ease == nil {
		cc.Ease = fallback
	}
	if len(c.Keys) > 0 {
		seq, err := renderer.NewSequence(tempo, c.Keys...)
		if err != nil {
			return cc, fmt.Errorf("%s: %w", c.Prop, err)
		}
		cc.seq = seq
	}
	if s := c.Spring; s != nil && s.Min > s.Max {
		return cc, fmt.Errorf("%s: spring range [%g, %g] is empty", c.Prop, s.Min, s.Max)
	}
	return cc, nil
}

// clock carries the frame positions a channel is evaluated against.
type clock struct {
	offset float64 // segment-local frame, drives waves
	local  float64 // keyframe time, already shifted by the item's scaled start
	spring int     // spring frame, shifted by the item's unscaled start
	index  int
	count  int
	fps    int
	spr    renderer.SpringConfig
}

func (c compiledChannel) eval(t clock) float64 {
	v := c.Const
	if c.seq != nil {
		v = c.seq.At(t.local, c.Ease, c.Left, c.Right)
		if c.Mirror && t.index%2 == 1 {
			v = -v
		}
		if c.PerCount {
			v *= float64(t.count)
		}
	}
	if s := c.Spring; s != nil {
		raw := renderer.Spring(t.spring-s.Delay, t.fps, t.spr)
		v = math.Max(s.Min, math.Min(s.Max, s.Bias+s.Gain*raw))
	}
	for _, w := range c.Waves {
		v += w.at(t.offset, t.index)
	}
	if len(c.Pulse) > 0 {
		mul := 1.0
		for _, w := range c.Pulse {
			mul += w.at(t.offset, t.index)
		}
		v *= mul
	}
	if c.Round {
		v = math.Round(v)
	}
	return v
}
