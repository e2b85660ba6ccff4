package effects

import (
	"math"

	"github.com/ivlev/rewind2video/internal/easing"
	"github.com/ivlev/rewind2video/internal/renderer"
)

// Builders used by the scene table.

func kf(p Prop, pairs ...float64) Channel {
	return Channel{Prop: p, Keys: renderer.K(pairs...)}
}

func konst(p Prop, v float64) Channel {
	return Channel{Prop: p, Const: v}
}

func float(p Prop, waves ...Wave) Channel {
	return Channel{Prop: p, Waves: waves}
}

func sprung(p Prop, d SpringDrive) Channel {
	return Channel{Prop: p, Spring: &d}
}

func (c Channel) ease(e easing.Func) Channel {
	c.Ease = e
	return c
}

func (c Channel) plus(w ...Wave) Channel {
	c.Waves = append(append([]Wave(nil), c.Waves...), w...)
	return c
}

func (c Channel) pulse(w ...Wave) Channel {
	c.Pulse = append(append([]Wave(nil), c.Pulse...), w...)
	return c
}

func (c Channel) mirror() Channel {
	c.Mirror = true
	return c
}

func (c Channel) perCount() Channel {
	c.PerCount = true
	return c
}

func (c Channel) round() Channel {
	c.Round = true
	return c
}

var inf = math.Inf(1)

// gain drives a property with gain*spring clamped to [lo, hi].
func gain(g, lo, hi float64) SpringDrive {
	return SpringDrive{Gain: g, Min: lo, Max: hi}
}

func (d SpringDrive) delay(frames int) SpringDrive {
	d.Delay = frames
	return d
}

func (d SpringDrive) bias(b float64) SpringDrive {
	d.Bias = b
	return d
}

func sin(amp, freq float64) Wave    { return Wave{Fn: Sin, Amp: amp, Freq: freq} }
func cos(amp, freq float64) Wave    { return Wave{Fn: Cos, Amp: amp, Freq: freq} }
func absSin(amp, freq float64) Wave { return Wave{Fn: AbsSin, Amp: amp, Freq: freq} }

func (w Wave) phase(p float64) Wave {
	w.Phase = p
	return w
}

func (w Wave) shift(s float64) Wave {
	w.Shift = s
	return w
}

func (w Wave) step(a float64) Wave {
	w.AmpStep = a
	return w
}
