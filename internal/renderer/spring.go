package renderer

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
)

// SpringConfig describes a damped harmonic oscillator.
type SpringConfig struct {
	Damping   float64 `yaml:"damping"`
	Stiffness float64 `yaml:"stiffness"`
	Mass      float64 `yaml:"mass"`
}

// DefaultSpring is underdamped: it overshoots 1 once before settling.
func DefaultSpring() SpringConfig {
	return SpringConfig{Damping: 12, Stiffness: 80, Mass: 1.5}
}

func (c SpringConfig) Validate() error {
	if c.Mass <= 0 || c.Stiffness <= 0 {
		return fmt.Errorf("spring mass and stiffness must be positive, got mass=%g stiffness=%g", c.Mass, c.Stiffness)
	}
	if c.Damping < 0 {
		return fmt.Errorf("spring damping must not be negative, got %g", c.Damping)
	}
	return nil
}

// AngularFrequency is sqrt(k/m).
func (c SpringConfig) AngularFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.Mass)
}

// DampingRatio is c / (2*sqrt(k*m)); below 1 the spring bounces.
func (c SpringConfig) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// Spring returns the unit step response of cfg sampled at frame/fps seconds,
// starting at rest at 0. Frames at or before 0 yield 0.
func Spring(frame, fps int, cfg SpringConfig) float64 {
	if frame <= 0 || fps <= 0 {
		return 0
	}
	// harmonica solves the oscillator in closed form, so one step spanning the
	// whole elapsed time is exact.
	s := harmonica.NewSpring(float64(frame)/float64(fps), cfg.AngularFrequency(), cfg.DampingRatio())
	pos, _ := s.Update(0, 0, 1)
	return pos
}
