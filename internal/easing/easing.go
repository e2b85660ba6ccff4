// Package easing maps normalised progress in [0,1] to eased progress.
//
// The four named curves are CSS-style cubic-bezier curves. Bounce, Elastic
// and Back overshoot 1 before settling, so callers must not assume the
// eased value stays inside [0,1].
package easing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// Func is an easing curve.
type Func func(float64) float64

var (
	Smooth  = Bezier(0.25, 0.1, 0.25, 1)
	Bounce  = Bezier(0.34, 1.56, 0.64, 1)
	Elastic = Bezier(0.16, 1.32, 0.68, 1.12)
	Back    = Bezier(0.175, 0.885, 0.32, 1.275)
)

// Linear returns progress unchanged.
func Linear(t float64) float64 {
	return t
}

var catalogue = map[string]Func{
	"smooth":       Smooth,
	"bounce":       Bounce,
	"elastic":      Elastic,
	"back":         Back,
	"linear":       Linear,
	"in-out-cubic": ease.InOutCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-quad":  ease.InOutQuad,
	"out-quad":     ease.OutQuad,
	"in-out-sine":  ease.InOutSine,
}

// ByName resolves a curve by its configuration name. An empty name is Smooth.
func ByName(name string) (Func, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Smooth, nil
	}
	fn, ok := catalogue[key]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Names lists the registered curve names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bezier returns a cubic-bezier curve through (0,0), (x1,y1), (x2,y2), (1,1),
// equivalent to CSS cubic-bezier().
func Bezier(x1, y1, x2, y2 float64) Func {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		for range 8 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, clampUnit(u))
			}
			dx := sampleDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Newton stalled; bisect inside the unit interval.
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 40 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}
		return sampleCurve(y1, y2, u)
	}
}

// sampleCurve evaluates one axis of the bezier with endpoints 0 and 1.
func sampleCurve(p1, p2, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*u*p1 + 3*inv*u*u*p2 + u*u*u
}

func sampleDerivative(p1, p2, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*p1 + 6*inv*u*(p2-p1) + 3*u*u*(1-p2)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
