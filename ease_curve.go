package twig

import (
	"slices"

	"github.com/charmbracelet/harmonica"
	gease "github.com/tanema/gween/ease"
)

// EaseFunction is a user supplied ease. It receives the elapsed time within
// the current cycle, the cycle duration and the tween's overshoot/amplitude
// and period, and returns the eased progress (usually 0 at the start and 1 at
// the end, but custom curves are free to do otherwise).
type EaseFunction func(time, duration, overshootOrAmplitude, period float64) float64

// EaseFromNormalized adapts a function over normalized time [0, 1], such as
// the functions in github.com/fogleman/ease.
func EaseFromNormalized(fn func(t float64) float64) EaseFunction {
	return func(time, duration, _, _ float64) float64 {
		if duration <= 0 {
			return fn(1)
		}
		return fn(time / duration)
	}
}

// EaseFromGween adapts a github.com/tanema/gween/ease function.
func EaseFromGween(fn gease.TweenFunc) EaseFunction {
	return func(time, duration, _, _ float64) float64 {
		if duration <= 0 {
			return 1
		}
		return float64(fn(float32(time), 0, 1, float32(duration)))
	}
}

// Keyframe is one control point of a Curve. Time and Value are normalized;
// the tangents are slopes in value per unit of normalized time.
type Keyframe struct {
	Time       float64
	Value      float64
	InTangent  float64
	OutTangent float64
}

// Curve is a keyframed ease evaluated with cubic Hermite segments. Outside
// its first and last keys it holds the boundary values.
type Curve struct {
	keys []Keyframe
}

// NewCurve returns a curve through keys. Keys are sorted by time; keys
// sharing a time keep their given order.
func NewCurve(keys ...Keyframe) *Curve {
	k := slices.Clone(keys)
	slices.SortStableFunc(k, func(a, b Keyframe) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return &Curve{keys: k}
}

// Evaluate returns the curve value at normalized time t.
func (c *Curve) Evaluate(t float64) float64 {
	n := len(c.keys)
	switch {
	case n == 0:
		return t
	case t <= c.keys[0].Time:
		return c.keys[0].Value
	case t >= c.keys[n-1].Time:
		return c.keys[n-1].Value
	}
	i := 1
	for c.keys[i].Time < t {
		i++
	}
	k0, k1 := c.keys[i-1], c.keys[i]
	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}

// Ease returns the curve as an EaseFunction.
func (c *Curve) Ease() EaseFunction {
	return func(time, duration, _, _ float64) float64 {
		if duration <= 0 {
			return c.Evaluate(1)
		}
		return c.Evaluate(time / duration)
	}
}

const springSamples = 240

// SpringEase returns an ease that follows a damped spring pulled from 0 to 1
// over one normalized second. frequency is the angular frequency; damping
// below 1 overshoots and wobbles, 1 is critically damped. The curve is
// sampled once, so evaluating it does not simulate anything. It always lands
// on 1 at the end of the cycle, so pick a frequency that settles in time.
func SpringEase(frequency, damping float64) EaseFunction {
	spring := harmonica.NewSpring(1/float64(springSamples-1), frequency, damping)
	lut := make([]float64, springSamples)
	var pos, vel float64
	for i := 1; i < springSamples; i++ {
		pos, vel = spring.Update(pos, vel, 1)
		lut[i] = pos
	}
	return func(time, duration, _, _ float64) float64 {
		if duration <= 0 || time >= duration {
			return 1
		}
		if time <= 0 {
			return 0
		}
		f := time / duration * float64(springSamples-1)
		i := int(f)
		frac := f - float64(i)
		return lut[i] + (lut[i+1]-lut[i])*frac
	}
}
