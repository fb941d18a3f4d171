package twig

import "math"

// ArrayOptions configures multi-point Vec3 tweens.
type ArrayOptions struct {
	// Durations holds the duration of each segment, one per end value.
	// Their sum is the tween's duration.
	Durations []float64
	Axis      AxisConstraint
	Snapping  bool

	// offsets makes every end value an offset from the start value
	// instead of an absolute point (punch and shake).
	offsets []Vec3
}

// ArrayTween tweens a Vec3 through a list of points, one segment each.
type ArrayTween = TweenerCore[Vec3, []Vec3, ArrayOptions]

// ArrayPlugin interpolates a Vec3 through consecutive points, easing each
// segment on its own.
type ArrayPlugin struct{}

// ConvertToStartValue builds the start value of every segment: the property
// value for the first, the end of the previous segment for the others.
func (ArrayPlugin) ConvertToStartValue(t *ArrayTween, value Vec3) []Vec3 {
	if t.Options.offsets != nil {
		for i, o := range t.Options.offsets {
			t.EndValue[i] = value.add(o)
		}
	}
	res := make([]Vec3, len(t.EndValue))
	for i := range res {
		if i == 0 {
			res[i] = value
		} else {
			res[i] = t.EndValue[i-1]
		}
	}
	return res
}

// SetFrom is not supported by arrays: the tween plays as created.
func (ArrayPlugin) SetFrom(*ArrayTween, bool) {}

// SetFromValue is not supported by arrays: the tween plays as created.
func (ArrayPlugin) SetFromValue(*ArrayTween, []Vec3, bool, bool) {}

// SetRelativeEndValue chains the points: each end value becomes an offset
// from the previous point.
func (ArrayPlugin) SetRelativeEndValue(t *ArrayTween) {
	for i := range t.EndValue {
		if i > 0 {
			t.StartValue[i] = t.EndValue[i-1]
		}
		t.EndValue[i] = t.StartValue[i].add(t.EndValue[i])
	}
}

func (ArrayPlugin) SetChangeValue(t *ArrayTween) {
	t.ChangeValue = make([]Vec3, len(t.EndValue))
	for i := range t.EndValue {
		t.ChangeValue[i] = t.EndValue[i].sub(t.StartValue[i])
	}
}

// segment returns the segment active at elapsed and the time into it. At or
// past the end of the path (float overrun, or every segment instant) it
// returns the last one at its end.
func (ArrayPlugin) segment(durations []float64, elapsed float64) (index int, local float64) {
	last := len(durations) - 1
	total := 0.0
	for _, d := range durations {
		total += d
	}
	if elapsed >= total {
		return last, durations[last]
	}
	sum := 0.0
	for i, d := range durations {
		if elapsed <= sum+d {
			return i, elapsed - sum
		}
		sum += d
	}
	return last, durations[last]
}

func (p ArrayPlugin) EvaluateAndApply(t *ArrayTween, elapsed float64, _ bool) {
	n := len(t.EndValue)
	if n == 0 || len(t.Options.Durations) < n {
		return
	}
	var increment Vec3
	if iterations := t.IncrementalIterations(); iterations != 0 {
		increment = t.EndValue[n-1].sub(t.StartValue[0]).scale(iterations)
	}
	i, local := p.segment(t.Options.Durations[:n], elapsed)
	d := t.Options.Durations[i]
	e := 1.0
	if d > 0 {
		e = t.EvaluateEase(local, d)
	}
	v := t.StartValue[i].add(increment).add(t.ChangeValue[i].scale(e))
	if t.Options.Snapping {
		v = Vec3{math.Round(v.X), math.Round(v.Y), math.Round(v.Z)}
	}
	if axis := t.Options.Axis; axis != AxisNone {
		cur := t.Getter()
		if axis.has(AxisX) {
			cur.X = v.X
		}
		if axis.has(AxisY) {
			cur.Y = v.Y
		}
		if axis.has(AxisZ) {
			cur.Z = v.Z
		}
		v = cur
	}
	t.Setter(v)
}

// ToArray tweens a Vec3 property through endValues, spending durations[i]
// seconds on the segment ending at endValues[i]. Missing durations are
// treated as zero.
func (m *Manager) ToArray(getter func() Vec3, setter func(Vec3), endValues []Vec3, durations []float64) *ArrayTween {
	ends := append([]Vec3(nil), endValues...)
	ds := make([]float64, len(ends))
	copy(ds, durations)
	total := 0.0
	for i, d := range ds {
		if d < 0 {
			ds[i] = 0
			continue
		}
		total += d
	}
	c := To[Vec3, []Vec3, ArrayOptions](m, ArrayPlugin{}, getter, setter, ends, total)
	c.Options.Durations = ds
	return c
}

// iterationDurations splits duration into n segments growing linearly in
// length, the way punch and shake decay.
func iterationDurations(n int, duration float64) []float64 {
	ds := make([]float64, n)
	sum := 0.0
	for i := range ds {
		ds[i] = duration * float64(i+1) / float64(n)
		sum += ds[i]
	}
	if sum == 0 {
		return ds
	}
	for i := range ds {
		ds[i] *= duration / sum
	}
	return ds
}

func shakeIterations(vibrato int, duration float64) int {
	n := int(float64(vibrato) * duration)
	if n < 2 {
		n = 2
	}
	return n
}

// Punch shakes a Vec3 property towards punch and back, like a spring.
// vibrato is the number of oscillations per second, elasticity (0..1) how
// far the property bounces back past its start. The property returns to its
// start value at the end.
func (m *Manager) Punch(getter func() Vec3, setter func(Vec3), punch Vec3, duration float64, vibrato int, elasticity float64) *ArrayTween {
	elasticity = math.Max(0, math.Min(1, elasticity))
	n := shakeIterations(vibrato, duration)
	strength := punch.Magnitude()
	decay := strength / float64(n)
	offsets := make([]Vec3, n)
	for i := 0; i < n-1; i++ {
		switch {
		case i == 0:
			offsets[i] = punch
		case i%2 != 0:
			offsets[i] = punch.clampMagnitude(strength * elasticity).scale(-1)
		default:
			offsets[i] = punch.clampMagnitude(strength)
		}
		strength -= decay
	}
	return m.offsetArray(getter, setter, offsets, iterationDurations(n, duration))
}

// Shake shakes a Vec3 property randomly on the XY plane. strength is the
// maximum distance from the start value, vibrato the number of shakes per
// second and randomness (0..180) how much each shake's direction may stray
// from the opposite of the previous one. With fadeOut the shake weakens
// towards the end. The property returns to its start value at the end.
func (m *Manager) Shake(getter func() Vec3, setter func(Vec3), strength, duration float64, vibrato int, randomness float64, fadeOut bool) *ArrayTween {
	randomness = math.Max(0, math.Min(180, randomness))
	n := shakeIterations(vibrato, duration)
	decay := strength / float64(n)
	angle := m.rng.Float64() * 360
	offsets := make([]Vec3, n)
	for i := 0; i < n-1; i++ {
		if i > 0 {
			angle = angle - 180 + (m.rng.Float64()*2-1)*randomness
		}
		s, c := math.Sincos(angle * deg2Rad)
		offsets[i] = Vec3{X: c * strength, Y: s * strength}
		if fadeOut {
			strength -= decay
		}
	}
	return m.offsetArray(getter, setter, offsets, iterationDurations(n, duration))
}

func (m *Manager) offsetArray(getter func() Vec3, setter func(Vec3), offsets []Vec3, durations []float64) *ArrayTween {
	c := m.ToArray(getter, setter, make([]Vec3, len(offsets)), durations)
	c.Options.offsets = offsets
	c.easeType = OutQuad
	return c
}
