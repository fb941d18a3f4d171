package twig

import "math"

// VectorOptions configures Vec2 and Vec3 tweens.
type VectorOptions struct {
	// Axis limits the tween to some axes. The others keep whatever value
	// the property has when the tween writes.
	Axis AxisConstraint
	// Snapping rounds every tweened component to the nearest integer.
	Snapping bool
}

// Vec2Tween tweens a Vec2.
type Vec2Tween = TweenerCore[Vec2, Vec2, VectorOptions]

// Vec3Tween tweens a Vec3.
type Vec3Tween = TweenerCore[Vec3, Vec3, VectorOptions]

// Vec2Plugin interpolates Vec2 values.
type Vec2Plugin struct{}

// mask copies the constrained axes of v into base.
func (Vec2Plugin) mask(axis AxisConstraint, base, v Vec2) Vec2 {
	if axis.has(AxisX) {
		base.X = v.X
	}
	if axis.has(AxisY) {
		base.Y = v.Y
	}
	return base
}

func (Vec2Plugin) snap(t *Vec2Tween, v Vec2) Vec2 {
	if t.Options.Snapping {
		return Vec2{math.Round(v.X), math.Round(v.Y)}
	}
	return v
}

func (Vec2Plugin) ConvertToStartValue(_ *Vec2Tween, value Vec2) Vec2 { return value }

func (p Vec2Plugin) SetFrom(t *Vec2Tween, isRelative bool) {
	prevEnd := t.EndValue
	t.EndValue = t.Getter()
	if isRelative {
		t.StartValue = t.EndValue.add(prevEnd)
	} else {
		t.StartValue = prevEnd
	}
	t.Setter(p.snap(t, p.mask(t.Options.Axis, t.EndValue, t.StartValue)))
}

func (p Vec2Plugin) SetFromValue(t *Vec2Tween, fromValue Vec2, setImmediately, isRelative bool) {
	if isRelative {
		cur := t.Getter()
		t.EndValue = t.EndValue.add(cur)
		fromValue = fromValue.add(cur)
	}
	t.StartValue = fromValue
	if setImmediately {
		t.Setter(p.snap(t, p.mask(t.Options.Axis, t.Getter(), fromValue)))
	}
}

func (Vec2Plugin) SetRelativeEndValue(t *Vec2Tween) { t.EndValue = t.StartValue.add(t.EndValue) }

func (p Vec2Plugin) SetChangeValue(t *Vec2Tween) {
	t.ChangeValue = p.mask(t.Options.Axis, Vec2{}, t.EndValue.sub(t.StartValue))
}

func (p Vec2Plugin) EvaluateAndApply(t *Vec2Tween, elapsed float64, _ bool) {
	start := t.StartValue
	if n := t.IncrementalIterations(); n != 0 {
		start = start.add(t.ChangeValue.scale(n))
	}
	v := p.snap(t, start.add(t.ChangeValue.scale(t.EvaluateEase(elapsed, t.duration))))
	if t.Options.Axis != AxisNone {
		v = p.mask(t.Options.Axis, t.Getter(), v)
	}
	t.Setter(v)
}

// Vec3Plugin interpolates Vec3 values.
type Vec3Plugin struct{}

func (Vec3Plugin) mask(axis AxisConstraint, base, v Vec3) Vec3 {
	if axis.has(AxisX) {
		base.X = v.X
	}
	if axis.has(AxisY) {
		base.Y = v.Y
	}
	if axis.has(AxisZ) {
		base.Z = v.Z
	}
	return base
}

func (Vec3Plugin) snap(snapping bool, v Vec3) Vec3 {
	if snapping {
		return Vec3{math.Round(v.X), math.Round(v.Y), math.Round(v.Z)}
	}
	return v
}

func (Vec3Plugin) ConvertToStartValue(_ *Vec3Tween, value Vec3) Vec3 { return value }

func (p Vec3Plugin) SetFrom(t *Vec3Tween, isRelative bool) {
	prevEnd := t.EndValue
	t.EndValue = t.Getter()
	if isRelative {
		t.StartValue = t.EndValue.add(prevEnd)
	} else {
		t.StartValue = prevEnd
	}
	t.Setter(p.snap(t.Options.Snapping, p.mask(t.Options.Axis, t.EndValue, t.StartValue)))
}

func (p Vec3Plugin) SetFromValue(t *Vec3Tween, fromValue Vec3, setImmediately, isRelative bool) {
	if isRelative {
		cur := t.Getter()
		t.EndValue = t.EndValue.add(cur)
		fromValue = fromValue.add(cur)
	}
	t.StartValue = fromValue
	if setImmediately {
		t.Setter(p.snap(t.Options.Snapping, p.mask(t.Options.Axis, t.Getter(), fromValue)))
	}
}

func (Vec3Plugin) SetRelativeEndValue(t *Vec3Tween) { t.EndValue = t.StartValue.add(t.EndValue) }

func (p Vec3Plugin) SetChangeValue(t *Vec3Tween) {
	t.ChangeValue = p.mask(t.Options.Axis, Vec3{}, t.EndValue.sub(t.StartValue))
}

func (p Vec3Plugin) EvaluateAndApply(t *Vec3Tween, elapsed float64, _ bool) {
	start := t.StartValue
	if n := t.IncrementalIterations(); n != 0 {
		start = start.add(t.ChangeValue.scale(n))
	}
	v := p.snap(t.Options.Snapping, start.add(t.ChangeValue.scale(t.EvaluateEase(elapsed, t.duration))))
	if t.Options.Axis != AxisNone {
		v = p.mask(t.Options.Axis, t.Getter(), v)
	}
	t.Setter(v)
}

// ToVec2 tweens a Vec2 property to endValue over duration seconds.
func (m *Manager) ToVec2(getter func() Vec2, setter func(Vec2), endValue Vec2, duration float64) *Vec2Tween {
	return To[Vec2, Vec2, VectorOptions](m, Vec2Plugin{}, getter, setter, endValue, duration)
}

// ToVec3 tweens a Vec3 property to endValue over duration seconds.
func (m *Manager) ToVec3(getter func() Vec3, setter func(Vec3), endValue Vec3, duration float64) *Vec3Tween {
	return To[Vec3, Vec3, VectorOptions](m, Vec3Plugin{}, getter, setter, endValue, duration)
}
