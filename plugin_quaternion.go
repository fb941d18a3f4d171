package twig

// QuaternionOptions configures rotation tweens.
type QuaternionOptions struct {
	RotateMode RotateMode
}

// RotationTween tweens a Quaternion property towards Euler angles in
// degrees.
type RotationTween = TweenerCore[Quaternion, Vec3, QuaternionOptions]

// QuaternionPlugin interpolates rotations in Euler space.
type QuaternionPlugin struct{}

// ConvertToStartValue returns the Euler angles of value. Every rotation has
// two Euler forms; for shortest-path rotations the one closer to the end
// value is used, so single-axis rotations do not wobble through the others.
func (QuaternionPlugin) ConvertToStartValue(t *RotationTween, value Quaternion) Vec3 {
	e := value.Euler()
	if t.Options.RotateMode == RotateFast && !t.isRelative {
		end := Vec3{wrapDegrees(t.EndValue.X), wrapDegrees(t.EndValue.Y), wrapDegrees(t.EndValue.Z)}
		return closestEuler(e, end)
	}
	return e
}

func (QuaternionPlugin) SetFrom(t *RotationTween, isRelative bool) {
	prevEnd := t.EndValue
	t.EndValue = t.Getter().Euler()
	if isRelative {
		t.StartValue = t.EndValue.add(prevEnd)
	} else {
		t.StartValue = prevEnd
		if t.Options.RotateMode == RotateFast {
			t.EndValue = closestEuler(t.EndValue, prevEnd)
		}
	}
	t.Setter(QuaternionFromEuler(t.StartValue))
}

func (QuaternionPlugin) SetFromValue(t *RotationTween, fromValue Vec3, setImmediately, isRelative bool) {
	if isRelative {
		cur := t.Getter().Euler()
		t.EndValue = t.EndValue.add(cur)
		fromValue = fromValue.add(cur)
	}
	t.StartValue = fromValue
	if setImmediately {
		t.Setter(QuaternionFromEuler(fromValue))
	}
}

func (QuaternionPlugin) SetRelativeEndValue(t *RotationTween) {
	t.EndValue = t.StartValue.add(t.EndValue)
}

func (QuaternionPlugin) SetChangeValue(t *RotationTween) {
	switch {
	case t.Options.RotateMode == RotateFast && !t.isRelative:
		t.ChangeValue = Vec3{
			deltaDegrees(t.StartValue.X, t.EndValue.X),
			deltaDegrees(t.StartValue.Y, t.EndValue.Y),
			deltaDegrees(t.StartValue.Z, t.EndValue.Z),
		}
	case t.Options.RotateMode == RotateFastBeyond360 || t.isRelative:
		t.ChangeValue = t.EndValue.sub(t.StartValue)
	default:
		t.ChangeValue = t.EndValue
	}
}

func (QuaternionPlugin) EvaluateAndApply(t *RotationTween, elapsed float64, _ bool) {
	start := t.StartValue
	if n := t.IncrementalIterations(); n != 0 {
		start = start.add(t.ChangeValue.scale(n))
	}
	e := t.EvaluateEase(elapsed, t.duration)
	switch t.Options.RotateMode {
	case RotateWorldAxisAdd:
		rot := QuaternionFromEuler(t.ChangeValue.scale(e))
		t.Setter(rot.Mul(QuaternionFromEuler(start)))
	case RotateLocalAxisAdd:
		rot := QuaternionFromEuler(t.ChangeValue.scale(e))
		t.Setter(QuaternionFromEuler(start).Mul(rot))
	default:
		t.Setter(QuaternionFromEuler(start.add(t.ChangeValue.scale(e))))
	}
}

// ToRotation tweens a Quaternion property to the Euler angles endValue
// (degrees) over duration seconds, along the shortest path.
func (m *Manager) ToRotation(getter func() Quaternion, setter func(Quaternion), endValue Vec3, duration float64) *RotationTween {
	return To[Quaternion, Vec3, QuaternionOptions](m, QuaternionPlugin{}, getter, setter, endValue, duration)
}
