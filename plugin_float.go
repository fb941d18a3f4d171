package twig

import "math"

// NoOptions is the options type of plugins that take none.
type NoOptions struct{}

// FloatOptions configures float tweens.
type FloatOptions struct {
	// Snapping rounds every written value to the nearest integer.
	Snapping bool
}

// FloatTween tweens a float64.
type FloatTween = TweenerCore[float64, float64, FloatOptions]

// IntTween tweens an int.
type IntTween = TweenerCore[int, int, NoOptions]

// FloatPlugin interpolates float64 values.
type FloatPlugin struct{}

func (FloatPlugin) snap(t *FloatTween, v float64) float64 {
	if t.Options.Snapping {
		return math.Round(v)
	}
	return v
}

func (FloatPlugin) ConvertToStartValue(_ *FloatTween, value float64) float64 { return value }

func (p FloatPlugin) SetFrom(t *FloatTween, isRelative bool) {
	prevEnd := t.EndValue
	t.EndValue = t.Getter()
	if isRelative {
		t.StartValue = t.EndValue + prevEnd
	} else {
		t.StartValue = prevEnd
	}
	t.Setter(p.snap(t, t.StartValue))
}

func (p FloatPlugin) SetFromValue(t *FloatTween, fromValue float64, setImmediately, isRelative bool) {
	if isRelative {
		cur := t.Getter()
		t.EndValue += cur
		fromValue += cur
	}
	t.StartValue = fromValue
	if setImmediately {
		t.Setter(p.snap(t, fromValue))
	}
}

func (FloatPlugin) SetRelativeEndValue(t *FloatTween) { t.EndValue = t.StartValue + t.EndValue }

func (FloatPlugin) SetChangeValue(t *FloatTween) { t.ChangeValue = t.EndValue - t.StartValue }

func (p FloatPlugin) EvaluateAndApply(t *FloatTween, elapsed float64, _ bool) {
	start := t.StartValue
	if n := t.IncrementalIterations(); n != 0 {
		start += t.ChangeValue * n
	}
	t.Setter(p.snap(t, start+t.ChangeValue*t.EvaluateEase(elapsed, t.duration)))
}

// IntPlugin interpolates int values, rounding to the nearest integer.
type IntPlugin struct{}

func (IntPlugin) ConvertToStartValue(_ *IntTween, value int) int { return value }

func (IntPlugin) SetFrom(t *IntTween, isRelative bool) {
	prevEnd := t.EndValue
	t.EndValue = t.Getter()
	if isRelative {
		t.StartValue = t.EndValue + prevEnd
	} else {
		t.StartValue = prevEnd
	}
	t.Setter(t.StartValue)
}

func (IntPlugin) SetFromValue(t *IntTween, fromValue int, setImmediately, isRelative bool) {
	if isRelative {
		cur := t.Getter()
		t.EndValue += cur
		fromValue += cur
	}
	t.StartValue = fromValue
	if setImmediately {
		t.Setter(fromValue)
	}
}

func (IntPlugin) SetRelativeEndValue(t *IntTween) { t.EndValue = t.StartValue + t.EndValue }

func (IntPlugin) SetChangeValue(t *IntTween) { t.ChangeValue = t.EndValue - t.StartValue }

func (IntPlugin) EvaluateAndApply(t *IntTween, elapsed float64, _ bool) {
	start := float64(t.StartValue)
	change := float64(t.ChangeValue)
	if n := t.IncrementalIterations(); n != 0 {
		start += change * n
	}
	t.Setter(int(math.Round(start + change*t.EvaluateEase(elapsed, t.duration))))
}

// ToFloat tweens a float64 property to endValue over duration seconds.
func (m *Manager) ToFloat(getter func() float64, setter func(float64), endValue, duration float64) *FloatTween {
	return To[float64, float64, FloatOptions](m, FloatPlugin{}, getter, setter, endValue, duration)
}

// ToInt tweens an int property to endValue over duration seconds.
func (m *Manager) ToInt(getter func() int, setter func(int), endValue int, duration float64) *IntTween {
	return To[int, int, NoOptions](m, IntPlugin{}, getter, setter, endValue, duration)
}
