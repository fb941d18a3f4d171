package twig

import (
	"github.com/lucasb-eyer/go-colorful"
)

// ColorOptions configures color tweens.
type ColorOptions struct {
	// AlphaOnly tweens the alpha channel and leaves RGB to the property.
	AlphaOnly bool
	// Space is the color space RGB is blended in. Alpha is always linear.
	Space ColorSpace
}

// ColorTween tweens a Color.
type ColorTween = TweenerCore[Color, Color, ColorOptions]

// ColorPlugin interpolates Color values.
type ColorPlugin struct{}

func (ColorPlugin) ConvertToStartValue(_ *ColorTween, value Color) Color { return value }

func (ColorPlugin) SetFrom(t *ColorTween, isRelative bool) {
	prevEnd := t.EndValue
	t.EndValue = t.Getter()
	if isRelative {
		t.StartValue = t.EndValue.add(prevEnd)
	} else {
		t.StartValue = prevEnd
	}
	to := t.StartValue
	if t.Options.AlphaOnly {
		to = t.EndValue
		to.A = t.StartValue.A
	}
	t.Setter(to)
}

func (ColorPlugin) SetFromValue(t *ColorTween, fromValue Color, setImmediately, isRelative bool) {
	if isRelative {
		cur := t.Getter()
		t.EndValue = t.EndValue.add(cur)
		fromValue = fromValue.add(cur)
	}
	t.StartValue = fromValue
	if setImmediately {
		to := fromValue
		if t.Options.AlphaOnly {
			to = t.Getter()
			to.A = fromValue.A
		}
		t.Setter(to)
	}
}

func (ColorPlugin) SetRelativeEndValue(t *ColorTween) { t.EndValue = t.StartValue.add(t.EndValue) }

func (ColorPlugin) SetChangeValue(t *ColorTween) { t.ChangeValue = t.EndValue.sub(t.StartValue) }

func (ColorPlugin) EvaluateAndApply(t *ColorTween, elapsed float64, _ bool) {
	start := t.StartValue
	if n := t.IncrementalIterations(); n != 0 {
		start = start.add(t.ChangeValue.scale(n))
	}
	e := t.EvaluateEase(elapsed, t.duration)
	if t.Options.AlphaOnly {
		c := t.Getter()
		c.A = start.A + t.ChangeValue.A*e
		t.Setter(c)
		return
	}
	if t.Options.Space == ColorSpaceRGB {
		t.Setter(start.add(t.ChangeValue.scale(e)))
		return
	}
	t.Setter(blendColor(t.Options.Space, start, start.add(t.ChangeValue), e))
}

// blendColor blends from a to b in the given space. Results are clamped to
// the RGB gamut.
func blendColor(space ColorSpace, a, b Color, e float64) Color {
	c1 := colorful.Color{R: a.R, G: a.G, B: a.B}
	c2 := colorful.Color{R: b.R, G: b.G, B: b.B}
	var c colorful.Color
	switch space {
	case ColorSpaceLinearRGB:
		r1, g1, b1 := c1.LinearRgb()
		r2, g2, b2 := c2.LinearRgb()
		c = colorful.LinearRgb(r1+(r2-r1)*e, g1+(g2-g1)*e, b1+(b2-b1)*e)
	case ColorSpaceLab:
		c = c1.BlendLab(c2, e)
	case ColorSpaceHcl:
		c = c1.BlendHcl(c2, e)
	case ColorSpaceLuv:
		c = c1.BlendLuv(c2, e)
	default:
		c = c1.BlendRgb(c2, e)
	}
	c = c.Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: a.A + (b.A-a.A)*e}
}

// ToColor tweens a Color property to endValue over duration seconds.
func (m *Manager) ToColor(getter func() Color, setter func(Color), endValue Color, duration float64) *ColorTween {
	return To[Color, Color, ColorOptions](m, ColorPlugin{}, getter, setter, endValue, duration)
}

// ToAlpha tweens only the alpha of a Color property.
func (m *Manager) ToAlpha(getter func() Color, setter func(Color), endAlpha, duration float64) *ColorTween {
	c := To[Color, Color, ColorOptions](m, ColorPlugin{}, getter, setter, Color{A: endAlpha}, duration)
	c.Options.AlphaOnly = true
	return c
}
