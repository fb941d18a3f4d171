package twig

import (
	"fmt"
	"math"
)

// Ease selects the curve that maps elapsed time to eased progress.
type Ease uint8

const (
	Linear Ease = iota
	InSine
	OutSine
	InOutSine
	InQuad
	OutQuad
	InOutQuad
	InCubic
	OutCubic
	InOutCubic
	InQuart
	OutQuart
	InOutQuart
	InQuint
	OutQuint
	InOutQuint
	InExpo
	OutExpo
	InOutExpo
	InCirc
	OutCirc
	InOutCirc
	InElastic
	OutElastic
	InOutElastic
	InBack
	OutBack
	InOutBack
	InBounce
	OutBounce
	InOutBounce
	// Custom is set by SetEaseFunction and SetEaseCurve. It delegates every
	// evaluation to the user function.
	Custom

	// easeZero replaces the ease of zero-duration tweens. It always reports
	// full progress so no division by the duration happens.
	easeZero
)

// DefaultOvershoot is the standard Back overshoot (10% past the target).
const DefaultOvershoot = 1.70158

var easeNames = [...]string{
	Linear:       "Linear",
	InSine:       "InSine",
	OutSine:      "OutSine",
	InOutSine:    "InOutSine",
	InQuad:       "InQuad",
	OutQuad:      "OutQuad",
	InOutQuad:    "InOutQuad",
	InCubic:      "InCubic",
	OutCubic:     "OutCubic",
	InOutCubic:   "InOutCubic",
	InQuart:      "InQuart",
	OutQuart:     "OutQuart",
	InOutQuart:   "InOutQuart",
	InQuint:      "InQuint",
	OutQuint:     "OutQuint",
	InOutQuint:   "InOutQuint",
	InExpo:       "InExpo",
	OutExpo:      "OutExpo",
	InOutExpo:    "InOutExpo",
	InCirc:       "InCirc",
	OutCirc:      "OutCirc",
	InOutCirc:    "InOutCirc",
	InElastic:    "InElastic",
	OutElastic:   "OutElastic",
	InOutElastic: "InOutElastic",
	InBack:       "InBack",
	OutBack:      "OutBack",
	InOutBack:    "InOutBack",
	InBounce:     "InBounce",
	OutBounce:    "OutBounce",
	InOutBounce:  "InOutBounce",
	Custom:       "Custom",
}

// String returns the ease name.
func (e Ease) String() string {
	if int(e) < len(easeNames) {
		return easeNames[e]
	}
	return fmt.Sprintf("Ease(%d)", uint8(e))
}

// ParseEase returns the ease with the given name.
func ParseEase(name string) (Ease, error) {
	for i, n := range easeNames {
		if n == name && Ease(i) != Custom {
			return Ease(i), nil
		}
	}
	return Linear, fmt.Errorf("%w: %q", ErrUnknownEase, name)
}

// MarshalText implements encoding.TextMarshaler.
func (e Ease) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Ease) UnmarshalText(text []byte) error {
	v, err := ParseEase(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

const (
	piOver2 = math.Pi * 0.5
	twoPi   = math.Pi * 2
)

// Evaluate returns the eased progress for elapsed time within duration.
// Standard kinds return exactly 0 at elapsed <= 0 and exactly 1 at
// elapsed >= duration. Custom delegates entirely to custom. Elastic and Back
// read overshootOrAmplitude; Elastic also reads period (0 picks a default
// proportional to duration).
//
// An unrecognized kind is a programming error and panics.
func Evaluate(e Ease, custom EaseFunction, elapsed, duration, overshootOrAmplitude, period float64) float64 {
	switch e {
	case Custom:
		if custom == nil {
			return elapsed / duration
		}
		return custom(elapsed, duration, overshootOrAmplitude, period)
	case easeZero:
		return 1
	}
	if e > InOutBounce {
		panic(fmt.Errorf("twig: %w: %d", ErrUnknownEase, uint8(e)))
	}
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= duration {
		return 1
	}

	t := elapsed
	d := duration
	switch e {
	case Linear:
		return t / d
	case InSine:
		return -math.Cos(t/d*piOver2) + 1
	case OutSine:
		return math.Sin(t / d * piOver2)
	case InOutSine:
		return -0.5 * (math.Cos(math.Pi*t/d) - 1)
	case InQuad:
		t /= d
		return t * t
	case OutQuad:
		t /= d
		return -t * (t - 2)
	case InOutQuad:
		t /= d * 0.5
		if t < 1 {
			return 0.5 * t * t
		}
		t--
		return -0.5 * (t*(t-2) - 1)
	case InCubic:
		t /= d
		return t * t * t
	case OutCubic:
		t = t/d - 1
		return t*t*t + 1
	case InOutCubic:
		t /= d * 0.5
		if t < 1 {
			return 0.5 * t * t * t
		}
		t -= 2
		return 0.5 * (t*t*t + 2)
	case InQuart:
		t /= d
		return t * t * t * t
	case OutQuart:
		t = t/d - 1
		return -(t*t*t*t - 1)
	case InOutQuart:
		t /= d * 0.5
		if t < 1 {
			return 0.5 * t * t * t * t
		}
		t -= 2
		return -0.5 * (t*t*t*t - 2)
	case InQuint:
		t /= d
		return t * t * t * t * t
	case OutQuint:
		t = t/d - 1
		return t*t*t*t*t + 1
	case InOutQuint:
		t /= d * 0.5
		if t < 1 {
			return 0.5 * t * t * t * t * t
		}
		t -= 2
		return 0.5 * (t*t*t*t*t + 2)
	case InExpo:
		return math.Pow(2, 10*(t/d-1))
	case OutExpo:
		return -math.Pow(2, -10*t/d) + 1
	case InOutExpo:
		t /= d * 0.5
		if t < 1 {
			return 0.5 * math.Pow(2, 10*(t-1))
		}
		t--
		return 0.5 * (-math.Pow(2, -10*t) + 2)
	case InCirc:
		t /= d
		return -(math.Sqrt(1-t*t) - 1)
	case OutCirc:
		t = t/d - 1
		return math.Sqrt(1 - t*t)
	case InOutCirc:
		t /= d * 0.5
		if t < 1 {
			return -0.5 * (math.Sqrt(1-t*t) - 1)
		}
		t -= 2
		return 0.5 * (math.Sqrt(1-t*t) + 1)
	case InElastic:
		if period == 0 {
			period = d * 0.3
		}
		amp, s := elasticShape(overshootOrAmplitude, period)
		t = t/d - 1
		return -(amp * math.Pow(2, 10*t) * math.Sin((t*d-s)*twoPi/period))
	case OutElastic:
		if period == 0 {
			period = d * 0.3
		}
		amp, s := elasticShape(overshootOrAmplitude, period)
		t /= d
		return amp*math.Pow(2, -10*t)*math.Sin((t*d-s)*twoPi/period) + 1
	case InOutElastic:
		if period == 0 {
			period = d * (0.3 * 1.5)
		}
		amp, s := elasticShape(overshootOrAmplitude, period)
		t /= d * 0.5
		if t < 1 {
			t--
			return -0.5 * (amp * math.Pow(2, 10*t) * math.Sin((t*d-s)*twoPi/period))
		}
		t--
		return amp*math.Pow(2, -10*t)*math.Sin((t*d-s)*twoPi/period)*0.5 + 1
	case InBack:
		t /= d
		return t * t * ((overshootOrAmplitude+1)*t - overshootOrAmplitude)
	case OutBack:
		t = t/d - 1
		return t*t*((overshootOrAmplitude+1)*t+overshootOrAmplitude) + 1
	case InOutBack:
		s := overshootOrAmplitude * 1.525
		t /= d * 0.5
		if t < 1 {
			return 0.5 * (t * t * ((s+1)*t - s))
		}
		t -= 2
		return 0.5 * (t*t*((s+1)*t+s) + 2)
	case InBounce:
		return bounceIn(t, d)
	case OutBounce:
		return bounceOut(t, d)
	default: // InOutBounce
		if t < d*0.5 {
			return bounceIn(t*2, d) * 0.5
		}
		return bounceOut(t*2-d, d)*0.5 + 0.5
	}
}

// elasticShape clamps the amplitude to at least 1 and returns the matching
// phase shift for the given period.
func elasticShape(amplitude, period float64) (amp, shift float64) {
	if amplitude < 1 {
		return 1, period / 4
	}
	return amplitude, period / twoPi * math.Asin(1/amplitude)
}

func bounceOut(t, d float64) float64 {
	t /= d
	switch {
	case t < 1/2.75:
		return 7.5625 * t * t
	case t < 2/2.75:
		t -= 1.5 / 2.75
		return 7.5625*t*t + 0.75
	case t < 2.5/2.75:
		t -= 2.25 / 2.75
		return 7.5625*t*t + 0.9375
	default:
		t -= 2.625 / 2.75
		return 7.5625*t*t + 0.984375
	}
}

func bounceIn(t, d float64) float64 {
	return 1 - bounceOut(d-t, d)
}
