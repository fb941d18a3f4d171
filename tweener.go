package twig

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Plugin is the interpolation strategy for one value type. T is the type
// read and written through the getter and setter, V the type the start, end
// and change values are stored as (usually T), and O the plugin's options.
//
// Plugins are stateless: everything they need lives on the TweenerCore.
type Plugin[T, V, O any] interface {
	// ConvertToStartValue turns the current property value into a start value.
	ConvertToStartValue(t *TweenerCore[T, V, O], value T) V
	// SetFrom swaps start and end so the tween plays from its end value to
	// the current one. isRelative makes the from value an offset.
	SetFrom(t *TweenerCore[T, V, O], isRelative bool)
	// SetFromValue plays the tween from fromValue to its end value.
	SetFromValue(t *TweenerCore[T, V, O], fromValue V, setImmediately, isRelative bool)
	// SetRelativeEndValue turns the end value into start + end.
	SetRelativeEndValue(t *TweenerCore[T, V, O])
	// SetChangeValue precomputes end - start.
	SetChangeValue(t *TweenerCore[T, V, O])
	// EvaluateAndApply computes the value at elapsed time within the cycle
	// and writes it through the setter.
	EvaluateAndApply(t *TweenerCore[T, V, O], elapsed float64, useInversePosition bool)
}

// TweenerCore is a tween driving one value through a getter and setter pair.
// Its exported fields are meant for plugins.
type TweenerCore[T, V, O any] struct {
	Tween

	Getter      func() T
	Setter      func(T)
	StartValue  V
	EndValue    V
	ChangeValue V
	Options     O

	plugin                   Plugin[T, V, O]
	hasManuallySetStartValue bool
}

// poolKey identifies the pool of one TweenerCore instantiation.
type poolKey[T, V, O any] struct{}

// To creates a tweener driving getter/setter to endValue over duration
// seconds with the given plugin. This is the entry point for custom value
// types; the Manager's To* helpers cover the built-in ones.
func To[T, V, O any](m *Manager, plugin Plugin[T, V, O], getter func() T, setter func(T), endValue V, duration float64) *TweenerCore[T, V, O] {
	c := acquireTweener[T, V, O](m)
	c.plugin = plugin
	c.Getter = getter
	c.Setter = setter
	c.EndValue = endValue
	if duration < 0 {
		duration = 0
	}
	c.duration = duration
	c.fullDuration = duration
	return c
}

func acquireTweener[T, V, O any](m *Manager) *TweenerCore[T, V, O] {
	key := poolKey[T, V, O]{}
	if pool := m.tweenerPools[key]; len(pool) > 0 {
		c := pool[len(pool)-1].(*TweenerCore[T, V, O])
		pool[len(pool)-1] = nil
		m.tweenerPools[key] = pool[:len(pool)-1]
		m.totPooledTweeners--
		c.pooled = false
		c.setDefaults(&m.cfg)
		m.addActive(&c.Tween)
		return c
	}
	if m.totTweeners >= m.maxTweeners {
		m.growCapacity(true)
	}
	c := &TweenerCore[T, V, O]{}
	c.m = m
	c.impl = c
	c.tweenType = TweenTypeTweener
	c.activeID = -1
	c.setDefaults(&m.cfg)
	m.totTweeners++
	m.addActive(&c.Tween)
	return c
}

func (c *TweenerCore[T, V, O]) release() {
	m := c.m
	*c = TweenerCore[T, V, O]{Tween: c.Tween}
	c.resetBase()
	c.pooled = true
	key := poolKey[T, V, O]{}
	m.tweenerPools[key] = append(m.tweenerPools[key], c)
	m.totPooledTweeners++
}

func (c *TweenerCore[T, V, O]) callbacksSet() bool { return false }

// startup captures the start value, resolves relative end values and the
// change value. It fails when the target is gone or the getter panics; a
// failed startup is retried by the next goto.
func (c *TweenerCore[T, V, O]) startup() (ok bool) {
	if c.loops > -1 {
		c.fullDuration = c.duration * float64(c.loops)
	} else {
		c.fullDuration = math.Inf(1)
	}
	if c.targetDisposed() {
		c.m.logger.Debug("tween startup failed", zap.Any("id", c.id), zap.Error(ErrTargetDisposed))
		return false
	}
	if !c.hasManuallySetStartValue {
		if c.m.cfg.SafeMode {
			defer func() {
				if r := recover(); r != nil {
					c.m.logger.Warn("tween getter failed", zap.Any("id", c.id), zap.Any("panic", r))
					ok = false
				}
			}()
		}
		c.StartValue = c.plugin.ConvertToStartValue(c, c.Getter())
	}
	if c.isRelative && !c.isFrom {
		c.plugin.SetRelativeEndValue(c)
	}
	c.plugin.SetChangeValue(c)
	if c.duration <= 0 {
		c.easeType = easeZero
	}
	c.startupDone = true
	return true
}

func (c *TweenerCore[T, V, O]) applyTween(_ float64, _, _ int, useInversePosition bool, _ updateMode) (failed bool) {
	if c.targetDisposed() {
		c.m.logger.Debug("tween apply failed", zap.Any("id", c.id), zap.Error(ErrTargetDisposed))
		return true
	}
	pos := c.position
	if useInversePosition {
		pos = c.duration - c.position
	}
	if c.m.cfg.SafeMode {
		defer func() {
			if r := recover(); r != nil {
				c.m.logger.Warn("tween apply failed", zap.Any("id", c.id), zap.Any("panic", r))
				failed = true
			}
		}()
	}
	c.plugin.EvaluateAndApply(c, pos, useInversePosition)
	return false
}

// From makes the tween play from its end value back to the property's
// current value. The property jumps to the end value immediately. With
// relative set the end value is an offset from the current value.
func (c *TweenerCore[T, V, O]) From(relative bool) *TweenerCore[T, V, O] {
	if c.locked("From") {
		return c
	}
	if !c.safeCall(func() { c.plugin.SetFrom(c, relative) }) {
		return c
	}
	c.isFrom = true
	c.hasManuallySetStartValue = true
	return c
}

// FromValue makes the tween start from fromValue. With setImmediately the
// property jumps there right away instead of on the first update. With
// relative both values are offsets from the current value.
func (c *TweenerCore[T, V, O]) FromValue(fromValue V, setImmediately, relative bool) *TweenerCore[T, V, O] {
	if c.locked("FromValue") {
		return c
	}
	if !c.safeCall(func() { c.plugin.SetFromValue(c, fromValue, setImmediately, relative) }) {
		return c
	}
	c.isFrom = true
	c.hasManuallySetStartValue = true
	return c
}

// safeCall runs fn. In safe mode a panic is recovered and kills the tween.
func (c *TweenerCore[T, V, O]) safeCall(fn func()) (ok bool) {
	if !c.m.cfg.SafeMode {
		fn()
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			c.m.logger.Warn("tween setup failed", zap.Any("id", c.id), zap.Any("panic", r))
			c.m.markForKilling(&c.Tween)
			ok = false
		}
	}()
	fn()
	return true
}

// SetOptions replaces the plugin options.
func (c *TweenerCore[T, V, O]) SetOptions(options O) *TweenerCore[T, V, O] {
	if c.locked("SetOptions") {
		return c
	}
	c.Options = options
	return c
}

// ChangeEndValue sets a new end value. With snapStartValue the start value
// is re-read from the property (restarting the tween from where it is now).
func (c *TweenerCore[T, V, O]) ChangeEndValue(endValue V, snapStartValue bool) *TweenerCore[T, V, O] {
	if c == nil {
		return nil
	}
	if !c.active || c.isSequenced {
		c.m.misuse(&c.Tween, "ChangeEndValue", "tween is nested or inactive")
		return c
	}
	c.EndValue = endValue
	c.isRelative = false
	if c.startupDone {
		if snapStartValue {
			c.StartValue = c.plugin.ConvertToStartValue(c, c.Getter())
		}
		c.plugin.SetChangeValue(c)
	}
	return c
}

// String describes the tweener for logs.
func (c *TweenerCore[T, V, O]) String() string {
	return fmt.Sprintf("tweener(id=%v, %T)", c.id, c.EndValue)
}
