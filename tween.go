package twig

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// tweenImpl is the part of a Tween that differs between tweeners and
// sequences. Implementations embed the Tween they belong to.
type tweenImpl interface {
	startup() bool
	applyTween(prevPosition float64, prevCompletedLoops, newCompletedSteps int, useInversePosition bool, mode updateMode) bool
	// release resets the tween and returns it to its pool.
	release()
	callbacksSet() bool
}

// updateMode tells doGoto which callbacks an update is allowed to fire.
type updateMode uint8

const (
	modeUpdate           updateMode = iota // regular advance: every callback fires
	modeGoto                               // relocation: step and start callbacks are skipped
	modeIgnoreOnUpdate                     // like modeGoto without onUpdate
	modeIgnoreOnComplete                   // like modeGoto without onComplete
)

// Tween is one schedulable animation: either a tweener that drives a single
// value or a sequence of other tweens. Tweens are owned and recycled by the
// Manager that created them; a *Tween must not be used after it was killed,
// since the same instance is handed out again by later constructors.
//
// Setters return the tween so calls can be chained. Setters that change the
// timing (loops, delay, relative) are ignored once the tween has started or
// was added to a sequence.
type Tween struct {
	m         *Manager
	impl      tweenImpl
	tweenType TweenType

	// Registry state, owned by the Manager.
	active        bool
	activeID      int
	queuedForKill bool
	pooled        bool

	id       any
	idHash   uint64
	target   any
	disposer Disposable

	updateType          UpdateType
	isIndependentUpdate bool
	timeScale           float64
	isBackwards         bool
	isFrom              bool
	isRelative          bool
	autoKill            bool

	duration  float64
	loops     int
	loopType  LoopType
	delay     float64
	easeType  Ease
	easeFunc  EaseFunction
	overshoot float64
	period    float64

	onStart        func()
	onPlay         func()
	onPause        func()
	onRewind       func()
	onUpdate       func()
	onStepComplete func()
	onComplete     func()
	onKill         func()

	isSequenced    bool
	sequenceParent *Tween
	creationLocked bool
	startupDone    bool
	playedOnce     bool
	isPlaying      bool
	isComplete     bool

	position       float64
	fullDuration   float64
	completedLoops int
	elapsedDelay   float64
	delayComplete  bool

	// Cycle a sequence is walking its children through. Incremental
	// sequences offset their children by it.
	walkCycle int
}

// Tweenable is implemented by *Tween and the types embedding it
// (*TweenerCore and *Sequence). Sequences accept any Tweenable.
type Tweenable interface {
	tween() *Tween
}

func (t *Tween) tween() *Tween { return t }

// resetBase returns every mutable field to its zero state. The owning
// manager, the implementation and the tween type survive.
func (t *Tween) resetBase() {
	*t = Tween{
		m:         t.m,
		impl:      t.impl,
		tweenType: t.tweenType,
		activeID:  -1,
	}
}

// setDefaults applies the manager's configured defaults to a fresh tween.
func (t *Tween) setDefaults(cfg *Config) {
	t.autoKill = cfg.DefaultAutoKill
	t.easeType = cfg.DefaultEase
	t.overshoot = cfg.DefaultEaseOvershootOrAmplitude
	t.period = cfg.DefaultEasePeriod
	t.loopType = cfg.DefaultLoopType
	t.updateType = cfg.DefaultUpdateType
	t.isIndependentUpdate = cfg.DefaultTimeScaleIndependent
	t.timeScale = 1
	t.loops = 1
	switch cfg.DefaultAutoPlay {
	case AutoPlayAll:
		t.isPlaying = true
	case AutoPlayTweeners:
		t.isPlaying = t.tweenType == TweenTypeTweener
	case AutoPlaySequences:
		t.isPlaying = t.tweenType == TweenTypeSequence
	}
}

// hasLoops reports whether the tween runs more than one cycle.
func (t *Tween) hasLoops() bool {
	return t.loops == -1 || t.loops > 1
}

// targetDisposed reports whether the tween's target was destroyed.
func (t *Tween) targetDisposed() bool {
	return t.disposer != nil && t.disposer.IsDisposed()
}

// locked reports (and logs) a setter call that is no longer allowed.
func (t *Tween) locked(op string) bool {
	if t == nil {
		return true
	}
	if !t.active {
		t.m.misuseInactive(t, op)
		return true
	}
	if t.creationLocked {
		t.m.misuse(t, op, "tween already started or nested")
		return true
	}
	return false
}

// SetID tags the tween for filtered operations (Manager.Kill, Manager.Pause
// and friends). String ids are hashed once so lookups compare hashes first.
func (t *Tween) SetID(id any) *Tween {
	if t == nil || !t.active {
		return t
	}
	t.id = id
	t.idHash = 0
	if s, ok := id.(string); ok {
		t.idHash = xxhash.Sum64String(s)
	}
	return t
}

// SetTarget tags the tween with the object it animates. Targets implementing
// Disposable are checked before the tween starts and before every write.
func (t *Tween) SetTarget(target any) *Tween {
	if t == nil || !t.active {
		return t
	}
	t.target = target
	t.disposer, _ = target.(Disposable)
	return t
}

// SetAutoKill sets whether the tween is killed when it completes.
func (t *Tween) SetAutoKill(autoKill bool) *Tween {
	if t == nil || !t.active {
		return t
	}
	t.autoKill = autoKill
	return t
}

// SetLoops sets the number of cycles (-1 for infinite) and how each new
// cycle starts.
func (t *Tween) SetLoops(loops int, loopType LoopType) *Tween {
	if t.locked("SetLoops") {
		return t
	}
	if loops < -1 {
		loops = -1
	} else if loops == 0 {
		loops = 1
	}
	t.loops = loops
	t.loopType = loopType
	if t.tweenType == TweenTypeTweener {
		if loops > -1 {
			t.fullDuration = t.duration * float64(loops)
		} else {
			t.fullDuration = math.Inf(1)
		}
	}
	return t
}

// SetDelay sets a delay before the tween starts. Delays of nested tweens are
// turned into offsets when they are added to a sequence.
func (t *Tween) SetDelay(delay float64) *Tween {
	if t.locked("SetDelay") {
		return t
	}
	if delay < 0 {
		delay = 0
	}
	t.delay = delay
	t.delayComplete = delay <= 0
	return t
}

// SetRelative makes the end value an offset from the start value. On a
// sequence it makes every nested tweener relative.
func (t *Tween) SetRelative(relative bool) *Tween {
	if t.locked("SetRelative") {
		return t
	}
	t.isRelative = relative
	return t
}

// SetEase sets a standard ease. It can be changed at any time.
func (t *Tween) SetEase(e Ease) *Tween {
	if t == nil || !t.active {
		return t
	}
	if t.tweenType == TweenTypeTweener && t.startupDone && t.duration <= 0 {
		return t
	}
	t.easeType = e
	t.easeFunc = nil
	return t
}

// SetEaseParams sets an ease together with its overshoot (Back) or
// amplitude and period (Elastic).
func (t *Tween) SetEaseParams(e Ease, overshootOrAmplitude, period float64) *Tween {
	if t.SetEase(e) == nil || !t.active {
		return t
	}
	t.overshoot = overshootOrAmplitude
	t.period = period
	return t
}

// SetEaseFunction sets a custom ease.
func (t *Tween) SetEaseFunction(fn EaseFunction) *Tween {
	if t == nil || !t.active || fn == nil {
		return t
	}
	t.easeType = Custom
	t.easeFunc = fn
	return t
}

// SetEaseCurve sets a keyframed ease.
func (t *Tween) SetEaseCurve(c *Curve) *Tween {
	if c == nil {
		return t
	}
	return t.SetEaseFunction(c.Ease())
}

// SetUpdate moves the tween to another update channel. Independent tweens
// advance with the time-scale independent delta passed to the update call.
func (t *Tween) SetUpdate(updateType UpdateType, independent bool) *Tween {
	if t == nil || !t.active {
		return t
	}
	if updateType >= updateTypeCount {
		t.m.misuse(t, "SetUpdate", fmt.Sprintf("unknown update type %v", updateType))
		return t
	}
	t.m.setUpdateType(t, updateType, independent)
	return t
}

// SetTimeScale sets the tween's own time multiplier.
func (t *Tween) SetTimeScale(scale float64) *Tween {
	if t == nil || !t.active {
		return t
	}
	t.timeScale = scale
	return t
}

// OnStart sets the callback fired the first time the tween starts playing,
// after any delay.
func (t *Tween) OnStart(fn func()) *Tween {
	if t != nil && t.active {
		t.onStart = fn
	}
	return t
}

// OnPlay sets the callback fired whenever the tween goes from paused to
// playing.
func (t *Tween) OnPlay(fn func()) *Tween {
	if t != nil && t.active {
		t.onPlay = fn
	}
	return t
}

// OnPause sets the callback fired when the tween stops playing without
// being killed.
func (t *Tween) OnPause(fn func()) *Tween {
	if t != nil && t.active {
		t.onPause = fn
	}
	return t
}

// OnRewind sets the callback fired when the tween reaches its start going
// backwards or is rewound.
func (t *Tween) OnRewind(fn func()) *Tween {
	if t != nil && t.active {
		t.onRewind = fn
	}
	return t
}

// OnUpdate sets the callback fired after every update.
func (t *Tween) OnUpdate(fn func()) *Tween {
	if t != nil && t.active {
		t.onUpdate = fn
	}
	return t
}

// OnStepComplete sets the callback fired once per completed loop cycle.
func (t *Tween) OnStepComplete(fn func()) *Tween {
	if t != nil && t.active {
		t.onStepComplete = fn
	}
	return t
}

// OnComplete sets the callback fired once when the tween completes.
func (t *Tween) OnComplete(fn func()) *Tween {
	if t != nil && t.active {
		t.onComplete = fn
	}
	return t
}

// OnKill sets the callback fired when the tween is killed or recycled.
func (t *Tween) OnKill(fn func()) *Tween {
	if t != nil && t.active {
		t.onKill = fn
	}
	return t
}

// Type reports whether the tween is a tweener or a sequence.
func (t *Tween) Type() TweenType { return t.tweenType }

// ID returns the id set with SetID.
func (t *Tween) ID() any { return t.id }

// Target returns the target set with SetTarget.
func (t *Tween) Target() any { return t.target }

// IsActive reports whether the tween is alive (not killed).
func (t *Tween) IsActive() bool { return t != nil && t.active }

// IsPlaying reports whether the tween is playing.
func (t *Tween) IsPlaying() bool { return t.active && t.isPlaying }

// IsComplete reports whether the tween reached its end.
func (t *Tween) IsComplete() bool { return t.active && t.isComplete }

// IsBackwards reports whether the tween is playing backwards.
func (t *Tween) IsBackwards() bool { return t.active && t.isBackwards }

// IsNested reports whether the tween belongs to a sequence.
func (t *Tween) IsNested() bool { return t.isSequenced }

// Position returns the time within the current cycle.
func (t *Tween) Position() float64 { return t.position }

// CompletedLoops returns the number of completed cycles.
func (t *Tween) CompletedLoops() int { return t.completedLoops }

// Loops returns the number of cycles, -1 for infinite.
func (t *Tween) Loops() int { return t.loops }

// Delay returns the start delay.
func (t *Tween) Delay() float64 { return t.delay }

// ElapsedDelay returns how much of the delay already elapsed.
func (t *Tween) ElapsedDelay() float64 { return t.elapsedDelay }

// Duration returns the duration of one cycle, or of every cycle when
// includeLoops is set (+Inf for infinite loops).
func (t *Tween) Duration(includeLoops bool) float64 {
	if !includeLoops {
		return t.duration
	}
	if t.loops == -1 {
		return math.Inf(1)
	}
	return t.duration * float64(t.loops)
}

// Elapsed returns the elapsed time within the current cycle, or since the
// start when includeLoops is set.
func (t *Tween) Elapsed(includeLoops bool) float64 {
	if !includeLoops {
		return t.position
	}
	loops := t.completedLoops
	if loops > 0 && t.position >= t.duration {
		loops--
	}
	return float64(loops)*t.duration + t.position
}

// ElapsedPercentage returns Elapsed as a fraction of Duration.
func (t *Tween) ElapsedPercentage(includeLoops bool) float64 {
	if !includeLoops {
		if t.duration <= 0 {
			return 1
		}
		return t.position / t.duration
	}
	if t.loops == -1 {
		return 0
	}
	full := t.Duration(true)
	if full <= 0 {
		return 1
	}
	return t.Elapsed(true) / full
}

// EvaluateEase returns the tween's eased progress for elapsed time within
// duration. Custom plugins use it to ease segments of their own.
func (t *Tween) EvaluateEase(elapsed, duration float64) float64 {
	return Evaluate(t.easeType, t.easeFunc, elapsed, duration, t.overshoot, t.period)
}

// IncrementalIterations returns how many times the change value must be
// added to the start value for incremental loops of the tween and of the
// sequence it belongs to.
func (t *Tween) IncrementalIterations() float64 {
	var n float64
	if t.loopType == LoopIncremental {
		n = float64(t.cycle())
	}
	if p := t.sequenceParent; t.isSequenced && p != nil && p.loopType == LoopIncremental {
		own := 1.0
		if t.loopType == LoopIncremental {
			own = float64(t.loops)
		}
		n += own * float64(p.walkCycle)
	}
	return n
}

// cycle returns the index of the loop the current position lies in.
func (t *Tween) cycle() int {
	k, _ := t.cycleAt(t.position, t.completedLoops)
	return k
}

// cycleAt splits a (position, completedLoops) pair into a loop index and the
// position inside that loop. A position at the very end belongs to the loop
// that just completed.
func (t *Tween) cycleAt(position float64, completedLoops int) (int, float64) {
	if position >= t.duration && completedLoops > 0 {
		return completedLoops - 1, t.duration
	}
	if position < 0 {
		position = 0
	}
	return completedLoops, position
}

// IsRelative reports whether end values are offsets from start values.
func (t *Tween) IsRelative() bool { return t.isRelative }

// IsFrom reports whether the tween plays from its end value.
func (t *Tween) IsFrom() bool { return t.isFrom }

// LoopType returns the loop type.
func (t *Tween) LoopType() LoopType { return t.loopType }
