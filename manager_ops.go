package twig

import (
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Operation is a control operation applied by FilteredOperation.
type Operation uint8

const (
	OpDespawn       Operation = iota // kill
	OpComplete                       // complete (optionalFloat > 0 fires callbacks)
	OpFlip                           // reverse direction
	OpGoto                           // jump to optionalFloat firing callbacks, play if optionalBool
	OpGotoSilent                     // OpGoto without callbacks
	OpPause                          // pause
	OpPlay                           // play in the current direction
	OpPlayBackwards                  // play backwards
	OpPlayForward                    // play forwards
	OpRestart                        // restart (optionalBool includes delay, optionalFloat >= 0 replaces it)
	OpRewind                         // rewind (optionalBool includes delay)
	OpTogglePause                    // toggle pause
	OpIsTweening                     // count alive tweens (optionalBool: playing only)
)

// filter matches tweens against an id or target. A nil value matches every
// tween. String values are compared by xxhash first.
type filter struct {
	value      any
	all        bool
	comparable bool
	isString   bool
	hash       uint64
}

func newFilter(value any) filter {
	f := filter{value: value, all: value == nil}
	if f.all {
		return f
	}
	if s, ok := value.(string); ok {
		f.isString = true
		f.comparable = true
		f.hash = xxhash.Sum64String(s)
		return f
	}
	f.comparable = reflect.TypeOf(value).Comparable()
	return f
}

func (f *filter) match(t *Tween) bool {
	if f.all {
		return true
	}
	if !f.comparable {
		return false
	}
	if f.isString {
		if t.idHash == f.hash && t.id == f.value {
			return true
		}
		return t.target == f.value
	}
	return t.id == f.value || t.target == f.value
}

func (f *filter) matchTarget(t *Tween) bool {
	if f.all {
		return true
	}
	return f.comparable && t.target == f.value
}

// FilteredOperation applies op to every standalone tween whose id or target
// equals targetOrID (every tween when targetOrID is nil) and returns how many
// tweens it affected. Tweens are visited newest first; killed tweens are
// deactivated immediately, so kills issued from their callbacks cannot reach
// them twice.
func (m *Manager) FilteredOperation(op Operation, targetOrID any, optionalBool bool, optionalFloat float64) int {
	if m.requiresReorganization && m.busy == 0 {
		m.reorganize()
	}
	f := newFilter(targetOrID)
	count := 0
	m.begin()
	for i := m.maxActiveID; i >= 0; i-- {
		t := m.active[i]
		if t == nil || !t.active || !f.match(t) {
			continue
		}
		switch op {
		case OpDespawn:
			count++
			m.markForKilling(t)
		case OpComplete:
			hadAutoKill := t.autoKill
			mode := modeGoto
			if optionalFloat > 0 {
				mode = modeUpdate
			}
			if m.complete(t, mode) && (!optionalBool || hadAutoKill) {
				count++
			}
		case OpFlip:
			if m.flip(t) {
				count++
			}
		case OpGoto:
			m.gotoOp(t, optionalFloat, optionalBool, modeUpdate)
			count++
		case OpGotoSilent:
			m.gotoOp(t, optionalFloat, optionalBool, modeGoto)
			count++
		case OpPause:
			if m.pause(t) {
				count++
			}
		case OpPlay:
			if m.play(t) {
				count++
			}
		case OpPlayBackwards:
			if m.playBackwards(t) {
				count++
			}
		case OpPlayForward:
			if m.playForward(t) {
				count++
			}
		case OpRestart:
			if m.restart(t, optionalBool, optionalFloat) {
				count++
			}
		case OpRewind:
			if m.rewind(t, optionalBool) {
				count++
			}
		case OpTogglePause:
			if m.togglePause(t) {
				count++
			}
		case OpIsTweening:
			if (!t.isComplete || !t.autoKill) && (!optionalBool || t.isPlaying) {
				count++
			}
		}
	}
	m.end()
	return count
}

// Kill kills the tweens matching targetOrID, completing them first when
// complete is set. It returns the number of killed tweens.
func (m *Manager) Kill(targetOrID any, complete bool) int {
	n := 0
	if complete {
		n = m.FilteredOperation(OpComplete, targetOrID, true, 0)
	}
	return n + m.FilteredOperation(OpDespawn, targetOrID, false, 0)
}

// KillAll kills every tween.
func (m *Manager) KillAll(complete bool) int { return m.Kill(nil, complete) }

// Complete completes the tweens matching targetOrID.
func (m *Manager) Complete(targetOrID any, withCallbacks bool) int {
	var f float64
	if withCallbacks {
		f = 1
	}
	return m.FilteredOperation(OpComplete, targetOrID, false, f)
}

// Flip reverses the direction of the tweens matching targetOrID.
func (m *Manager) Flip(targetOrID any) int {
	return m.FilteredOperation(OpFlip, targetOrID, false, 0)
}

// Goto moves the tweens matching targetOrID to the given time, firing every
// callback crossed on the way.
func (m *Manager) Goto(targetOrID any, to float64, andPlay bool) int {
	return m.FilteredOperation(OpGoto, targetOrID, andPlay, to)
}

// GotoSilent is Goto without callbacks.
func (m *Manager) GotoSilent(targetOrID any, to float64, andPlay bool) int {
	return m.FilteredOperation(OpGotoSilent, targetOrID, andPlay, to)
}

// Pause pauses the tweens matching targetOrID.
func (m *Manager) Pause(targetOrID any) int {
	return m.FilteredOperation(OpPause, targetOrID, false, 0)
}

// PauseAll pauses every tween.
func (m *Manager) PauseAll() int { return m.Pause(nil) }

// Play plays the tweens matching targetOrID.
func (m *Manager) Play(targetOrID any) int {
	return m.FilteredOperation(OpPlay, targetOrID, false, 0)
}

// PlayAll plays every tween.
func (m *Manager) PlayAll() int { return m.Play(nil) }

// PlayBackwards plays the tweens matching targetOrID backwards.
func (m *Manager) PlayBackwards(targetOrID any) int {
	return m.FilteredOperation(OpPlayBackwards, targetOrID, false, 0)
}

// PlayForward plays the tweens matching targetOrID forwards.
func (m *Manager) PlayForward(targetOrID any) int {
	return m.FilteredOperation(OpPlayForward, targetOrID, false, 0)
}

// Restart restarts the tweens matching targetOrID.
func (m *Manager) Restart(targetOrID any, includeDelay bool) int {
	return m.FilteredOperation(OpRestart, targetOrID, includeDelay, -1)
}

// Rewind rewinds the tweens matching targetOrID.
func (m *Manager) Rewind(targetOrID any, includeDelay bool) int {
	return m.FilteredOperation(OpRewind, targetOrID, includeDelay, 0)
}

// TogglePause toggles the tweens matching targetOrID.
func (m *Manager) TogglePause(targetOrID any) int {
	return m.FilteredOperation(OpTogglePause, targetOrID, false, 0)
}

// IsTweening reports whether any tween matching targetOrID is alive, and
// playing when alsoCheckIfPlaying is set.
func (m *Manager) IsTweening(targetOrID any, alsoCheckIfPlaying bool) bool {
	return m.FilteredOperation(OpIsTweening, targetOrID, alsoCheckIfPlaying, 0) > 0
}

// complete jumps t to its end. Infinite tweens cannot complete.
func (m *Manager) complete(t *Tween, mode updateMode) bool {
	if t.loops == -1 || t.isComplete {
		return false
	}
	needsKilling := m.doGoto(t, t.duration, t.loops, mode)
	t.isPlaying = false
	if needsKilling || t.autoKill {
		m.markForKilling(t)
	}
	return true
}

func (m *Manager) flip(t *Tween) bool {
	t.isBackwards = !t.isBackwards
	return true
}

func (m *Manager) gotoOp(t *Tween, to float64, andPlay bool, mode updateMode) {
	if to < 0 {
		to = 0
	}
	if !t.startupDone {
		m.forceInit(t)
		if !t.active {
			return
		}
	}
	if m.gotoTween(t, to, andPlay, mode) {
		m.markForKilling(t)
	}
}

func (m *Manager) pause(t *Tween) bool {
	if !t.isPlaying {
		return false
	}
	t.isPlaying = false
	if t.onPause != nil {
		m.invoke(t, t.onPause, "onPause")
	}
	return true
}

func (m *Manager) play(t *Tween) bool {
	canForward := !t.isBackwards && !t.isComplete
	canBackward := t.isBackwards && (t.completedLoops > 0 || t.position > 0)
	if t.isPlaying || !(canForward || canBackward) {
		return false
	}
	t.isPlaying = true
	// Before the first start (or while delayed) onStart takes care of it.
	if t.playedOnce && t.delayComplete && t.onPlay != nil {
		m.invoke(t, t.onPlay, "onPlay")
	}
	return true
}

func (m *Manager) playBackwards(t *Tween) bool {
	if t.completedLoops == 0 && t.position <= 0 {
		if t.onRewind != nil && !t.isBackwards {
			m.invoke(t, t.onRewind, "onRewind")
		}
		t.isBackwards = true
		t.isPlaying = false
		return false
	}
	if !t.isBackwards {
		t.isBackwards = true
		m.play(t)
		return true
	}
	return m.play(t)
}

func (m *Manager) playForward(t *Tween) bool {
	if t.isComplete {
		t.isBackwards = false
		t.isPlaying = false
		return false
	}
	if t.isBackwards {
		t.isBackwards = false
		m.play(t)
		return true
	}
	return m.play(t)
}

func (m *Manager) restart(t *Tween, includeDelay bool, changeDelayTo float64) bool {
	wasPaused := !t.isPlaying
	t.isBackwards = false
	if changeDelayTo >= 0 && t.tweenType == TweenTypeTweener {
		t.delay = changeDelayTo
	}
	m.rewind(t, includeDelay)
	if !t.active {
		return true
	}
	t.isPlaying = true
	if wasPaused && t.playedOnce && t.delayComplete && t.onPlay != nil {
		m.invoke(t, t.onPlay, "onPlay")
	}
	return true
}

func (m *Manager) rewind(t *Tween, includeDelay bool) bool {
	wasPlaying := t.isPlaying
	t.isPlaying = false
	rewinded := false
	if t.delay > 0 {
		if includeDelay {
			rewinded = t.elapsedDelay > 0
			t.elapsedDelay = 0
			t.delayComplete = false
		} else {
			rewinded = t.elapsedDelay < t.delay
			t.elapsedDelay = t.delay
			t.delayComplete = true
		}
	}
	if t.position > 0 || t.completedLoops > 0 || !t.startupDone {
		rewinded = true
		if m.doGoto(t, 0, 0, modeGoto) {
			m.markForKilling(t)
			return true
		}
		if wasPlaying && t.onPause != nil {
			m.invoke(t, t.onPause, "onPause")
		}
	}
	return rewinded
}

func (m *Manager) togglePause(t *Tween) bool {
	if t.isPlaying {
		return m.pause(t)
	}
	return m.play(t)
}
