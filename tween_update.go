package twig

import "math"

// Deltas smaller than this are treated as zero so very high frame rates do
// not accumulate float noise.
const epsilonTime = 1e-6

// updateDelay consumes elapsed (the total time spent waiting so far) and
// returns the part of it left over once the delay completed.
func (t *Tween) updateDelay(elapsed float64) float64 {
	if elapsed > t.delay {
		t.elapsedDelay = t.delay
		t.delayComplete = true
		return elapsed - t.delay
	}
	t.elapsedDelay = elapsed
	return 0
}

// advance moves t forward by one frame and reports whether it must be
// killed.
func (m *Manager) advance(t *Tween, deltaTime, independentTime float64) bool {
	if !t.active {
		return true
	}
	if !t.isPlaying {
		return false
	}
	t.creationLocked = true

	dt := deltaTime
	if t.isIndependentUpdate {
		dt = independentTime
	}
	dt *= t.timeScale
	if dt < epsilonTime && dt > -epsilonTime {
		return false
	}

	if !t.delayComplete {
		dt = t.updateDelay(t.elapsedDelay + dt)
		if dt <= 0 {
			return false
		}
		// On the very first play onStart calls onPlay itself.
		if t.playedOnce && t.onPlay != nil {
			m.invoke(t, t.onPlay, "onPlay")
		}
	}

	if !t.startupDone && !t.impl.startup() {
		return true
	}

	toPosition := t.position
	wasEndPosition := toPosition >= t.duration
	toCompletedLoops := t.completedLoops
	if t.duration <= 0 {
		toPosition = 0
		if t.loops == -1 {
			toCompletedLoops = t.completedLoops + 1
		} else {
			toCompletedLoops = t.loops
		}
	} else {
		if t.isBackwards {
			toPosition -= dt
			// Float residue must not hold off the rewind.
			if toPosition > 0 && toPosition < epsilonTime {
				toPosition = 0
			}
			if toPosition < 0 && toCompletedLoops > -1 {
				n := int(math.Ceil(-toPosition / t.duration))
				if n > toCompletedLoops+1 {
					n = toCompletedLoops + 1
				}
				toPosition += float64(n) * t.duration
				toCompletedLoops -= n
			}
			for toPosition < 0 && toCompletedLoops > -1 {
				toPosition += t.duration
				toCompletedLoops--
			}
			if toCompletedLoops < 0 || (wasEndPosition && toCompletedLoops < 1) {
				// Equivalent to a rewind.
				toPosition = 0
				if wasEndPosition {
					toCompletedLoops = 1
				} else {
					toCompletedLoops = 0
				}
			}
		} else {
			toPosition += dt
			// Within epsilonTime of a loop end counts as the end, so float
			// residue cannot hold off completion.
			if toPosition >= t.duration-epsilonTime {
				n := int((toPosition + epsilonTime) / t.duration)
				if t.loops != -1 && n > t.loops-toCompletedLoops {
					n = t.loops - toCompletedLoops
				}
				if n > 0 {
					toPosition -= float64(n) * t.duration
					toCompletedLoops += n
				}
			}
			for toPosition >= t.duration-epsilonTime && (t.loops == -1 || toCompletedLoops < t.loops) {
				toPosition -= t.duration
				toCompletedLoops++
			}
			if toPosition < 0 {
				toPosition = 0
			}
		}
		if wasEndPosition {
			toCompletedLoops--
		}
		if t.loops != -1 && toCompletedLoops >= t.loops {
			toPosition = t.duration
		}
	}

	return m.doGoto(t, toPosition, toCompletedLoops, modeUpdate)
}

// doGoto relocates t to toPosition within cycle toCompletedLoops, applies
// the resulting value and fires callbacks. It reports whether t must be
// killed.
func (m *Manager) doGoto(t *Tween, toPosition float64, toCompletedLoops int, mode updateMode) bool {
	if !t.startupDone && !t.impl.startup() {
		return true
	}

	if !t.playedOnce && mode == modeUpdate {
		t.playedOnce = true
		m.emit(EventStart, t)
		if t.onStart != nil {
			m.invoke(t, t.onStart, "onStart")
			if !t.active {
				return true
			}
		}
		if t.onPlay != nil {
			m.invoke(t, t.onPlay, "onPlay")
			if !t.active {
				return true
			}
		}
	}

	prevPosition := t.position
	prevCompletedLoops := t.completedLoops
	t.completedLoops = toCompletedLoops
	wasRewinded := t.position <= 0 && prevCompletedLoops <= 0
	wasComplete := t.isComplete
	if t.loops != -1 {
		t.isComplete = t.completedLoops == t.loops
	}

	newCompletedSteps := 0
	if mode == modeUpdate {
		if t.isBackwards {
			newCompletedSteps = t.backwardSteps(prevPosition, prevCompletedLoops, toPosition, toCompletedLoops)
		} else if t.completedLoops > prevCompletedLoops {
			newCompletedSteps = t.completedLoops - prevCompletedLoops
		}
	} else if t.tweenType == TweenTypeSequence {
		newCompletedSteps = prevCompletedLoops - toCompletedLoops
		if newCompletedSteps < 0 {
			newCompletedSteps = -newCompletedSteps
		}
	}

	// Position 0 equals position "end" once at least one loop completed.
	t.position = toPosition
	if t.position > t.duration {
		t.position = t.duration
	} else if t.position <= 0 {
		if t.completedLoops > 0 || t.isComplete {
			t.position = t.duration
		} else {
			t.position = 0
		}
	}

	wasPlaying := t.isPlaying
	if t.isPlaying {
		if !t.isBackwards {
			t.isPlaying = !t.isComplete
		} else {
			t.isPlaying = !(t.completedLoops == 0 && t.position <= 0)
		}
	}

	useInversePosition := t.hasLoops() && t.loopType == LoopYoyo &&
		((t.position < t.duration && t.completedLoops%2 != 0) ||
			(t.position >= t.duration && t.completedLoops%2 == 0))

	if t.impl.applyTween(prevPosition, prevCompletedLoops, newCompletedSteps, useInversePosition, mode) {
		return true
	}
	if !t.active {
		return true
	}

	if t.onUpdate != nil && mode != modeIgnoreOnUpdate {
		m.invoke(t, t.onUpdate, "onUpdate")
	}
	if t.position <= 0 && t.completedLoops <= 0 && !wasRewinded && t.onRewind != nil {
		m.invoke(t, t.onRewind, "onRewind")
	}
	if newCompletedSteps > 0 && mode == modeUpdate {
		for i := 0; i < newCompletedSteps; i++ {
			m.emit(EventStepComplete, t)
			if t.onStepComplete != nil {
				m.invoke(t, t.onStepComplete, "onStepComplete")
			}
		}
	}
	if t.isComplete && !wasComplete && mode != modeIgnoreOnComplete {
		m.emit(EventComplete, t)
		if t.onComplete != nil {
			m.invoke(t, t.onComplete, "onComplete")
		}
	}
	if !t.isPlaying && wasPlaying && (!t.isComplete || !t.autoKill) && t.onPause != nil {
		m.invoke(t, t.onPause, "onPause")
	}

	return t.autoKill && t.isComplete
}

// backwardSteps counts the loop boundaries reached while moving backwards
// from one (position, completedLoops) pair to another. Landing exactly on a
// boundary counts it and leaving it later does not, matching forward moves.
func (t *Tween) backwardSteps(fromPos float64, fromLoops int, toPos float64, toLoops int) int {
	// Highest boundary strictly below the start.
	hi := fromLoops
	if fromPos <= 0 || fromPos >= t.duration {
		hi--
	}
	// Lowest boundary at or above the destination.
	lo := toLoops
	if toPos > 0 && toPos < t.duration {
		lo++
	}
	if hi < lo {
		return 0
	}
	return hi - lo + 1
}

// gotoTween relocates t to the absolute time to (loops included) and
// reports whether it must be killed.
func (m *Manager) gotoTween(t *Tween, to float64, andPlay bool, mode updateMode) bool {
	wasPlaying := t.isPlaying
	t.isPlaying = andPlay
	t.delayComplete = true
	t.elapsedDelay = t.delay

	var toCompletedLoops int
	var toPosition float64
	if t.duration <= 0 {
		toCompletedLoops = 1
	} else {
		q := to / t.duration
		toCompletedLoops = int(math.Floor(q))
		// Floor of an exact multiple can land one short (0.3/0.1 = 2.9999...).
		if r := math.Round(q); math.Abs(q-r) < 1e-9 {
			toCompletedLoops = int(r)
		}
		if q > math.MaxInt32 {
			toCompletedLoops = math.MaxInt32
		}
		toPosition = to - float64(toCompletedLoops)*t.duration
		if toPosition < 0 {
			toPosition = 0
		}
	}
	if t.loops != -1 && toCompletedLoops >= t.loops {
		toCompletedLoops = t.loops
		toPosition = t.duration
	} else if toPosition >= t.duration {
		toPosition = 0
	}

	needsKilling := m.doGoto(t, toPosition, toCompletedLoops, mode)
	if !andPlay && wasPlaying && !needsKilling && t.onPause != nil {
		m.invoke(t, t.onPause, "onPause")
	}
	return needsKilling
}

// forceInit runs the startup of a tween that never advanced. A standalone
// tween whose startup fails is killed.
func (m *Manager) forceInit(t *Tween) {
	if t.startupDone {
		return
	}
	if !t.impl.startup() && !t.isSequenced {
		m.markForKilling(t)
	}
}
