package twig

// controllable reports whether op may drive t directly. Nested tweens are
// driven by their sequence and killed tweens by nobody.
func (t *Tween) controllable(op string) bool {
	if t == nil {
		return false
	}
	if !t.active {
		t.m.misuseInactive(t, op)
		return false
	}
	if t.isSequenced {
		t.m.misuse(t, op, "tween is nested in a sequence")
		return false
	}
	return true
}

// Play resumes the tween in its current direction.
func (t *Tween) Play() *Tween {
	if t.controllable("Play") {
		t.m.begin()
		t.m.play(t)
		t.m.end()
	}
	return t
}

// Pause stops the tween where it is.
func (t *Tween) Pause() *Tween {
	if t.controllable("Pause") {
		t.m.begin()
		t.m.pause(t)
		t.m.end()
	}
	return t
}

// TogglePause plays a paused tween and pauses a playing one.
func (t *Tween) TogglePause() *Tween {
	if t.controllable("TogglePause") {
		t.m.begin()
		t.m.togglePause(t)
		t.m.end()
	}
	return t
}

// PlayForward plays the tween forwards.
func (t *Tween) PlayForward() *Tween {
	if t.controllable("PlayForward") {
		t.m.begin()
		t.m.playForward(t)
		t.m.end()
	}
	return t
}

// PlayBackwards plays the tween backwards. A tween that already sits at its
// start stays paused there.
func (t *Tween) PlayBackwards() *Tween {
	if t.controllable("PlayBackwards") {
		t.m.begin()
		t.m.playBackwards(t)
		t.m.end()
	}
	return t
}

// Flip reverses the tween's direction without changing its play state.
func (t *Tween) Flip() *Tween {
	if t.controllable("Flip") {
		t.m.flip(t)
	}
	return t
}

// Restart rewinds the tween and plays it from the start. With includeDelay
// the delay runs again.
func (t *Tween) Restart(includeDelay bool) *Tween {
	return t.RestartWithDelay(includeDelay, -1)
}

// RestartWithDelay restarts the tween and, for tweeners, replaces the delay
// with changeDelayTo when it is not negative.
func (t *Tween) RestartWithDelay(includeDelay bool, changeDelayTo float64) *Tween {
	if t.controllable("Restart") {
		t.m.begin()
		t.m.restart(t, includeDelay, changeDelayTo)
		t.m.end()
	}
	return t
}

// Rewind moves the tween back to its start and pauses it.
func (t *Tween) Rewind(includeDelay bool) *Tween {
	if t.controllable("Rewind") {
		t.m.begin()
		t.m.rewind(t, includeDelay)
		t.m.end()
	}
	return t
}

// Goto moves the tween to the given elapsed time (loops included), firing
// every callback the jump passes over.
func (t *Tween) Goto(to float64, andPlay bool) *Tween {
	if t.controllable("Goto") {
		t.m.begin()
		t.m.gotoOp(t, to, andPlay, modeUpdate)
		t.m.end()
	}
	return t
}

// GotoSilent is Goto without start, step and completion callbacks.
func (t *Tween) GotoSilent(to float64, andPlay bool) *Tween {
	if t.controllable("GotoSilent") {
		t.m.begin()
		t.m.gotoOp(t, to, andPlay, modeGoto)
		t.m.end()
	}
	return t
}

// Complete jumps the tween to its end. Infinite tweens ignore it.
func (t *Tween) Complete(withCallbacks bool) *Tween {
	if t.controllable("Complete") {
		mode := modeGoto
		if withCallbacks {
			mode = modeUpdate
		}
		t.m.begin()
		t.m.complete(t, mode)
		t.m.end()
	}
	return t
}

// Kill removes the tween, completing it first when complete is set. The tween
// goes back to its pool and must not be used afterwards.
func (t *Tween) Kill(complete bool) {
	if !t.controllable("Kill") {
		return
	}
	m := t.m
	m.begin()
	if complete {
		m.complete(t, modeGoto)
	}
	m.markForKilling(t)
	m.end()
}
