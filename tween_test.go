package twig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type floatProp struct{ v float64 }

func (p *floatProp) get() float64  { return p.v }
func (p *floatProp) set(v float64) { p.v = v }

// recorder collects callback names in firing order.
type recorder struct{ calls []string }

func (r *recorder) add(name string) func() {
	return func() { r.calls = append(r.calls, name) }
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (r *recorder) watch(t *Tween) {
	t.OnStart(r.add("start")).
		OnPlay(r.add("play")).
		OnPause(r.add("pause")).
		OnRewind(r.add("rewind")).
		OnStepComplete(r.add("step")).
		OnComplete(r.add("complete")).
		OnKill(r.add("kill"))
}

func linearFloat(m *Manager, p *floatProp, end, duration float64) *FloatTween {
	tw := m.ToFloat(p.get, p.set, end, duration)
	tw.SetEase(Linear)
	return tw
}

func TestTweenReachesEndValue(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	linearFloat(m, p, 10, 1)

	m.Update(0.25, 0.25)
	assert.Equal(t, 2.5, p.v)
	m.Update(0.75, 0.75)
	assert.Equal(t, 10.0, p.v)
	assert.Equal(t, 0, m.TotalActive(), "autokill releases the tween")
}

func TestTweenCallbackOrder(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	r.watch(&tw.Tween)

	m.Update(1, 1)
	assert.Equal(t, []string{"start", "play", "step", "complete", "kill"}, r.calls)
}

func TestTweenLoopCountingSmallSteps(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetLoops(3, LoopRestart).SetAutoKill(false)
	r.watch(&tw.Tween)

	for i := 0; i < 24; i++ {
		m.Update(0.125, 0.125)
	}
	assert.Equal(t, 3, tw.CompletedLoops())
	assert.True(t, tw.IsComplete())
	assert.False(t, tw.IsPlaying())
	assert.Equal(t, 3, r.count("step"))
	assert.Equal(t, 1, r.count("complete"))
	assert.Equal(t, 10.0, p.v)

	// Further updates do nothing to a completed tween.
	m.Update(1, 1)
	assert.Equal(t, 1, r.count("complete"))
}

func TestTweenFiniteLoopsInOneUpdate(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetLoops(3, LoopRestart).SetAutoKill(false)
	r.watch(&tw.Tween)

	m.Update(3, 3)
	assert.Equal(t, 3, tw.CompletedLoops())
	assert.True(t, tw.IsComplete())
	assert.Equal(t, 1, r.count("complete"))
	assert.Equal(t, 3, r.count("step"))
	assert.Equal(t, 1.0, tw.Position())
}

func TestTweenCatchUpMatchesSmallSteps(t *testing.T) {
	run := func(steps int, dt float64) (float64, int, float64, int) {
		m := newTestManager(t)
		p := &floatProp{}
		r := &recorder{}
		tw := linearFloat(m, p, 10, 1)
		tw.SetLoops(5, LoopRestart).SetAutoKill(false)
		r.watch(&tw.Tween)
		for i := 0; i < steps; i++ {
			m.Update(dt, dt)
		}
		return tw.Position(), tw.CompletedLoops(), p.v, r.count("step")
	}

	pos1, loops1, v1, steps1 := run(1, 3.5)
	pos2, loops2, v2, steps2 := run(28, 0.125)
	assert.Equal(t, 0.5, pos1)
	assert.Equal(t, 3, loops1)
	assert.Equal(t, 5.0, v1)
	assert.Equal(t, 3, steps1)
	assert.Equal(t, pos1, pos2)
	assert.Equal(t, loops1, loops2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, steps1, steps2)
}

func TestTweenBackwardsCatchUpMatchesSmallSteps(t *testing.T) {
	run := func(steps int, dt float64) (float64, int, float64, int) {
		m := newTestManager(t)
		p := &floatProp{}
		tw := linearFloat(m, p, 10, 1)
		tw.SetLoops(5, LoopYoyo).SetAutoKill(false)
		m.Update(5, 5)
		require.True(t, tw.IsComplete())

		stepped := 0
		tw.OnStepComplete(func() { stepped++ })
		tw.PlayBackwards()
		for i := 0; i < steps; i++ {
			m.Update(dt, dt)
		}
		return tw.Position(), tw.CompletedLoops(), p.v, stepped
	}

	pos1, loops1, v1, steps1 := run(1, 3.5)
	pos2, loops2, v2, steps2 := run(28, 0.125)
	assert.Equal(t, 0.5, pos1)
	assert.Equal(t, 1, loops1)
	assert.Equal(t, 5.0, v1)
	assert.Equal(t, 3, steps1, "loop ends at 4, 3 and 2")
	assert.Equal(t, pos1, pos2)
	assert.Equal(t, loops1, loops2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, steps1, steps2)
}

func TestTweenFloatResidueStillCompletes(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetLoops(3, LoopRestart).SetAutoKill(false)
	r.watch(&tw.Tween)

	// 0.1 is not exact in binary: ten of them sum to just under 1.
	for i := 0; i < 30; i++ {
		m.Update(0.1, 0.1)
	}
	assert.True(t, tw.IsComplete())
	assert.Equal(t, 3, tw.CompletedLoops())
	assert.Equal(t, 3, r.count("step"))
	assert.Equal(t, 1, r.count("complete"))
	assert.Equal(t, 10.0, p.v)
}

func TestTweenYoyoRoundTrip(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{v: 3}
	tw := linearFloat(m, p, 10, 1)
	tw.SetLoops(2, LoopYoyo).SetAutoKill(false)

	m.Update(1.25, 1.25)
	assert.Equal(t, 1, tw.CompletedLoops())
	assert.InDelta(t, 3+7*0.75, p.v, 1e-12, "second cycle runs backwards")

	m.Update(0.75, 0.75)
	require.True(t, tw.IsComplete())
	assert.Equal(t, 3.0, p.v)

	tw.PlayBackwards()
	require.True(t, tw.IsPlaying())
	m.Update(2, 2)
	assert.Equal(t, 0.0, tw.Position())
	assert.Equal(t, 0, tw.CompletedLoops())
	assert.Equal(t, 3.0, p.v)
	assert.False(t, tw.IsPlaying())
}

func TestTweenIncrementalLoops(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetLoops(3, LoopIncremental).SetAutoKill(false)

	m.Update(1.5, 1.5)
	assert.Equal(t, 15.0, p.v)
	m.Update(1.5, 1.5)
	assert.True(t, tw.IsComplete())
	assert.Equal(t, 30.0, p.v)
}

func TestTweenInfiniteLoops(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetLoops(-1, LoopRestart)

	m.Update(10.5, 10.5)
	assert.Equal(t, 10, tw.CompletedLoops())
	assert.False(t, tw.IsComplete())
	assert.Equal(t, 5.0, p.v)
	assert.Equal(t, -1, tw.Loops())
	assert.Equal(t, 0.0, tw.ElapsedPercentage(true))

	// Infinite tweens cannot be completed.
	assert.Equal(t, 0, m.Complete(nil, true))
}

func TestTweenDelay(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{v: -1}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetDelay(0.5)
	r.watch(&tw.Tween)
	tw.Setter = func(v float64) { p.v = v }
	getterCalls := 0
	tw.Getter = func() float64 { getterCalls++; return 0 }

	m.Update(0.25, 0.25)
	assert.Equal(t, -1.0, p.v, "nothing is written while delayed")
	assert.Equal(t, 0, getterCalls, "start value is captured after the delay")
	assert.Equal(t, 0.25, tw.ElapsedDelay())
	assert.Empty(t, r.calls)

	m.Update(0.5, 0.5)
	assert.Equal(t, 0.5, tw.ElapsedDelay())
	assert.Equal(t, 0.25, tw.Position(), "the rest of the frame advances the tween")
	assert.Equal(t, 2.5, p.v)
	assert.Equal(t, []string{"start", "play"}, r.calls)
}

func TestTweenZeroDuration(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 0)
	r.watch(&tw.Tween)

	m.Update(0.016, 0.016)
	assert.Equal(t, 10.0, p.v)
	assert.Equal(t, 1, r.count("complete"))
	assert.Equal(t, 1, r.count("kill"))
}

func TestTweenTinyDeltaIgnored(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	r.watch(&tw.Tween)

	m.Update(1e-9, 1e-9)
	assert.Empty(t, r.calls)
	assert.Equal(t, 0.0, tw.Position())
}

func TestTweenFrom(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	tw := linearFloat(m, p, 10, 1)
	tw.From(false)
	assert.Equal(t, 10.0, p.v, "from jumps to the end value at once")
	assert.True(t, tw.IsFrom())

	m.Update(0.5, 0.5)
	assert.Equal(t, 5.0, p.v)
	m.Update(0.5, 0.5)
	assert.Equal(t, 0.0, p.v)
}

func TestTweenFromRelative(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{v: 4}
	tw := linearFloat(m, p, 6, 1)
	tw.From(true)
	assert.Equal(t, 10.0, p.v)

	m.Update(1, 1)
	assert.Equal(t, 4.0, p.v)
}

func TestTweenFromValue(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	tw := linearFloat(m, p, 10, 1)
	tw.FromValue(3, true, false)
	assert.Equal(t, 3.0, p.v)

	m.Update(0.5, 0.5)
	assert.Equal(t, 6.5, p.v)
}

func TestTweenRelative(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{v: 5}
	tw := linearFloat(m, p, 10, 1)
	tw.SetRelative(true)
	assert.True(t, tw.IsRelative())

	m.Update(1, 1)
	assert.Equal(t, 15.0, p.v)
}

func TestTweenSettersLockedAfterStart(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetAutoKill(false)

	m.Update(0.5, 0.5)
	tw.SetLoops(5, LoopYoyo).SetDelay(2).SetRelative(true)
	assert.Equal(t, 1, tw.Loops())
	assert.Equal(t, 0.0, tw.Delay())
	assert.False(t, tw.IsRelative())

	// Ease stays editable.
	tw.SetEase(InQuad)
	m.Update(0.25, 0.25)
	assert.InDelta(t, 10*0.75*0.75, p.v, 1e-12)
}

func TestTweenGotoFiresCallbacks(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetLoops(3, LoopRestart).SetAutoKill(false)
	r.watch(&tw.Tween)

	tw.Goto(2.5, false)
	assert.Equal(t, 2, tw.CompletedLoops())
	assert.Equal(t, 0.5, tw.Position())
	assert.Equal(t, 5.0, p.v)
	assert.Equal(t, []string{"start", "play", "step", "step", "pause"}, r.calls)

	tw.Goto(3, false)
	assert.True(t, tw.IsComplete())
	assert.Equal(t, 1, r.count("complete"))
	assert.Equal(t, 3, r.count("step"))
}

func TestTweenGotoSilent(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetLoops(3, LoopRestart).SetAutoKill(false)
	r.watch(&tw.Tween)

	tw.GotoSilent(1.75, true)
	assert.Equal(t, 7.5, p.v)
	assert.Equal(t, 1, tw.CompletedLoops())
	assert.True(t, tw.IsPlaying())
	assert.Zero(t, r.count("start"))
	assert.Zero(t, r.count("step"))
}

func TestTweenGotoEndKillsAutoKill(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	r.watch(&tw.Tween)

	tw.Goto(1, false)
	assert.Equal(t, 10.0, p.v)
	assert.Equal(t, 1, r.count("complete"))
	assert.Equal(t, 1, r.count("kill"))
	assert.False(t, tw.IsActive())
}

func TestTweenPauseAndPlay(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	r.watch(&tw.Tween)

	m.Update(0.25, 0.25)
	tw.Pause()
	assert.False(t, tw.IsPlaying())
	m.Update(0.25, 0.25)
	assert.Equal(t, 2.5, p.v)

	tw.TogglePause()
	assert.True(t, tw.IsPlaying())
	m.Update(0.25, 0.25)
	assert.Equal(t, 5.0, p.v)
	assert.Equal(t, []string{"start", "play", "pause", "play"}, r.calls)
}

func TestTweenPlayBackwardsAndRewind(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetAutoKill(false)
	r.watch(&tw.Tween)

	m.Update(1, 1)
	require.True(t, tw.IsComplete())

	tw.PlayBackwards()
	assert.True(t, tw.IsBackwards())
	m.Update(0.25, 0.25)
	assert.Equal(t, 7.5, p.v)
	assert.False(t, tw.IsComplete())

	m.Update(1, 1)
	assert.Equal(t, 0.0, p.v)
	assert.False(t, tw.IsPlaying())
	assert.Equal(t, 1, r.count("rewind"))

	// Already at the start: another backwards play stays paused.
	tw.PlayBackwards()
	assert.False(t, tw.IsPlaying())
	assert.Equal(t, 1, r.count("rewind"))

	tw.PlayForward()
	assert.True(t, tw.IsPlaying())
	assert.False(t, tw.IsBackwards())
}

func TestTweenRewindAndRestart(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetAutoKill(false)
	r.watch(&tw.Tween)

	m.Update(0.5, 0.5)
	tw.Rewind(false)
	assert.Equal(t, 0.0, p.v)
	assert.False(t, tw.IsPlaying())
	assert.Equal(t, 1, r.count("rewind"))
	assert.Equal(t, 1, r.count("pause"))

	tw.Restart(false)
	assert.True(t, tw.IsPlaying())
	m.Update(0.5, 0.5)
	assert.Equal(t, 5.0, p.v)
}

func TestTweenRestartWithDelay(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetAutoKill(false)

	m.Update(1, 1)
	tw.RestartWithDelay(true, 0.5)
	assert.Equal(t, 0.5, tw.Delay())
	m.Update(0.5, 0.5)
	assert.Equal(t, 0.0, p.v)
	m.Update(0.25, 0.25)
	assert.Equal(t, 2.5, p.v)
}

func TestTweenFlip(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	tw := linearFloat(m, p, 10, 1)

	m.Update(0.5, 0.5)
	tw.Flip()
	assert.True(t, tw.IsBackwards())
	m.Update(0.25, 0.25)
	assert.Equal(t, 2.5, p.v)
}

func TestTweenCompleteAndKill(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	r.watch(&tw.Tween)

	tw.Complete(false)
	assert.Equal(t, 10.0, p.v)
	assert.False(t, tw.IsActive(), "autokill tweens die on completion")
	assert.Equal(t, 1, r.count("kill"))

	q := &floatProp{}
	tw2 := linearFloat(m, q, 10, 1)
	tw2.Kill(false)
	assert.Equal(t, 0.0, q.v)
	assert.False(t, tw2.IsActive())
	assert.Equal(t, 0, m.TotalActive())
}

func TestTweenTimeScale(t *testing.T) {
	m := newTestManager(t)
	a, b, c := &floatProp{}, &floatProp{}, &floatProp{}
	linearFloat(m, a, 10, 1).SetTimeScale(2)
	linearFloat(m, b, 10, 1)
	linearFloat(m, c, 10, 1).SetUpdate(UpdateNormal, true)

	m.SetTimeScale(0.5)
	m.Update(0.25, 0.5)
	assert.Equal(t, 2.5, a.v)
	assert.Equal(t, 1.25, b.v)
	assert.Equal(t, 5.0, c.v, "independent tweens use the unscaled delta")
}

func TestTweenUpdateChannels(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	linearFloat(m, p, 10, 1).SetUpdate(UpdateLate, false)

	m.Update(0.5, 0.5)
	m.FixedUpdate(0.5, 0.5)
	m.ManualUpdate(0.5, 0.5)
	assert.Equal(t, 0.0, p.v)
	m.LateUpdate(0.5, 0.5)
	assert.Equal(t, 5.0, p.v)
}

func TestTweenChangeEndValue(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	tw := linearFloat(m, p, 10, 1)

	m.Update(0.5, 0.5)
	tw.ChangeEndValue(20, true)
	m.Update(0.5, 0.5)
	assert.Equal(t, 20.0, p.v)
}

func TestTweenDurationQueries(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	tw := linearFloat(m, p, 10, 2)
	tw.SetLoops(3, LoopRestart)

	m.Update(3, 3)
	assert.Equal(t, 2.0, tw.Duration(false))
	assert.Equal(t, 6.0, tw.Duration(true))
	assert.Equal(t, 1.0, tw.Elapsed(false))
	assert.Equal(t, 3.0, tw.Elapsed(true))
	assert.Equal(t, 0.5, tw.ElapsedPercentage(false))
	assert.Equal(t, 0.5, tw.ElapsedPercentage(true))
	assert.Equal(t, TweenTypeTweener, tw.Type())
	assert.Equal(t, LoopRestart, tw.LoopType())
}

func TestTweenCustomEase(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	tw := m.ToFloat(p.get, p.set, 10, 1)
	tw.SetEaseFunction(func(time, duration, _, _ float64) float64 { return 0.3 })

	m.Update(0.1, 0.1)
	assert.Equal(t, 3.0, p.v)

	q := &floatProp{}
	tw2 := m.ToFloat(q.get, q.set, 10, 1)
	tw2.SetEaseCurve(NewCurve(Keyframe{Time: 0, Value: 0}, Keyframe{Time: 1, Value: 0.5}))
	m.Update(1, 1)
	assert.Equal(t, 5.0, q.v, "curves may end anywhere")
}
