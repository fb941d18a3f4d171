package twig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestManager(tb testing.TB) *Manager {
	tb.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Logger = zaptest.NewLogger(tb, zaptest.Level(zapcore.WarnLevel))
	return NewManager(cfg)
}

func newObservedManager(cfg Config) (*Manager, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg.Logger = zap.New(core)
	return NewManager(cfg), logs
}

type eventLog struct{ events []TweenEvent }

func (l *eventLog) EmitEvent(e TweenEvent) { l.events = append(l.events, e) }

type sprite struct{ disposed bool }

func (s *sprite) IsDisposed() bool { return s.disposed }

func TestManagerPoolReuse(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	target := &sprite{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetID("fade").SetTarget(target).SetLoops(4, LoopYoyo).
		OnComplete(func() {}).OnKill(func() {})
	m.Update(0.5, 0.5)
	tw.Kill(false)

	pooled, _ := m.Pooled()
	require.Equal(t, 1, pooled)

	q := &floatProp{}
	tw2 := m.ToFloat(q.get, q.set, 3, 2)
	require.Same(t, tw, tw2)
	assert.True(t, tw2.IsActive())
	assert.Nil(t, tw2.ID())
	assert.Nil(t, tw2.Target())
	assert.Nil(t, tw2.disposer)
	assert.Nil(t, tw2.onComplete)
	assert.Nil(t, tw2.onKill)
	assert.Equal(t, 1, tw2.Loops())
	assert.Equal(t, 0, tw2.CompletedLoops())
	assert.Equal(t, 0.0, tw2.Position())
	assert.Equal(t, 0.0, tw2.StartValue)
	assert.Equal(t, OutQuad, tw2.easeType)
	assert.True(t, tw2.autoKill)
	assert.False(t, tw2.startupDone)
	assert.False(t, tw2.playedOnce)

	pooled, _ = m.Pooled()
	assert.Equal(t, 0, pooled)

	m.Update(2, 2)
	assert.Equal(t, 3.0, q.v)
	assert.Equal(t, 5.0, p.v, "the old property is no longer written")
}

func TestManagerPoolsAreKeyedByType(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	linearFloat(m, p, 1, 1).Kill(false)

	n := 0
	it := m.ToInt(func() int { return n }, func(v int) { n = v }, 10, 1)
	pooled, _ := m.Pooled()
	assert.Equal(t, 1, pooled, "an int tween does not reuse a float tween")
	assert.True(t, it.IsActive())

	s := m.Sequence()
	s.Kill(false)
	_, seqs := m.Pooled()
	assert.Equal(t, 1, seqs)
	assert.Same(t, s, m.Sequence())

	m.ClearPools()
	pooled, seqs = m.Pooled()
	assert.Zero(t, pooled)
	assert.Zero(t, seqs)
}

func TestManagerCapacityGrowth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TweenerCapacity = 2
	cfg.SequenceCapacity = 1
	m, logs := newObservedManager(cfg)

	for i := 0; i < 3; i++ {
		linearFloat(m, &floatProp{}, 1, 1)
	}
	tweeners, sequences := m.Capacity()
	assert.Equal(t, 200, tweeners)
	assert.Equal(t, 1, sequences)
	assert.Equal(t, 1, logs.FilterMessage("tween capacity increased").Len())

	m.Sequence()
	m.Sequence()
	_, sequences = m.Capacity()
	assert.Equal(t, 50, sequences)
	assert.Equal(t, 2, logs.FilterMessage("tween capacity increased").Len())

	m.SetCapacity(10, 10)
	tweeners, sequences = m.Capacity()
	assert.Equal(t, 200, tweeners, "capacity never shrinks")
	assert.Equal(t, 50, sequences)
	m.SetCapacity(500, 60)
	tweeners, sequences = m.Capacity()
	assert.Equal(t, 500, tweeners)
	assert.Equal(t, 60, sequences)
	assert.GreaterOrEqual(t, len(m.active), 560)
}

func TestGrownCapacity(t *testing.T) {
	assert.Equal(t, 200, grownCapacity(2, 200))
	assert.Equal(t, 300, grownCapacity(200, 200))
	assert.Equal(t, 450, grownCapacity(300, 200))
	assert.Equal(t, 2, grownCapacity(1, 0))
}

func TestManagerReorganize(t *testing.T) {
	m := newTestManager(t)
	tweens := make([]*FloatTween, 5)
	for i := range tweens {
		tweens[i] = linearFloat(m, &floatProp{}, 1, 1)
		tweens[i].SetID(i)
	}
	tweens[1].Kill(false)
	tweens[3].Kill(false)
	assert.True(t, m.requiresReorganization)
	assert.Equal(t, 3, m.TotalActive())

	m.Update(0.1, 0.1)
	assert.False(t, m.requiresReorganization)
	assert.Equal(t, 2, m.maxActiveID)
	for i, want := range []int{0, 2, 4} {
		require.NotNil(t, m.active[i])
		assert.Equal(t, want, m.active[i].ID())
		assert.Equal(t, i, m.active[i].activeID)
	}
	assert.Nil(t, m.active[3])
	assert.Nil(t, m.active[4])
}

func TestManagerTweensCreatedInCallbackWaitForNextFrame(t *testing.T) {
	m := newTestManager(t)
	p, q := &floatProp{}, &floatProp{}
	var spawned *FloatTween
	linearFloat(m, p, 10, 1).OnComplete(func() {
		spawned = linearFloat(m, q, 10, 1)
	})

	m.Update(1, 1)
	require.NotNil(t, spawned)
	assert.Equal(t, 0.0, q.v)
	assert.Equal(t, 0.0, spawned.Position())
	assert.Equal(t, 1, m.TotalActive())

	m.Update(0.5, 0.5)
	assert.Equal(t, 5.0, q.v)
}

func TestManagerKillFromCallback(t *testing.T) {
	m := newTestManager(t)
	p, q := &floatProp{}, &floatProp{}
	killed := 0
	var activeInCallback bool
	b := linearFloat(m, q, 10, 1)
	a := linearFloat(m, p, 10, 1)
	b.OnKill(func() { killed++ })
	a.OnUpdate(func() {
		b.Kill(false)
		activeInCallback = b.IsActive()
	})

	m.Update(0.5, 0.5)
	assert.False(t, activeInCallback, "kills deactivate at once")
	assert.Equal(t, 1, killed)
	assert.Equal(t, 5.0, p.v)
	assert.Equal(t, 1, m.TotalActive())
}

func TestManagerKilledSiblingIsNotAdvanced(t *testing.T) {
	m := newTestManager(t)
	p, q := &floatProp{}, &floatProp{}
	a := linearFloat(m, p, 10, 1)
	b := linearFloat(m, q, 10, 1)
	a.OnUpdate(func() { b.Kill(false) })

	m.Update(0.5, 0.5)
	assert.Equal(t, 0.0, q.v)
}

func TestManagerFilteredKillFromCallback(t *testing.T) {
	m := newTestManager(t)
	p, q := &floatProp{}, &floatProp{}
	kills := map[string]int{}
	a := linearFloat(m, p, 10, 1)
	a.SetID("group").OnKill(func() { kills["a"]++ })
	b := linearFloat(m, q, 10, 1)
	b.SetID("group").OnKill(func() { kills["b"]++ })

	n := -1
	a.OnUpdate(func() {
		if n < 0 {
			n = m.Kill("group", false)
		}
	})

	m.Update(0.5, 0.5)
	assert.Equal(t, 2, n)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, kills)
	assert.Equal(t, 0, m.TotalActive())
}

func TestManagerFilteredKillByTarget(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 3; i++ {
		linearFloat(m, &floatProp{}, 1, 1).SetTarget("A")
	}
	for i := 0; i < 2; i++ {
		linearFloat(m, &floatProp{}, 1, 1).SetTarget("B")
	}

	assert.Equal(t, 3, m.FilteredOperation(OpDespawn, "A", false, 0))
	assert.Equal(t, 2, m.TotalActive())
	for _, tw := range m.Active(nil) {
		assert.Equal(t, "B", tw.Target())
	}
	assert.Len(t, m.ActiveByTarget("B", nil), 2)
	assert.Empty(t, m.ActiveByTarget("A", nil))
}

func TestManagerFilterKinds(t *testing.T) {
	m := newTestManager(t)
	s := &sprite{}
	linearFloat(m, &floatProp{}, 1, 1).SetID(42)
	linearFloat(m, &floatProp{}, 1, 1).SetTarget(s)
	linearFloat(m, &floatProp{}, 1, 1).SetTarget([]int{1})
	linearFloat(m, &floatProp{}, 1, 1).SetID("42")

	assert.Equal(t, 1, m.Pause(42))
	assert.Equal(t, 1, m.Pause(s))
	assert.Equal(t, 0, m.Pause(&sprite{}), "pointers match by identity")
	assert.Equal(t, 0, m.Pause([]int{1}), "uncomparable filters match nothing")
	assert.Equal(t, 1, m.Pause("42"))
	assert.Equal(t, 1, m.PauseAll())
	assert.Equal(t, 4, m.PlayAll())
	assert.Equal(t, 4, m.KillAll(false))
}

func TestManagerFilteredOperations(t *testing.T) {
	m := newTestManager(t)
	props := make([]*floatProp, 3)
	for i := range props {
		props[i] = &floatProp{}
		linearFloat(m, props[i], 10, 1).SetTarget("ui").SetAutoKill(false)
	}
	other := linearFloat(m, &floatProp{}, 10, 1)
	other.SetTarget("world")

	m.Update(0.5, 0.5)
	assert.Equal(t, 4, m.TotalPlaying())

	assert.Equal(t, 3, m.Pause("ui"))
	assert.Equal(t, 0, m.Pause("ui"))
	assert.False(t, m.IsTweening("ui", true))
	assert.True(t, m.IsTweening("ui", false))
	assert.Equal(t, 1, m.TotalPlaying())

	assert.Equal(t, 3, m.Play("ui"))
	assert.Equal(t, 3, m.TogglePause("ui"))
	assert.Equal(t, 3, m.TogglePause("ui"))
	assert.Equal(t, 4, m.TotalPlaying())

	assert.Equal(t, 3, m.Flip("ui"))
	assert.Equal(t, 3, m.PlayForward("ui"))
	assert.Equal(t, 0, m.PlayForward("ui"))
	assert.Equal(t, 3, m.PlayBackwards("ui"))
	assert.Equal(t, 3, m.PlayForward("ui"))

	assert.Equal(t, 3, m.Goto("ui", 0.25, false))
	for _, p := range props {
		assert.Equal(t, 2.5, p.v)
	}

	assert.Equal(t, 3, m.Rewind("ui", false))
	assert.Equal(t, 0, m.Rewind("ui", false))
	for _, p := range props {
		assert.Equal(t, 0.0, p.v)
	}

	assert.Equal(t, 3, m.Restart("ui", false))
	assert.Equal(t, 3, m.Complete("ui", false))
	assert.Equal(t, 0, m.Complete("ui", false))
	for _, p := range props {
		assert.Equal(t, 10.0, p.v)
	}

	assert.Equal(t, 3, m.Kill("ui", false))
	assert.False(t, m.IsTweening("ui", false))
	assert.True(t, other.IsActive())
}

func TestManagerGotoFiresCallbacks(t *testing.T) {
	m := newTestManager(t)
	p := &floatProp{}
	r := &recorder{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetID("hero").SetLoops(2, LoopRestart).SetAutoKill(false)
	r.watch(&tw.Tween)

	assert.Equal(t, 1, m.Goto("hero", 1.5, true))
	assert.Equal(t, 5.0, p.v)
	assert.Equal(t, 1, r.count("start"))
	assert.Equal(t, 1, r.count("step"))

	m.Goto("hero", 2, true)
	assert.Equal(t, 2, r.count("step"))
	assert.Equal(t, 1, r.count("complete"))

	before := len(r.calls)
	assert.Equal(t, 1, m.GotoSilent("hero", 0.5, false))
	assert.Equal(t, 5.0, p.v)
	assert.Equal(t, 0, tw.CompletedLoops())
	assert.Len(t, r.calls, before, "silent goto fires nothing")
}

func TestManagerKillWithComplete(t *testing.T) {
	m := newTestManager(t)
	props := make([]*floatProp, 3)
	completed := 0
	for i := range props {
		props[i] = &floatProp{}
		linearFloat(m, props[i], 10, 1).SetID("x").OnComplete(func() { completed++ })
	}

	assert.Equal(t, 3, m.Kill("x", true))
	assert.Equal(t, 3, completed)
	for _, p := range props {
		assert.Equal(t, 10.0, p.v)
	}
	assert.Zero(t, m.TotalActive())
}

func TestManagerCounters(t *testing.T) {
	m := newTestManager(t)
	linearFloat(m, &floatProp{}, 1, 1)
	nested := linearFloat(m, &floatProp{}, 1, 1)
	m.Sequence().Append(nested)

	assert.Equal(t, 2, m.TotalActive())
	assert.Equal(t, 1, m.TotalActiveTweeners())
	assert.Equal(t, 1, m.TotalActiveSequences())
	assert.Len(t, m.Active(nil), 2)
}

func TestManagerSafeModeCallbackPanic(t *testing.T) {
	m, logs := newObservedManager(DefaultConfig())
	p, q := &floatProp{}, &floatProp{}
	linearFloat(m, p, 10, 1).OnStart(func() { panic("boom") })
	linearFloat(m, q, 10, 1)

	require.NotPanics(t, func() { m.Update(0.5, 0.5) })
	assert.Equal(t, 5.0, p.v)
	assert.Equal(t, 5.0, q.v)
	entries := logs.FilterMessage("tween callback panicked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "onStart", entries[0].ContextMap()["callback"])
}

func TestManagerSafeModeGetterAndSetterPanics(t *testing.T) {
	m, logs := newObservedManager(DefaultConfig())
	q := &floatProp{}
	bad := m.ToFloat(func() float64 { panic("getter") }, func(float64) {}, 1, 1)
	worse := m.ToFloat(func() float64 { return 0 }, func(float64) { panic("setter") }, 1, 1)
	linearFloat(m, q, 10, 1)

	m.Update(0.5, 0.5)
	assert.False(t, bad.IsActive())
	assert.False(t, worse.IsActive())
	assert.Equal(t, 5.0, q.v)
	assert.Equal(t, 1, logs.FilterMessage("tween getter failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("tween apply failed").Len())
	assert.Equal(t, 1, m.TotalActive())
}

func TestManagerUnsafeModePropagates(t *testing.T) {
	m := newTestManager(t)
	m.SetSafeMode(false)
	linearFloat(m, &floatProp{}, 10, 1).OnStart(func() { panic("boom") })

	assert.PanicsWithValue(t, "boom", func() { m.Update(0.5, 0.5) })
}

func TestManagerDisposedTarget(t *testing.T) {
	m, logs := newObservedManager(DefaultConfig())
	p := &floatProp{}
	s := &sprite{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetTarget(s)

	m.Update(0.5, 0.5)
	assert.Equal(t, 5.0, p.v)
	s.disposed = true
	m.Update(0.25, 0.25)
	assert.Equal(t, 5.0, p.v)
	assert.False(t, tw.IsActive())
	assert.Equal(t, 1, logs.FilterMessage("tween apply failed").Len())

	q := &floatProp{}
	dead := &sprite{disposed: true}
	tw2 := linearFloat(m, q, 10, 1)
	tw2.SetTarget(dead)
	m.Update(0.5, 0.5)
	assert.False(t, tw2.IsActive())
	assert.Equal(t, 0.0, q.v)
	entries := logs.FilterMessage("tween startup failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, ErrTargetDisposed.Error(), entries[0].ContextMap()["error"])
}

func TestManagerDebugMisusePanics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug = true
	m, _ := newObservedManager(cfg)
	nested := linearFloat(m, &floatProp{}, 1, 1)
	m.Sequence().Append(nested)

	assert.PanicsWithValue(t, "twig debug: Play on tween <nil>: tween is nested in a sequence", func() {
		nested.Play()
	})

	killed := linearFloat(m, &floatProp{}, 1, 1)
	killed.Kill(false)
	assert.NotPanics(t, func() { killed.Play() }, "stale handles are ignored even in debug mode")
}

func TestManagerReleaseMisuseIsNoop(t *testing.T) {
	m, logs := newObservedManager(DefaultConfig())
	p := &floatProp{}
	nested := linearFloat(m, p, 10, 1)
	s := m.Sequence().Append(nested)

	nested.Play()
	nested.Kill(false)
	assert.True(t, nested.IsActive())
	assert.Equal(t, 2, logs.FilterMessage("tween misuse").Len())

	reentered := false
	s.OnUpdate(func() {
		m.Update(1, 1)
		reentered = true
	})
	m.Update(0.5, 0.5)
	assert.True(t, reentered)
	assert.Equal(t, 5.0, p.v, "the nested update is refused")
	misuse := logs.FilterMessage("tween misuse").FilterField(zap.String("op", "Update"))
	assert.Equal(t, 1, misuse.Len())
}

func TestManagerDebugSweepStats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug = true
	m, logs := newObservedManager(cfg)
	linearFloat(m, &floatProp{}, 1, 1)
	linearFloat(m, &floatProp{}, 1, 0.5)

	m.Update(0.5, 0.5)
	entries := logs.FilterMessage("tween sweep").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "Normal", ctx["channel"])
	assert.EqualValues(t, 2, ctx["advanced"])
	assert.EqualValues(t, 1, ctx["killed"])
	assert.EqualValues(t, 1, ctx["active"])
}

func TestManagerEvents(t *testing.T) {
	m := newTestManager(t)
	sink := &eventLog{}
	m.SetEventSink(sink)
	tw := linearFloat(m, &floatProp{}, 1, 1)
	tw.SetID("hero").SetLoops(2, LoopRestart)

	m.Update(2, 2)
	var types []EventType
	for _, e := range sink.events {
		types = append(types, e.Type)
		assert.Equal(t, "hero", e.ID)
		assert.Equal(t, TweenTypeTweener, e.TweenType)
	}
	assert.Equal(t, []EventType{EventStart, EventStepComplete, EventStepComplete, EventComplete, EventKill}, types)
	assert.Equal(t, 2, sink.events[len(sink.events)-1].CompletedLoops)
	assert.Equal(t, "Kill", EventKill.String())
}

func TestManagerConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TweenerCapacity = 0
	cfg.TimeScale = -1
	cfg.DefaultEase = Custom
	cfg.DefaultAutoPlay = AutoPlayNone
	cfg.DefaultUpdateType = UpdateType(9)
	m := NewManager(cfg)

	tweeners, _ := m.Capacity()
	assert.Equal(t, 200, tweeners)
	assert.Equal(t, 1.0, m.Config().TimeScale)
	assert.Equal(t, OutQuad, m.Config().DefaultEase)
	assert.Equal(t, UpdateNormal, m.Config().DefaultUpdateType)
	assert.NotNil(t, m.Logger())

	p := &floatProp{}
	tw := linearFloat(m, p, 10, 1)
	m.Update(0.5, 0.5)
	assert.False(t, tw.IsPlaying(), "autoplay none")
	assert.Equal(t, 0.0, p.v)
	tw.Play()
	m.Update(0.5, 0.5)
	assert.Equal(t, 5.0, p.v)
}

func TestManagerRejectsUnknownUpdateType(t *testing.T) {
	m, logs := newObservedManager(DefaultConfig())
	p := &floatProp{}
	tw := linearFloat(m, p, 10, 1)
	tw.SetUpdate(UpdateType(9), false)
	assert.Equal(t, 1, logs.FilterMessage("tween misuse").Len())

	m.Update(0.5, 0.5)
	assert.Equal(t, 5.0, p.v, "the tween stays on its channel")
}

func TestManagerLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	m := NewManager(cfg)
	assert.True(t, m.Logger().Core().Enabled(zapcore.WarnLevel))
	assert.False(t, m.Logger().Core().Enabled(zapcore.InfoLevel))

	cfg.LogLevel = "loud"
	m = NewManager(cfg)
	assert.False(t, m.Logger().Core().Enabled(zapcore.ErrorLevel), "bad levels fall back to a no-op logger")

	_, err := NewLogger("loud")
	assert.Error(t, err)
}

func TestManagerSweepDoesNotAllocate(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < 100; i++ {
		p := &floatProp{}
		linearFloat(m, p, 10, 1).SetLoops(-1, LoopYoyo)
	}
	m.Update(0.016, 0.016)

	allocs := testing.AllocsPerRun(100, func() {
		m.Update(0.016, 0.016)
	})
	assert.Zero(t, allocs)
}
