// Package twig is a pooled tweening runtime for games built on [Ebitengine]
// (or any other frame loop).
//
// Twig advances many concurrent interpolations each frame, applies easing
// curves, handles loops (restart, yoyo, incremental), composes tweens into
// timelines ([Manager.Sequence]) and recycles every tween it hands out so steady-state
// frames do not allocate.
//
// # Quick start
//
// Create a [Manager] and call [Manager.Update] once per frame:
//
//	m := twig.NewManager(twig.DefaultConfig())
//
//	x := 0.0
//	m.ToFloat(func() float64 { return x }, func(v float64) { x = v }, 100, 1.5).
//		SetEase(twig.OutBounce).
//		SetLoops(2, twig.LoopYoyo)
//
//	// inside your game's Update:
//	m.Update(dt, dt)
//
// The second argument to Update is the time-scale independent delta. Tweens
// created with SetUpdate(twig.UpdateNormal, true) advance with it, which keeps
// UI animations running while gameplay time is paused. The twig/driver package
// wires this to an ebiten.Game for you.
//
// # Tweens and sequences
//
// Every animation is a [Tween]. A tweener drives one value through a getter and
// setter pair using a value strategy ([Plugin]); a sequence is a timeline of
// tweens, intervals and callbacks:
//
//	seq := m.Sequence()
//	seq.Append(m.ToVec2(getPos, setPos, twig.Vec2{X: 200}, 1))
//	seq.Join(m.ToColor(getTint, setTint, twig.Color{R: 1, A: 1}, 1))
//	seq.AppendInterval(0.5)
//	seq.AppendCallback(func() { fmt.Println("done") })
//
// Tweens nested in a sequence are owned by it: they cannot be controlled
// directly and are recycled when the sequence is.
//
// # Bulk control
//
// Tweens can be tagged with an id ([Tween.SetID]) or a target
// ([Tween.SetTarget]) and controlled in bulk:
//
//	m.Kill("enemy-7", false)
//	m.Pause(player)
//
// # Safe mode
//
// With [Config.SafeMode] on (the default) panics raised by getters, setters and
// callbacks are recovered and logged through zap; the offending tween is killed
// and the rest of the frame continues. Targets implementing [Disposable] are
// checked before every write.
//
// [Ebitengine]: https://ebitengine.org
package twig
