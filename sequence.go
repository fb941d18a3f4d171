package twig

import (
	"math"
	"slices"

	"go.uber.org/zap"
)

// seqEntry is one item placed on a sequence's timeline: a nested tween or a
// callback marker (zero length, tween nil).
type seqEntry struct {
	tween    *Tween
	callback func()
	start    float64
	end      float64
}

// Sequence is a timeline of tweens, intervals and callbacks. Create one with
// Manager.Sequence. Entries can only be added before the sequence starts
// playing; nested tweens are owned by the sequence from then on.
type Sequence struct {
	Tween

	entries        []seqEntry
	nestedCount    int
	lastInsertTime float64
}

// Sequence creates an empty sequence.
func (m *Manager) Sequence() *Sequence {
	var s *Sequence
	if n := len(m.sequencePool); n > 0 {
		s = m.sequencePool[n-1]
		m.sequencePool[n-1] = nil
		m.sequencePool = m.sequencePool[:n-1]
		s.pooled = false
	} else {
		if m.totSequences >= m.maxSequences {
			m.growCapacity(false)
		}
		s = &Sequence{}
		s.m = m
		s.impl = s
		s.tweenType = TweenTypeSequence
		s.activeID = -1
		m.totSequences++
	}
	s.setDefaults(&m.cfg)
	s.easeType = Linear
	m.addActive(&s.Tween)
	return s
}

func (s *Sequence) release() {
	m := s.m
	clear(s.entries)
	entries := s.entries[:0]
	s.resetBase()
	s.entries = entries
	s.nestedCount = 0
	s.lastInsertTime = 0
	s.pooled = true
	m.sequencePool = append(m.sequencePool, s)
}

func (s *Sequence) callbacksSet() bool {
	return s.onStart != nil || s.onPlay != nil || s.onPause != nil || s.onRewind != nil ||
		s.onUpdate != nil || s.onStepComplete != nil || s.onComplete != nil || s.onKill != nil
}

// canInsert validates a sequence edit and returns the tween being added.
func (s *Sequence) canInsert(op string, x Tweenable) (*Tween, bool) {
	if s.locked(op) {
		return nil, false
	}
	if x == nil {
		s.m.misuse(nil, op, "nil tween")
		return nil, false
	}
	t := x.tween()
	switch {
	case !t.active:
		s.m.misuse(t, op, "tween is not active")
		return nil, false
	case t.isSequenced:
		s.m.misuse(t, op, "tween is already nested in a sequence")
		return nil, false
	case t == &s.Tween:
		s.m.misuse(t, op, "sequence cannot contain itself")
		return nil, false
	case t.m != s.m:
		s.m.misuse(t, op, "tween belongs to another manager")
		return nil, false
	}
	return t, true
}

// Append adds t at the end of the sequence.
func (s *Sequence) Append(t Tweenable) *Sequence {
	if nt, ok := s.canInsert("Append", t); ok {
		s.insert(nt, s.duration)
	}
	return s
}

// Prepend adds t at the start of the sequence, pushing everything else back.
func (s *Sequence) Prepend(t Tweenable) *Sequence {
	nt, ok := s.canInsert("Prepend", t)
	if !ok {
		return s
	}
	s.clampNestedLoops(nt)
	full := nt.delay + nt.duration*float64(nt.loops)
	s.shift(full)
	s.insert(nt, 0)
	return s
}

// Join adds t at the same position as the last inserted entry.
func (s *Sequence) Join(t Tweenable) *Sequence {
	if nt, ok := s.canInsert("Join", t); ok {
		s.insert(nt, s.lastInsertTime)
	}
	return s
}

// Insert adds t at the given time.
func (s *Sequence) Insert(atPosition float64, t Tweenable) *Sequence {
	if nt, ok := s.canInsert("Insert", t); ok {
		s.insert(nt, atPosition)
	}
	return s
}

// AppendInterval adds empty time at the end of the sequence.
func (s *Sequence) AppendInterval(interval float64) *Sequence {
	if s.locked("AppendInterval") {
		return s
	}
	s.lastInsertTime = s.duration
	s.duration += interval
	return s
}

// PrependInterval adds empty time at the start of the sequence.
func (s *Sequence) PrependInterval(interval float64) *Sequence {
	if s.locked("PrependInterval") {
		return s
	}
	s.lastInsertTime = 0
	s.shift(interval)
	return s
}

// AppendCallback adds a callback at the end of the sequence.
func (s *Sequence) AppendCallback(fn func()) *Sequence {
	if fn != nil && !s.locked("AppendCallback") {
		s.insertCallback(fn, s.duration)
	}
	return s
}

// PrependCallback adds a callback at the start of the sequence.
func (s *Sequence) PrependCallback(fn func()) *Sequence {
	if fn != nil && !s.locked("PrependCallback") {
		s.insertCallback(fn, 0)
	}
	return s
}

// InsertCallback adds a callback at the given time.
func (s *Sequence) InsertCallback(atPosition float64, fn func()) *Sequence {
	if fn != nil && !s.locked("InsertCallback") {
		s.insertCallback(fn, atPosition)
	}
	return s
}

// Len returns the number of entries (nested tweens and callbacks).
func (s *Sequence) Len() int { return len(s.entries) }

// shift moves every entry back by d and grows the duration by d.
func (s *Sequence) shift(d float64) {
	s.duration += d
	for i := range s.entries {
		s.entries[i].start += d
		s.entries[i].end += d
	}
}

// clampNestedLoops replaces infinite loops, which a timeline cannot place.
func (s *Sequence) clampNestedLoops(t *Tween) {
	if t.loops == -1 {
		t.loops = math.MaxInt32
		s.m.logger.Debug("infinite loops clamped inside sequence", zap.Any("id", t.id))
	}
}

func (s *Sequence) insert(t *Tween, atPosition float64) {
	s.m.removeActive(t)
	s.clampNestedLoops(t)
	atPosition += t.delay
	s.lastInsertTime = atPosition
	t.isSequenced = true
	t.creationLocked = true
	t.sequenceParent = &s.Tween
	t.isPlaying = false
	t.autoKill = false
	t.delay = 0
	t.elapsedDelay = 0
	t.delayComplete = true
	end := atPosition + t.duration*float64(t.loops)
	if end > s.duration {
		s.duration = end
	}
	s.entries = append(s.entries, seqEntry{tween: t, start: atPosition, end: end})
	s.nestedCount++
}

func (s *Sequence) insertCallback(fn func(), atPosition float64) {
	if fn == nil {
		return
	}
	s.lastInsertTime = atPosition
	s.entries = append(s.entries, seqEntry{callback: fn, start: atPosition, end: atPosition})
	if atPosition > s.duration {
		s.duration = atPosition
	}
}

func (s *Sequence) startup() bool {
	if len(s.entries) == 0 && !s.callbacksSet() {
		return false
	}
	s.startupDone = true
	if s.loops > -1 {
		s.fullDuration = s.duration * float64(s.loops)
	} else {
		s.fullDuration = math.Inf(1)
	}
	slices.SortStableFunc(s.entries, func(a, b seqEntry) int {
		switch {
		case a.start < b.start:
			return -1
		case a.start > b.start:
			return 1
		}
		return 0
	})
	if s.isRelative {
		for _, e := range s.entries {
			if e.tween != nil {
				e.tween.isRelative = true
			}
		}
	}
	return true
}

// despawnNested kills every nested tween. Called when the sequence itself is
// despawned.
func (s *Sequence) despawnNested() {
	for _, e := range s.entries {
		if e.tween != nil {
			s.m.despawn(e.tween)
		}
	}
}

func (s *Sequence) applyTween(prevPosition float64, prevCompletedLoops, _ int, _ bool, mode updateMode) bool {
	if s.duration <= 0 {
		return s.applyInstant(prevCompletedLoops, mode)
	}
	k, x := s.cycleAt(prevPosition, prevCompletedLoops)
	toCycle, toPos := s.cycleAt(s.position, s.completedLoops)
	cursor := s.timelinePos(k, x)

	if mode != modeUpdate || (k == toCycle && x == toPos) {
		// Children only depend on where the timeline ends up, so silent moves
		// skip the loops in between.
		s.walkCycle = toCycle
		return s.applyInternalCycle(cursor, s.timelinePos(toCycle, toPos), mode, false, false)
	}

	// Every loop crossed is walked in full, from one extreme to the other.
	wasPlaying := s.isPlaying
	position, completedLoops := s.position, s.completedLoops
	forward := k < toCycle || (k == toCycle && x < toPos)
	for {
		last := k == toCycle
		end := toPos
		if !last {
			end = 0
			if forward {
				end = s.duration
			}
		}
		s.walkCycle = k
		from, to := s.timelinePos(k, x), s.timelinePos(k, end)
		if from != cursor {
			// Restart loops jump back to the other extreme silently.
			if s.applyInternalCycle(cursor, from, modeIgnoreOnComplete, false, false) {
				return true
			}
		}
		if x != end {
			fire := !s.inverted(k)
			if s.applyInternalCycle(from, to, mode, fire, to >= s.duration && to > from) {
				return true
			}
		}
		cursor = to
		if last {
			return false
		}
		// A callback moved or paused the sequence: its own goto already applied.
		if !s.active || (wasPlaying && !s.isPlaying) ||
			s.position != position || s.completedLoops != completedLoops {
			return !s.active
		}
		if forward {
			k, x = k+1, 0
		} else {
			k, x = k-1, s.duration
		}
	}
}

// applyInstant advances a sequence whose entries all sit at time zero. Each
// completed loop fires its markers once.
func (s *Sequence) applyInstant(prevCompletedLoops int, mode updateMode) bool {
	loops := 0
	if mode == modeUpdate && !s.isBackwards {
		loops = s.completedLoops - prevCompletedLoops
	}
	if loops <= 0 {
		s.walkCycle = s.cycle()
		return s.applyInternalCycle(0, 0, mode, false, false)
	}
	for c := prevCompletedLoops; c < s.completedLoops; c++ {
		s.walkCycle = c
		if s.applyInternalCycle(0, 0, mode, true, true) || !s.active {
			return true
		}
	}
	return false
}

// timelinePos maps a position inside loop k to the point of the timeline the
// children see: eased, and mirrored on the way back of yoyo loops.
func (s *Sequence) timelinePos(k int, x float64) float64 {
	switch {
	case x <= 0:
		x = 0
	case x >= s.duration:
		x = s.duration
	case s.easeType != Linear:
		x = s.duration * s.EvaluateEase(x, s.duration)
	}
	if s.inverted(k) {
		x = s.duration - x
	}
	return x
}

// inverted reports whether loop k plays the timeline mirrored.
func (s *Sequence) inverted(k int) bool {
	return s.loopType == LoopYoyo && k%2 != 0
}

// applyInternalCycle walks the timeline from fromPos to toPos, relocating
// nested tweens. With fire set, markers in [fromPos, toPos) are invoked,
// plus one sitting on toPos when inclusive is set. It reports whether the
// sequence must be killed.
func (s *Sequence) applyInternalCycle(fromPos, toPos float64, mode updateMode, fire, inclusive bool) bool {
	wasPlaying := s.isPlaying
	if toPos < fromPos {
		for i := len(s.entries) - 1; i >= 0; i-- {
			if !s.active {
				return true
			}
			if !s.isPlaying && wasPlaying {
				return false
			}
			e := s.entries[i]
			if e.tween == nil {
				if fire && e.start >= toPos && e.start < fromPos {
					s.m.invoke(&s.Tween, e.callback, "sequence callback")
				}
				continue
			}
			if e.end < toPos || e.start > fromPos {
				continue
			}
			t := e.tween
			if !t.startupDone {
				// Never started, so there is nothing to rewind.
				continue
			}
			gotoPos := toPos - e.start
			if gotoPos < 0 {
				gotoPos = 0
			}
			t.isBackwards = true
			if s.m.gotoTween(t, gotoPos, false, mode) && s.nestedFailed(i) {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(s.entries); i++ {
		if !s.active {
			return true
		}
		if !s.isPlaying && wasPlaying {
			return false
		}
		e := s.entries[i]
		if e.tween == nil {
			if fire && e.start >= fromPos && (e.start < toPos || (inclusive && e.start == toPos)) {
				s.m.invoke(&s.Tween, e.callback, "sequence callback")
			}
			continue
		}
		if e.start > toPos || (e.start > 0 && e.end <= fromPos) || (e.start <= 0 && e.end < fromPos) {
			continue
		}
		t := e.tween
		gotoPos := toPos - e.start
		if gotoPos < 0 {
			gotoPos = 0
		}
		// Reaching the end of a child forces its completion, so its own
		// onComplete fires even when float stepping lands just short.
		if toPos >= e.end {
			if !t.startupDone {
				s.m.forceInit(t)
			}
			if gotoPos < t.fullDuration {
				gotoPos = t.fullDuration
			}
		}
		t.isBackwards = false
		if s.m.gotoTween(t, gotoPos, false, mode) {
			if s.nestedFailed(i) {
				return true
			}
			i--
		}
	}
	return false
}

// nestedFailed applies the nested failure policy to the entry at index i.
// It reports whether the whole sequence must be killed; otherwise the broken
// entry was removed.
func (s *Sequence) nestedFailed(i int) bool {
	t := s.entries[i].tween
	if s.m.cfg.NestedFailure == KillWholeSequence {
		s.m.logger.Warn("nested tween failed, killing sequence", zap.Any("id", s.id), zap.Any("nested", t.id))
		return true
	}
	if s.nestedCount == 1 && len(s.entries) == 1 && !s.callbacksSet() {
		s.m.logger.Warn("only nested tween failed, killing sequence", zap.Any("id", s.id), zap.Any("nested", t.id))
		return true
	}
	s.m.logger.Warn("nested tween failed, removing it from sequence", zap.Any("id", s.id), zap.Any("nested", t.id))
	s.entries = slices.Delete(s.entries, i, i+1)
	s.nestedCount--
	s.m.despawn(t)
	return false
}
