package twig

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Manager owns every tween it creates: it advances them each frame, runs
// filtered operations over them and recycles them when they die. A Manager
// is not safe for concurrent use; drive it from the goroutine that runs the
// frame loop. Tween callbacks may freely create, control and kill tweens.
type Manager struct {
	cfg    Config
	logger *zap.Logger
	sink   EventSink
	rng    *rand.Rand

	// Active tweens, compacted lazily: slots below reorganizeFromID are
	// contiguous, holes above it are closed by reorganize.
	active                 []*Tween
	maxActiveID            int
	totActive              int
	totActiveTweeners      int
	totActiveSequences     int
	channelCounts          [updateTypeCount]int
	requiresReorganization bool
	reorganizeFromID       int

	// busy counts nested engine operations. Kills requested while busy are
	// queued in killList and released when the outermost operation ends.
	busy     int
	sweeping bool
	killList []*Tween

	tweenerPools      map[any][]tweenImpl
	sequencePool      []*Sequence
	totPooledTweeners int
	totTweeners       int
	totSequences      int
	maxTweeners       int
	maxSequences      int
}

// NewManager creates a manager. An invalid config is replaced field by field
// with defaults (see Config.Validate).
func NewManager(cfg Config) *Manager {
	if err := cfg.Validate(); err != nil {
		def := DefaultConfig()
		if cfg.TweenerCapacity <= 0 {
			cfg.TweenerCapacity = def.TweenerCapacity
		}
		if cfg.SequenceCapacity <= 0 {
			cfg.SequenceCapacity = def.SequenceCapacity
		}
		if cfg.TimeScale < 0 {
			cfg.TimeScale = def.TimeScale
		}
		if cfg.DefaultEase >= Custom {
			cfg.DefaultEase = def.DefaultEase
		}
		if int(cfg.DefaultLoopType) >= len(loopTypeNames) {
			cfg.DefaultLoopType = def.DefaultLoopType
		}
		if cfg.DefaultUpdateType >= updateTypeCount {
			cfg.DefaultUpdateType = def.DefaultUpdateType
		}
		if int(cfg.DefaultAutoPlay) >= len(autoPlayNames) {
			cfg.DefaultAutoPlay = def.DefaultAutoPlay
		}
		if int(cfg.NestedFailure) >= len(nestedFailureNames) {
			cfg.NestedFailure = def.NestedFailure
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
		if cfg.LogLevel != "" {
			if l, err := NewLogger(cfg.LogLevel); err == nil {
				logger = l
			}
		}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	m := &Manager{
		cfg:              cfg,
		logger:           logger,
		rng:              rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		maxActiveID:      -1,
		reorganizeFromID: -1,
		tweenerPools:     make(map[any][]tweenImpl),
		maxTweeners:      cfg.TweenerCapacity,
		maxSequences:     cfg.SequenceCapacity,
	}
	m.active = make([]*Tween, m.maxTweeners+m.maxSequences)
	m.killList = make([]*Tween, 0, m.maxTweeners+m.maxSequences)
	return m
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config { return m.cfg }

// Logger returns the logger the manager writes to.
func (m *Manager) Logger() *zap.Logger { return m.logger }

// SetEventSink sets the receiver of tween lifecycle events. nil disables
// events.
func (m *Manager) SetEventSink(sink EventSink) { m.sink = sink }

// SetTimeScale sets the global multiplier applied to the normal delta time.
func (m *Manager) SetTimeScale(scale float64) { m.cfg.TimeScale = scale }

// SetSafeMode toggles recovery of panics raised by getters, setters and
// callbacks.
func (m *Manager) SetSafeMode(on bool) { m.cfg.SafeMode = on }

// SetNestedFailure selects what sequences do when a nested tween fails.
func (m *Manager) SetNestedFailure(policy NestedFailure) { m.cfg.NestedFailure = policy }

// Update advances tweens on the UpdateNormal channel. deltaTime is scaled by
// the global time scale; independentTime is used as is by tweens created
// with SetUpdate(..., true).
func (m *Manager) Update(deltaTime, independentTime float64) {
	m.sweep(UpdateNormal, deltaTime, independentTime)
}

// LateUpdate advances tweens on the UpdateLate channel.
func (m *Manager) LateUpdate(deltaTime, independentTime float64) {
	m.sweep(UpdateLate, deltaTime, independentTime)
}

// FixedUpdate advances tweens on the UpdateFixed channel.
func (m *Manager) FixedUpdate(deltaTime, independentTime float64) {
	m.sweep(UpdateFixed, deltaTime, independentTime)
}

// ManualUpdate advances tweens on the UpdateManual channel.
func (m *Manager) ManualUpdate(deltaTime, independentTime float64) {
	m.sweep(UpdateManual, deltaTime, independentTime)
}

// sweep advances every active tween of one channel. Tweens created during
// the sweep are left for the next one; tweens killed during it are released
// once it is over.
func (m *Manager) sweep(channel UpdateType, deltaTime, independentTime float64) {
	if m.channelCounts[channel] == 0 {
		return
	}
	if m.sweeping {
		m.misuse(nil, "Update", "update called from inside a tween callback")
		return
	}
	if m.requiresReorganization && m.busy == 0 {
		m.reorganize()
	}

	var stats sweepStats
	if m.cfg.Debug {
		stats.start = time.Now()
	}

	m.sweeping = true
	m.begin()
	dt := deltaTime * m.cfg.TimeScale
	n := m.maxActiveID + 1
	for i := 0; i < n; i++ {
		t := m.active[i]
		if t == nil || !t.active || t.updateType != channel {
			continue
		}
		stats.advanced++
		if m.advance(t, dt, independentTime) {
			m.markForKilling(t)
		}
	}
	stats.killed = len(m.killList)
	m.end()
	m.sweeping = false

	if m.cfg.Debug {
		m.debugLog(channel, stats)
	}
}

func (m *Manager) begin() { m.busy++ }

func (m *Manager) end() {
	if m.busy == 1 && len(m.killList) > 0 {
		m.flushKills()
	}
	m.busy--
}

// flushKills releases every queued tween. onKill callbacks may queue more;
// they are released in the same pass.
func (m *Manager) flushKills() {
	for i := 0; i < len(m.killList); i++ {
		t := m.killList[i]
		if t.activeID != -1 {
			m.removeActive(t)
		}
		m.despawn(t)
	}
	clear(m.killList)
	m.killList = m.killList[:0]
}

// markForKilling deactivates t now and queues its release. Outside of any
// engine operation the release happens immediately.
func (m *Manager) markForKilling(t *Tween) {
	if t.queuedForKill || t.pooled {
		return
	}
	t.queuedForKill = true
	t.active = false
	m.killList = append(m.killList, t)
	if m.busy == 0 {
		m.busy++
		m.flushKills()
		m.busy--
	}
}

// despawn fires onKill and returns t (and its nested tweens) to the pools.
func (m *Manager) despawn(t *Tween) {
	if t.pooled {
		return
	}
	t.active = false
	if t.onKill != nil {
		m.invoke(t, t.onKill, "onKill")
	}
	m.emit(EventKill, t)
	if s, ok := t.impl.(*Sequence); ok {
		s.despawnNested()
	}
	t.impl.release()
}

// addActive registers t in the active array.
func (m *Manager) addActive(t *Tween) {
	if m.requiresReorganization && m.busy == 0 {
		m.reorganize()
	}
	t.active = true
	id := m.maxActiveID + 1
	if id >= len(m.active) {
		m.growActive(id + 1)
	}
	t.activeID = id
	m.maxActiveID = id
	m.active[id] = t
	m.channelCounts[t.updateType]++
	m.totActive++
	if t.tweenType == TweenTypeTweener {
		m.totActiveTweeners++
	} else {
		m.totActiveSequences++
	}
}

// removeActive clears t's slot. The array is compacted later.
func (m *Manager) removeActive(t *Tween) {
	index := t.activeID
	if index < 0 {
		return
	}
	t.activeID = -1
	m.requiresReorganization = true
	if m.reorganizeFromID == -1 || m.reorganizeFromID > index {
		m.reorganizeFromID = index
	}
	m.active[index] = nil
	if m.channelCounts[t.updateType] > 0 {
		m.channelCounts[t.updateType]--
	}
	m.totActive--
	if t.tweenType == TweenTypeTweener {
		m.totActiveTweeners--
	} else {
		m.totActiveSequences--
	}
}

// reorganize shifts every tween above the lowest hole down so the active
// slots are contiguous again.
func (m *Manager) reorganize() {
	defer func() {
		m.requiresReorganization = false
		m.reorganizeFromID = -1
	}()
	if m.totActive <= 0 {
		m.maxActiveID = -1
		return
	}
	if m.reorganizeFromID == m.maxActiveID {
		m.maxActiveID--
		return
	}
	shift := 1
	n := m.maxActiveID + 1
	m.maxActiveID = m.reorganizeFromID - 1
	for i := m.reorganizeFromID + 1; i < n; i++ {
		t := m.active[i]
		if t == nil {
			shift++
			continue
		}
		t.activeID = i - shift
		m.maxActiveID = i - shift
		m.active[i-shift] = t
		m.active[i] = nil
	}
}

// setUpdateType moves t between channels, keeping the per-channel counts
// used by the sweep early-out.
func (m *Manager) setUpdateType(t *Tween, updateType UpdateType, independent bool) {
	if t.activeID >= 0 && t.updateType != updateType {
		m.channelCounts[t.updateType]--
		m.channelCounts[updateType]++
	}
	t.updateType = updateType
	t.isIndependentUpdate = independent
}

// growCapacity raises the tweener or sequence capacity geometrically.
func (m *Manager) growCapacity(tweeners bool) {
	def := DefaultConfig()
	if tweeners {
		m.maxTweeners = grownCapacity(m.maxTweeners, def.TweenerCapacity)
	} else {
		m.maxSequences = grownCapacity(m.maxSequences, def.SequenceCapacity)
	}
	m.growActive(m.maxTweeners + m.maxSequences)
	m.logger.Info("tween capacity increased",
		zap.Int("tweeners", m.maxTweeners),
		zap.Int("sequences", m.maxSequences))
}

func grownCapacity(capacity, defaultCapacity int) int {
	n := int(float64(capacity) * 1.5)
	if n < defaultCapacity {
		n = defaultCapacity
	}
	if n <= capacity {
		n = capacity + 1
	}
	return n
}

// growActive reallocates the active array to hold at least n slots.
func (m *Manager) growActive(n int) {
	if n <= len(m.active) {
		return
	}
	active := make([]*Tween, n)
	copy(active, m.active)
	m.active = active
}

// SetCapacity raises the tweener and sequence capacities ahead of time.
// Capacities never shrink below what is already allocated.
func (m *Manager) SetCapacity(tweeners, sequences int) {
	if tweeners > m.maxTweeners {
		m.maxTweeners = tweeners
	}
	if sequences > m.maxSequences {
		m.maxSequences = sequences
	}
	m.growActive(m.maxTweeners + m.maxSequences)
}

// Capacity returns the current tweener and sequence capacities.
func (m *Manager) Capacity() (tweeners, sequences int) {
	return m.maxTweeners, m.maxSequences
}

// ClearPools drops every pooled tween so it can be garbage collected.
func (m *Manager) ClearPools() {
	m.totTweeners -= m.totPooledTweeners
	m.totSequences -= len(m.sequencePool)
	m.totPooledTweeners = 0
	clear(m.tweenerPools)
	clear(m.sequencePool)
	m.sequencePool = m.sequencePool[:0]
}

// Pooled returns the number of recycled tweeners and sequences waiting to be
// reused.
func (m *Manager) Pooled() (tweeners, sequences int) {
	return m.totPooledTweeners, len(m.sequencePool)
}

// invoke runs a user callback. In safe mode a panic is logged and swallowed.
func (m *Manager) invoke(t *Tween, fn func(), name string) {
	if !m.cfg.SafeMode {
		fn()
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("tween callback panicked",
				zap.String("callback", name),
				zap.Any("id", t.id),
				zap.Any("panic", r))
		}
	}()
	fn()
}

// TotalActive returns the number of standalone active tweens (nested tweens
// are not counted).
func (m *Manager) TotalActive() int { return m.totActive }

// TotalActiveTweeners returns the number of standalone active tweeners.
func (m *Manager) TotalActiveTweeners() int { return m.totActiveTweeners }

// TotalActiveSequences returns the number of active sequences.
func (m *Manager) TotalActiveSequences() int { return m.totActiveSequences }

// TotalPlaying returns the number of standalone tweens currently playing.
func (m *Manager) TotalPlaying() int {
	n := 0
	for i := 0; i <= m.maxActiveID; i++ {
		if t := m.active[i]; t != nil && t.active && t.isPlaying {
			n++
		}
	}
	return n
}

// Active appends every standalone active tween to dst and returns it.
func (m *Manager) Active(dst []*Tween) []*Tween {
	for i := 0; i <= m.maxActiveID; i++ {
		if t := m.active[i]; t != nil && t.active {
			dst = append(dst, t)
		}
	}
	return dst
}

// ActiveByTarget appends every active tween whose target is target to dst.
func (m *Manager) ActiveByTarget(target any, dst []*Tween) []*Tween {
	f := newFilter(target)
	for i := 0; i <= m.maxActiveID; i++ {
		if t := m.active[i]; t != nil && t.active && f.matchTarget(t) {
			dst = append(dst, t)
		}
	}
	return dst
}
