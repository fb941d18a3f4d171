package twig

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// sweepStats holds per-sweep metrics.
// Only populated when Config.Debug is true.
type sweepStats struct {
	start    time.Time
	advanced int
	killed   int
}

// debugLog writes one sweep's statistics at debug level.
func (m *Manager) debugLog(channel UpdateType, stats sweepStats) {
	m.logger.Debug("tween sweep",
		zap.Stringer("channel", channel),
		zap.Duration("elapsed", time.Since(stats.start)),
		zap.Int("advanced", stats.advanced),
		zap.Int("killed", stats.killed),
		zap.Int("active", m.totActive),
		zap.Int("pooledTweeners", m.totPooledTweeners),
		zap.Int("pooledSequences", len(m.sequencePool)))
}

// misuse reports an API call the engine refuses. In debug mode it panics
// with a descriptive message; in release mode callers no-op after a debug
// log line.
func (m *Manager) misuse(t *Tween, op, reason string) {
	var id any
	if t != nil {
		id = t.id
	}
	if m.cfg.Debug {
		panic(fmt.Sprintf("twig debug: %s on tween %v: %s", op, id, reason))
	}
	m.logger.Debug("tween misuse",
		zap.String("op", op),
		zap.Any("id", id),
		zap.String("reason", reason))
}

// misuseInactive reports a call on a killed tween. It only logs: handles to
// killed tweens are routinely kept around by callers.
func (m *Manager) misuseInactive(t *Tween, op string) {
	m.logger.Debug("tween misuse",
		zap.String("op", op),
		zap.Any("id", t.id),
		zap.String("reason", "tween is not active"))
}
