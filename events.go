package twig

// EventSink is the interface for optional lifecycle event forwarding.
// When set on a Manager, tween lifecycle events are sent to it.
type EventSink interface {
	EmitEvent(event TweenEvent)
}

// EventType identifies a tween lifecycle event.
type EventType uint8

const (
	EventStart        EventType = iota // first time the tween starts playing
	EventStepComplete                  // a loop cycle completed
	EventComplete                      // every loop completed
	EventKill                          // the tween was killed
)

var eventTypeNames = [...]string{"Start", "StepComplete", "Complete", "Kill"}

func (e EventType) String() string { return enumName(eventTypeNames[:], uint8(e), "EventType") }

// TweenEvent carries lifecycle data for the event sink.
type TweenEvent struct {
	Type           EventType
	TweenType      TweenType
	ID             any
	Target         any
	CompletedLoops int
	// Nested is true for tweens driven by a sequence.
	Nested bool
}

func (m *Manager) emit(typ EventType, t *Tween) {
	if m.sink == nil {
		return
	}
	m.sink.EmitEvent(TweenEvent{
		Type:           typ,
		TweenType:      t.tweenType,
		ID:             t.id,
		Target:         t.target,
		CompletedLoops: t.completedLoops,
		Nested:         t.isSequenced,
	})
}
