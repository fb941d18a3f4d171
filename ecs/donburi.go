package ecs

import (
	"github.com/phanxgames/twig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TweenEventType is the Donburi event type for twig tween events.
// Subscribe to this in your ECS systems to react to tweens starting,
// looping, completing and dying.
var TweenEventType = events.NewEventType[twig.TweenEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Tween events are published to TweenEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) twig.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event twig.TweenEvent) {
	TweenEventType.Publish(s.world, event)
}

// EntityTarget returns the entity a tween event targets, if the tween was
// created with SetTarget(entity).
func EntityTarget(event twig.TweenEvent) (donburi.Entity, bool) {
	e, ok := event.Target.(donburi.Entity)
	return e, ok
}
