// Package ecs provides ECS adapters for twig's tween lifecycle events.
//
// The primary adapter is [NewDonburiSink], which publishes twig tween events
// (start, step complete, complete, kill) into a [Donburi] world as typed
// events. Subscribe to [TweenEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	manager.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
