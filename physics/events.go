package physics

import (
	"unsafe"

	"github.com/akmonengine/dock/actor"
)

const (
	TRIGGER_ENTER EventType = iota
	TRIGGER_STAY
	TRIGGER_EXIT
)

type pairKey struct {
	colliderA *actor.Collider
	colliderB *actor.Collider
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(colliderA, colliderB *actor.Collider) pairKey {
	ptrA := uintptr(unsafe.Pointer(colliderA))
	ptrB := uintptr(unsafe.Pointer(colliderB))

	if ptrB < ptrA {
		colliderA, colliderB = colliderB, colliderA
	}

	return pairKey{colliderA: colliderA, colliderB: colliderB}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
	Colliders() (*actor.Collider, *actor.Collider)
}

// Trigger events
type TriggerEnterEvent struct {
	ColliderA *actor.Collider
	ColliderB *actor.Collider
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }
func (e TriggerEnterEvent) Colliders() (*actor.Collider, *actor.Collider) {
	return e.ColliderA, e.ColliderB
}

type TriggerStayEvent struct {
	ColliderA *actor.Collider
	ColliderB *actor.Collider
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }
func (e TriggerStayEvent) Colliders() (*actor.Collider, *actor.Collider) {
	return e.ColliderA, e.ColliderB
}

type TriggerExitEvent struct {
	ColliderA *actor.Collider
	ColliderB *actor.Collider
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }
func (e TriggerExitEvent) Colliders() (*actor.Collider, *actor.Collider) {
	return e.ColliderA, e.ColliderB
}

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Overlap tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordOverlaps is called once per step with the trigger pairs found by the broad phase
func (e *Events) recordOverlaps(pairs []Pair) {
	for _, p := range pairs {
		e.currentActivePairs[makePairKey(p.ColliderA, p.ColliderB)] = true
	}
}

// forget drops every pair involving collider without emitting an exit
func (e *Events) forget(collider *actor.Collider) {
	for pair := range e.previousActivePairs {
		if pair.colliderA == collider || pair.colliderB == collider {
			delete(e.previousActivePairs, pair)
		}
	}
}

// processTriggerEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processTriggerEvents() {
	// Detect Enter and Stay events
	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, TriggerStayEvent{
				ColliderA: pair.colliderA,
				ColliderB: pair.colliderB,
			})
		} else {
			e.buffer = append(e.buffer, TriggerEnterEvent{
				ColliderA: pair.colliderA,
				ColliderB: pair.colliderB,
			})
		}
	}

	// Detect Exit events
	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, TriggerExitEvent{
				ColliderA: pair.colliderA,
				ColliderB: pair.colliderB,
			})
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processTriggerEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
