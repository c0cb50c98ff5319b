// Package vehicle provides a Dockable over a plain scene object.
package vehicle

import (
	"sync"

	"github.com/akmonengine/dock"
	"github.com/akmonengine/dock/actor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Phase uint8

const (
	Free Phase = iota
	Docking
	Docked
	Undocking
)

func (p Phase) String() string {
	switch p {
	case Docking:
		return "docking"
	case Docked:
		return "docked"
	case Undocking:
		return "undocking"
	}
	return "free"
}

// Vehicle adapts an object to the docking hooks. It follows its docking
// phase and counts every hook call.
type Vehicle struct {
	Logger *zap.Logger

	// UnfreezeImmediately pushes the vehicle out of the bay once undocked
	UnfreezeImmediately bool
	// Upright undocks the vehicle in the bay's orientation
	Upright bool

	// SaveState and RestoreState run when saving while docked and on redock after load
	SaveState    func(v *Vehicle)
	RestoreState func(v *Vehicle)

	object *actor.Object
	bounds actor.AABB
	phase  Phase

	mu    sync.Mutex
	calls map[string]int
}

// New wraps o with explicit local bounds
func New(o *actor.Object, bounds actor.AABB) *Vehicle {
	return &Vehicle{
		object: o,
		bounds: bounds,
		calls:  make(map[string]int),
	}
}

// FromColliders wraps o, sizing it from its solid colliders.
// It reports false for an object without any.
func FromColliders(o *actor.Object) (*Vehicle, bool) {
	bounds, ok := dock.LocalBoundsOf(o)
	if !ok {
		return nil, false
	}
	return New(o, bounds), true
}

func (v *Vehicle) Object() *actor.Object           { return v.object }
func (v *Vehicle) LocalBounds() actor.AABB         { return v.bounds }
func (v *Vehicle) ShouldUnfreezeImmediately() bool { return v.UnfreezeImmediately }
func (v *Vehicle) UndockUpright() bool             { return v.Upright }

func (v *Vehicle) Phase() Phase {
	return v.phase
}

// Calls returns how many times a hook ran, by hook name
func (v *Vehicle) Calls(hook string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls[hook]
}

func (v *Vehicle) BeginDocking() {
	v.record("BeginDocking")
	v.phase = Docking
}

func (v *Vehicle) EndDocking() {
	v.record("EndDocking")
}

func (v *Vehicle) OnDockingDone() {
	v.record("OnDockingDone")
	v.phase = Docked
}

func (v *Vehicle) UpdateWaitingForBayDoorClose() {
	v.count("UpdateWaitingForBayDoorClose")
}

func (v *Vehicle) BeginUndocking() {
	v.record("BeginUndocking")
	v.phase = Undocking
}

func (v *Vehicle) PrepareUndocking() {
	v.record("PrepareUndocking")
}

func (v *Vehicle) EndUndocking() {
	v.record("EndUndocking")
}

func (v *Vehicle) UpdateWaitingForBayDoorOpen() {
	v.count("UpdateWaitingForBayDoorOpen")
}

func (v *Vehicle) OnUndockingDone() {
	v.record("OnUndockingDone")
	v.phase = Free
}

func (v *Vehicle) RestoreDockedStateFromSaveGame() {
	v.record("RestoreDockedStateFromSaveGame")
	v.phase = Docked
	if v.RestoreState != nil {
		v.RestoreState(v)
	}
}

func (v *Vehicle) PrepareForSaving() {
	v.record("PrepareForSaving")
	if v.SaveState != nil {
		v.SaveState(v)
	}
}

// Components lists the components of the vehicle subtree, without the
// embedded player's
func (v *Vehicle) Components() []actor.Component {
	return actor.ComponentsInChildren[actor.Component](v.object, func(o *actor.Object) bool {
		return o.Player
	})
}

func (v *Vehicle) Tag(tag string)           { v.object.Tag(tag) }
func (v *Vehicle) Untag(tag string)         { v.object.Untag(tag) }
func (v *Vehicle) IsTagged(tag string) bool { return v.object.IsTagged(tag) }

// record counts a phase hook and logs it; per-tick hooks are only counted
func (v *Vehicle) record(hook string) {
	v.count(hook)
	if v.Logger != nil {
		v.Logger.Debug("docking hook",
			zap.String("hook", hook),
			zap.String("vehicle", v.object.Name),
			zap.Stringer("phase", v.phase),
		)
	}
}

func (v *Vehicle) count(hook string) {
	v.mu.Lock()
	v.calls[hook]++
	v.mu.Unlock()
}

// Registry resolves scene objects to their registered vehicles
type Registry struct {
	vehicles map[uuid.UUID]*Vehicle
}

func NewRegistry() *Registry {
	return &Registry{vehicles: make(map[uuid.UUID]*Vehicle)}
}

func (r *Registry) Register(v *Vehicle) {
	r.vehicles[v.object.ID] = v
}

func (r *Registry) Unregister(o *actor.Object) {
	delete(r.vehicles, o.ID)
}

func (r *Registry) Get(o *actor.Object) (*Vehicle, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := r.vehicles[o.ID]
	return v, ok
}

// Resolve is a dock.Resolver
func (r *Registry) Resolve(o *actor.Object) (dock.Dockable, bool) {
	v, ok := r.Get(o)
	if !ok || !o.Valid() {
		return nil, false
	}
	return v, true
}

var _ dock.Dockable = (*Vehicle)(nil)
