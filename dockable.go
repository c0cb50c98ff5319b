package dock

import "github.com/akmonengine/dock/actor"

// DockedTag marks a vehicle that was docked when the game was saved
const DockedTag = "dock.docked"

// Dockable is the docking capability of a vehicle. Vehicle specific behaviour
// lives behind the hooks; the bay only drives them at phase boundaries.
type Dockable interface {
	// Object is the identity handle of the vehicle
	Object() *actor.Object
	// LocalBounds is the vehicle's bounding box in its own frame
	LocalBounds() actor.AABB

	// ShouldUnfreezeImmediately gives the vehicle an exit velocity once freed
	ShouldUnfreezeImmediately() bool
	// UndockUpright resets the rotation to the bay's upright orientation on exit
	UndockUpright() bool

	BeginDocking()
	EndDocking()
	OnDockingDone()
	UpdateWaitingForBayDoorClose()

	BeginUndocking()
	PrepareUndocking()
	EndUndocking()
	UpdateWaitingForBayDoorOpen()
	OnUndockingDone()

	RestoreDockedStateFromSaveGame()
	PrepareForSaving()

	// Components returns every component of the vehicle, without those of an
	// embedded player
	Components() []actor.Component

	Tag(tag string)
	Untag(tag string)
	IsTagged(tag string) bool
}

// Resolver converts a scene object into its Dockable, if it has one
type Resolver func(o *actor.Object) (Dockable, bool)

// ComponentsOf filters the dockable's components by type
func ComponentsOf[T actor.Component](d Dockable) []T {
	var found []T
	for _, c := range d.Components() {
		if t, ok := c.(T); ok {
			found = append(found, t)
		}
	}
	return found
}
