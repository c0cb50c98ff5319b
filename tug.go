package dock

import (
	"github.com/akmonengine/dock/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TugStatus uint8

const (
	// WaitingForBayDoorOpen: docked and queued for undocking, the bay starts
	// the animation once the doors are open enough
	WaitingForBayDoorOpen TugStatus = iota
	Docking
	WaitingForBayDoorClose
	Docked
	Undocking
	// UndockedWaitingForTriggerExit: free again, released once out of the trigger
	UndockedWaitingForTriggerExit
)

var tugStatusNames = [...]string{
	WaitingForBayDoorOpen:         "WaitingForBayDoorOpen",
	Docking:                       "Docking",
	WaitingForBayDoorClose:        "WaitingForBayDoorClose",
	Docked:                        "Docked",
	Undocking:                     "Undocking",
	UndockedWaitingForTriggerExit: "UndockedWaitingForTriggerExit",
}

func (s TugStatus) String() string {
	if int(s) < len(tugStatusNames) {
		return tugStatusNames[s]
	}
	return "Unknown"
}

// Tug carries one vehicle through docking and undocking.
// Everything it changes on the vehicle is recorded in two undo lists:
// tugging (physics and behaviours, while held by the bay) and docked
// (visuals, while stowed).
type Tug struct {
	ID uuid.UUID

	bay    *Bay
	status TugStatus
	fit    DockingFit

	start    Placement
	end      Placement
	progress float64
	seconds  float64

	tugging undoList
	docked  undoList

	// counted is true while the tug holds a slot in the bay's docked tally
	counted bool
	done    bool
}

func newTug(bay *Bay) *Tug {
	return &Tug{ID: uuid.New(), bay: bay}
}

func (t *Tug) Status() TugStatus {
	return t.status
}

func (t *Tug) Dockable() Dockable {
	return t.fit.Dockable
}

func (t *Tug) Fit() DockingFit {
	return t.fit
}

// Progress of the current animation, in [0,1]
func (t *Tug) Progress() float64 {
	return t.progress
}

// AnimationSeconds is the duration of the current animation
func (t *Tug) AnimationSeconds() float64 {
	return t.seconds
}

// Valid reports whether the tug is bound to a live vehicle
func (t *Tug) Valid() bool {
	return t != nil && t.fit.Dockable != nil && t.fit.Dockable.Object().Valid()
}

// Done reports whether the vehicle has left the bay for good
func (t *Tug) Done() bool {
	return t.done
}

// WantsDoorsOpen is true while the vehicle needs to pass the doors
func (t *Tug) WantsDoorsOpen() bool {
	switch t.status {
	case WaitingForBayDoorOpen, Docking, Undocking:
		return true
	}
	return false
}

// Bind takes hold of the vehicle described by fit. Its colliders and
// behaviours are disabled, its rigidbodies frozen, and it is parented under the
// bay's docked root keeping its world placement.
// A stale vehicle aborts the bind before anything is changed.
func (t *Tug) Bind(fit DockingFit, initial TugStatus) error {
	d := fit.Dockable
	if d == nil || !d.Object().Valid() {
		return ErrStale
	}
	switch initial {
	case WaitingForBayDoorOpen, Docking, Docked, Undocking:
	default:
		return &InvariantError{Op: "bind", Status: initial.String(), Msg: "unsupported initial status"}
	}

	t.drain()
	t.fit = fit
	t.done = false

	switch initial {
	case Docking:
		d.BeginDocking()
	case Docked, WaitingForBayDoorOpen:
		d.BeginDocking()
		d.EndDocking()
	case Undocking:
		d.BeginUndocking()
	}

	t.freeze()

	node := d.Object().Node()
	origin := PlacementOf(node.World(), Global)
	node.SetParent(t.bay.layout.DockedRoot, true)

	switch initial {
	case Docking:
		t.status = Docking
		t.setPath(origin, t.dockedPlacement())
	case Docked:
		t.transitionToLoaded()
	case WaitingForBayDoorOpen:
		t.transitionToLoaded()
		return t.QueueUndock()
	case Undocking:
		d.Untag(DockedTag)
		t.status = Undocking
		t.setPath(origin, t.exitPlacement())
	}

	return nil
}

// QueueUndock asks for the doors to open before undocking
func (t *Tug) QueueUndock() error {
	if t.status != Docked {
		return &InvariantError{Op: "queue undock", Status: t.status.String(), Msg: "vehicle is not docked"}
	}

	// leaving: a later save must not bring it back
	t.fit.Dockable.Untag(DockedTag)
	t.fit.Dockable.PrepareUndocking()
	t.status = WaitingForBayDoorOpen
	return nil
}

// undock shows the vehicle again at the staging anchor and starts the
// animation toward the bay exit. Only a queued tug undocks, so every undock
// goes through the bay's single active slot.
func (t *Tug) undock() error {
	if t.status != WaitingForBayDoorOpen {
		return &InvariantError{Op: "undock", Status: t.status.String(), Msg: "vehicle is not queued for undocking"}
	}

	d := t.fit.Dockable
	t.docked.replay()

	staging := Placement{
		Position: t.bay.layout.Staging.Position,
		Rotation: t.fit.Rotation,
		Locality: Local,
	}
	t.place(staging)
	d.BeginUndocking()

	t.status = Undocking
	t.setPath(staging, t.exitPlacement())
	return nil
}

// Update advances the tug by one tick
func (t *Tug) Update(dt float64) error {
	if t.done {
		return nil
	}
	if !t.Valid() {
		t.bay.logStale(t)
		return nil
	}

	d := t.fit.Dockable
	switch t.status {
	case WaitingForBayDoorOpen:
		d.UpdateWaitingForBayDoorOpen()
	case WaitingForBayDoorClose:
		d.UpdateWaitingForBayDoorClose()
	case Docking, Undocking:
		return t.animate(dt)
	case UndockedWaitingForTriggerExit:
		if !t.insideTrigger() {
			t.done = true
			d.OnUndockingDone()
		}
	}

	return nil
}

func (t *Tug) animate(dt float64) error {
	if t.seconds > 0 {
		t.progress += dt / t.seconds
	} else {
		t.progress = 1
	}

	frame := t.frame()
	if t.progress < 1 {
		t.place(interpolate(t.start.Localize(frame), t.end.Localize(frame), smoothstep(t.progress)))
		return nil
	}

	t.progress = 1
	t.place(t.end.Localize(frame))

	d := t.fit.Dockable
	if t.status == Docking {
		d.EndDocking()
		t.status = WaitingForBayDoorClose
		return nil
	}

	d.EndUndocking()
	return t.transitionToFree()
}

// transitionToLoaded stows the vehicle: placed at its fit and hidden
func (t *Tug) transitionToLoaded() {
	t.place(t.dockedPlacement())
	t.status = Docked
	t.progress = 1

	d := t.fit.Dockable
	disableAll[*actor.Renderer](d, &t.docked)
	disableAll[*actor.Light](d, &t.docked)
	disableAll[*actor.Emitter](d, &t.docked)

	d.OnDockingDone()
}

// transitionToFree hands the vehicle back to the world
func (t *Tug) transitionToFree() error {
	if t.status != Undocking {
		return &InvariantError{Op: "transition to free", Status: t.status.String(), Msg: "vehicle is not undocking"}
	}

	d := t.fit.Dockable
	d.Object().Node().SetParent(nil, true)
	t.tugging.replay()
	t.status = UndockedWaitingForTriggerExit

	if d.ShouldUnfreezeImmediately() {
		frame := t.frame()
		from := t.start.Globalize(frame).Position
		to := t.end.Globalize(frame).Position
		if direction := to.Sub(from); direction.Len() > 0 {
			velocity := direction.Normalize().Mul(t.bay.config.DockingSpeed)
			for _, rb := range ComponentsOf[*actor.RigidBody](d) {
				rb.Velocity = velocity
			}
		}
	}

	t.bay.freed(t)
	return nil
}

// freeze disables what must not run while the bay holds the vehicle
func (t *Tug) freeze() {
	d := t.fit.Dockable
	disableAll[*actor.Collider](d, &t.tugging)

	for _, rb := range ComponentsOf[*actor.RigidBody](d) {
		kinematic, detect := rb.Kinematic, rb.DetectCollisions
		rb.Kinematic = true
		rb.DetectCollisions = false
		rb.Stop()
		t.tugging.push(func() {
			rb.Kinematic = kinematic
			rb.DetectCollisions = detect
		})
	}

	disableAll[*actor.Behaviour](d, &t.tugging)
}

// drain reverses anything left over from a previous binding
func (t *Tug) drain() {
	if t.tugging.pending() == 0 && t.docked.pending() == 0 {
		return
	}

	t.bay.logger().Warn("undo list was not drained",
		zap.Stringer("tug", t.ID),
		zap.Int("docked", t.docked.pending()),
		zap.Int("tugging", t.tugging.pending()),
	)
	t.docked.replay()
	t.tugging.replay()
}

func (t *Tug) setPath(start, end Placement) {
	t.start, t.end = start, end
	t.progress = 0
	t.seconds = 0
	if speed := t.bay.config.DockingSpeed; speed > 0 {
		t.seconds = start.Distance(end, t.frame()) / speed
	}
}

func (t *Tug) dockedPlacement() Placement {
	return t.fit.Placement(t.bay.layout.Permitted)
}

func (t *Tug) exitPlacement() Placement {
	return exitPlacement(t.fit, t.bay.layout.Exit)
}

// exitPlacement is where a vehicle with the given fit ends its undocking path
func exitPlacement(fit DockingFit, exit actor.Transform) Placement {
	rotation := fit.Rotation
	if fit.Dockable.UndockUpright() {
		rotation = mgl64.QuatIdent()
	}

	return Placement{
		Position: exit.Position,
		Rotation: rotation,
		Locality: Local,
	}
}

func (t *Tug) frame() actor.Transform {
	return t.bay.layout.DockedRoot.World()
}

func (t *Tug) place(p Placement) {
	node := t.fit.Dockable.Object().Node()
	if p.Locality == Global {
		node.SetWorld(p.Transform())
		return
	}
	node.Local = p.Transform()
}

// insideTrigger also checks the collider bounds, since the trigger events
// for re-enabled colliders only arrive after the next simulation step
func (t *Tug) insideTrigger() bool {
	d := t.fit.Dockable
	if t.bay.tracker.IsTracked(d.Object()) {
		return true
	}

	trigger := t.bay.tracker.Bounds()
	for _, c := range ComponentsOf[*actor.Collider](d) {
		if c.Enabled && !c.IsTrigger && c.ComputeBounds().Overlaps(trigger) {
			return true
		}
	}
	return false
}

func disableAll[T actor.Toggle](d Dockable, undo *undoList) {
	for _, c := range ComponentsOf[T](d) {
		if !c.IsEnabled() {
			continue
		}
		c.SetEnabled(false)
		undo.push(func() { c.SetEnabled(true) })
	}
}
