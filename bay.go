package dock

import (
	"errors"

	"github.com/akmonengine/dock/actor"
	"github.com/akmonengine/dock/config"
	"github.com/akmonengine/dock/logging"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Layout locates the bay in the scene
type Layout struct {
	// Root of the bay hierarchy; nothing below it is a docking candidate
	Root *actor.Node
	// DockedRoot parents the vehicles held by the bay. Permitted, Staging
	// and Exit are expressed in its frame.
	DockedRoot *actor.Node
	Permitted  actor.AABB
	// Staging is where an undocking vehicle reappears
	Staging actor.Transform
	// Exit is where the undock animation ends, inside the trigger
	Exit actor.Transform
}

// Space answers the radius queries used to find vehicles after a load
type Space interface {
	OverlapSphere(center mgl64.Vec3, radius float64) []*actor.RigidBody
}

type UndockingCheckResult uint8

const (
	UndockOk UndockingCheckResult = iota
	UndockBusy
	UndockDoesNotExist
	UndockNotDockable
	UndockObstructed
)

func (r UndockingCheckResult) String() string {
	switch r {
	case UndockOk:
		return "Ok"
	case UndockBusy:
		return "Busy"
	case UndockDoesNotExist:
		return "DoesNotExist"
	case UndockNotDockable:
		return "NotDockable"
	case UndockObstructed:
		return "Obstructed"
	}
	return "Unknown"
}

type notice uint8

const (
	noticeFull notice = iota + 1
	noticeTooLarge
)

// Bay admits vehicles through its doors and keeps them docked.
// It runs a single transition at a time; parked vehicles are not limited
// by it, only by the capacity.
type Bay struct {
	Logger *zap.Logger

	// Notifications for the game layer, nil to ignore
	OnDockingFailedFull     func(d Dockable)
	OnDockingFailedTooLarge func(d Dockable)
	// ObstructionCheck reports a blocked exit path. Nil means never obstructed.
	ObstructionCheck func(d Dockable) bool

	Animator Animator
	Interior Interior

	layout  Layout
	tracker *Tracker
	space   Space
	resolve Resolver
	config  config.Bay

	door   Door
	tugs   map[uuid.UUID]*Tug // by vehicle object
	order  []*Tug
	active *Tug
	docked int

	loading  bool
	notified map[uuid.UUID]notice
	stale    logging.Once
}

// NewBay creates a bay with closed doors. It starts in the loading state so
// that vehicles docked before a save are found again on the first tick.
func NewBay(layout Layout, tracker *Tracker, space Space, resolve Resolver, cfg config.Bay) (*Bay, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if layout.Root == nil || layout.DockedRoot == nil {
		return nil, errors.New("bay layout needs a root and a docked root")
	}
	if tracker == nil || resolve == nil {
		return nil, errors.New("bay needs a tracker and a resolver")
	}

	return &Bay{
		layout:   layout,
		tracker:  tracker,
		space:    space,
		resolve:  resolve,
		config:   cfg,
		door:     Door{SecondsToOpen: cfg.SecondsToOpen},
		tugs:     make(map[uuid.UUID]*Tug),
		loading:  true,
		notified: make(map[uuid.UUID]notice),
	}, nil
}

func (b *Bay) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// SignalLoading schedules a re-detection after the next simulated frame
func (b *Bay) SignalLoading() {
	b.loading = true
}

func (b *Bay) Loading() bool {
	return b.loading
}

// Tugs returns the tugs in creation order
func (b *Bay) Tugs() []*Tug {
	return b.order
}

// Active returns the tug currently passing the doors, or nil
func (b *Bay) Active() *Tug {
	return b.active
}

func (b *Bay) DockedCount() int {
	return b.docked
}

func (b *Bay) Door() Door {
	return b.door
}

func (b *Bay) Layout() Layout {
	return b.layout
}

// TugOf returns the tug holding o, if any
func (b *Bay) TugOf(o *actor.Object) (*Tug, bool) {
	if o == nil {
		return nil, false
	}
	t, ok := b.tugs[o.ID]
	return t, ok
}

// Update runs one tick of the bay. Errors are invariant violations.
func (b *Bay) Update(dt float64) error {
	var err error

	b.reconcile()

	if b.loading && dt > 0 {
		b.loading = false
		b.Redetect()
		err = multierr.Append(err, b.VerifyIntegrity())
	}

	b.forgetNotices()
	if b.active == nil {
		b.admit()
	} else {
		err = multierr.Append(err, b.driveActive())
	}

	for _, t := range b.order {
		err = multierr.Append(err, t.Update(dt))
	}
	b.removeDone()

	b.advanceDoor(dt)

	return err
}

// reconcile drops tugs whose vehicle was destroyed
func (b *Bay) reconcile() {
	for _, t := range b.order {
		if t.Valid() {
			continue
		}
		if t.counted {
			b.docked--
			t.counted = false
			b.logger().Warn("docked vehicle lost", zap.Stringer("tug", t.ID), zap.Stringer("status", t.status))
		}
		if b.active == t {
			b.active = nil
		}
		t.done = true
	}
	b.removeDone()
}

// admit looks for the closest vehicle that fits and lets it in once the doors are open enough
func (b *Bay) admit() {
	type candidate struct {
		dockable Dockable
		fit      DockingFit
	}

	found, _, ok := ClosestEnabledNonKinematic(b.tracker, func(c *actor.Collider) (candidate, bool) {
		d, ok := b.candidate(c)
		if !ok {
			return candidate{}, false
		}
		fit, ok := FindBestFit(d, b.layout.Permitted)
		return candidate{dockable: d, fit: fit}, ok
	})

	if !ok {
		b.door.Open = false
		// Nothing fits: tell about the closest vehicle that does not
		if d, _, tooLarge := ClosestEnabledNonKinematic(b.tracker, b.candidate); tooLarge {
			b.notify(d, noticeTooLarge)
		}
		return
	}

	if b.docked >= b.config.MaxDockedVehicles {
		b.door.Open = false
		b.notify(found.dockable, noticeFull)
		return
	}

	b.door.Open = true
	if b.door.Progress < b.config.OpenThreshold {
		return
	}

	t := newTug(b)
	if err := t.Bind(found.fit, Docking); err != nil {
		b.logger().Warn("docking aborted", zap.Error(err))
		return
	}
	t.counted = true
	b.docked++
	b.add(t)
	b.active = t

	obj := found.dockable.Object()
	b.logger().Info("vehicle admitted",
		zap.String("vehicle", obj.Name),
		zap.Stringer("id", obj.ID),
		zap.Float64("seconds", t.seconds),
		zap.Int("docked", b.docked),
	)
}

// candidate resolves the vehicle owning c, when it is not already held by the bay
func (b *Bay) candidate(c *actor.Collider) (Dockable, bool) {
	obj := c.Body().Object()
	if _, tugged := b.tugs[obj.ID]; tugged {
		return nil, false
	}
	if b.inside(obj) {
		return nil, false
	}
	return b.resolve(obj)
}

func (b *Bay) driveActive() error {
	t := b.active
	b.door.Open = t.WantsDoorsOpen()

	switch t.status {
	case WaitingForBayDoorOpen:
		if b.door.Progress >= b.config.OpenThreshold {
			return t.undock()
		}
	case WaitingForBayDoorClose:
		if b.door.Closed() {
			t.transitionToLoaded()
			b.active = nil
		}
	}
	return nil
}

func (b *Bay) advanceDoor(dt float64) {
	switch b.door.Advance(dt) {
	case LeftClosed:
		if b.Interior != nil {
			b.Interior.SetVisible(true)
		}
	case Shut:
		if b.Interior != nil {
			b.Interior.SetVisible(false)
		}
	}

	if b.Animator != nil {
		b.Animator.SetNormalizedTime(b.door.Progress)
	}
}

// CheckUndocking tells whether o could be undocked now
func (b *Bay) CheckUndocking(o *actor.Object) UndockingCheckResult {
	if b.active != nil {
		return UndockBusy
	}

	d, ok := b.resolve(o)
	if !ok {
		return UndockNotDockable
	}

	t, ok := b.TugOf(o)
	if !ok || !t.Valid() || t.status != Docked {
		return UndockDoesNotExist
	}

	if b.ObstructionCheck != nil && b.ObstructionCheck(d) {
		return UndockObstructed
	}

	return UndockOk
}

// Undock queues o for undocking; the doors open and the vehicle leaves
func (b *Bay) Undock(o *actor.Object) (UndockingCheckResult, error) {
	result := b.CheckUndocking(o)
	if result != UndockOk {
		return result, nil
	}

	t := b.tugs[o.ID]
	if err := t.QueueUndock(); err != nil {
		return result, err
	}
	b.active = t

	return result, nil
}

// Redetect binds back every vehicle tagged as docked around the bay
func (b *Bay) Redetect() {
	if b.space == nil {
		return
	}

	frame := b.layout.DockedRoot.World()
	center := frame.TransformPoint(b.layout.Permitted.Center())

	for _, body := range b.space.OverlapSphere(center, b.config.RedetectRadius) {
		obj := body.Object()
		if !obj.Valid() || b.inside(obj) {
			continue
		}
		if _, tugged := b.tugs[obj.ID]; tugged {
			continue
		}

		d, ok := b.resolve(obj)
		if !ok || !d.IsTagged(DockedTag) {
			continue
		}
		d.Untag(DockedTag)

		fit, fits := FindBestFit(d, b.layout.Permitted)
		if !fits || b.docked >= b.config.MaxDockedVehicles {
			b.eject(obj, center)
			b.logger().Error("previously docked vehicle cannot be docked again",
				zap.String("vehicle", obj.Name),
				zap.Stringer("id", obj.ID),
				zap.Bool("fits", fits),
			)
			continue
		}

		t := newTug(b)
		if err := t.Bind(fit, Docked); err != nil {
			b.logger().Warn("redock aborted", zap.String("vehicle", obj.Name), zap.Error(err))
			continue
		}
		t.counted = true
		b.docked++
		b.add(t)
		d.RestoreDockedStateFromSaveGame()

		b.logger().Info("vehicle redocked", zap.String("vehicle", obj.Name), zap.Stringer("id", obj.ID))
	}
}

// eject moves o away from the bay center
func (b *Bay) eject(o *actor.Object, center mgl64.Vec3) {
	node := o.Node()
	world := node.World()

	direction := world.Position.Sub(center)
	if direction.Len() == 0 {
		exit := b.layout.DockedRoot.World().TransformPoint(b.layout.Exit.Position)
		direction = exit.Sub(center)
	}
	if direction.Len() == 0 {
		direction = mgl64.Vec3{0, 1, 0}
	}

	world.Position = world.Position.Add(direction.Normalize().Mul(b.config.EjectDistance))
	node.SetWorld(world)
}

// inside reports whether o belongs to the bay hierarchy
func (b *Bay) inside(o *actor.Object) bool {
	node := o.Node()
	return node == b.layout.Root || node.IsDescendantOf(b.layout.Root)
}

// notify fires a failure notification once per encounter with the vehicle
func (b *Bay) notify(d Dockable, kind notice) {
	obj := d.Object()
	if b.notified[obj.ID] == kind {
		return
	}
	b.notified[obj.ID] = kind

	switch kind {
	case noticeFull:
		b.logger().Info("docking failed, bay full", zap.String("vehicle", obj.Name), zap.Int("docked", b.docked))
		if b.OnDockingFailedFull != nil {
			b.OnDockingFailedFull(d)
		}
	case noticeTooLarge:
		b.logger().Info("docking failed, vehicle too large", zap.String("vehicle", obj.Name))
		if b.OnDockingFailedTooLarge != nil {
			b.OnDockingFailedTooLarge(d)
		}
	}
}

// forgetNotices ends the encounter of vehicles that left the trigger
func (b *Bay) forgetNotices() {
	if len(b.notified) == 0 {
		return
	}

	present := make(map[uuid.UUID]bool)
	for _, c := range b.tracker.CurrentlyTouching() {
		present[c.Object().ID] = true
		if body := c.Body(); body != nil {
			present[body.Object().ID] = true
		}
	}
	for id := range b.notified {
		if !present[id] {
			delete(b.notified, id)
		}
	}
}

// freed is called by a tug handing its vehicle back to the world
func (b *Bay) freed(t *Tug) {
	if t.counted {
		t.counted = false
		b.docked--
	}
	if b.active == t {
		b.active = nil
	}
}

func (b *Bay) logStale(t *Tug) {
	b.stale.Do(t.ID.String(), func() {
		b.logger().Warn("tug vehicle is gone", zap.Stringer("tug", t.ID), zap.Stringer("status", t.status))
	})
}

func (b *Bay) add(t *Tug) {
	b.tugs[t.fit.Dockable.Object().ID] = t
	b.order = append(b.order, t)
}

func (b *Bay) removeDone() {
	n := 0
	for _, t := range b.order {
		if !t.done {
			b.order[n] = t
			n++
			continue
		}
		if t.fit.Dockable != nil {
			id := t.fit.Dockable.Object().ID
			if b.tugs[id] == t {
				delete(b.tugs, id)
			}
		}
		b.stale.Forget(t.ID.String())
	}
	clear(b.order[n:])
	b.order = b.order[:n]
}
