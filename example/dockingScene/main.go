package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/akmonengine/dock"
	"github.com/akmonengine/dock/actor"
	"github.com/akmonengine/dock/config"
	"github.com/akmonengine/dock/logging"
	"github.com/akmonengine/dock/physics"
	"github.com/akmonengine/dock/vehicle"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

const dt float64 = 1.0 / 30.0

// Scene is a docking bay open toward +Z and a scout heading for it
type Scene struct {
	World    *physics.World
	Bay      *dock.Bay
	Registry *vehicle.Registry
	Scout    *vehicle.Vehicle
}

// SetupScene creates the bay at the origin and the scout 20m in front of its entrance
func SetupScene(cfg config.Bay, logger *zap.Logger) (*Scene, error) {
	world := physics.NewWorld(2.0, 1024)
	world.Workers = runtime.NumCPU()

	bayRoot := actor.NewObject("bay", actor.NewTransform())
	dockedRoot := actor.NewNode()
	dockedRoot.SetParent(bayRoot.Node(), false)

	entrance := actor.NewObject("entrance", actor.Transform{
		Position: mgl64.Vec3{0, 0, 8},
		Rotation: mgl64.QuatIdent(),
	})
	trigger := actor.NewCollider(&actor.Box{HalfExtents: mgl64.Vec3{3, 3, 3}})
	trigger.IsTrigger = true
	entrance.Attach(trigger)
	bayRoot.AddChild(entrance)

	// Lights of the hangar, only on while the doors are not shut
	hangar := actor.NewObject("hangar", actor.NewTransform())
	hangarLight := actor.NewLight()
	hangarLight.Enabled = false
	hangar.Attach(hangarLight)
	bayRoot.AddChild(hangar)

	world.Add(bayRoot)

	tracker := dock.NewTracker(trigger)
	tracker.Listen(&world.Events)

	registry := vehicle.NewRegistry()
	layout := dock.Layout{
		Root:       bayRoot.Node(),
		DockedRoot: dockedRoot,
		Permitted:  actor.NewAABBFromCenter(mgl64.Vec3{}, mgl64.Vec3{3, 3, 5}),
		Staging:    actor.Transform{Position: mgl64.Vec3{0, 0, 3}, Rotation: mgl64.QuatIdent()},
		Exit:       actor.Transform{Position: mgl64.Vec3{0, 0, 8}, Rotation: mgl64.QuatIdent()},
	}
	bay, err := dock.NewBay(layout, tracker, world, registry.Resolve, cfg)
	if err != nil {
		return nil, err
	}
	bay.Logger = logger
	bay.Interior = dock.ToggleSet{hangarLight}
	bay.ObstructionCheck = bay.ExitObstruction(world)
	bay.OnDockingFailedFull = func(d dock.Dockable) {
		fmt.Printf("🚫 %s: bay full\n", d.Object().Name)
	}
	bay.OnDockingFailedTooLarge = func(d dock.Dockable) {
		fmt.Printf("🚫 %s: too large for the bay\n", d.Object().Name)
	}

	// Scout: a hull with a pilot seated inside
	scoutObject := actor.NewObject("scout", actor.Transform{
		Position: mgl64.Vec3{0, 0, 28},
		Rotation: mgl64.QuatIdent(),
	})
	body := actor.NewRigidBody()
	body.Velocity = mgl64.Vec3{0, 0, -4}
	scoutObject.Attach(
		body,
		actor.NewCollider(&actor.Box{HalfExtents: mgl64.Vec3{1, 1, 2}}),
		actor.NewRenderer(),
		actor.NewLight(),
		actor.NewBehaviour("engine"),
	)
	pilot := actor.NewObject("pilot", actor.Transform{Position: mgl64.Vec3{0, 0.5, 0}, Rotation: mgl64.QuatIdent()})
	pilot.Player = true
	pilot.Attach(actor.NewCollider(&actor.Sphere{Radius: 0.4}))
	scoutObject.AddChild(pilot)
	world.Add(scoutObject)

	scout, _ := vehicle.FromColliders(scoutObject)
	scout.Logger = logger
	scout.UnfreezeImmediately = true
	registry.Register(scout)

	return &Scene{World: world, Bay: bay, Registry: registry, Scout: scout}, nil
}

// Run steps the world and the bay until done reports true, or maxSteps
func (s *Scene) Run(maxSteps int, done func() bool) (int, error) {
	for step := 1; step <= maxSteps; step++ {
		s.World.Step(dt)
		if err := s.Bay.Update(dt); err != nil {
			return step, err
		}
		if done() {
			return step, nil
		}
	}
	return maxSteps, fmt.Errorf("not done after %d steps", maxSteps)
}

func (s *Scene) report(label string) {
	fmt.Printf("%s\n", label)
	fmt.Printf("  Scout: position %v, phase %s\n", s.Scout.Object().Position(), s.Scout.Phase())
	fmt.Printf("  Bay: door %.2f, docked %d\n", s.Bay.Door().Progress, s.Bay.DockedCount())
	fmt.Println()
}

func run(cfg config.Bay, logger *zap.Logger) error {
	scene, err := SetupScene(cfg, logger)
	if err != nil {
		return err
	}
	scout := scene.Scout.Object()

	fmt.Println("🧪 Docking scenario")
	fmt.Println("===================")
	scene.report("Initial state:")

	steps, err := scene.Run(600, func() bool { return scene.Scout.Phase() == vehicle.Docked })
	if err != nil {
		return err
	}
	scene.report(fmt.Sprintf("⚓ Docked after %d steps:", steps))

	if err := scene.Bay.PrepareForSaving(); err != nil {
		return err
	}
	fmt.Printf("💾 Saved, docked tag set: %v\n\n", scene.Scout.IsTagged(dock.DockedTag))
	if err := scene.Bay.WriteSnapshot(os.Stdout); err != nil {
		return err
	}
	fmt.Println()

	result, err := scene.Bay.Undock(scout)
	if err != nil {
		return err
	}
	fmt.Printf("Undock request: %s\n", result)

	steps, err = scene.Run(600, func() bool { return scene.Scout.Phase() == vehicle.Free })
	if err != nil {
		return err
	}
	scene.report(fmt.Sprintf("🚀 Clear of the bay after %d steps:", steps))

	return scene.Bay.WriteSnapshot(os.Stdout)
}

func main() {
	cfg := config.Default()
	if len(os.Args) > 1 {
		loaded, err := config.Load(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("scenario failed", zap.Error(err))
		os.Exit(1)
	}
}
