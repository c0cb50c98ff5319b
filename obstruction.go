package dock

import (
	"github.com/akmonengine/dock/actor"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// VolumeQuery finds the solid colliders intersecting a placed volume
type VolumeQuery interface {
	OverlapVolume(volume actor.Volume, ignore func(*actor.Collider) bool) []*actor.Collider
}

// ExitObstruction builds an ObstructionCheck that places the vehicle's local
// bounds at the exit and reports any solid collider they would intersect.
// The vehicle and the bay hierarchy are never obstacles.
func (b *Bay) ExitObstruction(q VolumeQuery) func(d Dockable) bool {
	return func(d Dockable) bool {
		fit, ok := b.fitOf(d)
		if !ok {
			return false
		}

		vehicle := d.Object().Node()
		blockers := q.OverlapVolume(b.exitVolume(fit), func(c *actor.Collider) bool {
			node := c.Object().Node()
			return node == vehicle || node.IsDescendantOf(vehicle) || b.inside(c.Object())
		})
		if len(blockers) == 0 {
			return false
		}

		b.logger().Debug("exit obstructed",
			zap.String("vehicle", d.Object().Name),
			zap.String("by", blockers[0].Object().Name),
			zap.Int("colliders", len(blockers)),
		)
		return true
	}
}

// fitOf prefers the fit a tug already holds for the vehicle
func (b *Bay) fitOf(d Dockable) (DockingFit, bool) {
	if t, ok := b.TugOf(d.Object()); ok {
		return t.fit, true
	}
	return FindBestFit(d, b.layout.Permitted)
}

func (b *Bay) exitVolume(fit DockingFit) actor.Volume {
	bounds := fit.Dockable.LocalBounds()
	exit := exitPlacement(fit, b.layout.Exit).Globalize(b.layout.DockedRoot.World())

	return actor.Volume{
		Shape: &actor.Box{HalfExtents: bounds.Extents()},
		Transform: exit.Transform().Mul(actor.Transform{
			Position: bounds.Center(),
			Rotation: mgl64.QuatIdent(),
		}),
	}
}
