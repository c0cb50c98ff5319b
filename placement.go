package dock

import (
	"github.com/akmonengine/dock/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Locality tells which frame a Placement is expressed in
type Locality uint8

const (
	Global Locality = iota
	Local
)

func (l Locality) String() string {
	if l == Local {
		return "local"
	}
	return "global"
}

// Placement is a position and rotation tagged with its frame.
// Converting between frames always goes through Localize or Globalize.
type Placement struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Locality Locality
}

func PlacementOf(t actor.Transform, locality Locality) Placement {
	return Placement{Position: t.Position, Rotation: t.Rotation, Locality: locality}
}

func (p Placement) Transform() actor.Transform {
	return actor.Transform{Position: p.Position, Rotation: p.Rotation}
}

// Localize expresses a global placement relative to frame
func (p Placement) Localize(frame actor.Transform) Placement {
	if p.Locality == Local {
		return p
	}
	return PlacementOf(frame.Inverse().Mul(p.Transform()), Local)
}

// Globalize expresses a placement local to frame in world space
func (p Placement) Globalize(frame actor.Transform) Placement {
	if p.Locality == Global {
		return p
	}
	return PlacementOf(frame.Mul(p.Transform()), Global)
}

// In returns p expressed in the given locality
func (p Placement) In(locality Locality, frame actor.Transform) Placement {
	if locality == Local {
		return p.Localize(frame)
	}
	return p.Globalize(frame)
}

// Distance between the positions of p and other, measured in p's locality
func (p Placement) Distance(other Placement, frame actor.Transform) float64 {
	return other.In(p.Locality, frame).Position.Sub(p.Position).Len()
}

// smoothstep eases t in [0,1] in and out
func smoothstep(t float64) float64 {
	t = mgl64.Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// interpolate blends two placements of the same locality
func interpolate(a, b Placement, t float64) Placement {
	from, to := orientation(a.Rotation), orientation(b.Rotation)
	// Shortest arc
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}

	return Placement{
		Position: a.Position.Add(b.Position.Sub(a.Position).Mul(t)),
		Rotation: mgl64.QuatSlerp(from, to, t).Normalize(),
		Locality: a.Locality,
	}
}

func orientation(q mgl64.Quat) mgl64.Quat {
	if q.W == 0 && q.V.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return q
}
