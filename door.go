package dock

import (
	"github.com/akmonengine/dock/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Crossing reports a door reaching one of its boundaries
type Crossing uint8

const (
	NoCrossing Crossing = iota
	// LeftClosed fires on the first tick the door is no longer shut
	LeftClosed
	// Shut fires on the tick the door becomes fully closed
	Shut
)

// Door is the bay door animation: a progress in [0,1] moving toward its target
// at a constant rate
type Door struct {
	Progress      float64
	Open          bool
	SecondsToOpen float64
}

// Advance moves the door by one tick and reports boundary crossings
func (d *Door) Advance(dt float64) Crossing {
	previous := d.Progress

	step := 1.0
	if d.SecondsToOpen > 0 {
		step = dt / d.SecondsToOpen
	}
	if !d.Open {
		step = -step
	}
	d.Progress = mgl64.Clamp(d.Progress+step, 0, 1)

	switch {
	case previous == 0 && d.Progress > 0:
		return LeftClosed
	case previous > 0 && d.Progress == 0:
		return Shut
	}
	return NoCrossing
}

func (d Door) Closed() bool {
	return d.Progress == 0
}

// Animator plays the door animation at a normalized time
type Animator interface {
	SetNormalizedTime(t float64)
}

// Interior is whatever must only be visible while the doors are not shut
type Interior interface {
	SetVisible(visible bool)
}

// ToggleSet is an Interior made of components switched together
type ToggleSet []actor.Toggle

func (s ToggleSet) SetVisible(visible bool) {
	for _, t := range s {
		t.SetEnabled(visible)
	}
}
