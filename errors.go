package dock

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariant marks an internal logic bug: a transition requested from the
	// wrong state or bookkeeping that no longer matches the scene
	ErrInvariant = errors.New("docking invariant violated")
	// ErrStale is returned when the vehicle object was destroyed before use
	ErrStale = errors.New("dockable object is no longer valid")
	// ErrNotDockable is returned when the resolver rejects an object
	ErrNotDockable = errors.New("object is not dockable")
)

// InvariantError describes a broken invariant. It matches ErrInvariant with errors.Is.
type InvariantError struct {
	Op     string
	Status string
	Msg    string
}

func (e *InvariantError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s (status %s)", e.Op, e.Msg, e.Status)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}
