package dock

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// VerifyIntegrity checks that the docked tally, the tugs and the children of
// the docked root agree. Every mismatch found is reported.
func (b *Bay) VerifyIntegrity() error {
	var err error

	counted := 0
	transitions := 0
	for _, t := range b.order {
		if t.status == Docking || t.status == Undocking {
			transitions++
			if b.active != t {
				err = multierr.Append(err, &InvariantError{
					Op: "verify integrity", Status: t.status.String(),
					Msg: fmt.Sprintf("tug %s is in transition but not active", t.ID),
				})
			}
		}
		if !t.counted || !t.Valid() {
			continue
		}
		counted++
		if t.fit.Dockable.Object().Node().Parent() != b.layout.DockedRoot {
			err = multierr.Append(err, &InvariantError{
				Op: "verify integrity", Status: t.status.String(),
				Msg: fmt.Sprintf("docked vehicle %q is not parented to the docked root", t.fit.Dockable.Object().Name),
			})
		}
	}

	if transitions > 1 {
		err = multierr.Append(err, &InvariantError{
			Op:  "verify integrity",
			Msg: fmt.Sprintf("%d transitions in progress", transitions),
		})
	}

	for _, child := range b.layout.DockedRoot.Children() {
		o := child.Object()
		if o == nil || !o.Valid() {
			continue
		}
		if t, ok := b.tugs[o.ID]; !ok || !t.counted {
			err = multierr.Append(err, &InvariantError{
				Op:  "verify integrity",
				Msg: fmt.Sprintf("stray docked child %q", o.Name),
			})
		}
	}

	if counted != b.docked {
		err = multierr.Append(err, &InvariantError{
			Op:  "verify integrity",
			Msg: fmt.Sprintf("docked count is %d but %d vehicles are held", b.docked, counted),
		})
	}

	if b.active != nil {
		if _, ok := b.TugOf(b.active.fit.Dockable.Object()); !ok {
			err = multierr.Append(err, &InvariantError{
				Op:  "verify integrity",
				Msg: fmt.Sprintf("active tug %s is not registered", b.active.ID),
			})
		}
	}

	return err
}

// PrepareForSaving marks every properly docked vehicle so it is found again
// after loading, then lets the vehicle save its own state.
// Occupants without a valid fitting tug are skipped and lose any stale mark.
func (b *Bay) PrepareForSaving() error {
	for _, child := range b.layout.DockedRoot.Children() {
		o := child.Object()
		if o == nil {
			continue
		}

		t, ok := b.TugOf(o)
		if !ok || !t.Valid() || t.status != Docked {
			if d, ok := b.resolve(o); ok {
				d.Untag(DockedTag)
			}
			b.logger().Warn("occupant not saved as docked", zap.String("object", o.Name))
			continue
		}
		if _, fits := FindBestFit(t.fit.Dockable, b.layout.Permitted); !fits {
			t.fit.Dockable.Untag(DockedTag)
			b.logger().Warn("docked vehicle no longer fits, not saved as docked", zap.String("vehicle", o.Name))
			continue
		}

		t.fit.Dockable.Tag(DockedTag)
		t.fit.Dockable.PrepareForSaving()
	}

	return b.VerifyIntegrity()
}

// Snapshot is a readable summary of the bay state
type Snapshot struct {
	DoorProgress float64       `yaml:"doorProgress"`
	DockedCount  int           `yaml:"dockedCount"`
	Active       string        `yaml:"active,omitempty"`
	Tugs         []TugSnapshot `yaml:"tugs"`
}

type TugSnapshot struct {
	ID       string  `yaml:"id"`
	Vehicle  string  `yaml:"vehicle"`
	Status   string  `yaml:"status"`
	Progress float64 `yaml:"progress"`
}

func (b *Bay) Snapshot() Snapshot {
	s := Snapshot{
		DoorProgress: b.door.Progress,
		DockedCount:  b.docked,
		Tugs:         make([]TugSnapshot, 0, len(b.order)),
	}
	if b.active != nil {
		s.Active = b.active.ID.String()
	}

	for _, t := range b.order {
		ts := TugSnapshot{
			ID:       t.ID.String(),
			Status:   t.status.String(),
			Progress: t.progress,
		}
		if t.fit.Dockable != nil {
			ts.Vehicle = t.fit.Dockable.Object().Name
		}
		s.Tugs = append(s.Tugs, ts)
	}

	return s
}

// WriteSnapshot encodes the bay snapshot as YAML
func (b *Bay) WriteSnapshot(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b.Snapshot()); err != nil {
		return err
	}
	return enc.Close()
}
