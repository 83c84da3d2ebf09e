package rollback

import (
	"fmt"

	"github.com/automoto/gridduel/shared/sim"
)

type snapshot struct {
	frame Frame
	state sim.State
}

// snapshotRing keeps the simulation state at the start of the most recent
// frames. sim.State is plain data, so saving is a value copy.
type snapshotRing struct {
	entries []snapshot
}

func newSnapshotRing(size int) *snapshotRing {
	r := &snapshotRing{entries: make([]snapshot, size)}
	for i := range r.entries {
		r.entries[i].frame = NullFrame
	}
	return r
}

func (r *snapshotRing) save(f Frame, st *sim.State) {
	e := &r.entries[int(f)%len(r.entries)]
	e.frame = f
	e.state = *st
}

// load returns the state saved for f.
func (r *snapshotRing) load(f Frame) (*sim.State, error) {
	if f < 0 {
		return nil, fmt.Errorf("%w: frame %d", ErrSnapshotMissing, f)
	}
	e := &r.entries[int(f)%len(r.entries)]
	if e.frame != f {
		return nil, fmt.Errorf("%w: frame %d (slot holds %d)", ErrSnapshotMissing, f, e.frame)
	}
	return &e.state, nil
}
