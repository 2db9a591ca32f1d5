package storage

import (
	"fmt"

	"github.com/ipfs/go-cid"
)

// Target names one archive of a Replicating set.
type Target struct {
	Name    string
	Archive Archive
}

// Replicating writes every message to all targets and reads in target order.
// All targets must return the same CID for a write; otherwise ErrCIDMismatch
// is returned.
type Replicating struct {
	Targets []Target
}

var _ Archive = Replicating{}

// PutAll writes msg to every target and returns the CID each one reported.
// The message is checked once up front so no target sees invalid bytes.
func (r Replicating) PutAll(msg []byte) (cid.Cid, map[string]cid.Cid, error) {
	want, err := Check(msg)
	if err != nil {
		return cid.Undef, nil, err
	}
	if len(r.Targets) == 0 {
		return cid.Undef, nil, fmt.Errorf("storage: Replicating has no targets")
	}

	out := make(map[string]cid.Cid, len(r.Targets))
	for _, t := range r.Targets {
		if t.Archive == nil {
			return cid.Undef, nil, fmt.Errorf("storage: nil archive for target %q", t.Name)
		}
		got, err := t.Archive.Put(msg)
		if err != nil {
			return cid.Undef, out, fmt.Errorf("storage: put to %q: %w", t.Name, err)
		}
		out[t.Name] = got
		if got != want {
			return cid.Undef, out, ErrCIDMismatch
		}
	}
	return want, out, nil
}

func (r Replicating) Put(msg []byte) (cid.Cid, error) {
	id, _, err := r.PutAll(msg)
	return id, err
}

func (r Replicating) Get(id cid.Cid) ([]byte, error) {
	return r.fallback().Get(id)
}

func (r Replicating) Has(id cid.Cid) bool {
	return r.fallback().Has(id)
}

func (r Replicating) fallback() Fallback {
	f := Fallback{Archives: make([]Archive, 0, len(r.Targets))}
	for _, t := range r.Targets {
		if t.Archive != nil {
			f.Archives = append(f.Archives, t.Archive)
		}
	}
	return f
}
