package storage

import (
	"errors"

	"github.com/ipfs/go-cid"
)

// Fallback provides deterministic, ordered read fallback across archives.
//
// Lookup order is the slice order; callers MUST supply a fixed order.
// Put writes only to the first archive.
type Fallback struct {
	Archives []Archive
}

var _ Archive = Fallback{}

func (f Fallback) Put(msg []byte) (cid.Cid, error) {
	if len(f.Archives) == 0 {
		return cid.Undef, errors.New("storage: Fallback has no archives")
	}
	return f.Archives[0].Put(msg)
}

func (f Fallback) Get(id cid.Cid) ([]byte, error) {
	for _, a := range f.Archives {
		b, err := a.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (f Fallback) Has(id cid.Cid) bool {
	for _, a := range f.Archives {
		if a.Has(id) {
			return true
		}
	}
	return false
}
