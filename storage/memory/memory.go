// Package memory is an in-process Archive, used by tests and short-lived tools.
package memory

import (
	"bytes"
	"sync"

	"github.com/ipfs/go-cid"

	"xdao.co/subnetconv/storage"
)

// Archive is safe for concurrent use. The zero value is an empty archive.
type Archive struct {
	mu   sync.RWMutex
	msgs map[cid.Cid][]byte
}

var _ storage.Archive = (*Archive)(nil)

func New() *Archive {
	return &Archive{msgs: make(map[cid.Cid][]byte)}
}

func (a *Archive) Put(msg []byte) (cid.Cid, error) {
	id, err := storage.Check(msg)
	if err != nil {
		return cid.Undef, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.msgs == nil {
		a.msgs = make(map[cid.Cid][]byte)
	}
	if existing, ok := a.msgs[id]; ok {
		if !bytes.Equal(existing, msg) {
			return cid.Undef, storage.ErrImmutable
		}
		return id, nil
	}
	a.msgs[id] = append([]byte(nil), msg...)
	return id, nil
}

func (a *Archive) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	b, ok := a.msgs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (a *Archive) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.msgs[id]
	return ok
}

// Len returns the number of archived messages.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.msgs)
}
