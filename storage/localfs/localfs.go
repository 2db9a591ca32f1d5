// Package localfs is a filesystem-backed conversion message archive.
package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"xdao.co/subnetconv/cidutil"
	"xdao.co/subnetconv/storage"
)

// Archive stores each message immutably in a read-only file named by its CID.
//
// It never uses the network and never depends on wall-clock time.
type Archive struct {
	root string
}

var _ storage.Archive = (*Archive)(nil)

// New constructs an archive rooted at root. The directory will be created if needed.
func New(root string) (*Archive, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Archive{root: root}, nil
}

// Root returns the archive directory.
func (a *Archive) Root() string { return a.root }

// Put stores msg under its CID. The bytes are written to a temporary file and
// linked into place, so a reader never observes a partial message.
func (a *Archive) Put(msg []byte) (cid.Cid, error) {
	id, err := storage.Check(msg)
	if err != nil {
		return cid.Undef, err
	}

	path := a.pathFor(id)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cid.Undef, err
	}
	if a.Has(id) {
		return id, a.sameAs(id, msg)
	}

	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return cid.Undef, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(msg); err != nil {
		_ = tmp.Close()
		return cid.Undef, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return cid.Undef, err
	}
	if err := tmp.Close(); err != nil {
		return cid.Undef, err
	}
	if err := os.Chmod(tmp.Name(), 0o444); err != nil {
		return cid.Undef, err
	}
	if err := os.Link(tmp.Name(), path); err != nil {
		if os.IsExist(err) {
			// Lost a race with a concurrent Put of the same CID.
			return id, a.sameAs(id, msg)
		}
		return cid.Undef, err
	}
	return id, nil
}

// sameAs reports ErrImmutable unless the stored copy of id equals msg.
// An unreadable or corrupted file counts as a mismatch.
func (a *Archive) sameAs(id cid.Cid, msg []byte) error {
	existing, err := a.Get(id)
	if err != nil || !bytes.Equal(existing, msg) {
		return storage.ErrImmutable
	}
	return nil
}

func (a *Archive) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, err := os.ReadFile(a.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	got, err := cidutil.CIDv1RawSHA256CID(b)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (a *Archive) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(a.pathFor(id))
	return err == nil
}

// List returns the CIDs of all archived messages, ordered by path.
func (a *Archive) List() ([]cid.Cid, error) {
	matches, err := filepath.Glob(filepath.Join(a.root, "*", "b*"))
	if err != nil {
		return nil, err
	}
	out := make([]cid.Cid, 0, len(matches))
	for _, m := range matches {
		c, err := cid.Decode(filepath.Base(m))
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// pathFor shards on the last two characters; every CIDv1 string shares its
// leading multibase and version characters.
func (a *Archive) pathFor(id cid.Cid) string {
	s := id.String()
	return filepath.Join(a.root, s[len(s)-2:], s)
}
