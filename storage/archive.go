// Package storage archives encoded conversion messages by content address.
package storage

import (
	"github.com/ipfs/go-cid"

	"xdao.co/subnetconv/cidutil"
	"xdao.co/subnetconv/conversion"
	"xdao.co/subnetconv/ids"
)

// Archive is a content-addressed store of encoded conversion messages.
//
// Contract:
// - Put MUST be idempotent and MUST reject bytes that are not a canonical conversion message.
// - Stored messages MUST be immutable.
// - Keys are CIDv1 (raw + sha2-256) of the message bytes; the digest is the conversion ID.
// - Get MUST return ErrNotFound when the CID is absent.
type Archive interface {
	Put(msg []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// Check validates msg as a canonical conversion message and returns its CID.
// Backends call it before storing anything.
func Check(msg []byte) (cid.Cid, error) {
	if _, err := conversion.Unmarshal(msg); err != nil {
		return cid.Undef, &NotConversionError{Cause: err}
	}
	id, err := cidutil.CIDv1RawSHA256CID(msg)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, ErrInvalidCID
	}
	return id, nil
}

// PutRequest encodes req and archives the result.
func PutRequest(a Archive, req conversion.Request) (cid.Cid, ids.ID, error) {
	b, id, err := conversion.MarshalWithID(req)
	if err != nil {
		return cid.Undef, ids.ID{}, err
	}
	c, err := a.Put(b)
	if err != nil {
		return cid.Undef, ids.ID{}, err
	}
	return c, id, nil
}

// GetByID fetches the message whose conversion ID is id.
func GetByID(a Archive, id ids.ID) (*conversion.Message, error) {
	c, err := cidutil.FromID(id)
	if err != nil {
		return nil, err
	}
	b, err := a.Get(c)
	if err != nil {
		return nil, err
	}
	return conversion.Unmarshal(b)
}
