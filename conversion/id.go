package conversion

import (
	"crypto/sha256"

	"github.com/ipfs/go-cid"

	"xdao.co/subnetconv/cidutil"
	"xdao.co/subnetconv/ids"
)

// ID returns the conversion ID of an encoded message: sha256(msg).
func ID(msg []byte) ids.ID {
	return ids.ID(sha256.Sum256(msg))
}

// ComputeID encodes req and returns its conversion ID.
func ComputeID(req Request) (ids.ID, error) {
	_, id, err := MarshalWithID(req)
	return id, err
}

// MarshalWithID encodes req and returns the bytes together with their ID.
func MarshalWithID(req Request) ([]byte, ids.ID, error) {
	b, err := Marshal(req)
	if err != nil {
		return nil, ids.ID{}, err
	}
	return b, ID(b), nil
}

// MarshalWithCID encodes req and returns the bytes with their CIDv1
// (raw + sha2-256). The CID's digest equals the conversion ID.
func MarshalWithCID(req Request) ([]byte, cid.Cid, error) {
	b, err := Marshal(req)
	if err != nil {
		return nil, cid.Undef, err
	}
	c, err := cidutil.CIDv1RawSHA256CID(b)
	if err != nil {
		return nil, cid.Undef, err
	}
	return b, c, nil
}
