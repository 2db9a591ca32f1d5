// Package cidutil maps encoded conversion messages to IPFS-compatible CIDs.
//
// A conversion message's CIDv1 uses the "raw" multicodec and a sha2-256
// multihash, so the multihash digest is exactly the conversion ID. That makes
// IDs and CIDs interchangeable keys for the archive.
package cidutil

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/subnetconv/ids"
)

var ErrNotConversionCID = errors.New("cidutil: not a CIDv1 raw sha2-256 identifier")

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	c, err := CIDv1RawSHA256CID(data)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return c.String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// FromID returns the CID whose digest is the conversion ID id.
func FromID(id ids.ID) (cid.Cid, error) {
	mh, err := multihash.Encode(id[:], multihash.SHA2_256)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// ToID extracts the conversion ID carried by c.
func ToID(c cid.Cid) (ids.ID, error) {
	if !c.Defined() || c.Version() != 1 || c.Type() != cid.Raw {
		return ids.ID{}, ErrNotConversionCID
	}
	dec, err := multihash.Decode(c.Hash())
	if err != nil {
		return ids.ID{}, fmt.Errorf("%w: %v", ErrNotConversionCID, err)
	}
	if dec.Code != multihash.SHA2_256 {
		return ids.ID{}, fmt.Errorf("%w: hash function %s", ErrNotConversionCID, dec.Name)
	}
	id, err := ids.ToID(dec.Digest)
	if err != nil {
		return ids.ID{}, fmt.Errorf("%w: %v", ErrNotConversionCID, err)
	}
	return id, nil
}

// Parse accepts either a CID string or a CB58 conversion ID and returns the CID.
func Parse(s string) (cid.Cid, error) {
	if c, err := cid.Decode(s); err == nil {
		if _, err := ToID(c); err == nil {
			return c, nil
		}
	}
	id, err := ids.FromString(s)
	if err != nil {
		return cid.Undef, fmt.Errorf("cidutil: %q is neither a CID nor a CB58 ID: %w", s, err)
	}
	return FromID(id)
}
