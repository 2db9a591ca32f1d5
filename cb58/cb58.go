// Package cb58 implements the checksummed base58 encoding the ledger uses to
// print identifiers.
//
// A CB58 string is base58(payload || checksum) over the Bitcoin alphabet, where
// checksum is the last ChecksumLen bytes of sha256(payload).
package cb58

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// ChecksumLen is the number of trailing checksum bytes in a decoded buffer.
const ChecksumLen = 4

var (
	ErrInvalidEncoding = errors.New("cb58: invalid base58 encoding")
	ErrMissingChecksum = errors.New("cb58: input too short to carry a checksum")
	ErrBadChecksum     = errors.New("cb58: checksum mismatch")
)

// Encode returns the CB58 string for payload.
func Encode(payload []byte) string {
	buf := make([]byte, 0, len(payload)+ChecksumLen)
	buf = append(buf, payload...)
	buf = append(buf, Checksum(payload)...)
	return base58.Encode(buf)
}

// Decode verifies and strips the checksum of s, returning the payload.
// No payload is returned on failure.
func Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidEncoding)
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if len(raw) < ChecksumLen {
		return nil, ErrMissingChecksum
	}
	payload, sum := raw[:len(raw)-ChecksumLen], raw[len(raw)-ChecksumLen:]
	if !bytes.Equal(sum, Checksum(payload)) {
		return nil, ErrBadChecksum
	}
	return payload, nil
}

// Checksum returns the CB58 checksum of payload.
func Checksum(payload []byte) []byte {
	h := sha256.Sum256(payload)
	out := make([]byte, ChecksumLen)
	copy(out, h[len(h)-ChecksumLen:])
	return out
}
