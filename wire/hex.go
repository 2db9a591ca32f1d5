package wire

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOddLength  = errors.New("wire: odd number of hex digits")
	ErrInvalidHex = errors.New("wire: invalid hex digit")
)

// DecodeHex decodes s, with or without a leading "0x", into bytes.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		return nil, ErrOddLength
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		var invalid hex.InvalidByteError
		if errors.As(err, &invalid) {
			return nil, fmt.Errorf("%w %q", ErrInvalidHex, byte(invalid))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return b, nil
}

// EncodeHex is the inverse of DecodeHex and always adds the "0x" prefix.
func EncodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
