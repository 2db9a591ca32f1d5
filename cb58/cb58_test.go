package cb58

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const zeroID = "11111111111111111111111111111111LpoYY"

func TestDecode_ZeroID(t *testing.T) {
	b, err := Decode(zeroID)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 32), b)
}

func TestDecode_KnownNodeID(t *testing.T) {
	b, err := Decode("7zzgm8kJo24eaUz5Er19142q1kzzyDW7J")
	require.NoError(t, err)
	require.Equal(t, "4cc89e341e0cae6868be61d8c9b26a2b92aa6287", hex.EncodeToString(b))
}

func TestDecode_CorruptedLastCharacter(t *testing.T) {
	_, err := Decode(zeroID[:len(zeroID)-1] + "Z")
	require.ErrorIs(t, err, ErrBadChecksum)
}

func TestDecode_InvalidAlphabet(t *testing.T) {
	for _, s := range []string{"", "0OIl", zeroID[:10] + "0" + zeroID[11:], "NodeID-abc"} {
		_, err := Decode(s)
		require.ErrorIs(t, err, ErrInvalidEncoding, "input %q", s)
	}
}

func TestDecode_TooShort(t *testing.T) {
	_, err := Decode("1")
	require.True(t, errors.Is(err, ErrMissingChecksum), "got %v", err)
}

func TestRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x00},
		{0x00, 0x00, 0x01},
		bytes.Repeat([]byte{0xff}, 20),
		bytes.Repeat([]byte{0x5a}, 32),
	}
	for _, p := range payloads {
		s := Encode(p)
		got, err := Decode(s)
		require.NoError(t, err)
		require.True(t, bytes.Equal(p, got), "payload %x", p)
		require.Equal(t, s, Encode(got))
	}
}

func TestChecksum_IsTrailingDigestBytes(t *testing.T) {
	// sha256 of 32 zero bytes ends in 0d5f2925.
	require.Equal(t, []byte{0x0d, 0x5f, 0x29, 0x25}, Checksum(make([]byte, 32)))
}
