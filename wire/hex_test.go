package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHex(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"0x", []byte{}},
		{"", []byte{}},
		{"0x00", []byte{0x00}},
		{"0x0000000000000000000000000000000000000001", append(make([]byte, 19), 0x01)},
		{"deadBEEF", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"0xa0b1", []byte{0xa0, 0xb1}},
	}
	for _, tc := range cases {
		got, err := DecodeHex(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestDecodeHex_OddLength(t *testing.T) {
	for _, in := range []string{"0x0", "abc", "0x12345"} {
		_, err := DecodeHex(in)
		require.ErrorIs(t, err, ErrOddLength, in)
	}
}

func TestDecodeHex_InvalidDigit(t *testing.T) {
	for _, in := range []string{"0xzz", "0x12g4", "0X12", "0x 1"} {
		_, err := DecodeHex(in)
		require.ErrorIs(t, err, ErrInvalidHex, in)
	}
}

func TestEncodeHex_RoundTrip(t *testing.T) {
	b := []byte{0x00, 0x01, 0xfe, 0xff}
	s := EncodeHex(b)
	require.Equal(t, "0x0001feff", s)
	got, err := DecodeHex(s)
	require.NoError(t, err)
	require.Equal(t, b, got)
}
