package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacker_LayoutAsymmetry(t *testing.T) {
	p := NewPacker(0)
	p.PackUint16(0)
	p.PackFixedBytes([]byte{0xaa, 0xbb})
	p.PackBytes([]byte{0xcc})
	p.PackInt64(100)

	want := []byte{
		0x00, 0x00, // version
		0xaa, 0xbb, // raw, no prefix
		0x00, 0x00, 0x00, 0x01, 0xcc, // length-prefixed
		0, 0, 0, 0, 0, 0, 0, 100,
	}
	require.Equal(t, want, p.Bytes)
}

func TestAppendBytes(t *testing.T) {
	require.Equal(t, []byte{0, 0, 0, 0}, AppendBytes(nil, nil))
	require.Equal(t, []byte{0x01, 0, 0, 0, 2, 0x10, 0x20}, AppendBytes([]byte{0x01}, []byte{0x10, 0x20}))
}

func TestUnpacker_ReadsPackerOutput(t *testing.T) {
	p := NewPacker(32)
	p.PackUint16(7)
	p.PackInt32(-3)
	p.PackBytes([]byte("node"))
	p.PackFixedBytes([]byte{1, 2, 3})
	p.PackInt64(1 << 40)

	u := NewUnpacker(p.Bytes)
	require.Equal(t, uint16(7), u.UnpackUint16())
	require.Equal(t, int32(-3), u.UnpackInt32())
	require.Equal(t, []byte("node"), u.UnpackBytes())
	require.Equal(t, []byte{1, 2, 3}, u.UnpackFixedBytes(3))
	require.Equal(t, int64(1<<40), u.UnpackInt64())
	require.NoError(t, u.Err)
	require.Zero(t, u.Remaining())
	require.Equal(t, len(p.Bytes), u.Offset())
}

func TestUnpacker_ShortBufferIsSticky(t *testing.T) {
	u := NewUnpacker([]byte{0x00, 0x00, 0x00, 0x09, 0x01})
	require.Nil(t, u.UnpackBytes())
	require.ErrorIs(t, u.Err, ErrShortBuffer)

	first := u.Err
	require.Zero(t, u.UnpackUint16())
	require.Equal(t, first, u.Err)
}

func TestUnpacker_NegativeLength(t *testing.T) {
	u := NewUnpacker([]byte{0xff, 0xff, 0xff, 0xff})
	require.Nil(t, u.UnpackBytes())
	require.ErrorIs(t, u.Err, ErrNegativeLength)
}
