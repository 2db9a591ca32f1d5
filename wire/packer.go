package wire

import (
	"errors"
	"fmt"
)

// Packer appends big-endian fields to a growing buffer.
//
// Variable-length byte fields carry an Int32 length prefix (PackBytes);
// fixed-width fields are written raw (PackFixedBytes).
type Packer struct {
	Bytes []byte
}

// NewPacker returns a Packer whose buffer has capacity for size bytes.
func NewPacker(size int) *Packer {
	return &Packer{Bytes: make([]byte, 0, size)}
}

// PackUint16 appends v as two big-endian bytes.
func (p *Packer) PackUint16(v uint16) { p.Bytes = append(p.Bytes, PutUint16(v)...) }

// PackInt32 appends v as four big-endian bytes.
func (p *Packer) PackInt32(v int32) { p.Bytes = append(p.Bytes, PutInt32(v)...) }

// PackInt64 appends v as eight big-endian bytes.
func (p *Packer) PackInt64(v int64) { p.Bytes = append(p.Bytes, PutInt64(v)...) }

// PackFixedBytes appends b with no length prefix.
func (p *Packer) PackFixedBytes(b []byte) { p.Bytes = append(p.Bytes, b...) }

// PackBytes writes len(b) as an Int32 followed by b.
func (p *Packer) PackBytes(b []byte) {
	p.PackInt32(int32(len(b)))
	p.PackFixedBytes(b)
}

// AppendBytes returns the length-prefixed encoding of b.
func AppendBytes(dst, b []byte) []byte {
	dst = append(dst, PutInt32(int32(len(b)))...)
	return append(dst, b...)
}

var (
	ErrShortBuffer    = errors.New("wire: insufficient bytes")
	ErrNegativeLength = errors.New("wire: negative length prefix")
)

// Unpacker reads fields written by Packer. The first failure is sticky:
// later calls return zero values and Err keeps the original cause.
type Unpacker struct {
	b   []byte
	off int
	Err error
}

// NewUnpacker returns an Unpacker positioned at the start of b.
func NewUnpacker(b []byte) *Unpacker { return &Unpacker{b: b} }

// Offset is the number of bytes consumed so far.
func (u *Unpacker) Offset() int { return u.off }

// Remaining is the number of unread bytes.
func (u *Unpacker) Remaining() int { return len(u.b) - u.off }

func (u *Unpacker) take(n int) []byte {
	if u.Err != nil {
		return nil
	}
	if n < 0 || u.Remaining() < n {
		u.Err = fmt.Errorf("%w: need %d at offset %d, have %d", ErrShortBuffer, n, u.off, u.Remaining())
		return nil
	}
	out := u.b[u.off : u.off+n]
	u.off += n
	return out
}

// UnpackUint16 reads two big-endian bytes.
func (u *Unpacker) UnpackUint16() uint16 {
	b := u.take(Uint16Len)
	if b == nil {
		return 0
	}
	return Uint16(b)
}

// UnpackInt32 reads four big-endian bytes.
func (u *Unpacker) UnpackInt32() int32 {
	b := u.take(Int32Len)
	if b == nil {
		return 0
	}
	return Int32(b)
}

// UnpackInt64 reads eight big-endian bytes.
func (u *Unpacker) UnpackInt64() int64 {
	b := u.take(Int64Len)
	if b == nil {
		return 0
	}
	return Int64(b)
}

// UnpackFixedBytes returns a copy of the next n bytes.
func (u *Unpacker) UnpackFixedBytes(n int) []byte {
	b := u.take(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// UnpackBytes reads an Int32 length prefix and that many bytes.
func (u *Unpacker) UnpackBytes() []byte {
	n := u.UnpackInt32()
	if u.Err != nil {
		return nil
	}
	if n < 0 {
		u.Err = fmt.Errorf("%w: %d at offset %d", ErrNegativeLength, n, u.off-Int32Len)
		return nil
	}
	return u.UnpackFixedBytes(int(n))
}
