// Package wire holds the fixed-width big-endian primitives of the ledger codec.
package wire

import (
	"encoding/binary"
)

const (
	Uint16Len = 2
	Int32Len  = 4
	Int64Len  = 8
)

// PutUint16 returns v as 2 bytes, most significant first.
func PutUint16(v uint16) []byte {
	b := make([]byte, Uint16Len)
	binary.BigEndian.PutUint16(b, v)
	return b
}

// PutInt32 returns v as 4 bytes, most significant first (two's complement).
func PutInt32(v int32) []byte {
	b := make([]byte, Int32Len)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

// PutInt64 returns v as 8 bytes, most significant first (two's complement).
func PutInt64(v int64) []byte {
	b := make([]byte, Int64Len)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// Uint16 reads the first 2 bytes of b. It panics if b is shorter.
func Uint16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }

// Int32 reads the first 4 bytes of b. It panics if b is shorter.
func Int32(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) }

// Int64 reads the first 8 bytes of b. It panics if b is shorter.
func Int64(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) }
