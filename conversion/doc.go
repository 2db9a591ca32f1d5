// Package conversion encodes subnet-to-L1 conversion data in the ledger's
// canonical byte layout and derives the conversion ID from it.
//
// Layout (all integers big-endian):
//
//	[u16 codec version = 0]
//	[32 bytes subnet ID]
//	[32 bytes manager chain ID]
//	[i32 len][manager address]
//	[i32 validator count]
//	per validator, in request order:
//	  [i32 len][node ID]
//	  [48 bytes BLS public key]
//	  [i64 weight = 100]
//
// The conversion ID is sha256 over those bytes. Proofs of possession are
// accepted on input but are not part of the layout.
//
// Everything here is a pure function of its input and safe for concurrent use.
package conversion
