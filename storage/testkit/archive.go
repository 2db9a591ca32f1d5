// Package testkit holds the conformance suite every storage.Archive must pass.
package testkit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/subnetconv/cb58"
	"xdao.co/subnetconv/cidutil"
	"xdao.co/subnetconv/conversion"
	"xdao.co/subnetconv/storage"
	"xdao.co/subnetconv/wire"
)

// NewArchive constructs a fresh, empty Archive for a test.
// The returned Archive MUST be isolated from other tests.
type NewArchive func(t *testing.T) storage.Archive

// Message returns a canonical conversion message with n validators whose
// contents are derived from seed.
func Message(t *testing.T, seed byte, n int) []byte {
	t.Helper()
	fill := func(b byte, size int) []byte { return bytes.Repeat([]byte{b}, size) }

	proofs := make([]string, n)
	for i := range proofs {
		proofs[i] = `{"nodeID":"NodeID-` + cb58.Encode(fill(seed+byte(i)+1, 20)) +
			`","nodePOP":{"publicKey":"` + wire.EncodeHex(fill(seed^byte(i), conversion.PublicKeyLen)) +
			`","proofOfPossession":"0x"}}`
	}
	req := conversion.NewRequest(
		cb58.Encode(fill(seed, 32)),
		cb58.Encode(fill(seed+1, 32)),
		wire.EncodeHex(fill(seed+2, conversion.AddressLen)),
		proofs...,
	)
	b, err := conversion.Marshal(req)
	if err != nil {
		t.Fatalf("conversion.Marshal: %v", err)
	}
	return b
}

func RunArchiveConformance(t *testing.T, newArchive NewArchive) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		a := newArchive(t)
		want := Message(t, 1, 2)

		id, err := a.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := cidutil.CIDv1RawSHA256CID(want)
		if err != nil {
			t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := a.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}

		convID, err := cidutil.ToID(id)
		if err != nil {
			t.Fatalf("ToID failed: %v", err)
		}
		if convID != conversion.ID(want) {
			t.Fatalf("CID digest is not the conversion ID")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		a := newArchive(t)
		b := Message(t, 2, 1)

		id1, err := a.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := a.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		a := newArchive(t)
		b := Message(t, 3, 0)
		id, err := cidutil.CIDv1RawSHA256CID(b)
		if err != nil {
			t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
		}

		if a.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		_, err = a.Get(id)
		if !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		if _, err := a.Put(b); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !a.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectNonConversionBytes", func(t *testing.T) {
		a := newArchive(t)
		for _, b := range [][]byte{nil, []byte("hello"), append(Message(t, 4, 1), 0x00)} {
			_, err := a.Put(b)
			if !errors.Is(err, storage.ErrNotConversion) {
				t.Fatalf("Put(%d bytes): got err=%v want ErrNotConversion", len(b), err)
			}
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		a := newArchive(t)
		var undef cid.Cid
		if a.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := a.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})
}
