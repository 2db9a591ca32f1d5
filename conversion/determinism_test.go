package conversion

import (
	"encoding/json"
	"testing"

	"xdao.co/subnetconv/ids"
)

func permuteIndices(n int) [][]int {
	var out [][]int
	idx := make([]int, n)
	for i := 0; i < n; i++ {
		idx[i] = i
	}
	var gen func(int)
	gen = func(i int) {
		if i == n {
			p := append([]int(nil), idx...)
			out = append(out, p)
			return
		}
		for j := i; j < n; j++ {
			idx[i], idx[j] = idx[j], idx[i]
			gen(i + 1)
			idx[i], idx[j] = idx[j], idx[i]
		}
	}
	gen(0)
	return out
}

func TestNodeOrder_EveryPermutationHasItsOwnID(t *testing.T) {
	v := vectorByName(t, "three-nodes")
	seen := map[ids.ID][]int{}
	for _, perm := range permuteIndices(len(v.Request.NodeProofs)) {
		req := v.Request
		req.NodeProofs = make([]json.RawMessage, len(perm))
		for i, j := range perm {
			req.NodeProofs[i] = v.Request.NodeProofs[j]
		}
		id, err := ComputeID(req)
		if err != nil {
			t.Fatalf("ComputeID(%v): %v", perm, err)
		}
		if prev, ok := seen[id]; ok {
			t.Fatalf("permutations %v and %v produced the same ID %s", prev, perm, id)
		}
		seen[id] = perm
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 distinct IDs, got %d", len(seen))
	}
}

func TestNodeOrder_ReversedVector(t *testing.T) {
	fwd := vectorByName(t, "two-nodes")
	rev := vectorByName(t, "two-nodes-reversed")
	if fwd.ID == rev.ID {
		t.Fatalf("vectors must differ")
	}

	req := fwd.Request
	req.NodeProofs = []json.RawMessage{fwd.Request.NodeProofs[1], fwd.Request.NodeProofs[0]}
	id, err := ComputeID(req)
	if err != nil {
		t.Fatalf("ComputeID: %v", err)
	}
	if id.String() != rev.IDCB58 {
		t.Fatalf("reversed ID mismatch: got %s want %s", id, rev.IDCB58)
	}
}

func TestNodeOrder_IdenticalNodesArePermutationInvariant(t *testing.T) {
	v := vectorByName(t, "one-node")
	req := v.Request
	req.NodeProofs = []json.RawMessage{v.Request.NodeProofs[0], v.Request.NodeProofs[0]}
	a, err := Marshal(req)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	req.NodeProofs[0], req.NodeProofs[1] = req.NodeProofs[1], req.NodeProofs[0]
	b, err := Marshal(req)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("swapping identical nodes changed the encoding")
	}
}

func TestMarshal_ConcurrentCallsAgree(t *testing.T) {
	v := vectorByName(t, "three-nodes")
	want, err := ComputeID(v.Request)
	if err != nil {
		t.Fatalf("ComputeID: %v", err)
	}
	errs := make(chan error, 16)
	results := make(chan ids.ID, 16)
	for i := 0; i < 16; i++ {
		go func() {
			id, err := ComputeID(v.Request)
			errs <- err
			results <- id
		}()
	}
	for i := 0; i < 16; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("ComputeID: %v", err)
		}
		if got := <-results; got != want {
			t.Fatalf("concurrent ID mismatch: %s vs %s", got, want)
		}
	}
}
