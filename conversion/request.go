package conversion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"xdao.co/subnetconv/ids"
)

// Request describes a proposed validator set taking over a subnet.
//
// NodeProofs are kept as raw JSON; each entry is either a node record object
// or a JSON string holding one. Their order is part of the encoded message.
type Request struct {
	SubnetID       string            `json:"subnetId"`
	ManagerChainID string            `json:"managerChainId"`
	ManagerAddress string            `json:"managerAddress"`
	NodeProofs     []json.RawMessage `json:"nodeProofs"`
}

// NewRequest builds a Request from node records given as JSON text.
func NewRequest(subnetID, managerChainID, managerAddress string, nodeProofs ...string) Request {
	raw := make([]json.RawMessage, len(nodeProofs))
	for i, p := range nodeProofs {
		raw[i] = json.RawMessage(p)
	}
	return Request{
		SubnetID:       subnetID,
		ManagerChainID: managerChainID,
		ManagerAddress: managerAddress,
		NodeProofs:     raw,
	}
}

// requestFields maps each key of a request document to its destination.
// Keys match exactly; encoding/json alone would also accept any casing.
func (r *Request) requestFields() map[string]any {
	return map[string]any{
		"subnetId":       &r.SubnetID,
		"managerChainId": &r.ManagerChainID,
		"managerAddress": &r.ManagerAddress,
		"nodeProofs":     &r.NodeProofs,
	}
}

// ReadRequest decodes a JSON request document. Unknown or mis-cased keys and
// trailing data are rejected.
func ReadRequest(r io.Reader) (Request, error) {
	var doc map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Request{}, fmt.Errorf("decode request: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Request{}, fmt.Errorf("decode request: trailing data after request object")
	}
	if doc == nil {
		return Request{}, fmt.Errorf("decode request: not a JSON object")
	}

	var req Request
	fields := req.requestFields()
	for key, raw := range doc {
		dst, ok := fields[key]
		if !ok {
			return Request{}, fmt.Errorf("decode request: unknown field %q", key)
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return Request{}, fmt.Errorf("decode request: field %q: %w", key, err)
		}
	}
	return req, nil
}

// LoadRequest reads a JSON request document from path.
func LoadRequest(path string) (Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return Request{}, err
	}
	defer f.Close()
	return ReadRequest(f)
}

// NodeProof is the typed form of one node record.
type NodeProof struct {
	NodeID    ids.NodeID
	PublicKey [PublicKeyLen]byte

	// ProofOfPossession is carried as given. It is not validated and not encoded.
	ProofOfPossession string
}

// lookup returns the value stored under exactly key; an explicit null counts
// as absent.
func lookup(obj map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	v, ok := obj[key]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

// object decodes raw as a JSON object. A JSON null yields a nil map.
func object(raw []byte, what string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, wrapError(KindParse, "CONV-PARSE-001", what+" is not a well-formed JSON object", err)
	}
	return obj, nil
}

func stringField(obj map[string]json.RawMessage, key, path, missingRule string) (string, error) {
	raw, ok := lookup(obj, key)
	if !ok {
		return "", newError(KindParse, missingRule, "node record missing "+path)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", wrapError(KindParse, "CONV-PARSE-001", path+" is not a JSON string", err)
	}
	return s, nil
}

// ParseNodeProof parses one node record:
//
//	{"nodeID":"NodeID-<cb58>","nodePOP":{"publicKey":"0x..","proofOfPossession":"0x.."}}
//
// Keys must match exactly. It fails closed on any missing field or type
// mismatch; unknown extra fields are ignored.
func ParseNodeProof(raw []byte) (NodeProof, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return NodeProof{}, wrapError(KindParse, "CONV-PARSE-001", "node record is not a well-formed JSON object", err)
		}
		raw = []byte(inner)
	}

	rec, err := object(raw, "node record")
	if err != nil {
		return NodeProof{}, err
	}
	nodeID, err := stringField(rec, "nodeID", "nodeID", "CONV-PARSE-002")
	if err != nil {
		return NodeProof{}, err
	}
	popRaw, ok := lookup(rec, "nodePOP")
	if !ok {
		return NodeProof{}, newError(KindParse, "CONV-PARSE-003", "node record missing nodePOP")
	}
	pop, err := object(popRaw, "nodePOP")
	if err != nil {
		return NodeProof{}, err
	}
	publicKey, err := stringField(pop, "publicKey", "nodePOP.publicKey", "CONV-PARSE-004")
	if err != nil {
		return NodeProof{}, err
	}
	proof, err := stringField(pop, "proofOfPossession", "nodePOP.proofOfPossession", "CONV-PARSE-005")
	if err != nil {
		return NodeProof{}, err
	}

	_, encoded, err := ids.SplitNodeID(nodeID)
	if err != nil {
		return NodeProof{}, wrapError(KindParse, "CONV-PARSE-006", "malformed nodeID", err)
	}
	nodeBytes, err := decodeCB58(encoded, "nodeID", "CONV-DEC-003")
	if err != nil {
		return NodeProof{}, err
	}
	short, err := ids.ToShortID(nodeBytes)
	if err != nil {
		return NodeProof{}, wrapError(KindFormat, "CONV-FMT-007", "nodeID has wrong width", err)
	}

	pk, err := decodeHex(publicKey, "nodePOP.publicKey", "CONV-FMT-005")
	if err != nil {
		return NodeProof{}, err
	}
	if len(pk) != PublicKeyLen {
		return NodeProof{}, newError(KindFormat, "CONV-FMT-006",
			fmt.Sprintf("nodePOP.publicKey has %d bytes, want %d", len(pk), PublicKeyLen))
	}

	np := NodeProof{
		NodeID:            ids.NodeID(short),
		ProofOfPossession: proof,
	}
	copy(np.PublicKey[:], pk)
	return np, nil
}
