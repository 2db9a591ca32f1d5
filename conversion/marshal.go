package conversion

import (
	"fmt"
	"math"

	"xdao.co/subnetconv/cb58"
	"xdao.co/subnetconv/ids"
	"xdao.co/subnetconv/wire"
)

const (
	// CodecVersion prefixes every encoded message.
	CodecVersion uint16 = 0

	// BootstrapValidatorWeight is assigned to every validator in the set.
	BootstrapValidatorWeight int64 = 100

	// PublicKeyLen is the width of a compressed BLS public key.
	PublicKeyLen = 48

	// AddressLen is the width of the manager contract address.
	AddressLen = 20
)

const (
	headerLen    = wire.Uint16Len + ids.IDLen + ids.IDLen + wire.Int32Len + AddressLen + wire.Int32Len
	validatorLen = wire.Int32Len + ids.ShortIDLen + PublicKeyLen + wire.Int64Len
)

// EncodedLen returns the exact message length for a request with n node records.
func EncodedLen(n int) int {
	return headerLen + n*validatorLen
}

// Marshal encodes req into the canonical conversion message.
//
// Any decode or parse failure, in any field or node record, aborts the whole
// encoding; no partial output is returned.
func Marshal(req Request) ([]byte, error) {
	m, err := Build(req)
	if err != nil {
		return nil, err
	}
	return m.Bytes(), nil
}

// Build decodes every field of req into a typed Message.
func Build(req Request) (*Message, error) {
	subnetID, err := decodeID(req.SubnetID, "subnetId", "CONV-DEC-001", "CONV-FMT-001")
	if err != nil {
		return nil, err
	}
	chainID, err := decodeID(req.ManagerChainID, "managerChainId", "CONV-DEC-002", "CONV-FMT-002")
	if err != nil {
		return nil, err
	}
	addr, err := decodeHex(req.ManagerAddress, "managerAddress", "CONV-FMT-003")
	if err != nil {
		return nil, err
	}
	address, err := ids.ToShortID(addr)
	if err != nil {
		return nil, wrapError(KindFormat, "CONV-FMT-004", "managerAddress has wrong width", err)
	}
	if len(req.NodeProofs) > math.MaxInt32 {
		return nil, newError(KindFormat, "CONV-FMT-008", "too many node records")
	}

	m := &Message{
		CodecVersion:   CodecVersion,
		SubnetID:       subnetID,
		ManagerChainID: chainID,
		ManagerAddress: address,
		Validators:     make([]Validator, 0, len(req.NodeProofs)),
	}
	for i, raw := range req.NodeProofs {
		np, err := ParseNodeProof(raw)
		if err != nil {
			return nil, within(err, fmt.Sprintf("nodeProofs[%d]", i))
		}
		m.Validators = append(m.Validators, Validator{
			NodeID:    np.NodeID,
			PublicKey: np.PublicKey,
			Weight:    BootstrapValidatorWeight,
		})
	}
	return m, nil
}

func decodeCB58(s, field, ruleID string) ([]byte, error) {
	b, err := cb58.Decode(s)
	if err != nil {
		return nil, wrapError(KindDecode, ruleID, field+" is not a valid CB58 identifier", err)
	}
	return b, nil
}

func decodeID(s, field, decodeRule, widthRule string) (ids.ID, error) {
	b, err := decodeCB58(s, field, decodeRule)
	if err != nil {
		return ids.ID{}, err
	}
	id, err := ids.ToID(b)
	if err != nil {
		return ids.ID{}, wrapError(KindFormat, widthRule, field+" has wrong width", err)
	}
	return id, nil
}

func decodeHex(s, field, ruleID string) ([]byte, error) {
	b, err := wire.DecodeHex(s)
	if err != nil {
		return nil, wrapError(KindFormat, ruleID, field+" is not valid hex", err)
	}
	return b, nil
}
