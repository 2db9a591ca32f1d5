package conversion

import (
	"errors"
	"fmt"

	"xdao.co/subnetconv/ids"
	"xdao.co/subnetconv/wire"
)

// Validator is one entry of the bootstrap validator set.
type Validator struct {
	NodeID    ids.NodeID
	PublicKey [PublicKeyLen]byte
	Weight    int64
}

// Message is the typed form of an encoded conversion message.
type Message struct {
	CodecVersion   uint16
	SubnetID       ids.ID
	ManagerChainID ids.ID
	ManagerAddress ids.ShortID
	Validators     []Validator
}

// Bytes returns the canonical encoding of m.
func (m *Message) Bytes() []byte {
	p := wire.NewPacker(EncodedLen(len(m.Validators)))
	p.PackUint16(m.CodecVersion)
	p.PackFixedBytes(m.SubnetID[:])
	p.PackFixedBytes(m.ManagerChainID[:])
	p.PackBytes(m.ManagerAddress[:])
	p.PackInt32(int32(len(m.Validators)))
	for _, v := range m.Validators {
		p.PackBytes(v.NodeID[:])
		p.PackFixedBytes(v.PublicKey[:])
		p.PackInt64(v.Weight)
	}
	return p.Bytes
}

// ID returns the conversion ID of m.
func (m *Message) ID() ids.ID {
	return ID(m.Bytes())
}

var errTrailingBytes = errors.New("trailing bytes after message")

// Unmarshal decodes a canonical conversion message.
//
// Decoding is strict: the codec version and every weight must match the
// constants, variable-length fields must have their fixed widths, and no
// bytes may follow the last validator.
func Unmarshal(b []byte) (*Message, error) {
	u := wire.NewUnpacker(b)
	m := &Message{}

	m.CodecVersion = u.UnpackUint16()
	copy(m.SubnetID[:], u.UnpackFixedBytes(ids.IDLen))
	copy(m.ManagerChainID[:], u.UnpackFixedBytes(ids.IDLen))
	addr := u.UnpackBytes()
	count := u.UnpackInt32()
	if u.Err != nil {
		return nil, wrapError(KindFormat, "CONV-MSG-001", "truncated message header", u.Err)
	}
	if m.CodecVersion != CodecVersion {
		return nil, newError(KindFormat, "CONV-MSG-002",
			fmt.Sprintf("unsupported codec version %d", m.CodecVersion))
	}
	if len(addr) != AddressLen {
		return nil, newError(KindFormat, "CONV-MSG-003",
			fmt.Sprintf("manager address has %d bytes, want %d", len(addr), AddressLen))
	}
	copy(m.ManagerAddress[:], addr)
	if count < 0 || int64(count)*validatorLen > int64(u.Remaining()) {
		return nil, newError(KindFormat, "CONV-MSG-004",
			fmt.Sprintf("validator count %d does not fit in %d remaining bytes", count, u.Remaining()))
	}

	m.Validators = make([]Validator, 0, count)
	for i := 0; i < int(count); i++ {
		var v Validator
		nodeID := u.UnpackBytes()
		copy(v.PublicKey[:], u.UnpackFixedBytes(PublicKeyLen))
		v.Weight = u.UnpackInt64()
		if u.Err != nil {
			return nil, wrapError(KindFormat, "CONV-MSG-001", fmt.Sprintf("truncated validator %d", i), u.Err)
		}
		if len(nodeID) != ids.ShortIDLen {
			return nil, newError(KindFormat, "CONV-MSG-005",
				fmt.Sprintf("validator %d node ID has %d bytes, want %d", i, len(nodeID), ids.ShortIDLen))
		}
		if v.Weight != BootstrapValidatorWeight {
			return nil, newError(KindFormat, "CONV-MSG-006",
				fmt.Sprintf("validator %d weight %d, want %d", i, v.Weight, BootstrapValidatorWeight))
		}
		copy(v.NodeID[:], nodeID)
		m.Validators = append(m.Validators, v)
	}
	if u.Remaining() != 0 {
		return nil, wrapError(KindFormat, "CONV-MSG-007", fmt.Sprintf("%d unexpected bytes", u.Remaining()), errTrailingBytes)
	}
	return m, nil
}
