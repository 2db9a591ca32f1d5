// Package ids holds the fixed-width identifiers carried by a conversion message.
package ids

import (
	"errors"
	"fmt"
	"strings"

	"xdao.co/subnetconv/cb58"
	"xdao.co/subnetconv/wire"
)

const (
	IDLen      = 32
	ShortIDLen = 20

	// NodeIDPrefix is the human-readable prefix of a printed node ID.
	NodeIDPrefix = "NodeID"
	nodeIDSep    = "-"
)

var (
	ErrWrongLength     = errors.New("ids: wrong identifier length")
	ErrMalformedNodeID = errors.New("ids: malformed node ID")
)

// ID is a 32-byte identifier (subnet, chain, conversion).
type ID [IDLen]byte

// Empty is the all-zero ID.
var Empty ID

// ShortID is a 20-byte identifier (node ID, account address).
type ShortID [ShortIDLen]byte

// ToID copies b into an ID. b must be exactly IDLen bytes.
func ToID(b []byte) (ID, error) {
	var id ID
	if len(b) != IDLen {
		return id, fmt.Errorf("%w: got %d bytes, want %d", ErrWrongLength, len(b), IDLen)
	}
	copy(id[:], b)
	return id, nil
}

// ToShortID copies b into a ShortID. b must be exactly ShortIDLen bytes.
func ToShortID(b []byte) (ShortID, error) {
	var id ShortID
	if len(b) != ShortIDLen {
		return id, fmt.Errorf("%w: got %d bytes, want %d", ErrWrongLength, len(b), ShortIDLen)
	}
	copy(id[:], b)
	return id, nil
}

// FromString parses a CB58 ID.
func FromString(s string) (ID, error) {
	b, err := cb58.Decode(s)
	if err != nil {
		return ID{}, err
	}
	return ToID(b)
}

// ShortFromString parses a CB58 ShortID.
func ShortFromString(s string) (ShortID, error) {
	b, err := cb58.Decode(s)
	if err != nil {
		return ShortID{}, err
	}
	return ToShortID(b)
}

func (id ID) String() string { return cb58.Encode(id[:]) }
func (id ID) Hex() string { return wire.EncodeHex(id[:]) }
func (id ID) Bytes() []byte { return append([]byte(nil), id[:]...) }
func (id ID) IsEmpty() bool { return id == Empty }

func (id ShortID) String() string { return cb58.Encode(id[:]) }
func (id ShortID) Hex() string { return wire.EncodeHex(id[:]) }
func (id ShortID) Bytes() []byte { return append([]byte(nil), id[:]...) }

// NodeID is a ShortID that prints with the NodeIDPrefix.
type NodeID ShortID

func (n NodeID) String() string { return NodeIDPrefix + nodeIDSep + ShortID(n).String() }

func (n NodeID) Bytes() []byte { return ShortID(n).Bytes() }

// SplitNodeID separates "<prefix>-<cb58>" into its two parts. Both parts must
// be non-empty and the encoded part must not contain another separator.
func SplitNodeID(s string) (prefix, encoded string, err error) {
	prefix, encoded, ok := strings.Cut(s, nodeIDSep)
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no %q separator", ErrMalformedNodeID, s, nodeIDSep)
	}
	if prefix == "" || encoded == "" || strings.Contains(encoded, nodeIDSep) {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedNodeID, s)
	}
	return prefix, encoded, nil
}

// ParseNodeID parses a printed node ID. Any non-empty prefix is accepted; only
// the encoded part contributes bytes.
func ParseNodeID(s string) (NodeID, error) {
	_, encoded, err := SplitNodeID(s)
	if err != nil {
		return NodeID{}, err
	}
	short, err := ShortFromString(encoded)
	if err != nil {
		return NodeID{}, err
	}
	return NodeID(short), nil
}
