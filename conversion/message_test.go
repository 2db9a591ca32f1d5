package conversion

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"xdao.co/subnetconv/wire"
)

func vectorBytes(t *testing.T, name string) []byte {
	t.Helper()
	b, err := hex.DecodeString(vectorByName(t, name).Message)
	require.NoError(t, err)
	return b
}

func TestUnmarshal_Fields(t *testing.T) {
	m, err := Unmarshal(vectorBytes(t, "two-nodes"))
	require.NoError(t, err)
	require.Equal(t, CodecVersion, m.CodecVersion)
	require.Equal(t, "0xc7e2a8589c3e3a98f13448a46c8e3380b75ce076", m.ManagerAddress.Hex())
	require.Len(t, m.Validators, 2)
	require.Equal(t, "NodeID-7zzgm8kJo24eaUz5Er19142q1kzzyDW7J", m.Validators[0].NodeID.String())
	require.Equal(t, "NodeID-MWPrkHgWFRJMse8XuLVGD4UJHz8iRX9XS", m.Validators[1].NodeID.String())
	for _, v := range m.Validators {
		require.Equal(t, BootstrapValidatorWeight, v.Weight)
	}
}

func TestUnmarshal_Strict(t *testing.T) {
	good := vectorBytes(t, "one-node")

	mutate := func(f func(b []byte) []byte) []byte {
		return f(append([]byte(nil), good...))
	}

	cases := []struct {
		name string
		in   []byte
		rule string
	}{
		{"empty", nil, "CONV-MSG-001"},
		{"truncated header", good[:50], "CONV-MSG-001"},
		{"version", mutate(func(b []byte) []byte { b[1] = 1; return b }), "CONV-MSG-002"},
		{"address width", mutate(func(b []byte) []byte { b[69] = 19; return b }), "CONV-MSG-003"},
		{"count too large", mutate(func(b []byte) []byte { copy(b[90:94], wire.PutInt32(2)); return b }), "CONV-MSG-004"},
		{"negative count", mutate(func(b []byte) []byte { copy(b[90:94], wire.PutInt32(-1)); return b }), "CONV-MSG-004"},
		{"node width", mutate(func(b []byte) []byte { copy(b[94:98], wire.PutInt32(19)); return b }), "CONV-MSG-005"},
		{"weight", mutate(func(b []byte) []byte { b[len(b)-1] = 99; return b }), "CONV-MSG-006"},
		{"trailing", append(append([]byte(nil), good...), 0x00), "CONV-MSG-007"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Unmarshal(tc.in)
			require.Nil(t, m)
			expectRule(t, err, KindFormat, tc.rule)
		})
	}
}
