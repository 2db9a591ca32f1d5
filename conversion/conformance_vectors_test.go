package conversion

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type vector struct {
	Name    string  `json:"name"`
	Request Request `json:"request"`
	Message string  `json:"message"`
	ID      string  `json:"id"`
	IDCB58  string  `json:"idCB58"`
	CID     string  `json:"cid"`
}

func loadVectors(t *testing.T) []vector {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "vectors.json"))
	require.NoError(t, err)
	var doc struct {
		Vectors []vector `json:"vectors"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	require.NotEmpty(t, doc.Vectors)
	return doc.Vectors
}

func vectorByName(t *testing.T, name string) vector {
	t.Helper()
	for _, v := range loadVectors(t) {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("no vector %q", name)
	return vector{}
}

func TestConformanceVectors(t *testing.T) {
	for _, v := range loadVectors(t) {
		t.Run(v.Name, func(t *testing.T) {
			b, c, err := MarshalWithCID(v.Request)
			require.NoError(t, err)
			require.Equal(t, v.Message, hex.EncodeToString(b))
			require.Equal(t, v.CID, c.String())

			id, err := ComputeID(v.Request)
			require.NoError(t, err)
			require.Equal(t, v.ID, hex.EncodeToString(id[:]))
			require.Equal(t, v.IDCB58, id.String())
			require.Len(t, b, EncodedLen(len(v.Request.NodeProofs)))
		})
	}
}

func TestConformanceVectors_UnmarshalRoundTrip(t *testing.T) {
	for _, v := range loadVectors(t) {
		t.Run(v.Name, func(t *testing.T) {
			raw, err := hex.DecodeString(v.Message)
			require.NoError(t, err)
			m, err := Unmarshal(raw)
			require.NoError(t, err)
			require.Equal(t, raw, m.Bytes())
			require.Equal(t, v.IDCB58, m.ID().String())

			built, err := Build(v.Request)
			require.NoError(t, err)
			require.Equal(t, built, m)
		})
	}
}
