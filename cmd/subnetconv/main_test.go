package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"xdao.co/subnetconv/cidutil"
	"xdao.co/subnetconv/storage/grpcarchive"
	"xdao.co/subnetconv/storage/memory"
)

type vector struct {
	Name    string          `json:"name"`
	Request json.RawMessage `json:"request"`
	Message string          `json:"message"`
	ID      string          `json:"id"`
	IDCB58  string          `json:"idCB58"`
	CID     string          `json:"cid"`
}

func loadVector(t *testing.T, name string) vector {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "..", "conversion", "testdata", "vectors.json"))
	require.NoError(t, err)
	var doc struct {
		Vectors []vector `json:"vectors"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	for _, v := range doc.Vectors {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("vector %q not found", name)
	return vector{}
}

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_NoArgsPrintsHelp(t *testing.T) {
	code, out, _ := runCLI(t, "")
	require.Equal(t, 0, code)
	require.Contains(t, out, "marshal")
	require.Contains(t, out, "archive")
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, errOut := runCLI(t, "", "bogus")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "bogus")

	code, _, errOut = runCLI(t, "", "archive", "bogus")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "bogus")

	code, out, _ := runCLI(t, "", "archive")
	require.Equal(t, 0, code)
	require.Contains(t, out, "put")
}

func TestMarshal(t *testing.T) {
	v := loadVector(t, "two-nodes")
	req := writeFile(t, "request.json", v.Request)

	code, out, errOut := runCLI(t, "", "marshal", "--request", req)
	require.Equal(t, 0, code, errOut)
	require.Equal(t, "0x"+v.Message+"\n", out)

	code, out, errOut = runCLI(t, "", "marshal", "--request", req, "--format", "raw")
	require.Equal(t, 0, code, errOut)
	require.Equal(t, v.Message, hex.EncodeToString([]byte(out)))
}

func TestMarshal_Stdin(t *testing.T) {
	v := loadVector(t, "zero-nodes")
	code, out, errOut := runCLI(t, string(v.Request), "marshal", "-r", "-")
	require.Equal(t, 0, code, errOut)
	require.Equal(t, "0x"+v.Message+"\n", out)
}

func TestMarshal_UsageErrors(t *testing.T) {
	code, _, errOut := runCLI(t, "", "marshal")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "--request is required")

	req := writeFile(t, "request.json", loadVector(t, "one-node").Request)
	code, _, _ = runCLI(t, "", "marshal", "--request", req, "--format", "base64")
	require.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "marshal", "--no-such-flag")
	require.Equal(t, 2, code)
}

func TestMarshal_InvalidRequest(t *testing.T) {
	req := writeFile(t, "request.json", []byte(`{
		"subnetId": "233YKC6kpB3JkroG6DCcPPi8C8hptik7VysVKmusbf3n5rSzp5",
		"managerChainId": "2bwmF11wrj1cfrTpo61qdutTX7sJmUVcWMyoadkRPkBen8uR7d",
		"managerAddress": "0xc7e2a8589c3e3a98f13448a46c8e3380b75ce076",
		"nodeProofs": []
	}`))
	code, out, errOut := runCLI(t, "", "marshal", "--request", req)
	require.Equal(t, 1, code)
	require.Empty(t, out)
	require.Contains(t, errOut, "subnetId")
}

func TestID_Formats(t *testing.T) {
	v := loadVector(t, "one-node")
	req := writeFile(t, "request.json", v.Request)

	for format, want := range map[string]string{
		"cb58": v.IDCB58,
		"hex":  "0x" + v.ID,
		"cid":  v.CID,
	} {
		code, out, errOut := runCLI(t, "", "id", "--request", req, "--format", format)
		require.Equal(t, 0, code, errOut)
		require.Equal(t, want+"\n", out, format)
	}
}

func TestInspect(t *testing.T) {
	v := loadVector(t, "two-nodes")
	path := writeFile(t, "message.hex", []byte("0x"+v.Message+"\n"))

	code, out, errOut := runCLI(t, "", "inspect", path)
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "validators:     2")
	require.Contains(t, out, "NodeID-7zzgm8kJo24eaUz5Er19142q1kzzyDW7J")
	require.Contains(t, out, "NodeID-MWPrkHgWFRJMse8XuLVGD4UJHz8iRX9XS")
	require.Contains(t, out, "id:             "+v.IDCB58)
	require.Contains(t, out, "cid:            "+v.CID)

	code, _, _ = runCLI(t, v.Message+"00", "inspect", "-")
	require.Equal(t, 1, code)
}

func TestArchive_PutGet(t *testing.T) {
	v := loadVector(t, "two-nodes")
	req := writeFile(t, "request.json", v.Request)
	dir := t.TempDir()

	code, out, errOut := runCLI(t, "", "archive", "--archive-dir", dir, "put", "--request", req)
	require.Equal(t, 0, code, errOut)
	require.Equal(t, v.IDCB58+"\t"+v.CID+"\n", out)

	for _, key := range []string{v.IDCB58, v.CID} {
		code, out, errOut = runCLI(t, "", "archive", "--archive-dir", dir, "get", key)
		require.Equal(t, 0, code, errOut)
		require.Equal(t, "0x"+v.Message+"\n", out)
	}

	code, out, errOut = runCLI(t, "", "archive", "--archive-dir", dir, "get", "--format", "text", v.CID)
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "validators:     2")

	code, out, errOut = runCLI(t, "", "archive", "--archive-dir", dir, "list")
	require.Equal(t, 0, code, errOut)
	require.Equal(t, v.IDCB58+"\t"+v.CID+"\n", out)
}

func TestArchive_Errors(t *testing.T) {
	code, _, errOut := runCLI(t, "", "archive", "get", loadVector(t, "one-node").IDCB58)
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "--archive-dir")

	code, _, errOut = runCLI(t, "", "archive", "--archive-dir", t.TempDir(), "get", loadVector(t, "one-node").CID)
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "not found")

	code, _, _ = runCLI(t, "", "archive", "--archive-dir", t.TempDir(), "get", "not-an-id")
	require.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "archive", "--grpc-target", "127.0.0.1:1", "list")
	require.Equal(t, 2, code)
}

func TestDebugLogging(t *testing.T) {
	v := loadVector(t, "one-node")
	req := writeFile(t, "request.json", v.Request)

	code, _, errOut := runCLI(t, "", "--debug", "id", "--request", req)
	require.Equal(t, 0, code, errOut)
	require.Contains(t, errOut, `"component":"subnetconv"`)
	require.Contains(t, errOut, v.IDCB58)
}

func TestArchive_ReplicatesToDirAndServer(t *testing.T) {
	remote := memory.New()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	gs := grpc.NewServer()
	grpcarchive.RegisterArchiveServer(gs, &grpcarchive.Server{Archive: remote})
	go func() { _ = gs.Serve(lis) }()
	defer gs.Stop()

	v := loadVector(t, "three-nodes")
	req := writeFile(t, "request.json", v.Request)
	dir := t.TempDir()
	target := lis.Addr().String()

	code, out, errOut := runCLI(t, "", "archive", "--archive-dir", dir, "--grpc-target", target, "put", "--request", req)
	require.Equal(t, 0, code, errOut)
	require.Equal(t, v.IDCB58+"\t"+v.CID+"\n", out)

	key, err := cidutil.Parse(v.CID)
	require.NoError(t, err)
	require.True(t, remote.Has(key))

	code, out, errOut = runCLI(t, "", "archive", "--grpc-target", target, "get", v.IDCB58)
	require.Equal(t, 0, code, errOut)
	require.Equal(t, "0x"+v.Message+"\n", out)
}
