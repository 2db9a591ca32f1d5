// Command conversion_vector_gen recomputes the expected fields of the
// conversion conformance vectors from their requests.
//
//	go run ./internal/tools/conversion_vector_gen -in conversion/testdata/vectors.json -check
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"xdao.co/subnetconv/cidutil"
	"xdao.co/subnetconv/conversion"
)

type vector struct {
	Name    string             `json:"name"`
	Request conversion.Request `json:"request"`
	Message string             `json:"message"`
	ID      string             `json:"id"`
	IDCB58  string             `json:"idCB58"`
	CID     string             `json:"cid"`
}

type document struct {
	Vectors []vector `json:"vectors"`
}

func main() {
	in := flag.String("in", "conversion/testdata/vectors.json", "vectors file")
	check := flag.Bool("check", false, "report stale vectors instead of printing the regenerated file")
	flag.Parse()

	b, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", *in, err)
		os.Exit(1)
	}

	stale := 0
	for i := range doc.Vectors {
		v := &doc.Vectors[i]
		msg, id, err := conversion.MarshalWithID(v.Request)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", v.Name, err)
			os.Exit(1)
		}
		message, idHex, idCB58, c := hex.EncodeToString(msg), hex.EncodeToString(id[:]), id.String(), cidutil.CIDv1RawSHA256(msg)
		if v.Message != message || v.ID != idHex || v.IDCB58 != idCB58 || v.CID != c {
			stale++
			fmt.Fprintf(os.Stderr, "%s: stale\n", v.Name)
		}
		v.Message, v.ID, v.IDCB58, v.CID = message, idHex, idCB58, c
	}

	if *check {
		if stale > 0 {
			os.Exit(1)
		}
		return
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
