package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"xdao.co/subnetconv/cidutil"
	"xdao.co/subnetconv/conversion"
	"xdao.co/subnetconv/wire"
)

// readInput reads path, or stdin when path is "-".
func (c *cli) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.in)
	}
	return os.ReadFile(path)
}

func (c *cli) loadRequest(path string) (conversion.Request, error) {
	if path == "" {
		return conversion.Request{}, usageError{fmt.Errorf("--request is required")}
	}
	b, err := c.readInput(path)
	if err != nil {
		return conversion.Request{}, fmt.Errorf("read request: %w", err)
	}
	return conversion.ReadRequest(bytes.NewReader(b))
}

func (c *cli) marshalCommand() *cobra.Command {
	var requestPath, format string
	cmd := &cobra.Command{
		Use:   "marshal",
		Short: "Encode a request file into the canonical conversion message",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := c.loadRequest(requestPath)
			if err != nil {
				return err
			}
			msg, err := conversion.Marshal(req)
			if err != nil {
				return err
			}
			c.logger.Debug("encoded message",
				"bytes", len(msg),
				"validators", len(req.NodeProofs),
			)
			switch format {
			case "hex":
				_, err = fmt.Fprintln(c.out, wire.EncodeHex(msg))
			case "raw":
				_, err = c.out.Write(msg)
			default:
				return usageError{fmt.Errorf("unknown --format %q (want hex or raw)", format)}
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "request JSON file, - for stdin")
	cmd.Flags().StringVar(&format, "format", "hex", "output format: hex or raw")
	return cmd
}

func (c *cli) idCommand() *cobra.Command {
	var requestPath, format string
	cmd := &cobra.Command{
		Use:   "id",
		Short: "Print the conversion ID of a request file",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := c.loadRequest(requestPath)
			if err != nil {
				return err
			}
			msg, id, err := conversion.MarshalWithID(req)
			if err != nil {
				return err
			}
			c.logger.Debug("computed conversion id", "id", id.String(), "bytes", len(msg))
			switch format {
			case "cb58":
				_, err = fmt.Fprintln(c.out, id.String())
			case "hex":
				_, err = fmt.Fprintln(c.out, id.Hex())
			case "cid":
				_, err = fmt.Fprintln(c.out, cidutil.CIDv1RawSHA256(msg))
			default:
				return usageError{fmt.Errorf("unknown --format %q (want cb58, hex or cid)", format)}
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "request JSON file, - for stdin")
	cmd.Flags().StringVar(&format, "format", "cb58", "output format: cb58, hex or cid")
	return cmd
}

func (c *cli) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <hex-file|->",
		Short: "Decode a hex-encoded conversion message and print its fields",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.readInput(args[0])
			if err != nil {
				return fmt.Errorf("read message: %w", err)
			}
			msg, err := wire.DecodeHex(strings.TrimSpace(string(b)))
			if err != nil {
				return fmt.Errorf("decode message hex: %w", err)
			}
			m, err := conversion.Unmarshal(msg)
			if err != nil {
				return err
			}
			return printMessage(c.out, m, msg)
		},
	}
}

func printMessage(w io.Writer, m *conversion.Message, raw []byte) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "codecVersion:   %d\n", m.CodecVersion)
	fmt.Fprintf(&sb, "subnetId:       %s\n", m.SubnetID)
	fmt.Fprintf(&sb, "managerChainId: %s\n", m.ManagerChainID)
	fmt.Fprintf(&sb, "managerAddress: %s\n", m.ManagerAddress.Hex())
	fmt.Fprintf(&sb, "validators:     %d\n", len(m.Validators))
	for i, v := range m.Validators {
		fmt.Fprintf(&sb, "  [%d] nodeID=%s publicKey=%s weight=%d\n",
			i, v.NodeID, wire.EncodeHex(v.PublicKey[:]), v.Weight)
	}
	fmt.Fprintf(&sb, "id:             %s\n", conversion.ID(raw))
	fmt.Fprintf(&sb, "cid:            %s\n", cidutil.CIDv1RawSHA256(raw))
	_, err := io.WriteString(w, sb.String())
	return err
}
