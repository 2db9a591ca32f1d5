package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"xdao.co/subnetconv/cidutil"
	"xdao.co/subnetconv/config"
	"xdao.co/subnetconv/conversion"
	"xdao.co/subnetconv/storage"
	"xdao.co/subnetconv/storage/grpcarchive"
	"xdao.co/subnetconv/storage/localfs"
	"xdao.co/subnetconv/wire"
)

type archiveFlags struct {
	dir         string
	grpcTarget  string
	grpcTimeout time.Duration
	maxMsgBytes int
}

// open returns the archive selected by the flags. With both a directory and a
// gRPC target, writes go to both and reads try the directory first.
func (f *archiveFlags) open() (storage.Archive, func(), error) {
	var targets []storage.Target
	closeFn := func() {}
	if f.dir != "" {
		a, err := localfs.New(f.dir)
		if err != nil {
			return nil, nil, err
		}
		targets = append(targets, storage.Target{Name: "dir", Archive: a})
	}
	if f.grpcTarget != "" {
		client, err := grpcarchive.Dial(f.grpcTarget, grpcarchive.DialOptions{
			Timeout:     f.grpcTimeout,
			MaxMsgBytes: f.maxMsgBytes,
		})
		if err != nil {
			return nil, nil, err
		}
		targets = append(targets, storage.Target{Name: "grpc", Archive: client})
		closeFn = func() { _ = client.Close() }
	}
	switch len(targets) {
	case 0:
		return nil, nil, usageError{errors.New("one of --archive-dir or --grpc-target is required")}
	case 1:
		return targets[0].Archive, closeFn, nil
	default:
		return storage.Replicating{Targets: targets}, closeFn, nil
	}
}

func (c *cli) archiveCommand() *cobra.Command {
	flags := &archiveFlags{}
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and fetch encoded conversion messages",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.dir, "archive-dir", "", "local archive directory")
	pf.StringVar(&flags.grpcTarget, "grpc-target", "", "address of a subnetconv-archived server")
	pf.DurationVar(&flags.grpcTimeout, "grpc-timeout", config.DefaultGRPCTimeout, "per-RPC timeout")
	pf.IntVar(&flags.maxMsgBytes, "grpc-max-msg-bytes", config.DefaultGRPCMaxMsgBytes, "max gRPC message size")

	cmd.AddCommand(c.archivePutCommand(flags))
	cmd.AddCommand(c.archiveGetCommand(flags))
	cmd.AddCommand(c.archiveListCommand(flags))
	return cmd
}

func (c *cli) archivePutCommand(flags *archiveFlags) *cobra.Command {
	var requestPath string
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Encode a request file and archive the message",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := c.loadRequest(requestPath)
			if err != nil {
				return err
			}
			a, closeFn, err := flags.open()
			if err != nil {
				return err
			}
			defer closeFn()

			key, id, err := storage.PutRequest(a, req)
			if err != nil {
				return err
			}
			c.logger.Debug("archived message", "id", id.String(), "cid", key.String())
			_, err = fmt.Fprintf(c.out, "%s\t%s\n", id, key)
			return err
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "request JSON file, - for stdin")
	return cmd
}

func (c *cli) archiveGetCommand(flags *archiveFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <cb58-id|cid>",
		Short: "Fetch an archived message by conversion ID or CID",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := cidutil.Parse(args[0])
			if err != nil {
				return usageError{fmt.Errorf("parse key %q: %w", args[0], err)}
			}
			a, closeFn, err := flags.open()
			if err != nil {
				return err
			}
			defer closeFn()

			msg, err := a.Get(key)
			if err != nil {
				return err
			}
			switch format {
			case "hex":
				_, err = fmt.Fprintln(c.out, wire.EncodeHex(msg))
				return err
			case "text":
				m, err := conversion.Unmarshal(msg)
				if err != nil {
					return err
				}
				return printMessage(c.out, m, msg)
			default:
				return usageError{fmt.Errorf("unknown --format %q (want hex or text)", format)}
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "hex", "output format: hex or text")
	return cmd
}

func (c *cli) archiveListCommand(flags *archiveFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the messages held in --archive-dir",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dir == "" {
				return usageError{errors.New("list requires --archive-dir")}
			}
			a, err := localfs.New(flags.dir)
			if err != nil {
				return err
			}
			keys, err := a.List()
			if err != nil {
				return err
			}
			for _, key := range keys {
				id, err := cidutil.ToID(key)
				if err != nil {
					c.logger.Warn("skipping foreign object", "cid", key.String(), "error", err)
					continue
				}
				if _, err := fmt.Fprintf(c.out, "%s\t%s\n", id, key); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
