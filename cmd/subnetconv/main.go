package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const programName = "subnetconv"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// usageError marks failures caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// cli carries the streams and global flags shared by every subcommand.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	debug  bool
	logger *slog.Logger
}

func run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	c := &cli{in: in, out: out, errOut: errOut}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintf(errOut, "%s: %v\n", programName, err)
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           programName,
		Short:         "Encode subnet-to-L1 conversion messages and derive their IDs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.logger = newLogger(c.errOut, c.debug)
		},
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	root.PersistentFlags().
		BoolVarP(&c.debug, "debug", "D", false, "enable debug logging on stderr")

	root.AddCommand(c.marshalCommand())
	root.AddCommand(c.idCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.archiveCommand())
	return root
}

// newLogger returns a JSON logger that stays quiet unless debug is set.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	logLevel := slog.LevelWarn
	addSource := false
	if debug {
		logLevel = slog.LevelDebug
		addSource = true
	}
	return slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: addSource,
			Level:     logLevel,
		}),
	).With("component", programName)
}

// noArgs is cobra.NoArgs reported as a usage error. Commands that only group
// subcommands use it so a mistyped subcommand is not silently accepted.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

// exactArgs is cobra.ExactArgs reported as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
