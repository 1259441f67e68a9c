// Command gitver turns the output of `git describe` in to PEP 440 version strings.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datawire/gitver/pkg/cliutil"
)

// auxCommands are added to every new argparser; the "aux" build adds to it.
//
//nolint:gochecknoglobals // only written from init()
var auxCommands []func(*cobra.Command)

func newArgparser(logger *logrus.Logger) *cobra.Command {
	argparser := &cobra.Command{
		Use:   "gitver {[flags]|SUBCOMMAND...}",
		Short: "Render PEP 440 versions from 'git describe' output",

		Version: buildVersion(),

		Args: cliutil.OnlySubcommands,
		RunE: cliutil.RunSubcommands,

		SilenceErrors: true, // Main() will handle this after .ExecuteContext() returns
		SilenceUsage:  true, // our FlagErrorFunc will handle it
	}
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)

	argparser.PersistentFlags().Var(logLevelFlag{logger}, "log-level",
		"Only log messages at `LEVEL` or more severe (debug, info, warning, error)")

	argparser.AddCommand(newRenderCommand())
	argparser.AddCommand(newCheckCommand())
	argparser.AddCommand(newIndexCommand())
	for _, fn := range auxCommands {
		fn(argparser)
	}
	return argparser
}

func newLogger(stderr io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return logger
}

// Main runs the command line, returning the exit code.  Usage errors exit the process directly
// with code 2.
func Main(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := newLogger(stderr)
	ctx = dlog.WithLogger(ctx, dlog.WrapLogrus(logger))

	argparser := newArgparser(logger)
	argparser.SetArgs(args)
	argparser.SetIn(stdin)
	argparser.SetOut(stdout)
	argparser.SetErr(stderr)

	if err := argparser.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(Main(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
