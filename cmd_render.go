package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/datawire/gitver/pkg/cliutil"
	"github.com/datawire/gitver/pkg/vcsversion"
)

func newRenderCommand() *cobra.Command {
	var (
		flags     versionFlags
		argOutput string
		argConda  bool
	)
	cmd := &cobra.Command{
		Use:   "render [flags] [DESCRIBE_TEXT|-]",
		Short: "Render the PEP 440 version for a 'git describe' string",
		Args:  cliutil.WrapPositionalArgs(cobra.MaximumNArgs(1)),

		Long: "Render the PEP 440 version for the output of " +
			"`git describe --tags --long --dirty`, such as \"v1.0.5-2-gabcdefgh-dirty\"." +
			"\n\n" +
			"If DESCRIBE_TEXT is \"-\" it is read from stdin.  If it is omitted, the version " +
			"is rendered from --release and the other flags alone." +
			"\n\n" +
			"A commit count of zero renders as the bare release, even when the working " +
			"tree is dirty.",

		Example: "" +
			"  $ gitver render v1.0.5-2-gabcdefgh-dirty\n" +
			"  1.0.5.post2+gabcdefgh-dirty\n" +
			"  $ git describe --tags --long --dirty | gitver render -\n" +
			"  $ gitver render --release=1.0 --archive-commit=abcdef1\n" +
			"  1.0.post0+gabcdef1-gitarchive",

		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch argOutput {
			case "text", "yaml", "json":
			default:
				return cliutil.FlagErrorFunc(cmd, fmt.Errorf(
					"invalid --output=%q: must be \"text\", \"yaml\", or \"json\"", argOutput))
			}

			cfg, err := flags.Config(ctx)
			if err != nil {
				return err
			}
			unresolved, err := vcsversion.New(cfg)
			if err != nil {
				return err
			}

			var resolved *vcsversion.Resolved
			if len(args) == 0 {
				resolved, err = unresolved.Resolve()
			} else {
				text := args[0]
				if text == "-" {
					bs, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("reading stdin: %w", err)
					}
					text = string(bs)
				}
				resolved, err = unresolved.UpdateFromDescribe(text)
				if err == nil && cfg.Release != nil && !cfg.Release.Equal(resolved.Release()) {
					dlog.Warnf(ctx, "configured release %s does not match the tag; using %s",
						cfg.Release, resolved.Release())
				}
			}
			if err != nil {
				return err
			}
			if count, ok := resolved.CommitCount(); ok && count == 0 && resolved.Dirty() {
				dlog.Warnf(ctx, "the working tree is dirty, but version %s does not say so", resolved)
			}

			if _, err := resolved.PEP440(); err != nil {
				return err
			}
			if argConda {
				if err := vcsversion.CheckConda(resolved.String()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			switch argOutput {
			case "yaml":
				bs, err := yaml.Marshal(resolved.Record())
				if err != nil {
					return err
				}
				_, err = out.Write(bs)
				return err
			case "json":
				bs, err := json.MarshalIndent(resolved.Record(), "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%s\n", bs)
				return err
			default:
				_, err := fmt.Fprintln(out, resolved)
				return err
			}
		},
	}
	flags.AddFlags(cmd.Flags())
	cmd.Flags().StringVarP(&argOutput, "output", "o", "text",
		"Output `FORMAT`: text prints just the version; yaml and json print the whole record")
	cmd.Flags().BoolVar(&argConda, "conda", false,
		"Fail if conda would not accept the version (a dirty version contains \"-\")")

	return cmd
}
