package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datawire/gitver/pkg/cliutil"
	"github.com/datawire/gitver/pkg/python/pep440"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] VERSION [SPECIFIER]",
		Short: "Validate and normalize a PEP 440 version",
		Args:  cliutil.WrapPositionalArgs(cobra.RangeArgs(1, 2)),

		Long: "Print the normalized form of VERSION, or fail if it is not a valid PEP 440 " +
			"version.  If SPECIFIER (such as \">=1.0,!=1.3.*\") is given, also fail if " +
			"VERSION does not match it.",

		Example: "" +
			"  $ gitver check v1.0.5-post2\n" +
			"  1.0.5.post2\n" +
			"  $ gitver check 1.0rc1 '>=1.0a1,<2'\n" +
			"  1.0rc1\n",

		RunE: func(cmd *cobra.Command, args []string) error {
			ver, err := pep440.ParseVersion(args[0])
			if err != nil {
				return err
			}
			if len(args) > 1 {
				spec, err := pep440.ParseSpecifier(args[1])
				if err != nil {
					return err
				}
				if !spec.Match(*ver) {
					return fmt.Errorf("version %s does not match %q", ver, spec)
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ver)
			return err
		},
	}
}
