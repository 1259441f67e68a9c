//go:build aux
// +build aux

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/datawire/gitver/pkg/cliutil"
)

func genDocsCommand(use, short string, gen func(root *cobra.Command, dir string) error) *cobra.Command {
	return &cobra.Command{
		Hidden: true,
		Use:    use,
		Short:  short,
		Args:   cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.RemoveAll(dir); err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o777); err != nil {
				return err
			}
			root := cmd.Root()
			root.DisableAutoGenTag = true
			return gen(root, dir)
		},
	}
}

func init() {
	auxCommands = append(auxCommands, func(argparser *cobra.Command) {
		// completion
		argparser.CompletionOptions.DisableDefaultCmd = false
		argparser.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
			if completionCmd, _, err := cmd.Root().Find([]string{"completion"}); err == nil {
				completionCmd.Hidden = true
			}
		}

		argparser.AddCommand(genDocsCommand("man OUT_DIRECTORY", "Generate man pages",
			func(root *cobra.Command, dir string) error {
				header := &doc.GenManHeader{
					Source: "Ambassador Labs",
					Manual: root.Name(),
				}
				return doc.GenManTree(root, header, dir)
			}))

		argparser.AddCommand(genDocsCommand("mddoc OUT_DIRECTORY", "Generate markdown documentation",
			doc.GenMarkdownTree))
	})
}
