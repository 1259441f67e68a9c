package main

import (
	"fmt"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"

	"github.com/datawire/gitver/pkg/cliutil"
	"github.com/datawire/gitver/pkg/python/pep440"
	"github.com/datawire/gitver/pkg/python/pep503"
	"github.com/datawire/gitver/pkg/python/pypa/simple_repo_api"
)

func newIndexCommand() *cobra.Command {
	var (
		argIndexServer string
		argPre         bool
		argAllowExists bool
	)
	cmd := &cobra.Command{
		Use:   "index [flags] PROJECT VERSION",
		Short: "Compare a version against the releases on a Python package index",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(2)),

		Long: "Look up PROJECT on a PEP 503 package index and report whether VERSION has " +
			"already been published, and whether it is newer than the latest published " +
			"release." +
			"\n\n" +
			"Fails if VERSION has already been published (unless --allow-exists), so that " +
			"it may be used as a guard before uploading.",

		Example: "" +
			"  $ gitver index --index-server=https://test.pypi.org/simple/ my-project 1.0.5.post2\n",

		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project := args[0]
			ver, err := pep440.ParseVersion(args[1])
			if err != nil {
				return err
			}

			client := simple_repo_api.NewClient(argIndexServer)
			releases, err := simple_repo_api.ListReleases(ctx, client, project)
			if err != nil {
				return err
			}
			dlog.Debugf(ctx, "%s has %d releases", project, len(releases))

			out := cmd.OutOrStdout()
			if rel, ok := simple_repo_api.Find(releases, *ver); ok {
				yanked := ""
				if rel.Yanked {
					yanked = " (yanked)"
				}
				fmt.Fprintf(out, "%s %s is published%s: %v\n", project, rel.Version, yanked, rel.Files)
				if !argAllowExists {
					return fmt.Errorf("%s %s already exists on %s", project, ver, argIndexServer)
				}
				return nil
			}
			latest, ok := simple_repo_api.Latest(releases, argPre || ver.IsPreRelease())
			switch {
			case !ok:
				fmt.Fprintf(out, "%s %s is not published; there are no other releases\n", project, ver)
			case latest.Version.Cmp(*ver) < 0:
				fmt.Fprintf(out, "%s %s is not published; it is newer than %s\n", project, ver, latest.Version)
			default:
				dlog.Warnf(ctx, "%s %s sorts before the latest release %s", project, ver, latest.Version)
				fmt.Fprintf(out, "%s %s is not published; it is older than %s\n", project, ver, latest.Version)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&argIndexServer, "index-server", pep503.PyPIBaseURL,
		"`URL` of the package index")
	cmd.Flags().BoolVar(&argPre, "pre", false,
		"Consider pre-releases when finding the latest release")
	cmd.Flags().BoolVar(&argAllowExists, "allow-exists", false,
		"Do not fail if the version is already published")

	return cmd
}
