package main

import (
	"context"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/pflag"

	"github.com/datawire/gitver/pkg/vcsversion"
)

// versionFlags are the flags that build a vcsversion.Config.  Values are layered: the setup.cfg
// file, then the config file, then the individual flags.
type versionFlags struct {
	setupCfgFile string
	configFile   string
	override     vcsversion.Config
}

func (f *versionFlags) AddFlags(flagset *pflag.FlagSet) {
	flagset.StringVar(&f.setupCfgFile, "setup-cfg", "",
		"Read options from the [gitver] section of the INI `FILE`")
	flagset.StringVar(&f.configFile, "config", "",
		"Read options from the YAML or JSON `FILE`")

	flagset.Var(&f.override.Release, "release",
		"The release that the version is based on, such as 1.0.5; "+
			"optional if the describe text has a tag")
	flagset.StringVar(&f.override.Prerelease, "prerelease", "",
		"Pre-release segment such as a1, b2, or rc1")
	flagset.StringVar(&f.override.Commit, "commit", "",
		"Pin the version to short commit `HASH` when there is no describe text")
	flagset.StringVar(&f.override.CommitCountPrefix, "commit-count-prefix", "",
		"Separator between the release and the commit count (default \""+
			vcsversion.DefaultCommitCountPrefix+"\")")
	flagset.StringVar(&f.override.ArchiveCommit, "archive-commit", "",
		"Commit `HASH` that 'git archive' substituted in to the source tree")
}

func (f *versionFlags) Config(ctx context.Context) (vcsversion.Config, error) {
	var cfg vcsversion.Config
	if f.setupCfgFile != "" {
		fileCfg, ok, err := vcsversion.LoadSetupCfgFile(f.setupCfgFile)
		if err != nil {
			return vcsversion.Config{}, err
		}
		if !ok {
			dlog.Warnf(ctx, "%s: no [%s] section", f.setupCfgFile, vcsversion.SetupCfgSection)
		}
		cfg = cfg.Merge(fileCfg)
	}
	if f.configFile != "" {
		fileCfg, err := vcsversion.LoadConfigFile(f.configFile)
		if err != nil {
			return vcsversion.Config{}, err
		}
		cfg = cfg.Merge(fileCfg)
	}
	cfg = cfg.Merge(f.override)
	if vcsversion.IsArchivePlaceholder(cfg.ArchiveCommit) {
		dlog.Debugf(ctx, "archive commit %q was not expanded by 'git archive'; ignoring it",
			cfg.ArchiveCommit)
	}
	dlog.Debugf(ctx, "configuration: %+v", cfg)
	return cfg, nil
}

func (f *versionFlags) Unresolved(ctx context.Context) (*vcsversion.Unresolved, error) {
	cfg, err := f.Config(ctx)
	if err != nil {
		return nil, err
	}
	return vcsversion.New(cfg)
}
