// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcsversion

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/datawire/gitver/pkg/python"
)

// SetupCfgSection is the section of setup.cfg that LoadSetupCfg reads.
const SetupCfgSection = "gitver"

// ParseConfig parses a YAML or JSON document in to a Config.  Unknown fields are an error.
//
//	release: 1.0.5          # or [1, 0, 5]
//	prerelease: rc1
//	commitCountPrefix: .post
//	archiveCommit: $Format:%h$
func ParseConfig(bs []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(bs, &cfg, yaml.DisallowUnknownFields); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML or JSON configuration file.
func LoadConfigFile(filename string) (Config, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(bs)
	if err != nil {
		return Config{}, &fs.PathError{
			Op:   "parse config",
			Path: filename,
			Err:  err,
		}
	}
	return cfg, nil
}

// LoadSetupCfg reads the [gitver] section of a setup.cfg file:
//
//	[gitver]
//	release = 1.0.5
//	prerelease = rc1
//	commit_count_prefix = .post
//	archive_commit = $Format:%h$
//
// The boolean return is false if the file has no [gitver] section.
func LoadSetupCfg(fp io.Reader) (Config, bool, error) {
	// setuptools reads setup.cfg without interpolation, and archive placeholders contain "%".
	parser := python.NewConfigParser()
	parser.Interpolate = python.NoInterpolation
	parsed, err := parser.Parse(fp)
	if err != nil {
		return Config{}, false, fmt.Errorf("setup.cfg: %w", err)
	}
	section, ok := parsed[SetupCfgSection]
	if !ok {
		return Config{}, false, nil
	}
	var cfg Config
	for key, val := range section {
		switch key {
		case "release":
			if err := cfg.Release.Set(val); err != nil {
				return Config{}, true, fmt.Errorf("setup.cfg: [%s] %s: %w", SetupCfgSection, key, err)
			}
		case "prerelease":
			cfg.Prerelease = val
		case "commit":
			cfg.Commit = val
		case "commit_count_prefix":
			cfg.CommitCountPrefix = val
		case "archive_commit":
			cfg.ArchiveCommit = val
		default:
			return Config{}, true, fmt.Errorf("setup.cfg: [%s]: unknown option %q", SetupCfgSection, key)
		}
	}
	return cfg, true, nil
}

// LoadSetupCfgFile is LoadSetupCfg on a named file.
func LoadSetupCfgFile(filename string) (Config, bool, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return Config{}, false, err
	}
	defer fp.Close()
	return LoadSetupCfg(fp)
}
