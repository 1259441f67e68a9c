// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package vcsversion turns the output of `git describe --long [--dirty]` in to a PEP 440
// version string.
//
// Resolution happens in two phases.  New validates the construction options and returns an
// *Unresolved; that is then resolved exactly once, either from describe text
// (UpdateFromDescribe) or without it (Resolve), producing a *Resolved.  Neither value is ever
// mutated, so a *Resolved can be shared freely and rendered with String any number of times.
package vcsversion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/datawire/gitver/pkg/python/pep440"
)

// DefaultCommitCountPrefix separates the release from the commit count, producing a PEP 440
// post-release segment.
const DefaultCommitCountPrefix = ".post"

// Config holds the construction-time options.  Only Release is usually required; it may be
// left nil if the describe text will supply it.
type Config struct {
	Release    Release `json:"release,omitempty"`
	Prerelease string  `json:"prerelease,omitempty"`
	// Commit pins the version to a commit without a commit count; it is replaced by the
	// commit in the describe text, if there is one.
	Commit string `json:"commit,omitempty"`
	// CommitCountPrefix defaults to DefaultCommitCountPrefix.  It must be one of the PEP 440
	// post-release spellings: "-", or an optional separator, "post"/"rev"/"r", and an optional
	// separator ("_r", "-post-", ...).
	CommitCountPrefix string `json:"commitCountPrefix,omitempty"`
	// ArchiveCommit is set when building from a `git archive` export that has no history.  An
	// unexpanded "$Format:...$" placeholder counts as unset.
	ArchiveCommit string `json:"archiveCommit,omitempty"`
}

//nolint:gochecknoglobals // Would be 'const'.
var (
	rePrerelease        = regexp.MustCompile(`^([a-zA-Z]+)([0-9]+)$`)
	reLocalPart         = regexp.MustCompile(`^[0-9a-zA-Z]+$`)
	reCommitCountPrefix = regexp.MustCompile(`(?i)^(?:-|[-_.]?(?:post|rev|r)[-_.]?)$`)
)

// IsArchivePlaceholder reports whether str is a `git archive` export-subst placeholder that git
// did not expand, meaning that the source tree did not come from `git archive`.
func IsArchivePlaceholder(str string) bool {
	return strings.Contains(str, "$Format:")
}

// Merge returns a copy of cfg with every non-zero field of override applied on top.
func (cfg Config) Merge(override Config) Config {
	if override.Release != nil {
		cfg.Release = override.Release.clone()
	}
	if override.Prerelease != "" {
		cfg.Prerelease = override.Prerelease
	}
	if override.Commit != "" {
		cfg.Commit = override.Commit
	}
	if override.CommitCountPrefix != "" {
		cfg.CommitCountPrefix = override.CommitCountPrefix
	}
	if override.ArchiveCommit != "" {
		cfg.ArchiveCommit = override.ArchiveCommit
	}
	return cfg
}

func (cfg Config) normalize() Config {
	cfg.Release = cfg.Release.clone()
	if cfg.CommitCountPrefix == "" {
		cfg.CommitCountPrefix = DefaultCommitCountPrefix
	}
	if IsArchivePlaceholder(cfg.ArchiveCommit) {
		cfg.ArchiveCommit = ""
	}
	return cfg
}

func validatePrerelease(str string) error {
	match := rePrerelease.FindStringSubmatch(str)
	if match == nil {
		return fmt.Errorf("must be letters followed by digits, such as %q", "rc1")
	}
	if !pep440.IsPreReleaseLetter(match[1]) {
		return fmt.Errorf("%q is not a PEP 440 pre-release spelling (a, b, rc)", match[1])
	}
	if _, err := strconv.Atoi(match[2]); err != nil {
		return fmt.Errorf("number %q: %w", match[2], err)
	}
	return nil
}

func (cfg Config) validate() error {
	if cfg.Release != nil {
		if len(cfg.Release) == 0 {
			return &InvalidConfigurationError{Field: "release", Reason: "must have at least one component"}
		}
		for _, n := range cfg.Release {
			if n < 0 {
				return &InvalidConfigurationError{
					Field:  "release",
					Value:  fmt.Sprint([]int(cfg.Release)),
					Reason: "components must be non-negative",
				}
			}
		}
	}
	if cfg.Prerelease != "" {
		if err := validatePrerelease(cfg.Prerelease); err != nil {
			return &InvalidConfigurationError{Field: "prerelease", Value: cfg.Prerelease, Reason: err.Error()}
		}
	}
	if cfg.Commit != "" && !reLocalPart.MatchString(cfg.Commit) {
		return &InvalidConfigurationError{Field: "commit", Value: cfg.Commit, Reason: "must be alphanumeric"}
	}
	if !reCommitCountPrefix.MatchString(cfg.CommitCountPrefix) {
		return &InvalidConfigurationError{
			Field:  "commit count prefix",
			Value:  cfg.CommitCountPrefix,
			Reason: "must be a PEP 440 post-release separator, such as \".post\" or \"_r\"",
		}
	}
	if cfg.ArchiveCommit != "" && !reLocalPart.MatchString(cfg.ArchiveCommit) {
		return &InvalidConfigurationError{
			Field:  "archive commit",
			Value:  cfg.ArchiveCommit,
			Reason: "must be alphanumeric",
		}
	}
	return nil
}

// Unresolved is a validated configuration that has not yet been resolved against describe
// text.
type Unresolved struct {
	cfg Config
}

// New validates cfg and returns an *Unresolved, or an *InvalidConfigurationError.
func New(cfg Config) (*Unresolved, error) {
	cfg = cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Unresolved{cfg: cfg}, nil
}

// Config returns a copy of the normalized configuration.
func (u *Unresolved) Config() Config {
	cfg := u.cfg
	cfg.Release = cfg.Release.clone()
	return cfg
}

func (u *Unresolved) base() Resolved {
	return Resolved{
		release:           u.cfg.Release.clone(),
		prerelease:        u.cfg.Prerelease,
		commitCountPrefix: u.cfg.CommitCountPrefix,
		commit:            u.cfg.Commit,
		archiveCommit:     u.cfg.ArchiveCommit,
	}
}

// Resolve resolves the version without any describe text: the commit count is unknown, and the
// only commit information is a manually pinned Commit (if any).  This requires that the
// configuration have a Release.
func (u *Unresolved) Resolve() (*Resolved, error) {
	if len(u.cfg.Release) == 0 {
		return nil, &InvalidConfigurationError{
			Field:  "release",
			Reason: "a release is required when there is no describe text",
		}
	}
	ret := u.base()
	return &ret, nil
}
