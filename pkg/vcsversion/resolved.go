// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcsversion

import (
	"fmt"
	"strings"

	"github.com/datawire/gitver/pkg/python/pep440"
)

// Resolved is a fully resolved version.  The zero value is not useful; get one from
// (*Unresolved).UpdateFromDescribe or (*Unresolved).Resolve.
type Resolved struct {
	release           Release
	prerelease        string
	commitCountPrefix string
	commit            string
	commitCount       *int
	dirty             bool
	archiveCommit     string
}

func (r Resolved) Release() Release          { return r.release.clone() }
func (r Resolved) Prerelease() string        { return r.prerelease }
func (r Resolved) CommitCountPrefix() string { return r.commitCountPrefix }
func (r Resolved) Commit() string            { return r.commit }
func (r Resolved) Dirty() bool               { return r.dirty }
func (r Resolved) ArchiveCommit() string     { return r.archiveCommit }

// CommitCount returns the number of commits since the tag, and whether that is known at all.
func (r Resolved) CommitCount() (int, bool) {
	if r.commitCount == nil {
		return 0, false
	}
	return *r.commitCount, true
}

// String renders the version:
//
//	RELEASE[PRE]                                      exact clean tag, or nothing known
//	RELEASE[PRE]PREFIX COUNT+gCOMMIT[-dirty]          COUNT > 0
//	RELEASE[PRE]PREFIX 0+gARCHIVE-gitarchive          archive commit set
//	RELEASE[PRE]+gCOMMIT                              commit pinned, count unknown
func (r Resolved) String() string {
	var ret strings.Builder
	ret.WriteString(r.release.String())
	ret.WriteString(r.prerelease)
	switch {
	case r.archiveCommit != "":
		fmt.Fprintf(&ret, "%s0+g%s-gitarchive", r.commitCountPrefix, r.archiveCommit)
	case r.commitCount != nil && *r.commitCount > 0:
		fmt.Fprintf(&ret, "%s%d+g%s", r.commitCountPrefix, *r.commitCount, r.commit)
		if r.dirty {
			ret.WriteString(dirtySuffix)
		}
	case r.commitCount == nil && r.commit != "":
		fmt.Fprintf(&ret, "+g%s", r.commit)
	}
	return ret.String()
}

// PEP440 parses the rendered version.  An error here is a *RenderabilityError, and indicates a
// bug rather than bad input.
func (r Resolved) PEP440() (*pep440.Version, error) {
	str := r.String()
	ver, err := pep440.ParseVersion(str)
	if err != nil {
		return nil, &RenderabilityError{Version: str, Err: err}
	}
	return ver, nil
}

// Record is a serializable snapshot of a Resolved.
type Record struct {
	Version       string `json:"version"                 yaml:"version"`
	Release       []int  `json:"release"                 yaml:"release,flow"`
	Prerelease    string `json:"prerelease,omitempty"    yaml:"prerelease,omitempty"`
	Commit        string `json:"commit,omitempty"        yaml:"commit,omitempty"`
	CommitCount   *int   `json:"commitCount"             yaml:"commitCount"`
	Dirty         bool   `json:"dirty"                   yaml:"dirty"`
	ArchiveCommit string `json:"archiveCommit,omitempty" yaml:"archiveCommit,omitempty"`
}

// Record returns a snapshot of r suitable for encoding as JSON or YAML.
func (r Resolved) Record() Record {
	ret := Record{
		Version:       r.String(),
		Release:       []int(r.release.clone()),
		Prerelease:    r.prerelease,
		Commit:        r.commit,
		Dirty:         r.dirty,
		ArchiveCommit: r.archiveCommit,
	}
	if r.commitCount != nil {
		count := *r.commitCount
		ret.CommitCount = &count
	}
	return ret
}

// CheckConda returns an error if conda-build would refuse version as a package version.  conda
// does not allow "-", which PEP 440 does allow in the local version label (as in "-dirty").
func CheckConda(version string) error {
	if strings.ContainsRune(version, '-') {
		return fmt.Errorf("bad character '-' in package/version: %q", version)
	}
	return nil
}
