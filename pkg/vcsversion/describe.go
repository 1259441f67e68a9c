// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcsversion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/datawire/gitver/pkg/python/pep440"
)

//nolint:gochecknoglobals // Would be 'const'.
var (
	reDigits = regexp.MustCompile(`^[0-9]+$`)
	reCommit = regexp.MustCompile(`^g([0-9a-z]+)$`)
	reTag    = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)*)(?:([a-zA-Z]+)([0-9]+))?$`)
)

const dirtySuffix = "-dirty"

// describe is the parsed form of one line of `git describe --long [--dirty]` output.
type describe struct {
	release    Release
	prerelease string
	count      int
	commit     string
	dirty      bool
}

// parseDescribe parses "[v]RELEASE[PRE]-COUNT-gCOMMIT[-dirty]".  The last two "-"-separated
// groups are the count and the commit, and everything before them is the tag.
func parseDescribe(text string) (*describe, error) {
	fail := func(format string, args ...interface{}) (*describe, error) {
		return nil, &ParseError{Text: text, Reason: fmt.Sprintf(format, args...)}
	}

	str := strings.TrimSpace(text)
	str = strings.TrimPrefix(str, "v")

	var ret describe
	if strings.HasSuffix(str, dirtySuffix) {
		ret.dirty = true
		str = strings.TrimSuffix(str, dirtySuffix)
	}

	parts := strings.Split(str, "-")
	if len(parts) < 3 {
		return fail("expected TAG-COUNT-gCOMMIT (was the describe command run with --long?)")
	}
	tag := strings.Join(parts[:len(parts)-2], "-")
	countStr := parts[len(parts)-2]
	commitStr := parts[len(parts)-1]

	if !reDigits.MatchString(countStr) {
		return fail("commit count %q is not a non-negative integer", countStr)
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return fail("commit count %q: %v", countStr, err)
	}
	ret.count = count

	match := reCommit.FindStringSubmatch(commitStr)
	if match == nil {
		if !strings.HasPrefix(commitStr, "g") {
			return fail("missing -g<commit> segment, got %q", commitStr)
		}
		return fail("commit %q is not lower-case alphanumeric", commitStr[1:])
	}
	ret.commit = match[1]

	match = reTag.FindStringSubmatch(tag)
	if match == nil {
		return fail("tag %q is not RELEASE[PRERELEASE], such as %q or %q", tag, "1.0", "0.2.0a1")
	}
	ret.release, err = ParseRelease(match[1])
	if err != nil {
		return fail("tag %q: %v", tag, err)
	}
	if match[2] != "" {
		if !pep440.IsPreReleaseLetter(match[2]) {
			return fail("tag %q: %q is not a PEP 440 pre-release spelling (a, b, rc)", tag, match[2])
		}
		if _, err := strconv.Atoi(match[3]); err != nil {
			return fail("tag %q: prerelease number %q: %v", tag, match[3], err)
		}
		ret.prerelease = match[2] + match[3]
	}

	return &ret, nil
}

// UpdateFromDescribe resolves the version from the output of `git describe --long [--dirty]`,
// such as "v0.2.0a1-13-g9edb975-dirty".  On failure it returns a *ParseError; u is never
// modified either way, and no partially-resolved value is returned.
//
// The release in the describe text replaces any configured release.  A prerelease in the
// describe text is used only if none was configured.  If an archive commit was configured,
// the commit count is left unknown, since the history that it was counted against cannot be
// trusted.
func (u *Unresolved) UpdateFromDescribe(text string) (*Resolved, error) {
	desc, err := parseDescribe(text)
	if err != nil {
		return nil, err
	}
	ret := u.base()
	ret.release = desc.release
	if ret.prerelease == "" {
		ret.prerelease = desc.prerelease
	}
	ret.commit = desc.commit
	ret.dirty = desc.dirty
	if ret.archiveCommit == "" {
		count := desc.count
		ret.commitCount = &count
	}
	return &ret, nil
}
