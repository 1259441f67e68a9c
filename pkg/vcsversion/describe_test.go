// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcsversion_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/gitver/pkg/python/pep440"
	"github.com/datawire/gitver/pkg/testutil"
	"github.com/datawire/gitver/pkg/vcsversion"
)

func intPtr(x int) *int {
	return &x
}

// describeTests is kept in order, so that a failing case can be matched up with the describe
// command that produced it.
//
//nolint:gochecknoglobals // Would be 'const'.
var describeTests = []struct {
	Describe string
	Config   vcsversion.Config
	Expected vcsversion.Record
}{
	{
		Describe: "v1.0.5-42-gabcdefgh",
		Config:   vcsversion.Config{Release: vcsversion.Release{1, 0, 5}},
		Expected: vcsversion.Record{
			Version:     "1.0.5.post42+gabcdefgh",
			Release:     []int{1, 0, 5},
			Commit:      "abcdefgh",
			CommitCount: intPtr(42),
		},
	},
	{
		Describe: "v0.2.0a1-11-g2fb12e0",
		Expected: vcsversion.Record{
			Version:     "0.2.0a1.post11+g2fb12e0",
			Release:     []int{0, 2, 0},
			Prerelease:  "a1",
			Commit:      "2fb12e0",
			CommitCount: intPtr(11),
		},
	},
	{
		Describe: "v0.2.0a1-13-g9edb975-dirty",
		Expected: vcsversion.Record{
			Version:     "0.2.0a1.post13+g9edb975-dirty",
			Release:     []int{0, 2, 0},
			Prerelease:  "a1",
			Commit:      "9edb975",
			CommitCount: intPtr(13),
			Dirty:       true,
		},
	},
	{
		Describe: "v0.5.1rc2-0-g9edb976",
		Expected: vcsversion.Record{
			Version:     "0.5.1rc2",
			Release:     []int{0, 5, 1},
			Prerelease:  "rc2",
			Commit:      "9edb976",
			CommitCount: intPtr(0),
		},
	},
	{
		Describe: "v0.4.1b2-19-g9edb980-dirty",
		Config:   vcsversion.Config{CommitCountPrefix: "_r"},
		Expected: vcsversion.Record{
			Version:     "0.4.1b2_r19+g9edb980-dirty",
			Release:     []int{0, 4, 1},
			Prerelease:  "b2",
			Commit:      "9edb980",
			CommitCount: intPtr(19),
			Dirty:       true,
		},
	},
	{
		Describe: "v0.5.7rc2-92-g9edb976",
		Config:   vcsversion.Config{ArchiveCommit: "1234567"},
		Expected: vcsversion.Record{
			Version:       "0.5.7rc2.post0+g1234567-gitarchive",
			Release:       []int{0, 5, 7},
			Prerelease:    "rc2",
			Commit:        "9edb976",
			CommitCount:   nil,
			ArchiveCommit: "1234567",
		},
	},
	// not in the original table
	{
		Describe: "1.2-3-gdeadbee\n",
		Expected: vcsversion.Record{
			Version:     "1.2.post3+gdeadbee",
			Release:     []int{1, 2},
			Commit:      "deadbee",
			CommitCount: intPtr(3),
		},
	},
	{
		Describe: "v2.0-0-gdeadbee-dirty",
		Expected: vcsversion.Record{
			Version:     "2.0",
			Release:     []int{2, 0},
			Commit:      "deadbee",
			CommitCount: intPtr(0),
			Dirty:       true,
		},
	},
	{
		Describe: "v0.5.7rc2-92-g9edb976-dirty",
		Config:   vcsversion.Config{ArchiveCommit: "1234567"},
		Expected: vcsversion.Record{
			Version:       "0.5.7rc2.post0+g1234567-gitarchive",
			Release:       []int{0, 5, 7},
			Prerelease:    "rc2",
			Commit:        "9edb976",
			Dirty:         true,
			ArchiveCommit: "1234567",
		},
	},
	{
		Describe: "v1.0.5-42-gabcdefgh",
		Config:   vcsversion.Config{Release: vcsversion.Release{1, 0, 4}, Prerelease: "rc1"},
		Expected: vcsversion.Record{
			Version:     "1.0.5rc1.post42+gabcdefgh",
			Release:     []int{1, 0, 5},
			Prerelease:  "rc1",
			Commit:      "abcdefgh",
			CommitCount: intPtr(42),
		},
	},
	{
		Describe: "v1.0.5-42-gabcdefgh",
		Config:   vcsversion.Config{ArchiveCommit: "$Format:%h$"},
		Expected: vcsversion.Record{
			Version:     "1.0.5.post42+gabcdefgh",
			Release:     []int{1, 0, 5},
			Commit:      "abcdefgh",
			CommitCount: intPtr(42),
		},
	},
}

func TestUpdateFromDescribe(t *testing.T) {
	t.Parallel()
	for _, tc := range describeTests {
		tc := tc
		t.Run(tc.Describe, func(t *testing.T) {
			t.Parallel()
			unresolved, err := vcsversion.New(tc.Config)
			require.NoError(t, err)
			resolved, err := unresolved.UpdateFromDescribe(tc.Describe)
			require.NoError(t, err)
			require.NotNil(t, resolved)

			testutil.AssertEqualDump(t, tc.Expected, resolved.Record())

			assert.Equal(t, tc.Expected.Version, resolved.String())
			assert.Equal(t, tc.Expected.Release, []int(resolved.Release()))
			assert.Equal(t, tc.Expected.Prerelease, resolved.Prerelease())
			assert.Equal(t, tc.Expected.Commit, resolved.Commit())
			assert.Equal(t, tc.Expected.Dirty, resolved.Dirty())
			count, known := resolved.CommitCount()
			if tc.Expected.CommitCount == nil {
				assert.False(t, known)
			} else {
				assert.True(t, known)
				assert.Equal(t, *tc.Expected.CommitCount, count)
			}

			ver, err := resolved.PEP440()
			assert.NoError(t, err)
			assert.NotNil(t, ver)
			assert.NoError(t, pep440.Validate(resolved.String()))
		})
	}
}

func TestUpdateFromDescribeInvalid(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Input  string
		Reason string
	}{
		"empty":            {"", `expected TAG-COUNT-gCOMMIT (was the describe command run with --long?)`},
		"no-long":          {"v1.0.5", `expected TAG-COUNT-gCOMMIT (was the describe command run with --long?)`},
		"no-long-dirty":    {"v1.0.5-dirty", `expected TAG-COUNT-gCOMMIT (was the describe command run with --long?)`},
		"missing-g":        {"v1.0.5-42-abcdef0", `missing -g<commit> segment, got "abcdef0"`},
		"empty-commit":     {"v1.0.5-42-g", `commit "" is not lower-case alphanumeric`},
		"bad-commit":       {"v1.0.5-42-gABCDEF0", `commit "ABCDEF0" is not lower-case alphanumeric`},
		"count-not-number": {"v1.0.5-x2-gabcdef0", `commit count "x2" is not a non-negative integer`},
		"count-negative":   {"v1.0.5--2-gabcdef0", `tag "1.0.5-" is not RELEASE[PRERELEASE], such as "1.0" or "0.2.0a1"`},
		"count-overflow":   {"v1.0.5-99999999999999999999999-gabcdef0", `commit count "99999999999999999999999": strconv.Atoi: parsing "99999999999999999999999": value out of range`},
		"tag-not-version":  {"release-42-gabcdef0", `tag "release" is not RELEASE[PRERELEASE], such as "1.0" or "0.2.0a1"`},
		"tag-with-dash":    {"v1.0-rc1-3-gabcdef0", `tag "1.0-rc1" is not RELEASE[PRERELEASE], such as "1.0" or "0.2.0a1"`},
		"tag-dotted-pre":   {"v1.0.rc1-3-gabcdef0", `tag "1.0.rc1" is not RELEASE[PRERELEASE], such as "1.0" or "0.2.0a1"`},
		"tag-bad-letter":   {"v1.0dev1-3-gabcdef0", `tag "1.0dev1": "dev" is not a PEP 440 pre-release spelling (a, b, rc)`},
		"tag-pre-range":    {"v1.0rc99999999999999999999-3-gabc1234", `tag "1.0rc99999999999999999999": prerelease number "99999999999999999999": strconv.Atoi: parsing "99999999999999999999": value out of range`},
		"tag-pre-no-num":   {"v1.0rc-3-gabcdef0", `tag "1.0rc" is not RELEASE[PRERELEASE], such as "1.0" or "0.2.0a1"`},
		"double-v":         {"vv1.0-3-gabcdef0", `tag "v1.0" is not RELEASE[PRERELEASE], such as "1.0" or "0.2.0a1"`},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			cfg := vcsversion.Config{Release: vcsversion.Release{1, 0}}
			unresolved, err := vcsversion.New(cfg)
			require.NoError(t, err)
			before := unresolved.Config()

			resolved, err := unresolved.UpdateFromDescribe(tc.Input)
			assert.Nil(t, resolved)
			require.Error(t, err)
			var parseErr *vcsversion.ParseError
			require.True(t, errors.As(err, &parseErr), "%T", err)
			assert.Equal(t, tc.Input, parseErr.Text)
			assert.Equal(t, tc.Reason, parseErr.Reason)

			// a failed parse leaves nothing behind
			assert.Equal(t, before, unresolved.Config())
			again, err := unresolved.Resolve()
			require.NoError(t, err)
			assert.Equal(t, "1.0", again.String())
		})
	}
}

func TestResolveWithoutDescribe(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Config  vcsversion.Config
		Version string
	}{
		"v1":             {vcsversion.Config{Release: vcsversion.Release{1, 0}}, "1.0"},
		"v101":           {vcsversion.Config{Release: vcsversion.Release{1, 0, 1}}, "1.0.1"},
		"v101-commit":    {vcsversion.Config{Release: vcsversion.Release{1, 0, 1}, Commit: "fffffff"}, "1.0.1+gfffffff"},
		"v1-shortsha":    {vcsversion.Config{Release: vcsversion.Release{1, 0}, Commit: "shortSHA"}, "1.0+gshortSHA"},
		"prerelease":     {vcsversion.Config{Release: vcsversion.Release{0, 3}, Prerelease: "b4"}, "0.3b4"},
		"archive":        {vcsversion.Config{Release: vcsversion.Release{0, 3}, ArchiveCommit: "abc1234"}, "0.3.post0+gabc1234-gitarchive"},
		"archive-prefix": {vcsversion.Config{Release: vcsversion.Release{0, 3}, ArchiveCommit: "abc1234", CommitCountPrefix: "-"}, "0.3-0+gabc1234-gitarchive"},
		"archive-commit": {vcsversion.Config{Release: vcsversion.Release{0, 3}, ArchiveCommit: "abc1234", Commit: "fffffff"}, "0.3.post0+gabc1234-gitarchive"},
		"unexpanded":     {vcsversion.Config{Release: vcsversion.Release{0, 3}, ArchiveCommit: "$Format:%h$"}, "0.3"},
		"single-segment": {vcsversion.Config{Release: vcsversion.Release{7}}, "7"},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			unresolved, err := vcsversion.New(tc.Config)
			require.NoError(t, err)
			resolved, err := unresolved.Resolve()
			require.NoError(t, err)
			assert.Equal(t, tc.Version, resolved.String())
			assert.False(t, resolved.Dirty())
			_, known := resolved.CommitCount()
			assert.False(t, known)
			assert.Equal(t, tc.Config.Commit, resolved.Commit())
			assert.NoError(t, pep440.Validate(resolved.String()))
		})
	}
}

func TestResolveWithoutRelease(t *testing.T) {
	t.Parallel()
	unresolved, err := vcsversion.New(vcsversion.Config{})
	require.NoError(t, err)
	resolved, err := unresolved.Resolve()
	assert.Nil(t, resolved)
	var cfgErr *vcsversion.InvalidConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "release", cfgErr.Field)

	// ...but the describe text can supply it
	resolved, err = unresolved.UpdateFromDescribe("v3.1-2-g0123abc")
	require.NoError(t, err)
	assert.Equal(t, "3.1.post2+g0123abc", resolved.String())
}

func TestNewInvalid(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Config vcsversion.Config
		Error  string
	}{
		"empty-release":    {vcsversion.Config{Release: vcsversion.Release{}}, `vcsversion: invalid release: must have at least one component`},
		"negative-release": {vcsversion.Config{Release: vcsversion.Release{1, -2}}, `vcsversion: invalid release "[1 -2]": components must be non-negative`},
		"prerelease-shape": {vcsversion.Config{Prerelease: "1a"}, `vcsversion: invalid prerelease "1a": must be letters followed by digits, such as "rc1"`},
		"prerelease-no-n":  {vcsversion.Config{Prerelease: "rc"}, `vcsversion: invalid prerelease "rc": must be letters followed by digits, such as "rc1"`},
		"prerelease-dev":   {vcsversion.Config{Prerelease: "dev1"}, `vcsversion: invalid prerelease "dev1": "dev" is not a PEP 440 pre-release spelling (a, b, rc)`},
		"prerelease-range": {vcsversion.Config{Prerelease: "rc99999999999999999999"}, `vcsversion: invalid prerelease "rc99999999999999999999": number "99999999999999999999": strconv.Atoi: parsing "99999999999999999999": value out of range`},
		"commit":           {vcsversion.Config{Commit: "abc-123"}, `vcsversion: invalid commit "abc-123": must be alphanumeric`},
		"prefix":           {vcsversion.Config{CommitCountPrefix: "+"}, `vcsversion: invalid commit count prefix "+": must be a PEP 440 post-release separator, such as ".post" or "_r"`},
		"prefix-word":      {vcsversion.Config{CommitCountPrefix: ".build"}, `vcsversion: invalid commit count prefix ".build": must be a PEP 440 post-release separator, such as ".post" or "_r"`},
		"archive":          {vcsversion.Config{ArchiveCommit: "abc 123"}, `vcsversion: invalid archive commit "abc 123": must be alphanumeric`},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			unresolved, err := vcsversion.New(tc.Config)
			assert.Nil(t, unresolved)
			assert.EqualError(t, err, tc.Error)
			var cfgErr *vcsversion.InvalidConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestCommitCountPrefixes(t *testing.T) {
	t.Parallel()
	for _, prefix := range []string{".post", "post", "-post", "_post_", ".r", "_r", "r", "rev", ".rev.", "-", "POST"} {
		prefix := prefix
		t.Run(prefix, func(t *testing.T) {
			t.Parallel()
			unresolved, err := vcsversion.New(vcsversion.Config{CommitCountPrefix: prefix})
			require.NoError(t, err)
			resolved, err := unresolved.UpdateFromDescribe("v1.2b3-4-g5678abc-dirty")
			require.NoError(t, err)
			assert.Equal(t, "1.2b3"+prefix+"4+g5678abc-dirty", resolved.String())
			ver, err := resolved.PEP440()
			require.NoError(t, err)
			assert.Equal(t, "1.2b3.post4+g5678abc.dirty", ver.String())
		})
	}
}

func TestRenderabilityError(t *testing.T) {
	t.Parallel()
	err := &vcsversion.RenderabilityError{Version: "1.0+", Err: errors.New("boom")}
	assert.EqualError(t, err, `vcsversion: internal error: rendered version "1.0+" is not PEP 440: boom`)
	assert.Equal(t, "boom", errors.Unwrap(err).Error())
}

func TestCheckConda(t *testing.T) {
	t.Parallel()
	assert.NoError(t, vcsversion.CheckConda("0.2.0a1.post11+g2fb12e0"))
	assert.NoError(t, vcsversion.CheckConda("0.5.1rc2"))
	assert.EqualError(t, vcsversion.CheckConda("0.2.0a1.post13+g9edb975-dirty"),
		`bad character '-' in package/version: "0.2.0a1.post13+g9edb975-dirty"`)
}
