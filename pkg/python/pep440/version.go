// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep440 implements the version scheme of PEP 440 -- Version Identification and
// Dependency Specification.
//
// https://www.python.org/dev/peps/pep-0440/
package pep440

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// Version is a complete version identifier, including any local version label.
//
//	[N!]N(.N)*[{a|b|rc}N][.postN][.devN][+<local version label>]
type Version = LocalVersion

// ParseVersion parses and normalizes a version identifier.  Everything that the normalization
// rules of PEP 440 permit is accepted: alternate spellings, separators, a leading "v", and
// surrounding whitespace.
func ParseVersion(str string) (*Version, error) {
	ver, err := parseVersion(str)
	if err != nil {
		return nil, fmt.Errorf("pep440.ParseVersion: %w", err)
	}
	return ver, nil
}

// Validate returns an error if str is not a valid PEP 440 version identifier.
func Validate(str string) error {
	_, err := ParseVersion(str)
	return err
}

// PublicVersion is a version identifier without a local version label.
type PublicVersion struct {
	// Epoch segment: N!
	Epoch int
	// Release segment: N(.N)*
	Release []int
	// Pre-release segment: {a|b|rc}N
	Pre *PreRelease
	// Post-release segment: .postN
	Post *int
	// Development release segment: .devN
	Dev *int
}

// PreRelease is the pre-release segment of a version; L is one of "a", "b", or "rc" after
// normalization.
type PreRelease struct {
	L string
	N int
}

func (ver PublicVersion) GoString() string {
	pre := "nil"
	if ver.Pre != nil {
		pre = fmt.Sprintf("&%#v", *ver.Pre)
	}
	post := "nil"
	if ver.Post != nil {
		post = fmt.Sprintf("intPtr(%#v)", *ver.Post)
	}
	dev := "nil"
	if ver.Dev != nil {
		dev = fmt.Sprintf("intPtr(%#v)", *ver.Dev)
	}
	return fmt.Sprintf("pep440.PublicVersion{Epoch:%d, Release:%#v, Pre:%s, Post:%s, Dev:%s}",
		ver.Epoch, ver.Release, pre, post, dev)
}

func (ver PublicVersion) writeTo(ret *strings.Builder) {
	if ver.Epoch > 0 {
		fmt.Fprintf(ret, "%d!", ver.Epoch)
	}
	if len(ver.Release) == 0 {
		panic("invalid version: no release segments")
	}
	fmt.Fprintf(ret, "%d", ver.Release[0])
	for _, segment := range ver.Release[1:] {
		fmt.Fprintf(ret, ".%d", segment)
	}
	if ver.Pre != nil {
		fmt.Fprintf(ret, "%s%d", ver.Pre.L, ver.Pre.N)
	}
	if ver.Post != nil {
		fmt.Fprintf(ret, ".post%d", *ver.Post)
	}
	if ver.Dev != nil {
		fmt.Fprintf(ret, ".dev%d", *ver.Dev)
	}
}

// String returns the normalized form of the version.
func (ver PublicVersion) String() string {
	var ret strings.Builder
	ver.writeTo(&ret)
	return ret.String()
}

// LocalVersion is a public version plus a local version label.  Each part of the label is
// either a number or an alphanumeric string.
type LocalVersion struct {
	PublicVersion
	Local []intstr.IntOrString
}

func (ver LocalVersion) GoString() string {
	return fmt.Sprintf("pep440.LocalVersion{PublicVersion:%#v, Local:%#v}",
		ver.PublicVersion, ver.Local)
}

// String returns the normalized form of the version; local label parts are joined with ".".
func (ver LocalVersion) String() string {
	var ret strings.Builder
	ver.PublicVersion.writeTo(&ret)
	sep := "+"
	for _, local := range ver.Local {
		ret.WriteString(sep)
		ret.WriteString(local.String())
		sep = "."
	}
	return ret.String()
}

// LocalString returns the local version label (without the leading "+"), or an empty string.
func (ver LocalVersion) LocalString() string {
	parts := make([]string, 0, len(ver.Local))
	for _, local := range ver.Local {
		parts = append(parts, local.String())
	}
	return strings.Join(parts, ".")
}

// IsFinal reports whether the version has no pre-, post-, or dev-release segments.
func (ver PublicVersion) IsFinal() bool {
	return ver.Pre == nil && ver.Post == nil && ver.Dev == nil
}

// IsFinal reports whether the version is a final release without a local label.
func (ver LocalVersion) IsFinal() bool {
	return ver.PublicVersion.IsFinal() && len(ver.Local) == 0
}

// IsPreRelease reports whether the version is an alpha, beta, release candidate, or
// development release.
func (ver PublicVersion) IsPreRelease() bool {
	return ver.Pre != nil || ver.Dev != nil
}

// IsPostRelease reports whether the version has a post-release segment.
func (ver PublicVersion) IsPostRelease() bool {
	return ver.Post != nil
}

func (ver PublicVersion) releaseSegment(n int) int {
	if n < len(ver.Release) {
		return ver.Release[n]
	}
	return 0
}

func (ver PublicVersion) Major() int { return ver.releaseSegment(0) }
func (ver PublicVersion) Minor() int { return ver.releaseSegment(1) }
func (ver PublicVersion) Micro() int { return ver.releaseSegment(2) }

// Normalize round-trips the version through its string form.
func (ver LocalVersion) Normalize() (*LocalVersion, error) {
	return ParseVersion(ver.String())
}
