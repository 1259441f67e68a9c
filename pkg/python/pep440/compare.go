// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/intstr"
)

func cmpEpoch(a, b PublicVersion) int {
	return a.Epoch - b.Epoch
}

// cmpRelease compares release segments after padding the shorter one with zeros.
func cmpRelease(a, b PublicVersion) int {
	for i := 0; i < len(a.Release) || i < len(b.Release); i++ {
		if diff := a.releaseSegment(i) - b.releaseSegment(i); diff != 0 {
			return diff
		}
	}
	return 0
}

//nolint:gochecknoglobals // Would be 'const'.
var preReleaseOrder = map[string]int{
	"a":     -3,
	"alpha": -3,

	"b":    -2,
	"beta": -2,

	"rc":      -1,
	"c":       -1,
	"pre":     -1,
	"preview": -1,

	// absent: 0,
}

// IsPreReleaseLetter reports whether l is one of the pre-release spellings that PEP 440
// accepts (case-insensitively).
func IsPreReleaseLetter(l string) bool {
	_, ok := preReleaseOrder[toLowerASCII(l)]
	return ok
}

func toLowerASCII(s string) string {
	buf := []byte(s)
	for i, c := range buf {
		if 'A' <= c && c <= 'Z' {
			buf[i] = c + ('a' - 'A')
		}
	}
	return string(buf)
}

// cmpPreRelease orders ".devN" (with no pre or post) before "aN" before "bN" before "rcN" before
// no suffix at all.
func cmpPreRelease(a, b PublicVersion) int {
	var aL, aN, bL, bN int
	var ok bool
	if a.Pre != nil {
		aL, ok = preReleaseOrder[a.Pre.L]
		if !ok {
			panic(fmt.Errorf("invalid pre-release string: %q", a.Pre.L))
		}
		aN = a.Pre.N
	} else if a.Dev != nil && a.Post == nil {
		aL = -4
	}
	if b.Pre != nil {
		bL, ok = preReleaseOrder[b.Pre.L]
		if !ok {
			panic(fmt.Errorf("invalid pre-release string: %q", b.Pre.L))
		}
		bN = b.Pre.N
	} else if b.Dev != nil && b.Post == nil {
		bL = -4
	}
	if aL != bL {
		return aL - bL
	}
	return aN - bN
}

func cmpPostRelease(a, b PublicVersion) int {
	aPost := -1
	if a.Post != nil {
		aPost = *a.Post
	}
	bPost := -1
	if b.Post != nil {
		bPost = *b.Post
	}
	return aPost - bPost
}

func cmpDevRelease(a, b PublicVersion) int {
	switch {
	case a.Dev == nil && b.Dev == nil:
		return 0
	case a.Dev == nil && b.Dev != nil:
		return 1
	case a.Dev != nil && b.Dev == nil:
		return -1
	default:
		return (*a.Dev) - (*b.Dev)
	}
}

// Cmp returns a negative number if a sorts before b, a positive number if a sorts after b, and
// 0 if they are equivalent.
func (a PublicVersion) Cmp(b PublicVersion) int {
	if d := cmpEpoch(a, b); d != 0 {
		return d
	}
	if d := cmpRelease(a, b); d != 0 {
		return d
	}
	if d := cmpPreRelease(a, b); d != 0 {
		return d
	}
	if d := cmpPostRelease(a, b); d != 0 {
		return d
	}
	return cmpDevRelease(a, b)
}

func cmpLocalSegment(a, b *intstr.IntOrString) int {
	// a missing segment sorts before any present one
	switch {
	case a == nil && b == nil:
		panic("should not happen: cmpLocal shouldn't have bothered calling this")
	case a == nil && b != nil:
		return -1
	case a != nil && b == nil:
		return 1
	}
	// numeric segments sort after alphanumeric ones
	switch {
	case a.Type == intstr.Int && b.Type == intstr.Int:
		return int(a.IntVal - b.IntVal)
	case a.Type == intstr.String && b.Type == intstr.String:
		switch {
		case a.StrVal < b.StrVal:
			return -1
		case a.StrVal > b.StrVal:
			return 1
		}
		return 0
	case a.Type == intstr.Int && b.Type == intstr.String:
		return 1
	case a.Type == intstr.String && b.Type == intstr.Int:
		return -1
	default:
		panic("should not happen: invalid intstr.IntOrString")
	}
}

func cmpLocal(a, b LocalVersion) int {
	for i := 0; i < len(a.Local) || i < len(b.Local); i++ {
		var aSeg, bSeg *intstr.IntOrString
		if i < len(a.Local) {
			aSeg = &(a.Local[i])
		}
		if i < len(b.Local) {
			bSeg = &(b.Local[i])
		}
		if d := cmpLocalSegment(aSeg, bSeg); d != 0 {
			return d
		}
	}
	return 0
}

// Cmp is like PublicVersion.Cmp, but breaks ties using the local version label.
func (a LocalVersion) Cmp(b LocalVersion) int {
	if d := a.PublicVersion.Cmp(b.PublicVersion); d != 0 {
		return d
	}
	return cmpLocal(a, b)
}
