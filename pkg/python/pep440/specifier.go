// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"fmt"
	"strings"
)

// Specifier is a comma-separated list of version clauses, all of which must match.
type Specifier []SpecifierClause

// ParseSpecifier parses a version specifier such as ">= 1.0, != 1.3.*".  The "===" arbitrary
// equality operator is not supported.
func ParseSpecifier(str string) (Specifier, error) {
	clauseStrs := strings.FieldsFunc(str, func(r rune) bool { return r == ',' })
	ret := make(Specifier, 0, len(clauseStrs))
	for _, clauseStr := range clauseStrs {
		clauseStr = strings.TrimSpace(clauseStr)
		if clauseStr == "" {
			continue
		}
		clause, err := parseSpecifierClause(clauseStr)
		if err != nil {
			return nil, fmt.Errorf("pep440.ParseSpecifier: %w", err)
		}
		ret = append(ret, clause)
	}
	return ret, nil
}

func (spec Specifier) String() string {
	clauses := make([]string, 0, len(spec))
	for _, clause := range spec {
		clauses = append(clauses, clause.String())
	}
	return strings.Join(clauses, ",")
}

// Match reports whether ver satisfies every clause.  An empty specifier matches everything.
func (spec Specifier) Match(ver Version) bool {
	for _, clause := range spec {
		if !clause.Match(ver) {
			return false
		}
	}
	return true
}

type CmpOp int

const (
	CmpOpCompatible CmpOp = iota
	CmpOpStrictMatch
	CmpOpPrefixMatch
	CmpOpStrictExclude
	CmpOpPrefixExclude
	CmpOpLE
	CmpOpGE
	CmpOpLT
	CmpOpGT
	_CmpOpEnd
)

//nolint:gochecknoglobals // Would be 'const'.
var cmpOpNames = map[CmpOp]string{
	CmpOpCompatible:    "~=",
	CmpOpStrictMatch:   "strict ==",
	CmpOpPrefixMatch:   "prefix ==",
	CmpOpStrictExclude: "strict !=",
	CmpOpPrefixExclude: "prefix !=",
	CmpOpLE:            "<=",
	CmpOpGE:            ">=",
	CmpOpLT:            "<",
	CmpOpGT:            ">",
}

func (op CmpOp) String() string {
	str, ok := cmpOpNames[op]
	if !ok {
		panic(fmt.Errorf("invalid CmpOp: %d", op))
	}
	return str
}

func (op CmpOp) match(spec, ver Version) bool {
	switch op {
	case CmpOpCompatible:
		return matchCompatible(spec, ver)
	case CmpOpStrictMatch:
		return matchStrictMatch(spec, ver)
	case CmpOpPrefixMatch:
		return matchPrefixMatch(spec, ver)
	case CmpOpStrictExclude:
		return !matchStrictMatch(spec, ver)
	case CmpOpPrefixExclude:
		return !matchPrefixMatch(spec, ver)
	case CmpOpLE:
		return spec.Cmp(ver) >= 0
	case CmpOpGE:
		return spec.Cmp(ver) <= 0
	case CmpOpLT:
		return spec.Cmp(ver) > 0
	case CmpOpGT:
		return spec.Cmp(ver) < 0
	default:
		panic(fmt.Errorf("invalid CmpOp: %d", op))
	}
}

type SpecifierClause struct {
	CmpOp   CmpOp
	Version Version
}

func parseSpecifierClause(str string) (SpecifierClause, error) {
	var ret SpecifierClause
	str = strings.TrimSpace(str)
	minSegments := 1
	devOK := true
	localOK := false
	switch {
	case strings.HasPrefix(str, "==="):
		return ret, fmt.Errorf("specifiers with === are not supported; versions must be PEP 440 compliant")
	case strings.HasPrefix(str, "~="):
		ret.CmpOp = CmpOpCompatible
		str = str[2:]
		minSegments = 2
	case strings.HasPrefix(str, "=="):
		ret.CmpOp = CmpOpStrictMatch
		str = str[2:]
		localOK = true
		if strings.HasSuffix(str, ".*") {
			ret.CmpOp = CmpOpPrefixMatch
			str = strings.TrimSuffix(str, ".*")
			devOK = false
			localOK = false
		}
	case strings.HasPrefix(str, "!="):
		ret.CmpOp = CmpOpStrictExclude
		str = str[2:]
		localOK = true
		if strings.HasSuffix(str, ".*") {
			ret.CmpOp = CmpOpPrefixExclude
			str = strings.TrimSuffix(str, ".*")
			devOK = false
			localOK = false
		}
	case strings.HasPrefix(str, "<="):
		ret.CmpOp = CmpOpLE
		str = str[2:]
	case strings.HasPrefix(str, ">="):
		ret.CmpOp = CmpOpGE
		str = str[2:]
	case strings.HasPrefix(str, "<"):
		ret.CmpOp = CmpOpLT
		str = str[1:]
	case strings.HasPrefix(str, ">"):
		ret.CmpOp = CmpOpGT
		str = str[1:]
	default:
		return ret, fmt.Errorf("invalid comparison operator: %q", str)
	}
	ver, err := parseVersion(str)
	if err != nil {
		return ret, err
	}
	if len(ver.Release) < minSegments {
		return ret, fmt.Errorf("at least %d release segments required in %s specifier clauses",
			minSegments, ret.CmpOp)
	}
	if ver.Dev != nil && !devOK {
		return ret, fmt.Errorf("dev-part not permitted in %s specifier clauses", ret.CmpOp)
	}
	if len(ver.Local) > 0 && !localOK {
		return ret, fmt.Errorf("local-part not permitted in %s specifier clauses", ret.CmpOp)
	}
	ret.Version = *ver
	return ret, nil
}

func (spec SpecifierClause) String() string {
	var opStr string
	switch spec.CmpOp {
	case CmpOpPrefixMatch, CmpOpStrictMatch:
		opStr = "=="
	case CmpOpPrefixExclude, CmpOpStrictExclude:
		opStr = "!="
	default:
		opStr = spec.CmpOp.String()
	}
	ret := opStr + spec.Version.String()
	if spec.CmpOp == CmpOpPrefixMatch || spec.CmpOp == CmpOpPrefixExclude {
		ret += ".*"
	}
	return ret
}

func (spec SpecifierClause) Match(ver Version) bool {
	return spec.CmpOp.match(spec.Version, ver)
}

// matchCompatible implements "~= V.N", which is ">= V.N, == V.*".
func matchCompatible(spec, ver Version) bool {
	prefix := spec
	prefix.Release = prefix.Release[:len(prefix.Release)-1]
	prefix.Pre = nil
	prefix.Post = nil
	prefix.Dev = nil
	return spec.Cmp(ver) <= 0 && matchPrefixMatch(prefix, ver)
}

// matchStrictMatch ignores the candidate's local label unless the clause has one.
func matchStrictMatch(spec, ver Version) bool {
	if len(spec.Local) == 0 {
		return spec.PublicVersion.Cmp(ver.PublicVersion) == 0
	}
	return spec.Cmp(ver) == 0
}

func matchPrefixMatch(_spec, _ver Version) bool {
	spec, ver := _spec.PublicVersion, _ver.PublicVersion
	const (
		partRel = iota
		partPre
		partPost
	)
	// terminalPart identifies the terminal part of spec's version
	var terminalPart int
	switch {
	case spec.Post != nil:
		terminalPart = partPost
	case spec.Pre != nil:
		terminalPart = partPre
	default:
		terminalPart = partRel
	}

	if cmpEpoch(spec, ver) != 0 {
		return false
	}

	if terminalPart == partRel && len(ver.Release) > len(spec.Release) {
		ver.Release = ver.Release[:len(spec.Release)]
	}
	if cmpRelease(spec, ver) != 0 {
		return false
	}
	if terminalPart == partRel {
		return true
	}

	// cmpPreRelease would also take .Post and .Dev in to account
	if (ver.Pre == nil) != (spec.Pre == nil) {
		return false
	} else if spec.Pre != nil && (preReleaseOrder[ver.Pre.L] != preReleaseOrder[spec.Pre.L] ||
		ver.Pre.N != spec.Pre.N) {
		return false
	}
	if terminalPart == partPre {
		return true
	}

	return cmpPostRelease(spec, ver) == 0
}
