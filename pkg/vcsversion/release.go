// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcsversion

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Release is the numeric release segment of a version, such as (1, 0, 5) for "1.0.5".
//
// A *Release may be used as a pflag.Value, and may be unmarshaled from either a JSON list of
// integers or a dotted string.
type Release []int

// ParseRelease parses a dotted release string such as "1.0.5".
func ParseRelease(str string) (Release, error) {
	if str == "" {
		return nil, fmt.Errorf("empty release")
	}
	parts := strings.Split(str, ".")
	ret := make(Release, 0, len(parts))
	for _, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return nil, fmt.Errorf("release component %q is not a non-negative integer", part)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("release component %q: %w", part, err)
		}
		ret = append(ret, n)
	}
	return ret, nil
}

func (r Release) String() string {
	parts := make([]string, 0, len(r))
	for _, n := range r {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ".")
}

// Set implements pflag.Value.
func (r *Release) Set(str string) error {
	val, err := ParseRelease(str)
	if err != nil {
		return err
	}
	*r = val
	return nil
}

// Type implements pflag.Value.
func (r *Release) Type() string {
	return "RELEASE"
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Release) UnmarshalJSON(bs []byte) error {
	if string(bs) == "null" {
		return nil
	}
	if len(bs) > 0 && (bs[0] == '-' || ('0' <= bs[0] && bs[0] <= '9')) {
		// YAML will have already turned an unquoted 1.0 in to the number 1
		return fmt.Errorf("release %s must be a quoted string or a list of integers", bs)
	}
	var str string
	if err := json.Unmarshal(bs, &str); err == nil {
		return r.Set(str)
	}
	var ints []int
	if err := json.Unmarshal(bs, &ints); err != nil {
		return fmt.Errorf("release must be a list of integers or a dotted string: %w", err)
	}
	*r = ints
	return nil
}

func (r Release) clone() Release {
	if r == nil {
		return nil
	}
	ret := make(Release, len(r))
	copy(ret, r)
	return ret
}

// Equal reports whether r and o have the same components; "1.0" and "1.0.0" are not equal.
func (r Release) Equal(o Release) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}
