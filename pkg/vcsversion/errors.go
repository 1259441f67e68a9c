// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcsversion

import (
	"fmt"
)

// ParseError is returned when describe text does not match the expected
// "[v]RELEASE[PRE]-COUNT-gCOMMIT[-dirty]" form.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcsversion: invalid describe text %q: %s", e.Text, e.Reason)
}

// InvalidConfigurationError is returned by New (and by Resolve) when a construction option
// could not produce a valid version.
type InvalidConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("vcsversion: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("vcsversion: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// RenderabilityError means that a resolved version rendered to something that is not PEP 440.
// Construction-time validation is meant to make this unreachable; seeing it is a bug.
type RenderabilityError struct {
	Version string
	Err     error
}

func (e *RenderabilityError) Error() string {
	return fmt.Sprintf("vcsversion: internal error: rendered version %q is not PEP 440: %v",
		e.Version, e.Err)
}

func (e *RenderabilityError) Unwrap() error {
	return e.Err
}
