// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
)

//nolint:gochecknoglobals // Would be 'const'.
var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// Dump returns a deterministic multi-line rendering of val, following pointers and ignoring any
// String methods, so that two dumps can be diffed line-by-line.
func Dump(val interface{}) string {
	return spewConfig.Sdump(val)
}

// AssertEqualDump is like assert.Equal, but on failure it reports a unified diff of the Dump of
// each value rather than the %#v of each.
func AssertEqualDump(t *testing.T, exp, act interface{}) bool {
	t.Helper()
	expStr := Dump(exp)
	actStr := Dump(act)
	if expStr == actStr {
		return true
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expStr),
		B:        difflib.SplitLines(actStr),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	t.Errorf("Not equal:\n%s", diff)
	return false
}
