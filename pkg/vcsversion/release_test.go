// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcsversion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datawire/gitver/pkg/vcsversion"
)

func TestReleaseEqual(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		A, B  vcsversion.Release
		Equal bool
	}{
		"same":         {vcsversion.Release{1, 0, 5}, vcsversion.Release{1, 0, 5}, true},
		"differ":       {vcsversion.Release{1, 0, 5}, vcsversion.Release{1, 0, 6}, false},
		"trailing-0":   {vcsversion.Release{1, 0}, vcsversion.Release{1, 0, 0}, false},
		"nil-vs-empty": {nil, vcsversion.Release{}, true},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Equal, tc.A.Equal(tc.B))
			assert.Equal(t, tc.Equal, tc.B.Equal(tc.A))
		})
	}
}
