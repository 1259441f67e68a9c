// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep592 implements PEP 592 -- Adding "Yank" Support to the Simple API.
//
// https://www.python.org/dev/peps/pep-0592/
package pep592

import (
	"github.com/datawire/gitver/pkg/python/pep503"
)

func IsYanked(l pep503.FileLink) bool {
	_, yanked := l.DataAttrs["data-yanked"]
	return yanked
}

// YankReason returns the free-form reason given for yanking the file, which may be empty even
// for a yanked file.
func YankReason(l pep503.FileLink) string {
	return l.DataAttrs["data-yanked"]
}
