// Copyright (C) 2012 Alex Ogier.  All rights reserved.
// Copyright (C) 2012 The Go Authors.  All rights reserved.
// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: BSD-3-Clause AND Apache-2.0
//
// The wrapping algorithm is the one that github.com/spf13/pflag uses for FlagUsagesWrapped, so
// that the help text and the flag table wrap the same way.

package cliutil

import (
	"strings"
)

// Wrap the string `s` to a maximum width `w`.  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// Wrap the string `s` to a maximum width `w` with leading indent `i`.  The first line is not
// indented (this is assumed to be done by caller).  Pass `w` == 0 to do no wrapping
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

// wrapN splits `s` at whitespace into a head of at most `i` bytes and the remainder.  It goes up
// to `slop` over `i` if that takes the whole string.
func wrapN(i, slop int, s string) (string, string) {
	if i+slop > len(s) {
		return s, ""
	}

	w := strings.LastIndexAny(s[:i], " \t\n")
	if w <= 0 {
		return s, ""
	}
	nlPos := strings.LastIndex(s[:i], "\n")
	if nlPos > 0 && nlPos < w {
		return s[:nlPos], s[nlPos+1:]
	}
	return s[:w], s[w+1:]
}

func wrap(i, w int, s string) string {
	if w == 0 {
		return strings.ReplaceAll(s, "\n", "\n"+strings.Repeat(" ", i))
	}

	// space between indent i and end of line width w into which we should wrap the text.
	width := w - i

	var r, l string

	// Not enough space for sensible wrapping.  Wrap as a block on the next line instead.
	if width < 24 {
		i = 16
		width = w - i
		r += "\n" + strings.Repeat(" ", i)
	}
	// If still not enough space for sensible wrapping, don't wrap.
	if width < 24 {
		return strings.ReplaceAll(s, "\n", r)
	}

	const slop = 5
	width -= slop

	indent := "\n" + strings.Repeat(" ", i)

	// The first line is indented by the caller (or by the special case above).
	l, s = wrapN(width, slop, s)
	r += strings.ReplaceAll(l, "\n", indent)

	for s != "" {
		var t string
		t, s = wrapN(width, slop, s)
		r += indent + strings.ReplaceAll(t, "\n", indent)
	}

	return r
}
