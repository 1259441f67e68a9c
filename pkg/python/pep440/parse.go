// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// reVersion is the regular expression from PEP 440 Appendix B, with whitespace and comments
// stripped so that it can be written out legibly here.
//
//nolint:gochecknoglobals // Would be 'const'.
var reVersion = regexp.MustCompile(`(?i)^\s*` + regexp.MustCompile(`(?:\s+|#.*)`).ReplaceAllString(`
		v?
		(?:
		    (?:(?P<epoch>[0-9]+)!)?                           # epoch
		    (?P<release>[0-9]+(?:\.[0-9]+)*)                  # release segment
		    (?P<pre>                                          # pre-release
		        [-_\.]?
		        (?P<pre_l>(a|b|c|rc|alpha|beta|pre|preview))
		        [-_\.]?
		        (?P<pre_n>[0-9]+)?
		    )?
		    (?P<post>                                         # post release
		        (?:-(?P<post_n1>[0-9]+))
		        |
		        (?:
		            [-_\.]?
		            (?P<post_l>post|rev|r)
		            [-_\.]?
		            (?P<post_n2>[0-9]+)?
		        )
		    )?
		    (?P<dev>                                          # dev release
		        [-_\.]?
		        (?P<dev_l>dev)
		        [-_\.]?
		        (?P<dev_n>[0-9]+)?
		    )?
		)
		(?:\+(?P<local>[a-z0-9]+(?:[-_\.][a-z0-9]+)*))?       # local version
	`, ``) + `\s*$`)

type letterNumber struct {
	L string
	N int
}

// parseLetterNumber normalizes a (letter, number) pair of a pre/post/dev segment.  The keys of
// acceptableLetters are the canonical spellings, and the values are alternate spellings of them.
func parseLetterNumber(letter, number string, acceptableLetters map[string][]string) (*letterNumber, error) {
	if letter == "" && number == "" {
		//nolint:nilnil // absent segment
		return nil, nil
	}
	letter = strings.ToLower(letter)
	if letter != "" && number == "" {
		number = "0"
	}
	var ret letterNumber

	if _, ok := acceptableLetters[letter]; ok {
		ret.L = letter
	} else {
		found := false
	outer:
		for canonical, others := range acceptableLetters {
			for _, other := range others {
				if letter == other {
					ret.L = canonical
					found = true
					break outer
				}
			}
		}
		if !found {
			return nil, fmt.Errorf("invalid string-part: %q", letter)
		}
	}

	if number != "" {
		n, err := strconv.Atoi(number)
		if err != nil {
			return nil, err
		}
		ret.N = n
	}
	return &ret, nil
}

func parseVersion(str string) (*Version, error) {
	match := reVersion.FindStringSubmatch(str)
	if match == nil {
		return nil, fmt.Errorf("invalid version: %q", str)
	}
	group := func(name string) string {
		return match[reVersion.SubexpIndex(name)]
	}

	var ver Version

	if epoch := group("epoch"); epoch != "" {
		n, err := strconv.Atoi(epoch)
		if err != nil {
			return nil, err
		}
		ver.Epoch = n
	}

	for _, segStr := range strings.Split(group("release"), ".") {
		segInt, err := strconv.Atoi(segStr)
		if err != nil {
			return nil, err
		}
		ver.Release = append(ver.Release, segInt)
	}

	pre, err := parseLetterNumber(group("pre_l"), group("pre_n"), map[string][]string{
		"a":  {"alpha"},
		"b":  {"beta"},
		"rc": {"c", "pre", "preview"},
	})
	if err != nil {
		return nil, fmt.Errorf("pre-release: %w", err)
	}
	if pre != nil {
		ver.Pre = &PreRelease{L: pre.L, N: pre.N}
	}

	post, err := parseLetterNumber(group("post_l"), group("post_n1")+group("post_n2"), map[string][]string{
		"post": {"", "rev", "r"},
	})
	if err != nil {
		return nil, fmt.Errorf("post-release: %w", err)
	}
	if post != nil {
		ver.Post = &post.N
	}

	dev, err := parseLetterNumber(group("dev_l"), group("dev_n"), map[string][]string{
		"dev": nil,
	})
	if err != nil {
		return nil, fmt.Errorf("dev: %w", err)
	}
	if dev != nil {
		ver.Dev = &dev.N
	}

	localParts := strings.FieldsFunc(group("local"), func(r rune) bool {
		return strings.ContainsRune("-_.", r)
	})
	for _, part := range localParts {
		ver.Local = append(ver.Local, intstr.Parse(strings.ToLower(part)))
	}

	return &ver, nil
}
