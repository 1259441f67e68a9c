// Package simple_repo_api implements the PyPA Simple repository API, combining PEP 503 with the
// PEPs that extend it.
//
// https://packaging.python.org/specifications/simple-repository-api/
package simple_repo_api //nolint:revive,stylecheck // named after the PyPA document

import (
	"context"
	"sort"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/gitver/pkg/python/pep440"
	"github.com/datawire/gitver/pkg/python/pep503"
	"github.com/datawire/gitver/pkg/python/pep592"
	"github.com/datawire/gitver/pkg/python/pep629"
)

// NewClient returns a client for the index at baseURL (PyPI if empty) that checks the PEP 629
// API version of every page.
func NewClient(baseURL string) pep503.Client {
	return pep503.Client{
		BaseURL:  baseURL,
		HTMLHook: pep629.HTMLVersionCheck,
	}
}

// Release is one version of a project, and the files published for it.
type Release struct {
	Version pep440.Version
	Files   []string
	// Yanked is set if every file of the release is yanked.
	Yanked bool
}

// ListReleases returns the releases of pkgname on the index, sorted oldest-first.  Files whose
// names do not follow the wheel or sdist conventions are skipped.
func ListReleases(ctx context.Context, client pep503.Client, pkgname string) ([]Release, error) {
	links, err := client.ListPackageFiles(ctx, pkgname)
	if err != nil {
		return nil, err
	}

	byVersion := make(map[string]*Release)
	var releases []*Release
	for _, link := range links {
		filename := link.Filename()
		ver, err := pep503.FileVersion(pkgname, filename)
		if err != nil {
			dlog.Debugf(ctx, "skipping file: %v", err)
			continue
		}
		key := ver.String()
		rel, ok := byVersion[key]
		if !ok {
			rel = &Release{
				Version: *ver,
				Yanked:  true,
			}
			byVersion[key] = rel
			releases = append(releases, rel)
		}
		rel.Files = append(rel.Files, filename)
		if !pep592.IsYanked(link) {
			rel.Yanked = false
		} else if reason := pep592.YankReason(link); reason != "" {
			dlog.Debugf(ctx, "%s is yanked: %s", filename, reason)
		}
	}

	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].Version.Cmp(releases[j].Version) < 0
	})
	ret := make([]Release, 0, len(releases))
	for _, rel := range releases {
		ret = append(ret, *rel)
	}
	return ret, nil
}

// Find returns the release whose version is equal to ver, ignoring differences in spelling.
func Find(releases []Release, ver pep440.Version) (Release, bool) {
	for _, rel := range releases {
		if rel.Version.Cmp(ver) == 0 {
			return rel, true
		}
	}
	return Release{}, false
}

// Latest returns the newest release that is not yanked.  Pre-releases are only considered if
// includePre is set.
func Latest(releases []Release, includePre bool) (Release, bool) {
	for i := len(releases) - 1; i >= 0; i-- {
		rel := releases[i]
		if rel.Yanked || (!includePre && rel.Version.IsPreRelease()) {
			continue
		}
		return rel, true
	}
	return Release{}, false
}
