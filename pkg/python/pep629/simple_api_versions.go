// Package pep629 implements PEP 629 -- Versioning PyPI's Simple API.
//
// https://www.python.org/dev/peps/pep-0629/
package pep629

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/net/html"

	"github.com/datawire/gitver/pkg/htmlutil"
	"github.com/datawire/gitver/pkg/python/pep440"
)

//nolint:gochecknoglobals // Would be 'const'.
var SupportedVersion, _ = pep440.ParseVersion("1.0")

// GetVersion returns the API version that a page declares with
//
//	<meta name="pypi:repository-version" content="1.0">
//
// Pages without the tag are version 1.0.
func GetVersion(doc *html.Node) (*pep440.Version, error) {
	var verStr string
	err := htmlutil.VisitHTML(doc, func(node *html.Node) error {
		if node.Type != html.ElementNode || node.Data != "meta" {
			return nil
		}
		if name, _ := htmlutil.GetAttr(node, "", "name"); name != "pypi:repository-version" {
			return nil
		}
		if content, ok := htmlutil.GetAttr(node, "", "content"); ok && verStr == "" {
			verStr = content
		}
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	if verStr == "" {
		verStr = "1.0"
	}
	ver, err := pep440.ParseVersion(verStr)
	if err != nil {
		return nil, fmt.Errorf("pypi:repository-version: %w", err)
	}
	return ver, nil
}

// HTMLVersionCheck is a pep503.Client.HTMLHook that refuses pages from an incompatible major API
// version, and warns about a newer minor version.
func HTMLVersionCheck(ctx context.Context, doc *html.Node) error {
	version, err := GetVersion(doc)
	if err != nil {
		return err
	}
	if version.Major() > SupportedVersion.Major() {
		return fmt.Errorf("server's pypi:repository-version (%s) is not compatible with this client", version)
	}
	if version.Minor() > SupportedVersion.Minor() {
		dlog.Warnf(ctx, "server's pypi:repository-version (%s) is newer than this client", version)
	}
	return nil
}
