// Package pep503 implements the client side of PEP 503 -- Simple Repository API.
//
// https://www.python.org/dev/peps/pep-0503/
package pep503

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/net/html"

	"github.com/datawire/gitver/pkg/htmlutil"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	// HTMLHook, if set, is called on every index page before its links are extracted.
	HTMLHook func(context.Context, *html.Node) error
}

const PyPIBaseURL = "https://pypi.org/simple/"

func (c *Client) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = PyPIBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = "github.com/datawire/gitver/pkg/python/pep503"
	}
}

type HTTPError struct {
	Status     string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s", e.Status)
}

func (c Client) get(ctx context.Context, requestURL string) (_ *url.URL, _ []byte, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("GET %q => %w", requestURL, err)
		}
	}()
	c.fillDefaults()

	// 1. Build the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	// 2. Do the networking
	dlog.Debugf(ctx, "GET %s", requestURL)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, nil, err
	}
	if err := resp.Body.Close(); err != nil {
		return nil, nil, err
	}

	// 3. Validate the result
	if resp.StatusCode != http.StatusOK {
		return nil, nil, &HTTPError{Status: resp.Status, StatusCode: resp.StatusCode}
	}

	return resp.Request.URL, content, nil
}

// Link is an <a> element on an index page.  HRef has already been resolved against the URL of
// the page.
type Link struct {
	Text      string
	HRef      string
	DataAttrs map[string]string
}

func (c Client) getHTML5Index(ctx context.Context, requestURL string) ([]Link, error) {
	location, content, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	if c.HTMLHook != nil {
		if err := c.HTMLHook(ctx, doc); err != nil {
			return nil, err
		}
	}

	var links []Link
	if err := htmlutil.VisitHTML(doc, nil, func(node *html.Node) error {
		if node.Type != html.ElementNode || node.Data != "a" {
			return nil
		}
		link := Link{
			Text:      strings.TrimSpace(htmlutil.TextContent(node)),
			DataAttrs: make(map[string]string),
		}
		for _, attr := range node.Attr {
			switch {
			case attr.Namespace == "" && attr.Key == "href":
				href, err := location.Parse(attr.Val)
				if err != nil {
					return err
				}
				link.HRef = href.String()
			case attr.Namespace == "" && strings.HasPrefix(attr.Key, "data-"):
				link.DataAttrs[attr.Key] = attr.Val
			}
		}
		links = append(links, link)
		return nil
	}); err != nil {
		return nil, err
	}

	return links, nil
}

// FileLink is a link to one distribution file of a project.
type FileLink struct {
	Link
}

// Filename is the last path element of the link target, falling back to the link text.
func (l FileLink) Filename() string {
	if u, err := url.Parse(l.HRef); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return l.Text
}

//nolint:gochecknoglobals // Would be 'const'.
var reNormalize = regexp.MustCompile("[-_.]+")

// Normalize returns the normalized form of a project name: each run of "-", "_", and "." becomes
// a single "-", and the result is lower-case.
func Normalize(str string) string {
	return strings.ToLower(reNormalize.ReplaceAllLiteralString(str, "-"))
}

// ValidateName returns an error if pkgname uses characters that are not allowed in a project
// name.
func ValidateName(pkgname string) error {
	if pkgname == "" {
		return fmt.Errorf("empty pkgname")
	}
	// "the only valid characters in a name are the ASCII alphabet, ASCII numbers, `.`, `-`, and
	// `_`."
	for _, char := range pkgname {
		if !(('a' <= char && char <= 'z') ||
			('A' <= char && char <= 'Z') ||
			('0' <= char && char <= '9') ||
			char == '.' ||
			char == '-' ||
			char == '_') {
			return fmt.Errorf("illegal character in pkgname: %q: %s",
				pkgname, strconv.QuoteRuneToASCII(char))
		}
	}
	return nil
}

// ListPackageFiles fetches "BaseURL/<normalized-name>/" and returns every link on it.
func (c Client) ListPackageFiles(ctx context.Context, pkgname string) ([]FileLink, error) {
	if err := ValidateName(pkgname); err != nil {
		return nil, err
	}

	c.fillDefaults()
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	// The trailing slash matters; relative hrefs on the page are resolved against it.
	u.Path = path.Join(u.Path, Normalize(pkgname)) + "/"
	rawLinks, err := c.getHTML5Index(ctx, u.String())
	if err != nil {
		return nil, err
	}
	links := make([]FileLink, 0, len(rawLinks))
	for _, link := range rawLinks {
		links = append(links, FileLink{Link: link})
	}
	return links, nil
}
