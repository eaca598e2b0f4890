// Package pep503 implements PEP 503 -- Simple Repository API.
//
// Well, the read side of it; enough to ask an index which files it already
// has for a distribution, so an upload can be checked against it.
//
// https://www.python.org/dev/peps/pep-0503/
package pep503

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/pydist/pydist/pkg/htmlutil"
	"github.com/pydist/pydist/pkg/python"
	"github.com/pydist/pydist/pkg/python/dist"
)

const PyPIBaseURL = "https://pypi.org/simple/"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

func (c *Client) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = PyPIBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = "github.com/pydist/pydist/pkg/python/pep503"
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

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

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
	if resp.StatusCode != http.StatusOK {
		return nil, nil, &HTTPError{Status: resp.Status, StatusCode: resp.StatusCode}
	}

	// The URL fragment, if any, carries an expected checksum of the
	// content.
	if u, err := url.Parse(requestURL); err == nil && u.Fragment != "" {
		if keyvals, err := url.ParseQuery(u.Fragment); err == nil {
			for key, vals := range keyvals {
				newHash, ok := python.HashlibAlgorithmsGuaranteed[key]
				if !ok {
					continue
				}
				hasher := newHash()
				_, _ = hasher.Write(content)
				sum := hex.EncodeToString(hasher.Sum(nil))
				for _, val := range vals {
					if sum != strings.ToLower(val) {
						return nil, nil, fmt.Errorf("checksum mismatch: %s: expected=%s actual=%s",
							key, val, sum)
					}
				}
			}
		}
	}

	return resp.Request.URL, content, nil
}

// Link is one anchor in a simple-API index page.
type Link struct {
	client Client

	Text      string
	HRef      string
	DataAttrs map[string]string
}

// Get downloads the link target, verifying any checksum fragment in the href.
func (l Link) Get(ctx context.Context) ([]byte, error) {
	_, content, err := l.client.get(ctx, l.HRef)
	return content, err
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

	var links []Link
	if err := htmlutil.VisitHTML(doc, func(node *html.Node) error {
		if node.Type != html.ElementNode || node.Data != "a" {
			return nil
		}
		link := Link{
			client:    c,
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
		var text strings.Builder
		_ = htmlutil.VisitHTML(node, func(child *html.Node) error {
			if child.Type == html.TextNode {
				text.WriteString(child.Data)
			}
			return nil
		}, nil)
		link.Text = text.String()
		links = append(links, link)
		return nil
	}, nil); err != nil {
		return nil, err
	}

	return links, nil
}

// ListPackageFiles lists the files that the index has for a distribution.
// The link text is the distribution filename; the data-yanked attribute, if
// present, is visible in DataAttrs.
func (c Client) ListPackageFiles(ctx context.Context, distName string) ([]Link, error) {
	c.fillDefaults()
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	projectURL, err := base.Parse(dist.NormalizeName(distName) + "/")
	if err != nil {
		return nil, err
	}
	return c.getHTML5Index(ctx, projectURL.String())
}
