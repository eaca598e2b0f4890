// Package upload implements the write side of a package index: the legacy
// upload API that PyPI and its workalikes accept distribution files on.
//
// There is no formal spec for this API; the behavior here matches what the
// reference clients send: one multipart/form-data POST per file, carrying the
// distribution's core metadata, content digests, and the file itself.
package upload

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // the API wants an md5_digest field
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/datawire/dlib/dlog"

	"github.com/pydist/pydist/pkg/pypirc"
	"github.com/pydist/pydist/pkg/python/dist"
)

type Client struct {
	Repository *pypirc.Repository
	HTTPClient *http.Client
	UserAgent  string
}

func (c *Client) fillDefaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = "github.com/pydist/pydist/pkg/upload"
	}
}

// Error is an upload failure for one artifact.  Nothing is retried; the
// index's diagnostic is carried along unchanged.
type Error struct {
	Filename string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Filename, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response from the index.  A duplicate-version
// rejection shows up here (PyPI answers 400); that is the index's call to
// make, and it is surfaced rather than handled.
type HTTPError struct {
	Status     string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("HTTP %s", e.Status)
}

// Upload transmits every artifact in the set to the client's repository,
// sequentially, in order, stopping at the first failure.
func (c *Client) Upload(ctx context.Context, artifacts []dist.Artifact) error {
	c.fillDefaults()
	name := c.Repository.Name
	if name == "" {
		name = c.Repository.URL
	}
	dlog.Infof(ctx, "uploading %d file(s) to %s", len(artifacts), name)
	for _, art := range artifacts {
		if err := c.UploadArtifact(ctx, art); err != nil {
			return err
		}
	}
	return nil
}

// UploadArtifact transmits a single distribution file.
func (c *Client) UploadArtifact(ctx context.Context, art dist.Artifact) error {
	c.fillDefaults()
	dlog.Infof(ctx, "uploading %s", art.Name)
	if err := c.uploadArtifact(ctx, art); err != nil {
		return &Error{Filename: art.Name, Err: err}
	}
	return nil
}

func (c *Client) uploadArtifact(ctx context.Context, art dist.Artifact) error {
	md, err := art.ReadMetadata()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(art.Path)
	if err != nil {
		return err
	}

	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)

	fields := [][2]string{
		{":action", "file_upload"},
		{"protocol_version", "1"},
		{"filetype", string(art.Kind)},
		{"pyversion", art.PyVersion},
	}
	md5Sum := md5.Sum(content) //nolint:gosec // see package doc
	sha256Sum := sha256.Sum256(content)
	fields = append(fields,
		[2]string{"md5_digest", hex.EncodeToString(md5Sum[:])},
		[2]string{"sha256_digest", hex.EncodeToString(sha256Sum[:])},
	)
	fields = append(fields, metadataFields(md)...)

	for _, field := range fields {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return err
		}
	}
	fileWriter, err := form.CreateFormFile("content", art.Name)
	if err != nil {
		return err
	}
	if _, err := fileWriter.Write(content); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Repository.URL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("User-Agent", c.UserAgent)
	if c.Repository.Username != "" || c.Repository.Password != "" {
		req.SetBasicAuth(c.Repository.Username, c.Repository.Password)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
	if closeErr := resp.Body.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}
	return nil
}

// How core-metadata headers are spelled as upload form fields.  Headers not
// in either table are ignored; the index would ignore them anyway.
var (
	singleFields = map[string]string{
		"Metadata-Version":         "metadata_version",
		"Name":                     "name",
		"Version":                  "version",
		"Summary":                  "summary",
		"Description":              "description",
		"Description-Content-Type": "description_content_type",
		"Author":                   "author",
		"Author-Email":             "author_email",
		"Maintainer":               "maintainer",
		"Maintainer-Email":         "maintainer_email",
		"License":                  "license",
		"Keywords":                 "keywords",
		"Home-Page":                "home_page",
		"Download-Url":             "download_url",
		"Requires-Python":          "requires_python",
	}
	multiFields = map[string]string{
		"Classifier":         "classifiers",
		"Platform":           "platform",
		"Supported-Platform": "supported_platform",
		"Project-Url":        "project_urls",
		"Requires-Dist":      "requires_dist",
		"Provides-Extra":     "provides_extra",
		"Requires-External":  "requires_external",
	}
)

func metadataFields(md *dist.Metadata) [][2]string {
	var ret [][2]string
	for header, formField := range singleFields {
		if val := md.Get(header); val != "" {
			ret = append(ret, [2]string{formField, val})
		}
	}
	for header, formField := range multiFields {
		for _, val := range md.Fields[textproto.CanonicalMIMEHeaderKey(header)] {
			ret = append(ret, [2]string{formField, val})
		}
	}
	if md.Get("Description") == "" && md.Description != "" {
		ret = append(ret, [2]string{"description", md.Description})
	}
	return ret
}
