// Package dist deals with the set of built distribution files that a release
// uploads: discovering them in the dist directory, parsing their filenames,
// and reading the core metadata out of the archives.
package dist

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pydist/pydist/pkg/python/pep440"
)

// Kind is the distribution format, spelled the way the package index's upload
// API spells it in the "filetype" field.
type Kind string

const (
	KindWheel Kind = "bdist_wheel"
	KindSdist Kind = "sdist"
)

// Artifact is one distribution file in the artifact set.
type Artifact struct {
	Path string // as given to ParseFilename
	Name string // basename

	Kind         Kind
	Distribution string
	Version      pep440.Version

	// PyVersion is the index's "pyversion" upload field: the python tag
	// for a wheel ("py3", "cp39"), the literal "source" for an sdist.
	PyVersion string

	// Wheel-only fields.
	BuildTag *BuildTag
	Tag      *CompatibilityTag
}

// CompatibilityTag is a wheel's PEP 425 compatibility tag triple.  Each
// member may be a "."-compressed tag set ("py2.py3").
type CompatibilityTag struct {
	Python   string
	ABI      string
	Platform string
}

func (t CompatibilityTag) String() string {
	return t.Python + "-" + t.ABI + "-" + t.Platform
}

type BuildTag struct {
	Int int
	Str string
}

func (t BuildTag) String() string {
	return fmt.Sprintf("%d%s", t.Int, t.Str)
}

// The binary distribution format's filename convention:
//
//	{distribution}-{version}(-{build tag})?-{python tag}-{abi tag}-{platform tag}.whl
var reWheelFilename = regexp.MustCompile(regexp.MustCompile(`\s+`).ReplaceAllString(`
	^(?P<distribution>[^-]+)
	-(?P<version>[^-]+)
	(?:-(?P<build_n>[0-9]+)(?P<build_l>[^-0-9][^-]*)?)?
	-(?P<python>[^-]+)
	-(?P<abi>[^-]+)
	-(?P<platform>[^-]+)
	\.whl$`, ``))

// ParseFilename parses the basename of a distribution file, recognizing the
// format from the file extension.
func ParseFilename(path string) (*Artifact, error) {
	name := filepath.Base(path)
	switch {
	case strings.HasSuffix(name, ".whl"):
		return parseWheelFilename(path, name)
	case strings.HasSuffix(name, ".tar.gz"):
		return parseSdistFilename(path, name, ".tar.gz")
	case strings.HasSuffix(name, ".zip"):
		return parseSdistFilename(path, name, ".zip")
	default:
		return nil, fmt.Errorf("not a recognized distribution filename: %q", name)
	}
}

func parseWheelFilename(path, name string) (*Artifact, error) {
	match := reWheelFilename.FindStringSubmatch(name)
	if match == nil {
		return nil, fmt.Errorf("invalid wheel filename: %q", name)
	}

	ret := &Artifact{
		Path: path,
		Name: name,
		Kind: KindWheel,

		Distribution: match[reWheelFilename.SubexpIndex("distribution")],
	}

	ver, err := pep440.ParseVersion(match[reWheelFilename.SubexpIndex("version")])
	if err != nil {
		return nil, fmt.Errorf("invalid wheel filename: %q: %w", name, err)
	}
	ret.Version = *ver

	if buildN := match[reWheelFilename.SubexpIndex("build_n")]; buildN != "" {
		n, _ := strconv.Atoi(buildN)
		ret.BuildTag = &BuildTag{
			Int: n,
			Str: match[reWheelFilename.SubexpIndex("build_l")],
		}
	}

	ret.Tag = &CompatibilityTag{
		Python:   match[reWheelFilename.SubexpIndex("python")],
		ABI:      match[reWheelFilename.SubexpIndex("abi")],
		Platform: match[reWheelFilename.SubexpIndex("platform")],
	}
	ret.PyVersion = ret.Tag.Python

	return ret, nil
}

// An sdist filename is "{name}-{version}.tar.gz" (or ".zip").  The name part
// may itself contain hyphens, so the version is whatever follows the last
// hyphen.
func parseSdistFilename(path, name, ext string) (*Artifact, error) {
	stem := strings.TrimSuffix(name, ext)
	sep := strings.LastIndex(stem, "-")
	if sep <= 0 || sep == len(stem)-1 {
		return nil, fmt.Errorf("invalid sdist filename: %q", name)
	}

	ver, err := pep440.ParseVersion(stem[sep+1:])
	if err != nil {
		return nil, fmt.Errorf("invalid sdist filename: %q: %w", name, err)
	}

	return &Artifact{
		Path: path,
		Name: name,
		Kind: KindSdist,

		Distribution: stem[:sep],
		Version:      *ver,
		PyVersion:    "source",
	}, nil
}
