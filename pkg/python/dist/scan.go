package dist

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pydist/pydist/pkg/python/pep440"
)

// Scan collects the artifact set from a dist directory: every distribution
// file directly in `dir` (the scan is not recursive; build frontends don't
// nest their output).  The returned set is sorted by filename.
//
// Files with unrecognizable distribution filenames are an error rather than
// being skipped; a dist directory is the build step's output, and anything
// unexpected in it means the set can't be trusted.
func Scan(dir string) ([]Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ret []Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".whl") &&
			!strings.HasSuffix(name, ".tar.gz") &&
			!strings.HasSuffix(name, ".zip") {
			continue
		}
		art, err := ParseFilename(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		ret = append(ret, *art)
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("no distribution files found in %q", dir)
	}

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Name < ret[j].Name
	})
	return ret, nil
}

// SetVersion returns the single version that every artifact in the set
// carries, or an error if the set mixes distributions or versions.  A release
// uploads one version of one distribution; a dist directory that disagrees
// with itself is stale.
func SetVersion(artifacts []Artifact) (*pep440.Version, error) {
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("empty artifact set")
	}
	first := artifacts[0]
	for _, art := range artifacts[1:] {
		if NormalizeName(art.Distribution) != NormalizeName(first.Distribution) {
			return nil, fmt.Errorf("artifact set mixes distributions: %q and %q",
				first.Name, art.Name)
		}
		if !art.Version.Equal(first.Version) {
			return nil, fmt.Errorf("artifact set mixes versions: %q and %q",
				first.Name, art.Name)
		}
	}
	return &first.Version, nil
}

var reNameSep = regexp.MustCompile(`[-_.]+`)

// NormalizeName performs PEP 503 name normalization: distribution names
// compare case-insensitively with runs of "-", "_", and "." treated as
// equivalent.  Sdists and wheels routinely spell the same name differently,
// and simple repo API URLs require the normalized form.
func NormalizeName(name string) string {
	return reNameSep.ReplaceAllString(strings.ToLower(name), "-")
}
