// Package pep440 implements PEP 440 -- Version Identification and Dependency
// Specification.
//
// Well, just the version scheme; enough to parse, normalize, and order the
// version identifiers that appear in distribution filenames and index
// listings.
//
// https://www.python.org/dev/peps/pep-0440/
package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// Version is a public version identifier, optionally with a local version
// label:
//
//	[N!]N(.N)*[{a|b|rc}N][.postN][.devN][+local]
type Version struct {
	// Epoch segment: "N!"
	Epoch int
	// Release segment: "N(.N)*"
	Release []int
	// Pre-release segment: "{a|b|rc}N"
	Pre *PreRelease
	// Post-release segment: ".postN"
	Post *int
	// Development release segment: ".devN"
	Dev *int
	// Local version label: "+local.7" -- mixed numeric and alphanumeric
	// segments.
	Local []intstr.IntOrString
}

type PreRelease struct {
	L string
	N int
}

// The "permissive" grammar from PEP 440 Appendix B; inputs that match it but
// aren't in canonical form get normalized by ParseVersion.
var reVersion = regexp.MustCompile(regexp.MustCompile(`\s+`).ReplaceAllString(`
	^v?
	(?:(?P<epoch>[0-9]+)!)?
	(?P<release>[0-9]+(?:\.[0-9]+)*)
	(?P<pre>[-_.]?(?P<pre_l>a|b|c|rc|alpha|beta|pre|preview)[-_.]?(?P<pre_n>[0-9]+)?)?
	(?P<post>(?:-(?P<post_n1>[0-9]+))|(?:[-_.]?(?:post|rev|r)[-_.]?(?P<post_n2>[0-9]+)?))?
	(?P<dev>[-_.]?dev[-_.]?(?P<dev_n>[0-9]+)?)?
	(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?
	$`, ``))

// ParseVersion parses a string to a Version object, performing normalization.
func ParseVersion(str string) (*Version, error) {
	match := reVersion.FindStringSubmatch(strings.ToLower(strings.TrimSpace(str)))
	if match == nil {
		return nil, fmt.Errorf("pep440.ParseVersion: invalid version: %q", str)
	}
	group := func(name string) string {
		return match[reVersion.SubexpIndex(name)]
	}

	var ret Version

	if epoch := group("epoch"); epoch != "" {
		ret.Epoch, _ = strconv.Atoi(epoch)
	}

	for _, part := range strings.Split(group("release"), ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("pep440.ParseVersion: invalid version: %q: %w", str, err)
		}
		ret.Release = append(ret.Release, n)
	}

	if preL := group("pre_l"); preL != "" {
		// normalize the alternate pre-release spellings
		switch preL {
		case "alpha":
			preL = "a"
		case "beta":
			preL = "b"
		case "c", "pre", "preview":
			preL = "rc"
		}
		preN, _ := strconv.Atoi(group("pre_n")) // absent => 0
		ret.Pre = &PreRelease{L: preL, N: preN}
	}

	if group("post") != "" {
		// "1.0-2" and "1.0.post2" are alternate spellings; "1.0.post"
		// with no number normalizes to post0.
		n, _ := strconv.Atoi(group("post_n1") + group("post_n2"))
		ret.Post = &n
	}

	if group("dev") != "" {
		n, _ := strconv.Atoi(group("dev_n"))
		ret.Dev = &n
	}

	if local := group("local"); local != "" {
		for _, part := range strings.FieldsFunc(local, func(r rune) bool {
			return r == '-' || r == '_' || r == '.'
		}) {
			if n, err := strconv.Atoi(part); err == nil {
				ret.Local = append(ret.Local, intstr.FromInt(n))
			} else {
				ret.Local = append(ret.Local, intstr.FromString(part))
			}
		}
	}

	return &ret, nil
}

// String returns the canonical (normalized) spelling of the version.  String
// implements fmt.Stringer.
func (ver Version) String() string {
	var ret strings.Builder
	if ver.Epoch > 0 {
		fmt.Fprintf(&ret, "%d!", ver.Epoch)
	}
	if len(ver.Release) == 0 {
		panic("invalid version: no release segments")
	}
	fmt.Fprintf(&ret, "%d", ver.Release[0])
	for _, segment := range ver.Release[1:] {
		fmt.Fprintf(&ret, ".%d", segment)
	}
	if ver.Pre != nil {
		fmt.Fprintf(&ret, "%s%d", ver.Pre.L, ver.Pre.N)
	}
	if ver.Post != nil {
		fmt.Fprintf(&ret, ".post%d", *ver.Post)
	}
	if ver.Dev != nil {
		fmt.Fprintf(&ret, ".dev%d", *ver.Dev)
	}
	if len(ver.Local) > 0 {
		ret.WriteByte('+')
		for i, segment := range ver.Local {
			if i > 0 {
				ret.WriteByte('.')
			}
			ret.WriteString(segment.String())
		}
	}
	return ret.String()
}

// Cmp returns <0 if a sorts before b, 0 if they are equal, and >0 if a sorts
// after b, according to the PEP 440 ordering rules.
func (a Version) Cmp(b Version) int {
	if d := a.Epoch - b.Epoch; d != 0 {
		return d
	}
	if d := cmpRelease(a.Release, b.Release); d != 0 {
		return d
	}
	if d := cmpPre(&a, &b); d != 0 {
		return d
	}
	if d := cmpOptInt(a.Post, b.Post, -1); d != 0 {
		return d
	}
	if d := cmpOptInt(a.Dev, b.Dev, +1); d != 0 {
		return d
	}
	return cmpLocal(a.Local, b.Local)
}

// Equal reports whether a and b are the same version under the PEP 440
// ordering (so "1.0" equals "1.0.0", but not "1.0+local").
func (a Version) Equal(b Version) bool {
	return a.Cmp(b) == 0
}

func cmpRelease(a, b []int) int {
	// Trailing zeros are insignificant: 1.0 == 1.0.0.
	for i := 0; i < len(a) || i < len(b); i++ {
		var aN, bN int
		if i < len(a) {
			aN = a[i]
		}
		if i < len(b) {
			bN = b[i]
		}
		if d := aN - bN; d != 0 {
			return d
		}
	}
	return 0
}

// cmpPre orders the pre-release segment; a missing segment normally sorts
// after any pre-release (a final release), except that a bare ".devN" with no
// pre- or post-segment sorts before everything ("1.0.dev1" < "1.0a1").
func cmpPre(a, b *Version) int {
	rank := func(ver *Version) int {
		if ver.Pre == nil {
			if ver.Post == nil && ver.Dev != nil {
				return -1 // sorts before a0
			}
			return 3 // final; sorts after rc
		}
		switch ver.Pre.L {
		case "a":
			return 0
		case "b":
			return 1
		default: // "rc"
			return 2
		}
	}
	if d := rank(a) - rank(b); d != 0 {
		return d
	}
	if a.Pre != nil && b.Pre != nil {
		return a.Pre.N - b.Pre.N
	}
	return 0
}

// cmpOptInt compares optional numeric segments; `missing` says where a
// missing segment sorts relative to a present one: -1 for before (post), +1
// for after (dev).
func cmpOptInt(a, b *int, missing int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return missing
	case b == nil:
		return -missing
	default:
		return *a - *b
	}
}

func cmpLocal(a, b []intstr.IntOrString) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		aSeg, bSeg := a[i], b[i]
		switch {
		case aSeg.Type == intstr.Int && bSeg.Type == intstr.Int:
			if d := int(aSeg.IntVal - bSeg.IntVal); d != 0 {
				return d
			}
		case aSeg.Type == intstr.String && bSeg.Type == intstr.String:
			if d := strings.Compare(aSeg.StrVal, bSeg.StrVal); d != 0 {
				return d
			}
		case aSeg.Type == intstr.Int:
			// numeric segments sort after alphanumeric ones
			return 1
		default:
			return -1
		}
	}
	return len(a) - len(b)
}
