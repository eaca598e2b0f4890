package pep440_test

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pydist/pydist/pkg/python/pep440"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	testcases := map[string]string{
		// already canonical
		"0.1.4":        "0.1.4",
		"1!2.0":        "1!2.0",
		"1.0a2":        "1.0a2",
		"1.0rc1":       "1.0rc1",
		"1.0.post2":    "1.0.post2",
		"1.0.dev3":     "1.0.dev3",
		"1.0+ubuntu.1": "1.0+ubuntu.1",
		// alternate spellings
		"v1.0":        "1.0",
		"1.0ALPHA2":   "1.0a2",
		"1.0-beta.2":  "1.0b2",
		"1.0.preview": "1.0rc0",
		"1.0c4":       "1.0rc4",
		"1.0-rev2":    "1.0.post2",
		"1.0-2":       "1.0.post2",
		"1.0.post":    "1.0.post0",
		"1.0-dev":     "1.0.dev0",
		"1.0+foo-bar": "1.0+foo.bar",
		"  1.0 ":      "1.0",
	}
	for input, expected := range testcases {
		input, expected := input, expected
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			ver, err := pep440.ParseVersion(input)
			require.NoError(t, err)
			assert.Equal(t, expected, ver.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	testcases := []string{
		"",
		"bogus",
		"1.0.x",
		"1.0!",
		"1.0+",
		"1.0+under score", // whitespace inside the local label
	}
	for _, input := range testcases {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, err := pep440.ParseVersion(input)
			assert.Error(t, err)
		})
	}
}

func TestSort(t *testing.T) {
	t.Parallel()
	testcases := map[string][]string{
		// from the PEP 440 text
		"final-releases": {
			"0.9",
			"0.9.1",
			"0.9.2",
			"0.9.10",
			"0.9.11",
			"1.0",
			"1.0.1",
			"1.1",
			"2.0",
			"2.0.1",
		},
		"pre-releases": {
			"4.3a2",
			"4.3b2",
			"4.3rc2",
			"4.3",
		},
		"full-suffix-ladder": {
			"1.0.dev456",
			"1.0a1",
			"1.0a2.dev456",
			"1.0a12.dev456",
			"1.0a12",
			"1.0b1.dev456",
			"1.0b2",
			"1.0b2.post345.dev456",
			"1.0b2.post345",
			"1.0rc1.dev456",
			"1.0rc1",
			"1.0",
			"1.0.post456.dev34",
			"1.0.post456",
			"1.1.dev1",
		},
		"version-epochs": {
			"2013.10",
			"2014.04",
			"1!1.0",
			"1!1.1",
			"1!2.0",
		},
		"local-versions": {
			"1.0",
			"1.0+abc",
			"1.0+abc.5",
			"1.0+abc.7",
			"1.0+5",
			"1.1",
		},
	}
	for tcName, expectedStrs := range testcases {
		tcName := tcName
		expectedStrs := expectedStrs
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			expected := make([]pep440.Version, 0, len(expectedStrs))
			for _, str := range expectedStrs {
				ver, err := pep440.ParseVersion(str)
				require.NoError(t, err, str)
				expected = append(expected, *ver)
			}

			actual := make([]pep440.Version, len(expected))
			copy(actual, expected)
			rand.New(rand.NewSource(time.Now().UnixNano())).Shuffle(len(actual), func(i, j int) {
				actual[i], actual[j] = actual[j], actual[i]
			})
			sort.SliceStable(actual, func(i, j int) bool {
				return actual[i].Cmp(actual[j]) < 0
			})

			assert.Equal(t, expected, actual)
		})
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		A, B  string
		Equal bool
	}{
		{"1.0", "1.0.0", true},
		{"0.1.4", "0.1.4", true},
		{"1.0", "1.0+local", false},
		{"1.0", "1.0.post0", false},
		{"1.0a1", "1.0alpha1", true},
	}
	for _, tc := range testcases {
		tc := tc
		t.Run(tc.A+"/"+tc.B, func(t *testing.T) {
			t.Parallel()
			a, err := pep440.ParseVersion(tc.A)
			require.NoError(t, err)
			b, err := pep440.ParseVersion(tc.B)
			require.NoError(t, err)
			assert.Equal(t, tc.Equal, a.Equal(*b))
		})
	}
}
