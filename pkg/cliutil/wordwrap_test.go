package cliutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pydist/pydist/pkg/cliutil"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	// width 0 disables wrapping
	assert.Equal(t, "leave me alone", cliutil.Wrap(0, "leave me alone"))

	// indented lines (code blocks in help text) pass through verbatim
	input := "A paragraph that is long enough that it will need to get wrapped at some point.\n" +
		"\n" +
		"    code block line that is much too long to fit but must not be touched at all\n"
	expected := "A paragraph that is long enough that it will\n" +
		"need to get wrapped at some point.\n" +
		"\n" +
		"    code block line that is much too long to fit but must not be touched at all\n"
	assert.Equal(t, expected, cliutil.Wrap(50, input))
}

func TestWrapIndent(t *testing.T) {
	t.Parallel()
	// continuation lines get the indent; the first line's indent is the
	// caller's to print
	assert.Equal(t,
		"aaa bbb\n    ccc ddd",
		cliutil.WrapIndent(4, 20, "aaa bbb ccc ddd"))
}
