package cliutil

import (
	"strings"
)

// Wrap the string `s` to a maximum width `w`.  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// Wrap the string `s` to a maximum width `w` with leading indent `i`.  The first line is not
// indented (this is assumed to be done by caller).  Pass `w` == 0 to do no wrapping
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

func wrap(indent, w int, s string) string {
	if w == 0 {
		return s
	}
	limit := w - 5
	if limit <= indent {
		limit = w
	}
	pad := strings.Repeat(" ", indent)

	var ret strings.Builder
	firstLine := true
	emit := func(line string) {
		if !firstLine {
			ret.WriteString("\n")
			if line != "" {
				ret.WriteString(pad)
			}
		}
		ret.WriteString(line)
		firstLine = false
	}

	for _, srcLine := range strings.Split(s, "\n") {
		if srcLine == "" || srcLine[0] == ' ' || srcLine[0] == '\t' {
			// Blank lines and explicitly indented lines (code blocks
			// in help text) are taken verbatim.
			emit(srcLine)
			continue
		}
		var cur strings.Builder
		curWidth := indent
		for _, word := range splitWords(srcLine) {
			if cur.Len() > 0 && curWidth+len(word.space)+len(word.text) >= limit {
				emit(cur.String())
				cur.Reset()
				curWidth = indent
			}
			if cur.Len() > 0 {
				// preserve the source spacing ("two spaces after
				// a period") when not at a line break
				cur.WriteString(word.space)
				curWidth += len(word.space)
			}
			cur.WriteString(word.text)
			curWidth += len(word.text)
		}
		emit(cur.String())
	}
	return ret.String()
}

type word struct {
	space string // the spacing that preceded the word in the source
	text  string
}

func splitWords(line string) []word {
	var ret []word
	pos := 0
	for pos < len(line) {
		spaceLen := strings.IndexFunc(line[pos:], func(r rune) bool { return r != ' ' })
		if spaceLen < 0 {
			break
		}
		wordEnd := strings.IndexByte(line[pos+spaceLen:], ' ')
		if wordEnd < 0 {
			wordEnd = len(line) - (pos + spaceLen)
		}
		ret = append(ret, word{
			space: line[pos : pos+spaceLen],
			text:  line[pos+spaceLen : pos+spaceLen+wordEnd],
		})
		pos += spaceLen + wordEnd
	}
	return ret
}
