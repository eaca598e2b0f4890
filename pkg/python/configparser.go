// This file mimics `configparser.py`; just enough of it to read the INI-style
// config files that the Python packaging ecosystem uses (`.pypirc`).

package python

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type Config map[string]ConfigSection

type ConfigSection map[string]string

type ConfigParser struct {
	Delimiters      []string
	CommentPrefixes []string

	// Strict rejects duplicate section and option names, as
	// configparser.py does by default.
	Strict bool

	// Transform keys
	OptionTransform func(string) string
}

func NewConfigParser() *ConfigParser {
	return &ConfigParser{
		Delimiters:      []string{"=", ":"},
		CommentPrefixes: []string{"#", ";"},

		Strict: true,

		OptionTransform: strings.ToLower,
	}
}

func (p *ConfigParser) Parse(fp io.Reader) (Config, error) {
	config := make(Config)

	var (
		curIndentLevel int
		curSection     ConfigSection
		curKey         string
		curVal         []string
	)

	flushKV := func() {
		if curVal != nil {
			curSection[curKey] = strings.TrimRight(strings.Join(curVal, "\n"), "\n")
			curKey = ""
			curVal = nil
		}
	}

	fpLines := bufio.NewReader(fp)
	lineno := 0
	keepGoing := true
	for keepGoing {
		line, err := fpLines.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			keepGoing = false
		}
		lineno++

		value := strings.TrimSpace(line)
		isComment := false
		for _, commentPrefix := range p.CommentPrefixes {
			if strings.HasPrefix(value, commentPrefix) {
				isComment = true
				break
			}
		}
		if isComment {
			continue
		}
		if value == "" {
			// A blank line ends a value; .pypirc doesn't use
			// configparser.py's empty-lines-in-values feature.
			flushKV()
			continue
		}

		lineIndentLevel := 0
		for i, r := range line {
			if !unicode.IsSpace(r) {
				lineIndentLevel = i
				break
			}
		}
		switch {
		case curVal != nil && lineIndentLevel > 0 && lineIndentLevel > curIndentLevel:
			// continuation line
			curVal = append(curVal, value)
		case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
			// section header
			flushKV()
			curIndentLevel = lineIndentLevel
			sectName := strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
			if _, exists := config[sectName]; !exists {
				config[sectName] = make(ConfigSection)
			} else if p.Strict {
				return nil, fmt.Errorf("line %d: duplicate section name %q", lineno, sectName)
			}
			curSection = config[sectName]
		default:
			// start of a k/v pair
			flushKV()
			curIndentLevel = lineIndentLevel
			if curSection == nil {
				return nil, fmt.Errorf("line %d: no section header", lineno)
			}
			sepPos := len(value)
			sepLen := 0
			for _, sep := range p.Delimiters {
				if index := strings.Index(value, sep); index >= 0 && index < sepPos {
					sepPos = index
					sepLen = len(sep)
				}
			}
			if sepPos == len(value) {
				return nil, fmt.Errorf("line %d: invalid line: %q", lineno, value)
			}
			curKey = p.OptionTransform(strings.TrimSpace(value[:sepPos]))
			curVal = []string{
				strings.TrimSpace(value[sepPos+sepLen:]),
			}
			if _, exists := curSection[curKey]; p.Strict && exists {
				return nil, fmt.Errorf("line %d: duplicate option name %q", lineno, curKey)
			}
		}
	}
	flushKV()

	return config, nil
}
