// This file mimics `configparser.py`.

package python

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// DefaultSection is the section that BasicInterpolation falls back to.
const DefaultSection = "DEFAULT"

type Config map[string]ConfigSection

type ConfigSection map[string]string

// Get returns the value of an option, falling back to the DEFAULT section like Python's
// configparser does.
func (c Config) Get(section, option string) (string, bool) {
	if val, ok := c[section][option]; ok {
		return val, true
	}
	val, ok := c[DefaultSection][option]
	return val, ok
}

type ConfigParser struct {
	Delimiters            []string
	CommentPrefixes       []string
	InlineCommentPrefixes []string

	Strict             bool
	EmptyLinesInValues bool

	// Transform keys
	OptionTransform func(string) string
	// Transform values; raw is the un-interpolated config.
	Interpolate func(raw Config, section, val string) (string, error)
}

func NewConfigParser() *ConfigParser {
	return &ConfigParser{
		Delimiters:            []string{"=", ":"},
		CommentPrefixes:       []string{"#", ";"},
		InlineCommentPrefixes: []string{},

		Strict:             true,
		EmptyLinesInValues: true,

		OptionTransform: strings.ToLower,
		Interpolate:     BasicInterpolation,
	}
}

// ParseError is a syntax error in an INI file.
type ParseError struct {
	Lineno int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Lineno, e.Msg)
}

func (p *ConfigParser) Parse(fp io.Reader) (Config, error) {
	raw := make(Config)

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
		// strip comments and whitespace
		commentStart := len(line)
		for _, commentPrefix := range p.InlineCommentPrefixes {
			// an inline comment must be preceded by whitespace
			for i := strings.Index(line, commentPrefix); i >= 0; {
				if i > 0 && unicode.IsSpace(rune(line[i-1])) {
					if i < commentStart {
						commentStart = i
					}
					break
				}
				next := strings.Index(line[i+1:], commentPrefix)
				if next < 0 {
					break
				}
				i += 1 + next
			}
		}
		for _, commentPrefix := range p.CommentPrefixes {
			if strings.HasPrefix(strings.TrimSpace(line), commentPrefix) {
				commentStart = 0
				break
			}
		}
		value := strings.TrimSpace(line[:commentStart])
		// handle empty lines
		if value == "" {
			if p.EmptyLinesInValues {
				// append empty line to the value (if there is one!), but only if
				// there was no comment.
				if curVal != nil && commentStart == len(line) {
					curVal = append(curVal, value)
				}
			} else {
				curIndentLevel = 0
			}
			continue
		}

		lineIndentLevel := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
		switch {
		case curVal != nil && lineIndentLevel > 0 && lineIndentLevel > curIndentLevel:
			// continuation line
			curVal = append(curVal, value)
		case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
			// section header
			flushKV()
			curIndentLevel = lineIndentLevel
			sectName := strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
			if _, exists := raw[sectName]; !exists {
				raw[sectName] = make(ConfigSection)
			} else if p.Strict {
				return nil, &ParseError{Lineno: lineno, Msg: fmt.Sprintf("duplicate section name %q", sectName)}
			}
			curSection = raw[sectName]
		default:
			// start of a k/v pair
			flushKV()
			curIndentLevel = lineIndentLevel
			if curSection == nil {
				return nil, &ParseError{Lineno: lineno, Msg: "no section header"}
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
				return nil, &ParseError{Lineno: lineno, Msg: fmt.Sprintf("invalid line: %q", value)}
			}
			curKey = p.OptionTransform(strings.TrimSpace(value[:sepPos]))
			curVal = []string{
				strings.TrimSpace(value[sepPos+sepLen:]),
			}
			if _, exists := curSection[curKey]; p.Strict && exists {
				return nil, &ParseError{Lineno: lineno, Msg: fmt.Sprintf("duplicate option name %q", curKey)}
			}
		}
	}
	flushKV()

	if p.Interpolate == nil {
		return raw, nil
	}
	config := make(Config, len(raw))
	for sect := range raw {
		config[sect] = make(ConfigSection, len(raw[sect]))
		for key, val := range raw[sect] {
			var err error
			config[sect][key], err = p.Interpolate(raw, sect, val)
			if err != nil {
				return nil, fmt.Errorf("[%s] %s: %w", sect, key, err)
			}
		}
	}

	return config, nil
}

func NoInterpolation(_ Config, _, val string) (string, error) {
	return val, nil
}

// maxInterpolationDepth matches configparser.MAX_INTERPOLATION_DEPTH.
const maxInterpolationDepth = 10

// BasicInterpolation expands "%(name)s" references to other options in the same section (or in
// DEFAULT), and "%%" to a literal "%".
func BasicInterpolation(raw Config, section, val string) (string, error) {
	return basicInterpolate(raw, section, val, 1)
}

func basicInterpolate(raw Config, section, val string, depth int) (string, error) {
	if depth > maxInterpolationDepth {
		return "", fmt.Errorf("interpolation too deeply recursive: %q", val)
	}
	var ret strings.Builder
	for val != "" {
		pct := strings.IndexByte(val, '%')
		if pct < 0 {
			ret.WriteString(val)
			break
		}
		ret.WriteString(val[:pct])
		val = val[pct:]
		switch {
		case strings.HasPrefix(val, "%%"):
			ret.WriteByte('%')
			val = val[2:]
		case strings.HasPrefix(val, "%("):
			end := strings.Index(val, ")s")
			if end < 0 {
				return "", fmt.Errorf("bad interpolation variable reference %q", val)
			}
			name := strings.ToLower(val[2:end])
			ref, ok := raw.Get(section, name)
			if !ok {
				return "", fmt.Errorf("bad option reference %q in section %q", name, section)
			}
			expanded, err := basicInterpolate(raw, section, ref, depth+1)
			if err != nil {
				return "", err
			}
			ret.WriteString(expanded)
			val = val[end+2:]
		default:
			return "", fmt.Errorf("'%%' must be followed by '%%' or '(', found: %q", val)
		}
	}
	return ret.String(), nil
}
