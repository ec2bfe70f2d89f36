package properties

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// SkippedLine describes a line the parser ignored because it was malformed.
type SkippedLine struct {
	Line   int
	Reason string
}

var (
	errEmptyKey        = errors.New("empty key")
	errMalformedEscape = errors.New("malformed \\uXXXX escape")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads properties from r. Malformed lines are skipped; only read
// errors are returned.
func Parse(r io.Reader) (*ConfigMap, error) {
	m, _, err := parse(r)
	return m, err
}

func parse(r io.Reader) (*ConfigMap, []SkippedLine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}

	values := make(map[string]string)
	var skipped []SkippedLine

	lr := &lineReader{src: decode(data)}
	for {
		line, lineNo, ok := lr.next()
		if !ok {
			break
		}
		key, value, err := parseLine(line)
		if err != nil {
			skipped = append(skipped, SkippedLine{Line: lineNo, Reason: err.Error()})
			continue
		}
		values[key] = value
	}

	return &ConfigMap{values: values}, skipped, nil
}

// decode returns data as a string. Input that is not valid UTF-8 is read
// as ISO-8859-1, the encoding the JVM applies to properties streams.
func decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// lineReader yields logical lines: comments and blank lines removed,
// backslash continuations joined.
type lineReader struct {
	src    string
	pos    int
	lineNo int
}

func (r *lineReader) natural() string {
	rest := r.src[r.pos:]
	end := strings.IndexAny(rest, "\r\n")
	if end < 0 {
		r.pos = len(r.src)
		r.lineNo++
		return rest
	}
	r.pos += end + 1
	if rest[end] == '\r' && r.pos < len(r.src) && r.src[r.pos] == '\n' {
		r.pos++
	}
	r.lineNo++
	return rest[:end]
}

func (r *lineReader) next() (string, int, bool) {
	for r.pos < len(r.src) {
		cur := trimLeadingSpace(r.natural())
		if cur == "" || cur[0] == '#' || cur[0] == '!' {
			continue
		}

		start := r.lineNo
		var b strings.Builder
		for continues(cur) {
			b.WriteString(cur[:len(cur)-1])
			if r.pos >= len(r.src) {
				cur = ""
				break
			}
			cur = trimLeadingSpace(r.natural())
		}
		b.WriteString(cur)
		return b.String(), start, true
	}
	return "", 0, false
}

// continues reports whether line ends in an odd number of backslashes.
func continues(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f'
}

func trimLeadingSpace(s string) string {
	return strings.TrimLeft(s, " \t\f")
}

// trimTrailingSpace drops trailing whitespace that is not escaped.
func trimTrailingSpace(s string) string {
	end := len(s)
	for end > 0 && isSpace(s[end-1]) {
		backslashes := 0
		for i := end - 2; i >= 0 && s[i] == '\\'; i-- {
			backslashes++
		}
		if backslashes%2 == 1 {
			break
		}
		end--
	}
	return s[:end]
}

// parseLine splits a logical line into an unescaped key and value.
func parseLine(line string) (string, string, error) {
	keyEnd := len(line)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' {
			i++
			continue
		}
		if c == '=' || c == ':' || isSpace(c) {
			keyEnd = i
			break
		}
	}

	rest := line[keyEnd:]
	rest = trimLeadingSpace(rest)
	if rest != "" && (rest[0] == '=' || rest[0] == ':') {
		rest = trimLeadingSpace(rest[1:])
	}

	key, err := unescape(line[:keyEnd])
	if err != nil {
		return "", "", err
	}
	if key == "" {
		return "", "", errEmptyKey
	}

	value, err := unescape(trimTrailingSpace(rest))
	if err != nil {
		return "", "", fmt.Errorf("key %q: %w", key, err)
	}
	return key, value, nil
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			r, ok := hexRune(s, i+1)
			if !ok {
				return "", errMalformedEscape
			}
			i += 4
			if utf16.IsSurrogate(r) && i+6 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				if low, ok := hexRune(s, i+3); ok {
					if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
						r = pair
						i += 6
					}
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// hexRune decodes the four hex digits of s starting at i.
func hexRune(s string, i int) (rune, bool) {
	if i+4 > len(s) {
		return 0, false
	}
	n, err := strconv.ParseUint(s[i:i+4], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
