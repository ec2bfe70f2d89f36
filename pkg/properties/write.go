package properties

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf16"
)

const hexDigits = "0123456789ABCDEF"

// Write emits values as sorted key=value lines, preceded by comment lines.
// Keys and values are escaped to plain ASCII so they read back the same on any JVM.
func Write(w io.Writer, values map[string]string, comments ...string) error {
	bw := bufio.NewWriter(w)

	for _, c := range comments {
		for _, line := range strings.Split(c, "\n") {
			if _, err := fmt.Fprintf(bw, "# %s\n", strings.ReplaceAll(line, "\r", " ")); err != nil {
				return err
			}
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", escape(k, true, true), escapeValue(values[k])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// escapeValue escapes v, keeping trailing blanks that the reader would trim.
func escapeValue(v string) string {
	trimmed := strings.TrimRight(v, " ")
	out := escape(trimmed, false, true)
	return out + strings.Repeat(`\ `, len(v)-len(trimmed))
}

func escape(s string, escapeSpace, escapeSpecial bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case r == ' ':
			if escapeSpace || i == 0 {
				b.WriteString(`\ `)
			} else {
				b.WriteByte(' ')
			}
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\f':
			b.WriteString(`\f`)
		case escapeSpecial && (r == '=' || r == ':' || r == '#' || r == '!'):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r > 0x7e:
			if r > 0xFFFF {
				hi, lo := utf16.EncodeRune(r)
				writeUnicode(&b, hi)
				writeUnicode(&b, lo)
			} else {
				writeUnicode(&b, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func writeUnicode(b *strings.Builder, r rune) {
	b.WriteString(`\u`)
	b.WriteByte(hexDigits[(r>>12)&0xF])
	b.WriteByte(hexDigits[(r>>8)&0xF])
	b.WriteByte(hexDigits[(r>>4)&0xF])
	b.WriteByte(hexDigits[r&0xF])
}

// Save atomically writes values to path with owner-only permissions,
// creating the parent directory when needed.
func Save(path string, values map[string]string, comments ...string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.properties")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write properties file %s: %w", path, err)
	}

	if err := Write(tmp, values, comments...); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0600); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write properties file %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write properties file %s: %w", path, err)
	}
	return nil
}
