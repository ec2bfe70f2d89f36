package format

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rzbill/signcfg/pkg/signing"
	"golang.org/x/term"
)

// Error colors
var (
	ErrorColor = color.New(color.FgRed, color.Bold)
	FileColor  = color.New(color.FgCyan)
	HintColor  = color.New(color.FgYellow, color.Italic)
)

const defaultTerminalWidth = 80

// ErrorFormatter prints command failures with a hint on how to fix them.
type ErrorFormatter struct {
	Out           io.Writer
	TerminalWidth int
}

// NewErrorFormatter creates a new error formatter writing to w
func NewErrorFormatter(w io.Writer) *ErrorFormatter {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = defaultTerminalWidth
	}
	if width > 120 {
		width = 120
	}
	return &ErrorFormatter{Out: w, TerminalWidth: width}
}

// PrintError prints err. Signing errors get a header naming the file and a hint.
func (f *ErrorFormatter) PrintError(err error) {
	if err == nil {
		return
	}

	var missing *signing.MissingCredentialError
	var notFound *signing.KeystoreNotFoundError
	switch {
	case errors.As(err, &missing):
		f.header("SIGNING CONFIG INCOMPLETE", missing.Source)
	case errors.As(err, &notFound):
		f.header("KEYSTORE NOT FOUND", notFound.Path)
	}

	ErrorColor.Fprintf(f.Out, "  Error: %s\n", err)
	if hint := Hint(err); hint != "" {
		HintColor.Fprintf(f.Out, "  Hint: %s\n", hint)
	}
}

func (f *ErrorFormatter) header(title, file string) {
	fmt.Fprintln(f.Out)
	fmt.Fprintln(f.Out, ErrorColor.Sprint("× "+title), FileColor.Sprint(file))
	fmt.Fprintln(f.Out, strings.Repeat("─", f.TerminalWidth))
}

// Hint suggests a fix for known signing errors.
func Hint(err error) string {
	var missing *signing.MissingCredentialError
	if errors.As(err, &missing) {
		return fmt.Sprintf("run `signcfg init` to write a complete file, or set %s by hand", missing.Key)
	}
	var notFound *signing.KeystoreNotFoundError
	if errors.As(err, &notFound) {
		return "relative storeFile paths resolve against the app module; use --keystore-base-dir to override"
	}
	return ""
}
