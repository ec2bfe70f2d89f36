package format

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
)

var (
	// useColor determines whether to use color in output
	useColor = true
)

func init() {
	// Windows consoles only render ANSI inside terminals that advertise it.
	if runtime.GOOS == "windows" {
		_, hasAnsicon := os.LookupEnv("ANSICON")
		_, hasWT := os.LookupEnv("WT_SESSION")
		useColor = hasAnsicon || hasWT
	}

	if _, noColor := os.LookupEnv("SIGNCFG_NO_COLOR"); noColor {
		useColor = false
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		useColor = false
	}

	if _, forceColor := os.LookupEnv("SIGNCFG_FORCE_COLOR"); !forceColor {
		fileInfo, err := os.Stdout.Stat()
		if err != nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
			useColor = false
		}
	}
	setLibraryColor(useColor)
}

// EnableColor enables or disables colored output globally
func EnableColor(enable bool) {
	useColor = enable
	setLibraryColor(enable)
}

func setLibraryColor(enable bool) {
	color.NoColor = !enable
	if enable {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}
}

// IsColorEnabled returns whether colored output is enabled
func IsColorEnabled() bool {
	return useColor
}

// Colorize adds color to a string if colors are enabled
func Colorize(color, text string) string {
	if useColor {
		return color + text + Reset
	}
	return text
}

// Success formats a message as a success (green)
func Success(format string, a ...interface{}) string {
	return Colorize(Green, fmt.Sprintf(format, a...))
}

// Warning formats a message as a warning (yellow)
func Warning(format string, a ...interface{}) string {
	return Colorize(Yellow, fmt.Sprintf(format, a...))
}

// StatusSymbol returns a colorized status symbol
func StatusSymbol(success bool) string {
	if success {
		return Colorize(Green, "✓")
	}
	return Colorize(Red, "✗")
}
