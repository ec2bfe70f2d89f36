// Package version holds build metadata for the signcfg binary.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release version, set via ldflags.
	Version = "dev"

	// BuildTime is set via ldflags.
	BuildTime = "unknown"

	// Commit is the git SHA the binary was built from, set via ldflags.
	Commit = "unknown"
)

// BuildInfo is the structured form printed by `signcfg version -o json|yaml`.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"buildTime" yaml:"buildTime"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the build metadata of the running binary.
func Get() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}

// Info returns a one-line summary.
func Info() string {
	return fmt.Sprintf("signcfg %s (%s) - %s %s/%s",
		Version,
		shortCommit(Commit),
		BuildTime,
		runtime.GOOS,
		runtime.GOARCH,
	)
}
