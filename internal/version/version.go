// Package version carries build metadata injected with -ldflags, e.g.
//
//	-X github.com/smazurov/wordclock/internal/version.Version=v1.2.0
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info is the build metadata served by the API and the version command.
type Info struct {
	Version   string `json:"version" example:"v1.2.0" doc:"Release version"`
	GitCommit string `json:"git_commit" example:"3f2c1ab" doc:"Source commit"`
	BuildDate string `json:"build_date" example:"2026-01-27T10:30:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go toolchain"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"GOOS/GOARCH"`
}

// Get returns the metadata of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is the one-line form printed by `wordclock version`.
func (i Info) String() string {
	return fmt.Sprintf("wordclock %s (commit %s, built %s, %s %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}
