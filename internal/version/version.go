// Package version holds the build information of the gradlemeta binary.
//
// The variables are set at link time:
//
//	-ldflags "-X gradlemeta/internal/version.version=v1.0.0 -X gradlemeta/internal/version.commit=abc123 -X gradlemeta/internal/version.buildTime=2025-01-01T00:00:00Z"
package version

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Set via ldflags.
var (
	version   string
	commit    string
	buildTime string
)

// ApplicationName is the name of the application displayed in version output.
const ApplicationName = "gradlemeta"

// Default values used when version information is not available.
const (
	DefaultVersion   = "dev"
	DefaultCommit    = "unknown"
	DefaultBuildTime = "unknown"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string `json:"version"    yaml:"version"`
	Commit    string `json:"commit"     yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// GetVersion returns the build information, with defaults for unset values.
func GetVersion() *VersionInfo {
	return &VersionInfo{
		Version:   withDefault(version, DefaultVersion),
		Commit:    withDefault(commit, DefaultCommit),
		BuildTime: withDefault(buildTime, DefaultBuildTime),
		GoVersion: runtime.Version(),
	}
}

// FormatFull returns the multi-line description printed by "gradlemeta version".
func (vi *VersionInfo) FormatFull() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", ApplicationName, vi.Version)
	fmt.Fprintf(&b, "Commit: %s\n", vi.Commit)
	fmt.Fprintf(&b, "Built: %s\n", vi.BuildTime)
	fmt.Fprintf(&b, "Go: %s\n", vi.GoVersion)
	return b.String()
}

// Write writes the version number alone when short is set and the full
// description otherwise.
func (vi *VersionInfo) Write(w io.Writer, short bool) error {
	if short {
		_, err := fmt.Fprintln(w, vi.Version)
		return err
	}
	_, err := io.WriteString(w, vi.FormatFull())
	return err
}

// IsDevelopment reports whether the binary was built without version information.
func (vi *VersionInfo) IsDevelopment() bool {
	return vi.Version == DefaultVersion
}

// SetBuildVars overrides the link-time variables.
func SetBuildVars(ver, com, bt string) {
	version = ver
	commit = com
	buildTime = bt
}

// ResetBuildVars clears the link-time variables.
func ResetBuildVars() {
	SetBuildVars("", "", "")
}
