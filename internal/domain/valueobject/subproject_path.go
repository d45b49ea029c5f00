package valueobject

import "strings"

// DefaultPathSeparator replaces the colons of a settings identifier.
const DefaultPathSeparator = "/"

// SubprojectPath is the relative directory of an included subproject.
type SubprojectPath string

// NewSubprojectPath converts a settings identifier such as ":a:b" into "a/b".
// One leading colon (the root project) is dropped and every remaining colon is
// replaced with sep.
func NewSubprojectPath(identifier, sep string) SubprojectPath {
	if sep == "" {
		sep = DefaultPathSeparator
	}
	trimmed := strings.TrimPrefix(identifier, ":")
	return SubprojectPath(strings.ReplaceAll(trimmed, ":", sep))
}

// String returns the path.
func (p SubprojectPath) String() string {
	return string(p)
}
