package valueobject

import "strings"

// coordinateSeparator joins group, name and version in shorthand notation.
const coordinateSeparator = ":"

// Dependency is a library declaration found in a build script.
// Group and Version are empty when the declaration did not state them.
type Dependency struct {
	Group   string `json:"group,omitempty"   yaml:"group,omitempty"`
	Name    string `json:"name"              yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// NewDependency creates a dependency record.
func NewDependency(group, name, version string) Dependency {
	return Dependency{Group: group, Name: name, Version: version}
}

// ParseShorthandDependency parses a "group:name:version" coordinate string.
// Only strings with exactly three non-empty segments are dependencies; anything
// else (two segments, a classifier, an empty group) reports false.
func ParseShorthandDependency(text string) (Dependency, bool) {
	parts := strings.Split(text, coordinateSeparator)
	if len(parts) != 3 {
		return Dependency{}, false
	}
	for _, part := range parts {
		if part == "" {
			return Dependency{}, false
		}
	}
	return NewDependency(parts[0], parts[1], parts[2]), true
}

// Coordinates renders the dependency in shorthand form, leaving out absent parts.
func (d Dependency) Coordinates() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{d.Group, d.Name, d.Version} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, coordinateSeparator)
}
