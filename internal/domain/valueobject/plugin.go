package valueobject

// Plugin is a versioned plugin request from a plugins block, such as
// id 'org.springframework.boot' version '2.0.5.RELEASE'.
type Plugin struct {
	ID      string `json:"id"      yaml:"id"`
	Version string `json:"version" yaml:"version"`
}

// NewPlugin creates a plugin record.
func NewPlugin(id, version string) Plugin {
	return Plugin{ID: id, Version: version}
}

// Coordinates renders the plugin as id:version.
func (p Plugin) Coordinates() string {
	return p.ID + coordinateSeparator + p.Version
}
