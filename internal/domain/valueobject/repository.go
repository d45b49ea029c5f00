package valueobject

// Canonical URLs of the well-known repository shorthands.
const (
	MavenCentralURL = "https://repo.maven.apache.org/maven2/"
	GoogleURL       = "https://maven.google.com/"
	JCenterURL      = "https://jcenter.bintray.com/"
)

// wellKnownRepositories maps a shorthand call name to its canonical URL.
var wellKnownRepositories = map[string]string{
	"mavenCentral": MavenCentralURL,
	"google":       GoogleURL,
	"jcenter":      JCenterURL,
}

// Repository is an artifact repository declared in a build script.
type Repository struct {
	URL string `json:"url" yaml:"url"`
}

// NewRepository creates a repository record.
func NewRepository(url string) Repository {
	return Repository{URL: url}
}

// WellKnownRepository returns the canonical repository for a shorthand call
// such as mavenCentral().
func WellKnownRepository(callName string) (Repository, bool) {
	url, ok := wellKnownRepositories[callName]
	if !ok {
		return Repository{}, false
	}
	return NewRepository(url), true
}
