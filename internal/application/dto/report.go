package dto

import (
	"fmt"
	"time"

	"gradlemeta/internal/domain/valueobject"
)

// Record kinds a report can be narrowed to.
const (
	KindAll          = "all"
	KindDependencies = "dependencies"
	KindPlugins      = "plugins"
	KindRepositories = "repositories"
	KindProperties   = "properties"
	KindSubprojects  = "subprojects"
)

// Kinds lists every accepted kind in display order.
func Kinds() []string {
	return []string{KindAll, KindDependencies, KindPlugins, KindRepositories, KindProperties, KindSubprojects}
}

// ScriptReport holds everything extracted from one script. ScriptPlugins
// and IncludedBuilds list apply from: targets and includeBuild directories
// as written in the script.
type ScriptReport struct {
	ID              string                       `json:"id"                         yaml:"id"`
	Script          string                       `json:"script"                     yaml:"script"`
	Dependencies    []valueobject.Dependency     `json:"dependencies,omitempty"     yaml:"dependencies,omitempty"`
	Plugins         []valueobject.Plugin         `json:"plugins,omitempty"          yaml:"plugins,omitempty"`
	Repositories    []valueobject.Repository     `json:"repositories,omitempty"     yaml:"repositories,omitempty"`
	Properties      []valueobject.Property       `json:"properties,omitempty"       yaml:"properties,omitempty"`
	Subprojects     []valueobject.SubprojectPath `json:"subprojects,omitempty"      yaml:"subprojects,omitempty"`
	ScriptPlugins   []string                     `json:"script_plugins,omitempty"   yaml:"script_plugins,omitempty"`
	IncludedBuilds  []string                     `json:"included_builds,omitempty"  yaml:"included_builds,omitempty"`
	DependencyBlock *valueobject.DependencyBlock `json:"dependency_block,omitempty" yaml:"dependency_block,omitempty"`
	ExtractedAt     time.Time                    `json:"extracted_at"               yaml:"extracted_at"`
}

// ReportID returns the report identifier.
func (r *ScriptReport) ReportID() string {
	return r.ID
}

// Select returns a copy of the report that keeps only the records of kind.
func (r *ScriptReport) Select(kind string) (*ScriptReport, error) {
	narrowed := &ScriptReport{ID: r.ID, Script: r.Script, ExtractedAt: r.ExtractedAt}
	switch kind {
	case KindAll, "":
		copied := *r
		return &copied, nil
	case KindDependencies:
		narrowed.Dependencies = r.Dependencies
		narrowed.DependencyBlock = r.DependencyBlock
	case KindPlugins:
		narrowed.Plugins = r.Plugins
	case KindRepositories:
		narrowed.Repositories = r.Repositories
	case KindProperties:
		narrowed.Properties = r.Properties
	case KindSubprojects:
		narrowed.Subprojects = r.Subprojects
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	return narrowed, nil
}

// ProjectReport holds the reports of every script of a scanned project.
// Scripts lists the root build script first, then subprojects in settings
// order, then applied script plugins. Builds holds the included builds,
// buildSrc first, each scanned like a project of its own.
type ProjectReport struct {
	ID          string                       `json:"id"                    yaml:"id"`
	Root        string                       `json:"root"                  yaml:"root"`
	Settings    *ScriptReport                `json:"settings,omitempty"    yaml:"settings,omitempty"`
	Subprojects []valueobject.SubprojectPath `json:"subprojects,omitempty" yaml:"subprojects,omitempty"`
	Scripts     []*ScriptReport              `json:"scripts"               yaml:"scripts"`
	Skipped     []string                     `json:"skipped,omitempty"     yaml:"skipped,omitempty"`
	Builds      []*ProjectReport             `json:"builds,omitempty"      yaml:"builds,omitempty"`
	ScannedAt   time.Time                    `json:"scanned_at"            yaml:"scanned_at"`
}

// ReportID returns the report identifier.
func (r *ProjectReport) ReportID() string {
	return r.ID
}

// Select narrows every contained script report to kind.
func (r *ProjectReport) Select(kind string) (*ProjectReport, error) {
	narrowed := *r
	narrowed.Scripts = make([]*ScriptReport, 0, len(r.Scripts))
	for _, script := range r.Scripts {
		selected, err := script.Select(kind)
		if err != nil {
			return nil, err
		}
		narrowed.Scripts = append(narrowed.Scripts, selected)
	}
	if r.Settings != nil {
		settings, err := r.Settings.Select(kind)
		if err != nil {
			return nil, err
		}
		narrowed.Settings = settings
	}
	if len(r.Builds) > 0 {
		narrowed.Builds = make([]*ProjectReport, 0, len(r.Builds))
		for _, build := range r.Builds {
			selected, err := build.Select(kind)
			if err != nil {
				return nil, err
			}
			narrowed.Builds = append(narrowed.Builds, selected)
		}
	}
	return &narrowed, nil
}

// DependencyCount returns the number of dependencies over all scripts,
// included builds among them.
func (r *ProjectReport) DependencyCount() int {
	total := 0
	for _, script := range r.Scripts {
		total += len(script.Dependencies)
	}
	for _, build := range r.Builds {
		total += build.DependencyCount()
	}
	return total
}
