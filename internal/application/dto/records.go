package dto

import "gradlemeta/internal/port/outbound"

var (
	_ outbound.StorableReport = (*ScriptReport)(nil)
	_ outbound.StorableReport = (*ProjectReport)(nil)
)

// ScriptRecords returns the records of the report as one storable script.
func (r *ScriptReport) ScriptRecords() []outbound.ScriptRecords {
	return []outbound.ScriptRecords{r.records()}
}

func (r *ScriptReport) records() outbound.ScriptRecords {
	return outbound.ScriptRecords{
		Script:       r.Script,
		Dependencies: r.Dependencies,
		Plugins:      r.Plugins,
		Repositories: r.Repositories,
		Properties:   r.Properties,
		Subprojects:  r.Subprojects,
		ExtractedAt:  r.ExtractedAt,
	}
}

// ScriptRecords returns the settings script, when present, followed by every
// build script and then the scripts of each included build.
func (r *ProjectReport) ScriptRecords() []outbound.ScriptRecords {
	records := make([]outbound.ScriptRecords, 0, len(r.Scripts)+1)
	if r.Settings != nil {
		records = append(records, r.Settings.records())
	}
	for _, script := range r.Scripts {
		records = append(records, script.records())
	}
	for _, build := range r.Builds {
		records = append(records, build.ScriptRecords()...)
	}
	return records
}
