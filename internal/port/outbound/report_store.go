package outbound

import (
	"context"
	"time"

	"gradlemeta/internal/domain/valueobject"
)

// ScriptRecords are the records extracted from one script, in source order.
type ScriptRecords struct {
	Script       string
	Dependencies []valueobject.Dependency
	Plugins      []valueobject.Plugin
	Repositories []valueobject.Repository
	Properties   []valueobject.Property
	Subprojects  []valueobject.SubprojectPath
	ExtractedAt  time.Time
}

// StorableReport is a report that can be broken down into per-script records.
type StorableReport interface {
	Report
	ScriptRecords() []ScriptRecords
}

// ReportStore persists extraction reports.
type ReportStore interface {
	Save(ctx context.Context, report StorableReport) error
	Close()
}
