// Package inbound defines the inbound ports (interfaces) for the application layer.
// These ports represent the entry points into the application's core business logic.
package inbound

import (
	"context"

	"gradlemeta/internal/application/dto"
)

// ExtractionService defines the inbound port for metadata extraction.
type ExtractionService interface {
	// ExtractScript loads the script at path and runs every extractor over it.
	ExtractScript(ctx context.Context, path string) (*dto.ScriptReport, error)
	// ExtractSource does the same for in-memory script text.
	ExtractSource(ctx context.Context, name, text string) (*dto.ScriptReport, error)
	// ScanProject extracts the settings script of a project directory and the
	// build scripts of the root project and every included subproject.
	ScanProject(ctx context.Context, root string) (*dto.ProjectReport, error)
}
