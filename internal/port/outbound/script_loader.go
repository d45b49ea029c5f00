package outbound

import (
	"context"

	"gradlemeta/internal/domain/script"
)

// ScriptLoader turns script text into a syntax tree.
type ScriptLoader interface {
	// LoadFile reads and parses the script at path.
	LoadFile(ctx context.Context, path string) (*script.Tree, error)

	// LoadString parses in-memory text. name is used in errors only.
	LoadString(ctx context.Context, name, text string) (*script.Tree, error)

	// Load parses raw bytes, validating their encoding first.
	Load(ctx context.Context, source []byte, name string) (*script.Tree, error)
}
