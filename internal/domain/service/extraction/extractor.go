package extraction

import (
	"gradlemeta/internal/domain/script"
	"gradlemeta/internal/domain/valueobject"
)

// Extractor runs the extractors over parsed trees. Every call creates fresh
// visitors, so an Extractor may be shared between goroutines.
type Extractor struct {
	walker    Walker
	separator string
}

// NewExtractor creates an extractor whose traversals stop at maxDepth and
// whose subproject paths use separator.
func NewExtractor(maxDepth int, separator string) *Extractor {
	if separator == "" {
		separator = valueobject.DefaultPathSeparator
	}
	return &Extractor{walker: NewWalker(maxDepth), separator: separator}
}

// Dependencies returns every dependency declaration in tree.
func (x *Extractor) Dependencies(tree *script.Tree) ([]valueobject.Dependency, error) {
	v := NewDependencyExtractor(tree)
	if err := x.walker.Walk(tree, v); err != nil {
		return nil, err
	}
	return v.Dependencies(), nil
}

// Repositories returns the repositories declared in repositories blocks.
func (x *Extractor) Repositories(tree *script.Tree) ([]valueobject.Repository, error) {
	v := NewRepositoryExtractor(tree)
	if err := x.walker.Walk(tree, v); err != nil {
		return nil, err
	}
	return v.Repositories(), nil
}

// Properties returns the ext properties of tree.
func (x *Extractor) Properties(tree *script.Tree) ([]valueobject.Property, error) {
	v := NewPropertyExtractor(tree)
	if err := x.walker.Walk(tree, v); err != nil {
		return nil, err
	}
	return v.Properties(), nil
}

// Subprojects returns the paths included by a settings script.
func (x *Extractor) Subprojects(tree *script.Tree) ([]valueobject.SubprojectPath, error) {
	v := NewSubprojectExtractor(tree, x.separator)
	if err := x.walker.Walk(tree, v); err != nil {
		return nil, err
	}
	return v.Subprojects(), nil
}

// Plugins returns the versioned plugin requests of plugins blocks.
func (x *Extractor) Plugins(tree *script.Tree) ([]valueobject.Plugin, error) {
	v := NewPluginExtractor(tree)
	if err := x.walker.Walk(tree, v); err != nil {
		return nil, err
	}
	return v.Plugins(), nil
}

// ScriptPlugins returns the targets of apply from: calls.
func (x *Extractor) ScriptPlugins(tree *script.Tree) ([]string, error) {
	v := NewScriptPluginExtractor(tree)
	if err := x.walker.Walk(tree, v); err != nil {
		return nil, err
	}
	return v.ScriptPlugins(), nil
}

// IncludedBuilds returns the directories named by includeBuild calls.
func (x *Extractor) IncludedBuilds(tree *script.Tree) ([]string, error) {
	v := NewIncludedBuildExtractor()
	if err := x.walker.Walk(tree, v); err != nil {
		return nil, err
	}
	return v.IncludedBuilds(), nil
}

// DependencyBlock locates the first dependencies block of tree.
func (x *Extractor) DependencyBlock(tree *script.Tree) (valueobject.DependencyBlock, error) {
	v := NewDependencyBlockLocator(tree)
	if err := x.walker.Walk(tree, v); err != nil {
		return valueobject.MissingDependencyBlock(), err
	}
	return v.Block(), nil
}
