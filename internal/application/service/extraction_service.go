package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"gradlemeta/internal/application/common/logging"
	"gradlemeta/internal/application/common/slogger"
	"gradlemeta/internal/application/dto"
	"gradlemeta/internal/config"
	"gradlemeta/internal/domain/script"
	"gradlemeta/internal/domain/service/extraction"
	"gradlemeta/internal/port/inbound"
	"gradlemeta/internal/port/outbound"
)

// ExtractionService loads Gradle scripts and runs every extractor over them.
// It holds no per-call state and is safe for concurrent use.
type ExtractionService struct {
	loader    outbound.ScriptLoader
	extractor *extraction.Extractor
	config    config.ExtractionConfig
	metrics   *ExtractionMetrics
}

var _ inbound.ExtractionService = (*ExtractionService)(nil)

// NewExtractionService creates a new extraction service. metrics may be nil.
func NewExtractionService(
	loader outbound.ScriptLoader,
	extractor *extraction.Extractor,
	cfg config.ExtractionConfig,
	metrics *ExtractionMetrics,
) *ExtractionService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &ExtractionService{
		loader:    loader,
		extractor: extractor,
		config:    cfg,
		metrics:   metrics,
	}
}

// ExtractScript loads the script at path once and extracts every record kind from it.
func (s *ExtractionService) ExtractScript(ctx context.Context, path string) (*dto.ScriptReport, error) {
	ctx = logging.EnsureCorrelationID(ctx)

	start := time.Now()
	tree, err := s.loader.LoadFile(ctx, path)
	s.metrics.RecordExtraction(ctx, ExtractorLoad, 0, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to load script: %w", err)
	}

	return s.report(ctx, tree)
}

// ExtractSource extracts every record kind from in-memory script text.
func (s *ExtractionService) ExtractSource(ctx context.Context, name, text string) (*dto.ScriptReport, error) {
	ctx = logging.EnsureCorrelationID(ctx)

	start := time.Now()
	tree, err := s.loader.LoadString(ctx, name, text)
	s.metrics.RecordExtraction(ctx, ExtractorLoad, 0, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to load script: %w", err)
	}

	return s.report(ctx, tree)
}

// measure runs one extractor and records its metrics.
func measure[T any](
	ctx context.Context,
	metrics *ExtractionMetrics,
	extractor string,
	tree *script.Tree,
	extract func(*script.Tree) ([]T, error),
) ([]T, error) {
	start := time.Now()
	records, err := extract(tree)
	metrics.RecordExtraction(ctx, extractor, len(records), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s extraction failed: %w", extractor, err)
	}
	return records, nil
}

func (s *ExtractionService) report(ctx context.Context, tree *script.Tree) (*dto.ScriptReport, error) {
	report := &dto.ScriptReport{
		ID:          uuid.New().String(),
		Script:      tree.Name(),
		ExtractedAt: time.Now().UTC(),
	}

	var err error
	if report.Dependencies, err = measure(ctx, s.metrics, ExtractorDependencies, tree, s.extractor.Dependencies); err != nil {
		return nil, err
	}
	if report.Plugins, err = measure(ctx, s.metrics, ExtractorPlugins, tree, s.extractor.Plugins); err != nil {
		return nil, err
	}
	if report.Repositories, err = measure(ctx, s.metrics, ExtractorRepositories, tree, s.extractor.Repositories); err != nil {
		return nil, err
	}
	if report.Properties, err = measure(ctx, s.metrics, ExtractorProperties, tree, s.extractor.Properties); err != nil {
		return nil, err
	}
	if report.Subprojects, err = measure(ctx, s.metrics, ExtractorSubprojects, tree, s.extractor.Subprojects); err != nil {
		return nil, err
	}
	if report.ScriptPlugins, err = measure(ctx, s.metrics, ExtractorScriptPlugins, tree, s.extractor.ScriptPlugins); err != nil {
		return nil, err
	}
	if report.IncludedBuilds, err = measure(ctx, s.metrics, ExtractorIncludedBuilds, tree, s.extractor.IncludedBuilds); err != nil {
		return nil, err
	}

	start := time.Now()
	block, err := s.extractor.DependencyBlock(tree)
	found := 0
	if block.Found() {
		found = 1
	}
	s.metrics.RecordExtraction(ctx, ExtractorDependencyBlock, found, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s extraction failed: %w", ExtractorDependencyBlock, err)
	}
	if block.Found() {
		report.DependencyBlock = &block
	}

	slogger.Debug(ctx, "Script extracted", slogger.Fields{
		"script":       report.Script,
		"dependencies":    len(report.Dependencies),
		"plugins":         len(report.Plugins),
		"repositories":    len(report.Repositories),
		"properties":      len(report.Properties),
		"subprojects":     len(report.Subprojects),
		"script_plugins":  len(report.ScriptPlugins),
		"included_builds": len(report.IncludedBuilds),
	})
	return report, nil
}

// ScanProject extracts the settings script under root, then the root build
// script and the build script of every included subproject, at most
// config.Concurrency at a time. Script plugins applied with apply from: are
// extracted next, and included builds, buildSrc first, are scanned the same
// way into ProjectReport.Builds. Build scripts that do not exist are skipped.
// A missing script plugin or any script that fails to load fails the whole
// scan. Paths leading outside root are ignored.
func (s *ExtractionService) ScanProject(ctx context.Context, root string) (*dto.ProjectReport, error) {
	ctx = logging.EnsureCorrelationID(ctx)
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to scan project: %s is not a directory", root)
	}

	scan := newProjectScan(s, root)
	report, err := scan.build(ctx, root)
	if err != nil {
		slogger.ErrorWithError(ctx, err, "Project scan failed", slogger.Field("project", root))
		return nil, err
	}
	report.Root = root

	slogger.WithComponent("extraction-service").LogPerformance(ctx, "scan_project", time.Since(start), slogger.Fields{
		"project":      root,
		"scripts":      len(report.Scripts),
		"skipped":      len(report.Skipped),
		"builds":       len(scan.builds) - 1,
		"dependencies": report.DependencyCount(),
	})
	return report, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
