package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gradlemeta/internal/application/common/slogger"
	"gradlemeta/internal/application/dto"
	"gradlemeta/internal/domain/valueobject"
)

// buildSrcDir is the directory Gradle treats as an implicit included build.
const buildSrcDir = "buildSrc"

// projectScan walks one project and every build it includes. Report paths
// are relative to top, and nothing outside top is read.
type projectScan struct {
	service *ExtractionService
	top     string
	builds  map[string]bool
}

func newProjectScan(s *ExtractionService, top string) *projectScan {
	return &projectScan{
		service: s,
		top:     filepath.Clean(top),
		builds:  make(map[string]bool),
	}
}

// build scans the build rooted at dir.
func (p *projectScan) build(ctx context.Context, dir string) (*dto.ProjectReport, error) {
	dir = filepath.Clean(dir)
	p.builds[dir] = true

	report := &dto.ProjectReport{
		ID:        uuid.New().String(),
		Root:      p.relative(dir),
		ScannedAt: time.Now().UTC(),
	}

	settingsPath := filepath.Join(dir, p.service.config.SettingsFile)
	found, err := exists(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	if found {
		settings, err := p.service.ExtractScript(ctx, settingsPath)
		if err != nil {
			return nil, err
		}
		settings.Script = p.relative(settingsPath)
		report.Settings = settings
		report.Subprojects = settings.Subprojects
	} else {
		slogger.Info(ctx, "No settings script found, scanning root project only", slogger.Field("project", dir))
	}

	paths := p.buildScriptPaths(ctx, dir, report.Subprojects)
	scripts, err := p.extract(ctx, paths, false)
	if err != nil {
		return nil, err
	}
	report.Scripts = make([]*dto.ScriptReport, 0, len(scripts))
	for i, scriptReport := range scripts {
		if scriptReport == nil {
			report.Skipped = append(report.Skipped, p.relative(paths[i]))
			continue
		}
		report.Scripts = append(report.Scripts, scriptReport)
	}

	if err := p.applyScriptPlugins(ctx, report, paths); err != nil {
		return nil, err
	}
	if err := p.includeBuilds(ctx, dir, report); err != nil {
		return nil, err
	}
	return report, nil
}

// buildScriptPaths lists the root build script followed by the build script
// of each distinct subproject, in settings order.
func (p *projectScan) buildScriptPaths(ctx context.Context, dir string, subprojects []valueobject.SubprojectPath) []string {
	paths := []string{filepath.Join(dir, p.service.config.BuildFile)}
	seen := make(map[valueobject.SubprojectPath]bool, len(subprojects))
	for _, sub := range subprojects {
		if sub == "" || seen[sub] {
			continue
		}
		seen[sub] = true
		subdir, err := p.resolve(dir, sub.String())
		if err != nil {
			slogger.Warn(ctx, "Subproject outside the project root, skipping", slogger.Fields2(
				"subproject", sub.String(),
				"error", err.Error(),
			))
			continue
		}
		paths = append(paths, filepath.Join(subdir, p.service.config.BuildFile))
	}
	return paths
}

// extract loads paths at most config.Concurrency at a time. The result is
// aligned with paths; a path that does not exist leaves a nil entry, or fails
// the call when required is set.
func (p *projectScan) extract(ctx context.Context, paths []string, required bool) ([]*dto.ScriptReport, error) {
	scripts := make([]*dto.ScriptReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.service.config.Concurrency)
	for i, path := range paths {
		g.Go(func() error {
			found, err := exists(path)
			if err != nil {
				return err
			}
			if !found {
				if required {
					return fmt.Errorf("script plugin %s not found: %w", p.relative(path), fs.ErrNotExist)
				}
				slogger.Warn(gctx, "Build script not found, skipping", slogger.Field("script", path))
				return nil
			}
			scriptReport, err := p.service.ExtractScript(gctx, path)
			if err != nil {
				return err
			}
			scriptReport.Script = p.relative(path)
			scripts[i] = scriptReport
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scripts, nil
}

// applyScriptPlugins extracts the scripts applied with apply from: by the
// settings and build scripts of report, then the scripts those apply, until
// no new script turns up. Every script is extracted once.
func (p *projectScan) applyScriptPlugins(ctx context.Context, report *dto.ProjectReport, loaded []string) error {
	seen := make(map[string]bool, len(loaded)+1)
	for _, path := range loaded {
		seen[path] = true
	}
	sources := report.Scripts
	if report.Settings != nil {
		seen[p.absolute(report.Settings.Script)] = true
		sources = append([]*dto.ScriptReport{report.Settings}, sources...)
	}

	for pending := p.scriptPluginPaths(ctx, sources, seen); len(pending) > 0; {
		applied, err := p.extract(ctx, pending, true)
		if err != nil {
			return err
		}
		report.Scripts = append(report.Scripts, applied...)
		pending = p.scriptPluginPaths(ctx, applied, seen)
	}
	return nil
}

// scriptPluginPaths resolves the apply from: targets of scripts against the
// directory of the applying script. Remote targets are not fetched.
func (p *projectScan) scriptPluginPaths(ctx context.Context, scripts []*dto.ScriptReport, seen map[string]bool) []string {
	var paths []string
	for _, scriptReport := range scripts {
		base := filepath.Dir(p.absolute(scriptReport.Script))
		for _, target := range scriptReport.ScriptPlugins {
			if strings.Contains(target, "://") {
				slogger.Debug(ctx, "Remote script plugin not followed", slogger.Field("script_plugin", target))
				continue
			}
			path, err := p.resolve(base, target)
			if err != nil {
				slogger.Warn(ctx, "Script plugin outside the project root, skipping", slogger.Fields3(
					"script", scriptReport.Script,
					"script_plugin", target,
					"error", err.Error(),
				))
				continue
			}
			if seen[path] {
				continue
			}
			seen[path] = true
			paths = append(paths, path)
		}
	}
	return paths
}

// includeBuilds scans buildSrc, when present, and every includeBuild
// directory of the settings script into report.Builds.
func (p *projectScan) includeBuilds(ctx context.Context, dir string, report *dto.ProjectReport) error {
	var dirs []string
	if filepath.Base(dir) != buildSrcDir {
		buildSrc := filepath.Join(dir, buildSrcDir)
		if isDir(buildSrc) {
			dirs = append(dirs, buildSrc)
		}
	}
	if report.Settings != nil {
		for _, included := range report.Settings.IncludedBuilds {
			path, err := p.resolve(dir, included)
			if err != nil {
				slogger.Warn(ctx, "Included build outside the project root, skipping", slogger.Fields2(
					"included_build", included,
					"error", err.Error(),
				))
				continue
			}
			if !isDir(path) {
				slogger.Warn(ctx, "Included build not found, skipping", slogger.Field("included_build", path))
				report.Skipped = append(report.Skipped, p.relative(path))
				continue
			}
			dirs = append(dirs, path)
		}
	}

	for _, buildDir := range dirs {
		if p.builds[buildDir] {
			continue
		}
		build, err := p.build(ctx, buildDir)
		if err != nil {
			return err
		}
		report.Builds = append(report.Builds, build)
	}
	return nil
}

// resolve joins rel onto base and fails when the result, symlinks included,
// would leave the scanned root.
func (p *projectScan) resolve(base, rel string) (string, error) {
	joined := filepath.FromSlash(rel)
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(base, joined)
	}
	inside, err := filepath.Rel(p.top, joined)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s leads outside %s", rel, p.top)
	}
	return securejoin.SecureJoin(p.top, inside)
}

func (p *projectScan) relative(path string) string {
	rel, err := filepath.Rel(p.top, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (p *projectScan) absolute(rel string) string {
	return filepath.Join(p.top, filepath.FromSlash(rel))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
