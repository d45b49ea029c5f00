package dto

import (
	"bufio"
	"fmt"
	"io"
)

// WriteText renders the report line by line:
//
//	script build.gradle
//	dependency com.google.guava:guava:31.0-jre
//	plugin org.springframework.boot:2.0.5.RELEASE
//	repository https://repo.maven.apache.org/maven2/
//	property springVersion=5.3.0
//	subproject module-a/sub
//	applies gradle/publishing.gradle
//	included_build build-logic
//	dependency_block 5:14-7:1
func (r *ScriptReport) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	r.writeLines(bw)
	return bw.Flush()
}

func (r *ScriptReport) writeLines(w *bufio.Writer) {
	fmt.Fprintf(w, "script %s\n", r.Script)
	for _, d := range r.Dependencies {
		fmt.Fprintf(w, "dependency %s\n", d.Coordinates())
	}
	for _, p := range r.Plugins {
		fmt.Fprintf(w, "plugin %s\n", p.Coordinates())
	}
	for _, repo := range r.Repositories {
		fmt.Fprintf(w, "repository %s\n", repo.URL)
	}
	for _, p := range r.Properties {
		fmt.Fprintf(w, "property %s=%s\n", p.Name, p.Value)
	}
	for _, s := range r.Subprojects {
		fmt.Fprintf(w, "subproject %s\n", s)
	}
	for _, path := range r.ScriptPlugins {
		fmt.Fprintf(w, "applies %s\n", path)
	}
	for _, path := range r.IncludedBuilds {
		fmt.Fprintf(w, "included_build %s\n", path)
	}
	if b := r.DependencyBlock; b != nil && b.Found() {
		fmt.Fprintf(w, "dependency_block %d:%d-%d:%d\n", b.Line, b.BraceColumn, b.ClosingBraceLine, b.ClosingBraceColumn)
	}
}

// WriteText renders the settings report, every script report and the
// skipped build files, separated by blank lines. Included builds follow,
// each introduced by a build line.
func (r *ProjectReport) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	r.writeLines(bw, "project")
	return bw.Flush()
}

func (r *ProjectReport) writeLines(w *bufio.Writer, header string) {
	fmt.Fprintf(w, "%s %s\n", header, r.Root)
	if r.Settings != nil {
		w.WriteString("\n")
		r.Settings.writeLines(w)
	}
	for _, script := range r.Scripts {
		w.WriteString("\n")
		script.writeLines(w)
	}
	if len(r.Skipped) > 0 {
		w.WriteString("\n")
		for _, path := range r.Skipped {
			fmt.Fprintf(w, "skipped %s\n", path)
		}
	}
	for _, build := range r.Builds {
		w.WriteString("\n")
		build.writeLines(w, "build")
	}
}
