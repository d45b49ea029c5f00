package extraction_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradlemeta/internal/adapter/outbound/groovy"
	"gradlemeta/internal/domain/errors/domain"
	"gradlemeta/internal/domain/script"
	"gradlemeta/internal/domain/service/extraction"
	"gradlemeta/internal/domain/valueobject"
)

func load(t *testing.T, src string) *script.Tree {
	t.Helper()
	tree, err := groovy.NewLoader(0).LoadString(context.Background(), "build.gradle", src)
	require.NoError(t, err)
	return tree
}

func TestExtractor_Dependencies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []valueobject.Dependency
	}{
		{
			name: "shorthand",
			body: "implementation 'com.google.guava:guava:31.0-jre'",
			want: []valueobject.Dependency{{Group: "com.google.guava", Name: "guava", Version: "31.0-jre"}},
		},
		{
			name: "two segments",
			body: "implementation 'com.google.guava:guava'",
		},
		{
			name: "classifier segment",
			body: "implementation 'com.google.guava:guava:31.0:jdk8'",
		},
		{
			name: "empty group",
			body: "implementation ':guava:31.0'",
		},
		{
			name: "interpolated version",
			body: `implementation "org.jetbrains.kotlin:kotlin-stdlib:$kotlinVersion"`,
			want: []valueobject.Dependency{{Group: "org.jetbrains.kotlin", Name: "kotlin-stdlib", Version: "$kotlinVersion"}},
		},
		{
			name: "parenthesised",
			body: "implementation('org.slf4j:slf4j-api:1.7.36')",
			want: []valueobject.Dependency{{Group: "org.slf4j", Name: "slf4j-api", Version: "1.7.36"}},
		},
		{
			name: "configuration closure",
			body: "implementation('org.slf4j:slf4j-api:1.7.36') {\n        exclude group: 'org.slf4j', module: 'slf4j-simple'\n    }",
			want: []valueobject.Dependency{{Group: "org.slf4j", Name: "slf4j-api", Version: "1.7.36"}},
		},
		{
			name: "two positional strings",
			body: "implementation 'a:b:c', 'd:e:f'",
		},
		{
			name: "map",
			body: "testImplementation group: 'junit', name: 'junit', version: '4.13'",
			want: []valueobject.Dependency{{Group: "junit", Name: "junit", Version: "4.13"}},
		},
		{
			name: "map without group",
			body: "runtimeOnly name: 'lib'",
			want: []valueobject.Dependency{{Name: "lib"}},
		},
		{
			name: "map without name",
			body: "compile version: '1.0'",
		},
		{
			name: "map with closure",
			body: "implementation(group: 'g', name: 'n', version: 'v') { transitive = false }",
			want: []valueobject.Dependency{{Group: "g", Name: "n", Version: "v"}},
		},
		{
			name: "project dependency",
			body: "implementation project(':core')",
		},
	}

	x := extraction.NewExtractor(0, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := load(t, fmt.Sprintf("dependencies {\n    %s\n}\n", tt.body))
			got, err := x.Dependencies(tree)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractor_DependenciesAreScopeAgnostic(t *testing.T) {
	tree := load(t, `buildscript {
    classpath 'com.android.tools.build:gradle:7.0.0'
}
def libs = [name: 'guava']
`)
	got, err := extraction.NewExtractor(0, "").Dependencies(tree)
	require.NoError(t, err)
	assert.Equal(t, []valueobject.Dependency{
		{Group: "com.android.tools.build", Name: "gradle", Version: "7.0.0"},
		{Name: "guava"},
	}, got)
}

func TestExtractor_Repositories(t *testing.T) {
	tree := load(t, `buildscript {
    repositories {
        gradlePluginPortal()
    }
}
repositories {
    mavenCentral()
    google()
    jcenter()
    maven { url 'https://repo.example.com/releases' }
    maven {
        url = uri("https://plugins.example.com/m2/")
    }
    maven { url("https://third.example.com") }
    maven { mavenCentral() }
}
maven { url 'https://outside.example.com' }
mavenCentral()
`)
	got, err := extraction.NewExtractor(0, "").Repositories(tree)
	require.NoError(t, err)
	assert.Equal(t, []valueobject.Repository{
		{URL: valueobject.MavenCentralURL},
		{URL: valueobject.GoogleURL},
		{URL: valueobject.JCenterURL},
		{URL: "https://repo.example.com/releases"},
		{URL: "https://plugins.example.com/m2/"},
		{URL: "https://third.example.com"},
		{URL: valueobject.MavenCentralURL},
	}, got)
}

func TestExtractor_RepositoriesOutsideBlockAreIgnored(t *testing.T) {
	tree := load(t, `allprojects {
    maven { url 'https://repo.example.com' }
    google()
}
`)
	got, err := extraction.NewExtractor(0, "").Repositories(tree)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractor_Properties(t *testing.T) {
	tree := load(t, `ext {
    springVersion = '5.3.0'
    foo = "1.0"
}
ext.bar = "2.0"
ext.nested.value = 'x'
ext.url = "http://$host/repo"
version = '1.0'
allprojects {
    ext.shared = true
}
`)
	got, err := extraction.NewExtractor(0, "").Properties(tree)
	require.NoError(t, err)
	assert.Equal(t, []valueobject.Property{
		{Name: "springVersion", Value: "5.3.0"},
		{Name: "foo", Value: "1.0"},
		{Name: "bar", Value: "2.0"},
		{Name: "nested.value", Value: "x"},
		{Name: "url", Value: "http://$host/repo"},
		{Name: "shared", Value: "true"},
	}, got)
}

func TestExtractor_PropertyValuesAreUnevaluated(t *testing.T) {
	tree := load(t, `ext {
    combined = springVersion + '-SNAPSHOT'
    libs = [guava: 'g:n:v']
}
`)
	got, err := extraction.NewExtractor(0, "").Properties(tree)
	require.NoError(t, err)
	assert.Equal(t, []valueobject.Property{
		{Name: "combined", Value: "springVersion + '-SNAPSHOT'"},
		{Name: "libs", Value: "[guava: 'g:n:v']"},
	}, got)
}

func TestExtractor_Subprojects(t *testing.T) {
	tree := load(t, `rootProject.name = 'demo'
include ':module-a', ':module-b:sub'
include(':tools')
include ':module-a'
`)
	got, err := extraction.NewExtractor(0, "").Subprojects(tree)
	require.NoError(t, err)
	assert.Equal(t, []valueobject.SubprojectPath{"module-a", "module-b/sub", "tools", "module-a"}, got)

	windows, err := extraction.NewExtractor(0, `\`).Subprojects(tree)
	require.NoError(t, err)
	assert.Equal(t, valueobject.SubprojectPath(`module-b\sub`), windows[1])
}

func TestExtractor_Plugins(t *testing.T) {
	tree := load(t, `plugins {
    id 'java'
    id 'org.springframework.boot' version '2.0.5.RELEASE'
    id("io.spring.dependency-management") version("1.0.6.RELEASE")
    id "org.jetbrains.kotlin.jvm" version "$kotlinVersion" apply false
}
id 'outside' version '1.0'
`)
	got, err := extraction.NewExtractor(0, "").Plugins(tree)
	require.NoError(t, err)
	assert.Equal(t, []valueobject.Plugin{
		{ID: "org.springframework.boot", Version: "2.0.5.RELEASE"},
		{ID: "io.spring.dependency-management", Version: "1.0.6.RELEASE"},
		{ID: "org.jetbrains.kotlin.jvm", Version: "$kotlinVersion"},
	}, got)
}

func TestExtractor_PluginsInSettings(t *testing.T) {
	tree := load(t, `pluginManagement {
    plugins {
        id 'com.gradle.enterprise' version '3.16'
    }
}
`)
	got, err := extraction.NewExtractor(0, "").Plugins(tree)
	require.NoError(t, err)
	assert.Equal(t, []valueobject.Plugin{{ID: "com.gradle.enterprise", Version: "3.16"}}, got)
}

func TestExtractor_ScriptPlugins(t *testing.T) {
	tree := load(t, `apply plugin: 'java'
apply from: 'gradle/dependencies.gradle'
apply(from: "gradle/publishing.gradle")
apply from: file('gradle/quality.gradle')
apply from: "$rootDir/gradle/computed.gradle"
subprojects {
    apply from: '../shared.gradle'
}
`)
	got, err := extraction.NewExtractor(0, "").ScriptPlugins(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"gradle/dependencies.gradle",
		"gradle/publishing.gradle",
		"gradle/quality.gradle",
		"../shared.gradle",
	}, got)
}

func TestExtractor_IncludedBuilds(t *testing.T) {
	tree := load(t, `rootProject.name = 'demo'
include ':app'
includeBuild 'included'
includeBuild('plugins/conventions')
includeBuild('substituted') {
    dependencySubstitution {
        substitute module('org.sample:number-utils') using project(':')
    }
}
`)
	got, err := extraction.NewExtractor(0, "").IncludedBuilds(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"included", "plugins/conventions", "substituted"}, got)
}

func TestExtractor_DependencyBlock(t *testing.T) {
	t.Run("block with trailing closure", func(t *testing.T) {
		tree := load(t, `plugins {
    id 'java'
}

dependencies {
    implementation 'a:b:c'
}

dependencies {
}
`)
		got, err := extraction.NewExtractor(0, "").DependencyBlock(tree)
		require.NoError(t, err)
		assert.Equal(t, valueobject.DependencyBlock{
			Line:               5,
			BraceColumn:        14,
			ClosingBraceLine:   7,
			ClosingBraceColumn: 1,
		}, got)
	})

	t.Run("nested block", func(t *testing.T) {
		tree := load(t, "subprojects {\n    dependencies { implementation 'a:b:c' }\n}\n")
		got, err := extraction.NewExtractor(0, "").DependencyBlock(tree)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Line)
		assert.Equal(t, 43, got.BraceColumn)
		assert.Equal(t, 2, got.ClosingBraceLine)
		assert.Equal(t, 43, got.ClosingBraceColumn)
	})

	t.Run("no dependencies call", func(t *testing.T) {
		tree := load(t, "apply plugin: 'java'\n")
		got, err := extraction.NewExtractor(0, "").DependencyBlock(tree)
		require.NoError(t, err)
		assert.False(t, got.Found())
		assert.Equal(t, valueobject.MissingDependencyBlock(), got)
	})
}

const fullScript = `plugins {
    id 'java'
}
repositories {
    mavenCentral()
    maven { url 'https://repo.example.com' }
}
ext {
    guavaVersion = '31.0-jre'
}
dependencies {
    implementation "com.google.guava:guava:$guavaVersion"
    testImplementation group: 'junit', name: 'junit', version: '4.13'
}
`

func TestExtractor_Idempotent(t *testing.T) {
	tree := load(t, fullScript)
	x := extraction.NewExtractor(0, "")

	type result struct {
		deps  []valueobject.Dependency
		repos []valueobject.Repository
		props []valueobject.Property
		block valueobject.DependencyBlock
	}
	run := func() result {
		var r result
		var err error
		r.deps, err = x.Dependencies(tree)
		require.NoError(t, err)
		r.repos, err = x.Repositories(tree)
		require.NoError(t, err)
		r.props, err = x.Properties(tree)
		require.NoError(t, err)
		r.block, err = x.DependencyBlock(tree)
		require.NoError(t, err)
		return r
	}

	first := run()
	assert.Len(t, first.deps, 2)
	assert.Len(t, first.repos, 2)
	assert.Len(t, first.props, 1)
	assert.Equal(t, first, run())
}

func TestExtractor_ConcurrentUse(t *testing.T) {
	tree := load(t, fullScript)
	x := extraction.NewExtractor(0, "")
	want, err := x.Dependencies(tree)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]valueobject.Dependency, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = x.Dependencies(tree)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestExtractor_DepthExceeded(t *testing.T) {
	tree := load(t, "a { b { c { d { } } } }\n")
	x := extraction.NewExtractor(5, "")

	_, err := x.Dependencies(tree)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTraversalDepthExceeded))

	_, err = x.Repositories(tree)
	assert.True(t, errors.Is(err, domain.ErrTraversalDepthExceeded))

	block, err := x.DependencyBlock(tree)
	assert.True(t, errors.Is(err, domain.ErrTraversalDepthExceeded))
	assert.False(t, block.Found())
}
