package formatters_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/cmd/importcmd/formatters"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

func demoView(t *testing.T) formatters.View {
	t.Helper()

	g := projectgraph.New(projectgraph.ProjectData{
		SystemID:   "GRADLE",
		Name:       "demo",
		RootPath:   "/work/demo",
		ConfigPath: "/work/demo",
	})
	g.Add(g.Root(), projectgraph.LanguageData{LanguageLevel: "17", JDKName: "temurin-17"})

	app, err := g.AddModule(projectgraph.ModuleData{
		ID:         ":app",
		Name:       "app",
		Path:       ":app",
		ConfigPath: "/work/demo/app",
		Outputs: map[projectgraph.SourceKind]string{
			projectgraph.SourceKindSource: "/work/demo/app/build/classes/java/main",
			projectgraph.SourceKindTest:   "/work/demo/app/build/classes/java/test",
		},
	})
	require.NoError(t, err)
	core, err := g.AddModule(projectgraph.ModuleData{ID: ":core", Name: "core", Path: ":core", ConfigPath: "/work/demo/core"})
	require.NoError(t, err)

	root := projectgraph.NewContentRoot("/work/demo/app")
	require.NoError(t, root.Add(projectgraph.SourceKindSource, "/work/demo/app/src/main/java"))
	require.NoError(t, root.Add(projectgraph.SourceKindTest, "/work/demo/app/src/test/java"))
	require.NoError(t, root.Add(projectgraph.SourceKindExcluded, "/work/demo/app/build"))
	g.Add(app, root)

	_, err = g.LinkModuleDependency(app, projectgraph.ModuleDependencyData{Scope: buildmodel.ScopeCompile, Exported: true}, "core")
	require.NoError(t, err)

	guava := projectgraph.LibraryData{Name: "com.google.guava:guava:33.0", Binaries: []string{"/repo/guava-33.0.jar"}}
	for _, owner := range []projectgraph.Handle{app, core} {
		dep, err := g.BindLibrary(projectgraph.LibraryDependencyData{Library: guava, Scope: buildmodel.ScopeCompile})
		require.NoError(t, err)
		g.Add(owner, dep)
		if owner == app {
			g.Add(app, projectgraph.LibraryDependencyData{
				Library: projectgraph.LibraryData{Name: "org.acme:missing:1.0", Unresolved: true},
				Level:   projectgraph.LevelModule,
				Ref:     projectgraph.NoHandle,
				Scope:   buildmodel.ScopeRuntime,
			})
		}
	}

	g.Add(core, projectgraph.ClasspathData{Entries: []projectgraph.ClasspathEntry{{Classes: []string{"/repo/plugin.jar"}}}})
	g.Add(app, projectgraph.TaskData{Name: "build", ConfigPath: "/work/demo/app", Description: "Assembles and tests this project."})
	g.Add(g.Root(), projectgraph.TaskData{Name: "build", ConfigPath: "/work/demo", Description: "Assembles and tests this project."})
	g.Seal()

	return formatters.NewView(g, []resolver.Diagnostic{{
		Source:  "build-environment",
		Message: "build environment unavailable; JVM arguments not merged",
		Err:     errors.New("connection refused"),
	}})
}

func formatterGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithNameSuffix(".gold.txt"))
}

func TestTextFormatter(t *testing.T) {
	out, err := (&formatters.TextFormatter{}).Format(demoView(t))

	require.NoError(t, err)
	formatterGoldie(t).Assert(t, t.Name(), []byte(out))
}

func TestDOTFormatter(t *testing.T) {
	out, err := (&formatters.DOTFormatter{}).Format(demoView(t))

	require.NoError(t, err)
	formatterGoldie(t).Assert(t, t.Name(), []byte(out))
}

func TestMermaidFormatter(t *testing.T) {
	out, err := (&formatters.MermaidFormatter{}).Format(demoView(t))

	require.NoError(t, err)
	formatterGoldie(t).Assert(t, t.Name(), []byte(out))
}

func TestJSONFormatter(t *testing.T) {
	out, err := (&formatters.JSONFormatter{}).Format(demoView(t))
	require.NoError(t, err)

	var decoded struct {
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
		Modules []struct {
			ID                  string `json:"id"`
			Name                string `json:"name"`
			LibraryDependencies []struct {
				Level   string `json:"level"`
				Library struct {
					Name string `json:"name"`
				} `json:"library"`
			} `json:"libraryDependencies"`
		} `json:"modules"`
		Libraries   []projectgraph.LibraryData  `json:"libraries"`
		Diagnostics []formatters.DiagnosticView `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "demo", decoded.Project.Name)
	require.Len(t, decoded.Modules, 2)
	assert.Equal(t, ":app", decoded.Modules[0].ID)
	require.Len(t, decoded.Modules[0].LibraryDependencies, 2)
	assert.Equal(t, "project", decoded.Modules[0].LibraryDependencies[0].Level)
	assert.Equal(t, "module", decoded.Modules[0].LibraryDependencies[1].Level)
	assert.Equal(t, []string{"/repo/guava-33.0.jar"}, decoded.Libraries[0].Binaries)
	assert.Equal(t, "connection refused", decoded.Diagnostics[0].Error)
}

func TestNewView(t *testing.T) {
	v := demoView(t)

	require.NotNil(t, v.Language)
	assert.Equal(t, "17", v.Language.LanguageLevel)
	assert.False(t, v.ExternalProject)
	assert.Len(t, v.Tasks, 1)
	assert.Equal(t, "core", v.ModuleName(":core"))
	assert.Equal(t, ":gone", v.ModuleName(":gone"))
	require.NotNil(t, v.Modules[1].Classpath)
	assert.Nil(t, v.Modules[0].Classpath)
}

func TestNewView_GroupsModuleChildren(t *testing.T) {
	v := demoView(t)

	root := projectgraph.NewContentRoot("/work/demo/app")
	require.NoError(t, root.Add(projectgraph.SourceKindSource, "/work/demo/app/src/main/java"))
	require.NoError(t, root.Add(projectgraph.SourceKindTest, "/work/demo/app/src/test/java"))
	require.NoError(t, root.Add(projectgraph.SourceKindExcluded, "/work/demo/app/build"))

	want := formatters.ModuleView{
		ModuleData: projectgraph.ModuleData{
			ID:         ":app",
			Name:       "app",
			Path:       ":app",
			ConfigPath: "/work/demo/app",
			Outputs: map[projectgraph.SourceKind]string{
				projectgraph.SourceKindSource: "/work/demo/app/build/classes/java/main",
				projectgraph.SourceKindTest:   "/work/demo/app/build/classes/java/test",
			},
		},
		ContentRoots: []projectgraph.ContentRootData{root},
		ModuleDependencies: []projectgraph.ModuleDependencyData{
			{OwnerID: ":app", TargetID: ":core", Exported: true, Scope: buildmodel.ScopeCompile},
		},
		LibraryDependencies: []projectgraph.LibraryDependencyData{
			{
				Library: projectgraph.LibraryData{Name: "com.google.guava:guava:33.0", Binaries: []string{"/repo/guava-33.0.jar"}},
				Level:   projectgraph.LevelProject,
				Scope:   buildmodel.ScopeCompile,
			},
			{
				Library: projectgraph.LibraryData{Name: "org.acme:missing:1.0", Unresolved: true},
				Level:   projectgraph.LevelModule,
				Scope:   buildmodel.ScopeRuntime,
			},
		},
		Tasks: []projectgraph.TaskData{
			{Name: "build", ConfigPath: "/work/demo/app", Description: "Assembles and tests this project."},
		},
	}

	opts := []cmp.Option{
		cmpopts.IgnoreUnexported(projectgraph.ContentRootData{}),
		cmpopts.IgnoreFields(projectgraph.LibraryDependencyData{}, "Ref"),
	}
	if diff := cmp.Diff(want, v.Modules[0], opts...); diff != "" {
		t.Errorf("module view mismatch (-want +got):\n%s", diff)
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"text", "json", "dot", "mermaid"} {
		f, err := formatters.NewFormatter(format)
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := formatters.NewFormatter("svg")
	assert.EqualError(t, err, "unknown format: svg (valid options: text, json, dot, mermaid)")
}
