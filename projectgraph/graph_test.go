package projectgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph() *Graph {
	return New(ProjectData{SystemID: "GRADLE", Name: "demo", RootPath: "/work/demo", ConfigPath: "/work/demo"})
}

func mustModule(t *testing.T, g *Graph, name string) Handle {
	t.Helper()
	h, err := g.AddModule(ModuleData{ID: ":" + name, Name: name, ConfigPath: "/work/demo/" + name})
	require.NoError(t, err)
	return h
}

func TestNew_RootIsProject(t *testing.T) {
	g := newTestGraph()

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, KindProject, g.Node(g.Root()).Kind)
	assert.Equal(t, NoHandle, g.Node(g.Root()).Parent)
	assert.Equal(t, "demo", g.Project().Name)
}

func TestAdd_EnforcesPlacement(t *testing.T) {
	g := newTestGraph()
	module := mustModule(t, g, "app")

	g.Add(g.Root(), LanguageData{LanguageLevel: "17"})
	g.Add(module, NewContentRoot("/work/demo/app"))
	g.Add(module, TaskData{Name: "build"})
	g.Add(g.Root(), TaskData{Name: "wrapper"})

	assert.Panics(t, func() { g.Add(g.Root(), NewContentRoot("/x")) })
	assert.Panics(t, func() { g.Add(module, LanguageData{}) })
	assert.Panics(t, func() { g.Add(g.Root(), ModuleData{Name: "x"}) })
	assert.Panics(t, func() { g.Add(g.Root(), LibraryData{Name: "x"}) })

	root := g.Children(module, KindContentRoot)[0]
	assert.Panics(t, func() { g.Add(root, TaskData{Name: "nested"}) })
}

func TestChildren_FiltersByKindInOrder(t *testing.T) {
	g := newTestGraph()
	module := mustModule(t, g, "app")
	first := g.Add(module, TaskData{Name: "a"})
	g.Add(module, NewContentRoot("/r"))
	second := g.Add(module, TaskData{Name: "b"})

	assert.Equal(t, []Handle{first, second}, g.Children(module, KindTask))
	assert.Len(t, g.Children(module, 0), 3)
}

func TestDataOf(t *testing.T) {
	g := newTestGraph()
	module := mustModule(t, g, "app")

	data, ok := DataOf[ModuleData](g, module)
	require.True(t, ok)
	assert.Equal(t, "app", data.Name)

	_, ok = DataOf[TaskData](g, module)
	assert.False(t, ok)

	_, ok = DataOf[ModuleData](g, Handle(99))
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	g := newTestGraph()
	module := mustModule(t, g, "app")

	data, _ := DataOf[ModuleData](g, module)
	data.Group = "com.example"
	g.Update(module, data)

	updated, _ := DataOf[ModuleData](g, module)
	assert.Equal(t, "com.example", updated.Group)

	assert.Panics(t, func() { g.Update(module, TaskData{}) })

	data.Name = "renamed"
	assert.Panics(t, func() { g.Update(module, data) })
}

func TestSeal_RejectsMutation(t *testing.T) {
	g := newTestGraph()
	module := mustModule(t, g, "app")
	g.Seal()

	assert.True(t, g.Sealed())
	assert.Panics(t, func() { g.Add(module, TaskData{Name: "x"}) })
	assert.Panics(t, func() { _, _ = g.AddModule(ModuleData{Name: "other"}) })
	assert.Panics(t, func() { _, _ = g.RegisterLibrary(LibraryData{Name: "lib"}) })
}

func TestContentRoot_GraphCopyIsDetached(t *testing.T) {
	g := newTestGraph()
	module := mustModule(t, g, "app")
	root := NewContentRoot("/work/demo/app")
	require.NoError(t, root.Add(SourceKindSource, "/work/demo/app/src/main/java"))
	h := g.Add(module, root)

	require.NoError(t, root.Add(SourceKindTest, "/work/demo/app/src/test/java"))
	g.Seal()

	stored, ok := DataOf[ContentRootData](g, h)
	require.True(t, ok)
	require.NoError(t, stored.Add(SourceKindResource, "/work/demo/app/src/main/resources"))

	again, _ := DataOf[ContentRootData](g, h)
	assert.Equal(t, []string{"/work/demo/app/src/main/java"}, again.PathsOf(SourceKindSource))
	assert.Empty(t, again.PathsOf(SourceKindTest))
	assert.Empty(t, again.PathsOf(SourceKindResource))
}

func TestAddModule_RejectsDuplicateName(t *testing.T) {
	g := newTestGraph()
	mustModule(t, g, "app")

	_, err := g.AddModule(ModuleData{ID: ":other", Name: "app"})
	assert.ErrorIs(t, err, ErrDuplicateModule)
	assert.Len(t, g.Modules(), 1)
}

func TestModuleOf(t *testing.T) {
	g := newTestGraph()
	module := mustModule(t, g, "app")
	task := g.Add(module, TaskData{Name: "build"})
	rootTask := g.Add(g.Root(), TaskData{Name: "wrapper"})

	assert.Equal(t, module, g.ModuleOf(task))
	assert.Equal(t, module, g.ModuleOf(module))
	assert.Equal(t, NoHandle, g.ModuleOf(rootTask))
}

func TestLinkModuleDependency(t *testing.T) {
	g := newTestGraph()
	app := mustModule(t, g, "app")
	mustModule(t, g, "core")

	h, err := g.LinkModuleDependency(app, ModuleDependencyData{Exported: true}, "core")
	require.NoError(t, err)

	dep, ok := DataOf[ModuleDependencyData](g, h)
	require.True(t, ok)
	assert.Equal(t, ":app", dep.OwnerID)
	assert.Equal(t, ":core", dep.TargetID)
	assert.True(t, dep.Exported)

	dependents, err := g.ModuleDependents("core")
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, dependents)

	_, err = g.LinkModuleDependency(app, ModuleDependencyData{}, "core")
	require.NoError(t, err, "linking the same pair twice is allowed")
}

func TestLinkModuleDependency_UnknownTargetListsRegisteredModules(t *testing.T) {
	g := newTestGraph()
	app := mustModule(t, g, "app")
	mustModule(t, g, "core")

	_, err := g.LinkModuleDependency(app, ModuleDependencyData{}, "missing")

	require.ErrorIs(t, err, ErrUnknownModule)
	var unknown *UnknownModuleError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.Name)
	assert.Equal(t, []string{"app", "core"}, unknown.Registered)
	assert.Contains(t, err.Error(), "[app, core]")
}

func TestModuleDependencyCycles(t *testing.T) {
	g := newTestGraph()
	a := mustModule(t, g, "a")
	b := mustModule(t, g, "b")
	c := mustModule(t, g, "c")

	_, err := g.LinkModuleDependency(a, ModuleDependencyData{}, "b")
	require.NoError(t, err)
	_, err = g.LinkModuleDependency(b, ModuleDependencyData{}, "a")
	require.NoError(t, err)
	_, err = g.LinkModuleDependency(c, ModuleDependencyData{}, "a")
	require.NoError(t, err)

	cycles, err := g.ModuleDependencyCycles()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}}, cycles)
}
