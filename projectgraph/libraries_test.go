package projectgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRoot_PathLivesInOneBucket(t *testing.T) {
	root := NewContentRoot("/work/app")

	require.NoError(t, root.Add(SourceKindSource, "/work/app/src/main/java"))
	require.NoError(t, root.Add(SourceKindSource, "/work/app/src/main/java"))
	err := root.Add(SourceKindTest, "/work/app/src/main/java")

	assert.ErrorIs(t, err, ErrPathAlreadyBucketed)
	assert.Equal(t, []string{"/work/app/src/main/java"}, root.PathsOf(SourceKindSource))
	assert.Empty(t, root.PathsOf(SourceKindTest))

	kind, ok := root.KindOf("/work/app/src/main/java")
	require.True(t, ok)
	assert.Equal(t, SourceKindSource, kind)
}

func TestContentRoot_ZeroValueIsUsable(t *testing.T) {
	root := ContentRootData{Root: "/r"}

	require.NoError(t, root.Add(SourceKindExcluded, "/r/build"))
	assert.Equal(t, []string{"/r/build"}, root.PathsOf(SourceKindExcluded))
}

func TestRegisterLibrary(t *testing.T) {
	g := newTestGraph()
	lib := LibraryData{Name: "junit:junit:4.13", Binaries: []string{"/cache/junit.jar"}}

	first, err := g.RegisterLibrary(lib)
	require.NoError(t, err)

	again, err := g.RegisterLibrary(lib)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	conflicting := lib
	conflicting.Binaries = []string{"/elsewhere/junit.jar"}
	existing, err := g.RegisterLibrary(conflicting)
	assert.ErrorIs(t, err, ErrLibraryConflict)
	assert.Equal(t, first, existing)

	found, ok := g.FindLibrary("junit:junit:4.13")
	require.True(t, ok)
	assert.Equal(t, first, found)
}

func TestLibraries_SortedByName(t *testing.T) {
	g := newTestGraph()
	b, _ := g.RegisterLibrary(LibraryData{Name: "b"})
	a, _ := g.RegisterLibrary(LibraryData{Name: "a"})

	assert.Equal(t, []Handle{a, b}, g.Libraries())
}

func TestUpdateLibrary_RefreshesReferencingDependencies(t *testing.T) {
	g := newTestGraph()
	module := mustModule(t, g, "app")
	lib := LibraryData{Name: "gradle-api", Binaries: []string{"/dist/lib/gradle-api.jar"}}
	ref, err := g.RegisterLibrary(lib)
	require.NoError(t, err)
	dep := g.Add(module, LibraryDependencyData{Library: lib, Level: LevelProject, Ref: ref})

	lib.Sources = []string{"/dist/src/api"}
	g.UpdateLibrary(ref, lib)

	data, _ := DataOf[LibraryDependencyData](g, dep)
	assert.Equal(t, []string{"/dist/src/api"}, data.Library.Sources)
}

func TestCopyModule(t *testing.T) {
	aux := New(ProjectData{Name: "buildSrc"})
	module, err := aux.AddModule(ModuleData{ID: ":buildSrc", Name: "buildSrc"})
	require.NoError(t, err)
	_, err = aux.AddModule(ModuleData{ID: ":other", Name: "other"})
	require.NoError(t, err)

	root := NewContentRoot("/work/demo/buildSrc")
	require.NoError(t, root.Add(SourceKindSource, "/work/demo/buildSrc/src/main/groovy"))
	aux.Add(module, root)

	shared := LibraryData{Name: "guava", Binaries: []string{"/cache/guava-31.jar"}}
	ref, err := aux.RegisterLibrary(shared)
	require.NoError(t, err)
	aux.Add(module, LibraryDependencyData{Library: shared, Level: LevelProject, Ref: ref})

	clashing := LibraryData{Name: "commons", Binaries: []string{"/cache/commons-2.jar"}}
	clashRef, err := aux.RegisterLibrary(clashing)
	require.NoError(t, err)
	aux.Add(module, LibraryDependencyData{Library: clashing, Level: LevelProject, Ref: clashRef})

	_, err = aux.LinkModuleDependency(module, ModuleDependencyData{}, "other")
	require.NoError(t, err)

	target := newTestGraph()
	_, err = target.RegisterLibrary(LibraryData{Name: "commons", Binaries: []string{"/cache/commons-1.jar"}})
	require.NoError(t, err)

	copied, err := target.CopyModule(aux, module)
	require.NoError(t, err)

	data, _ := DataOf[ModuleData](target, copied)
	assert.Equal(t, "buildSrc", data.Name)
	assert.Empty(t, target.Children(copied, KindModuleDependency), "dependency on a module absent from the target graph is dropped")

	roots := target.Children(copied, KindContentRoot)
	require.Len(t, roots, 1)
	copiedRoot, _ := DataOf[ContentRootData](target, roots[0])
	assert.Equal(t, []string{"/work/demo/buildSrc/src/main/groovy"}, copiedRoot.PathsOf(SourceKindSource))

	deps := target.Children(copied, KindLibraryDependency)
	require.Len(t, deps, 2)

	guava, _ := DataOf[LibraryDependencyData](target, deps[0])
	assert.Equal(t, LevelProject, guava.Level)
	pooled, ok := target.FindLibrary("guava")
	require.True(t, ok)
	assert.Equal(t, pooled, guava.Ref)

	commons, _ := DataOf[LibraryDependencyData](target, deps[1])
	assert.Equal(t, LevelModule, commons.Level)
	assert.Equal(t, NoHandle, commons.Ref)
	assert.Equal(t, []string{"/cache/commons-2.jar"}, commons.Library.Binaries)
}

func TestCopyModule_RejectsDuplicate(t *testing.T) {
	aux := New(ProjectData{Name: "buildSrc"})
	module, err := aux.AddModule(ModuleData{ID: ":app", Name: "app"})
	require.NoError(t, err)

	target := newTestGraph()
	mustModule(t, target, "app")

	_, err = target.CopyModule(aux, module)
	assert.ErrorIs(t, err, ErrDuplicateModule)
}

func TestBindLibraryDependencies_BindsAndDowngrades(t *testing.T) {
	g := newTestGraph()
	app := mustModule(t, g, "app")
	lib := mustModule(t, g, "lib")
	guava := LibraryData{Name: "guava", Binaries: []string{"/cache/guava.jar"}}
	forked := LibraryData{Name: "guava", Binaries: []string{"/fork/guava.jar"}}

	first := g.Add(app, LibraryDependencyData{OwnerID: ":app", Library: guava, Level: LevelProject, Ref: NoHandle})
	second := g.Add(lib, LibraryDependencyData{OwnerID: ":lib", Library: forked, Level: LevelProject, Ref: NoHandle})
	local := g.Add(lib, LibraryDependencyData{OwnerID: ":lib", Library: LibraryData{Name: "local"}, Level: LevelModule, Ref: NoHandle})

	downgraded := g.BindLibraryDependencies()

	assert.Equal(t, []string{"guava"}, downgraded)
	require.Len(t, g.Libraries(), 1)
	firstData, _ := DataOf[LibraryDependencyData](g, first)
	assert.Equal(t, g.Libraries()[0], firstData.Ref)
	secondData, _ := DataOf[LibraryDependencyData](g, second)
	assert.Equal(t, LevelModule, secondData.Level)
	assert.Equal(t, NoHandle, secondData.Ref)
	localData, _ := DataOf[LibraryDependencyData](g, local)
	assert.Equal(t, NoHandle, localData.Ref)

	assert.Empty(t, g.BindLibraryDependencies())
}
