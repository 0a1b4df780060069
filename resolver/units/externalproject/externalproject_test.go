package externalproject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

func newGraph() *projectgraph.Graph {
	return projectgraph.New(projectgraph.ProjectData{Name: "demo", RootPath: "/work/demo", ConfigPath: "/work/demo"})
}

func TestPopulateProjectExtraModels_AttachesExternalProject(t *testing.T) {
	models := buildmodel.NewModelSet()
	models.Put(buildmodel.KindExternalProject, &buildmodel.ExternalProject{Name: "demo", QName: ":", Path: ":"})
	rc := resolver.NewContext(resolver.ContextOptions{ProjectPath: "/work/demo"})
	rc.AttachModels(models)
	g := newGraph()
	nextCalled := false

	err := (&Unit{}).PopulateProjectExtraModels(rc, &buildmodel.Project{}, g, func(*resolver.Context, *buildmodel.Project, *projectgraph.Graph) error {
		nextCalled = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, nextCalled)
	children := g.Children(g.Root(), projectgraph.KindExternalProject)
	require.Len(t, children, 1)
	data, ok := projectgraph.DataOf[projectgraph.ExternalProjectData](g, children[0])
	require.True(t, ok)
	assert.Equal(t, "demo", data.Project.Name)
}

func TestPopulateProjectExtraModels_MissingModelStillDelegates(t *testing.T) {
	rc := resolver.NewContext(resolver.ContextOptions{ProjectPath: "/work/demo"})
	rc.AttachModels(buildmodel.NewModelSet())
	g := newGraph()
	nextCalled := false

	err := (&Unit{}).PopulateProjectExtraModels(rc, &buildmodel.Project{}, g, func(*resolver.Context, *buildmodel.Project, *projectgraph.Graph) error {
		nextCalled = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, nextCalled)
	assert.Empty(t, g.Children(g.Root(), projectgraph.KindExternalProject))
}

func TestExtraModelKinds(t *testing.T) {
	assert.Equal(t, []buildmodel.ModelKind{buildmodel.KindExternalProject}, (&Unit{}).ExtraModelKinds())
}
