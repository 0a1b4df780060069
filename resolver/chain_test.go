package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/failure"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

// terminalStub records the stages that reached the end of the chain.
type terminalStub struct {
	calls []string
}

func (*terminalStub) ID() string { return BaseID }

func (s *terminalStub) CreateProject(_ *Context, model *buildmodel.Project) (projectgraph.ProjectData, error) {
	s.calls = append(s.calls, "project")
	return projectgraph.ProjectData{Name: model.Name}, nil
}

func (s *terminalStub) CreateLanguageData(*Context, *buildmodel.Project) (*projectgraph.LanguageData, error) {
	s.calls = append(s.calls, "language")
	return nil, nil
}

func (s *terminalStub) PopulateProjectExtraModels(*Context, *buildmodel.Project, *projectgraph.Graph) error {
	return nil
}

func (s *terminalStub) CreateModule(*Context, *buildmodel.Module, *projectgraph.Graph) (projectgraph.Handle, error) {
	return projectgraph.NoHandle, nil
}

func (s *terminalStub) PopulateModuleExtraModels(*Context, *buildmodel.Module, *projectgraph.Graph, projectgraph.Handle) error {
	return nil
}

func (s *terminalStub) PopulateContentRoots(*Context, *buildmodel.Module, *projectgraph.Graph, projectgraph.Handle) error {
	return nil
}

func (s *terminalStub) PopulateCompileOutput(*Context, *buildmodel.Module, *projectgraph.Graph, projectgraph.Handle) error {
	return nil
}

func (s *terminalStub) PopulateDependencies(*Context, *buildmodel.Module, *projectgraph.Graph, projectgraph.Handle) error {
	return nil
}

func (s *terminalStub) PopulateTasks(*Context, *buildmodel.Module, *projectgraph.Graph, projectgraph.Handle) ([]projectgraph.TaskData, error) {
	return nil, nil
}

func (s *terminalStub) FilterRootTasks(_ *Context, tasks []projectgraph.TaskData) []projectgraph.TaskData {
	return tasks
}

func (s *terminalStub) UserFriendlyError(err error, _, _ string) *failure.ImportError {
	return failure.New(err.Error(), err)
}

func (s *terminalStub) EnhanceTaskProcessing(run *TaskRun) {
	run.Arguments = append(run.Arguments, "terminal")
}

// renamer prefixes the project name and records its position in the chain.
type renamer struct {
	id    string
	order *[]string
}

func (r *renamer) ID() string { return r.id }

func (r *renamer) CreateProject(rc *Context, model *buildmodel.Project, next CreateProjectFunc) (projectgraph.ProjectData, error) {
	*r.order = append(*r.order, r.id)
	data, err := next(rc, model)
	data.Name = r.id + "/" + data.Name
	return data, err
}

func (r *renamer) EnhanceTaskProcessing(run *TaskRun, next EnhanceTaskProcessingFunc) {
	run.Arguments = append(run.Arguments, r.id)
	next(run)
}

func (r *renamer) ExtraModelKinds() []buildmodel.ModelKind {
	return []buildmodel.ModelKind{buildmodel.KindExternalProject, buildmodel.KindProjectDirectories}
}

func (r *renamer) ExtraJVMArguments() []string { return []string{"-D" + r.id} }

// shortCircuit answers error translation without consulting the rest of the chain.
type shortCircuit struct{}

func (shortCircuit) ID() string { return "short" }

func (shortCircuit) UserFriendlyError(err error, _, _ string, _ UserFriendlyErrorFunc) *failure.ImportError {
	return failure.Newf("short: %v", err)
}

type failingCheck struct{}

func (failingCheck) ID() string { return "check" }

func (failingCheck) PreImportCheck(context.Context, string, *settings.Settings) error {
	return errors.New("no JDK configured")
}

func newRC() *Context {
	return NewContext(ContextOptions{ProjectPath: "/work/demo"})
}

func TestNewChain_ComposesInOrder(t *testing.T) {
	var order []string
	terminal := &terminalStub{}
	chain, err := NewChain([]Unit{&renamer{id: "a", order: &order}, &renamer{id: "b", order: &order}, terminal})
	require.NoError(t, err)

	data, err := chain.CreateProject(newRC(), &buildmodel.Project{Name: "demo"})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, "a/b/demo", data.Name)
	assert.Equal(t, []string{"project"}, terminal.calls)
}

func TestNewChain_UnimplementedStagesFallThrough(t *testing.T) {
	var order []string
	terminal := &terminalStub{}
	chain, err := NewChain([]Unit{&renamer{id: "a", order: &order}, terminal})
	require.NoError(t, err)

	_, err = chain.CreateLanguageData(newRC(), &buildmodel.Project{})

	require.NoError(t, err)
	assert.Equal(t, []string{"language"}, terminal.calls)
	assert.Empty(t, order)
}

func TestNewChain_UnitMayShortCircuit(t *testing.T) {
	chain, err := NewChain([]Unit{shortCircuit{}, &terminalStub{}})
	require.NoError(t, err)

	translated := chain.UserFriendlyError(errors.New("boom"), "/work/demo", "")

	assert.Equal(t, "short: boom", translated.Message)
}

func TestNewChain_Validation(t *testing.T) {
	var order []string

	_, err := NewChain(nil)
	assert.ErrorIs(t, err, ErrEmptyChain)

	_, err = NewChain([]Unit{&terminalStub{}, &renamer{id: "a", order: &order}})
	assert.ErrorIs(t, err, ErrTerminalNotLast)

	_, err = NewChain([]Unit{&renamer{id: "a", order: &order}, &renamer{id: "a", order: &order}, &terminalStub{}})
	assert.Error(t, err)
}

func TestChain_Next(t *testing.T) {
	var order []string
	a := &renamer{id: "a", order: &order}
	terminal := &terminalStub{}
	chain, err := NewChain([]Unit{a, terminal})
	require.NoError(t, err)

	assert.Equal(t, Unit(terminal), chain.Next(a))
	assert.Nil(t, chain.Next(terminal))
	assert.Equal(t, []string{"a", "base"}, chain.IDs())
}

func TestChain_GathersCrossCuttingContributions(t *testing.T) {
	var order []string
	chain, err := NewChain([]Unit{&renamer{id: "a", order: &order}, &renamer{id: "b", order: &order}, &terminalStub{}})
	require.NoError(t, err)

	assert.Equal(t, []buildmodel.ModelKind{buildmodel.KindExternalProject, buildmodel.KindProjectDirectories}, chain.ModelKinds())
	assert.Equal(t, []string{"-Da", "-Db"}, chain.JVMArguments())
	assert.Empty(t, chain.Arguments())
	assert.Empty(t, chain.ExtensionFiles())

	run := &TaskRun{}
	chain.EnhanceTaskProcessing(run)
	assert.Equal(t, []string{"a", "b", "terminal"}, run.Arguments)
}

func TestChain_PreImportCheckJoinsFailures(t *testing.T) {
	chain, err := NewChain([]Unit{failingCheck{}, &terminalStub{}})
	require.NoError(t, err)

	err = chain.PreImportCheck(t.Context(), "/work/demo", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "check: no JDK configured")
}
