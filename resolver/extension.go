// Package resolver defines the contract between the importer and the units
// that turn the build tool's object model into a project graph.
//
// A unit implements only the stages it cares about. Every stage interface
// receives the composed remainder of the chain as next; a unit that wants the
// default behavior calls next unchanged. The last unit of every chain is the
// base unit, which implements Terminal and never delegates.
package resolver

import (
	"context"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/failure"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

// BaseID is the identifier of the terminal unit.
const BaseID = "base"

// Unit is a chain member.
type Unit interface {
	ID() string
}

// Stage function types. The chain composes each stage into one of these.
type (
	CreateProjectFunc              func(rc *Context, model *buildmodel.Project) (projectgraph.ProjectData, error)
	CreateLanguageDataFunc         func(rc *Context, model *buildmodel.Project) (*projectgraph.LanguageData, error)
	PopulateProjectExtraModelsFunc func(rc *Context, model *buildmodel.Project, g *projectgraph.Graph) error
	CreateModuleFunc               func(rc *Context, module *buildmodel.Module, g *projectgraph.Graph) (projectgraph.Handle, error)
	PopulateModuleFunc             func(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error
	PopulateTasksFunc              func(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) ([]projectgraph.TaskData, error)
	FilterRootTasksFunc            func(rc *Context, tasks []projectgraph.TaskData) []projectgraph.TaskData
	UserFriendlyErrorFunc          func(err error, projectPath, buildFile string) *failure.ImportError
	EnhanceTaskProcessingFunc      func(run *TaskRun)
)

// ProjectCreator creates the root project node.
type ProjectCreator interface {
	CreateProject(rc *Context, model *buildmodel.Project, next CreateProjectFunc) (projectgraph.ProjectData, error)
}

// LanguageDataCreator creates language-level project data. A nil result means
// no language node.
type LanguageDataCreator interface {
	CreateLanguageData(rc *Context, model *buildmodel.Project, next CreateLanguageDataFunc) (*projectgraph.LanguageData, error)
}

// ProjectModelPopulator enriches the project node from build-wide models.
type ProjectModelPopulator interface {
	PopulateProjectExtraModels(rc *Context, model *buildmodel.Project, g *projectgraph.Graph, next PopulateProjectExtraModelsFunc) error
}

// ModuleCreator creates a module node.
type ModuleCreator interface {
	CreateModule(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, next CreateModuleFunc) (projectgraph.Handle, error)
}

// ModuleModelPopulator enriches a module from module-scoped extra models.
type ModuleModelPopulator interface {
	PopulateModuleExtraModels(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle, next PopulateModuleFunc) error
}

// ContentRootPopulator adds content roots to a module.
type ContentRootPopulator interface {
	PopulateContentRoots(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle, next PopulateModuleFunc) error
}

// CompileOutputPopulator sets a module's compile output paths.
type CompileOutputPopulator interface {
	PopulateCompileOutput(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle, next PopulateModuleFunc) error
}

// DependencyPopulator adds module and library dependencies.
type DependencyPopulator interface {
	PopulateDependencies(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle, next PopulateModuleFunc) error
}

// TaskPopulator adds a module's tasks and returns them.
type TaskPopulator interface {
	PopulateTasks(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle, next PopulateTasksFunc) ([]projectgraph.TaskData, error)
}

// RootTaskFilter picks the tasks promoted to the project's root task pool.
type RootTaskFilter interface {
	FilterRootTasks(rc *Context, tasks []projectgraph.TaskData, next FilterRootTasksFunc) []projectgraph.TaskData
}

// ErrorTranslator turns a fatal failure into a user-facing error.
type ErrorTranslator interface {
	UserFriendlyError(err error, projectPath, buildFile string, next UserFriendlyErrorFunc) *failure.ImportError
}

// TaskProcessingEnhancer contributes to a task run being prepared.
type TaskProcessingEnhancer interface {
	EnhanceTaskProcessing(run *TaskRun, next EnhanceTaskProcessingFunc)
}

// ModelRequester asks for extra models in the fetch request.
type ModelRequester interface {
	ExtraModelKinds() []buildmodel.ModelKind
}

// ToolingExtender contributes jars loaded by the generated init script.
type ToolingExtender interface {
	ExtensionFiles() []string
}

// ProcessArgumenter contributes JVM arguments for the build tool process.
type ProcessArgumenter interface {
	ExtraJVMArguments() []string
}

// CommandLineArgumenter contributes build tool command-line arguments.
type CommandLineArgumenter interface {
	ExtraArguments() []string
}

// PreImportChecker validates the environment before the build tool is
// contacted.
type PreImportChecker interface {
	PreImportCheck(ctx context.Context, projectPath string, s *settings.Settings) error
}

// Terminal is the default behavior of every chained stage. Only the base unit
// implements it.
type Terminal interface {
	Unit
	CreateProject(rc *Context, model *buildmodel.Project) (projectgraph.ProjectData, error)
	CreateLanguageData(rc *Context, model *buildmodel.Project) (*projectgraph.LanguageData, error)
	PopulateProjectExtraModels(rc *Context, model *buildmodel.Project, g *projectgraph.Graph) error
	CreateModule(rc *Context, module *buildmodel.Module, g *projectgraph.Graph) (projectgraph.Handle, error)
	PopulateModuleExtraModels(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error
	PopulateContentRoots(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error
	PopulateCompileOutput(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error
	PopulateDependencies(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error
	PopulateTasks(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) ([]projectgraph.TaskData, error)
	FilterRootTasks(rc *Context, tasks []projectgraph.TaskData) []projectgraph.TaskData
	UserFriendlyError(err error, projectPath, buildFile string) *failure.ImportError
	EnhanceTaskProcessing(run *TaskRun)
}

// TaskRun collects what units contribute when a task run, not an import, is
// prepared.
type TaskRun struct {
	TaskNames    []string
	Debugger     bool
	JVMArguments []string
	Arguments    []string
	InitScripts  []string
}
