package resolver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/failure"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

var (
	ErrEmptyChain      = errors.New("resolver chain has no units")
	ErrTerminalNotLast = errors.New("the base unit must be the last unit of the chain")
)

// Chain is an immutable, ordered list of units with every stage composed once
// at construction.
type Chain struct {
	units []Unit

	createProject              CreateProjectFunc
	createLanguageData         CreateLanguageDataFunc
	populateProjectExtraModels PopulateProjectExtraModelsFunc
	createModule               CreateModuleFunc
	populateModuleExtraModels  PopulateModuleFunc
	populateContentRoots       PopulateModuleFunc
	populateCompileOutput      PopulateModuleFunc
	populateDependencies       PopulateModuleFunc
	populateTasks              PopulateTasksFunc
	filterRootTasks            FilterRootTasksFunc
	userFriendlyError          UserFriendlyErrorFunc
	enhanceTaskProcessing      EnhanceTaskProcessingFunc
}

// NewChain validates the unit order and composes every stage. The last unit
// must be the base unit; no other unit may implement Terminal.
func NewChain(units []Unit) (*Chain, error) {
	if len(units) == 0 {
		return nil, ErrEmptyChain
	}

	last := units[len(units)-1]
	terminal, ok := last.(Terminal)
	if !ok || last.ID() != BaseID {
		return nil, fmt.Errorf("%w: chain ends with %q", ErrTerminalNotLast, last.ID())
	}

	seen := make(map[string]bool, len(units))
	for _, unit := range units {
		if seen[unit.ID()] {
			return nil, fmt.Errorf("unit %q appears more than once in the chain", unit.ID())
		}
		seen[unit.ID()] = true
	}

	head := units[:len(units)-1]
	for _, unit := range head {
		if _, ok := unit.(Terminal); ok {
			return nil, fmt.Errorf("%w: %q is a terminal unit but is followed by other units", ErrTerminalNotLast, unit.ID())
		}
	}

	c := &Chain{units: slices.Clone(units)}

	c.createProject = compose(head, CreateProjectFunc(terminal.CreateProject), func(h ProjectCreator, next CreateProjectFunc) CreateProjectFunc {
		return func(rc *Context, model *buildmodel.Project) (projectgraph.ProjectData, error) {
			return h.CreateProject(rc, model, next)
		}
	})
	c.createLanguageData = compose(head, CreateLanguageDataFunc(terminal.CreateLanguageData), func(h LanguageDataCreator, next CreateLanguageDataFunc) CreateLanguageDataFunc {
		return func(rc *Context, model *buildmodel.Project) (*projectgraph.LanguageData, error) {
			return h.CreateLanguageData(rc, model, next)
		}
	})
	c.populateProjectExtraModels = compose(head, PopulateProjectExtraModelsFunc(terminal.PopulateProjectExtraModels), func(h ProjectModelPopulator, next PopulateProjectExtraModelsFunc) PopulateProjectExtraModelsFunc {
		return func(rc *Context, model *buildmodel.Project, g *projectgraph.Graph) error {
			return h.PopulateProjectExtraModels(rc, model, g, next)
		}
	})
	c.createModule = compose(head, CreateModuleFunc(terminal.CreateModule), func(h ModuleCreator, next CreateModuleFunc) CreateModuleFunc {
		return func(rc *Context, module *buildmodel.Module, g *projectgraph.Graph) (projectgraph.Handle, error) {
			return h.CreateModule(rc, module, g, next)
		}
	})
	c.populateModuleExtraModels = compose(head, PopulateModuleFunc(terminal.PopulateModuleExtraModels), func(h ModuleModelPopulator, next PopulateModuleFunc) PopulateModuleFunc {
		return func(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, mh projectgraph.Handle) error {
			return h.PopulateModuleExtraModels(rc, module, g, mh, next)
		}
	})
	c.populateContentRoots = compose(head, PopulateModuleFunc(terminal.PopulateContentRoots), func(h ContentRootPopulator, next PopulateModuleFunc) PopulateModuleFunc {
		return func(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, mh projectgraph.Handle) error {
			return h.PopulateContentRoots(rc, module, g, mh, next)
		}
	})
	c.populateCompileOutput = compose(head, PopulateModuleFunc(terminal.PopulateCompileOutput), func(h CompileOutputPopulator, next PopulateModuleFunc) PopulateModuleFunc {
		return func(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, mh projectgraph.Handle) error {
			return h.PopulateCompileOutput(rc, module, g, mh, next)
		}
	})
	c.populateDependencies = compose(head, PopulateModuleFunc(terminal.PopulateDependencies), func(h DependencyPopulator, next PopulateModuleFunc) PopulateModuleFunc {
		return func(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, mh projectgraph.Handle) error {
			return h.PopulateDependencies(rc, module, g, mh, next)
		}
	})
	c.populateTasks = compose(head, PopulateTasksFunc(terminal.PopulateTasks), func(h TaskPopulator, next PopulateTasksFunc) PopulateTasksFunc {
		return func(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, mh projectgraph.Handle) ([]projectgraph.TaskData, error) {
			return h.PopulateTasks(rc, module, g, mh, next)
		}
	})
	c.filterRootTasks = compose(head, FilterRootTasksFunc(terminal.FilterRootTasks), func(h RootTaskFilter, next FilterRootTasksFunc) FilterRootTasksFunc {
		return func(rc *Context, tasks []projectgraph.TaskData) []projectgraph.TaskData {
			return h.FilterRootTasks(rc, tasks, next)
		}
	})
	c.userFriendlyError = compose(head, UserFriendlyErrorFunc(terminal.UserFriendlyError), func(h ErrorTranslator, next UserFriendlyErrorFunc) UserFriendlyErrorFunc {
		return func(err error, projectPath, buildFile string) *failure.ImportError {
			return h.UserFriendlyError(err, projectPath, buildFile, next)
		}
	})
	c.enhanceTaskProcessing = compose(head, EnhanceTaskProcessingFunc(terminal.EnhanceTaskProcessing), func(h TaskProcessingEnhancer, next EnhanceTaskProcessingFunc) EnhanceTaskProcessingFunc {
		return func(run *TaskRun) {
			h.EnhanceTaskProcessing(run, next)
		}
	})

	return c, nil
}

// compose folds the units implementing H around the terminal function, from
// the last unit to the first, so the first implementing unit runs first.
func compose[H any, F any](units []Unit, terminal F, bind func(H, F) F) F {
	f := terminal
	for i := len(units) - 1; i >= 0; i-- {
		if h, ok := units[i].(H); ok {
			f = bind(h, f)
		}
	}
	return f
}

// Units returns the chain members in order; the last one is the base unit.
func (c *Chain) Units() []Unit {
	return slices.Clone(c.units)
}

// IDs returns the unit identifiers in order.
func (c *Chain) IDs() []string {
	ids := make([]string, len(c.units))
	for i, unit := range c.units {
		ids[i] = unit.ID()
	}
	return ids
}

// Next returns the unit following u, or nil for the terminal unit and for
// units that are not part of the chain.
func (c *Chain) Next(u Unit) Unit {
	for i, unit := range c.units {
		if unit == u && i+1 < len(c.units) {
			return c.units[i+1]
		}
	}
	return nil
}

func (c *Chain) CreateProject(rc *Context, model *buildmodel.Project) (projectgraph.ProjectData, error) {
	return c.createProject(rc, model)
}

func (c *Chain) CreateLanguageData(rc *Context, model *buildmodel.Project) (*projectgraph.LanguageData, error) {
	return c.createLanguageData(rc, model)
}

func (c *Chain) PopulateProjectExtraModels(rc *Context, model *buildmodel.Project, g *projectgraph.Graph) error {
	return c.populateProjectExtraModels(rc, model, g)
}

func (c *Chain) CreateModule(rc *Context, module *buildmodel.Module, g *projectgraph.Graph) (projectgraph.Handle, error) {
	return c.createModule(rc, module, g)
}

func (c *Chain) PopulateModuleExtraModels(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error {
	return c.populateModuleExtraModels(rc, module, g, h)
}

func (c *Chain) PopulateContentRoots(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error {
	return c.populateContentRoots(rc, module, g, h)
}

func (c *Chain) PopulateCompileOutput(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error {
	return c.populateCompileOutput(rc, module, g, h)
}

func (c *Chain) PopulateDependencies(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error {
	return c.populateDependencies(rc, module, g, h)
}

func (c *Chain) PopulateTasks(rc *Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) ([]projectgraph.TaskData, error) {
	return c.populateTasks(rc, module, g, h)
}

func (c *Chain) FilterRootTasks(rc *Context, tasks []projectgraph.TaskData) []projectgraph.TaskData {
	return c.filterRootTasks(rc, tasks)
}

func (c *Chain) UserFriendlyError(err error, projectPath, buildFile string) *failure.ImportError {
	return c.userFriendlyError(err, projectPath, buildFile)
}

func (c *Chain) EnhanceTaskProcessing(run *TaskRun) {
	c.enhanceTaskProcessing(run)
}

// ModelKinds gathers the extra models requested by every unit, deduplicated in
// chain order.
func (c *Chain) ModelKinds() []buildmodel.ModelKind {
	var kinds []buildmodel.ModelKind
	for _, unit := range c.units {
		if r, ok := unit.(ModelRequester); ok {
			for _, kind := range r.ExtraModelKinds() {
				if !slices.Contains(kinds, kind) {
					kinds = append(kinds, kind)
				}
			}
		}
	}
	return kinds
}

// ExtensionFiles gathers init-script jars from every unit.
func (c *Chain) ExtensionFiles() []string {
	var files []string
	for _, unit := range c.units {
		if e, ok := unit.(ToolingExtender); ok {
			for _, file := range e.ExtensionFiles() {
				if !slices.Contains(files, file) {
					files = append(files, file)
				}
			}
		}
	}
	return files
}

// JVMArguments gathers process arguments from every unit.
func (c *Chain) JVMArguments() []string {
	var args []string
	for _, unit := range c.units {
		if a, ok := unit.(ProcessArgumenter); ok {
			args = append(args, a.ExtraJVMArguments()...)
		}
	}
	return args
}

// Arguments gathers command-line arguments from every unit.
func (c *Chain) Arguments() []string {
	var args []string
	for _, unit := range c.units {
		if a, ok := unit.(CommandLineArgumenter); ok {
			args = append(args, a.ExtraArguments()...)
		}
	}
	return args
}

// PreImportCheck runs the check of every unit and joins their failures.
func (c *Chain) PreImportCheck(ctx context.Context, projectPath string, s *settings.Settings) error {
	var errs []error
	for _, unit := range c.units {
		if checker, ok := unit.(PreImportChecker); ok {
			if err := checker.PreImportCheck(ctx, projectPath, s); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", unit.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
