// Package base is the terminal resolver unit. It implements every stage with
// the default behavior and never delegates.
package base

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/failure"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

// SystemID identifies graphs produced by this importer.
const SystemID = "GRADLE"

// Unit is the base resolver unit.
type Unit struct{}

// New returns the base unit.
func New() resolver.Unit {
	return &Unit{}
}

func (*Unit) ID() string {
	return resolver.BaseID
}

// Description is shown by the extensions command.
func (*Unit) Description() string {
	return "default project, module, content root, dependency and task resolution"
}

func (*Unit) ExtraModelKinds() []buildmodel.ModelKind {
	return []buildmodel.ModelKind{
		buildmodel.KindProjectDirectories,
		buildmodel.KindBuildScriptClasspath,
		buildmodel.KindModuleExtended,
	}
}

func (*Unit) PreImportCheck(_ context.Context, projectPath string, s *settings.Settings) error {
	info, err := os.Stat(projectPath)
	if err != nil {
		return fmt.Errorf("project directory is not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path %s is not a directory", projectPath)
	}
	return s.Validate()
}

func (*Unit) CreateProject(rc *resolver.Context, model *buildmodel.Project) (projectgraph.ProjectData, error) {
	name := model.Name
	if name == "" {
		name = filepath.Base(rc.ProjectPath())
	}
	return projectgraph.ProjectData{
		SystemID:    SystemID,
		Name:        name,
		RootPath:    rc.ProjectPath(),
		ConfigPath:  rc.ProjectPath(),
		Description: model.Description,
	}, nil
}

func (*Unit) CreateLanguageData(*resolver.Context, *buildmodel.Project) (*projectgraph.LanguageData, error) {
	return nil, nil
}

func (*Unit) PopulateProjectExtraModels(*resolver.Context, *buildmodel.Project, *projectgraph.Graph) error {
	return nil
}

func (*Unit) CreateModule(rc *resolver.Context, module *buildmodel.Module, g *projectgraph.Graph) (projectgraph.Handle, error) {
	if strings.TrimSpace(module.Name) == "" {
		return projectgraph.NoHandle, failure.Newf("module %q has no name", module.Path)
	}

	id := module.Path
	if id == "" {
		id = module.Name
	}

	h, err := g.AddModule(projectgraph.ModuleData{
		ID:         id,
		Name:       module.Name,
		Path:       module.Path,
		ConfigPath: ModuleConfigPath(rc, module),
		Group:      module.Group,
		Version:    module.Version,
	})
	if err != nil {
		return projectgraph.NoHandle, failure.New(fmt.Sprintf("duplicate module name '%s'", module.Name), err)
	}
	return h, nil
}

// ModuleConfigPath resolves a module's on-disk directory. The build tool's own
// directory listing wins; the logical path is only a last resort because
// sub-projects may live anywhere.
func ModuleConfigPath(rc *resolver.Context, module *buildmodel.Module) string {
	if dirs, ok := resolver.Model[buildmodel.ProjectDirectories](rc, buildmodel.KindProjectDirectories); ok {
		if dir, ok := dirs[module.Path]; ok && dir != "" {
			return dir
		}
	}
	if module.ProjectDir != "" {
		return module.ProjectDir
	}
	return NormalizeModulePath(rc.ProjectPath(), module.Path)
}

// NormalizeModulePath maps a logical path such as ":app:core" to a directory
// below the project root.
func NormalizeModulePath(projectPath, logicalPath string) string {
	segments := strings.FieldsFunc(logicalPath, func(r rune) bool { return r == ':' })
	return filepath.Join(append([]string{projectPath}, segments...)...)
}

func (*Unit) PopulateModuleExtraModels(rc *resolver.Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error {
	var data projectgraph.ClasspathData
	if classpath, ok := resolver.ModuleModel[*buildmodel.BuildScriptClasspath](rc, module.Path, buildmodel.KindBuildScriptClasspath); ok && classpath != nil {
		for _, entry := range classpath.Entries {
			data.Entries = append(data.Entries, projectgraph.ClasspathEntry{
				Classes: entry.Classes,
				Sources: entry.Sources,
				Javadoc: entry.Javadoc,
			})
		}
	}
	g.Add(h, data)
	return nil
}

func (*Unit) PopulateCompileOutput(rc *resolver.Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error {
	data, ok := projectgraph.DataOf[projectgraph.ModuleData](g, h)
	if !ok {
		return fmt.Errorf("node %d is not a module", h)
	}

	outputs := make(map[projectgraph.SourceKind]string)
	setOutput(outputs, projectgraph.SourceKindSource, module.CompileOutput.OutputDir)
	setOutput(outputs, projectgraph.SourceKindTest, module.CompileOutput.TestOutputDir)
	if extended, ok := resolver.ModuleModel[*buildmodel.ModuleExtended](rc, module.Path, buildmodel.KindModuleExtended); ok && extended != nil {
		setOutput(outputs, projectgraph.SourceKindResource, extended.ResourceOutputDir)
		setOutput(outputs, projectgraph.SourceKindTestResource, extended.TestResourceOutputDir)
	}

	if len(outputs) > 0 {
		data.Outputs = outputs
	}
	data.InheritProjectOutput = module.CompileOutput.InheritOutputDirs
	g.Update(h, data)
	return nil
}

func setOutput(outputs map[projectgraph.SourceKind]string, kind projectgraph.SourceKind, dir string) {
	if dir != "" {
		outputs[kind] = dir
	}
}

func (*Unit) PopulateTasks(rc *resolver.Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) ([]projectgraph.TaskData, error) {
	data, ok := projectgraph.DataOf[projectgraph.ModuleData](g, h)
	if !ok {
		return nil, fmt.Errorf("node %d is not a module", h)
	}

	tasks := make([]projectgraph.TaskData, 0, len(module.Tasks))
	for _, task := range module.Tasks {
		td := projectgraph.TaskData{
			Name:        task.Name,
			ConfigPath:  data.ConfigPath,
			Description: task.Description,
			Group:       task.Group,
		}
		g.Add(h, td)
		tasks = append(tasks, td)
	}
	return tasks, nil
}

func (*Unit) FilterRootTasks(_ *resolver.Context, tasks []projectgraph.TaskData) []projectgraph.TaskData {
	return tasks
}

func (*Unit) UserFriendlyError(err error, projectPath, buildFile string) *failure.ImportError {
	return failure.Translate(err, projectPath, buildFile)
}

func (*Unit) EnhanceTaskProcessing(*resolver.TaskRun) {}
