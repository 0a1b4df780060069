package importer

import (
	"context"
	"fmt"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"

	"github.com/LegacyCodeHQ/projectimport/failure"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

// populate walks the attached models through the chain. Modules are visited
// twice: the first pass creates every module so that the second pass can link
// dependencies between any two modules of the build.
func (im *Importer) populate(ctx context.Context, chain *resolver.Chain, rc *resolver.Context) (*projectgraph.Graph, error) {
	_, span := im.tracer.Start(ctx, "importer.populate")
	defer span.End()

	model := rc.Models().Project()
	if model == nil {
		return nil, failure.Newf("the build at %s reported no project model", rc.ProjectPath())
	}

	projectData, err := chain.CreateProject(rc, model)
	if err != nil {
		return nil, err
	}
	g := projectgraph.New(projectData)

	language, err := chain.CreateLanguageData(rc, model)
	if err != nil {
		return nil, err
	}
	if language != nil {
		g.Add(g.Root(), *language)
	}

	if err := chain.PopulateProjectExtraModels(rc, model, g); err != nil {
		return nil, err
	}

	if len(model.Modules) == 0 {
		return nil, failure.Newf("the build at %s reported no modules", rc.ProjectPath())
	}

	handles := make([]projectgraph.Handle, len(model.Modules))
	for i, module := range model.Modules {
		h, err := chain.CreateModule(rc, module, g)
		if err != nil {
			return nil, err
		}
		handles[i] = h

		if err := chain.PopulateModuleExtraModels(rc, module, g, h); err != nil {
			return nil, err
		}
		if err := chain.PopulateContentRoots(rc, module, g, h); err != nil {
			return nil, err
		}
		if err := chain.PopulateCompileOutput(rc, module, g, h); err != nil {
			return nil, err
		}
	}

	var tasks []projectgraph.TaskData
	for i, module := range model.Modules {
		if err := chain.PopulateDependencies(rc, module, g, handles[i]); err != nil {
			return nil, err
		}
		if rc.Auxiliary() {
			continue
		}
		moduleTasks, err := chain.PopulateTasks(rc, module, g, handles[i])
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, moduleTasks...)
	}

	if !rc.Auxiliary() {
		for _, task := range rootTasks(chain.FilterRootTasks(rc, tasks)) {
			task.ConfigPath = rc.ProjectPath()
			g.Add(g.Root(), task)
		}
	}

	for _, name := range g.BindLibraryDependencies() {
		rc.Logger().Info("library conflicts with the project pool, keeping it module-local", "library", name)
	}

	if cycles, err := g.ModuleDependencyCycles(); err == nil && len(cycles) > 0 {
		rc.Logger().Warn("module dependency cycles detected", "cycles", fmt.Sprint(cycles))
	}

	span.SetAttributes(
		attribute.Int("import.modules", len(model.Modules)),
		attribute.Int("import.tasks", len(tasks)),
	)
	return g, nil
}

type taskKey struct {
	name        string
	description string
}

// rootTasks keeps the first task of every (name, description) pair.
func rootTasks(tasks []projectgraph.TaskData) []projectgraph.TaskData {
	seen := make(map[taskKey]bool, len(tasks))
	out := make([]projectgraph.TaskData, 0, len(tasks))
	for _, task := range tasks {
		key := taskKey{name: task.Name, description: task.Description}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, task)
	}
	return out
}

func (im *Importer) auxiliaryPath(projectPath string) string {
	return filepath.Join(projectPath, im.auxiliaryDir)
}
