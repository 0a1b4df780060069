package projectgraph

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// AddModule attaches a module under the project. Module names are unique within
// a graph.
func (g *Graph) AddModule(data ModuleData) (Handle, error) {
	g.mustBeOpen()
	if _, exists := g.modules[data.Name]; exists {
		return NoHandle, fmt.Errorf("%w: %s", ErrDuplicateModule, data.Name)
	}

	h := g.attach(g.Root(), data)
	g.modules[data.Name] = h
	g.moduleOrder = append(g.moduleOrder, h)
	_ = g.moduleDeps.AddVertex(data.Name)
	return h, nil
}

// Modules returns module handles in creation order.
func (g *Graph) Modules() []Handle {
	return slices.Clone(g.moduleOrder)
}

// FindModule looks a module up by name.
func (g *Graph) FindModule(name string) (Handle, bool) {
	h, ok := g.modules[name]
	return h, ok
}

// ModuleNames returns the registered module names, sorted.
func (g *Graph) ModuleNames() []string {
	names := make([]string, 0, len(g.modules))
	for name := range g.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModuleOf returns the module enclosing h, or NoHandle for project-level nodes.
func (g *Graph) ModuleOf(h Handle) Handle {
	for h != NoHandle {
		if g.nodes[h].Kind == KindModule {
			return h
		}
		h = g.nodes[h].Parent
	}
	return NoHandle
}

// LinkModuleDependency records that owner depends on the module named target.
// The target must already be part of the graph.
func (g *Graph) LinkModuleDependency(owner Handle, data ModuleDependencyData, target string) (Handle, error) {
	g.mustBeOpen()
	ownerData, ok := DataOf[ModuleData](g, owner)
	if !ok {
		panic(fmt.Sprintf("projectgraph: module dependency owner %d is not a module", owner))
	}

	targetHandle, ok := g.modules[target]
	if !ok {
		return NoHandle, &UnknownModuleError{Name: target, Registered: g.ModuleNames()}
	}
	targetData := g.nodes[targetHandle].Data.(ModuleData)

	data.OwnerID = ownerData.ID
	data.TargetID = targetData.ID
	h := g.attach(owner, data)

	if err := g.moduleDeps.AddEdge(ownerData.Name, target); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		return h, fmt.Errorf("failed to record dependency %s -> %s: %w", ownerData.Name, target, err)
	}
	return h, nil
}

// ModuleDependencyCycles returns groups of module names that depend on each
// other, each group sorted. Build tools allow such cycles; callers only
// report them.
func (g *Graph) ModuleDependencyCycles() ([][]string, error) {
	components, err := graphlib.StronglyConnectedComponents(g.moduleDeps)
	if err != nil {
		return nil, fmt.Errorf("failed to compute module cycles: %w", err)
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) < 2 {
			continue
		}
		sort.Strings(component)
		cycles = append(cycles, component)
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles, nil
}

// ModuleDependents returns the names of modules that depend on name.
func (g *Graph) ModuleDependents(name string) ([]string, error) {
	predecessors, err := g.moduleDeps.PredecessorMap()
	if err != nil {
		return nil, err
	}
	var out []string
	for dependent := range predecessors[name] {
		out = append(out, dependent)
	}
	sort.Strings(out)
	return out, nil
}
