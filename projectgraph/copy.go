package projectgraph

import (
	"errors"
	"fmt"
)

// CopyModule copies a module subtree from src into g. Project-level library
// dependencies are re-pointed at g's pool; a library whose name is already
// taken by different content is kept inline as a module-level dependency.
// Module dependencies whose target is absent from g are dropped.
func (g *Graph) CopyModule(src *Graph, module Handle) (Handle, error) {
	data, ok := DataOf[ModuleData](src, module)
	if !ok {
		return NoHandle, fmt.Errorf("node %d is not a module", module)
	}

	h, err := g.AddModule(data)
	if err != nil {
		return NoHandle, err
	}

	for _, child := range src.children[module] {
		node := src.nodes[child]
		switch d := node.Data.(type) {
		case ModuleDependencyData:
			targetName := moduleNameByID(src, d.TargetID)
			if targetName == "" {
				continue
			}
			if _, err := g.LinkModuleDependency(h, d, targetName); err != nil {
				if errors.Is(err, ErrUnknownModule) {
					continue
				}
				return h, err
			}
		case LibraryDependencyData:
			g.attach(h, g.rebindLibrary(d))
		case ContentRootData:
			g.attach(h, d.clone())
		default:
			g.attach(h, node.Data)
		}
	}
	return h, nil
}

func (g *Graph) rebindLibrary(dep LibraryDependencyData) LibraryDependencyData {
	if dep.Level != LevelProject {
		dep.Ref = NoHandle
		return dep
	}
	dep, _ = g.BindLibrary(dep)
	return dep
}

func moduleNameByID(g *Graph, id string) string {
	for _, h := range g.moduleOrder {
		if m := g.nodes[h].Data.(ModuleData); m.ID == id {
			return m.Name
		}
	}
	return ""
}
