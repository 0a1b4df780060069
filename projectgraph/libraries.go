package projectgraph

import (
	"errors"
	"fmt"
	"sort"
)

// RegisterLibrary adds a library to the project-level pool. Registering an
// identical library again returns the existing handle. Registering a different
// library under a taken name returns the existing handle and
// ErrLibraryConflict.
func (g *Graph) RegisterLibrary(data LibraryData) (Handle, error) {
	g.mustBeOpen()
	if h, exists := g.libraries[data.Name]; exists {
		existing := g.nodes[h].Data.(LibraryData)
		if existing.Equal(data) {
			return h, nil
		}
		return h, fmt.Errorf("%w: %s", ErrLibraryConflict, data.Name)
	}

	h := g.attach(g.Root(), data)
	g.libraries[data.Name] = h
	return h, nil
}

// FindLibrary looks a project-level library up by name.
func (g *Graph) FindLibrary(name string) (Handle, bool) {
	h, ok := g.libraries[name]
	return h, ok
}

// Libraries returns the project-level libraries sorted by name.
func (g *Graph) Libraries() []Handle {
	names := make([]string, 0, len(g.libraries))
	for name := range g.libraries {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Handle, 0, len(names))
	for _, name := range names {
		out = append(out, g.libraries[name])
	}
	return out
}

// UpdateLibrary replaces a pooled library's paths. Dependencies that inline the
// library are refreshed too.
func (g *Graph) UpdateLibrary(h Handle, data LibraryData) {
	g.mustBeOpen()
	old, ok := DataOf[LibraryData](g, h)
	if !ok {
		panic(fmt.Sprintf("projectgraph: node %d is not a library", h))
	}
	if old.Name != data.Name {
		panic("projectgraph: library name cannot change")
	}
	g.nodes[h].Data = data

	for i := range g.nodes {
		dep, ok := g.nodes[i].Data.(LibraryDependencyData)
		if ok && dep.Level == LevelProject && dep.Ref == h {
			dep.Library = data
			g.nodes[i].Data = dep
		}
	}
}

// BindLibrary registers dep's library in the pool and points dep at it. When
// the name is taken by different content the dependency is returned
// downgraded to module level, together with the registration error.
func (g *Graph) BindLibrary(dep LibraryDependencyData) (LibraryDependencyData, error) {
	ref, err := g.RegisterLibrary(dep.Library)
	if err != nil {
		dep.Level = LevelModule
		dep.Ref = NoHandle
		return dep, err
	}
	dep.Level = LevelProject
	dep.Ref = ref
	return dep, nil
}

// BindLibraryDependencies makes every project-level library dependency point
// at the pool entry holding its library. It returns the names of libraries
// that had to be downgraded to module level.
func (g *Graph) BindLibraryDependencies() []string {
	g.mustBeOpen()
	var downgraded []string
	for _, module := range g.moduleOrder {
		for _, h := range g.children[module] {
			dep, ok := g.nodes[h].Data.(LibraryDependencyData)
			if !ok || dep.Level != LevelProject {
				continue
			}
			if lib, ok := DataOf[LibraryData](g, dep.Ref); ok && lib.Equal(dep.Library) {
				continue
			}
			bound, err := g.BindLibrary(dep)
			if errors.Is(err, ErrLibraryConflict) {
				downgraded = append(downgraded, dep.Library.Name)
			}
			g.nodes[h].Data = bound
		}
	}
	return downgraded
}
