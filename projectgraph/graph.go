// Package projectgraph holds the project description produced by an import: a
// tree of typed nodes rooted at a project, stored in an arena and addressed by
// integer handles.
package projectgraph

import (
	"errors"
	"fmt"
	"strings"

	graphlib "github.com/dominikbraun/graph"
)

// Handle addresses a node inside a Graph.
type Handle int

// NoHandle is the parent of the root node.
const NoHandle Handle = -1

var (
	ErrDuplicateModule = errors.New("duplicate module name")
	ErrUnknownModule   = errors.New("unknown module")
	ErrLibraryConflict = errors.New("library already registered with different content")
)

// UnknownModuleError reports a module dependency whose target is not part of
// the graph, together with the modules that are.
type UnknownModuleError struct {
	Name       string
	Registered []string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("cannot find module %q; registered modules: [%s]", e.Name, strings.Join(e.Registered, ", "))
}

func (e *UnknownModuleError) Is(target error) bool {
	return target == ErrUnknownModule
}

// Node is one arena entry.
type Node struct {
	Kind   Kind
	Parent Handle
	Data   Data
}

// Graph is the output of an import attempt.
type Graph struct {
	nodes    []Node
	children [][]Handle

	modules     map[string]Handle
	moduleOrder []Handle
	libraries   map[string]Handle

	moduleDeps graphlib.Graph[string, string]
	sealed     bool
}

// New creates a graph whose root is the given project.
func New(project ProjectData) *Graph {
	g := &Graph{
		modules:    make(map[string]Handle),
		libraries:  make(map[string]Handle),
		moduleDeps: graphlib.New(graphlib.StringHash, graphlib.Directed()),
	}
	g.nodes = append(g.nodes, Node{Kind: KindProject, Parent: NoHandle, Data: project})
	g.children = append(g.children, nil)
	return g
}

// Root returns the project node handle.
func (g *Graph) Root() Handle {
	return 0
}

// Project returns the root project data.
func (g *Graph) Project() ProjectData {
	return g.nodes[0].Data.(ProjectData)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node stored at h.
func (g *Graph) Node(h Handle) Node {
	return g.nodes[h]
}

// Children returns the children of h with the given kind, in insertion order.
// A zero kind returns every child.
func (g *Graph) Children(h Handle, kind Kind) []Handle {
	var out []Handle
	for _, child := range g.children[h] {
		if kind == 0 || g.nodes[child].Kind == kind {
			out = append(out, child)
		}
	}
	return out
}

// DataOf returns the payload at h if it has type T.
func DataOf[T Data](g *Graph, h Handle) (T, bool) {
	if h < 0 || int(h) >= len(g.nodes) {
		var zero T
		return zero, false
	}
	data, ok := g.nodes[h].Data.(T)
	if root, isRoot := any(data).(ContentRootData); ok && isRoot {
		data = any(root.clone()).(T)
	}
	return data, ok
}

// Add attaches data under parent and returns the new node's handle. Modules and
// libraries have dedicated methods because they are indexed by name.
func (g *Graph) Add(parent Handle, data Data) Handle {
	g.mustBeOpen()
	kind := data.Kind()
	switch kind {
	case KindProject:
		panic("projectgraph: a graph has exactly one project node")
	case KindModule:
		panic("projectgraph: use AddModule for module nodes")
	case KindLibrary:
		panic("projectgraph: use RegisterLibrary for library nodes")
	}

	parentKind := g.nodes[parent].Kind
	if kind == KindTask {
		if parentKind != KindProject && parentKind != KindModule {
			panic(fmt.Sprintf("projectgraph: task cannot be attached to %s", parentKind))
		}
	} else if want := allowedParents[kind]; want != parentKind {
		panic(fmt.Sprintf("projectgraph: %s cannot be attached to %s", kind, parentKind))
	}

	return g.attach(parent, owned(data))
}

// Update replaces the payload at h with data of the same kind.
func (g *Graph) Update(h Handle, data Data) {
	g.mustBeOpen()
	if g.nodes[h].Kind != data.Kind() {
		panic(fmt.Sprintf("projectgraph: cannot replace %s with %s", g.nodes[h].Kind, data.Kind()))
	}
	if module, ok := data.(ModuleData); ok {
		old := g.nodes[h].Data.(ModuleData)
		if old.Name != module.Name || old.ID != module.ID {
			panic("projectgraph: module identity cannot change")
		}
	}
	g.nodes[h].Data = owned(data)
}

// owned detaches payloads that carry maps from the caller's copy.
func owned(data Data) Data {
	if root, ok := data.(ContentRootData); ok {
		return root.clone()
	}
	return data
}

// Seal freezes the graph; later mutations panic.
func (g *Graph) Seal() {
	g.sealed = true
}

// Sealed reports whether Seal has been called.
func (g *Graph) Sealed() bool {
	return g.sealed
}

func (g *Graph) attach(parent Handle, data Data) Handle {
	h := Handle(len(g.nodes))
	g.nodes = append(g.nodes, Node{Kind: data.Kind(), Parent: parent, Data: data})
	g.children = append(g.children, nil)
	g.children[parent] = append(g.children[parent], h)
	return h
}

func (g *Graph) mustBeOpen() {
	if g.sealed {
		panic("projectgraph: graph is sealed")
	}
}
