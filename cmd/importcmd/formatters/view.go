package formatters

import (
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

// View is the flattened, ordered form of a project graph that every formatter
// renders.
type View struct {
	Project         projectgraph.ProjectData   `json:"project"`
	Language        *projectgraph.LanguageData `json:"language,omitempty"`
	ExternalProject bool                       `json:"externalProject,omitempty"`
	Modules         []ModuleView               `json:"modules"`
	Libraries       []projectgraph.LibraryData `json:"libraries,omitempty"`
	Tasks           []projectgraph.TaskData    `json:"tasks,omitempty"`
	Diagnostics     []DiagnosticView           `json:"diagnostics,omitempty"`
}

// ModuleView is one module with its children grouped by kind.
type ModuleView struct {
	projectgraph.ModuleData
	ContentRoots        []projectgraph.ContentRootData       `json:"contentRoots,omitempty"`
	ModuleDependencies  []projectgraph.ModuleDependencyData  `json:"moduleDependencies,omitempty"`
	LibraryDependencies []projectgraph.LibraryDependencyData `json:"libraryDependencies,omitempty"`
	Tasks               []projectgraph.TaskData              `json:"tasks,omitempty"`
	Classpath           *projectgraph.ClasspathData          `json:"classpath,omitempty"`
}

// DiagnosticView is a diagnostic with its error flattened to text.
type DiagnosticView struct {
	Source  string `json:"source"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewView walks g in creation order.
func NewView(g *projectgraph.Graph, diagnostics []resolver.Diagnostic) View {
	root := g.Root()
	v := View{Project: g.Project()}

	for _, h := range g.Children(root, projectgraph.KindLanguage) {
		if data, ok := projectgraph.DataOf[projectgraph.LanguageData](g, h); ok {
			v.Language = &data
		}
	}
	v.ExternalProject = len(g.Children(root, projectgraph.KindExternalProject)) > 0

	for _, h := range g.Modules() {
		v.Modules = append(v.Modules, moduleView(g, h))
	}
	for _, h := range g.Libraries() {
		if data, ok := projectgraph.DataOf[projectgraph.LibraryData](g, h); ok {
			v.Libraries = append(v.Libraries, data)
		}
	}
	v.Tasks = childrenOf[projectgraph.TaskData](g, root, projectgraph.KindTask)

	for _, d := range diagnostics {
		v.Diagnostics = append(v.Diagnostics, DiagnosticView{Source: d.Source, Message: d.Message, Error: d.Error()})
	}
	return v
}

// ModuleName returns the name of the module with the given id, or the id
// itself when the view has no such module.
func (v View) ModuleName(id string) string {
	for _, m := range v.Modules {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}

func moduleView(g *projectgraph.Graph, h projectgraph.Handle) ModuleView {
	data, _ := projectgraph.DataOf[projectgraph.ModuleData](g, h)
	m := ModuleView{
		ModuleData:          data,
		ContentRoots:        childrenOf[projectgraph.ContentRootData](g, h, projectgraph.KindContentRoot),
		ModuleDependencies:  childrenOf[projectgraph.ModuleDependencyData](g, h, projectgraph.KindModuleDependency),
		LibraryDependencies: childrenOf[projectgraph.LibraryDependencyData](g, h, projectgraph.KindLibraryDependency),
		Tasks:               childrenOf[projectgraph.TaskData](g, h, projectgraph.KindTask),
	}
	if classpath := childrenOf[projectgraph.ClasspathData](g, h, projectgraph.KindClasspath); len(classpath) > 0 {
		m.Classpath = &classpath[0]
	}
	return m
}

func childrenOf[T projectgraph.Data](g *projectgraph.Graph, h projectgraph.Handle, kind projectgraph.Kind) []T {
	var out []T
	for _, child := range g.Children(h, kind) {
		if data, ok := projectgraph.DataOf[T](g, child); ok {
			out = append(out, data)
		}
	}
	return out
}
