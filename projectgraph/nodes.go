package projectgraph

import (
	"slices"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
)

// Kind tags the variant stored in a node.
type Kind uint8

const (
	KindProject Kind = iota + 1
	KindLanguage
	KindExternalProject
	KindModule
	KindContentRoot
	KindModuleDependency
	KindLibraryDependency
	KindLibrary
	KindTask
	KindClasspath
)

func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindLanguage:
		return "language"
	case KindExternalProject:
		return "external-project"
	case KindModule:
		return "module"
	case KindContentRoot:
		return "content-root"
	case KindModuleDependency:
		return "module-dependency"
	case KindLibraryDependency:
		return "library-dependency"
	case KindLibrary:
		return "library"
	case KindTask:
		return "task"
	case KindClasspath:
		return "build-script-classpath"
	default:
		return "unknown"
	}
}

// Data is the closed set of node payloads.
type Data interface {
	Kind() Kind
	isData()
}

// ProjectData is the root of every graph.
type ProjectData struct {
	SystemID    string `json:"systemId"`
	Name        string `json:"name"`
	RootPath    string `json:"rootPath"`
	ConfigPath  string `json:"configPath"`
	Description string `json:"description,omitempty"`
}

// LanguageData is language/platform metadata for the whole project.
type LanguageData struct {
	LanguageLevel string `json:"languageLevel,omitempty"`
	JDKName       string `json:"jdkName,omitempty"`
}

// ExternalProjectData is the build tool's own description of the project tree.
type ExternalProjectData struct {
	Project *buildmodel.ExternalProject `json:"project"`
}

// ModuleData describes one module.
type ModuleData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"path,omitempty"`
	ConfigPath string `json:"configPath"`
	Group      string `json:"group,omitempty"`
	Version    string `json:"version,omitempty"`

	Outputs              map[SourceKind]string `json:"outputs,omitempty"`
	InheritProjectOutput bool                  `json:"inheritProjectOutput,omitempty"`
}

// DependencyScope mirrors the build tool scopes.
type DependencyScope = buildmodel.Scope

// ModuleDependencyData links a module to another module of the same project.
type ModuleDependencyData struct {
	OwnerID  string          `json:"owner"`
	TargetID string          `json:"target"`
	Exported bool            `json:"exported,omitempty"`
	Scope    DependencyScope `json:"scope,omitempty"`
}

// LibraryLevel tells where a library dependency's library lives.
type LibraryLevel string

const (
	LevelModule  LibraryLevel = "module"
	LevelProject LibraryLevel = "project"
)

// LibraryData is an external library, identified by Name.
type LibraryData struct {
	Name       string   `json:"name"`
	Unresolved bool     `json:"unresolved,omitempty"`
	Binaries   []string `json:"binaries,omitempty"`
	Sources    []string `json:"sources,omitempty"`
	Docs       []string `json:"docs,omitempty"`
}

// Equal reports whether two libraries are structurally identical.
func (l LibraryData) Equal(other LibraryData) bool {
	return l.Name == other.Name &&
		l.Unresolved == other.Unresolved &&
		slices.Equal(l.Binaries, other.Binaries) &&
		slices.Equal(l.Sources, other.Sources) &&
		slices.Equal(l.Docs, other.Docs)
}

// LibraryDependencyData links a module to a library. Project-level
// dependencies reference the shared pool entry through Ref; module-level ones
// carry their library inline.
type LibraryDependencyData struct {
	OwnerID  string          `json:"owner"`
	Library  LibraryData     `json:"library"`
	Level    LibraryLevel    `json:"level"`
	Ref      Handle          `json:"-"`
	Exported bool            `json:"exported,omitempty"`
	Scope    DependencyScope `json:"scope,omitempty"`
}

// TaskData is a runnable task.
type TaskData struct {
	Name        string `json:"name"`
	ConfigPath  string `json:"configPath"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`
}

// ClasspathEntry is one build script classpath item.
type ClasspathEntry struct {
	Classes []string `json:"classes,omitempty"`
	Sources []string `json:"sources,omitempty"`
	Javadoc []string `json:"javadoc,omitempty"`
}

// ClasspathData is the build script classpath of one module.
type ClasspathData struct {
	Entries []ClasspathEntry `json:"entries"`
}

func (ProjectData) Kind() Kind           { return KindProject }
func (LanguageData) Kind() Kind          { return KindLanguage }
func (ExternalProjectData) Kind() Kind   { return KindExternalProject }
func (ModuleData) Kind() Kind            { return KindModule }
func (ContentRootData) Kind() Kind       { return KindContentRoot }
func (ModuleDependencyData) Kind() Kind  { return KindModuleDependency }
func (LibraryDependencyData) Kind() Kind { return KindLibraryDependency }
func (LibraryData) Kind() Kind           { return KindLibrary }
func (TaskData) Kind() Kind              { return KindTask }
func (ClasspathData) Kind() Kind         { return KindClasspath }

func (ProjectData) isData()           {}
func (LanguageData) isData()          {}
func (ExternalProjectData) isData()   {}
func (ModuleData) isData()            {}
func (ContentRootData) isData()       {}
func (ModuleDependencyData) isData()  {}
func (LibraryDependencyData) isData() {}
func (LibraryData) isData()           {}
func (TaskData) isData()              {}
func (ClasspathData) isData()         {}

// allowedParents lists where each kind may be attached.
var allowedParents = map[Kind]Kind{
	KindLanguage:          KindProject,
	KindExternalProject:   KindProject,
	KindModule:            KindProject,
	KindLibrary:           KindProject,
	KindContentRoot:       KindModule,
	KindModuleDependency:  KindModule,
	KindLibraryDependency: KindModule,
	KindClasspath:         KindModule,
}
