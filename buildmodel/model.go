// Package buildmodel describes the object model reported by the external build
// tool: the project, its modules, their content roots, dependencies and tasks,
// plus the optional extra models requested by resolver extensions.
package buildmodel

import "fmt"

// Project is the primary model returned by the build tool.
type Project struct {
	Name          string    `yaml:"name" json:"name"`
	Description   string    `yaml:"description,omitempty" json:"description,omitempty"`
	LanguageLevel string    `yaml:"languageLevel,omitempty" json:"languageLevel,omitempty"`
	JDKName       string    `yaml:"jdkName,omitempty" json:"jdkName,omitempty"`
	Modules       []*Module `yaml:"modules" json:"modules"`
}

// Module is one build-tool sub-project.
type Module struct {
	Name string `yaml:"name" json:"name"`
	// Path is the logical path of the sub-project, e.g. ":app:core".
	Path        string `yaml:"path" json:"path"`
	ProjectDir  string `yaml:"projectDir,omitempty" json:"projectDir,omitempty"`
	BuildFile   string `yaml:"buildFile,omitempty" json:"buildFile,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Group       string `yaml:"group,omitempty" json:"group,omitempty"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`

	ContentRoots  []ContentRoot `yaml:"contentRoots,omitempty" json:"contentRoots,omitempty"`
	CompileOutput CompileOutput `yaml:"compileOutput,omitempty" json:"compileOutput,omitempty"`
	Dependencies  []Dependency  `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Tasks         []Task        `yaml:"tasks,omitempty" json:"tasks,omitempty"`
}

// ContentRoot holds the generic directory buckets reported for a root.
type ContentRoot struct {
	RootDirectory              string   `yaml:"rootDirectory" json:"rootDirectory"`
	SourceDirectories          []string `yaml:"sourceDirectories,omitempty" json:"sourceDirectories,omitempty"`
	TestDirectories            []string `yaml:"testDirectories,omitempty" json:"testDirectories,omitempty"`
	GeneratedSourceDirectories []string `yaml:"generatedSourceDirectories,omitempty" json:"generatedSourceDirectories,omitempty"`
	ExcludeDirectories         []string `yaml:"excludeDirectories,omitempty" json:"excludeDirectories,omitempty"`
}

// CompileOutput describes where a module's classes are compiled to.
type CompileOutput struct {
	OutputDir         string `yaml:"outputDir,omitempty" json:"outputDir,omitempty"`
	TestOutputDir     string `yaml:"testOutputDir,omitempty" json:"testOutputDir,omitempty"`
	InheritOutputDirs bool   `yaml:"inheritOutputDirs,omitempty" json:"inheritOutputDirs,omitempty"`
}

// DependencyKind tells module dependencies apart from library dependencies.
type DependencyKind string

const (
	DependencyModule  DependencyKind = "module"
	DependencyLibrary DependencyKind = "library"
)

// Scope is the dependency scope reported by the build tool.
type Scope string

const (
	ScopeCompile  Scope = "compile"
	ScopeRuntime  Scope = "runtime"
	ScopeTest     Scope = "test"
	ScopeProvided Scope = "provided"
)

// Dependency is a module or library dependency of a module.
type Dependency struct {
	Kind DependencyKind `yaml:"kind" json:"kind"`
	// Module is the target module name for module dependencies.
	Module string `yaml:"module,omitempty" json:"module,omitempty"`

	File        string       `yaml:"file,omitempty" json:"file,omitempty"`
	Source      string       `yaml:"source,omitempty" json:"source,omitempty"`
	Javadoc     string       `yaml:"javadoc,omitempty" json:"javadoc,omitempty"`
	Coordinates *Coordinates `yaml:"coordinates,omitempty" json:"coordinates,omitempty"`

	Scope    Scope `yaml:"scope,omitempty" json:"scope,omitempty"`
	Exported bool  `yaml:"exported,omitempty" json:"exported,omitempty"`
}

// Coordinates identify a resolved artifact.
type Coordinates struct {
	Group   string `yaml:"group" json:"group"`
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%s:%s:%s", c.Group, c.Name, c.Version)
}

// Task is a task reported by a module.
type Task struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Group       string `yaml:"group,omitempty" json:"group,omitempty"`
}

// ProjectDirectories maps logical module paths to their on-disk directories.
type ProjectDirectories map[string]string

// ClasspathEntry is one item of a build script classpath.
type ClasspathEntry struct {
	Classes []string `yaml:"classes,omitempty" json:"classes,omitempty"`
	Sources []string `yaml:"sources,omitempty" json:"sources,omitempty"`
	Javadoc []string `yaml:"javadoc,omitempty" json:"javadoc,omitempty"`
}

// BuildScriptClasspath is the classpath used to compile a module's build script.
type BuildScriptClasspath struct {
	Entries []ClasspathEntry `yaml:"entries" json:"entries"`
}

// ModuleExtended carries directories reported by the IDE plugin of the build
// tool. They are more specific than the generic content-root buckets.
type ModuleExtended struct {
	ContentRoots          []ExtendedContentRoot `yaml:"contentRoots,omitempty" json:"contentRoots,omitempty"`
	ResourceOutputDir     string                `yaml:"resourceOutputDir,omitempty" json:"resourceOutputDir,omitempty"`
	TestResourceOutputDir string                `yaml:"testResourceOutputDir,omitempty" json:"testResourceOutputDir,omitempty"`
}

// ExtendedContentRoot lists resource directories for one content root.
type ExtendedContentRoot struct {
	RootDirectory           string   `yaml:"rootDirectory" json:"rootDirectory"`
	ResourceDirectories     []string `yaml:"resourceDirectories,omitempty" json:"resourceDirectories,omitempty"`
	TestResourceDirectories []string `yaml:"testResourceDirectories,omitempty" json:"testResourceDirectories,omitempty"`
}

// ExternalProject is the build tool's own description of the project tree.
type ExternalProject struct {
	Name        string             `yaml:"name" json:"name"`
	QName       string             `yaml:"qName,omitempty" json:"qName,omitempty"`
	Path        string             `yaml:"path,omitempty" json:"path,omitempty"`
	BuildFile   string             `yaml:"buildFile,omitempty" json:"buildFile,omitempty"`
	Group       string             `yaml:"group,omitempty" json:"group,omitempty"`
	Version     string             `yaml:"version,omitempty" json:"version,omitempty"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Children    []*ExternalProject `yaml:"children,omitempty" json:"children,omitempty"`
}

// BuildEnvironment describes the process the build tool runs in.
type BuildEnvironment struct {
	ToolVersion  string   `yaml:"toolVersion,omitempty" json:"toolVersion,omitempty"`
	JavaHome     string   `yaml:"javaHome,omitempty" json:"javaHome,omitempty"`
	JVMArguments []string `yaml:"jvmArguments,omitempty" json:"jvmArguments,omitempty"`
}
