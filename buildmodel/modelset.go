package buildmodel

import "sort"

// ModelKind identifies an extra model the build tool can be asked for.
type ModelKind string

const (
	KindProject              ModelKind = "Project"
	KindProjectDirectories   ModelKind = "ProjectDirectories"
	KindBuildScriptClasspath ModelKind = "BuildScriptClasspath"
	KindModuleExtended       ModelKind = "ModuleExtended"
	KindExternalProject      ModelKind = "ExternalProject"
	KindBuildEnvironment     ModelKind = "BuildEnvironment"
)

// ModelSet holds the models fetched in one import attempt, either for the whole
// build or scoped to a single module (keyed by the module's logical path).
type ModelSet struct {
	global  map[ModelKind]any
	modules map[string]map[ModelKind]any
}

// NewModelSet creates an empty model set.
func NewModelSet() *ModelSet {
	return &ModelSet{
		global:  make(map[ModelKind]any),
		modules: make(map[string]map[ModelKind]any),
	}
}

// EmptyModelSet returns a set holding only the primary project model. It stands
// in for the extra models when the tool cannot run the bulk action.
func EmptyModelSet(project *Project) *ModelSet {
	set := NewModelSet()
	if project != nil {
		set.Put(KindProject, project)
	}
	return set
}

// Put stores a build-wide model.
func (s *ModelSet) Put(kind ModelKind, model any) {
	s.global[kind] = model
}

// PutModule stores a model scoped to the module with the given logical path.
func (s *ModelSet) PutModule(modulePath string, kind ModelKind, model any) {
	models, ok := s.modules[modulePath]
	if !ok {
		models = make(map[ModelKind]any)
		s.modules[modulePath] = models
	}
	models[kind] = model
}

// Get returns a build-wide model.
func (s *ModelSet) Get(kind ModelKind) (any, bool) {
	model, ok := s.global[kind]
	return model, ok
}

// GetModule returns a model scoped to one module.
func (s *ModelSet) GetModule(modulePath string, kind ModelKind) (any, bool) {
	model, ok := s.modules[modulePath][kind]
	return model, ok
}

// Project returns the primary project model, if present.
func (s *ModelSet) Project() *Project {
	model, ok := s.global[KindProject]
	if !ok {
		return nil
	}
	project, _ := model.(*Project)
	return project
}

// Kinds returns the build-wide model kinds present, sorted.
func (s *ModelSet) Kinds() []ModelKind {
	kinds := make([]ModelKind, 0, len(s.global))
	for kind := range s.global {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
