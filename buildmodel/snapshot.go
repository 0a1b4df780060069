package buildmodel

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a model snapshot.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the snapshot format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format: %s", path)
	}
}

// Snapshot is the wire form of everything the build tool reports in one bulk
// fetch. The process provider's init script writes it as JSON; recorded
// snapshots are usually kept as YAML.
type Snapshot struct {
	ToolVersion  string                          `yaml:"toolVersion" json:"toolVersion"`
	Project      *Project                        `yaml:"project" json:"project"`
	Models       SnapshotModels                  `yaml:"models,omitempty" json:"models,omitempty"`
	ModuleModels map[string]SnapshotModuleModels `yaml:"moduleModels,omitempty" json:"moduleModels,omitempty"`
}

// SnapshotModels are the build-wide extra models of a snapshot.
type SnapshotModels struct {
	ProjectDirectories ProjectDirectories `yaml:"projectDirectories,omitempty" json:"projectDirectories,omitempty"`
	ExternalProject    *ExternalProject   `yaml:"externalProject,omitempty" json:"externalProject,omitempty"`
	BuildEnvironment   *BuildEnvironment  `yaml:"buildEnvironment,omitempty" json:"buildEnvironment,omitempty"`
}

// SnapshotModuleModels are the module-scoped extra models of a snapshot.
type SnapshotModuleModels struct {
	BuildScriptClasspath *BuildScriptClasspath `yaml:"buildScriptClasspath,omitempty" json:"buildScriptClasspath,omitempty"`
	Extended             *ModuleExtended       `yaml:"extended,omitempty" json:"extended,omitempty"`
}

// DecodeSnapshot reads a snapshot in the given format.
func DecodeSnapshot(r io.Reader, format Format) (*Snapshot, error) {
	var snapshot Snapshot
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(r)
		decoder.KnownFields(true)
		if err := decoder.Decode(&snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode yaml snapshot: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(r)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode json snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %q", format)
	}

	if snapshot.Project == nil {
		return nil, fmt.Errorf("snapshot has no project model")
	}
	return &snapshot, nil
}

// Version parses the snapshot's tool version.
func (s *Snapshot) Version() (Version, error) {
	return ParseVersion(s.ToolVersion)
}

// ModelSet returns the snapshot's models restricted to the requested kinds.
// The primary project model is always included.
func (s *Snapshot) ModelSet(kinds []ModelKind) *ModelSet {
	requested := make(map[ModelKind]bool, len(kinds))
	for _, kind := range kinds {
		requested[kind] = true
	}

	set := EmptyModelSet(s.Project)
	if requested[KindProjectDirectories] && s.Models.ProjectDirectories != nil {
		set.Put(KindProjectDirectories, s.Models.ProjectDirectories)
	}
	if requested[KindExternalProject] && s.Models.ExternalProject != nil {
		set.Put(KindExternalProject, s.Models.ExternalProject)
	}
	if requested[KindBuildEnvironment] && s.Models.BuildEnvironment != nil {
		set.Put(KindBuildEnvironment, s.Models.BuildEnvironment)
	}

	for path, models := range s.ModuleModels {
		if requested[KindBuildScriptClasspath] && models.BuildScriptClasspath != nil {
			set.PutModule(path, KindBuildScriptClasspath, models.BuildScriptClasspath)
		}
		if requested[KindModuleExtended] && models.Extended != nil {
			set.PutModule(path, KindModuleExtended, models.Extended)
		}
	}

	return set
}

// Model returns a single build-wide model from the snapshot, as used by the
// legacy model-by-model query.
func (s *Snapshot) Model(kind ModelKind) (any, bool) {
	switch kind {
	case KindProject:
		return s.Project, true
	case KindProjectDirectories:
		return s.Models.ProjectDirectories, s.Models.ProjectDirectories != nil
	case KindExternalProject:
		return s.Models.ExternalProject, s.Models.ExternalProject != nil
	case KindBuildEnvironment:
		return s.Models.BuildEnvironment, s.Models.BuildEnvironment != nil
	default:
		return nil, false
	}
}
