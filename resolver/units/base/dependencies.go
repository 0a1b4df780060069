package base

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

// UnresolvedMarker prefixes the binary path of a dependency the build tool
// could not resolve. The rest of the path is the requested notation.
const UnresolvedMarker = "unresolved dependency - "

const toolLibraryPrefix = "gradle-"

var (
	versionSuffix   = regexp.MustCompile(`-\d[\w.\-]*$`)
	unsafePathRunes = regexp.MustCompile(`[^A-Za-z0-9._\-]+`)
)

func (*Unit) PopulateDependencies(rc *resolver.Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error {
	owner, ok := projectgraph.DataOf[projectgraph.ModuleData](g, h)
	if !ok {
		return fmt.Errorf("node %d is not a module", h)
	}

	for _, dep := range module.Dependencies {
		switch dep.Kind {
		case buildmodel.DependencyModule:
			_, err := g.LinkModuleDependency(h, projectgraph.ModuleDependencyData{
				Exported: dep.Exported,
				Scope:    dep.Scope,
			}, dep.Module)
			if err != nil {
				return fmt.Errorf("module %s: %w", module.Name, err)
			}
		case buildmodel.DependencyLibrary:
			data := LibraryDependency(rc, owner.ID, dep)
			if data.Level == projectgraph.LevelProject {
				data = BindLibrary(rc, g, data)
			}
			g.Add(h, data)
		default:
			rc.Logger().Warn("skipping dependency of unknown kind", "module", module.Name, "kind", dep.Kind)
		}
	}
	return nil
}

// LibraryDependency builds the library dependency record for a reported
// dependency. Project-level records are not yet bound to the pool.
func LibraryDependency(rc *resolver.Context, ownerID string, dep buildmodel.Dependency) projectgraph.LibraryDependencyData {
	data := projectgraph.LibraryDependencyData{
		OwnerID:  ownerID,
		Level:    projectgraph.LevelModule,
		Ref:      projectgraph.NoHandle,
		Exported: dep.Exported,
		Scope:    dep.Scope,
	}

	if payload, ok := strings.CutPrefix(dep.File, UnresolvedMarker); ok {
		data.Library = projectgraph.LibraryData{
			Name:       strings.ReplaceAll(strings.TrimSpace(payload), " ", ":"),
			Unresolved: true,
		}
		if dep.Coordinates != nil {
			data.Level = projectgraph.LevelProject
		}
		return data
	}

	library := projectgraph.LibraryData{
		Name:     libraryNameFromBinary(dep.File),
		Binaries: nonEmpty(dep.File),
		Sources:  nonEmpty(dep.Source),
		Docs:     nonEmpty(dep.Javadoc),
	}
	if dep.Coordinates != nil {
		library.Name = dep.Coordinates.String()
		data.Level = projectgraph.LevelProject
	}
	if len(library.Sources) == 0 {
		if dir := bundledSources(rc, dep.File, libraryNameFromBinary(dep.File)); dir != "" {
			library.Sources = []string{dir}
		}
	}
	data.Library = library
	return data
}

// BindLibrary registers a project-level library in the graph's pool. A name
// clash with different content downgrades the dependency to module level.
func BindLibrary(rc *resolver.Context, g *projectgraph.Graph, data projectgraph.LibraryDependencyData) projectgraph.LibraryDependencyData {
	bound, err := g.BindLibrary(data)
	if err != nil {
		rc.Logger().Info("library conflicts with the project pool, keeping it module-local",
			"library", data.Library.Name, "module", data.OwnerID, "error", err)
	}
	return bound
}

func libraryNameFromBinary(path string) string {
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return strings.Trim(unsafePathRunes.ReplaceAllString(filepath.ToSlash(path), "_"), "_")
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// bundledSources finds the source directory shipped with a tool installation
// for one of the tool's own jars.
func bundledSources(rc *resolver.Context, binary, name string) string {
	home := rc.Settings().OrDefault().HomePath
	if home == "" || binary == "" || name == "" {
		return ""
	}
	rel, err := filepath.Rel(home, binary)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}

	stripped := strings.TrimPrefix(versionSuffix.ReplaceAllString(name, ""), toolLibraryPrefix)
	dir := filepath.Join(home, "src", stripped)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}

func nonEmpty(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}
