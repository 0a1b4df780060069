package formatters

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/projectimport/projectgraph"
)

// TextFormatter renders an indented, human-readable outline.
type TextFormatter struct{}

// Format renders the project, its modules, the library pool, root tasks and
// diagnostics in that order.
func (f *TextFormatter) Format(v View) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "project %s (%s)\n", v.Project.Name, v.Project.SystemID)
	fmt.Fprintf(&sb, "  root: %s\n", v.Project.RootPath)
	if v.Language != nil {
		fmt.Fprintf(&sb, "  language level: %s\n", orNone(v.Language.LanguageLevel))
		fmt.Fprintf(&sb, "  jdk: %s\n", orNone(v.Language.JDKName))
	}
	if v.ExternalProject {
		sb.WriteString("  external project model attached\n")
	}

	sb.WriteString("\nmodules:\n")
	for _, m := range v.Modules {
		writeModule(&sb, v, m)
	}

	if len(v.Libraries) > 0 {
		sb.WriteString("\nlibraries:\n")
		for _, lib := range v.Libraries {
			fmt.Fprintf(&sb, "  %s%s\n", lib.Name, unresolvedSuffix(lib))
			writePaths(&sb, "    binary", lib.Binaries)
			writePaths(&sb, "    sources", lib.Sources)
			writePaths(&sb, "    docs", lib.Docs)
		}
	}

	if len(v.Tasks) > 0 {
		sb.WriteString("\ntasks:\n")
		for _, task := range v.Tasks {
			writeTask(&sb, "  ", task)
		}
	}

	if len(v.Diagnostics) > 0 {
		sb.WriteString("\ndiagnostics:\n")
		for _, d := range v.Diagnostics {
			fmt.Fprintf(&sb, "  [%s] %s\n", d.Source, d.Message)
			if d.Error != "" {
				fmt.Fprintf(&sb, "    %s\n", d.Error)
			}
		}
	}

	return sb.String(), nil
}

func writeModule(sb *strings.Builder, v View, m ModuleView) {
	fmt.Fprintf(sb, "  %s", m.Name)
	if m.Path != "" {
		fmt.Fprintf(sb, " (%s)", m.Path)
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "    config: %s\n", m.ConfigPath)

	for _, root := range m.ContentRoots {
		fmt.Fprintf(sb, "    content root: %s\n", root.Root)
		for _, kind := range projectgraph.SourceKinds {
			writePaths(sb, "      "+string(kind), root.PathsOf(kind))
		}
	}

	for _, kind := range projectgraph.SourceKinds {
		if dir, ok := m.Outputs[kind]; ok {
			fmt.Fprintf(sb, "    output %s: %s\n", kind, dir)
		}
	}
	if m.InheritProjectOutput {
		sb.WriteString("    inherits project output\n")
	}

	for _, dep := range m.ModuleDependencies {
		fmt.Fprintf(sb, "    -> module %s%s\n", v.ModuleName(dep.TargetID), qualifiers(string(dep.Scope), dep.Exported))
	}
	for _, dep := range m.LibraryDependencies {
		fmt.Fprintf(sb, "    -> library %s [%s]%s%s\n", dep.Library.Name, dep.Level, qualifiers(string(dep.Scope), dep.Exported), unresolvedSuffix(dep.Library))
	}
	if m.Classpath != nil {
		fmt.Fprintf(sb, "    build script classpath: %d entries\n", len(m.Classpath.Entries))
	}
	for _, task := range m.Tasks {
		writeTask(sb, "    task ", task)
	}
}

func writeTask(sb *strings.Builder, prefix string, task projectgraph.TaskData) {
	sb.WriteString(prefix)
	sb.WriteString(task.Name)
	if task.Description != "" {
		fmt.Fprintf(sb, " - %s", task.Description)
	}
	sb.WriteString("\n")
}

func writePaths(sb *strings.Builder, label string, paths []string) {
	for _, p := range paths {
		fmt.Fprintf(sb, "%s: %s\n", label, p)
	}
}

func qualifiers(scope string, exported bool) string {
	var parts []string
	if scope != "" {
		parts = append(parts, scope)
	}
	if exported {
		parts = append(parts, "exported")
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func unresolvedSuffix(lib projectgraph.LibraryData) string {
	if lib.Unresolved {
		return " UNRESOLVED"
	}
	return ""
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}
