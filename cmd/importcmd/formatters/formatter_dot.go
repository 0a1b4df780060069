package formatters

import (
	"fmt"
	"strings"
)

// DOTFormatter formats the module and library dependencies as Graphviz DOT.
type DOTFormatter struct{}

// Format emits one box per module and one ellipse per library. Module edges
// are solid and library edges dashed.
func (f *DOTFormatter) Format(v View) (string, error) {
	var sb strings.Builder
	sb.WriteString("digraph project {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")
	sb.WriteString(fmt.Sprintf("  label=%q;\n", v.Project.Name))
	sb.WriteString("  labelloc=t;\n")
	sb.WriteString("  labeljust=l;\n")
	sb.WriteString("\n")

	for _, m := range v.Modules {
		sb.WriteString(fmt.Sprintf("  %q;\n", m.Name))
	}

	libraries := libraryNames(v)
	for _, name := range libraries {
		sb.WriteString(fmt.Sprintf("  %q [shape=ellipse, style=filled, fillcolor=lightgrey];\n", name))
	}

	hasEdges := false
	for _, m := range v.Modules {
		for _, dep := range m.ModuleDependencies {
			if !hasEdges {
				sb.WriteString("\n")
				hasEdges = true
			}
			sb.WriteString(fmt.Sprintf("  %q -> %q%s;\n", m.Name, v.ModuleName(dep.TargetID), edgeLabel(string(dep.Scope))))
		}
	}
	for _, m := range v.Modules {
		for _, dep := range m.LibraryDependencies {
			if !hasEdges {
				sb.WriteString("\n")
				hasEdges = true
			}
			sb.WriteString(fmt.Sprintf("  %q -> %q [style=dashed];\n", m.Name, dep.Library.Name))
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

func edgeLabel(scope string) string {
	if scope == "" {
		return ""
	}
	return fmt.Sprintf(" [label=%q]", scope)
}

// libraryNames returns every library referenced by a module, in first-use
// order.
func libraryNames(v View) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range v.Modules {
		for _, dep := range m.LibraryDependencies {
			if seen[dep.Library.Name] {
				continue
			}
			seen[dep.Library.Name] = true
			names = append(names, dep.Library.Name)
		}
	}
	return names
}
