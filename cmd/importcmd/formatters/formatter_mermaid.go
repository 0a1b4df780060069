package formatters

import (
	"fmt"
	"strings"
)

// MermaidFormatter formats the module and library dependencies as a
// Mermaid.js flowchart.
type MermaidFormatter struct{}

// Format converts the view to Mermaid.js flowchart format.
func (f *MermaidFormatter) Format(v View) (string, error) {
	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("title: %s\n", v.Project.Name))
	sb.WriteString("---\n")
	sb.WriteString("flowchart LR\n")

	// Mermaid node IDs can't have dots or colons
	moduleIDs := make(map[string]string, len(v.Modules))
	for i, m := range v.Modules {
		id := fmt.Sprintf("m%d", i)
		moduleIDs[m.Name] = id
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, m.Name))
	}
	libraryIDs := make(map[string]string)
	for i, name := range libraryNames(v) {
		id := fmt.Sprintf("l%d", i)
		libraryIDs[name] = id
		sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", id, name))
	}

	for _, m := range v.Modules {
		for _, dep := range m.ModuleDependencies {
			target, ok := moduleIDs[v.ModuleName(dep.TargetID)]
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", moduleIDs[m.Name], target))
		}
	}
	for _, m := range v.Modules {
		for _, dep := range m.LibraryDependencies {
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", moduleIDs[m.Name], libraryIDs[dep.Library.Name]))
		}
	}

	return sb.String(), nil
}
