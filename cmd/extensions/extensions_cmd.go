package extensions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/projectimport/resolver"
	"github.com/LegacyCodeHQ/projectimport/resolver/registry"
)

// Cmd represents the extensions command.
var Cmd = NewCommand()

// NewCommand returns a new extensions command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "List the registered resolver extensions",
		Long: `List every registered resolver extension in registry order, followed by the
chain used when the settings name none.

Examples:
  projectimport extensions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printExtensions(cmd, registry.Default())
		},
	}

	return cmd
}

func printExtensions(cmd *cobra.Command, r *registry.Registry) error {
	out := cmd.OutOrStdout()
	for _, id := range r.IDs() {
		var tags []string
		if slices.Contains(registry.DefaultExtensions, id) {
			tags = append(tags, "default")
		}
		if id == resolver.BaseID {
			tags = append(tags, "terminal")
		}

		line := id
		if len(tags) > 0 {
			line += " (" + strings.Join(tags, ", ") + ")"
		}
		if description, _ := r.Describe(id); description != "" {
			line += " - " + description
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(out, "\nDefault chain: %s\n", strings.Join(registry.DefaultExtensions, " -> "))
	return err
}
