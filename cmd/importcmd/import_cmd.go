package importcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/projectimport/cmd/importcmd/formatters"
)

// Cmd represents the import command
var Cmd = NewCommand()

// NewCommand returns a new import command instance.
func NewCommand() *cobra.Command {
	var opts Options
	var format string

	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Import a project and print its project graph",
		Long: `Import asks the build tool of the project in dir (default: the current
directory) for its object model and prints the resulting project graph.

With --snapshot the models are read from a recorded snapshot instead of
running the build tool.`,
		Example: `  projectimport import
  projectimport import ./service --format dot | dot -Tsvg > service.svg
  projectimport import --snapshot --format json
  projectimport import --extensions external-project,base --offline`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := formatters.NewFormatter(format)
			if err != nil {
				return err
			}

			result, err := opts.Import(cmd, ProjectDir(args))
			if err != nil {
				return err
			}

			output, err := formatter.Format(formatters.NewView(result.Graph, result.Diagnostics))
			if err != nil {
				return fmt.Errorf("failed to format project graph: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), output)
			return err
		},
	}

	opts.AddFlags(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatters.OutputFormatText.String(),
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))

	return cmd
}
