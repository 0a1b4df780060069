package initscriptcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/initscript"
)

type initScriptOptions struct {
	toolVersion string
	buildSrc    bool
	exporter    bool
	tests       []string
}

// Cmd represents the init-script command.
var Cmd = NewCommand()

// NewCommand returns a new init-script command instance.
func NewCommand() *cobra.Command {
	opts := &initScriptOptions{}

	cmd := &cobra.Command{
		Use:   "init-script [jars...]",
		Short: "Print an init script passed to the build tool",
		Long: `Print the init script that loads the given extension jars into the build
tool, rendered for --tool-version.

--exporter prints the model exporter script instead, and --tests prints the
test filter script for the given patterns.`,
		Example: `  projectimport init-script --tool-version 3.5 /opt/ext/model.jar
  projectimport init-script --build-src
  projectimport init-script --tests 'com.acme.*Test'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := renderScript(opts, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), script)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.toolVersion, "tool-version", buildmodel.InitScriptDSLVersion.Raw, "Build tool version the script is rendered for")
	cmd.Flags().BoolVar(&opts.buildSrc, "build-src", false, "Append the build-support sub-project script")
	cmd.Flags().BoolVar(&opts.exporter, "exporter", false, "Print the model exporter script")
	cmd.Flags().StringSliceVar(&opts.tests, "tests", nil, "Print the test filter script for these patterns")
	cmd.MarkFlagsMutuallyExclusive("exporter", "tests")

	return cmd
}

func renderScript(opts *initScriptOptions, jars []string) (string, error) {
	switch {
	case opts.exporter:
		return initscript.Exporter(), nil
	case len(opts.tests) > 0:
		return initscript.TestFilterScript(opts.tests), nil
	}

	version, err := buildmodel.ParseVersion(opts.toolVersion)
	if err != nil {
		return "", fmt.Errorf("invalid --tool-version: %w", err)
	}
	return initscript.Generate(version, opts.buildSrc, jars), nil
}
