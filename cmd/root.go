package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/projectimport/cmd/extensions"
	"github.com/LegacyCodeHQ/projectimport/cmd/importcmd"
	"github.com/LegacyCodeHQ/projectimport/cmd/initscriptcmd"
	"github.com/LegacyCodeHQ/projectimport/cmd/taskrun"
	"github.com/LegacyCodeHQ/projectimport/cmd/watch"
	"github.com/LegacyCodeHQ/projectimport/internal/ctxlog"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

var (
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "projectimport",
	Short: "Import build-tool projects into a project graph",
	Long: `Projectimport asks the build tool of a project for its object model and
turns it into a project graph: modules, content roots, module and library
dependencies, and runnable tasks.

Use 'projectimport --help' to see all available commands, or
'projectimport <command> --help' for detailed information about a specific command.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func setupLogger(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(logLevel, logFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	return nil
}

func init() {
	// Register subcommands
	rootCmd.AddCommand(importcmd.Cmd)
	rootCmd.AddCommand(watch.Cmd)
	rootCmd.AddCommand(extensions.Cmd)
	rootCmd.AddCommand(initscriptcmd.Cmd)
	rootCmd.AddCommand(taskrun.Cmd)

	// Initialize annotations for version template
	if rootCmd.Annotations == nil {
		rootCmd.Annotations = make(map[string]string)
	}
	rootCmd.Annotations["buildDate"] = buildDate
	rootCmd.Annotations["commit"] = commit

	// Update version field dynamically (in case it was set via ldflags)
	rootCmd.Version = version

	// Customize version template to show additional build info
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}
