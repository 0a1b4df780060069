package taskrun

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/projectimport/importer"
	"github.com/LegacyCodeHQ/projectimport/internal/ctxlog"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

type taskRunOptions struct {
	projectPath string
	debug       bool
	extensions  []string
}

// Cmd represents the task-run command.
var Cmd = NewCommand()

// NewCommand returns a new task-run command instance.
func NewCommand() *cobra.Command {
	opts := &taskRunOptions{}

	cmd := &cobra.Command{
		Use:   "task-run TASK... [-- BUILD-ARGS...]",
		Short: "Show how the resolver chain prepares a task execution",
		Long: `Task-run prints the JVM arguments, build arguments and init script the
resolver chain prepares for running the given tasks. Arguments after -- are
passed to the build tool; --tests patterns among them are moved into the
init script.`,
		Example: `  projectimport task-run test -- --tests 'com.acme.*Test' --info
  projectimport task-run run --debug`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, buildArgs := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				tasks, buildArgs = args[:dash], args[dash:]
			}
			if len(tasks) == 0 {
				return fmt.Errorf("at least one task name is required before --")
			}
			return runTaskRun(cmd, opts, tasks, buildArgs)
		},
	}

	cmd.Flags().StringVarP(&opts.projectPath, "project", "p", ".", "Project whose settings select the resolver chain")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Attach a debugger to the task JVM")
	cmd.Flags().StringSliceVar(&opts.extensions, "extensions", nil, "Resolver extension ids in chain order, ending with base")

	return cmd
}

func runTaskRun(cmd *cobra.Command, opts *taskRunOptions, tasks, buildArgs []string) error {
	s, err := settings.Load(opts.projectPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("extensions") {
		s = s.Clone()
		if s == nil {
			s = settings.Default()
		}
		s.ResolverExtensions = opts.extensions
	}

	chain, err := importer.New(importer.Options{Logger: ctxlog.FromContext(cmd.Context())}).Chain(s)
	if err != nil {
		return err
	}
	run := importer.PrepareTaskRun(chain, tasks, buildArgs, opts.debug)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tasks: %s\n", strings.Join(run.TaskNames, " "))
	fmt.Fprintf(out, "jvm arguments: %s\n", strings.Join(run.JVMArguments, " "))
	fmt.Fprintf(out, "arguments: %s\n", strings.Join(run.Arguments, " "))
	if run.InitScript != "" {
		fmt.Fprintf(out, "init script:\n%s", run.InitScript)
	}
	return nil
}
