package importer

import (
	"slices"
	"strings"

	"github.com/LegacyCodeHQ/projectimport/initscript"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

// TaskRun is a prepared task execution: the arguments to pass to the build
// tool and the init script to load before the tasks run.
type TaskRun struct {
	TaskNames    []string
	JVMArguments []string
	Arguments    []string
	InitScript   string
}

// PrepareTaskRun builds the execution of taskNames. Test-name filters given as
// --tests arguments are moved into an init script; every unit of the chain may
// then contribute arguments and scripts.
func PrepareTaskRun(chain *resolver.Chain, taskNames, args []string, debugger bool) TaskRun {
	filters, rest := initscript.ExtractTestFilters(args)

	run := &resolver.TaskRun{
		TaskNames:    slices.Clone(taskNames),
		Debugger:     debugger,
		JVMArguments: chain.JVMArguments(),
		Arguments:    append(chain.Arguments(), rest...),
	}
	if len(filters) > 0 {
		run.InitScripts = append(run.InitScripts, initscript.TestFilterScript(filters))
	}
	chain.EnhanceTaskProcessing(run)

	return TaskRun{
		TaskNames:    run.TaskNames,
		JVMArguments: run.JVMArguments,
		Arguments:    run.Arguments,
		InitScript:   joinScripts(run.InitScripts),
	}
}

func joinScripts(scripts []string) string {
	scripts = slices.DeleteFunc(slices.Clone(scripts), func(s string) bool { return s == "" })
	return strings.Join(scripts, "\n")
}
