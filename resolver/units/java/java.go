// Package java contributes JVM language data and debugger support.
package java

import (
	"fmt"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

const (
	ID = "java"

	DefaultDebugPort = 5005
)

// Unit resolves the project's language level and JDK.
type Unit struct {
	DebugPort int
}

// New returns the java unit with the default debug port.
func New() resolver.Unit {
	return &Unit{DebugPort: DefaultDebugPort}
}

func (*Unit) ID() string { return ID }

// Description is shown by the extensions command.
func (*Unit) Description() string {
	return "language level, JDK and debugger support for JVM projects"
}

func (*Unit) CreateLanguageData(rc *resolver.Context, model *buildmodel.Project, next resolver.CreateLanguageDataFunc) (*projectgraph.LanguageData, error) {
	if model.LanguageLevel == "" && model.JDKName == "" {
		return next(rc, model)
	}
	rc.Logger().Debug("resolved language data", "languageLevel", model.LanguageLevel, "jdk", model.JDKName)
	return &projectgraph.LanguageData{
		LanguageLevel: model.LanguageLevel,
		JDKName:       model.JDKName,
	}, nil
}

func (u *Unit) EnhanceTaskProcessing(run *resolver.TaskRun, next resolver.EnhanceTaskProcessingFunc) {
	if run.Debugger {
		run.JVMArguments = append(run.JVMArguments, u.agentArgument())
	}
	next(run)
}

func (u *Unit) agentArgument() string {
	port := u.DebugPort
	if port == 0 {
		port = DefaultDebugPort
	}
	return fmt.Sprintf("-agentlib:jdwp=transport=dt_socket,server=y,suspend=y,address=%d", port)
}
