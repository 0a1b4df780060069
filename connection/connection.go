// Package connection defines how the importer talks to the external build
// tool: a Provider opens a Session for one project directory, and the session
// answers model queries until it is closed.
package connection

import (
	"context"
	"fmt"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

// Provider opens sessions to the build tool.
type Provider interface {
	Connect(ctx context.Context, projectPath string, s *settings.Settings, l Listener) (Session, error)
}

// Session is an open connection for a single project directory.
type Session interface {
	// ProtocolVersion reports the version of the tool serving the session.
	ProtocolVersion(ctx context.Context) (buildmodel.Version, error)
	// FetchAll runs the bulk action returning the primary model and every
	// requested extra model. Tools too old for it return
	// ErrBulkActionUnsupported.
	FetchAll(ctx context.Context, req Request) (*Result, error)
	// FetchModel queries a single build-wide model.
	FetchModel(ctx context.Context, kind buildmodel.ModelKind, req Request) (any, error)
	Close() error
}

// Request configures one model fetch.
type Request struct {
	ModelKinds   []buildmodel.ModelKind
	JVMArguments []string
	Arguments    []string
	InitScript   string
	// WorkingDir overrides the directory the tool runs in for this call only.
	WorkingDir string
}

// Result is the outcome of a bulk fetch.
type Result struct {
	Project *buildmodel.Project
	Models  *buildmodel.ModelSet
}

// Execute opens a session, hands it to fn and closes it on every exit path,
// panics included. A close failure is reported only when fn succeeded.
func Execute[T any](ctx context.Context, p Provider, projectPath string, s *settings.Settings, l Listener, fn func(context.Context, Session) (T, error)) (result T, err error) {
	if l == nil {
		l = NopListener{}
	}
	session, err := p.Connect(ctx, projectPath, s, l)
	if err != nil {
		return result, fmt.Errorf("failed to connect to build at %s: %w", projectPath, err)
	}
	defer func() {
		closeErr := session.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close build session: %w", closeErr)
		}
	}()

	return fn(ctx, session)
}
