package resolver

import (
	"errors"
	"log/slog"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/connection"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

// ErrModelsNotAttached is the panic value raised when extra models are read
// before the fetch stage has attached them.
var ErrModelsNotAttached = errors.New("resolver: models are not attached yet")

// ErrModelsAlreadyAttached is the panic value raised by a second AttachModels.
var ErrModelsAlreadyAttached = errors.New("resolver: models are already attached")

// ContextOptions are the fixed inputs of a Context.
type ContextOptions struct {
	TaskID      string
	ProjectPath string
	Settings    *settings.Settings
	Session     connection.Session
	Listener    connection.Listener
	Preview     bool
	Auxiliary   bool
	Logger      *slog.Logger
	Diagnostics *Diagnostics
}

// Context is the per-attempt state shared by every unit. Everything is fixed at
// construction except the model set, which is attached once after the fetch.
type Context struct {
	opts   ContextOptions
	models *buildmodel.ModelSet
}

// NewContext creates a context for one import attempt.
func NewContext(opts ContextOptions) *Context {
	if opts.Listener == nil {
		opts.Listener = connection.NopListener{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = &Diagnostics{}
	}
	return &Context{opts: opts}
}

func (c *Context) TaskID() string                { return c.opts.TaskID }
func (c *Context) ProjectPath() string           { return c.opts.ProjectPath }
func (c *Context) Session() connection.Session   { return c.opts.Session }
func (c *Context) Listener() connection.Listener { return c.opts.Listener }
func (c *Context) Preview() bool                 { return c.opts.Preview }
func (c *Context) Auxiliary() bool               { return c.opts.Auxiliary }
func (c *Context) Logger() *slog.Logger          { return c.opts.Logger }
func (c *Context) Diagnostics() *Diagnostics     { return c.opts.Diagnostics }

// Settings returns the settings record; nil means defaults.
func (c *Context) Settings() *settings.Settings {
	return c.opts.Settings
}

// AttachModels stores the fetched model set. It may be called once.
func (c *Context) AttachModels(models *buildmodel.ModelSet) {
	if c.models != nil {
		panic(ErrModelsAlreadyAttached)
	}
	if models == nil {
		models = buildmodel.NewModelSet()
	}
	c.models = models
}

// ModelsAttached reports whether AttachModels has been called.
func (c *Context) ModelsAttached() bool {
	return c.models != nil
}

// Models returns the attached model set.
func (c *Context) Models() *buildmodel.ModelSet {
	if c.models == nil {
		panic(ErrModelsNotAttached)
	}
	return c.models
}

// Model returns a build-wide extra model of type T.
func Model[T any](c *Context, kind buildmodel.ModelKind) (T, bool) {
	var zero T
	model, ok := c.Models().Get(kind)
	if !ok {
		return zero, false
	}
	typed, ok := model.(T)
	return typed, ok
}

// ModuleModel returns an extra model of type T scoped to one module.
func ModuleModel[T any](c *Context, modulePath string, kind buildmodel.ModelKind) (T, bool) {
	var zero T
	model, ok := c.Models().GetModule(modulePath, kind)
	if !ok {
		return zero, false
	}
	typed, ok := model.(T)
	return typed, ok
}
