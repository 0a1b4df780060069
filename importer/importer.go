// Package importer turns a build directory into a project graph. An import
// runs in two phases: Acquire opens a session with the build tool and fetches
// every model the resolver chain asks for, and Populate walks the fetched
// models through the chain to build the graph.
package importer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/LegacyCodeHQ/projectimport/connection"
	"github.com/LegacyCodeHQ/projectimport/failure"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
	"github.com/LegacyCodeHQ/projectimport/resolver/registry"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

const (
	// DefaultAuxiliaryDir is the build-support sub-project merged into the
	// main graph.
	DefaultAuxiliaryDir = "buildSrc"

	tracerName = "github.com/LegacyCodeHQ/projectimport/importer"
)

var rootBuildFiles = []string{"build.gradle.kts", "build.gradle"}

// Options configure an Importer. Zero values select the defaults.
type Options struct {
	Provider     connection.Provider
	Registry     *registry.Registry
	Logger       *slog.Logger
	Tracer       trace.Tracer
	AuxiliaryDir string
}

// Importer runs imports. It holds no per-import state and may be shared.
type Importer struct {
	provider     connection.Provider
	registry     *registry.Registry
	logger       *slog.Logger
	tracer       trace.Tracer
	auxiliaryDir string
}

func New(opts Options) *Importer {
	im := &Importer{
		provider:     opts.Provider,
		registry:     opts.Registry,
		logger:       opts.Logger,
		tracer:       opts.Tracer,
		auxiliaryDir: opts.AuxiliaryDir,
	}
	if im.provider == nil {
		im.provider = &connection.ProcessProvider{}
	}
	if im.registry == nil {
		im.registry = registry.Default()
	}
	if im.logger == nil {
		im.logger = slog.New(slog.DiscardHandler)
	}
	if im.tracer == nil {
		im.tracer = otel.Tracer(tracerName)
	}
	if im.auxiliaryDir == "" {
		im.auxiliaryDir = DefaultAuxiliaryDir
	}
	return im
}

// Request describes one import.
type Request struct {
	// TaskID identifies the import in logs and listener events. A random id is
	// generated when empty.
	TaskID      string
	ProjectPath string
	// Settings may be nil, which means defaults.
	Settings *settings.Settings
	Listener connection.Listener
	// Preview skips the auxiliary sub-project pass.
	Preview bool
}

// Result is a successful import.
type Result struct {
	Graph       *projectgraph.Graph
	Diagnostics []resolver.Diagnostic
}

// Chain builds the resolver chain configured by s. A bad configuration is
// reported as an *failure.ImportError.
func (im *Importer) Chain(s *settings.Settings) (*resolver.Chain, error) {
	ids := s.OrDefault().ResolverExtensions
	if len(ids) == 0 {
		ids = registry.DefaultExtensions
	}
	chain, err := im.registry.Build(ids)
	if err != nil {
		return nil, failure.New("invalid resolver configuration: "+err.Error(), err)
	}
	return chain, nil
}

// Resolve imports the project at req.ProjectPath. Fatal failures are returned
// as *failure.ImportError values produced by the chain's error translation.
func (im *Importer) Resolve(ctx context.Context, req Request) (*Result, error) {
	if req.TaskID == "" {
		req.TaskID = uuid.NewString()
	}
	if req.Listener == nil {
		req.Listener = connection.NopListener{}
	}
	projectPath, err := filepath.Abs(req.ProjectPath)
	if err != nil {
		return nil, failure.New("failed to resolve project path: "+err.Error(), err)
	}
	req.ProjectPath = projectPath

	ctx, span := im.tracer.Start(ctx, "importer.Resolve", trace.WithAttributes(
		attribute.String("import.task_id", req.TaskID),
		attribute.String("import.project_path", projectPath),
		attribute.Bool("import.preview", req.Preview),
	))
	defer span.End()

	logger := im.logger.With("task", req.TaskID, "project", projectPath)
	logger.Info("import started")
	req.Listener.OnStart(req.TaskID)

	chain, err := im.Chain(req.Settings)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chain construction failed")
		return nil, err
	}
	span.SetAttributes(attribute.StringSlice("import.extensions", chain.IDs()))
	logger.Debug("resolver chain built", "units", chain.IDs())

	diagnostics := &resolver.Diagnostics{}
	g, err := im.run(ctx, chain, pass{path: projectPath}, req, diagnostics, logger)
	if err != nil {
		translated := chain.UserFriendlyError(err, projectPath, RootBuildFile(projectPath))
		logger.Error("import failed", "category", translated.Category, "error", err)
		span.RecordError(translated)
		span.SetStatus(codes.Error, string(translated.Category))
		return nil, translated
	}

	im.mergeAuxiliary(ctx, chain, req, g, diagnostics, logger)
	g.Seal()

	span.SetAttributes(
		attribute.Int("import.modules", len(g.Modules())),
		attribute.Int("import.libraries", len(g.Libraries())),
		attribute.Int("import.diagnostics", diagnostics.Len()),
	)
	span.SetStatus(codes.Ok, "")
	logger.Info("import finished", "modules", len(g.Modules()), "nodes", g.Len(), "diagnostics", diagnostics.Len())
	return &Result{Graph: g, Diagnostics: diagnostics.Items()}, nil
}

// pass selects the directory an Acquire+Populate run works on.
type pass struct {
	path      string
	auxiliary bool
}

func (im *Importer) run(ctx context.Context, chain *resolver.Chain, p pass, req Request, diagnostics *resolver.Diagnostics, logger *slog.Logger) (*projectgraph.Graph, error) {
	rc, err := im.acquire(ctx, chain, p, req, diagnostics, logger)
	if err != nil {
		return nil, err
	}
	return im.populate(ctx, chain, rc)
}

// RootBuildFile returns the build script at the project root, or "" if there
// is none.
func RootBuildFile(projectPath string) string {
	for _, name := range rootBuildFiles {
		path := filepath.Join(projectPath, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
