package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

const auxiliarySource = "auxiliary"

// mergeAuxiliary imports the build-support sub-project in a separate pass and
// copies its module and libraries into g. Failures never fail the main import;
// they are recorded as diagnostics.
func (im *Importer) mergeAuxiliary(ctx context.Context, chain *resolver.Chain, req Request, g *projectgraph.Graph, diagnostics *resolver.Diagnostics, logger *slog.Logger) {
	dir := im.auxiliaryPath(req.ProjectPath)
	if hasModuleAt(g, dir) {
		logger.Debug("build-support project is already a module of the build", "dir", dir)
		return
	}
	if req.Preview {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}

	ctx, span := im.tracer.Start(ctx, "importer.auxiliary")
	defer span.End()
	span.SetAttributes(attribute.String("import.auxiliary_path", dir))

	logger = logger.With("auxiliary", dir)
	logger.Info("importing build-support project")

	aux, err := im.run(ctx, chain, pass{path: dir, auxiliary: true}, req, diagnostics, logger)
	if err == nil {
		err = copyAuxiliary(g, aux, dir)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build-support import failed")
		logger.Warn("build-support project was not imported", "error", err)
		diagnostics.Add(auxiliarySource, fmt.Sprintf("build-support project %s was not imported", dir), err)
	}
}

func copyAuxiliary(g, aux *projectgraph.Graph, dir string) error {
	modules := aux.Modules()
	if len(modules) == 0 {
		return errors.New("build-support project has no modules")
	}
	module := modules[0]
	for _, h := range modules {
		if data, ok := projectgraph.DataOf[projectgraph.ModuleData](aux, h); ok && data.ConfigPath == dir {
			module = h
			break
		}
	}

	if _, err := g.CopyModule(aux, module); err != nil {
		return err
	}

	for _, h := range aux.Libraries() {
		library, _ := projectgraph.DataOf[projectgraph.LibraryData](aux, h)
		if _, exists := g.FindLibrary(library.Name); exists {
			continue
		}
		if _, err := g.RegisterLibrary(library); err != nil {
			return err
		}
	}
	return nil
}

func hasModuleAt(g *projectgraph.Graph, dir string) bool {
	for _, h := range g.Modules() {
		if data, ok := projectgraph.DataOf[projectgraph.ModuleData](g, h); ok && data.ConfigPath == dir {
			return true
		}
	}
	return false
}
