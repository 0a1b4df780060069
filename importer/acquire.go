package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/connection"
	"github.com/LegacyCodeHQ/projectimport/initscript"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

const offlineArgument = "--offline"

// acquire runs the pre-import checks, opens a session and fetches every model
// the chain asks for. The returned context has its models attached.
func (im *Importer) acquire(ctx context.Context, chain *resolver.Chain, p pass, req Request, diagnostics *resolver.Diagnostics, logger *slog.Logger) (*resolver.Context, error) {
	ctx, span := im.tracer.Start(ctx, "importer.acquire")
	defer span.End()
	span.SetAttributes(attribute.Bool("import.auxiliary", p.auxiliary))

	if err := chain.PreImportCheck(ctx, p.path, req.Settings); err != nil {
		return nil, err
	}

	fetch := connection.Request{
		ModelKinds:   chain.ModelKinds(),
		JVMArguments: chain.JVMArguments(),
		Arguments:    chain.Arguments(),
	}
	files := chain.ExtensionFiles()
	if req.Settings.OrDefault().Offline {
		fetch.Arguments = append(fetch.Arguments, offlineArgument)
	}

	return connection.Execute(ctx, im.provider, p.path, req.Settings, req.Listener, func(ctx context.Context, session connection.Session) (*resolver.Context, error) {
		rc := resolver.NewContext(resolver.ContextOptions{
			TaskID:      req.TaskID,
			ProjectPath: p.path,
			Settings:    req.Settings,
			Session:     session,
			Listener:    req.Listener,
			Preview:     req.Preview,
			Auxiliary:   p.auxiliary,
			Logger:      logger,
			Diagnostics: diagnostics,
		})

		version, err := session.ProtocolVersion(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to determine the build tool version: %w", err)
		}
		span.SetAttributes(attribute.String("import.tool_version", version.String()))
		if !version.AtLeast(buildmodel.MinimumSupportedVersion) {
			return nil, &connection.UnsupportedVersionError{Version: version, Minimum: buildmodel.MinimumSupportedVersion}
		}

		fetch.JVMArguments = mergeEnvironment(ctx, rc, session, fetch.JVMArguments)
		if len(files) > 0 || p.auxiliary {
			fetch.InitScript = initscript.Generate(version, p.auxiliary, files)
		}

		req.Listener.OnStatusChange("fetching build models")
		models, err := fetchModels(ctx, rc, session, version, fetch)
		if err != nil {
			return nil, err
		}
		rc.AttachModels(models)
		return rc, nil
	})
}

// mergeEnvironment prepends the JVM arguments the build environment already
// uses. The environment model is optional: a failure to fetch it is recorded
// as a diagnostic and the chain's arguments are used unchanged.
func mergeEnvironment(ctx context.Context, rc *resolver.Context, session connection.Session, extra []string) []string {
	model, err := session.FetchModel(ctx, buildmodel.KindBuildEnvironment, connection.Request{})
	if err == nil {
		if env, ok := model.(*buildmodel.BuildEnvironment); ok && env != nil {
			merged := slices.Clone(env.JVMArguments)
			for _, arg := range extra {
				if !slices.Contains(merged, arg) {
					merged = append(merged, arg)
				}
			}
			return merged
		}
		err = fmt.Errorf("unexpected build environment model %T", model)
	}

	rc.Logger().Warn("build environment unavailable, JVM arguments not merged", "error", err)
	rc.Diagnostics().Add("build-environment", "build environment unavailable; JVM arguments not merged", err)
	return extra
}

// fetchModels runs the bulk fetch, falling back to a single project query for
// tools that cannot run it.
func fetchModels(ctx context.Context, rc *resolver.Context, session connection.Session, version buildmodel.Version, fetch connection.Request) (*buildmodel.ModelSet, error) {
	if version.AtLeast(buildmodel.BulkActionVersion) {
		result, err := session.FetchAll(ctx, fetch)
		switch {
		case err == nil:
			if result.Models != nil {
				return result.Models, nil
			}
			return buildmodel.EmptyModelSet(result.Project), nil
		case !errors.Is(err, connection.ErrBulkActionUnsupported):
			return nil, err
		}
	}

	rc.Logger().Info("bulk model fetch unavailable, querying the project model only", "version", version.String())
	model, err := session.FetchModel(ctx, buildmodel.KindProject, fetch)
	if err != nil {
		return nil, err
	}
	project, ok := model.(*buildmodel.Project)
	if !ok || project == nil {
		return nil, fmt.Errorf("build tool returned %T for the project model", model)
	}
	return buildmodel.EmptyModelSet(project), nil
}
