// Package externalproject attaches the build tool's own description of the
// project hierarchy to the project node.
package externalproject

import (
	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

const ID = "external-project"

type Unit struct{}

func New() resolver.Unit {
	return &Unit{}
}

func (*Unit) ID() string { return ID }

// Description is shown by the extensions command.
func (*Unit) Description() string {
	return "attaches the build tool's project hierarchy to the project"
}

func (*Unit) ExtraModelKinds() []buildmodel.ModelKind {
	return []buildmodel.ModelKind{buildmodel.KindExternalProject}
}

func (*Unit) PopulateProjectExtraModels(rc *resolver.Context, model *buildmodel.Project, g *projectgraph.Graph, next resolver.PopulateProjectExtraModelsFunc) error {
	if external, ok := resolver.Model[*buildmodel.ExternalProject](rc, buildmodel.KindExternalProject); ok && external != nil {
		g.Add(g.Root(), projectgraph.ExternalProjectData{Project: external})
	} else {
		rc.Logger().Debug("external project model not available")
	}
	return next(rc, model, g)
}
