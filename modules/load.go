package modules

import (
	"slices"

	"github.com/estatedesk/admin/modules/projects"
	"github.com/estatedesk/admin/pkg/application"
)

var NavLinks = slices.Concat(
	projects.NavItems,
)

// BuiltInModules lists the modules every binary registers.
func BuiltInModules(projectOpts *projects.ModuleOptions) []application.Module {
	return []application.Module{
		projects.NewModule(projectOpts),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
