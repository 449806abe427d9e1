package projects

import (
	"github.com/estatedesk/admin/pkg/types"
)

var ProjectsLink = types.NavigationItem{
	Name:     "NavigationLinks.Projects",
	Icon:     nil,
	Href:     "/projects/new/professionals",
	Children: nil,
}

var NavItems = []types.NavigationItem{
	ProjectsLink,
}
