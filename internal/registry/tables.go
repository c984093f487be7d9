package registry

import "github.com/annaglova/breedhub-sub002/internal/model"

var builtinBehaviors = map[model.NodeType]Behavior{
	model.TypeApp:         {Class: Structural},
	model.TypeWorkspace:   {Class: Structural},
	model.TypeSpace:       {Class: Structural},
	model.TypeView:        {Class: Structural},
	model.TypePage:        {Class: Structural},
	model.TypeTab:         {Class: Structural},
	model.TypeBlock:       {Class: Structural},
	model.TypeMenuConfig:  {Class: Structural},
	model.TypeMenuSection: {Class: Structural},
	model.TypeMenuItem:    {Class: Structural},
	model.TypeUserConfig:  {Class: Structural},
	model.TypeExtension:   {Class: Structural},

	model.TypeFields: {Class: Structural, Grouping: true},
	model.TypeSort:   {Class: Structural, Grouping: true},
	model.TypeFilter: {Class: Structural, Grouping: true},

	model.TypeField:       {Class: Inheriting, Shared: true},
	model.TypeEntityField: {Class: Inheriting, Shared: true},
	model.TypeConfig:      {Class: Inheriting},
	model.TypeProperty:    {Class: Inheriting, Shared: true},
}

// groupingContainers is shared by every parent that can hold field groups.
var groupingContainers = map[model.NodeType]string{
	model.TypeFields: "fields",
	model.TypeSort:   "sort_fields",
	model.TypeFilter: "filter_fields",
}

var fieldMembers = map[model.NodeType]string{
	model.TypeField:       RootKey,
	model.TypeEntityField: RootKey,
}

var builtinContainers = map[model.NodeType]map[model.NodeType]string{
	model.TypeApp: {
		model.TypeWorkspace:  "workspaces",
		model.TypeMenuConfig: "menus",
		model.TypeUserConfig: "user_config",
		model.TypeExtension:  "extensions",
	},
	model.TypeWorkspace: {
		model.TypeSpace: "spaces",
		model.TypePage:  "pages",
	},
	model.TypeSpace: withGroups(map[model.NodeType]string{
		model.TypeView: "views",
		model.TypePage: "pages",
	}),
	model.TypeView: withGroups(nil),
	model.TypePage: {
		model.TypeTab:    "tabs",
		model.TypeBlock:  "blocks",
		model.TypeFields: "fields",
	},
	model.TypeTab: {
		model.TypeBlock:  "blocks",
		model.TypeFields: "fields",
	},
	model.TypeBlock: {
		model.TypeFields: "fields",
	},
	model.TypeMenuConfig: {
		model.TypeMenuSection: "sections",
	},
	model.TypeMenuSection: {
		model.TypeMenuItem: "items",
	},
	model.TypeMenuItem: {
		model.TypeMenuItem: "items",
	},
	model.TypeUserConfig: {
		model.TypeExtension: "extensions",
	},
	model.TypeExtension: {
		model.TypeFields: "fields",
	},
	model.TypeFields: fieldMembers,
	model.TypeSort:   fieldMembers,
	model.TypeFilter: fieldMembers,
}

func withGroups(m map[model.NodeType]string) map[model.NodeType]string {
	out := make(map[model.NodeType]string, len(m)+len(groupingContainers))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range groupingContainers {
		out[k] = v
	}
	return out
}
