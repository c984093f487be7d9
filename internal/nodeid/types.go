// internal/nodeid/types.go
package nodeid

import "github.com/annaglova/breedhub-sub002/internal/model"

// ID is the structured representation of a node identifier.
type ID struct {
	// Prefix is the type-class prefix, without the trailing underscore.
	// Empty when the raw identifier carries no known prefix.
	Prefix string
	// Name is everything after the prefix separator.
	Name string
}

// prefixes maps each node type to its conventional identifier prefix.
var prefixes = map[model.NodeType]string{
	model.TypeApp:         "app",
	model.TypeWorkspace:   "workspace",
	model.TypeSpace:       "space",
	model.TypeView:        "view",
	model.TypePage:        "page",
	model.TypeTab:         "tab",
	model.TypeBlock:       "block",
	model.TypeMenuConfig:  "menu_config",
	model.TypeMenuSection: "menu_section",
	model.TypeMenuItem:    "menu_item",
	model.TypeUserConfig:  "user_config",
	model.TypeExtension:   "extension",
	model.TypeFields:      "fields",
	model.TypeSort:        "sort",
	model.TypeFilter:      "filter",
	model.TypeField:       "field",
	model.TypeEntityField: "entity_field",
	model.TypeConfig:      "config",
	model.TypeProperty:    "property",
}

// PrefixFor returns the conventional prefix for t, or "node" for unknown types.
func PrefixFor(t model.NodeType) string {
	if p, ok := prefixes[t]; ok {
		return p
	}
	return "node"
}
