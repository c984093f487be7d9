package registry

import (
	"fmt"

	"github.com/annaglova/breedhub-sub002/internal/model"
)

// Validate checks that the tables are consistent with each other: every type
// is known, only structural types have containers, field members appear only
// under grouping parents, and grouping children only under non-grouping ones.
func (r *Registry) Validate() error {
	for _, t := range model.KnownTypes {
		if _, ok := r.behaviors[t]; !ok {
			return fmt.Errorf("node type '%s' has no registered behavior", t)
		}
	}
	for parent, children := range r.containers {
		if !parent.IsKnown() {
			return fmt.Errorf("container table references unknown parent type '%s'", parent)
		}
		if !r.IsStructural(parent) {
			return fmt.Errorf("parent type '%s' is not structural but has containers", parent)
		}
		for child, key := range children {
			if !child.IsKnown() {
				return fmt.Errorf("parent type '%s' references unknown child type '%s'", parent, child)
			}
			if r.IsGrouping(child) && r.IsGrouping(parent) {
				return fmt.Errorf("grouping type '%s' cannot contain grouping type '%s'", parent, child)
			}
			if key == RootKey && !r.IsGrouping(parent) {
				return fmt.Errorf("parent type '%s' maps child type '%s' to the root namespace", parent, child)
			}
		}
	}
	return nil
}
