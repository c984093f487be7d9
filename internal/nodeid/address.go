// internal/nodeid/address.go
package nodeid

import (
	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/google/uuid"
)

// String serializes the ID into its canonical `prefix_name` form.
func (id *ID) String() string {
	if id == nil {
		return ""
	}
	if id.Prefix == "" {
		return id.Name
	}
	return id.Prefix + "_" + id.Name
}

// New generates a fresh identifier for a node of type t.
func New(t model.NodeType) string {
	return (&ID{Prefix: PrefixFor(t), Name: uuid.NewString()}).String()
}
