// internal/nodeid/doc.go

/*
Package nodeid provides a structured representation for configuration node
identifiers, based on the canonical format `prefix_name`.

The prefix names the node's type class (`field_name`, `property_required`,
`view_4f1c...`). The convention is informational: the engine only enforces it
for property nodes. Generated identifiers use a random UUID as the name so
that clones and template instances never collide.

This package centralizes all formatting, parsing and generation logic.
*/
package nodeid
