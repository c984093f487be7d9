// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the structural validation of a ConfigNode.
//
// Why validate here?
//
// Nodes reach the engine from several places: seed files, template
// instantiation, the CLI and the sync layer. Checking the shape once, at the
// model boundary, lets every caller surface the same validation error instead of
// discovering a malformed node halfway through a cascade.
package model

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// PropertyPrefix is the ID prefix every property node must carry. It is the
// only ID convention the engine enforces.
const PropertyPrefix = "property_"

// nodeValidate is the validator instance for nodes.
// Initialized in init() with custom validators.
var nodeValidate *validator.Validate

func init() {
	nodeValidate = validator.New()
	_ = nodeValidate.RegisterValidation("nodetype", validateNodeType)
	_ = nodeValidate.RegisterValidation("nodeid", validateNodeID)
}

func validateNodeType(fl validator.FieldLevel) bool {
	return NodeType(fl.Field().String()).IsKnown()
}

func validateNodeID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return id != "" && strings.IndexFunc(id, unicode.IsSpace) < 0
}

// Validate checks the node's shape. It does not look at other nodes.
func (n *ConfigNode) Validate() error {
	if n == nil {
		return fmt.Errorf("node is nil")
	}
	if err := nodeValidate.Struct(n); err != nil {
		return fmt.Errorf("node '%s': %w", n.ID, err)
	}
	if n.Type == TypeProperty && !strings.HasPrefix(n.ID, PropertyPrefix) {
		return fmt.Errorf("node '%s': property ids must start with %q", n.ID, PropertyPrefix)
	}
	seen := make(map[string]struct{}, len(n.Deps))
	for _, dep := range n.Deps {
		if dep == n.ID {
			return fmt.Errorf("node '%s': depends on itself", n.ID)
		}
		if _, dup := seen[dep]; dup {
			return fmt.Errorf("node '%s': duplicate dependency '%s'", n.ID, dep)
		}
		seen[dep] = struct{}{}
	}
	return nil
}
