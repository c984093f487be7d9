package hclseed

import (
	"context"
	"fmt"

	"github.com/annaglova/breedhub-sub002/internal/ctxlog"
	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/annaglova/breedhub-sub002/internal/nodeid"
	"github.com/hashicorp/hcl/v2"
)

// translateNode converts a decoded node block into a ConfigNode. Shape
// validation is left to the engine.
func (l *Loader) translateNode(ctx context.Context, b *nodeBlock) (*model.ConfigNode, error) {
	ctx, logger := ctxlog.With(ctx, "nodeID", b.ID, "nodeType", b.Type)

	if id, err := nodeid.Parse(b.ID); err == nil && id.Prefix != "" && id.Prefix != nodeid.PrefixFor(model.NodeType(b.Type)) {
		logger.Warn("Node id prefix does not match its type", "prefix", id.Prefix)
	}

	self, err := objectAttr(ctx, b.Self, "self")
	if err != nil {
		return nil, fmt.Errorf("%s: node '%s': %w", b.DefRange, b.ID, err)
	}
	override, err := objectAttr(ctx, b.Override, "override")
	if err != nil {
		return nil, fmt.Errorf("%s: node '%s': %w", b.DefRange, b.ID, err)
	}

	logger.Debug("Translated seed node", "deps", len(b.Deps))
	return &model.ConfigNode{
		ID:           b.ID,
		Type:         model.NodeType(b.Type),
		Caption:      b.Caption,
		Category:     b.Category,
		Deps:         b.Deps,
		Tags:         b.Tags,
		SelfData:     self,
		OverrideData: override,
	}, nil
}

// objectAttr evaluates an optional object attribute. An absent attribute
// yields nil.
func objectAttr(ctx context.Context, expr hcl.Expression, attrName string) (map[string]any, error) {
	if !isExprDefined(ctx, expr, attrName) {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid '%s' value: %w", attrName, diags)
	}
	native, err := ctyToNative(val)
	if err != nil {
		return nil, fmt.Errorf("in '%s': %w", attrName, err)
	}
	if native == nil {
		return nil, nil
	}
	obj, ok := native.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("'%s' must be an object, got %s", attrName, val.Type().FriendlyName())
	}
	return obj, nil
}

// isExprDefined checks if an HCL expression was actually present in the
// source. The decoder fills omitted optional attributes with zero-width
// placeholder expressions, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	isDefined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checked seed attribute",
		"attribute", attrName,
		"hclRange", r.String(),
		"isDefined", isDefined,
	)
	return isDefined
}
