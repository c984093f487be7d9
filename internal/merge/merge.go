package merge

import "github.com/annaglova/breedhub-sub002/internal/model"

// DeepMerge returns a new tree with b merged on top of a. Neither input is
// modified and the result shares no maps or slices with them.
func DeepMerge(a, b map[string]any) map[string]any {
	out := model.CopyTree(a)
	if out == nil {
		out = make(map[string]any, len(b))
	}
	mergeInto(out, b)
	return out
}

// mergeInto merges src into dst in place. dst must be exclusively owned.
func mergeInto(dst, src map[string]any) {
	for k, sv := range src {
		srcMap, srcIsMap := sv.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			mergeInto(dstMap, srcMap)
			continue
		}
		dst[k] = model.CopyValue(sv)
	}
}

// MergeAll folds DeepMerge over layers from left to right. Nil layers are
// skipped.
func MergeAll(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, l := range layers {
		if l != nil {
			mergeInto(out, l)
		}
	}
	return out
}
