package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestDeepMerge(t *testing.T) {
	testCases := []struct {
		name string
		a    map[string]any
		b    map[string]any
		want map[string]any
	}{
		{
			name: "both nil",
			want: map[string]any{},
		},
		{
			name: "disjoint keys",
			a:    map[string]any{"x": 1},
			b:    map[string]any{"y": 2},
			want: map[string]any{"x": 1, "y": 2},
		},
		{
			name: "scalar on right wins",
			a:    map[string]any{"required": false},
			b:    map[string]any{"required": true},
			want: map[string]any{"required": true},
		},
		{
			name: "nested objects merge",
			a:    map[string]any{"ui": map[string]any{"width": 10, "label": "A"}},
			b:    map[string]any{"ui": map[string]any{"label": "B"}},
			want: map[string]any{"ui": map[string]any{"width": 10, "label": "B"}},
		},
		{
			name: "arrays replace, never concatenate",
			a:    map[string]any{"options": []any{"a", "b"}},
			b:    map[string]any{"options": []any{"c"}},
			want: map[string]any{"options": []any{"c"}},
		},
		{
			name: "object replaces scalar",
			a:    map[string]any{"v": 1},
			b:    map[string]any{"v": map[string]any{"n": 1}},
			want: map[string]any{"v": map[string]any{"n": 1}},
		},
		{
			name: "scalar replaces object",
			a:    map[string]any{"v": map[string]any{"n": 1}},
			b:    map[string]any{"v": "flat"},
			want: map[string]any{"v": "flat"},
		},
		{
			name: "nil on right overwrites",
			a:    map[string]any{"v": 1},
			b:    map[string]any{"v": nil},
			want: map[string]any{"v": nil},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeepMerge(tc.a, tc.b)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("DeepMerge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeepMerge_DoesNotAliasInputs(t *testing.T) {
	a := map[string]any{"ui": map[string]any{"width": 10}}
	b := map[string]any{"list": []any{1, 2}, "obj": map[string]any{"k": "v"}}

	out := DeepMerge(a, b)
	out["ui"].(map[string]any)["width"] = 99
	out["list"].([]any)[0] = 99
	out["obj"].(map[string]any)["k"] = "changed"

	assert.Equal(t, 10, a["ui"].(map[string]any)["width"])
	assert.Equal(t, 1, b["list"].([]any)[0])
	assert.Equal(t, "v", b["obj"].(map[string]any)["k"])
}

func TestMergeAll(t *testing.T) {
	got := MergeAll(
		map[string]any{"a": 1, "n": map[string]any{"x": 1}},
		nil,
		map[string]any{"a": 2},
		map[string]any{"n": map[string]any{"y": 2}},
	)
	want := map[string]any{"a": 2, "n": map[string]any{"x": 1, "y": 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeAll() mismatch (-want +got):\n%s", diff)
	}
}
