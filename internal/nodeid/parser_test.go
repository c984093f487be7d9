// internal/nodeid/parser_test.go
package nodeid

import (
	"testing"

	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		rawID      string
		expectErr  bool
		expectedID *ID
	}{
		{
			name:       "field id",
			rawID:      "field_name",
			expectedID: &ID{Prefix: "field", Name: "name"},
		},
		{
			name:       "longest prefix wins",
			rawID:      "entity_field_breed",
			expectedID: &ID{Prefix: "entity_field", Name: "breed"},
		},
		{
			name:       "property with underscores in name",
			rawID:      "property_not_required",
			expectedID: &ID{Prefix: "property", Name: "not_required"},
		},
		{
			name:       "no known prefix",
			rawID:      "legacy.node",
			expectedID: &ID{Name: "legacy.node"},
		},
		{
			name:       "bare prefix is not a prefix",
			rawID:      "field_",
			expectedID: &ID{Name: "field_"},
		},
		{
			name:      "error - empty",
			rawID:     "",
			expectErr: true,
		},
		{
			name:      "error - whitespace",
			rawID:     "field name",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Parse(tc.rawID)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
			assert.Equal(t, tc.rawID, id.String(), "round trip")
		})
	}
}

func TestNew(t *testing.T) {
	a := New(model.TypeView)
	b := New(model.TypeView)
	assert.NotEqual(t, a, b)

	parsed, err := Parse(a)
	require.NoError(t, err)
	assert.Equal(t, "view", parsed.Prefix)
	assert.Len(t, parsed.Name, 36)

	assert.Regexp(t, `^property_`, New(model.TypeProperty))
	assert.Regexp(t, `^node_`, New("widget"))
}

func TestString_Nil(t *testing.T) {
	var n *ID
	assert.Equal(t, "", n.String())
}
