package engine

import (
	"testing"

	"github.com/annaglova/breedhub-sub002/internal/model"
	tu "github.com/annaglova/breedhub-sub002/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNodes() []*model.ConfigNode {
	return []*model.ConfigNode{
		tu.Node("view_main", model.TypeView, tu.Deps("fields_main")),
		tu.Node("fields_main", model.TypeFields, tu.Deps("field_name")),
		tu.Node("field_name", model.TypeField, tu.Deps("property_required"), tu.Self(map[string]any{"label": "Name"})),
		tu.Node("property_required", model.TypeProperty, tu.Self(map[string]any{"required": true})),
	}
}

func TestSeed(t *testing.T) {
	f := newFixture(t, Options{})

	res, err := f.eng.Seed(f.ctx, seedNodes(), [][2]string{{"property_required", "property_not_required"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"view_main", "fields_main", "field_name", "property_required"}, res.Created)
	assert.Empty(t, res.Skipped)

	view := f.node(t, "view_main")
	assert.Equal(t, map[string]any{"label": "Name", "required": true}, at(t, view.SelfData, "fields", "field_name"))
	assert.Equal(t, fixedNow, view.CreatedAt)

	opp, ok := f.eng.Opposite("property_not_required")
	assert.True(t, ok)
	assert.Equal(t, "property_required", opp)

	t.Run("repeat seed skips existing nodes", func(t *testing.T) {
		res, err := f.eng.Seed(f.ctx, seedNodes(), nil)
		require.NoError(t, err)
		assert.Empty(t, res.Created)
		assert.Len(t, res.Skipped, 4)
		assert.Equal(t, view, f.node(t, "view_main"))
	})
}

func TestSeed_Lenient(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.eng.Seed(f.ctx, []*model.ConfigNode{
		tu.Node("field_loose", model.TypeField),
		tu.Node("space_main", model.TypeSpace, tu.Deps("field_loose", "view_later")),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"field_loose", "view_later"}, f.node(t, "space_main").Deps)
	assert.Empty(t, f.node(t, "space_main").SelfData)
	assert.Contains(t, f.logs.String(), "Skipping child not allowed under parent")
}

func TestSeed_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		nodes   []*model.ConfigNode
		wantErr error
	}{
		{
			name: "cycle",
			nodes: []*model.ConfigNode{
				tu.Node("config_a", model.TypeConfig, tu.Deps("config_b")),
				tu.Node("config_b", model.TypeConfig, tu.Deps("config_a")),
			},
			wantErr: ErrCycle,
		},
		{
			name: "duplicate id",
			nodes: []*model.ConfigNode{
				tu.Node("config_a", model.TypeConfig),
				tu.Node("config_a", model.TypeConfig),
			},
			wantErr: ErrAlreadyExists,
		},
		{
			name:    "invalid node",
			nodes:   []*model.ConfigNode{tu.Node("config a", model.TypeConfig)},
			wantErr: ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			_, err := f.eng.Seed(f.ctx, tc.nodes, nil)
			assert.ErrorIs(t, err, tc.wantErr)

			all, err := f.store.GetAll(f.ctx)
			require.NoError(t, err)
			assert.Empty(t, all, "a failed seed writes nothing")
		})
	}
}

func TestSeed_OppositesOnlyRegisteredOnSuccess(t *testing.T) {
	f := newFixture(t, Options{})
	cyclic := []*model.ConfigNode{
		tu.Node("config_a", model.TypeConfig, tu.Deps("config_b")),
		tu.Node("config_b", model.TypeConfig, tu.Deps("config_a")),
	}

	_, err := f.eng.Seed(f.ctx, cyclic, [][2]string{{"property_x", "property_y"}})
	require.ErrorIs(t, err, ErrCycle)
	_, ok := f.eng.Opposite("property_x")
	assert.False(t, ok, "a failed seed registers nothing")

	_, err = f.eng.Seed(f.ctx,
		[]*model.ConfigNode{tu.Node("config_a", model.TypeConfig)},
		[][2]string{{"property_x", "property_z"}},
	)
	require.NoError(t, err)
	opp, ok := f.eng.Opposite("property_x")
	assert.True(t, ok)
	assert.Equal(t, "property_z", opp)
}

func TestSeed_StagedOppositesApplyWithinTheSeed(t *testing.T) {
	f := newFixture(t, Options{})
	nodes := []*model.ConfigNode{
		tu.Node("property_x", model.TypeProperty),
		tu.Node("property_y", model.TypeProperty),
		tu.Node("field_name", model.TypeField, tu.Deps("property_x", "property_y")),
	}

	_, err := f.eng.Seed(f.ctx, nodes, [][2]string{{"property_x", "property_y"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.eng.Seed(f.ctx, nil, [][2]string{{"property_x", "property_y"}, {"property_y", "property_z"}})
	assert.ErrorIs(t, err, ErrValidation, "conflicting pairs in one seed")
	_, ok := f.eng.Opposite("property_y")
	assert.False(t, ok)
}
