package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

func combatants(t *testing.T, reg *unit.Registry, specs ...struct {
	id   string
	star int
}) []*unit.Combatant {
	t.Helper()
	var out []*unit.Combatant
	for _, s := range specs {
		tmpl, err := reg.Get(s.id)
		require.NoError(t, err)
		c, err := unit.NewCombatant(tmpl, s.star, unit.SideAlly)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

type unitSpec = struct {
	id   string
	star int
}

func TestMergeThreeOfAKind(t *testing.T) {
	reg := testRegistry(t)
	roster := combatants(t, reg,
		unitSpec{"squire", 1}, unitSpec{"knight", 1},
		unitSpec{"squire", 1}, unitSpec{"squire", 1},
	)

	merged, err := MergeUpgrade(roster, reg)
	require.NoError(t, err)
	require.Len(t, merged, 2)

	// The upgrade lands in the first copy's slot; the knight keeps its place.
	assert.Equal(t, "squire", merged[0].TemplateID)
	assert.Equal(t, 2, merged[0].Star)
	assert.Equal(t, "knight", merged[1].TemplateID)

	// Star scaling carries through: 500 x 1.8 floored.
	assert.Equal(t, 900, merged[0].MaxHP)
}

func TestMergeTwoCopiesIsNoPartialUpgrade(t *testing.T) {
	reg := testRegistry(t)
	roster := combatants(t, reg, unitSpec{"squire", 1}, unitSpec{"squire", 1})

	merged, err := MergeUpgrade(roster, reg)
	require.NoError(t, err)
	require.Len(t, merged, 2)
	for _, c := range merged {
		assert.Equal(t, 1, c.Star)
	}
}

func TestMergeCascadesToThreeStar(t *testing.T) {
	reg := testRegistry(t)
	specs := make([]unitSpec, 9)
	for i := range specs {
		specs[i] = unitSpec{"squire", 1}
	}
	roster := combatants(t, reg, specs...)

	merged, err := MergeUpgrade(roster, reg)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, 3, merged[0].Star)
}

func TestMergeRequiresMatchingStar(t *testing.T) {
	reg := testRegistry(t)
	roster := combatants(t, reg,
		unitSpec{"squire", 1}, unitSpec{"squire", 1}, unitSpec{"squire", 2},
	)

	merged, err := MergeUpgrade(roster, reg)
	require.NoError(t, err)
	assert.Len(t, merged, 3, "mixed star levels never merge")
}

func TestMergeNeverUpgradesPastStarCap(t *testing.T) {
	reg := testRegistry(t)
	roster := combatants(t, reg,
		unitSpec{"squire", 3}, unitSpec{"squire", 3}, unitSpec{"squire", 3},
	)

	merged, err := MergeUpgrade(roster, reg)
	require.NoError(t, err)
	require.Len(t, merged, 3)
	for _, c := range merged {
		assert.Equal(t, 3, c.Star)
	}
}

func TestMergeLeavesInputUntouched(t *testing.T) {
	reg := testRegistry(t)
	roster := combatants(t, reg,
		unitSpec{"squire", 1}, unitSpec{"squire", 1}, unitSpec{"squire", 1},
	)

	_, err := MergeUpgrade(roster, reg)
	require.NoError(t, err)
	assert.Len(t, roster, 3)
	for _, c := range roster {
		assert.Equal(t, 1, c.Star)
	}
}

func TestMergeUnknownTemplateFails(t *testing.T) {
	reg := testRegistry(t)
	roster := combatants(t, reg,
		unitSpec{"squire", 1}, unitSpec{"squire", 1}, unitSpec{"squire", 1},
	)
	for _, c := range roster {
		c.TemplateID = "ghost"
	}

	_, err := MergeUpgrade(roster, reg)
	assert.Error(t, err)
}
