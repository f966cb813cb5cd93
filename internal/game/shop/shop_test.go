package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/rng"
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

// scriptedSource replays a fixed list of rolls, reducing each modulo the
// requested bound.
type scriptedSource struct {
	rolls []int
	i     int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.rolls[s.i%len(s.rolls)]
	s.i++
	return v % n
}

func testRegistry(t *testing.T) *unit.Registry {
	t.Helper()
	mk := func(id string, cost int) *unit.Template {
		return &unit.Template{
			ID:          id,
			Name:        id,
			Cost:        cost,
			MaxHP:       500,
			Attack:      40,
			AttackSpeed: 0.8,
			Range:       1,
		}
	}
	reg, err := unit.NewRegistry([]*unit.Template{
		mk("squire", 1),
		mk("archer", 1),
		mk("knight", 2),
		mk("mage", 3),
		mk("dragon", 5),
	})
	require.NoError(t, err)
	return reg
}

func TestNewShopFillsPoolByCost(t *testing.T) {
	s, err := NewShop(testRegistry(t), rng.NewSeededSource(1))
	require.NoError(t, err)

	assert.Equal(t, 29, s.Remaining("squire"))
	assert.Equal(t, 29, s.Remaining("archer"))
	assert.Equal(t, 22, s.Remaining("knight"))
	assert.Equal(t, 18, s.Remaining("mage"))
	assert.Equal(t, 10, s.Remaining("dragon"))
}

func TestNewShopRejectsNilInputs(t *testing.T) {
	_, err := NewShop(nil, rng.NewSeededSource(1))
	assert.Error(t, err)
	_, err = NewShop(testRegistry(t), nil)
	assert.Error(t, err)
}

func TestRollLevelBounds(t *testing.T) {
	s, err := NewShop(testRegistry(t), rng.NewSeededSource(1))
	require.NoError(t, err)

	_, err = s.Roll(0, 5)
	assert.Error(t, err)
	_, err = s.Roll(10, 5)
	assert.Error(t, err)
}

func TestRollAtLevelOneOffersOnlyOneCosts(t *testing.T) {
	s, err := NewShop(testRegistry(t), rng.NewSeededSource(42))
	require.NoError(t, err)

	offers, err := s.Roll(1, 50)
	require.NoError(t, err)
	require.Len(t, offers, 50)
	for _, tmpl := range offers {
		assert.Equal(t, 1, tmpl.Cost, "level 1 must never offer %s", tmpl.ID)
	}
}

func TestRollIsDeterministicUnderSeededSource(t *testing.T) {
	roll := func() []string {
		s, err := NewShop(testRegistry(t), rng.NewSeededSource(7))
		require.NoError(t, err)
		offers, err := s.Roll(6, 20)
		require.NoError(t, err)
		ids := make([]string, len(offers))
		for i, tmpl := range offers {
			ids[i] = tmpl.ID
		}
		return ids
	}
	assert.Equal(t, roll(), roll())
}

func TestRollFallsThroughDrainedTier(t *testing.T) {
	s, err := NewShop(testRegistry(t), &scriptedSource{rolls: []int{80, 0}})
	require.NoError(t, err)
	// Level 3 rolls tier 2 on an 80 (odds 75/25). With knight drained the
	// slot falls through to a one-cost offer.
	for s.Remaining("knight") > 0 {
		require.NoError(t, s.Take("knight"))
	}

	offers, err := s.Roll(3, 1)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, 1, offers[0].Cost)
}

func TestRollWithFullyDrainedPoolComesUpShort(t *testing.T) {
	s, err := NewShop(testRegistry(t), rng.NewSeededSource(1))
	require.NoError(t, err)
	for _, id := range []string{"squire", "archer", "knight", "mage", "dragon"} {
		for s.Remaining(id) > 0 {
			require.NoError(t, s.Take(id))
		}
	}

	offers, err := s.Roll(9, 5)
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestTakeAndRelease(t *testing.T) {
	s, err := NewShop(testRegistry(t), rng.NewSeededSource(1))
	require.NoError(t, err)

	require.NoError(t, s.Take("dragon"))
	assert.Equal(t, 9, s.Remaining("dragon"))

	for s.Remaining("dragon") > 0 {
		require.NoError(t, s.Take("dragon"))
	}
	assert.Error(t, s.Take("dragon"), "an empty pool refuses further takes")

	s.Release("dragon", 3)
	assert.Equal(t, 3, s.Remaining("dragon"))
	s.Release("dragon", -1)
	assert.Equal(t, 3, s.Remaining("dragon"))
}
