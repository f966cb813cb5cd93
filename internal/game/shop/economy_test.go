package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterestIsOnePerTenCapped(t *testing.T) {
	cases := []struct {
		gold int
		want int
	}{
		{0, 0}, {9, 0}, {10, 1}, {19, 1}, {25, 2}, {50, 5}, {73, 5}, {200, 5},
	}
	for _, tc := range cases {
		e := NewEconomy(tc.gold)
		assert.Equal(t, tc.want, e.Interest(), "gold=%d", tc.gold)
	}
}

func TestEndOfRoundWinIncome(t *testing.T) {
	e := NewEconomy(20)
	income := e.EndOfRound(true)

	// base 5 + win 1 + interest 2, no streak bonus on the first win.
	assert.Equal(t, 8, income)
	assert.Equal(t, 28, e.Gold)
	assert.Equal(t, 1, e.WinStreak)
	assert.Zero(t, e.LossStreak)
}

func TestEndOfRoundLossIncome(t *testing.T) {
	e := NewEconomy(0)
	income := e.EndOfRound(false)

	assert.Equal(t, BaseIncome, income)
	assert.Equal(t, 1, e.LossStreak)
	assert.Zero(t, e.WinStreak)
}

func TestStreakBonusGrowsAndResets(t *testing.T) {
	e := NewEconomy(0)
	e.Gold = 0

	var bonuses []int
	for i := 0; i < 5; i++ {
		e.Gold = 0 // isolate the streak component from interest
		bonuses = append(bonuses, e.EndOfRound(true)-BaseIncome-WinIncome)
	}
	assert.Equal(t, []int{0, 1, 1, 2, 3}, bonuses)

	e.Gold = 0
	income := e.EndOfRound(false)
	assert.Equal(t, BaseIncome, income, "a loss breaks the win streak")
	assert.Zero(t, e.WinStreak)
	assert.Equal(t, 1, e.LossStreak)
}

func TestSpend(t *testing.T) {
	e := NewEconomy(5)
	require.NoError(t, e.Spend(3))
	assert.Equal(t, 2, e.Gold)

	assert.Error(t, e.Spend(3), "overdraft must be refused")
	assert.Equal(t, 2, e.Gold, "failed spend leaves the balance untouched")
	assert.Error(t, e.Spend(-1))
}

func TestCredit(t *testing.T) {
	e := NewEconomy(0)
	e.Credit(4)
	e.Credit(-2)
	assert.Equal(t, 4, e.Gold)
}

func TestBuyXPLevelsUpAndCascades(t *testing.T) {
	e := NewEconomy(10)

	// 4 XP crosses the 2-XP thresholds for levels 2 and 3 in one purchase.
	require.NoError(t, e.BuyXP())
	assert.Equal(t, 3, e.Level)
	assert.Zero(t, e.XP)
	assert.Equal(t, 6, e.Gold)

	// The next threshold is 6 XP: one more purchase banks 4 without levelling.
	require.NoError(t, e.BuyXP())
	assert.Equal(t, 3, e.Level)
	assert.Equal(t, 4, e.XP)
}

func TestBuyXPRequiresGold(t *testing.T) {
	e := NewEconomy(XPCost - 1)
	assert.Error(t, e.BuyXP())
	assert.Equal(t, MinLevel, e.Level)
}

func TestBuyXPStopsAtLevelCap(t *testing.T) {
	e := NewEconomy(1000)
	e.Level = MaxLevel
	assert.Error(t, e.BuyXP())
	assert.Equal(t, 1000, e.Gold)
}
