package shop

import "fmt"

// Economy tuning constants.
const (
	// BaseIncome is the flat gold granted at the end of every round.
	BaseIncome = 5
	// WinIncome is the extra gold for winning the round.
	WinIncome = 1
	// InterestCap bounds the per-round interest payout.
	InterestCap = 5
	// XPCost is the gold price of one experience purchase.
	XPCost = 4
	// XPPerPurchase is the experience granted per purchase.
	XPPerPurchase = 4
)

// xpToNextLevel is the experience needed to advance from level index+1. The
// final zero marks the level cap.
var xpToNextLevel = [MaxLevel]int{2, 2, 6, 10, 20, 36, 56, 80, 0}

// Economy tracks one player's gold, level progression, and round streaks.
//
// An Economy is not safe for concurrent use.
type Economy struct {
	Gold       int
	Level      int
	XP         int
	WinStreak  int
	LossStreak int
}

// NewEconomy starts a level-1 economy with the given gold.
func NewEconomy(startGold int) *Economy {
	return &Economy{Gold: startGold, Level: MinLevel}
}

// Interest returns the passive income earned on banked gold: one gold per ten
// held, capped at InterestCap.
func (e *Economy) Interest() int {
	interest := e.Gold / 10
	if interest > InterestCap {
		interest = InterestCap
	}
	return interest
}

// streakBonus converts the current streak length into bonus gold.
func streakBonus(length int) int {
	switch {
	case length >= 5:
		return 3
	case length >= 4:
		return 2
	case length >= 2:
		return 1
	default:
		return 0
	}
}

// EndOfRound settles a round: streaks update first, then the round's income
// (base + win bonus + interest on the pre-income balance + streak bonus) is
// credited. Returns the gold credited.
//
// Postcondition: exactly one of WinStreak and LossStreak is non-zero after a
// decided round.
func (e *Economy) EndOfRound(won bool) int {
	if won {
		e.WinStreak++
		e.LossStreak = 0
	} else {
		e.LossStreak++
		e.WinStreak = 0
	}

	income := BaseIncome + e.Interest()
	if won {
		income += WinIncome
		income += streakBonus(e.WinStreak)
	} else {
		income += streakBonus(e.LossStreak)
	}
	e.Gold += income
	return income
}

// Spend deducts cost gold.
//
// Postcondition: Returns an error and leaves Gold untouched if the balance is
// insufficient or cost is negative.
func (e *Economy) Spend(cost int) error {
	if cost < 0 {
		return fmt.Errorf("shop: cost must not be negative")
	}
	if cost > e.Gold {
		return fmt.Errorf("shop: need %d gold, have %d", cost, e.Gold)
	}
	e.Gold -= cost
	return nil
}

// Credit adds gold, as on a unit sale.
func (e *Economy) Credit(amount int) {
	if amount > 0 {
		e.Gold += amount
	}
}

// BuyXP spends XPCost gold for XPPerPurchase experience, levelling up as
// thresholds are crossed. No-op with an error at the level cap.
func (e *Economy) BuyXP() error {
	if e.Level >= MaxLevel {
		return fmt.Errorf("shop: already at level cap %d", MaxLevel)
	}
	if err := e.Spend(XPCost); err != nil {
		return err
	}
	e.XP += XPPerPurchase
	for e.Level < MaxLevel {
		need := xpToNextLevel[e.Level-1]
		if need == 0 || e.XP < need {
			break
		}
		e.XP -= need
		e.Level++
	}
	return nil
}
