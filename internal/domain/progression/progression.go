// Package progression holds the XP and level rules.
package progression

import (
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/models"
)

// XPPerLevel is the per-level XP step: level N needs N*XPPerLevel to advance.
const XPPerLevel = 100

// MaxXPGrant bounds a single XP grant. It keeps the level loop short and the
// stored XP far from integer overflow.
const MaxXPGrant = 100_000

// MaxWalletPoints bounds a stored wallet balance so that clan totals summed
// over members cannot overflow.
const MaxWalletPoints = 1_000_000_000

// XPRequired returns the XP needed to go from level to level+1.
func XPRequired(level int) int {
	return XPPerLevel * level
}

// ApplyXP adds amount to the user's XP and levels up while the XP covers the
// current threshold. It returns how many levels were gained.
//
// Afterwards u.XP < XPRequired(u.Level). An amount outside
// [0, MaxXPGrant] is rejected without touching the record.
func ApplyXP(u *models.User, amount int) (int, error) {
	if err := CheckXPGrant(amount); err != nil {
		return 0, err
	}
	if u.Level < 1 {
		u.Level = 1
	}
	if u.XP < 0 {
		u.XP = 0
	}

	u.XP += amount
	gained := 0
	for need := XPRequired(u.Level); u.XP >= need; need = XPRequired(u.Level) {
		u.XP -= need
		u.Level++
		gained++
	}
	return gained, nil
}

// CheckXPGrant reports whether amount is a grantable XP amount.
func CheckXPGrant(amount int) error {
	if amount < 0 {
		return errs.Invalid("xp amount must not be negative")
	}
	if amount > MaxXPGrant {
		return errs.Invalid("xp amount out of range")
	}
	return nil
}

// AddWallet adds coins to the user's wallet, saturating at MaxWalletPoints.
func AddWallet(u *models.User, coins int) {
	u.WalletPoints = min(u.WalletPoints+max(coins, 0), MaxWalletPoints)
}

// Title returns the display title earned from wallet points.
// Every 1000 points is one title step.
func Title(walletPoints int) string {
	if walletPoints < 0 {
		walletPoints = 0
	}
	step := walletPoints/1000 + 1
	switch {
	case step < 2:
		return "Moussaillon"
	case step < 5:
		return "Matelot"
	case step < 10:
		return "Quartier-Maitre"
	case step < 20:
		return "Capitaine"
	default:
		return "Légende des Mers"
	}
}
