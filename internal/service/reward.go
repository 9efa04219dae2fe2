package service

import (
	"math"

	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/shopspring/decimal"
)

// MaxDifficultyMultiplier is the largest multiplier a category may carry
const MaxDifficultyMultiplier = 1000.0

// Ledger amounts and balances are stored as INTEGER
var maxReward = decimal.NewFromInt(math.MaxInt32)

// ComputeReward scales base coin value by difficulty multiplier.
// Halves are rounded away from zero: 5 x 1.1 gives 6
func ComputeReward(base int, multiplier float64) (int, error) {
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier <= 0 {
		return 0, errorvalues.ErrInvalidMultiplier
	}
	reward := decimal.NewFromInt(int64(base)).Mul(decimal.NewFromFloat(multiplier)).Round(0)
	if reward.GreaterThan(maxReward) || reward.IsNegative() {
		return 0, errorvalues.ErrRewardOverflow
	}
	return int(reward.IntPart()), nil
}
