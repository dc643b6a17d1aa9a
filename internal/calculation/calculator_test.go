// AngelaMos | 2026
// calculator_test.go

package calculation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateWorkedExample(t *testing.T) {
	in := Input{
		CurrentUnits:   1000,
		PurchasePrice:  1000,
		CurrentPrice:   1050,
		CommissionRate: 15,
		TargetAmount:   907500,
	}

	result := Calculate(in)

	// profitPerUnit = 50, commissionPerUnit = 7.50, netAmountPerUnit = 1042.50
	assert.InDelta(t, 907500.0/1042.5, result.UnitsToSell, 1e-9)
	assert.InDelta(t, 907500, result.TotalAmount, 1e-6)
	assert.InDelta(t, result.UnitsToSell*50, result.GrossProfit, 1e-6)
	assert.InDelta(t, result.UnitsToSell*7.5, result.CommissionAmount, 1e-6)
	assert.InDelta(
		t,
		result.GrossProfit-result.CommissionAmount,
		result.NetProfit,
		1e-6,
	)
	assert.InDelta(
		t,
		in.CurrentUnits-result.UnitsToSell,
		result.RemainingUnits,
		1e-9,
	)
	assert.InDelta(
		t,
		result.RemainingUnits*in.CurrentPrice,
		result.RemainingValue,
		1e-6,
	)

	cost := result.UnitsToSell * in.PurchasePrice
	assert.InDelta(t, result.NetProfit/cost*100, result.ProfitPercentage, 1e-9)
}

func TestCalculateDeterministic(t *testing.T) {
	in := Input{
		CurrentUnits:   500,
		PurchasePrice:  10,
		CurrentPrice:   12,
		CommissionRate: 2,
		TargetAmount:   1000,
	}

	first := Calculate(in)
	second := Calculate(in)

	assert.Equal(t, first, second)
}

func TestCalculateCommissionNeverNegative(t *testing.T) {
	// Position under water: profitPerUnit < 0, so the commission clamps to
	// zero instead of crediting the seller.
	in := Input{
		CurrentUnits:   100,
		PurchasePrice:  50,
		CurrentPrice:   40,
		CommissionRate: 10,
		TargetAmount:   2000,
	}

	result := Calculate(in)

	assert.Zero(t, result.CommissionAmount)
	assert.InDelta(t, 2000.0/40.0, result.UnitsToSell, 1e-9)
	assert.InDelta(t, result.UnitsToSell*-10, result.GrossProfit, 1e-6)
	assert.Equal(t, result.GrossProfit, result.NetProfit)
}

func TestCalculateUnitsClampedToHoldings(t *testing.T) {
	in := Input{
		CurrentUnits:   10,
		PurchasePrice:  100,
		CurrentPrice:   110,
		CommissionRate: 5,
		TargetAmount:   1_000_000,
	}

	result := Calculate(in)

	assert.Equal(t, 10.0, result.UnitsToSell)
	assert.Zero(t, result.RemainingUnits)
	assert.Zero(t, result.RemainingValue)
	assert.Less(t, result.TotalAmount, in.TargetAmount)
}

func TestCalculateNoProceeds(t *testing.T) {
	// currentPrice 0 makes netAmountPerUnit <= 0; selling everything is the
	// defined result and the first recommendation says so.
	in := Input{
		CurrentUnits:   250,
		PurchasePrice:  10,
		CurrentPrice:   0,
		CommissionRate: 5,
		TargetAmount:   500,
	}

	result := Calculate(in)

	assert.Equal(t, 250.0, result.UnitsToSell)
	assert.Zero(t, result.TotalAmount)
	assert.Zero(t, result.RemainingUnits)
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "zero or negative")
}

func TestCalculateProfitPercentageZeroDivisor(t *testing.T) {
	// purchasePrice 0 means the cost basis of the sold units is zero; the
	// percentage is reported as 0 rather than Inf.
	in := Input{
		CurrentUnits:   100,
		PurchasePrice:  0,
		CurrentPrice:   10,
		CommissionRate: 5,
		TargetAmount:   500,
	}

	result := Calculate(in)

	assert.Zero(t, result.ProfitPercentage)
	assert.False(t, math.IsInf(result.ProfitPercentage, 0))
	assert.False(t, math.IsNaN(result.ProfitPercentage))
}

func TestCalculateMonotonicInTarget(t *testing.T) {
	base := Input{
		CurrentUnits:   1000,
		PurchasePrice:  20,
		CurrentPrice:   25,
		CommissionRate: 3,
		TargetAmount:   1000,
	}

	prev := Calculate(base).UnitsToSell
	for _, target := range []float64{2000, 5000, 10000, 20000} {
		in := base
		in.TargetAmount = target
		got := Calculate(in).UnitsToSell
		assert.GreaterOrEqual(t, got, prev, "target %v", target)
		prev = got
	}
}

func TestRecommendationOrder(t *testing.T) {
	in := Input{
		CurrentUnits:   1000,
		PurchasePrice:  1000,
		CurrentPrice:   1050,
		CommissionRate: 15,
		TargetAmount:   907500,
	}

	result := Calculate(in)

	require.Len(t, result.Recommendations, 4)
	assert.Contains(t, result.Recommendations[0], "within $1")
	assert.Contains(t, result.Recommendations[1], "units remain")
	assert.Contains(t, result.Recommendations[2], "High commission rate")
	assert.Contains(t, result.Recommendations[3], "Profit per unit")
}

func TestRecommendationShortfall(t *testing.T) {
	in := Input{
		CurrentUnits:   10,
		PurchasePrice:  100,
		CurrentPrice:   110,
		CommissionRate: 5,
		TargetAmount:   100000,
	}

	result := Calculate(in)

	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "fall short")
	assert.Contains(t, result.Recommendations, "All units will be sold")
}

func TestRecommendationRetainedMajority(t *testing.T) {
	in := Input{
		CurrentUnits:   1000,
		PurchasePrice:  10,
		CurrentPrice:   20,
		CommissionRate: 1,
		TargetAmount:   1000,
	}

	result := Calculate(in)

	assert.Greater(t, result.RemainingUnits/in.CurrentUnits, 0.5)
	assert.Contains(
		t,
		result.Recommendations,
		"A significant share of the holdings is retained",
	)
}

func TestRecommendationNoProfit(t *testing.T) {
	in := Input{
		CurrentUnits:   100,
		PurchasePrice:  50,
		CurrentPrice:   50,
		CommissionRate: 5,
		TargetAmount:   1000,
	}

	result := Calculate(in)

	found := false
	for _, rec := range result.Recommendations {
		if rec == "Current price does not exceed the purchase price; "+
			"the sale yields no profit" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Zero(t, result.NetProfit)
}
