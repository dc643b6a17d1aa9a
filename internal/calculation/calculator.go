// AngelaMos | 2026
// calculator.go

package calculation

import (
	"fmt"
	"math"
)

// Input is the financial tuple for a liquidation-target computation. The
// handler rejects non-positive units and target before the engine runs; the
// engine itself only guards degenerate divisors.
type Input struct {
	CurrentUnits   float64 `json:"currentUnits"   validate:"required,gt=0"`
	PurchasePrice  float64 `json:"purchasePrice"  validate:"gte=0"`
	CurrentPrice   float64 `json:"currentPrice"   validate:"gte=0"`
	CommissionRate float64 `json:"commissionRate" validate:"gte=0,lte=100"`
	TargetAmount   float64 `json:"targetAmount"   validate:"required,gt=0"`
}

type Result struct {
	UnitsToSell      float64  `json:"unitsToSell"`
	GrossProfit      float64  `json:"grossProfit"`
	CommissionAmount float64  `json:"commissionAmount"`
	NetProfit        float64  `json:"netProfit"`
	TotalAmount      float64  `json:"totalAmount"`
	RemainingUnits   float64  `json:"remainingUnits"`
	RemainingValue   float64  `json:"remainingValue"`
	ProfitPercentage float64  `json:"profitPercentage"`
	Recommendations  []string `json:"recommendations"`
}

// Calculate is pure and deterministic: no I/O, no stored state. Commission is
// levied only against per-unit profit and clamped at zero, so a position
// under water never produces a commission credit.
func Calculate(in Input) Result {
	profitPerUnit := in.CurrentPrice - in.PurchasePrice

	commissionPerUnit := profitPerUnit * in.CommissionRate / 100
	if commissionPerUnit < 0 {
		commissionPerUnit = 0
	}

	netAmountPerUnit := in.CurrentPrice - commissionPerUnit

	var unitsToSell float64
	noProceeds := netAmountPerUnit <= 0
	if noProceeds {
		// Division is undefined here; selling everything is the defined
		// result rather than propagating Inf/NaN.
		unitsToSell = in.CurrentUnits
	} else {
		unitsToSell = in.TargetAmount / netAmountPerUnit
		unitsToSell = math.Min(math.Max(unitsToSell, 0), in.CurrentUnits)
	}

	totalAmount := unitsToSell * netAmountPerUnit
	grossProfit := unitsToSell * profitPerUnit
	commissionAmount := unitsToSell * commissionPerUnit
	netProfit := grossProfit - commissionAmount

	remainingUnits := in.CurrentUnits - unitsToSell
	remainingValue := remainingUnits * in.CurrentPrice

	profitPercentage := 0.0
	if cost := unitsToSell * in.PurchasePrice; cost != 0 {
		profitPercentage = netProfit / cost * 100
	}

	return Result{
		UnitsToSell:      unitsToSell,
		GrossProfit:      grossProfit,
		CommissionAmount: commissionAmount,
		NetProfit:        netProfit,
		TotalAmount:      totalAmount,
		RemainingUnits:   remainingUnits,
		RemainingValue:   remainingValue,
		ProfitPercentage: profitPercentage,
		Recommendations: recommendations(
			in,
			profitPerUnit,
			totalAmount,
			remainingUnits,
			remainingValue,
			noProceeds,
		),
	}
}

func recommendations(
	in Input,
	profitPerUnit, totalAmount, remainingUnits, remainingValue float64,
	noProceeds bool,
) []string {
	recs := make([]string, 0, 6)

	if noProceeds {
		recs = append(recs,
			"Net proceeds per unit are zero or negative; "+
				"no sale can reach the target amount")
	}

	diff := totalAmount - in.TargetAmount
	switch {
	case math.Abs(diff) <= 1:
		recs = append(recs, "Target met exactly, within $1 tolerance")
	case diff < 0:
		recs = append(recs, fmt.Sprintf(
			"Proceeds fall short of the target by $%.2f", -diff))
	default:
		recs = append(recs, fmt.Sprintf(
			"Proceeds exceed the target by $%.2f", diff))
	}

	if remainingUnits > 0 {
		recs = append(recs, fmt.Sprintf(
			"%.2f units remain, worth $%.2f", remainingUnits, remainingValue))
	} else {
		recs = append(recs, "All units will be sold")
	}

	if in.CommissionRate > 10 {
		recs = append(recs, fmt.Sprintf(
			"High commission rate (%.2f%%) significantly reduces profit",
			in.CommissionRate))
	}

	if profitPerUnit <= 0 {
		recs = append(recs,
			"Current price does not exceed the purchase price; "+
				"the sale yields no profit")
	} else {
		recs = append(recs, fmt.Sprintf(
			"Profit per unit: $%.2f", profitPerUnit))
	}

	if remainingUnits/in.CurrentUnits > 0.5 {
		recs = append(recs, "A significant share of the holdings is retained")
	}

	return recs
}
