package costing

import (
	"github.com/shopspring/decimal"
)

// Variance helpers are pure reporting computations against standard cost
// inputs. They never mutate stage state. Sign convention: a positive
// result is unfavorable for price variance and favorable for efficiency
// variance, matching the conventional formulas below.

// MaterialPriceVariance is (actual price - standard price) * actual qty
func MaterialPriceVariance(actualPrice, standardPrice, actualQty decimal.Decimal) decimal.Decimal {
	return actualPrice.Sub(standardPrice).Mul(actualQty)
}

// LaborEfficiencyVariance is (standard hours - actual hours) * standard rate
func LaborEfficiencyVariance(standardHours, actualHours, standardRate decimal.Decimal) decimal.Decimal {
	return standardHours.Sub(actualHours).Mul(standardRate)
}

// OverheadVolumeVariance is (actual hours - standard hours) * fixed overhead rate
func OverheadVolumeVariance(actualHours, standardHours, fixedOverheadRate decimal.Decimal) decimal.Decimal {
	return actualHours.Sub(standardHours).Mul(fixedOverheadRate)
}
