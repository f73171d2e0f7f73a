package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMaterialPriceVariance(t *testing.T) {
	// Paid 10.50 against a 10.00 standard for 200 units: 100 unfavorable
	v := MaterialPriceVariance(
		decimal.RequireFromString("10.50"),
		decimal.NewFromInt(10),
		decimal.NewFromInt(200))
	assert.True(t, v.Equal(decimal.NewFromInt(100)), "got %s", v.String())

	// Paying under standard flips the sign
	v = MaterialPriceVariance(
		decimal.RequireFromString("9.50"),
		decimal.NewFromInt(10),
		decimal.NewFromInt(200))
	assert.True(t, v.Equal(decimal.NewFromInt(-100)))
}

func TestLaborEfficiencyVariance(t *testing.T) {
	// 500 standard hours, 480 actual, 20/hr standard rate: 400 favorable
	v := LaborEfficiencyVariance(
		decimal.NewFromInt(500),
		decimal.NewFromInt(480),
		decimal.NewFromInt(20))
	assert.True(t, v.Equal(decimal.NewFromInt(400)))
}

func TestOverheadVolumeVariance(t *testing.T) {
	v := OverheadVolumeVariance(
		decimal.NewFromInt(480),
		decimal.NewFromInt(500),
		decimal.NewFromInt(5))
	assert.True(t, v.Equal(decimal.NewFromInt(-100)))
}
