package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyFromFloat(100.50)
	b := NewMoneyFromFloat(50.25)

	assert.True(t, a.Add(b).Equals(NewMoneyFromFloat(150.75)))
	assert.True(t, a.Subtract(b).Equals(NewMoneyFromFloat(50.25)))
	assert.True(t, a.Multiply(decimal.NewFromInt(2)).Equals(NewMoneyFromFloat(201)))
	assert.True(t, b.Negate().Equals(NewMoneyFromFloat(-50.25)))

	quotient, err := a.Divide(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, quotient.Equals(NewMoneyFromFloat(50.25)))

	_, err = a.Divide(decimal.Zero)
	assert.Error(t, err)
}

func TestMoney_Rounding(t *testing.T) {
	// 1750 / 150 = 11.66666... rounds half-up to 11.6667 at cost scale
	m, err := NewMoney(decimal.NewFromInt(1750)).Divide(decimal.NewFromInt(150))
	require.NoError(t, err)

	expected, err := NewMoneyFromString("11.6667")
	require.NoError(t, err)
	assert.True(t, m.RoundCost().Equals(expected),
		"expected %s but got %s", expected.StringFixed(4), m.RoundCost().StringFixed(4))

	// Half-up at display scale: 2.345 -> 2.35
	display, err := NewMoneyFromString("2.345")
	require.NoError(t, err)
	assert.Equal(t, "2.35", display.RoundDisplay().String())
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyFromFloat(1)
	big := NewMoneyFromFloat(2)

	assert.True(t, small.LessThan(big))
	assert.True(t, big.GreaterThan(small))
	assert.False(t, small.Equals(big))
	assert.True(t, ZeroMoney().IsZero())
	assert.True(t, small.IsPositive())
	assert.True(t, small.Negate().IsNegative())
}

func TestMoney_JSON(t *testing.T) {
	m, err := NewMoneyFromString("5510.0000")
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"5510"`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equals(m))

	assert.Error(t, json.Unmarshal([]byte(`"not-a-number"`), &decoded))
}

func TestMoney_SQLRoundTrip(t *testing.T) {
	m, err := NewMoneyFromString("93.0000")
	require.NoError(t, err)

	v, err := m.Value()
	require.NoError(t, err)

	var scanned Money
	require.NoError(t, scanned.Scan(v))
	assert.True(t, scanned.Equals(m))

	require.NoError(t, scanned.Scan([]byte("68.4211")))
	expected, err := NewMoneyFromString("68.4211")
	require.NoError(t, err)
	assert.True(t, scanned.Equals(expected))

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	assert.Error(t, scanned.Scan(42))
}
