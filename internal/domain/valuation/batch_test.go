package valuation

import (
	"testing"

	"github.com/erp/costing/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchQueue_Push(t *testing.T) {
	q := NewBatchQueue()

	b1, err := q.Push(decimal.NewFromInt(10), decimal.NewFromInt(5))
	require.NoError(t, err)
	b2, err := q.Push(decimal.NewFromInt(20), decimal.NewFromInt(6))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), b1.Sequence)
	assert.Equal(t, uint64(2), b2.Sequence)
	assert.Equal(t, 2, q.Len())
	assert.True(t, q.TotalQuantity().Equal(decimal.NewFromInt(30)))
	assert.True(t, q.TotalValue().Equal(decimal.NewFromInt(170)))

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := q.Push(decimal.Zero, decimal.NewFromInt(1))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("rejects negative unit cost", func(t *testing.T) {
		_, err := q.Push(decimal.NewFromInt(1), decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestRestoreBatchQueue(t *testing.T) {
	tests := []struct {
		name        string
		batches     []Batch
		expectError bool
	}{
		{
			name: "valid batches restore",
			batches: []Batch{
				{Sequence: 1, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5)},
				{Sequence: 3, Quantity: decimal.NewFromInt(20), UnitCost: decimal.NewFromInt(6)},
			},
		},
		{
			name: "zero quantity rejected",
			batches: []Batch{
				{Sequence: 1, Quantity: decimal.Zero, UnitCost: decimal.NewFromInt(5)},
			},
			expectError: true,
		},
		{
			name: "out of order sequences rejected",
			batches: []Batch{
				{Sequence: 2, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5)},
				{Sequence: 1, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5)},
			},
			expectError: true,
		},
		{
			name: "negative cost rejected",
			batches: []Batch{
				{Sequence: 1, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(-5)},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := RestoreBatchQueue(tt.batches)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.batches), q.Len())

			// A new push continues after the highest restored sequence
			b, err := q.Push(decimal.NewFromInt(1), decimal.Zero)
			require.NoError(t, err)
			assert.Greater(t, b.Sequence, tt.batches[len(tt.batches)-1].Sequence)
		})
	}
}

func TestBatchQueue_Clone(t *testing.T) {
	q := NewBatchQueue()
	_, err := q.Push(decimal.NewFromInt(10), decimal.NewFromInt(5))
	require.NoError(t, err)

	clone := q.Clone()
	_, _, err = clone.consume(decimal.NewFromInt(10), false)
	require.NoError(t, err)

	assert.Equal(t, 0, clone.Len())
	assert.Equal(t, 1, q.Len())
}

func TestBatchQueue_WeightedUnitCost(t *testing.T) {
	q := NewBatchQueue()
	assert.True(t, q.WeightedUnitCost().IsZero())

	_, err := q.Push(decimal.NewFromInt(30), decimal.RequireFromString("48.00"))
	require.NoError(t, err)
	_, err = q.Push(decimal.NewFromInt(75), decimal.RequireFromString("52.00"))
	require.NoError(t, err)

	// (30*48 + 75*52) / 105 = 5340 / 105 = 50.857142... -> 50.8571
	expected := decimal.RequireFromString("50.8571")
	assert.True(t, q.WeightedUnitCost().Equal(expected),
		"expected %s but got %s", expected.String(), q.WeightedUnitCost().String())
}
