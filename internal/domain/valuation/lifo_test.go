package valuation

import (
	"testing"

	"github.com/erp/costing/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLIFOStrategy_ApplyOutgoing(t *testing.T) {
	s := NewLIFOStrategy()

	t.Run("issue consumes across batches back-first", func(t *testing.T) {
		state := seedQueueState(t, MethodLIFO, [][2]string{
			{"100", "45.50"}, {"50", "48.00"}, {"75", "52.00"},
		})

		// 120 out back-first: all of batch 3 (75 @ 52 = 3900) plus 45 of
		// batch 2 (45 @ 48 = 2160), cogs 6060.
		next, issue, err := s.ApplyOutgoing(state, decimal.NewFromInt(120))
		require.NoError(t, err)

		assert.True(t, issue.COGS.Equal(decimal.NewFromInt(6060)),
			"expected cogs 6060 but got %s", issue.COGS.String())

		require.Len(t, issue.Batches, 2)
		assert.Equal(t, uint64(3), issue.Batches[0].Sequence)
		assert.True(t, issue.Batches[0].Quantity.Equal(decimal.NewFromInt(75)))
		assert.Equal(t, uint64(2), issue.Batches[1].Sequence)
		assert.True(t, issue.Batches[1].Quantity.Equal(decimal.NewFromInt(45)))

		remaining := next.Batches.Batches()
		require.Len(t, remaining, 2)
		assert.True(t, remaining[0].Quantity.Equal(decimal.NewFromInt(100)))
		assert.True(t, remaining[1].Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, remaining[1].UnitCost.Equal(decimal.RequireFromString("48.00")))
	})

	t.Run("quantity conservation holds after every operation", func(t *testing.T) {
		state := seedQueueState(t, MethodLIFO, [][2]string{
			{"10", "1"}, {"20", "2"}, {"30", "3"},
		})

		for _, q := range []string{"15", "20", "7"} {
			var err error
			state, _, err = s.ApplyOutgoing(state, decimal.RequireFromString(q))
			require.NoError(t, err)
			assert.True(t, state.OnHandQty.Equal(state.Batches.TotalQuantity()))
			assert.True(t, state.OnHandValue.Equal(state.Batches.TotalValue()))
		}
	})

	t.Run("insufficient stock leaves the queue untouched", func(t *testing.T) {
		state := seedQueueState(t, MethodLIFO, [][2]string{{"10", "5"}})

		_, _, err := s.ApplyOutgoing(state, decimal.NewFromInt(11))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, state.OnHandQty.Equal(decimal.NewFromInt(10)))
		require.NoError(t, state.CheckInvariants())
	})

	t.Run("receipt still appends to the back", func(t *testing.T) {
		state := seedQueueState(t, MethodLIFO, [][2]string{{"10", "5"}, {"20", "6"}})

		batches := state.Batches.Batches()
		require.Len(t, batches, 2)
		assert.Equal(t, uint64(1), batches[0].Sequence)
		assert.Equal(t, uint64(2), batches[1].Sequence)
	})
}
