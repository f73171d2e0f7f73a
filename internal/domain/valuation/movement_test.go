package valuation

import (
	"testing"

	"github.com/erp/costing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveType(t *testing.T) {
	for _, mt := range AllMoveTypes() {
		assert.True(t, mt.IsValid(), "%s should be valid", mt)
		assert.NotEqual(t, mt.IsInbound(), mt.IsOutbound(),
			"%s must be exactly one of inbound/outbound", mt)
	}
	assert.False(t, MoveType("SALE").IsValid())
	assert.False(t, MoveType("").IsValid())
}

func TestMovement_Validate(t *testing.T) {
	itemID := uuid.New()

	tests := []struct {
		name     string
		movement Movement
		wantCode string
	}{
		{
			name: "valid receipt",
			movement: Movement{
				ItemID: itemID, Type: MoveTypePurchaseIn,
				QtyIn: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5),
			},
		},
		{
			name: "valid issue",
			movement: Movement{
				ItemID: itemID, Type: MoveTypeSaleOut,
				QtyOut: decimal.NewFromInt(10),
			},
		},
		{
			name: "unrecognized move type",
			movement: Movement{
				ItemID: itemID, Type: MoveType("RESTOCK"),
				QtyIn: decimal.NewFromInt(10),
			},
			wantCode: "INVALID_MOVE_TYPE",
		},
		{
			name: "neither quantity set",
			movement: Movement{
				ItemID: itemID, Type: MoveTypePurchaseIn,
			},
			wantCode: "INVALID_INPUT",
		},
		{
			name: "both quantities set",
			movement: Movement{
				ItemID: itemID, Type: MoveTypePurchaseIn,
				QtyIn: decimal.NewFromInt(10), QtyOut: decimal.NewFromInt(5),
			},
			wantCode: "INVALID_INPUT",
		},
		{
			name: "negative quantity",
			movement: Movement{
				ItemID: itemID, Type: MoveTypeSaleOut,
				QtyOut: decimal.NewFromInt(-5),
			},
			wantCode: "INVALID_INPUT",
		},
		{
			name: "inbound qty on outbound type",
			movement: Movement{
				ItemID: itemID, Type: MoveTypeSaleOut,
				QtyIn: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(5),
			},
			wantCode: "INVALID_INPUT",
		},
		{
			name: "outbound qty on inbound type",
			movement: Movement{
				ItemID: itemID, Type: MoveTypeTransferIn,
				QtyOut: decimal.NewFromInt(10),
			},
			wantCode: "INVALID_INPUT",
		},
		{
			name: "negative receipt cost",
			movement: Movement{
				ItemID: itemID, Type: MoveTypePurchaseIn,
				QtyIn: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(-1),
			},
			wantCode: "INVALID_INPUT",
		},
		{
			name: "missing item id",
			movement: Movement{
				Type: MoveTypePurchaseIn, QtyIn: decimal.NewFromInt(10),
			},
			wantCode: "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.movement.Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestRecordMovement(t *testing.T) {
	t.Run("receipt on average item", func(t *testing.T) {
		state, err := NewItemState(uuid.New(), MethodWeightedAverage)
		require.NoError(t, err)

		result, err := RecordMovement(state, Movement{
			ItemID: state.ItemID, Type: MoveTypePurchaseIn,
			QtyIn: decimal.NewFromInt(100), UnitCost: decimal.NewFromInt(10),
		})
		require.NoError(t, err)

		assert.True(t, result.CostImpact.Equal(decimal.NewFromInt(1000)))
		assert.True(t, result.NewState.OnHandQty.Equal(decimal.NewFromInt(100)))
		assert.Empty(t, result.BatchesTouched)
	})

	t.Run("receipt on FIFO item reports the created lot", func(t *testing.T) {
		state, err := NewItemState(uuid.New(), MethodFIFO)
		require.NoError(t, err)

		result, err := RecordMovement(state, Movement{
			ItemID: state.ItemID, Type: MoveTypePurchaseIn,
			QtyIn: decimal.NewFromInt(100), UnitCost: decimal.RequireFromString("45.50"),
		})
		require.NoError(t, err)

		require.Len(t, result.BatchesTouched, 1)
		assert.Equal(t, uint64(1), result.BatchesTouched[0].Sequence)
		assert.True(t, result.BatchesTouched[0].TotalCost.Equal(decimal.NewFromInt(4550)))
	})

	t.Run("issue on FIFO item reports consumed lots", func(t *testing.T) {
		state := seedQueueState(t, MethodFIFO, [][2]string{
			{"100", "45.50"}, {"50", "48.00"},
		})

		result, err := RecordMovement(state, Movement{
			ItemID: state.ItemID, Type: MoveTypeSaleOut,
			QtyOut: decimal.NewFromInt(120),
		})
		require.NoError(t, err)

		assert.True(t, result.CostImpact.Equal(decimal.NewFromInt(5510)))
		require.Len(t, result.BatchesTouched, 2)
	})

	t.Run("movement for a different item rejected", func(t *testing.T) {
		state, err := NewItemState(uuid.New(), MethodWeightedAverage)
		require.NoError(t, err)

		_, err = RecordMovement(state, Movement{
			ItemID: uuid.New(), Type: MoveTypePurchaseIn,
			QtyIn: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("insufficient stock propagates and state is unchanged", func(t *testing.T) {
		state, err := NewItemState(uuid.New(), MethodLIFO)
		require.NoError(t, err)

		_, err = RecordMovement(state, Movement{
			ItemID: state.ItemID, Type: MoveTypeMOCons,
			QtyOut: decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, state.OnHandQty.IsZero())
	})

	t.Run("every move type dispatches", func(t *testing.T) {
		for _, mt := range AllMoveTypes() {
			state := seedQueueState(t, MethodFIFO, [][2]string{{"100", "10"}})

			mv := Movement{ItemID: state.ItemID, Type: mt}
			if mt.IsInbound() {
				mv.QtyIn = decimal.NewFromInt(5)
				mv.UnitCost = decimal.NewFromInt(10)
			} else {
				mv.QtyOut = decimal.NewFromInt(5)
			}

			result, err := RecordMovement(state, mv)
			require.NoError(t, err, "move type %s", mt)
			require.NoError(t, result.NewState.CheckInvariants())
		}
	})
}
