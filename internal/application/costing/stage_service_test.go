package costing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/costing/internal/domain/costing"
	"github.com/erp/costing/internal/domain/journal"
	"github.com/erp/costing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stageKey struct {
	moID        uuid.UUID
	stageNumber int
}

// fakeStageRepo is an in-memory StageRepository
type fakeStageRepo struct {
	mu     sync.Mutex
	stages map[stageKey]*costing.StageCostRecord
}

func newFakeStageRepo() *fakeStageRepo {
	return &fakeStageRepo{stages: make(map[stageKey]*costing.StageCostRecord)}
}

// Load returns a copy, matching a database-backed repository that
// rehydrates a fresh record on every load
func (r *fakeStageRepo) Load(_ context.Context, moID uuid.UUID, stageNumber int) (*costing.StageCostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stage, ok := r.stages[stageKey{moID, stageNumber}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *stage
	return &copied, nil
}

func (r *fakeStageRepo) Save(_ context.Context, stage *costing.StageCostRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *stage
	r.stages[stageKey{stage.ManufacturingOrderID, stage.StageNumber}] = &copied
	return nil
}

func (r *fakeStageRepo) ListByOrder(_ context.Context, moID uuid.UUID) ([]*costing.StageCostRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*costing.StageCostRecord
	for n := 1; ; n++ {
		stage, ok := r.stages[stageKey{moID, n}]
		if !ok {
			break
		}
		out = append(out, stage)
	}
	return out, nil
}

// fakePoster records posted journal entries
type fakePoster struct {
	mu      sync.Mutex
	entries []*journal.Entry
	err     error
}

func (p *fakePoster) Post(_ context.Context, entry *journal.Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.entries = append(p.entries, entry)
	return nil
}

func newStageService() (*StageService, *fakeStageRepo, *fakePoster) {
	repo := newFakeStageRepo()
	poster := &fakePoster{}
	return NewStageService(repo, poster, zap.NewNop()), repo, poster
}

func TestStageService_OpenStage(t *testing.T) {
	ctx := context.Background()

	t.Run("first stage opens with zero transferred-in", func(t *testing.T) {
		service, _, _ := newStageService()

		resp, err := service.OpenStage(ctx, OpenStageRequest{
			ManufacturingOrderID: uuid.New(),
			WorkCenterID:         uuid.New(),
			StageNumber:          1,
		})
		require.NoError(t, err)
		assert.Equal(t, "OPEN", resp.Status)
		assert.True(t, resp.TransferredIn.IsZero())
	})

	t.Run("duplicate stage rejected", func(t *testing.T) {
		service, _, _ := newStageService()
		moID := uuid.New()

		_, err := service.OpenStage(ctx, OpenStageRequest{
			ManufacturingOrderID: moID, WorkCenterID: uuid.New(), StageNumber: 1,
		})
		require.NoError(t, err)

		_, err = service.OpenStage(ctx, OpenStageRequest{
			ManufacturingOrderID: moID, WorkCenterID: uuid.New(), StageNumber: 1,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("later stage requires calculated predecessor", func(t *testing.T) {
		service, _, _ := newStageService()
		moID := uuid.New()

		// No stage 1 at all
		_, err := service.OpenStage(ctx, OpenStageRequest{
			ManufacturingOrderID: moID, WorkCenterID: uuid.New(), StageNumber: 2,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INCOMPLETE_STAGE", domainErr.Code)

		// Stage 1 exists but is still OPEN
		_, err = service.OpenStage(ctx, OpenStageRequest{
			ManufacturingOrderID: moID, WorkCenterID: uuid.New(), StageNumber: 1,
		})
		require.NoError(t, err)

		_, err = service.OpenStage(ctx, OpenStageRequest{
			ManufacturingOrderID: moID, WorkCenterID: uuid.New(), StageNumber: 2,
		})
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INCOMPLETE_STAGE", domainErr.Code)
	})
}

func TestStageService_MultiStageFlow(t *testing.T) {
	ctx := context.Background()
	service, _, poster := newStageService()
	moID := uuid.New()

	_, err := service.OpenStage(ctx, OpenStageRequest{
		ManufacturingOrderID: moID, WorkCenterID: uuid.New(), StageNumber: 1,
	})
	require.NoError(t, err)

	_, err = service.ApplyCosts(ctx, moID, 1, ApplyCostsRequest{
		Material:      decimal.NewFromInt(20000),
		LaborHours:    decimal.NewFromInt(400),
		LaborRate:     decimal.NewFromInt(20),
		OverheadBasis: decimal.NewFromInt(8000),
		OverheadRate:  decimal.RequireFromString("0.5"),
	})
	require.NoError(t, err)

	_, err = service.SetQuantities(ctx, moID, 1, SetQuantitiesRequest{
		TotalInputQty: decimal.NewFromInt(1000),
		GoodQty:       decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	stage1, err := service.CalculateStage(ctx, moID, 1)
	require.NoError(t, err)
	assert.True(t, stage1.TotalCost.Equal(decimal.NewFromInt(32000)))
	assert.True(t, stage1.UnitCost.Equal(decimal.NewFromInt(32)))

	// Stage 2 inherits stage 1's total as transferred-in
	stage2, err := service.OpenStage(ctx, OpenStageRequest{
		ManufacturingOrderID: moID, WorkCenterID: uuid.New(), StageNumber: 2,
	})
	require.NoError(t, err)
	assert.True(t, stage2.TransferredIn.Equal(decimal.NewFromInt(32000)))

	_, err = service.ApplyCosts(ctx, moID, 2, ApplyCostsRequest{
		Material:      decimal.NewFromInt(15000),
		LaborHours:    decimal.NewFromInt(600),
		LaborRate:     decimal.NewFromInt(20),
		OverheadBasis: decimal.NewFromInt(12000),
		OverheadRate:  decimal.RequireFromString("0.5"),
	})
	require.NoError(t, err)

	_, err = service.SetQuantities(ctx, moID, 2, SetQuantitiesRequest{
		TotalInputQty: decimal.NewFromInt(1000),
		GoodQty:       decimal.NewFromInt(950),
		ScrapQty:      decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	stage2, err = service.CalculateStage(ctx, moID, 2)
	require.NoError(t, err)
	assert.True(t, stage2.TotalCost.Equal(decimal.NewFromInt(65000)),
		"expected 65000 but got %s", stage2.TotalCost.String())
	assert.True(t, stage2.UnitCost.Equal(decimal.RequireFromString("68.4211")),
		"expected 68.4211 but got %s", stage2.UnitCost.String())

	// Post both: intermediate into WIP, final into finished goods
	_, err = service.PostStage(ctx, moID, 1, PostStageRequest{FinalStage: false})
	require.NoError(t, err)
	_, err = service.PostStage(ctx, moID, 2, PostStageRequest{FinalStage: true})
	require.NoError(t, err)

	require.Len(t, poster.entries, 2)
	assert.Equal(t, journal.AccountRoleWIP, poster.entries[0].Lines[0].Role)
	assert.Equal(t, journal.AccountRoleFinishedGoods, poster.entries[1].Lines[0].Role)

	stages, err := service.ListStages(ctx, moID)
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, "POSTED", stages[0].Status)
	assert.Equal(t, "POSTED", stages[1].Status)
}

func TestStageService_PostStage(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*StageService, *fakePoster, uuid.UUID) {
		t.Helper()
		service, _, poster := newStageService()
		moID := uuid.New()

		_, err := service.OpenStage(ctx, OpenStageRequest{
			ManufacturingOrderID: moID, WorkCenterID: uuid.New(), StageNumber: 1,
		})
		require.NoError(t, err)
		_, err = service.ApplyCosts(ctx, moID, 1, ApplyCostsRequest{
			Material: decimal.NewFromInt(1000),
		})
		require.NoError(t, err)
		_, err = service.SetQuantities(ctx, moID, 1, SetQuantitiesRequest{
			TotalInputQty: decimal.NewFromInt(100), GoodQty: decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		_, err = service.CalculateStage(ctx, moID, 1)
		require.NoError(t, err)
		return service, poster, moID
	}

	t.Run("second post rejected without duplicate entry", func(t *testing.T) {
		service, poster, moID := setup(t)

		_, err := service.PostStage(ctx, moID, 1, PostStageRequest{})
		require.NoError(t, err)

		_, err = service.PostStage(ctx, moID, 1, PostStageRequest{})
		assert.ErrorIs(t, err, shared.ErrAlreadyPosted)
		assert.Len(t, poster.entries, 1)
	})

	t.Run("poster failure leaves stage re-postable", func(t *testing.T) {
		service, poster, moID := setup(t)
		poster.err = errors.New("ledger unavailable")

		_, err := service.PostStage(ctx, moID, 1, PostStageRequest{})
		require.Error(t, err)

		poster.err = nil
		resp, err := service.PostStage(ctx, moID, 1, PostStageRequest{})
		require.NoError(t, err)
		assert.Equal(t, "POSTED", resp.Status)
		assert.Len(t, poster.entries, 1)
	})
}
