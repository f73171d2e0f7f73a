package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	costingapp "github.com/erp/costing/internal/application/costing"
	valuationapp "github.com/erp/costing/internal/application/valuation"
	"github.com/erp/costing/internal/domain/journal"
	"github.com/erp/costing/internal/domain/shared"
	"github.com/erp/costing/internal/domain/valuation"
	"github.com/erp/costing/internal/interfaces/http/dto"
	"github.com/erp/costing/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock implementations for the application collaborators

type mockStateRepo struct {
	states map[uuid.UUID]valuation.ItemState
}

func newMockStateRepo() *mockStateRepo {
	return &mockStateRepo{states: make(map[uuid.UUID]valuation.ItemState)}
}

func (m *mockStateRepo) Load(_ context.Context, itemID uuid.UUID, method valuation.Method) (valuation.ItemState, error) {
	if state, ok := m.states[itemID]; ok {
		if state.Method != method {
			return valuation.ItemState{}, shared.NewDomainError("INVALID_STATE", "Stored method does not match configured method")
		}
		return state.Clone(), nil
	}
	return valuation.NewItemState(itemID, method)
}

func (m *mockStateRepo) Save(_ context.Context, state valuation.ItemState) error {
	m.states[state.ItemID] = state.Clone()
	return nil
}

type mockLedger struct {
	entries []valuation.LedgerEntry
}

func (m *mockLedger) Append(_ context.Context, entry *valuation.LedgerEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockLedger) ListByItem(_ context.Context, itemID uuid.UUID, limit int) ([]valuation.LedgerEntry, error) {
	var out []valuation.LedgerEntry
	for _, e := range m.entries {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockPoster struct {
	entries []*journal.Entry
	sources map[string]bool
}

func newMockPoster() *mockPoster {
	return &mockPoster{sources: make(map[string]bool)}
}

func (m *mockPoster) Post(_ context.Context, entry *journal.Entry) error {
	key := string(entry.Source.Type) + ":" + entry.Source.ID
	if m.sources[key] {
		return shared.ErrAlreadyPosted
	}
	m.sources[key] = true
	m.entries = append(m.entries, entry)
	return nil
}

// testServer wires the full HTTP stack against in-memory collaborators
type testServer struct {
	engine    *gin.Engine
	stateRepo *mockStateRepo
	ledger    *mockLedger
	poster    *mockPoster
	stages    *mockStageRepo
}

func newTestServer(t *testing.T, method valuation.Method) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := &testServer{
		stateRepo: newMockStateRepo(),
		ledger:    &mockLedger{},
		poster:    newMockPoster(),
		stages:    newMockStageRepo(),
	}

	logger := zap.NewNop()
	movementService := valuationapp.NewMovementService(
		method, srv.stateRepo, srv.ledger, srv.poster, nil, logger)
	stageService := costingapp.NewStageService(srv.stages, srv.poster, logger)

	srv.engine = gin.New()
	router.NewRouter(srv.engine).
		Register(NewValuationHandler(movementService)).
		Register(NewCostingHandler(stageService)).
		Register(NewSystemHandler(nil)).
		Setup()

	return srv
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dataField(t *testing.T, resp dto.Response, key string) string {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is not an object")
	value, ok := data[key].(string)
	require.True(t, ok, "field %s is not a string", key)
	return value
}

func TestValuationHandler_RecordMovement(t *testing.T) {
	srv := newTestServer(t, valuation.MethodWeightedAverage)
	itemID := uuid.New()

	w := srv.do(t, http.MethodPost, "/api/v1/movements", valuationapp.RecordMovementRequest{
		ItemID:    itemID,
		MoveType:  "PURCHASE_IN",
		QtyIn:     decimal.NewFromInt(100),
		UnitCost:  decimal.NewFromInt(10),
		Reference: "PO-1001",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "100", dataField(t, resp, "on_hand_qty"))
	assert.Equal(t, "1000", dataField(t, resp, "on_hand_value"))
	assert.Equal(t, "10", dataField(t, resp, "unit_cost"))
}

func TestValuationHandler_RecordMovement_SaleEmitsJournalEntry(t *testing.T) {
	srv := newTestServer(t, valuation.MethodWeightedAverage)
	itemID := uuid.New()

	w := srv.do(t, http.MethodPost, "/api/v1/movements", valuationapp.RecordMovementRequest{
		ItemID:   itemID,
		MoveType: "PURCHASE_IN",
		QtyIn:    decimal.NewFromInt(100),
		UnitCost: decimal.NewFromInt(10),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPost, "/api/v1/movements", valuationapp.RecordMovementRequest{
		ItemID:   itemID,
		MoveType: "SALE_OUT",
		QtyOut:   decimal.NewFromInt(40),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, "400", dataField(t, resp, "cost_impact"))
	assert.Equal(t, "60", dataField(t, resp, "on_hand_qty"))

	// Only the sale posts to the general ledger
	require.Len(t, srv.poster.entries, 1)
	entry := srv.poster.entries[0]
	assert.Equal(t, journal.AccountRoleCOGS, entry.Lines[0].Role)
	assert.Equal(t, journal.AccountRoleInventory, entry.Lines[1].Role)
}

func TestValuationHandler_RecordMovement_InvalidMoveType(t *testing.T) {
	srv := newTestServer(t, valuation.MethodWeightedAverage)

	w := srv.do(t, http.MethodPost, "/api/v1/movements", valuationapp.RecordMovementRequest{
		ItemID:   uuid.New(),
		MoveType: "TELEPORT",
		QtyIn:    decimal.NewFromInt(5),
		UnitCost: decimal.NewFromInt(1),
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidMoveType, resp.Error.Code)
}

func TestValuationHandler_RecordMovement_InsufficientStock(t *testing.T) {
	srv := newTestServer(t, valuation.MethodWeightedAverage)

	w := srv.do(t, http.MethodPost, "/api/v1/movements", valuationapp.RecordMovementRequest{
		ItemID:   uuid.New(),
		MoveType: "SALE_OUT",
		QtyOut:   decimal.NewFromInt(10),
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
}

func TestValuationHandler_SimulateIssue(t *testing.T) {
	srv := newTestServer(t, valuation.MethodFIFO)
	itemID := uuid.New()

	for _, receipt := range []struct{ qty, cost int64 }{{100, 50}, {50, 55}} {
		w := srv.do(t, http.MethodPost, "/api/v1/movements", valuationapp.RecordMovementRequest{
			ItemID:   itemID,
			MoveType: "PURCHASE_IN",
			QtyIn:    decimal.NewFromInt(receipt.qty),
			UnitCost: decimal.NewFromInt(receipt.cost),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := srv.do(t, http.MethodPost, "/api/v1/movements/simulate", valuationapp.SimulateIssueRequest{
		ItemID:   itemID,
		Quantity: decimal.NewFromInt(120),
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	// 100 @ 50 + 20 @ 55
	assert.Equal(t, "6100", dataField(t, resp, "cogs"))

	// Simulation leaves the item state untouched
	state := srv.stateRepo.states[itemID]
	assert.True(t, state.OnHandQty.Equal(decimal.NewFromInt(150)),
		"expected 150 but got %s", state.OnHandQty)
}

func TestValuationHandler_GetState(t *testing.T) {
	srv := newTestServer(t, valuation.MethodWeightedAverage)

	t.Run("unknown item reports zero-state", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/items/"+uuid.NewString()+"/valuation", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "WEIGHTED_AVERAGE", dataField(t, resp, "method"))
		assert.Equal(t, "0", dataField(t, resp, "on_hand_qty"))
	})

	t.Run("malformed item id", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/items/not-a-uuid/valuation", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValuationHandler_GetLedger(t *testing.T) {
	srv := newTestServer(t, valuation.MethodWeightedAverage)
	itemID := uuid.New()

	for i := 0; i < 3; i++ {
		w := srv.do(t, http.MethodPost, "/api/v1/movements", valuationapp.RecordMovementRequest{
			ItemID:   itemID,
			MoveType: "PURCHASE_IN",
			QtyIn:    decimal.NewFromInt(10),
			UnitCost: decimal.NewFromInt(5),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := srv.do(t, http.MethodGet, "/api/v1/items/"+itemID.String()+"/ledger", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	rows, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, rows, 3)

	w = srv.do(t, http.MethodGet, "/api/v1/items/"+itemID.String()+"/ledger?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	rows, ok = resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, rows, 2)

	w = srv.do(t, http.MethodGet, "/api/v1/items/"+itemID.String()+"/ledger?limit=-1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSystemHandler_Health(t *testing.T) {
	srv := newTestServer(t, valuation.MethodWeightedAverage)

	w := srv.do(t, http.MethodGet, "/api/v1/system/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "ok", dataField(t, resp, "status"))
}
