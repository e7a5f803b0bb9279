package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/event"
	"github.com/jhoicas/pos-ledger/internal/application/finance"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain/ledger"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-ledger/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// newAPI arma la API completa sobre el store en memoria con datos de demostración.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.NewSeeded()
	l := inventory.NewStockLedger(inventory.Defaults{MinStock: 5, ReorderPoint: 8})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AdjustStock: inventory.NewAdjustStockUseCase(s, l),
		Stock:       inventory.NewStockUseCase(s, l, s.StockRecords(), s.Movements()),
		LowStock:    inventory.NewLowStockUseCase(s.StockRecords()),
		CompleteSale: sales.NewCompleteSaleUseCase(s, l, s.Branches(), s.Sales(), ledger.NewFixedRatioCost(0.70),
			event.NopPublisher{}, logger.Nop(), sales.Config{DefaultBranchID: "branch-main", DefaultActorID: "system"}),
		Summary:   finance.NewSummaryUseCase(s.Finance(), s.Branches()),
		Expenses:  finance.NewExpenseUseCase(s, s.Expenses(), event.NopPublisher{}, logger.Nop()),
		Health:    apphttp.NewHealthHandler("pos-ledger", "memory", nil),
		JWTSecret: testJWTSecret,
	})
	return app
}

// call ejecuta la petición y decodifica el cuerpo JSON en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, role string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	app := newAPI(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["storage"])
}

func TestInventoryRoutes_RequireToken(t *testing.T) {
	app := newAPI(t)
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/inventory/low-stock", "", nil, nil))
}

func TestInventoryRoutes_ProvisionAdjustAndHistory(t *testing.T) {
	app := newAPI(t)

	var created dto.StockMutationResponse
	status := call(t, app, http.MethodPost, "/api/inventory/stock", "MANAGER",
		map[string]any{"branch_id": "branch-main", "product_id": "prod-cafe", "initial_quantity": 50}, &created)
	require.Equal(t, http.StatusCreated, status)
	id := created.Record.ID
	require.NotEmpty(t, id)

	var adjusted dto.StockMutationResponse
	status = call(t, app, http.MethodPost, "/api/inventory/adjustments", "CASHIER",
		map[string]any{"branch_id": "branch-main", "product_id": "prod-cafe", "quantity_change": -45, "reason": "damage"}, &adjusted)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(5), adjusted.Record.Quantity)
	require.NotNil(t, adjusted.Receipt)
	assert.Equal(t, testUserID, adjusted.Receipt.ActorID)

	var errBody dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/inventory/adjustments", "CASHIER",
		map[string]any{"branch_id": "branch-main", "product_id": "prod-cafe", "quantity_change": -10, "reason": "damage"}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)

	status = call(t, app, http.MethodPost, "/api/inventory/adjustments", "CASHIER",
		map[string]any{"branch_id": "branch-main", "product_id": "prod-agua", "quantity_change": 3, "reason": "count"}, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "RECORD_NOT_FOUND", errBody.Code)

	status = call(t, app, http.MethodPost, "/api/inventory/adjustments", "CASHIER",
		map[string]any{"branch_id": "branch-main", "product_id": "prod-cafe", "quantity_change": 3}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_FIELD", errBody.Code)

	var history struct {
		Total     int                  `json:"total"`
		Movements []dto.MovementLogDTO `json:"movements"`
	}
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/stock/"+id+"/movements?limit=1", "CASHIER", nil, &history))
	require.Len(t, history.Movements, 1)
	assert.Equal(t, int64(-45), history.Movements[0].QuantityChange)

	var low struct {
		Total   int                  `json:"total"`
		Records []dto.StockRecordDTO `json:"records"`
	}
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/low-stock?branch_id=branch-main", "CASHIER", nil, &low))
	require.Equal(t, 1, low.Total)
	assert.Equal(t, id, low.Records[0].ID)
}

func TestInventoryRoutes_ReceiveAndThresholds(t *testing.T) {
	app := newAPI(t)

	var res dto.StockMutationResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/inventory/receipts", "CASHIER",
		map[string]any{"branch_id": "branch-main", "product_id": "prod-pan", "quantity": 12}, &res))
	assert.Equal(t, int64(12), res.Record.Quantity)
	assert.Equal(t, int64(5), res.Record.MinStock)

	var rec dto.StockRecordDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, "/api/inventory/stock/"+res.Record.ID+"/thresholds", "MANAGER",
		map[string]any{"min_stock": 15, "reorder_point": 20}, &rec))
	assert.True(t, rec.IsLowStock)
	assert.True(t, rec.NeedsReorder)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/stock/"+res.Record.ID, "CASHIER", nil, &rec))
	assert.Equal(t, int64(15), rec.MinStock)
}

func TestInventoryRoutes_BulkDeleteRequiresReviewer(t *testing.T) {
	app := newAPI(t)
	var created dto.StockMutationResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/inventory/stock", "ADMIN",
		map[string]any{"branch_id": "branch-main", "product_id": "prod-cafe", "initial_quantity": 2}, &created))

	body := map[string]any{"ids": []string{created.Record.ID}}
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/inventory/stock/bulk-delete", "CASHIER", body, nil))

	var deleted dto.DeletedResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/inventory/stock/bulk-delete", "ADMIN", body, &deleted))
	assert.Equal(t, int64(1), deleted.Deleted)

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/inventory/stock/"+created.Record.ID, "ADMIN", nil, nil))
}

func TestSaleRoutes_CompleteAndGet(t *testing.T) {
	app := newAPI(t)
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/inventory/stock", "ADMIN",
		map[string]any{"branch_id": "branch-main", "product_id": "prod-agua", "initial_quantity": 3}, nil))

	sale := map[string]any{
		"sale_number":    "V-100",
		"payment_method": "cash",
		"subtotal":       "25",
		"total":          "25",
		"items": []map[string]any{
			{"product_id": "prod-agua", "quantity": 2, "unit_price": "10", "total_price": "20"},
			{"product_id": "prod-pan", "quantity": 1, "unit_price": "5", "total_price": "5"},
		},
	}
	var out dto.SaleDTO
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/sales", "CASHIER", sale, &out))
	assert.Equal(t, "branch-main", out.BranchID)
	assert.Equal(t, testUserID, out.UserID)
	assert.Equal(t, []string{"prod-pan"}, out.UntrackedProductIDs)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/sales", "CASHIER", sale, &errBody))
	assert.Equal(t, "INVALID_STATE", errBody.Code)

	sale["sale_number"] = "V-101"
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/sales", "CASHIER", sale, &errBody))
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)

	var got dto.SaleDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/sales/"+out.ID, "CASHIER", nil, &got))
	assert.Len(t, got.Items, 2)
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/sales/nope", "CASHIER", nil, nil))
}

func TestExpenseRoutes_Lifecycle(t *testing.T) {
	app := newAPI(t)

	var e dto.ExpenseDTO
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/expenses", "CASHIER",
		map[string]any{"branch_id": "branch-main", "category": "Servicios", "amount": "40"}, &e))
	assert.Equal(t, "PENDING", e.Status)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, "/api/expenses/"+e.ID, "CASHIER",
		map[string]any{"amount": "45"}, &e))
	assert.Equal(t, "45", e.Amount.String())

	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/expenses/"+e.ID+"/approve", "CASHIER", nil, nil))

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/expenses/"+e.ID+"/approve", "MANAGER",
		map[string]any{"note": "ok"}, &e))
	assert.Equal(t, "APPROVED", e.Status)
	assert.Equal(t, testUserID, e.ReviewedBy)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/expenses/"+e.ID+"/reject", "ADMIN", nil, &errBody))
	assert.Equal(t, "INVALID_STATE", errBody.Code)
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodDelete, "/api/expenses/"+e.ID, "ADMIN", nil, nil))

	var pending dto.ExpenseDTO
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/expenses", "CASHIER",
		map[string]any{"category": "Aseo", "amount": "10"}, &pending))
	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/expenses/"+pending.ID, "CASHIER", nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/expenses/"+pending.ID, "CASHIER", nil, nil))
}

func TestFinanceSummary(t *testing.T) {
	app := newAPI(t)
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/inventory/stock", "ADMIN",
		map[string]any{"branch_id": "branch-main", "product_id": "prod-agua", "initial_quantity": 10}, nil))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/sales", "CASHIER", map[string]any{
		"sale_number": "V-1", "payment_method": "cash", "subtotal": "100", "total": "100",
		"items": []map[string]any{{"product_id": "prod-agua", "quantity": 5, "unit_price": "20", "total_price": "100"}},
	}, nil))

	var summary dto.FinancialSummaryDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/finance/summary?branch_id=branch-main", "MANAGER", nil, &summary))
	assert.Equal(t, 1, summary.SalesCount)
	assert.Equal(t, "100", summary.TotalRevenue.String())
	assert.Equal(t, "70", summary.TotalCOGS.String())
	assert.Equal(t, "30", summary.ProfitMargin.String())

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/finance/summary?start=ayer", "MANAGER", nil, &errBody))
	assert.Equal(t, "INVALID_AMOUNT", errBody.Code)
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/finance/summary?start=2030-01-02&end=2030-01-01", "MANAGER", nil, nil))
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/finance/summary?start=2020-01-01&end=2099-12-31", "MANAGER", nil, nil))
}
