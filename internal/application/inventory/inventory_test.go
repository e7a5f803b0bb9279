package inventory_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
)

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

type fixture struct {
	store  *memory.Store
	ledger *inventory.StockLedger
	adjust *inventory.AdjustStockUseCase
	stock  *inventory.StockUseCase
	low    *inventory.LowStockUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewSeeded()
	l := inventory.NewStockLedger(inventory.Defaults{MinStock: 5, ReorderPoint: 8})
	return &fixture{
		store:  s,
		ledger: l,
		adjust: inventory.NewAdjustStockUseCase(s, l),
		stock:  inventory.NewStockUseCase(s, l, s.StockRecords(), s.Movements()),
		low:    inventory.NewLowStockUseCase(s.StockRecords()),
	}
}

func i64(v int64) *int64 { return &v }

func (f *fixture) provision(t *testing.T, branch, product string, qty, minStock int64) dto.StockRecordDTO {
	t.Helper()
	res, err := f.stock.Provision(context.Background(), "admin-1", dto.ProvisionStockRequest{
		BranchID: branch, ProductID: product, InitialQuantity: qty, MinStock: i64(minStock),
	})
	require.NoError(t, err)
	return res.Record
}

func adjustReq(branch, product string, change int64, reason string) dto.AdjustStockRequest {
	return dto.AdjustStockRequest{BranchID: branch, ProductID: product, QuantityChange: i64(change), Reason: reason}
}

// assertAuditConsistent verifica que cada cambio dejó su par log/transacción.
func assertAuditConsistent(t *testing.T, s *memory.Store, recordID string, expectedMovements int) {
	t.Helper()
	ctx := context.Background()
	logs, err := s.Movements().ListLogs(ctx, recordID, 0)
	require.NoError(t, err)
	txs, err := s.Movements().ListTransactions(ctx, recordID, 0)
	require.NoError(t, err)

	require.Len(t, logs, expectedMovements)
	require.Len(t, txs, expectedMovements)
	for i := range logs {
		assert.Equal(t, logs[i].PreviousQuantity+logs[i].QuantityChange, logs[i].NewQuantity)
		abs := logs[i].QuantityChange
		if abs < 0 {
			abs = -abs
		}
		assert.Equal(t, abs, txs[i].Quantity)
		assert.Equal(t, logs[i].Reason, txs[i].Metadata.Reason)
	}
}

// -----------------------------------------------------------------------------
// Adjust
// -----------------------------------------------------------------------------

func TestAdjust_DamageScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := f.provision(t, "branch-main", "prod-cafe", 0, 5)

	// Caso 1: +50 RESTOCK
	res, err := f.adjust.Adjust(ctx, "u1", adjustReq("branch-main", "prod-cafe", 50, "restock"))
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.Record.Quantity)
	assert.Equal(t, "RESTOCK", res.Receipt.Reason)

	// Caso 2: -45 DAMAGE deja 5, que es stock bajo (min 5)
	res, err = f.adjust.Adjust(ctx, "u1", adjustReq("branch-main", "prod-cafe", -45, "DAMAGE"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Record.Quantity)
	assert.Equal(t, int64(50), res.Receipt.PreviousQuantity)
	assert.Equal(t, int64(-45), res.Receipt.QuantityChange)
	assert.True(t, res.Record.IsLowStock)

	low, err := f.low.List(ctx, "branch-main")
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, rec.ID, low[0].ID)

	// Caso 3: -10 falla y no escribe nada
	_, err = f.adjust.Adjust(ctx, "u1", adjustReq("branch-main", "prod-cafe", -10, "DAMAGE"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.stock.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)
	assertAuditConsistent(t, f.store, rec.ID, 2)
}

func TestAdjust_RecordMustExist(t *testing.T) {
	f := newFixture(t)
	_, err := f.adjust.Adjust(context.Background(), "u1", adjustReq("branch-main", "prod-cafe", 3, "FOUND"))
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	// No se crea de forma implícita
	low, _ := f.store.StockRecords().ListLowStock(context.Background(), "")
	assert.Empty(t, low)
}

func TestAdjust_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.adjust.Adjust(ctx, "u1", dto.AdjustStockRequest{BranchID: "branch-main", ProductID: "prod-cafe", Reason: "X"})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = f.adjust.Adjust(ctx, "u1", dto.AdjustStockRequest{ProductID: "prod-cafe", QuantityChange: i64(1), Reason: "X"})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = f.adjust.Adjust(ctx, "u1", adjustReq("branch-main", "prod-cafe", 1, ""))
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = f.adjust.Adjust(ctx, "u1", adjustReq("branch-main", "prod-cafe", 0, "X"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.adjust.Adjust(ctx, "", adjustReq("branch-main", "prod-cafe", 1, "X"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAdjust_OfflineReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.provision(t, "branch-main", "prod-cafe", 10, 0)

	req := adjustReq("branch-main", "prod-cafe", -1, "sale_offline")
	req.OfflineID = "dev-42"
	res, err := f.adjust.Adjust(ctx, "u1", req)
	require.NoError(t, err)
	assert.Equal(t, "offline sync: dev-42", res.Receipt.Reference)

	req.Reference = "TICKET-9"
	res, err = f.adjust.Adjust(ctx, "u1", req)
	require.NoError(t, err)
	assert.Equal(t, "TICKET-9", res.Receipt.Reference)
}

func TestAdjust_EmptyVariationMatchesAbsentVariation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := f.provision(t, "branch-main", "prod-cafe", 10, 0)

	empty := ""
	req := adjustReq("branch-main", "prod-cafe", -2, "COUNT")
	req.VariationID = &empty
	req.BatchID = &empty
	res, err := f.adjust.Adjust(ctx, "u1", req)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, res.Record.ID)
	assert.Equal(t, int64(8), res.Record.Quantity)
}

func TestAdjust_ConcurrentDecrementsNeverOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const start, workers = int64(20), 30
	rec := f.provision(t, "branch-main", "prod-agua", start, 0)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int64
		failed    int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.adjust.Adjust(ctx, "u1", adjustReq("branch-main", "prod-agua", -1, "SALE"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			failed++
		}()
	}
	wg.Wait()

	assert.Equal(t, start, succeeded)
	assert.Equal(t, workers-int(start), failed)
	got, err := f.stock.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)
	// 1 movimiento de stock inicial + 20 débitos
	assertAuditConsistent(t, f.store, rec.ID, int(start)+1)
}

// -----------------------------------------------------------------------------
// Provision / Receive / Thresholds / BulkDelete
// -----------------------------------------------------------------------------

func TestProvision_DuplicateIdentity(t *testing.T) {
	f := newFixture(t)
	f.provision(t, "branch-main", "prod-cafe", 1, 0)

	_, err := f.stock.Provision(context.Background(), "admin-1", dto.ProvisionStockRequest{BranchID: "branch-main", ProductID: "prod-cafe"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestProvision_InitialStockAudited(t *testing.T) {
	f := newFixture(t)
	rec := f.provision(t, "branch-main", "prod-cafe", 12, 0)

	logs, err := f.stock.ListMovements(context.Background(), rec.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ReasonInitialStock, logs[0].Reason)
	assert.Equal(t, int64(12), logs[0].NewQuantity)

	// Sin cantidad inicial no hay movimiento
	empty := f.provision(t, "branch-main", "prod-pan", 0, 0)
	logs, err = f.stock.ListMovements(context.Background(), empty.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestProvision_MaxStockBelowDefaultMinStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// min_stock no viene en la petición: aplica el valor por defecto (5)
	_, err := f.stock.Provision(ctx, "admin-1", dto.ProvisionStockRequest{BranchID: "branch-main", ProductID: "prod-cafe", MaxStock: i64(3)})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	k := entity.StockKey{BranchID: "branch-main", ProductID: "prod-cafe", VariationID: entity.NoneID, BatchID: entity.NoneID}
	rec, err := f.store.StockRecords().Get(ctx, k)
	require.NoError(t, err)
	assert.Nil(t, rec)

	res, err := f.stock.Provision(ctx, "admin-1", dto.ProvisionStockRequest{BranchID: "branch-main", ProductID: "prod-cafe", MaxStock: i64(5)})
	require.NoError(t, err)
	require.NotNil(t, res.Record.MaxStock)
	assert.Equal(t, int64(5), *res.Record.MaxStock)
}

func TestProvisionAndReceive_RequireActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.stock.Provision(ctx, "", dto.ProvisionStockRequest{BranchID: "branch-main", ProductID: "prod-cafe", InitialQuantity: 3})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.stock.Receive(ctx, "", dto.ReceiveStockRequest{BranchID: "branch-main", ProductID: "prod-cafe", Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	low, err := f.low.Records(ctx, "branch-main")
	require.NoError(t, err)
	assert.Empty(t, low)
}

func TestReceive_CreatesRecordWithDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.stock.Receive(ctx, "u1", dto.ReceiveStockRequest{BranchID: "branch-main", ProductID: "prod-agua", Quantity: 24, Reference: "OC-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(24), res.Record.Quantity)
	assert.Equal(t, int64(5), res.Record.MinStock)
	assert.Equal(t, int64(8), res.Record.ReorderPoint)
	require.NotNil(t, res.Receipt)
	assert.Equal(t, int64(0), res.Receipt.PreviousQuantity)

	// Segunda entrada sobre el mismo registro
	res2, err := f.stock.Receive(ctx, "u1", dto.ReceiveStockRequest{BranchID: "branch-main", ProductID: "prod-agua", Quantity: 6})
	require.NoError(t, err)
	assert.Equal(t, res.Record.ID, res2.Record.ID)
	assert.Equal(t, int64(30), res2.Record.Quantity)

	_, err = f.stock.Receive(ctx, "u1", dto.ReceiveStockRequest{BranchID: "branch-main", ProductID: "prod-agua", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestUpsertAdjust_NegativeDeltaOnNewRecordClampsToZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	k := entity.StockKey{BranchID: "branch-main", ProductID: "prod-pan", VariationID: entity.NoneID, BatchID: entity.NoneID}

	err := f.store.Run(ctx, func(tx inventory.Repos) error {
		rec, log, err := f.ledger.UpsertAdjust(ctx, tx, k, -3, inventory.Mutation{Reason: "COUNT", ActorID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), rec.Quantity)
		assert.Nil(t, log)
		return nil
	})
	require.NoError(t, err)

	rec, _ := f.store.StockRecords().Get(ctx, k)
	require.NotNil(t, rec)
	assert.Equal(t, int64(0), rec.Quantity)
}

func TestUpdateThresholds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := f.provision(t, "branch-main", "prod-cafe", 10, 0)

	out, err := f.stock.UpdateThresholds(ctx, rec.ID, dto.UpdateThresholdsRequest{MinStock: i64(12), ReorderPoint: i64(15), MaxStock: i64(100)})
	require.NoError(t, err)
	assert.Equal(t, int64(12), out.MinStock)
	assert.True(t, out.IsLowStock)
	assert.True(t, out.NeedsReorder)
	assert.Equal(t, int64(10), out.Quantity)

	_, err = f.stock.UpdateThresholds(ctx, rec.ID, dto.UpdateThresholdsRequest{MinStock: i64(10), ReorderPoint: i64(0), MaxStock: i64(5)})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.stock.UpdateThresholds(ctx, "nope", dto.UpdateThresholdsRequest{MinStock: i64(1), ReorderPoint: i64(1)})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	// Umbrales no generan auditoría
	logs, _ := f.stock.ListMovements(ctx, rec.ID, 0)
	assert.Len(t, logs, 1)
}

func TestBulkDelete_KeepsAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.provision(t, "branch-main", "prod-cafe", 3, 0)
	b := f.provision(t, "branch-main", "prod-agua", 4, 0)

	n, err := f.stock.BulkDelete(ctx, dto.BulkDeleteRequest{IDs: []string{a.ID, b.ID, a.ID, "missing"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = f.stock.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	logs, err := f.stock.ListMovements(ctx, a.ID, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	_, err = f.stock.BulkDelete(ctx, dto.BulkDeleteRequest{})
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

// -----------------------------------------------------------------------------
// LowStock
// -----------------------------------------------------------------------------

func TestLowStock_OrderAndBranchFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddBranch(entity.Branch{ID: "branch-2", Name: "Norte", Active: true})

	f.provision(t, "branch-main", "prod-cafe", 4, 5)
	f.provision(t, "branch-main", "prod-agua", 1, 5)
	f.provision(t, "branch-main", "prod-pan", 50, 5)
	f.provision(t, "branch-2", "prod-cafe", 0, 2)

	all, err := f.low.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(0), all[0].Quantity)
	assert.Equal(t, int64(1), all[1].Quantity)
	assert.Equal(t, int64(4), all[2].Quantity)

	main, err := f.low.List(ctx, "branch-main")
	require.NoError(t, err)
	require.Len(t, main, 2)
	for _, r := range main {
		assert.Equal(t, "branch-main", r.BranchID)
	}
}

func TestAdjust_OverflowIsInvalidAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := f.provision(t, "branch-main", "prod-cafe", 10, 0)

	_, err := f.adjust.Adjust(ctx, "u1", adjustReq("branch-main", "prod-cafe", math.MaxInt64, "COUNT"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	got, err := f.stock.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)
	assertAuditConsistent(t, f.store, rec.ID, 1)
}
