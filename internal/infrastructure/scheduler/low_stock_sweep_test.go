package scheduler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/event"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/scheduler"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

type capture struct {
	sent []event.Notification
	fail string
}

func (c *capture) Publish(_ context.Context, n event.Notification) error {
	if p, ok := n.Payload.(event.StockLow); ok && p.ProductID == c.fail {
		return errors.New("rechazada")
	}
	c.sent = append(c.sent, n)
	return nil
}

func seed(t *testing.T, s *memory.Store, id, product string, qty, min int64) {
	t.Helper()
	require.NoError(t, s.StockRecords().Create(context.Background(), &entity.StockRecord{
		ID: id, BranchID: "branch-main", ProductID: product,
		VariationID: entity.NoneID, BatchID: entity.NoneID, Quantity: qty, MinStock: min,
	}))
}

func TestLowStockSweep_PublishesPerLowRecord(t *testing.T) {
	s := memory.NewSeeded()
	seed(t, s, "R1", "prod-cafe", 2, 5)
	seed(t, s, "R2", "prod-agua", 50, 5)
	seed(t, s, "R3", "prod-pan", 0, 0)

	pub := &capture{}
	sweep := scheduler.NewLowStockSweep(inventory.NewLowStockUseCase(s.StockRecords()), pub, logger.Nop())

	n, err := sweep.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, pub.sent, 2)
	first := pub.sent[0].Payload.(event.StockLow)
	assert.Equal(t, "R3", first.StockRecordID)
	assert.Equal(t, event.TypeStockLow, pub.sent[0].Type)
}

func TestLowStockSweep_PublishFailureContinues(t *testing.T) {
	s := memory.NewSeeded()
	seed(t, s, "R1", "prod-cafe", 2, 5)
	seed(t, s, "R2", "prod-agua", 1, 5)

	pub := &capture{fail: "prod-agua"}
	n, err := scheduler.NewLowStockSweep(inventory.NewLowStockUseCase(s.StockRecords()), pub, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStart_InvalidSpec(t *testing.T) {
	s := memory.New()
	_, err := scheduler.Start("no es cron", scheduler.NewLowStockSweep(inventory.NewLowStockUseCase(s.StockRecords()), event.NopPublisher{}, nil))
	assert.Error(t, err)
}

func TestStart_ValidSpec(t *testing.T) {
	s := memory.New()
	c, err := scheduler.Start("*/5 * * * *", scheduler.NewLowStockSweep(inventory.NewLowStockUseCase(s.StockRecords()), event.NopPublisher{}, nil))
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
