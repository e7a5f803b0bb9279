package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/pos-ledger/internal/application/event"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

const sweepTimeout = 30 * time.Second

// LowStockSource lo que el barrido necesita del evaluador de stock bajo.
type LowStockSource interface {
	Records(ctx context.Context, branchID string) ([]*entity.StockRecord, error)
}

// LowStockSweep publica una notificación stock.low por cada registro en o bajo su mínimo.
type LowStockSweep struct {
	source    LowStockSource
	publisher event.Publisher
	log       *logger.Logger
}

// NewLowStockSweep construye el barrido.
func NewLowStockSweep(source LowStockSource, publisher event.Publisher, log *logger.Logger) *LowStockSweep {
	if log == nil {
		log = logger.Nop()
	}
	return &LowStockSweep{source: source, publisher: publisher, log: log.Component("low-stock-sweep")}
}

// Run ejecuta un barrido sobre todas las sucursales y devuelve cuántas
// notificaciones se publicaron.
func (s *LowStockSweep) Run(ctx context.Context) (int, error) {
	recs, err := s.source.Records(ctx, "")
	if err != nil {
		return 0, err
	}
	published := 0
	for _, r := range recs {
		n := event.Notification{
			Type:       event.TypeStockLow,
			OccurredAt: time.Now().UTC(),
			Payload: event.StockLow{
				StockRecordID: r.ID,
				BranchID:      r.BranchID,
				ProductID:     r.ProductID,
				Quantity:      r.Quantity,
				MinStock:      r.MinStock,
				NeedsReorder:  r.NeedsReorder(),
			},
		}
		if err := s.publisher.Publish(ctx, n); err != nil {
			s.log.Warn().Err(err).Str("stock_record_id", r.ID).Msg("no se pudo publicar stock bajo")
			continue
		}
		published++
	}
	return published, nil
}

// Start programa el barrido con una expresión cron estándar (5 campos) y
// devuelve el planificador ya iniciado. Detenerlo con Stop().
func Start(spec string, sweep *LowStockSweep) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		n, err := sweep.Run(ctx)
		if err != nil {
			sweep.log.Error().Err(err).Msg("barrido de stock bajo fallido")
			return
		}
		sweep.log.Info().Int("published", n).Msg("barrido de stock bajo completado")
	})
	if err != nil {
		return nil, fmt.Errorf("cron %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
