package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/event"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/ledger"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// Config valores por defecto cuando la petición o el token no los traen.
type Config struct {
	DefaultBranchID string
	DefaultActorID  string
}

// CompleteSaleUseCase registra una venta y descuenta el stock de cada línea en una
// sola transacción: cabecera, líneas y débitos quedan todos o ninguno.
type CompleteSaleUseCase struct {
	txRunner  inventory.TxRunner
	ledger    *inventory.StockLedger
	branches  repository.BranchRepository
	sales     repository.SaleRepository
	cost      ledger.CostResolver
	publisher event.Publisher
	log       *logger.Logger
	cfg       Config
	now       func() time.Time
}

// NewCompleteSaleUseCase construye el coordinador. sales es el repositorio de
// lectura fuera de transacción (GetSale).
func NewCompleteSaleUseCase(
	txRunner inventory.TxRunner,
	l *inventory.StockLedger,
	branches repository.BranchRepository,
	sales repository.SaleRepository,
	cost ledger.CostResolver,
	publisher event.Publisher,
	log *logger.Logger,
	cfg Config,
) *CompleteSaleUseCase {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CompleteSaleUseCase{
		txRunner:  txRunner,
		ledger:    l,
		branches:  branches,
		sales:     sales,
		cost:      cost,
		publisher: publisher,
		log:       log.Component("sales"),
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CompleteSale valida el borrador, resuelve sucursal y actor, y ejecuta la unidad
// de trabajo. Las líneas cuyo producto no tiene StockRecord se venden sin débito y
// se informan en UntrackedProductIDs. La notificación se publica después del commit.
func (uc *CompleteSaleUseCase) CompleteSale(ctx context.Context, actorID string, in dto.CompleteSaleRequest) (*dto.SaleDTO, error) {
	if len(in.Items) == 0 {
		return nil, domain.Wrap(domain.ErrMissingField, "items es obligatorio")
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := validateAmounts(in); err != nil {
		return nil, err
	}

	branchID := strings.TrimSpace(in.BranchID)
	if branchID == "" {
		branchID = uc.cfg.DefaultBranchID
	}
	if branchID == "" {
		return nil, domain.Wrap(domain.ErrMissingField, "branch_id es obligatorio y no hay sucursal por defecto")
	}
	branch, err := uc.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	if branch == nil {
		return nil, domain.Wrap(domain.ErrRecordNotFound, "sucursal no encontrada")
	}
	if !branch.Active {
		return nil, domain.Wrap(domain.ErrInvalidState, "la sucursal está inactiva")
	}
	if actorID == "" {
		actorID = uc.cfg.DefaultActorID
	}
	if actorID == "" {
		actorID = entity.SystemActorID
	}

	sale, err := uc.buildSale(ctx, branchID, actorID, in)
	if err != nil {
		return nil, err
	}

	var untracked []string
	err = uc.txRunner.Run(ctx, func(tx inventory.Repos) error {
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, item := range sale.Items {
			if err := tx.Sales.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		u, err := uc.debit(ctx, tx, sale, actorID)
		if err != nil {
			return err
		}
		untracked = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, sale, untracked)

	out := dto.ToSaleDTO(sale)
	out.UntrackedProductIDs = untracked
	return out, nil
}

// GetSale devuelve una venta con sus líneas.
func (uc *CompleteSaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleDTO, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	if sale == nil {
		return nil, domain.Wrap(domain.ErrRecordNotFound, "venta no encontrada")
	}
	return dto.ToSaleDTO(sale), nil
}

func (uc *CompleteSaleUseCase) buildSale(ctx context.Context, branchID, actorID string, in dto.CompleteSaleRequest) (*entity.Sale, error) {
	now := uc.now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		SaleNumber:    strings.TrimSpace(in.SaleNumber),
		BranchID:      branchID,
		UserID:        actorID,
		CustomerID:    strings.TrimSpace(in.CustomerID),
		Subtotal:      in.Subtotal,
		Discount:      in.Discount,
		Tax:           in.Tax,
		TotalAmount:   in.Total,
		PaymentMethod: strings.ToUpper(strings.TrimSpace(in.PaymentMethod)),
		Status:        entity.SaleStatusCompleted,
		PaymentStatus: entity.PaymentStatusPaid,
		CreatedAt:     now,
		Items:         make([]*entity.SaleLineItem, 0, len(in.Items)),
	}
	for i, line := range in.Items {
		key, err := ledger.ResolveKey(branchID, line.ProductID, line.VariationID, line.BatchID)
		if err != nil {
			return nil, err
		}
		unitCost, err := uc.cost.UnitCost(ctx, key.ProductID, line.UnitPrice)
		if err != nil {
			return nil, domain.StorageFailure(err)
		}
		item := &entity.SaleLineItem{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			Position:    i + 1,
			ProductID:   key.ProductID,
			VariationID: key.VariationID,
			BatchID:     key.BatchID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
			CostPrice:   unitCost,
		}
		item.ComputeProfit()
		sale.Items = append(sale.Items, item)
	}
	return sale, nil
}

// debit descuenta una vez por línea. Los registros se bloquean en orden de
// identidad para que dos ventas concurrentes no se bloqueen mutuamente.
func (uc *CompleteSaleUseCase) debit(ctx context.Context, tx inventory.Repos, sale *entity.Sale, actorID string) ([]string, error) {
	items := make([]*entity.SaleLineItem, len(sale.Items))
	copy(items, sale.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return lockOrder(itemKey(sale.BranchID, items[i])) < lockOrder(itemKey(sale.BranchID, items[j]))
	})

	var untracked []string
	seen := make(map[string]bool)
	for _, item := range items {
		rec, err := tx.Stock.GetForUpdate(ctx, itemKey(sale.BranchID, item))
		if err != nil {
			return nil, err
		}
		if rec == nil {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				untracked = append(untracked, item.ProductID)
			}
			continue
		}
		m := inventory.Mutation{Reason: entity.ReasonSale, Reference: sale.SaleNumber, ActorID: actorID}
		if _, err := uc.ledger.Apply(ctx, tx, rec, -item.Quantity, m); err != nil {
			return nil, fmt.Errorf("línea %d: %w", item.Position, err)
		}
	}
	sort.Strings(untracked)
	return untracked, nil
}

func (uc *CompleteSaleUseCase) notify(ctx context.Context, sale *entity.Sale, untracked []string) {
	n := event.Notification{
		Type:       event.TypeSaleCompleted,
		OccurredAt: uc.now(),
		Payload: event.SaleCompleted{
			SaleID:              sale.ID,
			SaleNumber:          sale.SaleNumber,
			BranchID:            sale.BranchID,
			UserID:              sale.UserID,
			CustomerID:          sale.CustomerID,
			Subtotal:            sale.Subtotal,
			Discount:            sale.Discount,
			Tax:                 sale.Tax,
			TotalAmount:         sale.TotalAmount,
			Items:               lineSummaries(sale.Items),
			UntrackedProductIDs: untracked,
		},
	}
	if err := uc.publisher.Publish(ctx, n); err != nil {
		uc.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("no se pudo publicar la notificación de venta")
	}
}

func lineSummaries(items []*entity.SaleLineItem) []event.SaleLineSummary {
	out := make([]event.SaleLineSummary, 0, len(items))
	for _, it := range items {
		line := event.SaleLineSummary{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		}
		if !ledger.IsNone(it.VariationID) {
			line.VariationID = it.VariationID
		}
		if !ledger.IsNone(it.BatchID) {
			line.BatchID = it.BatchID
		}
		out = append(out, line)
	}
	return out
}

func validateAmounts(in dto.CompleteSaleRequest) error {
	money := map[string]decimal.Decimal{
		"subtotal": in.Subtotal,
		"discount": in.Discount,
		"tax":      in.Tax,
		"total":    in.Total,
	}
	for name, v := range money {
		if v.IsNegative() {
			return domain.Wrap(domain.ErrInvalidAmount, fmt.Sprintf("%s no puede ser negativo", name))
		}
	}
	for i, line := range in.Items {
		if line.UnitPrice.IsNegative() || line.TotalPrice.IsNegative() {
			return domain.Wrap(domain.ErrInvalidAmount, fmt.Sprintf("línea %d: precios no pueden ser negativos", i+1))
		}
	}
	return nil
}

func itemKey(branchID string, item *entity.SaleLineItem) entity.StockKey {
	return entity.StockKey{BranchID: branchID, ProductID: item.ProductID, VariationID: item.VariationID, BatchID: item.BatchID}
}

func lockOrder(k entity.StockKey) string {
	return k.ProductID + "|" + k.VariationID + "|" + k.BatchID
}
