package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/event"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// ExpenseUseCase alta, edición y revisión de gastos. Solo los gastos PENDING se
// editan; la revisión (PENDING -> APPROVED | REJECTED) exige rol ADMIN o MANAGER.
type ExpenseUseCase struct {
	txRunner  inventory.TxRunner
	expenses  repository.ExpenseRepository
	publisher event.Publisher
	log       *logger.Logger
	now       func() time.Time
}

// NewExpenseUseCase construye el caso de uso. expenses es el repositorio de lectura.
func NewExpenseUseCase(txRunner inventory.TxRunner, expenses repository.ExpenseRepository, publisher event.Publisher, log *logger.Logger) *ExpenseUseCase {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ExpenseUseCase{
		txRunner:  txRunner,
		expenses:  expenses,
		publisher: publisher,
		log:       log.Component("expenses"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create registra un gasto en estado PENDING.
func (uc *ExpenseUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateExpenseRequest) (*dto.ExpenseDTO, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Wrap(domain.ErrInvalidAmount, "amount debe ser mayor que cero")
	}
	now := uc.now()
	e := &entity.Expense{
		ID:          uuid.New().String(),
		BranchID:    strings.TrimSpace(in.BranchID),
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Status:      entity.ExpensePending,
		ExpenseDate: now,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.ExpenseDate != nil {
		e.ExpenseDate = in.ExpenseDate.UTC()
	}
	err := uc.txRunner.Run(ctx, func(tx inventory.Repos) error {
		return tx.Expenses.Create(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToExpenseDTO(e), nil
}

// Get devuelve un gasto por id.
func (uc *ExpenseUseCase) Get(ctx context.Context, id string) (*dto.ExpenseDTO, error) {
	e, err := uc.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageFailure(err)
	}
	if e == nil {
		return nil, domain.Wrap(domain.ErrRecordNotFound, "gasto no encontrado")
	}
	return dto.ToExpenseDTO(e), nil
}

// Update modifica un gasto pendiente.
func (uc *ExpenseUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateExpenseRequest) (*dto.ExpenseDTO, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.Amount != nil && !in.Amount.IsPositive() {
		return nil, domain.Wrap(domain.ErrInvalidAmount, "amount debe ser mayor que cero")
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) == "" {
		return nil, domain.Wrap(domain.ErrMissingField, "category no puede quedar vacío")
	}
	var out *entity.Expense
	err := uc.txRunner.Run(ctx, func(tx inventory.Repos) error {
		e, err := loadPending(ctx, tx, id)
		if err != nil {
			return err
		}
		if in.Category != nil {
			e.Category = strings.TrimSpace(*in.Category)
		}
		if in.Description != nil {
			e.Description = strings.TrimSpace(*in.Description)
		}
		if in.Amount != nil {
			e.Amount = *in.Amount
		}
		if in.ExpenseDate != nil {
			e.ExpenseDate = in.ExpenseDate.UTC()
		}
		e.UpdatedAt = uc.now()
		if err := tx.Expenses.Update(ctx, e); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.ToExpenseDTO(out), nil
}

// Delete elimina un gasto pendiente.
func (uc *ExpenseUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if actor.ID == "" {
		return domain.ErrUnauthorized
	}
	return uc.txRunner.Run(ctx, func(tx inventory.Repos) error {
		if _, err := loadPending(ctx, tx, id); err != nil {
			return err
		}
		return tx.Expenses.Delete(ctx, id)
	})
}

// Approve PENDING -> APPROVED.
func (uc *ExpenseUseCase) Approve(ctx context.Context, actor entity.Actor, id, note string) (*dto.ExpenseDTO, error) {
	return uc.review(ctx, actor, id, entity.ExpenseApproved, note)
}

// Reject PENDING -> REJECTED.
func (uc *ExpenseUseCase) Reject(ctx context.Context, actor entity.Actor, id, note string) (*dto.ExpenseDTO, error) {
	return uc.review(ctx, actor, id, entity.ExpenseRejected, note)
}

func (uc *ExpenseUseCase) review(ctx context.Context, actor entity.Actor, id string, to entity.ExpenseStatus, note string) (*dto.ExpenseDTO, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !actor.CanReviewExpenses() {
		return nil, domain.Wrap(domain.ErrForbidden, "solo ADMIN o MANAGER pueden revisar gastos")
	}
	var out *entity.Expense
	err := uc.txRunner.Run(ctx, func(tx inventory.Repos) error {
		e, err := tx.Expenses.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.Wrap(domain.ErrRecordNotFound, "gasto no encontrado")
		}
		if !e.Review(to, actor.ID, strings.TrimSpace(note), uc.now()) {
			return domain.Wrap(domain.ErrInvalidState, "el gasto ya fue revisado ("+string(e.Status)+")")
		}
		if err := tx.Expenses.Update(ctx, e); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	typ := event.TypeExpenseApproved
	if out.Status == entity.ExpenseRejected {
		typ = event.TypeExpenseRejected
	}
	n := event.Notification{
		Type:       typ,
		OccurredAt: uc.now(),
		Payload: event.ExpenseReviewed{
			ExpenseID:  out.ID,
			BranchID:   out.BranchID,
			Status:     string(out.Status),
			Amount:     out.Amount,
			ReviewedBy: out.ReviewedBy,
			CreatedBy:  out.CreatedBy,
		},
	}
	if err := uc.publisher.Publish(ctx, n); err != nil {
		uc.log.Warn().Err(err).Str("expense_id", out.ID).Msg("no se pudo publicar la revisión del gasto")
	}
	return dto.ToExpenseDTO(out), nil
}

func loadPending(ctx context.Context, tx inventory.Repos, id string) (*entity.Expense, error) {
	e, err := tx.Expenses.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.Wrap(domain.ErrRecordNotFound, "gasto no encontrado")
	}
	if !e.CanEdit() {
		return nil, domain.Wrap(domain.ErrInvalidState, "solo se pueden modificar gastos pendientes")
	}
	return e, nil
}
