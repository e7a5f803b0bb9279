package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/finance"
	"github.com/jhoicas/pos-ledger/internal/domain"
)

// FinanceHandler resumen financiero y ciclo de vida de gastos (protegido).
type FinanceHandler struct {
	summary  *finance.SummaryUseCase
	expenses *finance.ExpenseUseCase
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(summary *finance.SummaryUseCase, expenses *finance.ExpenseUseCase) *FinanceHandler {
	return &FinanceHandler{summary: summary, expenses: expenses}
}

const dateLayout = "2006-01-02"

// parseBound acepta RFC3339 o YYYY-MM-DD. Una fecha sin hora usada como fin
// cubre el día completo.
func parseBound(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, domain.Wrap(domain.ErrInvalidAmount, "fecha inválida: "+raw+" (use RFC3339 o YYYY-MM-DD)")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// Summary godoc
// @Summary      Resumen financiero
// @Description  Ingresos, costo de ventas, gastos aprobados y utilidad neta con desglose por categoría y sucursal.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal. Vacío = todas."
// @Param        start      query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        end        query  string  false  "RFC3339 o YYYY-MM-DD (por defecto ahora)"
// @Success      200  {object}  dto.FinancialSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finance/summary [get]
func (h *FinanceHandler) Summary(c *fiber.Ctx) error {
	start, err := parseBound(c.Query("start"), false)
	if err != nil {
		return writeError(c, err)
	}
	end, err := parseBound(c.Query("end"), true)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.summary.Summary(c.UserContext(), dto.FinancialSummaryRequest{
		BranchID: c.Query("branch_id"),
		Start:    start,
		End:      end,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// CreateExpense godoc
// @Summary      Registrar gasto
// @Description  El gasto nace PENDING.
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenseRequest  true  "category, amount, branch_id opcional"
// @Success      201   {object}  dto.ExpenseDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/expenses [post]
func (h *FinanceHandler) CreateExpense(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.expenses.Create(c.UserContext(), CurrentActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetExpense godoc
// @Summary      Consultar gasto
// @Tags         expenses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del gasto"
// @Success      200  {object}  dto.ExpenseDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [get]
func (h *FinanceHandler) GetExpense(c *fiber.Ctx) error {
	res, err := h.expenses.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// UpdateExpense godoc
// @Summary      Modificar gasto pendiente
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del gasto"
// @Param        body  body  dto.UpdateExpenseRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.ExpenseDTO
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [put]
func (h *FinanceHandler) UpdateExpense(c *fiber.Ctx) error {
	var in dto.UpdateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.expenses.Update(c.UserContext(), CurrentActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// DeleteExpense godoc
// @Summary      Eliminar gasto pendiente
// @Tags         expenses
// @Security     Bearer
// @Param        id   path  string  true  "ID del gasto"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [delete]
func (h *FinanceHandler) DeleteExpense(c *fiber.Ctx) error {
	if err := h.expenses.Delete(c.UserContext(), CurrentActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FinanceHandler) reviewBody(c *fiber.Ctx) (string, bool) {
	var in dto.ReviewExpenseRequest
	if len(c.Body()) == 0 {
		return "", true
	}
	if err := c.BodyParser(&in); err != nil {
		return "", false
	}
	return in.Note, true
}

// ApproveExpense godoc
// @Summary      Aprobar gasto
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true   "ID del gasto"
// @Param        body  body  dto.ReviewExpenseRequest  false  "nota opcional"
// @Success      200   {object}  dto.ExpenseDTO
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id}/approve [post]
func (h *FinanceHandler) ApproveExpense(c *fiber.Ctx) error {
	note, ok := h.reviewBody(c)
	if !ok {
		return badBody(c)
	}
	res, err := h.expenses.Approve(c.UserContext(), CurrentActor(c), c.Params("id"), note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// RejectExpense godoc
// @Summary      Rechazar gasto
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true   "ID del gasto"
// @Param        body  body  dto.ReviewExpenseRequest  false  "motivo del rechazo"
// @Success      200   {object}  dto.ExpenseDTO
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id}/reject [post]
func (h *FinanceHandler) RejectExpense(c *fiber.Ctx) error {
	note, ok := h.reviewBody(c)
	if !ok {
		return badBody(c)
	}
	res, err := h.expenses.Reject(c.UserContext(), CurrentActor(c), c.Params("id"), note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
