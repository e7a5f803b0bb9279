package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
)

// SaleHandler registro y consulta de ventas (protegido).
type SaleHandler struct {
	uc *sales.CompleteSaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.CompleteSaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Complete godoc
// @Summary      Registrar venta
// @Description  Guarda cabecera y líneas y descuenta el stock en una sola transacción.
// @Description  Los productos sin registro de stock se omiten y se listan en untracked_product_ids.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompleteSaleRequest  true  "sale_number, items, totales, payment_method"
// @Success      201   {object}  dto.SaleDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.BranchID == "" {
		in.BranchID = GetBranchID(c)
	}
	res, err := h.uc.CompleteSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetByID godoc
// @Summary      Consultar venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	res, err := h.uc.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
