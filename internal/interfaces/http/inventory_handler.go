package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del ledger de stock (protegido).
type InventoryHandler struct {
	adjust   *inventory.AdjustStockUseCase
	stock    *inventory.StockUseCase
	lowStock *inventory.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjust *inventory.AdjustStockUseCase, stock *inventory.StockUseCase, lowStock *inventory.LowStockUseCase) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, stock: stock, lowStock: lowStock}
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Suma quantity_change (positivo o negativo) a un registro existente y deja el par de auditoría.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, branch_id, quantity_change, reason"
// @Success      200   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.adjust.Adjust(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Provision godoc
// @Summary      Alta de un registro de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProvisionStockRequest  true  "identidad, umbrales y cantidad inicial"
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [post]
func (h *InventoryHandler) Provision(c *fiber.Ctx) error {
	var in dto.ProvisionStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.stock.Provision(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Receive godoc
// @Summary      Entrada de mercancía
// @Description  Suma la cantidad recibida; crea el registro con umbrales por defecto si no existe.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "identidad y cantidad"
// @Success      200   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.stock.Receive(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// GetByID godoc
// @Summary      Consultar registro de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.StockRecordDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	res, err := h.stock.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// UpdateThresholds godoc
// @Summary      Actualizar mínimo, máximo y punto de reorden
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del registro"
// @Param        body  body  dto.UpdateThresholdsRequest  true  "min_stock, max_stock, reorder_point"
// @Success      200   {object}  dto.StockRecordDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{id}/thresholds [put]
func (h *InventoryHandler) UpdateThresholds(c *fiber.Ctx) error {
	var in dto.UpdateThresholdsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.stock.UpdateThresholds(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Description  Más reciente primero. También responde para registros ya eliminados.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del registro"
// @Param        limit  query  int     false  "máximo de filas (por defecto 50)"
// @Success      200    {array}   dto.MovementLogDTO
// @Router       /api/inventory/stock/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_AMOUNT", Message: "limit debe ser numérico"})
		}
		limit = n
	}
	res, err := h.stock.ListMovements(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(res), "movements": res})
}

// BulkDelete godoc
// @Summary      Eliminar registros de stock
// @Description  Solo ADMIN/MANAGER. La auditoría de los registros eliminados se conserva.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkDeleteRequest  true  "ids"
// @Success      200   {object}  dto.DeletedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/bulk-delete [post]
func (h *InventoryHandler) BulkDelete(c *fiber.Ctx) error {
	var in dto.BulkDeleteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	n, err := h.stock.BulkDelete(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeletedResponse{Deleted: n})
}

// LowStock godoc
// @Summary      Registros en o por debajo del mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal. Vacío = todas."
// @Success      200  {array}   dto.StockRecordDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.lowStock.List(c.UserContext(), c.Query("branch_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":   len(list),
		"records": list,
	})
}
