package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/finance"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AdjustStock  *inventory.AdjustStockUseCase
	Stock        *inventory.StockUseCase
	LowStock     *inventory.LowStockUseCase
	CompleteSale *sales.CompleteSaleUseCase
	Summary      *finance.SummaryUseCase
	Expenses     *finance.ExpenseUseCase
	Health       *HealthHandler
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Health != nil {
		app.Get("/health", deps.Health.Check)
	}

	api := app.Group("/api")

	// Todo lo demás requiere Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	reviewers := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Inventario
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustStock, deps.Stock, deps.LowStock)
	inv.Post("/adjustments", inventoryHandler.Adjust)
	inv.Post("/receipts", inventoryHandler.Receive)
	inv.Post("/stock", inventoryHandler.Provision)
	inv.Post("/stock/bulk-delete", reviewers, inventoryHandler.BulkDelete)
	inv.Get("/stock/:id", inventoryHandler.GetByID)
	inv.Put("/stock/:id/thresholds", inventoryHandler.UpdateThresholds)
	inv.Get("/stock/:id/movements", inventoryHandler.ListMovements)
	inv.Get("/low-stock", inventoryHandler.LowStock)

	// Ventas
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CompleteSale)
	salesGroup.Post("/", saleHandler.Complete)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Finanzas y gastos
	financeHandler := NewFinanceHandler(deps.Summary, deps.Expenses)
	protected.Get("/finance/summary", financeHandler.Summary)

	expenses := protected.Group("/expenses")
	expenses.Post("/", financeHandler.CreateExpense)
	expenses.Get("/:id", financeHandler.GetExpense)
	expenses.Put("/:id", financeHandler.UpdateExpense)
	expenses.Delete("/:id", financeHandler.DeleteExpense)
	expenses.Post("/:id/approve", reviewers, financeHandler.ApproveExpense)
	expenses.Post("/:id/reject", reviewers, financeHandler.RejectExpense)
}
