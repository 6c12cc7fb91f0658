package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	Ledger      *kardex.LedgerUseCase
	LowStock    *kardex.LowStockUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole("admin"), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole("admin", "bodeguero"), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole("admin", "bodeguero"), productHandler.Update)

	// Kardex: libro de transacciones, saldos y costos (protegido)
	kardexGroup := protected.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.Ledger)
	kardexGroup.Post("/transactions", RequireRole("admin", "bodeguero"), kardexHandler.RegisterTransaction)
	kardexGroup.Get("/transactions", kardexHandler.ListTransactions)
	kardexGroup.Get("/transactions/:id", kardexHandler.GetTransaction)
	kardexGroup.Put("/transactions/:id", RequireRole("admin"), kardexHandler.UpdateTransaction)
	kardexGroup.Delete("/transactions/:id", RequireRole("admin"), kardexHandler.DeleteTransaction)
	kardexGroup.Get("/balance", kardexHandler.GetBalance)
	kardexGroup.Get("/average-cost", kardexHandler.GetAverageCost)
	kardexGroup.Get("/batches", kardexHandler.ListBatches)

	// Inventory: alertas y umbrales (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.LowStock)
	invGroup.Get("/alerts", inventoryHandler.GetAlerts)
	invGroup.Put("/min-level", RequireRole("admin", "bodeguero"), inventoryHandler.SetMinLevel)
}
