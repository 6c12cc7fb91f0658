package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// InventoryHandler maneja alertas de stock bajo y umbrales mínimos (protegido).
type InventoryHandler struct {
	ledger   *kardex.LedgerUseCase
	lowStock *kardex.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *kardex.LedgerUseCase, lowStock *kardex.LowStockUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, lowStock: lowStock}
}

// GetAlerts godoc
// @Summary      Alertas de stock bajo
// @Description  Devuelve los pares (producto, bodega) con saldo estrictamente por debajo
//
//	de su mínimo configurado, ordenados por mayor déficit.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  []string  false  "Filtrar por bodega (repetible). Vacío = todas."
// @Success      200  {array}   dto.LowStockAlertDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) GetAlerts(c *fiber.Ctx) error {
	var q struct {
		WarehouseIDs []string `query:"warehouse_id"`
	}
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	alerts, err := h.lowStock.Scan(c.Context(), q.WarehouseIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": alerts})
}

// SetMinLevel godoc
// @Summary      Fijar umbral de stock mínimo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetMinLevelRequest  true  "product_id, warehouse_id, min_stock_level"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/min-level [put]
func (h *InventoryHandler) SetMinLevel(c *fiber.Ctx) error {
	var in dto.SetMinLevelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.ledger.SetMinStockLevel(in.ProductID, in.WarehouseID, in.MinStockLevel); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "umbral actualizado"})
}
