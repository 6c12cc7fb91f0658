package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// KardexHandler maneja las peticiones HTTP del libro de inventario (protegido).
type KardexHandler struct {
	uc *kardex.LedgerUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(uc *kardex.LedgerUseCase) *KardexHandler {
	return &KardexHandler{uc: uc}
}

// RegisterTransaction godoc
// @Summary      Registrar transacción de inventario
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterTransactionRequest  true  "product_id, warehouse_id, kind (INCOME/OUTCOME/ADJUSTMENT), quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/transactions [post]
func (h *KardexHandler) RegisterTransaction(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := kardex.TransactionInput{
		UserID:       userID,
		ProductID:    in.ProductID,
		WarehouseID:  in.WarehouseID,
		Kind:         entity.MovementKind(in.Kind),
		Quantity:     in.Quantity,
		UnitCost:     in.UnitCost,
		BatchLabel:   in.BatchLabel,
		DocumentType: in.DocumentType,
		DocumentID:   in.DocumentID,
		Notes:        in.Notes,
	}
	if in.Date != nil {
		input.Date = *in.Date
	}
	trx, err := h.uc.RegisterTransaction(c.Context(), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(trx))
}

// UpdateTransaction godoc
// @Summary      Corregir transacción (reversa y reaplica)
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la transacción"
// @Param        body  body  dto.UpdateTransactionRequest  true  "Campos a corregir"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/transactions/{id} [put]
func (h *KardexHandler) UpdateTransaction(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	changes := kardex.UpdateInput{
		Quantity:     in.Quantity,
		UnitCost:     in.UnitCost,
		Date:         in.Date,
		BatchLabel:   in.BatchLabel,
		DocumentType: in.DocumentType,
		DocumentID:   in.DocumentID,
		Notes:        in.Notes,
	}
	if in.Kind != nil {
		kind := entity.MovementKind(*in.Kind)
		changes.Kind = &kind
	}
	trx, err := h.uc.UpdateTransaction(c.Context(), id, changes)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransactionResponse(trx))
}

// DeleteTransaction godoc
// @Summary      Eliminar transacción (reversa sus efectos)
// @Tags         kardex
// @Security     Bearer
// @Param        id  path  string  true  "ID de la transacción"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/kardex/transactions/{id} [delete]
func (h *KardexHandler) DeleteTransaction(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.DeleteTransaction(c.Context(), id); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTransaction godoc
// @Summary      Obtener transacción por ID
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/transactions/{id} [get]
func (h *KardexHandler) GetTransaction(c *fiber.Ctx) error {
	trx, err := h.uc.GetTransaction(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransactionResponse(trx))
}

// ListTransactions godoc
// @Summary      Listar transacciones por producto o bodega
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (si no hay product_id)"
// @Param        from          query  string  false  "Fecha inicial (RFC3339)"
// @Param        to            query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kardex/transactions [get]
func (h *KardexHandler) ListTransactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	list, err := h.uc.ListTransactions(c.Query("product_id"), c.Query("warehouse_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.TransactionResponse, 0, len(list))
	for _, trx := range list {
		out = append(out, toTransactionResponse(trx))
	}
	return c.JSON(fiber.Map{"total": len(out), "transactions": out})
}

// GetBalance godoc
// @Summary      Saldo actual de un producto en una bodega
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kardex/balance [get]
func (h *KardexHandler) GetBalance(c *fiber.Ctx) error {
	stock, err := h.uc.GetBalance(c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.BalanceResponse{
		ProductID:     stock.ProductID,
		WarehouseID:   stock.WarehouseID,
		Quantity:      stock.Quantity,
		MinStockLevel: stock.MinStockLevel,
	})
}

// GetAverageCost godoc
// @Summary      Costo promedio ponderado de los lotes abiertos
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.AverageCostResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kardex/average-cost [get]
func (h *KardexHandler) GetAverageCost(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	avg, err := h.uc.AverageCost(productID, warehouseID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.AverageCostResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		AverageCost: avg,
	})
}

// ListBatches godoc
// @Summary      Lotes de costo abiertos (orden FIFO)
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {array}  dto.CostBatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kardex/batches [get]
func (h *KardexHandler) ListBatches(c *fiber.Ctx) error {
	batches, err := h.uc.ListOpenBatches(c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.CostBatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.CostBatchResponse{
			ID:           b.ID,
			BatchLabel:   b.BatchLabel,
			Quantity:     b.Quantity,
			UnitCost:     b.UnitCost,
			ReceivedDate: b.ReceivedDate,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "batches": out})
}

// respondDomainError mapea errores de dominio a códigos HTTP.
func respondDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrTransactionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TRANSACTION_NOT_FOUND", Message: "transacción no encontrada"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o bodega no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toTransactionResponse(trx *entity.InventoryTransaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:           trx.ID,
		Kind:         string(trx.Kind),
		ProductID:    trx.ProductID,
		WarehouseID:  trx.WarehouseID,
		Quantity:     trx.Quantity,
		UnitCost:     trx.UnitCost,
		TotalCost:    trx.TotalCost,
		Date:         trx.Date,
		BatchLabel:   trx.BatchLabel,
		DocumentType: trx.DocumentType,
		DocumentID:   trx.DocumentID,
		Notes:        trx.Notes,
		CreatedAt:    trx.CreatedAt,
		CreatedBy:    trx.CreatedBy,
	}
}
