package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CostBatchRepository define el puerto de persistencia para lotes de costo.
type CostBatchRepository interface {
	Create(batch *entity.CostBatch) error
	// ListOpen devuelve los lotes con cantidad > 0 de un producto en una bodega,
	// en orden de consumo FIFO: received_date ascendente, desempate por created_at.
	ListOpen(productID, warehouseID string) ([]*entity.CostBatch, error)
	// UpdateQuantity fija la cantidad restante de un lote (consumo o agotamiento).
	UpdateQuantity(id string, quantity decimal.Decimal) error
	// DeleteBySourceTransaction elimina los lotes creados por una transacción
	// (usado al reversar una INCOME).
	DeleteBySourceTransaction(transactionID string) error
	// ListBySourceTransaction devuelve los lotes creados por una transacción.
	ListBySourceTransaction(transactionID string) ([]*entity.CostBatch, error)
}
