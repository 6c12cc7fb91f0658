package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar saldos por bodega+producto.
// Get y GetForUpdate devuelven una fila en cero (sin error) si el par aún no existe:
// el saldo se materializa perezosamente con el primer Upsert.
type StockRepository interface {
	Get(productID, warehouseID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE); usar dentro
	// de una transacción para serializar el check de suficiencia con la escritura.
	GetForUpdate(productID, warehouseID string) (*entity.Stock, error)
	// SetMinStockLevel fija el umbral de alerta de la fila (la crea si no existe).
	SetMinStockLevel(productID, warehouseID string, level decimal.Decimal) error
	// ListWithMinLevel devuelve las filas con min_stock_level > 0, filtradas por
	// bodegas si warehouseIDs no está vacío. Insumo del escáner de stock bajo.
	ListWithMinLevel(ctx context.Context, warehouseIDs []string) ([]*entity.Stock, error)
}
