package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa el saldo actual de un producto en una bodega.
// Fila única por (product_id, warehouse_id); se crea perezosamente con la
// primera transacción que toca el par y nunca se elimina.
// MinStockLevel > 0 habilita la alerta de stock bajo para esta fila.
type Stock struct {
	ProductID     string
	WarehouseID   string
	Quantity      decimal.Decimal
	MinStockLevel decimal.Decimal
	UpdatedAt     time.Time
}
