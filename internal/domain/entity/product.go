package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// ReferenceCost es el costo de referencia usado como fallback para valorar
// stock cuando no existen lotes de costo abiertos.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Description   string
	Price         decimal.Decimal // precio de venta
	ReferenceCost decimal.Decimal
	UnitMeasure   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
