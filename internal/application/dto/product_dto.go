package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ReferenceCost decimal.Decimal `json:"reference_cost"`
	UnitMeasure   string          `json:"unit_measure,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos nil no cambian.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	ReferenceCost *decimal.Decimal `json:"reference_cost,omitempty"`
	UnitMeasure   *string          `json:"unit_measure,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ReferenceCost decimal.Decimal `json:"reference_cost"`
	UnitMeasure   string          `json:"unit_measure,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
