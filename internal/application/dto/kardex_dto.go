package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterTransactionRequest body para POST /api/kardex/transactions.
// Quantity es magnitud positiva; el efecto sobre el saldo lo decide Kind.
// UnitCost es obligatorio en INCOME (costo del lote).
type RegisterTransactionRequest struct {
	ProductID    string           `json:"product_id"`
	WarehouseID  string           `json:"warehouse_id"`
	Kind         string           `json:"kind"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	Date         *time.Time       `json:"date,omitempty"`
	BatchLabel   string           `json:"batch_label,omitempty"`
	DocumentType string           `json:"document_type,omitempty"`
	DocumentID   string           `json:"document_id,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// UpdateTransactionRequest body para PUT /api/kardex/transactions/:id.
// Campos nil se conservan de la transacción almacenada.
type UpdateTransactionRequest struct {
	Kind         *string          `json:"kind,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	Date         *time.Time       `json:"date,omitempty"`
	BatchLabel   *string          `json:"batch_label,omitempty"`
	DocumentType *string          `json:"document_type,omitempty"`
	DocumentID   *string          `json:"document_id,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// TransactionResponse representación HTTP de una transacción del kardex.
type TransactionResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	ProductID    string          `json:"product_id"`
	WarehouseID  string          `json:"warehouse_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Date         time.Time       `json:"date"`
	BatchLabel   string          `json:"batch_label,omitempty"`
	DocumentType string          `json:"document_type,omitempty"`
	DocumentID   string          `json:"document_id,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
}

// BalanceResponse saldo actual de un producto en una bodega.
type BalanceResponse struct {
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}

// AverageCostResponse costo promedio ponderado de los lotes abiertos.
type AverageCostResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// CostBatchResponse lote de costo abierto (lectura).
type CostBatchResponse struct {
	ID           string          `json:"id"`
	BatchLabel   string          `json:"batch_label"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ReceivedDate time.Time       `json:"received_date"`
}

// LowStockAlertDTO alerta de stock bajo: saldo actual por debajo del mínimo.
type LowStockAlertDTO struct {
	ProductID       string          `json:"product_id"`
	WarehouseID     string          `json:"warehouse_id"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinStockLevel   decimal.Decimal `json:"min_stock_level"`
	Deficit         decimal.Decimal `json:"deficit"` // MinStockLevel - CurrentQuantity
}

// SetMinLevelRequest body para PUT /api/inventory/min-level.
type SetMinLevelRequest struct {
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
}
