package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind es el tipo cerrado de transacción de inventario.
// Solo existen tres valores; cualquier otro string es rechazado con
// domain.ErrInvalidInput antes de llegar al motor.
type MovementKind string

const (
	KindIncome     MovementKind = "INCOME"     // entrada: suma stock y crea lote de costo
	KindOutcome    MovementKind = "OUTCOME"    // salida: resta stock y consume lotes FIFO
	KindAdjustment MovementKind = "ADJUSTMENT" // ajuste: fija el stock en un valor absoluto
)

// Valid indica si el kind es uno de los tres soportados.
func (k MovementKind) Valid() bool {
	switch k {
	case KindIncome, KindOutcome, KindAdjustment:
		return true
	}
	return false
}

// InventoryTransaction es el registro inmutable del libro de inventario (kardex).
// Quantity siempre es magnitud positiva; el signo lo da el Kind.
// Una transacción INCOME crea exactamente un CostBatch; una OUTCOME consume
// cero o más lotes existentes; una ADJUSTMENT no toca lotes.
type InventoryTransaction struct {
	ID           string
	Kind         MovementKind
	ProductID    string
	WarehouseID  string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	Date         time.Time
	BatchLabel   string // etiqueta del lote creado (solo INCOME); se genera si viene vacía
	DocumentType string // documento origen opcional: remesa, nota manual, etc.
	DocumentID   string
	Notes        string
	CreatedAt    time.Time
	CreatedBy    string // UserID del creador (claim del token)
}
