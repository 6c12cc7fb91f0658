package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostBatch es un lote de costo creado por una transacción INCOME.
// Quantity es lo que queda del lote: inicia igual a la cantidad recibida y
// solo decrece al ser consumido por salidas (FIFO por ReceivedDate, desempate
// por CreatedAt). Un lote agotado (Quantity == 0) se conserva como histórico;
// solo desaparece cuando se reversa su transacción origen.
type CostBatch struct {
	ID                  string
	ProductID           string
	WarehouseID         string
	BatchLabel          string
	Quantity            decimal.Decimal
	UnitCost            decimal.Decimal // costo base del lote, fijo desde la creación
	ReceivedDate        time.Time
	SourceTransactionID string
	CreatedAt           time.Time
}
