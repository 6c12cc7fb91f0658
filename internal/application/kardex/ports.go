package kardex

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que saldo, lotes y libro de
// transacciones se escriban como una sola unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		trxRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		batchRepo repository.CostBatchRepository,
	) error) error
}
