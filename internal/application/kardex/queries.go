package kardex

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// GetBalance devuelve el saldo actual del par (producto, bodega).
// Lectura pura; un par sin movimientos devuelve la fila en cero.
func (uc *LedgerUseCase) GetBalance(productID, warehouseID string) (*entity.Stock, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.Get(productID, warehouseID)
}

// AverageCost devuelve el costo promedio ponderado de los lotes abiertos del
// par (producto, bodega). Sin lotes cae al costo de referencia del producto;
// sin producto, cero. Lectura pura.
func (uc *LedgerUseCase) AverageCost(productID, warehouseID string) (decimal.Decimal, error) {
	if productID == "" || warehouseID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return decimal.Zero, err
	}
	return uc.averageCostWith(uc.batchRepo, productID, warehouseID, product)
}

// GetTransaction devuelve una transacción del libro por ID.
func (uc *LedgerUseCase) GetTransaction(id string) (*entity.InventoryTransaction, error) {
	trx, err := uc.trxRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if trx == nil {
		return nil, domain.ErrTransactionNotFound
	}
	return trx, nil
}

// ListTransactions lista el libro por producto o por bodega (al menos uno),
// con rango de fechas opcional y paginación.
func (uc *LedgerUseCase) ListTransactions(productID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	switch {
	case productID != "":
		return uc.trxRepo.ListByProduct(productID, from, to, limit, offset)
	case warehouseID != "":
		return uc.trxRepo.ListByWarehouse(warehouseID, from, to, limit, offset)
	}
	return nil, domain.ErrInvalidInput
}

// ListOpenBatches devuelve los lotes abiertos del par en orden FIFO.
func (uc *LedgerUseCase) ListOpenBatches(productID, warehouseID string) ([]*entity.CostBatch, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.batchRepo.ListOpen(productID, warehouseID)
}

// SetMinStockLevel fija el umbral de alerta de stock bajo para el par.
func (uc *LedgerUseCase) SetMinStockLevel(productID, warehouseID string, level decimal.Decimal) error {
	if productID == "" || warehouseID == "" || level.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.stockRepo.SetMinStockLevel(productID, warehouseID, level)
}
