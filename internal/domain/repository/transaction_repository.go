package repository

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para el libro de
// transacciones de inventario. Update y Delete existen solo para el flujo
// correctivo del motor (reversar y reaplicar); nadie más muta el libro.
type TransactionRepository interface {
	Create(trx *entity.InventoryTransaction) error
	GetByID(id string) (*entity.InventoryTransaction, error)
	Update(trx *entity.InventoryTransaction) error
	Delete(id string) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error)
}
