package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.CostBatchRepository = (*CostBatchRepo)(nil)

// CostBatchRepo implementación de CostBatchRepository sobre PostgreSQL (usable con pool o tx).
type CostBatchRepo struct {
	q Querier
}

// NewCostBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewCostBatchRepository(q Querier) *CostBatchRepo {
	return &CostBatchRepo{q: q}
}

// Create persiste un lote de costo.
func (r *CostBatchRepo) Create(batch *entity.CostBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cost_batches (id, product_id, warehouse_id, batch_label, quantity, unit_cost, received_date, source_transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ProductID, batch.WarehouseID, batch.BatchLabel,
		batch.Quantity, batch.UnitCost, batch.ReceivedDate, batch.SourceTransactionID, batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create cost batch: %w", err)
	}
	return nil
}

// ListOpen lista los lotes con cantidad > 0 en orden de consumo FIFO:
// received_date ascendente, desempate por created_at (orden de inserción).
func (r *CostBatchRepo) ListOpen(productID, warehouseID string) ([]*entity.CostBatch, error) {
	query := `
		SELECT id, product_id, warehouse_id, batch_label, quantity, unit_cost, received_date, source_transaction_id, created_at
		FROM cost_batches
		WHERE product_id = $1 AND warehouse_id = $2 AND quantity > 0
		ORDER BY received_date ASC, created_at ASC`
	return r.list(query, productID, warehouseID)
}

// ListBySourceTransaction lista los lotes creados por una transacción.
func (r *CostBatchRepo) ListBySourceTransaction(transactionID string) ([]*entity.CostBatch, error) {
	query := `
		SELECT id, product_id, warehouse_id, batch_label, quantity, unit_cost, received_date, source_transaction_id, created_at
		FROM cost_batches
		WHERE source_transaction_id = $1
		ORDER BY created_at ASC`
	return r.list(query, transactionID)
}

// UpdateQuantity fija la cantidad restante de un lote.
func (r *CostBatchRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	query := `UPDATE cost_batches SET quantity = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, quantity)
	if err != nil {
		return fmt.Errorf("update cost batch quantity: %w", err)
	}
	return nil
}

// DeleteBySourceTransaction elimina los lotes creados por una transacción.
func (r *CostBatchRepo) DeleteBySourceTransaction(transactionID string) error {
	query := `DELETE FROM cost_batches WHERE source_transaction_id = $1`
	_, err := r.q.Exec(context.Background(), query, transactionID)
	if err != nil {
		return fmt.Errorf("delete cost batches by source: %w", err)
	}
	return nil
}

func (r *CostBatchRepo) list(query string, args ...any) ([]*entity.CostBatch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cost batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.CostBatch
	for rows.Next() {
		var b entity.CostBatch
		if err := rows.Scan(&b.ID, &b.ProductID, &b.WarehouseID, &b.BatchLabel,
			&b.Quantity, &b.UnitCost, &b.ReceivedDate, &b.SourceTransactionID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cost batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
