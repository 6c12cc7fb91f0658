package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, kind, product_id, warehouse_id, quantity, unit_cost, total_cost, date, batch_label, document_type, document_id, notes, created_at, created_by`

// TransactionRepo implementación del libro de transacciones sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste una transacción del kardex.
func (r *TransactionRepo) Create(trx *entity.InventoryTransaction) error {
	if trx.ID == "" {
		trx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	createdBy := (*string)(nil)
	if trx.CreatedBy != "" {
		createdBy = &trx.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		trx.ID, string(trx.Kind), trx.ProductID, trx.WarehouseID,
		trx.Quantity, trx.UnitCost, trx.TotalCost, trx.Date,
		trx.BatchLabel, trx.DocumentType, trx.DocumentID, trx.Notes,
		trx.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create inventory transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID. Devuelve nil sin error si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions WHERE id = $1`
	trx, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return trx, nil
}

// Update reescribe los campos de una transacción (flujo correctivo del motor).
func (r *TransactionRepo) Update(trx *entity.InventoryTransaction) error {
	query := `
		UPDATE inventory_transactions
		SET kind = $2, product_id = $3, warehouse_id = $4, quantity = $5, unit_cost = $6,
		    total_cost = $7, date = $8, batch_label = $9, document_type = $10,
		    document_id = $11, notes = $12
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		trx.ID, string(trx.Kind), trx.ProductID, trx.WarehouseID,
		trx.Quantity, trx.UnitCost, trx.TotalCost, trx.Date,
		trx.BatchLabel, trx.DocumentType, trx.DocumentID, trx.Notes,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update transaction: fila no encontrada")
	}
	return nil
}

// Delete elimina la fila de una transacción del libro.
func (r *TransactionRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM inventory_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ListByProduct lista transacciones de un producto en un rango de fechas.
func (r *TransactionRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return r.listBy("product_id", productID, from, to, limit, offset)
}

// ListByWarehouse lista transacciones de una bodega en un rango de fechas.
func (r *TransactionRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return r.listBy("warehouse_id", warehouseID, from, to, limit, offset)
}

func (r *TransactionRepo) listBy(column, value string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		trx, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, trx)
	}
	return list, rows.Err()
}

func (r *TransactionRepo) scanOne(row pgx.Row) (*entity.InventoryTransaction, error) {
	var trx entity.InventoryTransaction
	var kind string
	var createdBy *string
	err := row.Scan(
		&trx.ID, &kind, &trx.ProductID, &trx.WarehouseID,
		&trx.Quantity, &trx.UnitCost, &trx.TotalCost, &trx.Date,
		&trx.BatchLabel, &trx.DocumentType, &trx.DocumentID, &trx.Notes,
		&trx.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	trx.Kind = entity.MovementKind(kind)
	if createdBy != nil {
		trx.CreatedBy = *createdBy
	}
	return &trx, nil
}
