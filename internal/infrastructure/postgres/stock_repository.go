package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo actual de un producto en una bodega.
// Par inexistente devuelve fila en cero (creación perezosa en el primer Upsert).
func (r *StockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, min_stock_level, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.MinStockLevel, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero, MinStockLevel: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, min_stock_level, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.MinStockLevel, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero, MinStockLevel: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el saldo (por producto y bodega).
// El umbral solo se escribe en el INSERT; actualizarlo es SetMinStockLevel.
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, min_stock_level, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ProductID, stock.WarehouseID, stock.Quantity, stock.MinStockLevel)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// SetMinStockLevel fija el umbral de alerta del par (crea la fila en cero si no existe).
func (r *StockRepo) SetMinStockLevel(productID, warehouseID string, level decimal.Decimal) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, min_stock_level, updated_at)
		VALUES ($1, $2, 0, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET min_stock_level = EXCLUDED.min_stock_level, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, productID, warehouseID, level)
	if err != nil {
		return fmt.Errorf("set min stock level: %w", err)
	}
	return nil
}

// ListWithMinLevel devuelve las filas con min_stock_level > 0, filtradas por bodegas
// si warehouseIDs no está vacío.
func (r *StockRepo) ListWithMinLevel(ctx context.Context, warehouseIDs []string) ([]*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, min_stock_level, updated_at
		FROM stock WHERE min_stock_level > 0`
	args := []any{}
	if len(warehouseIDs) > 0 {
		query += " AND warehouse_id = ANY($1)"
		args = append(args, warehouseIDs)
	}
	query += " ORDER BY warehouse_id, product_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock with min level: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.MinStockLevel, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
