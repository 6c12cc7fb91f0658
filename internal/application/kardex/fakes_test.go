package kardex_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para el motor del kardex.
//
// memStore guarda saldos, lotes y libro; memTxRunner toma snapshot antes de
// cada unidad de trabajo y restaura si falla, imitando el Rollback de la
// transacción PostgreSQL real. Así los tests de atomicidad (rechazo sin
// efectos) verifican lo mismo que verificaría la BD.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	stocks  map[string]*entity.Stock // key: productID|warehouseID
	batches []*entity.CostBatch      // orden de inserción preservado
	trxs    map[string]*entity.InventoryTransaction
}

func newMemStore() *memStore {
	return &memStore{
		stocks: map[string]*entity.Stock{},
		trxs:   map[string]*entity.InventoryTransaction{},
	}
}

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.stocks {
		cp := *v
		c.stocks[k] = &cp
	}
	for _, b := range s.batches {
		cp := *b
		c.batches = append(c.batches, &cp)
	}
	for k, v := range s.trxs {
		cp := *v
		c.trxs[k] = &cp
	}
	return c
}

// ── StockRepository ───────────────────────────────────────────────────────────

type memStockRepo struct{ s *memStore }

var _ repository.StockRepository = (*memStockRepo)(nil)

func (r *memStockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	if st, ok := r.s.stocks[stockKey(productID, warehouseID)]; ok {
		cp := *st
		return &cp, nil
	}
	// Fila perezosa en cero, igual que el adaptador PostgreSQL
	return &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero, MinStockLevel: decimal.Zero}, nil
}

func (r *memStockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(productID, warehouseID)
}

func (r *memStockRepo) Upsert(stock *entity.Stock) error {
	cp := *stock
	r.s.stocks[stockKey(stock.ProductID, stock.WarehouseID)] = &cp
	return nil
}

func (r *memStockRepo) SetMinStockLevel(productID, warehouseID string, level decimal.Decimal) error {
	key := stockKey(productID, warehouseID)
	st, ok := r.s.stocks[key]
	if !ok {
		st = &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
		r.s.stocks[key] = st
	}
	st.MinStockLevel = level
	return nil
}

func (r *memStockRepo) ListWithMinLevel(_ context.Context, warehouseIDs []string) ([]*entity.Stock, error) {
	allowed := map[string]bool{}
	for _, id := range warehouseIDs {
		allowed[id] = true
	}
	var out []*entity.Stock
	for _, st := range r.s.stocks {
		if !st.MinStockLevel.GreaterThan(decimal.Zero) {
			continue
		}
		if len(allowed) > 0 && !allowed[st.WarehouseID] {
			continue
		}
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}

// ── CostBatchRepository ───────────────────────────────────────────────────────

type memBatchRepo struct{ s *memStore }

var _ repository.CostBatchRepository = (*memBatchRepo)(nil)

func (r *memBatchRepo) Create(batch *entity.CostBatch) error {
	cp := *batch
	r.s.batches = append(r.s.batches, &cp)
	return nil
}

func (r *memBatchRepo) ListOpen(productID, warehouseID string) ([]*entity.CostBatch, error) {
	var out []*entity.CostBatch
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.WarehouseID == warehouseID && b.Quantity.GreaterThan(decimal.Zero) {
			cp := *b
			out = append(out, &cp)
		}
	}
	// FIFO: received_date ascendente, desempate por orden de inserción
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReceivedDate.Before(out[j].ReceivedDate)
	})
	return out, nil
}

func (r *memBatchRepo) ListBySourceTransaction(transactionID string) ([]*entity.CostBatch, error) {
	var out []*entity.CostBatch
	for _, b := range r.s.batches {
		if b.SourceTransactionID == transactionID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memBatchRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	for _, b := range r.s.batches {
		if b.ID == id {
			b.Quantity = quantity
			return nil
		}
	}
	return nil
}

func (r *memBatchRepo) DeleteBySourceTransaction(transactionID string) error {
	kept := r.s.batches[:0]
	for _, b := range r.s.batches {
		if b.SourceTransactionID != transactionID {
			kept = append(kept, b)
		}
	}
	r.s.batches = kept
	return nil
}

// ── TransactionRepository ─────────────────────────────────────────────────────

type memTrxRepo struct{ s *memStore }

var _ repository.TransactionRepository = (*memTrxRepo)(nil)

func (r *memTrxRepo) Create(trx *entity.InventoryTransaction) error {
	cp := *trx
	r.s.trxs[trx.ID] = &cp
	return nil
}

func (r *memTrxRepo) GetByID(id string) (*entity.InventoryTransaction, error) {
	if trx, ok := r.s.trxs[id]; ok {
		cp := *trx
		return &cp, nil
	}
	return nil, nil
}

func (r *memTrxRepo) Update(trx *entity.InventoryTransaction) error {
	cp := *trx
	r.s.trxs[trx.ID] = &cp
	return nil
}

func (r *memTrxRepo) Delete(id string) error {
	delete(r.s.trxs, id)
	return nil
}

func (r *memTrxRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return r.list(func(t *entity.InventoryTransaction) bool { return t.ProductID == productID }, limit, offset)
}

func (r *memTrxRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	return r.list(func(t *entity.InventoryTransaction) bool { return t.WarehouseID == warehouseID }, limit, offset)
}

func (r *memTrxRepo) list(match func(*entity.InventoryTransaction) bool, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, trx := range r.s.trxs {
		if match(trx) {
			cp := *trx
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// ── TxRunner con rollback por snapshot ────────────────────────────────────────

type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	trxRepo repository.TransactionRepository,
	stockRepo repository.StockRepository,
	batchRepo repository.CostBatchRepository,
) error) error {
	backup := r.s.clone()
	if err := fn(&memTrxRepo{r.s}, &memStockRepo{r.s}, &memBatchRepo{r.s}); err != nil {
		*r.s = *backup
		return err
	}
	return nil
}

// ── Catálogos ─────────────────────────────────────────────────────────────────

type memProductRepo struct {
	products map[string]*entity.Product
}

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}
func (r *memProductRepo) Delete(id string) error { delete(r.products, id); return nil }

type memWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

var _ repository.WarehouseRepository = (*memWarehouseRepo)(nil)

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error { r.warehouses[w.ID] = w; return nil }
func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}
func (r *memWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.warehouses {
		out = append(out, w)
	}
	return out, nil
}
