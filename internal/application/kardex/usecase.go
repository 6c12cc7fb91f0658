package kardex

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domainkardex "github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// LedgerUseCase es el motor del kardex: aplica, reversa, corrige y elimina
// transacciones de inventario manteniendo consistentes el saldo por bodega,
// los lotes de costo FIFO y el libro de transacciones. Cada operación corre
// dentro de una transacción de BD (TxRunner) con bloqueo de la fila de stock
// (SELECT FOR UPDATE), de modo que el check de suficiencia y la escritura
// son una sola unidad.
type LedgerUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository

	// Repos atados al pool para lecturas fuera de transacción.
	stockRepo repository.StockRepository
	batchRepo repository.CostBatchRepository
	trxRepo   repository.TransactionRepository
}

// NewLedgerUseCase construye el motor.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	batchRepo repository.CostBatchRepository,
	trxRepo repository.TransactionRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		batchRepo:     batchRepo,
		trxRepo:       trxRepo,
	}
}

// TransactionInput entrada para registrar una transacción del kardex.
// Quantity es magnitud positiva; UnitCost es obligatorio en INCOME.
// Date vacía se reemplaza por la hora actual.
type TransactionInput struct {
	UserID       string
	ProductID    string
	WarehouseID  string
	Kind         entity.MovementKind
	Quantity     decimal.Decimal
	UnitCost     *decimal.Decimal
	Date         time.Time
	BatchLabel   string
	DocumentType string
	DocumentID   string
	Notes        string
}

// UpdateInput campos editables de una transacción. Nil conserva el valor almacenado.
type UpdateInput struct {
	Kind         *entity.MovementKind
	Quantity     *decimal.Decimal
	UnitCost     *decimal.Decimal
	Date         *time.Time
	BatchLabel   *string
	DocumentType *string
	DocumentID   *string
	Notes        *string
}

// RegisterTransaction valida la entrada, verifica producto y bodega, y aplica
// la transacción: persiste la fila del libro y muta saldo y lotes según el Kind,
// todo dentro de una transacción de BD. Devuelve la transacción creada.
func (uc *LedgerUseCase) RegisterTransaction(ctx context.Context, input TransactionInput) (*entity.InventoryTransaction, error) {
	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.Kind == entity.KindIncome && (input.UnitCost == nil || input.UnitCost.LessThan(decimal.Zero)) {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitCost != nil && input.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Validar que producto y bodega existan
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	trx := &entity.InventoryTransaction{
		ID:           uuid.New().String(),
		Kind:         input.Kind,
		ProductID:    input.ProductID,
		WarehouseID:  input.WarehouseID,
		Quantity:     input.Quantity,
		Date:         date,
		BatchLabel:   input.BatchLabel,
		DocumentType: input.DocumentType,
		DocumentID:   input.DocumentID,
		Notes:        input.Notes,
		CreatedAt:    now,
		CreatedBy:    input.UserID,
	}
	if input.UnitCost != nil {
		trx.UnitCost = *input.UnitCost
	}
	if trx.Kind == entity.KindIncome && trx.BatchLabel == "" {
		trx.BatchLabel = defaultBatchLabel(trx.ID)
	}

	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err = uc.txRunner.Run(ctx, func(
		trxRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		batchRepo repository.CostBatchRepository,
	) error {
		// Salidas sin costo explícito se valoran al promedio ponderado vigente
		if trx.Kind == entity.KindOutcome && input.UnitCost == nil {
			avg, err := uc.averageCostWith(batchRepo, trx.ProductID, trx.WarehouseID, product)
			if err != nil {
				return err
			}
			trx.UnitCost = avg
		}
		trx.TotalCost = trx.Quantity.Mul(trx.UnitCost)

		// El libro se escribe primero: el ID de la transacción etiqueta el lote que crea
		if err := trxRepo.Create(trx); err != nil {
			return err
		}
		return uc.applyEffects(stockRepo, batchRepo, trx)
	})
	if err != nil {
		return nil, err
	}
	return trx, nil
}

// UpdateTransaction corrige una transacción: reversa sus efectos con los valores
// almacenados, aplica los cambios y reaplica con los valores nuevos. El estado
// final refleja solo la transacción editada, nunca una superposición.
func (uc *LedgerUseCase) UpdateTransaction(ctx context.Context, id string, changes UpdateInput) (*entity.InventoryTransaction, error) {
	var updated *entity.InventoryTransaction
	err := uc.txRunner.Run(ctx, func(
		trxRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		batchRepo repository.CostBatchRepository,
	) error {
		trx, err := trxRepo.GetByID(id)
		if err != nil {
			return err
		}
		if trx == nil {
			return domain.ErrTransactionNotFound
		}

		if err := uc.reverseEffects(stockRepo, batchRepo, trx); err != nil {
			return err
		}

		if changes.Kind != nil {
			trx.Kind = *changes.Kind
		}
		if changes.Quantity != nil {
			trx.Quantity = *changes.Quantity
		}
		if changes.UnitCost != nil {
			trx.UnitCost = *changes.UnitCost
		}
		if changes.Date != nil {
			trx.Date = *changes.Date
		}
		if changes.BatchLabel != nil {
			trx.BatchLabel = *changes.BatchLabel
		}
		if changes.DocumentType != nil {
			trx.DocumentType = *changes.DocumentType
		}
		if changes.DocumentID != nil {
			trx.DocumentID = *changes.DocumentID
		}
		if changes.Notes != nil {
			trx.Notes = *changes.Notes
		}

		if !trx.Kind.Valid() || !trx.Quantity.GreaterThan(decimal.Zero) || trx.UnitCost.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if trx.Kind == entity.KindIncome && trx.BatchLabel == "" {
			trx.BatchLabel = defaultBatchLabel(trx.ID)
		}
		trx.TotalCost = trx.Quantity.Mul(trx.UnitCost)

		if err := uc.applyEffects(stockRepo, batchRepo, trx); err != nil {
			return err
		}
		if err := trxRepo.Update(trx); err != nil {
			return err
		}
		updated = trx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction reversa los efectos de una transacción y elimina su fila
// del libro. Efecto neto: como si la transacción nunca hubiera existido,
// módulo las asimetrías documentadas de la reversa.
func (uc *LedgerUseCase) DeleteTransaction(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		trxRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		batchRepo repository.CostBatchRepository,
	) error {
		trx, err := trxRepo.GetByID(id)
		if err != nil {
			return err
		}
		if trx == nil {
			return domain.ErrTransactionNotFound
		}
		if err := uc.reverseEffects(stockRepo, batchRepo, trx); err != nil {
			return err
		}
		return trxRepo.Delete(id)
	})
}

// applyEffects muta saldo y lotes según el kind de la transacción.
// Asume que la fila del libro ya está persistida (el lote referencia su ID).
func (uc *LedgerUseCase) applyEffects(
	stockRepo repository.StockRepository,
	batchRepo repository.CostBatchRepository,
	trx *entity.InventoryTransaction,
) error {
	// Bloquea la fila de stock (SELECT FOR UPDATE); fila en cero si el par es nuevo
	stock, err := stockRepo.GetForUpdate(trx.ProductID, trx.WarehouseID)
	if err != nil {
		return err
	}
	now := time.Now()

	switch trx.Kind {
	case entity.KindIncome:
		stock.Quantity = stock.Quantity.Add(trx.Quantity)
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		batch := &entity.CostBatch{
			ID:                  uuid.New().String(),
			ProductID:           trx.ProductID,
			WarehouseID:         trx.WarehouseID,
			BatchLabel:          trx.BatchLabel,
			Quantity:            trx.Quantity,
			UnitCost:            trx.UnitCost,
			ReceivedDate:        trx.Date,
			SourceTransactionID: trx.ID,
			CreatedAt:           now,
		}
		return batchRepo.Create(batch)

	case entity.KindOutcome:
		// Rechazo atómico: sin aplicación parcial si el saldo no alcanza
		if stock.Quantity.LessThan(trx.Quantity) {
			return domain.ErrInsufficientStock
		}
		stock.Quantity = stock.Quantity.Sub(trx.Quantity)
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		return uc.consumeBatches(batchRepo, trx.ProductID, trx.WarehouseID, trx.Quantity)

	case entity.KindAdjustment:
		// Ajuste absoluto: fija el saldo, sin tocar lotes
		stock.Quantity = trx.Quantity
		stock.UpdatedAt = now
		return stockRepo.Upsert(stock)
	}
	return domain.ErrInvalidInput
}

// reverseEffects deshace el efecto de una transacción sobre saldo y lotes
// sin tocar su fila del libro.
//
// Asimetrías conocidas: reversar una OUTCOME devuelve el saldo pero no
// restaura las cantidades consumidas en los lotes (el motor no registra de
// qué lotes tomó cada salida); reversar una ADJUSTMENT no hace nada porque
// el valor absoluto previo no se conserva.
func (uc *LedgerUseCase) reverseEffects(
	stockRepo repository.StockRepository,
	batchRepo repository.CostBatchRepository,
	trx *entity.InventoryTransaction,
) error {
	switch trx.Kind {
	case entity.KindIncome:
		stock, err := stockRepo.GetForUpdate(trx.ProductID, trx.WarehouseID)
		if err != nil {
			return err
		}
		// La entrada ya fue consumida aguas abajo: rechazar en vez de dejar saldo negativo
		if stock.Quantity.LessThan(trx.Quantity) {
			return domain.ErrInsufficientStock
		}
		stock.Quantity = stock.Quantity.Sub(trx.Quantity)
		stock.UpdatedAt = time.Now()
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		return batchRepo.DeleteBySourceTransaction(trx.ID)

	case entity.KindOutcome:
		stock, err := stockRepo.GetForUpdate(trx.ProductID, trx.WarehouseID)
		if err != nil {
			return err
		}
		stock.Quantity = stock.Quantity.Add(trx.Quantity)
		stock.UpdatedAt = time.Now()
		return stockRepo.Upsert(stock)

	case entity.KindAdjustment:
		return nil
	}
	return domain.ErrInvalidInput
}

// consumeBatches descuenta la cantidad de los lotes abiertos en orden FIFO
// (received_date ascendente). Un lote agotado queda en cero, no se elimina.
// Si los lotes no alcanzan (posible tras ajustes absolutos, que mueven saldo
// sin lotes), el remanente se tolera: el saldo ya validó la suficiencia.
func (uc *LedgerUseCase) consumeBatches(
	batchRepo repository.CostBatchRepository,
	productID, warehouseID string,
	quantity decimal.Decimal,
) error {
	batches, err := batchRepo.ListOpen(productID, warehouseID)
	if err != nil {
		return err
	}
	remaining := quantity
	for _, b := range batches {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(b.Quantity, remaining)
		if err := batchRepo.UpdateQuantity(b.ID, b.Quantity.Sub(take)); err != nil {
			return err
		}
		remaining = remaining.Sub(take)
	}
	return nil
}

// averageCostWith calcula el promedio ponderado con el repo de lotes indicado
// (atado a la tx del caller). Sin lotes abiertos cae al costo de referencia
// del producto; sin producto o sin costo, cero.
func (uc *LedgerUseCase) averageCostWith(
	batchRepo repository.CostBatchRepository,
	productID, warehouseID string,
	product *entity.Product,
) (decimal.Decimal, error) {
	batches, err := batchRepo.ListOpen(productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(batches) == 0 {
		if product == nil {
			return decimal.Zero, nil
		}
		return product.ReferenceCost, nil
	}
	return domainkardex.WeightedAverage(batches), nil
}

// defaultBatchLabel genera la etiqueta sintética de un lote a partir del ID
// de su transacción origen (uuid propio, sin detalles del motor de storage).
func defaultBatchLabel(transactionID string) string {
	label := transactionID
	if len(label) > 8 {
		label = label[:8]
	}
	return "LOTE-" + label
}
