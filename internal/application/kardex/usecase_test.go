package kardex_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Producto de prueba con costo de referencia 7 (fallback del promedio) y una
// bodega; el motor corre sobre los fakes en memoria con rollback real.
func newTestEngine() (*kardex.LedgerUseCase, *memStore) {
	store := newMemStore()
	products := &memProductRepo{products: map[string]*entity.Product{
		"P1": {ID: "P1", SKU: "TOR-001", Name: "Tornillo hexagonal 3/8", ReferenceCost: decimal.NewFromInt(7)},
	}}
	warehouses := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		"W1": {ID: "W1", Name: "Bodega Principal"},
	}}
	uc := kardex.NewLedgerUseCase(
		&memTxRunner{store},
		products,
		warehouses,
		&memStockRepo{store},
		&memBatchRepo{store},
		&memTrxRepo{store},
	)
	return uc, store
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func day(n int) time.Time {
	return time.Date(2026, time.March, n, 0, 0, 0, 0, time.UTC)
}

func income(qty, cost int64, date time.Time) kardex.TransactionInput {
	return kardex.TransactionInput{
		UserID:      "u-tester",
		ProductID:   "P1",
		WarehouseID: "W1",
		Kind:        entity.KindIncome,
		Quantity:    dec(qty),
		UnitCost:    decPtr(cost),
		Date:        date,
	}
}

func outcome(qty int64) kardex.TransactionInput {
	return kardex.TransactionInput{
		UserID:      "u-tester",
		ProductID:   "P1",
		WarehouseID: "W1",
		Kind:        entity.KindOutcome,
		Quantity:    dec(qty),
		Date:        day(10),
	}
}

func TestRegisterTransaction_IncomeCreaLoteYSumaSaldo(t *testing.T) {
	uc, _ := newTestEngine()
	ctx := context.Background()

	trx, err := uc.RegisterTransaction(ctx, income(10, 5, day(1)))
	require.NoError(t, err)
	require.NotNil(t, trx)
	assert.True(t, trx.TotalCost.Equal(dec(50)), "TotalCost = cantidad × costo unitario")
	assert.NotEmpty(t, trx.BatchLabel, "una INCOME sin etiqueta recibe una sintética")

	stock, err := uc.GetBalance("P1", "W1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec(10)))

	batches, err := uc.ListOpenBatches("P1", "W1")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].Quantity.Equal(dec(10)))
	assert.True(t, batches[0].UnitCost.Equal(dec(5)))
	assert.Equal(t, trx.ID, batches[0].SourceTransactionID)
	assert.Equal(t, trx.BatchLabel, batches[0].BatchLabel)
}

func TestRegisterTransaction_ValidacionesDeEntrada(t *testing.T) {
	uc, _ := newTestEngine()
	ctx := context.Background()

	casos := []struct {
		nombre string
		input  kardex.TransactionInput
		err    error
	}{
		{"kind desconocido", kardex.TransactionInput{ProductID: "P1", WarehouseID: "W1", Kind: "TRANSFER", Quantity: dec(1), UnitCost: decPtr(1)}, domain.ErrInvalidInput},
		{"cantidad cero", kardex.TransactionInput{ProductID: "P1", WarehouseID: "W1", Kind: entity.KindIncome, Quantity: dec(0), UnitCost: decPtr(1)}, domain.ErrInvalidInput},
		{"cantidad negativa", kardex.TransactionInput{ProductID: "P1", WarehouseID: "W1", Kind: entity.KindIncome, Quantity: dec(-3), UnitCost: decPtr(1)}, domain.ErrInvalidInput},
		{"income sin costo", kardex.TransactionInput{ProductID: "P1", WarehouseID: "W1", Kind: entity.KindIncome, Quantity: dec(1)}, domain.ErrInvalidInput},
		{"producto inexistente", kardex.TransactionInput{ProductID: "nope", WarehouseID: "W1", Kind: entity.KindIncome, Quantity: dec(1), UnitCost: decPtr(1)}, domain.ErrNotFound},
		{"bodega inexistente", kardex.TransactionInput{ProductID: "P1", WarehouseID: "nope", Kind: entity.KindIncome, Quantity: dec(1), UnitCost: decPtr(1)}, domain.ErrNotFound},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := uc.RegisterTransaction(ctx, c.input)
			assert.ErrorIs(t, err, c.err)
		})
	}
}

// Conservación: el saldo final de una secuencia es entradas − salidas,
// sin importar el orden en que se intercalen.
func TestLedger_ConservacionDeSaldo(t *testing.T) {
	uc, _ := newTestEngine()
	ctx := context.Background()

	_, err := uc.RegisterTransaction(ctx, income(10, 5, day(1)))
	require.NoError(t, err)
	_, err = uc.RegisterTransaction(ctx, outcome(3))
	require.NoError(t, err)
	_, err = uc.RegisterTransaction(ctx, income(4, 6, day(3)))
	require.NoError(t, err)
	_, err = uc.RegisterTransaction(ctx, outcome(5))
	require.NoError(t, err)

	stock, err := uc.GetBalance("P1", "W1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec(6)), "10 - 3 + 4 - 5 = 6, got %s", stock.Quantity)
}

// FIFO: con lotes B1 (5 @ 10, día 1) y B2 (5 @ 20, día 2), una salida de 7
// agota B1 y deja B2 en 3. Nunca se toca B2 antes de agotar B1.
func TestOutcome_ConsumoFIFOPorFechaDeRecepcion(t *testing.T) {
	uc, store := newTestEngine()
	ctx := context.Background()

	// Registrado en orden inverso de fecha para verificar que el orden FIFO
	// lo da received_date, no el orden de inserción
	trxB2, err := uc.RegisterTransaction(ctx, income(5, 20, day(2)))
	require.NoError(t, err)
	trxB1, err := uc.RegisterTransaction(ctx, income(5, 10, day(1)))
	require.NoError(t, err)

	_, err = uc.RegisterTransaction(ctx, outcome(7))
	require.NoError(t, err)

	qtyBySource := map[string]decimal.Decimal{}
	for _, b := range store.batches {
		qtyBySource[b.SourceTransactionID] = b.Quantity
	}
	assert.True(t, qtyBySource[trxB1.ID].Equal(dec(0)), "B1 (más antiguo) agotado, got %s", qtyBySource[trxB1.ID])
	assert.True(t, qtyBySource[trxB2.ID].Equal(dec(3)), "B2 conserva 3, got %s", qtyBySource[trxB2.ID])

	open, err := uc.ListOpenBatches("P1", "W1")
	require.NoError(t, err)
	require.Len(t, open, 1, "el lote agotado deja de listarse como abierto")
	assert.Equal(t, trxB2.ID, open[0].SourceTransactionID)
}

// Una salida mayor al saldo se rechaza sin tocar NADA: ni saldo, ni lotes,
// ni fila del libro. El rollback debe cubrir la fila ya insertada.
func TestOutcome_StockInsuficienteRechazaSinEfectos(t *testing.T) {
	uc, store := newTestEngine()
	ctx := context.Background()

	_, err := uc.RegisterTransaction(ctx, income(5, 10, day(1)))
	require.NoError(t, err)
	antes := store.clone()

	_, err = uc.RegisterTransaction(ctx, outcome(10))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, len(antes.trxs), len(store.trxs), "el libro no registra la transacción rechazada")
	assert.Equal(t, len(antes.batches), len(store.batches))
	for key, st := range antes.stocks {
		assert.True(t, store.stocks[key].Quantity.Equal(st.Quantity), "saldo intacto en %s", key)
	}
}

func TestOutcome_SaldoExactoPermitido(t *testing.T) {
	uc, _ := newTestEngine()
	ctx := context.Background()

	_, err := uc.RegisterTransaction(ctx, income(5, 10, day(1)))
	require.NoError(t, err)
	_, err = uc.RegisterTransaction(ctx, outcome(5))
	require.NoError(t, err)

	stock, err := uc.GetBalance("P1", "W1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.IsZero())
}

// Salida sin costo explícito: se valora al promedio ponderado vigente.
func TestOutcome_SinCostoUsaPromedioPonderado(t *testing.T) {
	uc, _ := newTestEngine()
	ctx := context.Background()

	_, err := uc.RegisterTransaction(ctx, income(3, 10, day(1)))
	require.NoError(t, err)
	_, err = uc.RegisterTransaction(ctx, income(2, 20, day(2)))
	require.NoError(t, err)

	trx, err := uc.RegisterTransaction(ctx, outcome(2))
	require.NoError(t, err)
	assert.True(t, trx.UnitCost.Equal(dec(14)), "promedio de {3@10, 2@20} = 14, got %s", trx.UnitCost)
	assert.True(t, trx.TotalCost.Equal(dec(28)))
}

// Corrección: editar la cantidad de una INCOME reversa la original y reaplica
// la nueva. El estado final no superpone ambas versiones.
func TestUpdateTransaction_CambioDeCantidadSinSuperposicion(t *testing.T) {
	uc, _ := newTestEngine()
	ctx := context.Background()

	trx, err := uc.RegisterTransaction(ctx, income(10, 5, day(1)))
	require.NoError(t, err)

	updated, err := uc.UpdateTransaction(ctx, trx.ID, kardex.UpdateInput{Quantity: decPtr(20)})
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(dec(20)))
	assert.True(t, updated.TotalCost.Equal(dec(100)), "TotalCost recalculado con la cantidad nueva")

	stock, err := uc.GetBalance("P1", "W1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec(20)), "saldo refleja solo la versión editada, got %s", stock.Quantity)

	batches, err := uc.ListOpenBatches("P1", "W1")
	require.NoError(t, err)
	require.Len(t, batches, 1, "exactamente un lote: el de la versión reaplicada")
	assert.True(t, batches[0].Quantity.Equal(dec(20)))
}

func TestUpdateTransaction_InexistenteDevuelveNotFound(t *testing.T) {
	uc, _ := newTestEngine()
	_, err := uc.UpdateTransaction(context.Background(), "no-existe", kardex.UpdateInput{Quantity: decPtr(1)})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

// Eliminar una INCOME cuyo ingreso ya fue consumido aguas abajo dejaría saldo
// negativo: se rechaza y el estado queda intacto, incluida la fila del libro.
func TestDeleteTransaction_IncomeConsumidaRechazaPorUnderflow(t *testing.T) {
	uc, store := newTestEngine()
	ctx := context.Background()

	trxIncome, err := uc.RegisterTransaction(ctx, income(10, 5, day(1)))
	require.NoError(t, err)
	_, err = uc.RegisterTransaction(ctx, outcome(4))
	require.NoError(t, err)

	err = uc.DeleteTransaction(ctx, trxIncome.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, ok := store.trxs[trxIncome.ID]
	assert.True(t, ok, "la fila del libro sobrevive al rechazo")
	stock, err := uc.GetBalance("P1", "W1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec(6)), "saldo intacto tras el rechazo")
}

func TestDeleteTransaction_IncomeSinConsumoEliminaLoteYSaldo(t *testing.T) {
	uc, store := newTestEngine()
	ctx := context.Background()

	trx, err := uc.RegisterTransaction(ctx, income(10, 5, day(1)))
	require.NoError(t, err)

	err = uc.DeleteTransaction(ctx, trx.ID)
	require.NoError(t, err)

	stock, err := uc.GetBalance("P1", "W1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.IsZero())
	assert.Empty(t, store.batches, "los lotes de la transacción se eliminan con ella")
	assert.Empty(t, store.trxs)
}

// Asimetría documentada de la reversa: eliminar una OUTCOME devuelve el saldo
// pero no restaura las cantidades consumidas en los lotes.
func TestDeleteTransaction_OutcomeRestauraSaldoPeroNoLotes(t *testing.T) {
	uc, _ := newTestEngine()
	ctx := context.Background()

	_, err := uc.RegisterTransaction(ctx, income(10, 5, day(1)))
	require.NoError(t, err)
	trxOut, err := uc.RegisterTransaction(ctx, outcome(4))
	require.NoError(t, err)

	err = uc.DeleteTransaction(ctx, trxOut.ID)
	require.NoError(t, err)

	stock, err := uc.GetBalance("P1", "W1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec(10)), "saldo restaurado")

	batches, err := uc.ListOpenBatches("P1", "W1")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].Quantity.Equal(dec(6)), "el lote conserva el consumo: reversar no lo repone")
}

func TestDeleteTransaction_InexistenteDevuelveNotFound(t *testing.T) {
	uc, _ := newTestEngine()
	err := uc.DeleteTransaction(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

// Ajuste absoluto: fija el saldo al valor dado, sin crear ni consumir lotes.
func TestAdjustment_FijaSaldoAbsolutoSinTocarLotes(t *testing.T) {
	uc, _ := newTestEngine()
	ctx := context.Background()

	_, err := uc.RegisterTransaction(ctx, income(10, 5, day(1)))
	require.NoError(t, err)

	_, err = uc.RegisterTransaction(ctx, kardex.TransactionInput{
		UserID:      "u-tester",
		ProductID:   "P1",
		WarehouseID: "W1",
		Kind:        entity.KindAdjustment,
		Quantity:    dec(3),
		Date:        day(5),
		Notes:       "conteo físico",
	})
	require.NoError(t, err)

	stock, err := uc.GetBalance("P1", "W1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec(3)), "el ajuste fija el saldo, no lo suma")

	batches, err := uc.ListOpenBatches("P1", "W1")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].Quantity.Equal(dec(10)), "los lotes no se tocan en un ajuste")
}

func TestAverageCost_PromedioPonderadoYFallback(t *testing.T) {
	uc, _ := newTestEngine()
	ctx := context.Background()

	// Sin lotes abiertos: cae al costo de referencia del producto
	avg, err := uc.AverageCost("P1", "W1")
	require.NoError(t, err)
	assert.True(t, avg.Equal(dec(7)), "fallback al costo de referencia, got %s", avg)

	_, err = uc.RegisterTransaction(ctx, income(3, 10, day(1)))
	require.NoError(t, err)
	_, err = uc.RegisterTransaction(ctx, income(2, 20, day(2)))
	require.NoError(t, err)

	avg, err = uc.AverageCost("P1", "W1")
	require.NoError(t, err)
	assert.True(t, avg.Equal(dec(14)), "(3×10 + 2×20) / 5 = 14, got %s", avg)
}

func TestGetBalance_ParSinMovimientosDevuelveCero(t *testing.T) {
	uc, _ := newTestEngine()

	stock, err := uc.GetBalance("P1", "W1")
	require.NoError(t, err)
	require.NotNil(t, stock)
	assert.True(t, stock.Quantity.IsZero())
	assert.True(t, stock.MinStockLevel.IsZero())
}

func TestListTransactions_RequiereProductoOBodega(t *testing.T) {
	uc, _ := newTestEngine()
	_, err := uc.ListTransactions("", "", nil, nil, 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
