package kardex_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func seedStock(store *memStore, productID, warehouseID string, qty, min int64) {
	store.stocks[stockKey(productID, warehouseID)] = &entity.Stock{
		ProductID:     productID,
		WarehouseID:   warehouseID,
		Quantity:      decimal.NewFromInt(qty),
		MinStockLevel: decimal.NewFromInt(min),
	}
}

// El límite es estricto: saldo 2 con mínimo 5 alerta con déficit 3;
// saldo exactamente en el mínimo no alerta.
func TestLowStockScan_LimiteEstricto(t *testing.T) {
	store := newMemStore()
	seedStock(store, "P1", "W1", 2, 5)
	seedStock(store, "P2", "W1", 5, 5)

	uc := kardex.NewLowStockUseCase(&memStockRepo{store})
	alerts, err := uc.Scan(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, "P1", alerts[0].ProductID)
	assert.True(t, alerts[0].Deficit.Equal(decimal.NewFromInt(3)), "déficit = mínimo − saldo")
	assert.True(t, alerts[0].CurrentQuantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, alerts[0].MinStockLevel.Equal(decimal.NewFromInt(5)))
}

func TestLowStockScan_IgnoraFilasSinUmbral(t *testing.T) {
	store := newMemStore()
	seedStock(store, "P1", "W1", 0, 0)

	uc := kardex.NewLowStockUseCase(&memStockRepo{store})
	alerts, err := uc.Scan(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, alerts, "sin min_stock_level configurado no hay alerta, ni con saldo cero")
}

func TestLowStockScan_FiltraPorBodega(t *testing.T) {
	store := newMemStore()
	seedStock(store, "P1", "W1", 1, 5)
	seedStock(store, "P1", "W2", 1, 5)

	uc := kardex.NewLowStockUseCase(&memStockRepo{store})
	alerts, err := uc.Scan(context.Background(), []string{"W2"})
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, "W2", alerts[0].WarehouseID)
}

func TestLowStockScan_OrdenaPorMayorDeficit(t *testing.T) {
	store := newMemStore()
	seedStock(store, "P1", "W1", 4, 5)  // déficit 1
	seedStock(store, "P2", "W1", 0, 10) // déficit 10
	seedStock(store, "P3", "W1", 2, 6)  // déficit 4

	uc := kardex.NewLowStockUseCase(&memStockRepo{store})
	alerts, err := uc.Scan(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, alerts, 3)
	assert.Equal(t, "P2", alerts[0].ProductID)
	assert.Equal(t, "P3", alerts[1].ProductID)
	assert.Equal(t, "P1", alerts[2].ProductID)
}
