package kardex_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

func batch(qty, cost int64) *entity.CostBatch {
	return &entity.CostBatch{
		Quantity: decimal.NewFromInt(qty),
		UnitCost: decimal.NewFromInt(cost),
	}
}

// TestWeightedAverage_PromedioPonderado verifica el promedio con dos lotes:
// {3 @ 10, 2 @ 20} => (3*10 + 2*20) / 5 = 14.
func TestWeightedAverage_PromedioPonderado(t *testing.T) {
	avg := kardex.WeightedAverage([]*entity.CostBatch{batch(3, 10), batch(2, 20)})
	assert.True(t, avg.Equal(decimal.NewFromInt(14)),
		"el promedio ponderado de {3@10, 2@20} debe ser 14, fue %s", avg)
}

// TestWeightedAverage_IgnoraLotesAgotados verifica que los lotes en cero
// no pesan en el promedio.
func TestWeightedAverage_IgnoraLotesAgotados(t *testing.T) {
	avg := kardex.WeightedAverage([]*entity.CostBatch{batch(0, 999), batch(4, 10)})
	assert.True(t, avg.Equal(decimal.NewFromInt(10)),
		"un lote agotado no debe pesar en el promedio, fue %s", avg)
}

// TestWeightedAverage_SinLotesDevuelveCero: sin cantidad abierta el promedio es cero
// (el fallback al costo de referencia lo decide el caller).
func TestWeightedAverage_SinLotesDevuelveCero(t *testing.T) {
	assert.True(t, kardex.WeightedAverage(nil).IsZero())
	assert.True(t, kardex.WeightedAverage([]*entity.CostBatch{batch(0, 5)}).IsZero())
}
