package kardex

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// WeightedAverage calcula el costo promedio ponderado de los lotes abiertos:
// sum(Quantity * UnitCost) / sum(Quantity), ignorando lotes con cantidad <= 0.
// Devuelve cero si no hay cantidad abierta (el caller decide el fallback).
func WeightedAverage(batches []*entity.CostBatch) decimal.Decimal {
	totalQty := decimal.Zero
	totalCost := decimal.Zero
	for _, b := range batches {
		if b.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		totalQty = totalQty.Add(b.Quantity)
		totalCost = totalCost.Add(b.Quantity.Mul(b.UnitCost))
	}
	if totalQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return totalCost.Div(totalQty)
}
