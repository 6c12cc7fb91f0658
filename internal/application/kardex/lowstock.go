package kardex

import (
	"context"
	"sort"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// LowStockUseCase escanea los saldos con umbral configurado y emite alertas
// para los que están por debajo de su mínimo. Solo lee la tabla de stock.
type LowStockUseCase struct {
	stockRepo repository.StockRepository
}

// NewLowStockUseCase construye el escáner.
func NewLowStockUseCase(stockRepo repository.StockRepository) *LowStockUseCase {
	return &LowStockUseCase{stockRepo: stockRepo}
}

// Scan devuelve una alerta por cada fila de stock con min_stock_level > 0 cuyo
// saldo actual es estrictamente menor que el mínimo (el límite exacto no alerta).
// warehouseIDs vacío considera todas las bodegas. Las alertas salen ordenadas
// por mayor déficit primero.
func (uc *LowStockUseCase) Scan(ctx context.Context, warehouseIDs []string) ([]dto.LowStockAlertDTO, error) {
	rows, err := uc.stockRepo.ListWithMinLevel(ctx, warehouseIDs)
	if err != nil {
		return nil, err
	}

	alerts := make([]dto.LowStockAlertDTO, 0, len(rows))
	for _, s := range rows {
		if !s.Quantity.LessThan(s.MinStockLevel) {
			continue
		}
		alerts = append(alerts, dto.LowStockAlertDTO{
			ProductID:       s.ProductID,
			WarehouseID:     s.WarehouseID,
			CurrentQuantity: s.Quantity,
			MinStockLevel:   s.MinStockLevel,
			Deficit:         s.MinStockLevel.Sub(s.Quantity),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Deficit.GreaterThan(alerts[j].Deficit)
	})
	return alerts, nil
}
