package ledger

import "github.com/shopspring/decimal"

// StockStatus classifies a supply's derived stock level against its threshold
type StockStatus string

const (
	// StockStatusOut means no stock at all (or negative after corrections)
	StockStatusOut StockStatus = "OUT_OF_STOCK"
	// StockStatusLow means stock is positive but below the minimum threshold
	StockStatusLow StockStatus = "LOW_STOCK"
	// StockStatusIn means stock is at or above the minimum threshold
	StockStatusIn StockStatus = "IN_STOCK"
)

// StatusFor classifies current stock against a minimum threshold. A zero
// threshold never reports LOW_STOCK: any positive stock is IN_STOCK.
func StatusFor(currentStock, minStock decimal.Decimal) StockStatus {
	if currentStock.LessThanOrEqual(decimal.Zero) {
		return StockStatusOut
	}
	if currentStock.LessThan(minStock) {
		return StockStatusLow
	}
	return StockStatusIn
}

// Status classifies the given stock level against this supply's threshold
func (s *Supply) Status(currentStock decimal.Decimal) StockStatus {
	return StatusFor(currentStock, s.MinStock)
}
