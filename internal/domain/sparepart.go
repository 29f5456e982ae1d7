package domain

import "time"

// StockLevel classifies a spare part's quantity against its threshold.
type StockLevel string

const (
	StockOK         StockLevel = "ok"
	StockLow        StockLevel = "low_stock"
	StockOutOfStock StockLevel = "out_of_stock"
)

// SparePart is one inventory line.
type SparePart struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	MachineType  string    `json:"machine_type"`
	Quantity     int       `json:"quantity"`
	MinThreshold int       `json:"min_threshold"`
	Unit         string    `json:"unit"`
	Supplier     string    `json:"supplier"`
	Price        float64   `json:"price"`
	ImageURL     *string   `json:"image_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ClassifyStock returns the stock level for a quantity and threshold.
// Zero is always out of stock, never merely low.
func ClassifyStock(quantity, minThreshold int) StockLevel {
	switch {
	case quantity <= 0:
		return StockOutOfStock
	case quantity < minThreshold:
		return StockLow
	default:
		return StockOK
	}
}

// StockLevel returns the derived stock level of the part.
func (p *SparePart) StockLevel() StockLevel {
	return ClassifyStock(p.Quantity, p.MinThreshold)
}

// InventorySummary aggregates the whole inventory.
type InventorySummary struct {
	TotalParts      int `json:"total_parts"`
	TotalStock      int `json:"total_stock"`
	LowStockCount   int `json:"low_stock_count"`
	OutOfStockCount int `json:"out_of_stock_count"`
}

// Add accounts one part in the summary.
func (s *InventorySummary) Add(p *SparePart) {
	s.TotalParts++
	s.TotalStock += p.Quantity
	switch p.StockLevel() {
	case StockLow:
		s.LowStockCount++
	case StockOutOfStock:
		s.OutOfStockCount++
	}
}
