package request

import (
	"net/http"
	"strings"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

// SparePartRequest is the body of spare part create and update requests.
type SparePartRequest struct {
	Name         *string  `json:"name,omitempty"`
	Category     *string  `json:"category,omitempty"`
	MachineType  *string  `json:"machine_type,omitempty"`
	Quantity     *int     `json:"quantity,omitempty"`
	MinThreshold *int     `json:"min_threshold,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	Supplier     *string  `json:"supplier,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
}

// Validate checks field ranges. When creating is set the name is required.
func (r *SparePartRequest) Validate(creating bool) map[string]string {
	errs := fieldErrors{}
	if r.Name == nil && creating {
		errs.add("name", "name is required")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errs.add("name", "name cannot be empty")
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		errs.add("quantity", "quantity cannot be negative")
	}
	if r.MinThreshold != nil && *r.MinThreshold < 0 {
		errs.add("min_threshold", "min_threshold cannot be negative")
	}
	if r.Price != nil && *r.Price < 0 {
		errs.add("price", "price cannot be negative")
	}
	return errs
}

// ParseSparePartFilter extracts inventory filters from query parameters.
// stock accepts "low", "out" and "ok" as well as the stock level names.
func ParseSparePartFilter(r *http.Request) sqlite.SparePartFilter {
	q := r.URL.Query()
	filter := sqlite.SparePartFilter{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		MachineType: q.Get("machine_type"),
	}

	switch q.Get("stock") {
	case "low", string(domain.StockLow):
		filter.Stock = domain.StockLow
	case "out", string(domain.StockOutOfStock):
		filter.Stock = domain.StockOutOfStock
	case string(domain.StockOK):
		filter.Stock = domain.StockOK
	}
	return filter
}
