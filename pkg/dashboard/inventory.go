package dashboard

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

// loadPageSize is the page size used to read the whole inventory.
const loadPageSize = 100

// InventoryAPI is the part of the Fixdesk client an InventoryView uses.
type InventoryAPI interface {
	ListSpareParts(ctx context.Context, filter fixdesk.SparePartFilter) (*fixdesk.SparePartList, error)
	GetSparePart(ctx context.Context, id string) (*fixdesk.SparePart, error)
	ConsumeOpenPart(ctx context.Context) (*fixdesk.OpenPart, error)
}

// InventoryFilter narrows an inventory page. It applies to the whole
// inventory, not only the current page.
type InventoryFilter struct {
	Search      string
	Category    string
	MachineType string
	Stock       fixdesk.StockLevel
}

func (f InventoryFilter) match(p *fixdesk.SparePart) bool {
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		if !strings.Contains(strings.ToLower(p.Name), s) && !strings.Contains(strings.ToLower(p.Supplier), s) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MachineType != "" && p.MachineType != f.MachineType {
		return false
	}
	if f.Stock != "" && p.StockLevel() != f.Stock {
		return false
	}
	return true
}

// InventoryPage is one page of filtered parts.
type InventoryPage struct {
	Items      []*fixdesk.SparePart
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// InventoryView serves paged parts and summary totals from one in-memory
// copy of the site's inventory, so both always agree.
type InventoryView struct {
	api   InventoryAPI
	group singleflight.Group

	mu     sync.RWMutex
	parts  []*fixdesk.SparePart
	byID   map[string]*fixdesk.SparePart
	loaded bool
	// gen counts invalidations; a load commits only at the generation it
	// started from.
	gen uint64
}

// NewInventoryView creates an empty view. The inventory is loaded on first use.
func NewInventoryView(api InventoryAPI) *InventoryView {
	return &InventoryView{api: api}
}

// Load reads the whole inventory, one API page at a time. Concurrent calls
// share a single load. A load that an Invalidate overtakes is discarded and
// read again.
func (v *InventoryView) Load(ctx context.Context) error {
	for {
		v.mu.RLock()
		gen := v.gen
		v.mu.RUnlock()

		committed, err, _ := v.group.Do(loadKey(gen), func() (interface{}, error) {
			return v.fetch(ctx, gen)
		})
		if err != nil {
			return err
		}
		if committed.(bool) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// fetch reads every page and commits the result if the store is still at
// generation gen.
func (v *InventoryView) fetch(ctx context.Context, gen uint64) (bool, error) {
	var all []*fixdesk.SparePart
	for page := 1; ; page++ {
		list, err := v.api.ListSpareParts(ctx, fixdesk.SparePartFilter{
			ListOptions: fixdesk.ListOptions{Page: page, PerPage: loadPageSize},
		})
		if err != nil {
			return false, err
		}
		all = append(all, list.Parts...)
		if page >= list.Pagination.TotalPages || len(list.Parts) == 0 {
			break
		}
	}

	byID := make(map[string]*fixdesk.SparePart, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		return false, nil
	}
	v.parts = all
	v.byID = byID
	v.loaded = true
	return true, nil
}

func loadKey(gen uint64) string {
	return "load-" + strconv.FormatUint(gen, 10)
}

func (v *InventoryView) ensure(ctx context.Context) error {
	v.mu.RLock()
	loaded := v.loaded
	v.mu.RUnlock()
	if loaded {
		return nil
	}
	return v.Load(ctx)
}

// Invalidate drops the store; the next read reloads it. Call it after
// edits and imports. A load already running when Invalidate is called is
// not committed.
func (v *InventoryView) Invalidate() {
	v.mu.Lock()
	v.group.Forget(loadKey(v.gen))
	v.gen++
	v.loaded = false
	v.mu.Unlock()
}

// Page returns page number page (1-based) of size items matching filter.
// A page past the end is empty.
func (v *InventoryView) Page(ctx context.Context, page, size int, filter InventoryFilter) (*InventoryPage, error) {
	if err := v.ensure(ctx); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = loadPageSize
	}

	v.mu.RLock()
	var matched []*fixdesk.SparePart
	for _, p := range v.parts {
		if filter.match(p) {
			matched = append(matched, p)
		}
	}
	v.mu.RUnlock()

	result := &InventoryPage{
		Page:       page,
		PageSize:   size,
		Total:      len(matched),
		TotalPages: (len(matched) + size - 1) / size,
		Items:      []*fixdesk.SparePart{},
	}
	start := (page - 1) * size
	if start < len(matched) {
		end := min(start+size, len(matched))
		result.Items = matched[start:end]
	}
	return result, nil
}

// Summary returns totals over the whole inventory, independent of any
// page or filter.
func (v *InventoryView) Summary(ctx context.Context) (fixdesk.InventorySummary, error) {
	if err := v.ensure(ctx); err != nil {
		return fixdesk.InventorySummary{}, err
	}
	v.mu.RLock()
	defer v.mu.RUnlock()

	var s fixdesk.InventorySummary
	for _, p := range v.parts {
		s.TotalParts++
		s.TotalStock += p.Quantity
		switch p.StockLevel() {
		case fixdesk.StockLow:
			s.LowStockCount++
		case fixdesk.StockOutOfStock:
			s.OutOfStockCount++
		case fixdesk.StockOK:
		}
	}
	return s, nil
}

// Part returns a part from the store.
func (v *InventoryView) Part(ctx context.Context, id string) (*fixdesk.SparePart, bool, error) {
	if err := v.ensure(ctx); err != nil {
		return nil, false, err
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	p, ok := v.byID[id]
	return p, ok, nil
}

// PendingPart consumes the caller's open-part hand-off and returns the part
// it names. It returns nil when nothing is pending or the part no longer
// exists. A part missing from the store, typically one created after the
// view loaded, is read from the API and the store is invalidated.
func (v *InventoryView) PendingPart(ctx context.Context) (*fixdesk.SparePart, error) {
	signal, err := v.api.ConsumeOpenPart(ctx)
	if err != nil || signal == nil {
		return nil, err
	}
	p, ok, err := v.Part(ctx, signal.PartID)
	if err != nil {
		return nil, err
	}
	if ok {
		return p, nil
	}

	p, err = v.api.GetSparePart(ctx, signal.PartID)
	if err != nil {
		if fixdesk.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	v.Invalidate()
	return p, nil
}
