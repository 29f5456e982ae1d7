package dashboard

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

// fakeInventory pages over a fixed part list the way the server does.
type fakeInventory struct {
	mu      sync.Mutex
	parts   []*fixdesk.SparePart
	lists   int
	pending *fixdesk.OpenPart
}

func (f *fakeInventory) ListSpareParts(_ context.Context, filter fixdesk.SparePartFilter) (*fixdesk.SparePartList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++

	per := filter.PerPage
	start := (filter.Page - 1) * per
	end := min(start+per, len(f.parts))
	var page []*fixdesk.SparePart
	if start < len(f.parts) {
		page = f.parts[start:end]
	}
	return &fixdesk.SparePartList{
		Parts: page,
		Pagination: fixdesk.Pagination{
			Page: filter.Page, PerPage: per, Total: len(f.parts),
			TotalPages: (len(f.parts) + per - 1) / per,
		},
	}, nil
}

func (f *fakeInventory) GetSparePart(_ context.Context, id string) (*fixdesk.SparePart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.parts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, &fixdesk.Error{StatusCode: 404, Code: fixdesk.ErrCodeSparePartNotFound, Message: "Spare part not found"}
}

func (f *fakeInventory) add(p *fixdesk.SparePart) {
	f.mu.Lock()
	f.parts = append(f.parts, p)
	f.mu.Unlock()
}

func (f *fakeInventory) ConsumeOpenPart(context.Context) (*fixdesk.OpenPart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.pending
	f.pending = nil
	return p, nil
}

func (f *fakeInventory) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

// gatedInventory answers its first list call with the parts as they were
// when the call arrived, but only after gate is closed.
type gatedInventory struct {
	*fakeInventory
	once    sync.Once
	started chan struct{}
	gate    chan struct{}
}

func (g *gatedInventory) ListSpareParts(ctx context.Context, filter fixdesk.SparePartFilter) (*fixdesk.SparePartList, error) {
	first := false
	g.once.Do(func() { first = true })
	list, err := g.fakeInventory.ListSpareParts(ctx, filter)
	if first {
		close(g.started)
		<-g.gate
	}
	return list, err
}

// inventoryOf builds n parts with quantities cycling 0..4 and threshold 3.
func inventoryOf(n int) *fakeInventory {
	f := &fakeInventory{}
	for i := 0; i < n; i++ {
		category := "electrical"
		if i%2 == 0 {
			category = "mechanical"
		}
		f.parts = append(f.parts, &fixdesk.SparePart{
			ID:           fmt.Sprintf("sp-%03d", i),
			Name:         fmt.Sprintf("Part %d", i),
			Category:     category,
			Quantity:     i % 5,
			MinThreshold: 3,
		})
	}
	return f
}

func TestInventoryView_PageAndSummaryAgree(t *testing.T) {
	api := inventoryOf(25)
	view := NewInventoryView(api)
	ctx := context.Background()

	for page := 1; page <= 3; page++ {
		p, err := view.Page(ctx, page, 10, InventoryFilter{})
		require.NoError(t, err)
		want := 10
		if page == 3 {
			want = 5
		}
		assert.Len(t, p.Items, want, "page %d", page)
		assert.Equal(t, 25, p.Total)
		assert.Equal(t, 3, p.TotalPages)

		summary, err := view.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, 25, summary.TotalParts)
	}

	p, err := view.Page(ctx, 4, 10, InventoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, p.Items)
}

func TestInventoryView_Summary(t *testing.T) {
	view := NewInventoryView(inventoryOf(25))
	summary, err := view.Summary(context.Background())
	require.NoError(t, err)

	// quantities 0,1,2,3,4 repeated five times, threshold 3
	assert.Equal(t, fixdesk.InventorySummary{
		TotalParts:      25,
		TotalStock:      50,
		LowStockCount:   10,
		OutOfStockCount: 5,
	}, summary)
}

func TestInventoryView_FiltersApplyToWholeSet(t *testing.T) {
	view := NewInventoryView(inventoryOf(25))
	ctx := context.Background()

	out, err := view.Page(ctx, 1, 10, InventoryFilter{Stock: fixdesk.StockOutOfStock})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Total)
	for _, p := range out.Items {
		assert.Zero(t, p.Quantity)
	}

	low, err := view.Page(ctx, 1, 10, InventoryFilter{Stock: fixdesk.StockLow})
	require.NoError(t, err)
	assert.Equal(t, 10, low.Total)
	for _, p := range low.Items {
		assert.Greater(t, p.Quantity, 0)
		assert.Less(t, p.Quantity, p.MinThreshold)
	}

	search, err := view.Page(ctx, 1, 10, InventoryFilter{Search: "part 24", Category: "mechanical"})
	require.NoError(t, err)
	require.Len(t, search.Items, 1)
	assert.Equal(t, "sp-024", search.Items[0].ID)
}

func TestInventoryView_LoadsOnceUntilInvalidated(t *testing.T) {
	api := inventoryOf(250)
	view := NewInventoryView(api)
	ctx := context.Background()

	_, err := view.Page(ctx, 1, 10, InventoryFilter{})
	require.NoError(t, err)
	_, err = view.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, api.listCalls(), "250 parts read in pages of 100")

	api.mu.Lock()
	api.parts = api.parts[:20]
	api.mu.Unlock()
	view.Invalidate()

	summary, err := view.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, summary.TotalParts)
}

func TestInventoryView_PendingPart(t *testing.T) {
	api := inventoryOf(5)
	api.pending = &fixdesk.OpenPart{PartID: "sp-003"}
	view := NewInventoryView(api)
	ctx := context.Background()

	p, err := view.PendingPart(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Part 3", p.Name)

	p, err = view.PendingPart(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestInventoryView_InvalidateDuringLoad(t *testing.T) {
	api := &gatedInventory{
		fakeInventory: inventoryOf(3),
		started:       make(chan struct{}),
		gate:          make(chan struct{}),
	}
	view := NewInventoryView(api)
	ctx := context.Background()

	stale := make(chan fixdesk.InventorySummary, 1)
	go func() {
		summary, err := view.Summary(ctx)
		assert.NoError(t, err)
		stale <- summary
	}()
	<-api.started

	api.add(&fixdesk.SparePart{ID: "sp-new", Name: "Fresh", Quantity: 1, MinThreshold: 1})
	view.Invalidate()

	summary, err := view.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalParts)

	close(api.gate)
	// The overtaken load retries and sees the new part too.
	assert.Equal(t, 4, (<-stale).TotalParts)

	summary, err = view.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalParts, "stale page must not replace the fresh store")
}

func TestInventoryView_PendingPartCreatedAfterLoad(t *testing.T) {
	api := inventoryOf(3)
	view := NewInventoryView(api)
	ctx := context.Background()

	_, err := view.Summary(ctx)
	require.NoError(t, err)

	api.add(&fixdesk.SparePart{ID: "sp-new", Name: "Fresh", Quantity: 2, MinThreshold: 1})
	api.mu.Lock()
	api.pending = &fixdesk.OpenPart{PartID: "sp-new"}
	api.mu.Unlock()

	p, err := view.PendingPart(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Fresh", p.Name)

	summary, err := view.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalParts, "store reloads after a miss")
}

func TestInventoryView_PendingPartDeleted(t *testing.T) {
	api := inventoryOf(3)
	api.pending = &fixdesk.OpenPart{PartID: "sp-gone"}
	view := NewInventoryView(api)

	p, err := view.PendingPart(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
}
