package fixdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// SparePartInput is the body of create and update calls; nil fields are
// left unchanged on update.
type SparePartInput struct {
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

// SparePartFilter narrows ListSpareParts. Stock may be a StockLevel or
// one of the short forms "low" and "out".
type SparePartFilter struct {
	ListOptions
	Search      string
	Category    string
	MachineType string
	Stock       StockLevel
}

// query encodes the filter and page as URL query parameters.
func (f SparePartFilter) query() string {
	q := queryValues{}
	f.apply(q)
	q.set("search", f.Search)
	q.set("category", f.Category)
	q.set("machine_type", f.MachineType)
	q.set("stock", string(f.Stock))
	return url.Values(q).Encode()
}

// ListSpareParts returns a page of spare parts.
func (c *Client) ListSpareParts(ctx context.Context, filter SparePartFilter) (*SparePartList, error) {
	path := c.sitePath("/spare-parts")
	if q := filter.query(); q != "" {
		path += "?" + q
	}
	var page paginated[*SparePart]
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &page); err != nil {
		return nil, err
	}
	return &SparePartList{Parts: page.Data, Pagination: page.Pagination}, nil
}

// InventorySummary returns whole-site inventory totals.
func (c *Client) InventorySummary(ctx context.Context) (*InventorySummary, error) {
	var s InventorySummary
	if err := c.do(ctx, http.MethodGet, c.sitePath("/spare-parts/summary"), nil, http.StatusOK, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSparePart retrieves a spare part by ID.
func (c *Client) GetSparePart(ctx context.Context, id string) (*SparePart, error) {
	var p SparePart
	if err := c.do(ctx, http.MethodGet, c.sitePath("/spare-parts/"+url.PathEscape(id)), nil, http.StatusOK, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateSparePart adds a part to the inventory.
func (c *Client) CreateSparePart(ctx context.Context, in SparePartInput) (*SparePart, error) {
	var p SparePart
	if err := c.do(ctx, http.MethodPost, c.sitePath("/spare-parts"), in, http.StatusCreated, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateSparePart changes the given fields of a part.
func (c *Client) UpdateSparePart(ctx context.Context, id string, in SparePartInput) (*SparePart, error) {
	var p SparePart
	if err := c.do(ctx, http.MethodPatch, c.sitePath("/spare-parts/"+url.PathEscape(id)), in, http.StatusOK, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ImportSpareParts uploads an xlsx workbook. Rows whose name matches an
// existing part update it; the rest are created.
func (c *Client) ImportSpareParts(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.sitePath("/spare-parts/import"), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var result ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode import response: %w", err)
	}
	return &result, nil
}

// ExportSpareParts writes the site's inventory as an xlsx workbook to w.
func (c *Client) ExportSpareParts(ctx context.Context, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.sitePath("/spare-parts/export"), nil)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseErrorResponse(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to download export: %w", err)
	}
	return nil
}

// PutOpenPart asks the caller's inventory view to open a part. The signal
// expires after a short time if nobody consumes it.
func (c *Client) PutOpenPart(ctx context.Context, partID string) (*OpenPart, error) {
	body := struct {
		PartID string `json:"part_id"`
	}{partID}

	var signal OpenPart
	if err := c.do(ctx, http.MethodPut, c.sitePath("/handoffs/open-part"), body, http.StatusOK, &signal); err != nil {
		return nil, err
	}
	return &signal, nil
}

// ConsumeOpenPart takes the pending open-part signal, if any. It returns
// nil without error when there is nothing to consume.
func (c *Client) ConsumeOpenPart(ctx context.Context) (*OpenPart, error) {
	var signal OpenPart
	err := c.do(ctx, http.MethodPost, c.sitePath("/handoffs/open-part/consume"), nil, http.StatusOK, &signal)
	if IsHandoffNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &signal, nil
}
