package fixdesk

import (
	"context"
	"net/http"
	"net/url"
)

// ShiftInput is the body of shift create and update calls.
type ShiftInput struct {
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Active       *bool  `json:"active,omitempty"`
	IsOfficeHour bool   `json:"is_office_hour"`
}

// HolidayInput is the body of CreateHoliday.
type HolidayInput struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Active *bool  `json:"active,omitempty"`
}

// WorkingHours returns all shifts and holidays of the site.
func (c *Client) WorkingHours(ctx context.Context) (*WorkingHours, error) {
	var cfg WorkingHours
	if err := c.do(ctx, http.MethodGet, c.sitePath("/working-hours"), nil, http.StatusOK, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OfficeHours returns the active office-hour shifts.
func (c *Client) OfficeHours(ctx context.Context) ([]*Shift, error) {
	var shifts []*Shift
	if err := c.do(ctx, http.MethodGet, c.sitePath("/shifts/office-hours"), nil, http.StatusOK, &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

// CreateShift adds a shift.
func (c *Client) CreateShift(ctx context.Context, in ShiftInput) (*Shift, error) {
	var s Shift
	if err := c.do(ctx, http.MethodPost, c.sitePath("/shifts"), in, http.StatusCreated, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateShift replaces a shift.
func (c *Client) UpdateShift(ctx context.Context, id string, in ShiftInput) (*Shift, error) {
	var s Shift
	if err := c.do(ctx, http.MethodPut, c.sitePath("/shifts/"+url.PathEscape(id)), in, http.StatusOK, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListHolidays returns all holidays ordered by date.
func (c *Client) ListHolidays(ctx context.Context) ([]*Holiday, error) {
	var holidays []*Holiday
	if err := c.do(ctx, http.MethodGet, c.sitePath("/holidays"), nil, http.StatusOK, &holidays); err != nil {
		return nil, err
	}
	return holidays, nil
}

// CreateHoliday adds a holiday.
func (c *Client) CreateHoliday(ctx context.Context, in HolidayInput) (*Holiday, error) {
	var h Holiday
	if err := c.do(ctx, http.MethodPost, c.sitePath("/holidays"), in, http.StatusCreated, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// DeleteHoliday removes a holiday.
func (c *Client) DeleteHoliday(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.sitePath("/holidays/"+url.PathEscape(id)), nil, http.StatusNoContent, nil)
}
