package request

import (
	"strings"

	"github.com/fixdesk/fixdesk/internal/domain"
)

// ShiftRequest is the body of shift create and update requests.
type ShiftRequest struct {
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Active       *bool  `json:"active,omitempty"`
	IsOfficeHour bool   `json:"is_office_hour"`
}

// Shift converts the request into a domain shift. Active defaults to true.
func (r *ShiftRequest) Shift(id string) *domain.Shift {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &domain.Shift{
		ID:           id,
		Name:         strings.TrimSpace(r.Name),
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Active:       active,
		IsOfficeHour: r.IsOfficeHour,
	}
}

// HolidayRequest is the body of a holiday create request.
type HolidayRequest struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Active *bool  `json:"active,omitempty"`
}

// Holiday converts the request into a domain holiday. Active defaults to true.
func (r *HolidayRequest) Holiday() *domain.Holiday {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &domain.Holiday{Name: strings.TrimSpace(r.Name), Date: r.Date, Active: active}
}

// OpenPartRequest asks the inventory view to open a part.
type OpenPartRequest struct {
	PartID string `json:"part_id"`
}

// Validate validates the open part request.
func (r *OpenPartRequest) Validate() map[string]string {
	errs := fieldErrors{}
	if strings.TrimSpace(r.PartID) == "" {
		errs.add("part_id", "part_id is required")
	}
	return errs
}

// NotificationRequest broadcasts a message to live subscribers.
type NotificationRequest struct {
	Message string   `json:"message"`
	Roles   []string `json:"roles,omitempty"`
}

// Validate validates the notification request.
func (r *NotificationRequest) Validate() map[string]string {
	errs := fieldErrors{}
	if strings.TrimSpace(r.Message) == "" {
		errs.add("message", "message is required")
	}
	for _, role := range r.Roles {
		if !domain.Role(role).IsValid() {
			errs.add("roles", "unknown role "+role)
		}
	}
	return errs
}
