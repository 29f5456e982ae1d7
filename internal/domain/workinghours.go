package domain

import (
	"fmt"
	"time"
)

// TimeOfDayLayout is the layout used for shift boundaries.
const TimeOfDayLayout = "15:04"

// DateLayout is the layout used for holiday dates.
const DateLayout = "2006-01-02"

// Shift is a configured working window.
type Shift struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Active       bool   `json:"active"`
	IsOfficeHour bool   `json:"is_office_hour"`
}

// Validate checks the time-of-day strings.
func (s *Shift) Validate() []string {
	var errs []string
	if s.Name == "" {
		errs = append(errs, "name is required")
	}
	start, err := time.Parse(TimeOfDayLayout, s.StartTime)
	if err != nil {
		errs = append(errs, fmt.Sprintf("start_time %q must be HH:MM", s.StartTime))
	}
	end, err2 := time.Parse(TimeOfDayLayout, s.EndTime)
	if err2 != nil {
		errs = append(errs, fmt.Sprintf("end_time %q must be HH:MM", s.EndTime))
	}
	if err == nil && err2 == nil && !end.After(start) {
		errs = append(errs, "end_time must be after start_time")
	}
	return errs
}

// Holiday is a non-working date.
type Holiday struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Active bool   `json:"active"`
}

// WorkingHoursConfig is the full scheduling configuration of a site.
type WorkingHoursConfig struct {
	Shifts   []*Shift   `json:"shifts"`
	Holidays []*Holiday `json:"holidays"`
}

// OfficeHours returns the active shifts marked as office hours.
func (c *WorkingHoursConfig) OfficeHours() []*Shift {
	var out []*Shift
	for _, s := range c.Shifts {
		if s.Active && s.IsOfficeHour {
			out = append(out, s)
		}
	}
	return out
}
