// Package seed loads a site's starting data from a YAML file.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/service"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

// File is the YAML seed document.
type File struct {
	Devices    []Device    `yaml:"devices"`
	SpareParts []SparePart `yaml:"spare_parts"`
	Users      []User      `yaml:"users"`
	Shifts     []Shift     `yaml:"shifts"`
	Holidays   []Holiday   `yaml:"holidays"`
	TaskGroups []TaskGroup `yaml:"task_groups"`
}

// Device is a seeded device.
type Device struct {
	Name              string     `yaml:"name"`
	Code              string     `yaml:"code"`
	Model             string     `yaml:"model"`
	Manufacturer      string     `yaml:"manufacturer"`
	Status            string     `yaml:"status"`
	UnderWarranty     bool       `yaml:"under_warranty"`
	WarrantyExpiresAt *time.Time `yaml:"warranty_expires_at"`
	Area              string     `yaml:"area"`
	Building          string     `yaml:"building"`
	Floor             string     `yaml:"floor"`
	Room              string     `yaml:"room"`
}

// SparePart is a seeded inventory line.
type SparePart struct {
	Name         string  `yaml:"name"`
	Category     string  `yaml:"category"`
	MachineType  string  `yaml:"machine_type"`
	Quantity     int     `yaml:"quantity"`
	MinThreshold int     `yaml:"min_threshold"`
	Unit         string  `yaml:"unit"`
	Supplier     string  `yaml:"supplier"`
	Price        float64 `yaml:"price"`
}

// User is a seeded account.
type User struct {
	Username string `yaml:"username"`
	FullName string `yaml:"full_name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

// Shift is a seeded working window.
type Shift struct {
	Name         string `yaml:"name"`
	Start        string `yaml:"start"`
	End          string `yaml:"end"`
	IsOfficeHour bool   `yaml:"office_hours"`
}

// Holiday is a seeded non-working date.
type Holiday struct {
	Name string `yaml:"name"`
	Date string `yaml:"date"`
}

// TaskGroup is a seeded task group.
type TaskGroup struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Tasks []Task `yaml:"tasks"`
}

// Task is a seeded task.
type Task struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Status   string `yaml:"status"`
	Priority *int   `yaml:"priority"`
	Assignee string `yaml:"assignee"`
}

// Result counts what Apply created. Devices and users that already exist
// are skipped.
type Result struct {
	Devices    int `json:"devices"`
	SpareParts int `json:"spare_parts"`
	Users      int `json:"users"`
	Shifts     int `json:"shifts"`
	Holidays   int `json:"holidays"`
	TaskGroups int `json:"task_groups"`
	Skipped    int `json:"skipped"`
}

// Load reads and decodes a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Apply writes the seed data into a site database through the service
// layer, so it is audited like API writes.
func Apply(ctx context.Context, db *sql.DB, f *File, actor string) (*Result, error) {
	audit := sqlite.NewAuditRepository(db)
	events := service.NopEvents{}
	res := &Result{}

	devices := service.NewDeviceService(
		sqlite.NewDeviceRepository(db),
		sqlite.NewTaskGroupRepository(db),
		audit, events,
	)
	for _, d := range f.Devices {
		in := service.CreateDeviceInput{
			Name:              d.Name,
			Code:              d.Code,
			Model:             d.Model,
			Manufacturer:      d.Manufacturer,
			UnderWarranty:     d.UnderWarranty,
			WarrantyExpiresAt: d.WarrantyExpiresAt,
			Area:              d.Area,
			Building:          d.Building,
			Floor:             d.Floor,
			Room:              d.Room,
		}
		if d.Status != "" {
			status := domain.DeviceStatus(d.Status)
			in.Status = &status
		}
		_, err := devices.Create(ctx, in, actor)
		if skipped, err := countOrSkip(err, "code", res); err != nil {
			return res, fmt.Errorf("device %s: %w", d.Code, err)
		} else if !skipped {
			res.Devices++
		}
	}

	if len(f.SpareParts) > 0 {
		parts := make([]*domain.SparePart, 0, len(f.SpareParts))
		for _, p := range f.SpareParts {
			parts = append(parts, &domain.SparePart{
				Name:         p.Name,
				Category:     p.Category,
				MachineType:  p.MachineType,
				Quantity:     p.Quantity,
				MinThreshold: p.MinThreshold,
				Unit:         p.Unit,
				Supplier:     p.Supplier,
				Price:        p.Price,
			})
		}
		inventory := service.NewSparePartService(sqlite.NewSparePartRepository(db), audit, events)
		imported, err := inventory.Import(ctx, parts, actor)
		if err != nil {
			return res, fmt.Errorf("spare parts: %w", err)
		}
		res.SpareParts = imported.Created + imported.Updated
	}

	users := service.NewUserService(sqlite.NewUserRepository(db), audit)
	for _, u := range f.Users {
		if !domain.Role(u.Role).IsValid() {
			return res, fmt.Errorf("user %s: unknown role %q", u.Username, u.Role)
		}
		_, err := users.Create(ctx, service.CreateUserInput{
			Username: u.Username,
			FullName: u.FullName,
			Email:    u.Email,
			Phone:    u.Phone,
			Role:     domain.Role(u.Role),
			Password: u.Password,
		}, actor)
		if skipped, err := countOrSkip(err, "username", res); err != nil {
			return res, fmt.Errorf("user %s: %w", u.Username, err)
		} else if !skipped {
			res.Users++
		}
	}

	hours := service.NewWorkingHoursService(sqlite.NewWorkingHoursRepository(db))
	for _, s := range f.Shifts {
		_, err := hours.CreateShift(ctx, &domain.Shift{
			Name:         s.Name,
			StartTime:    s.Start,
			EndTime:      s.End,
			Active:       true,
			IsOfficeHour: s.IsOfficeHour,
		})
		if err != nil {
			return res, fmt.Errorf("shift %s: %w", s.Name, err)
		}
		res.Shifts++
	}
	for _, h := range f.Holidays {
		if _, err := hours.CreateHoliday(ctx, &domain.Holiday{Name: h.Name, Date: h.Date, Active: true}); err != nil {
			return res, fmt.Errorf("holiday %s: %w", h.Name, err)
		}
		res.Holidays++
	}

	groups := service.NewTaskGroupService(sqlite.NewTaskGroupRepository(db), audit, events)
	for _, g := range f.TaskGroups {
		in := service.CreateTaskGroupInput{GroupName: g.Name, Type: domain.GroupType(g.Type)}
		for _, t := range g.Tasks {
			taskType, ok := domain.ParseTaskType(t.Type)
			if !ok {
				return res, fmt.Errorf("task group %s: unknown task type %q", g.Name, t.Type)
			}
			task := service.CreateTaskInput{Name: t.Name, Type: taskType, Priority: t.Priority}
			if t.Status != "" {
				status := domain.TaskStatus(t.Status)
				task.Status = &status
			}
			if t.Assignee != "" {
				assignee := t.Assignee
				task.AssigneeName = &assignee
			}
			in.Tasks = append(in.Tasks, task)
		}
		if !in.Type.IsValid() {
			return res, fmt.Errorf("task group %s: unknown type %q", g.Name, g.Type)
		}
		if _, err := groups.Create(ctx, in, actor); err != nil {
			return res, fmt.Errorf("task group %s: %w", g.Name, err)
		}
		res.TaskGroups++
	}

	return res, nil
}

// countOrSkip treats a field error on the unique key as an existing record.
func countOrSkip(err error, uniqueField string, res *Result) (bool, error) {
	if err == nil {
		return false, nil
	}
	var de *domain.DomainError
	if errors.As(err, &de) && de.Code == domain.ErrCodeValidationFailed {
		if _, dup := de.Fields[uniqueField]; dup && len(de.Fields) == 1 {
			res.Skipped++
			return true, nil
		}
	}
	return false, err
}
