package dashboard

import (
	"context"
	"fmt"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

// Detail is the type-specific record of a task. Exactly one of the pointers
// matching Kind is set; Kind DetailNone carries no record.
type Detail struct {
	Kind         fixdesk.DetailKind
	Installation *fixdesk.InstallTaskDetail
	Warranty     *fixdesk.WarrantyTaskDetail
	Repair       *fixdesk.RepairTaskDetail
}

// IsZero reports whether the detail carries no record.
func (d Detail) IsZero() bool {
	return d.Installation == nil && d.Warranty == nil && d.Repair == nil
}

// DeviceIDs returns the devices referenced by the detail.
func (d Detail) DeviceIDs() []string {
	var ids []string
	switch d.Kind {
	case fixdesk.DetailInstallation:
		if d.Installation != nil {
			if d.Installation.OldDeviceID != nil {
				ids = append(ids, *d.Installation.OldDeviceID)
			}
			if d.Installation.NewDeviceID != nil {
				ids = append(ids, *d.Installation.NewDeviceID)
			}
		}
	case fixdesk.DetailWarranty:
		if d.Warranty != nil && d.Warranty.DeviceID != "" {
			ids = append(ids, d.Warranty.DeviceID)
		}
	case fixdesk.DetailRepair:
		if d.Repair != nil && d.Repair.DeviceID != "" {
			ids = append(ids, d.Repair.DeviceID)
		}
	case fixdesk.DetailNone:
	}
	return ids
}

// fetchDetail loads the detail of task from the endpoint matching its kind.
// prefetched serves installation details already held by the page.
func fetchDetail(ctx context.Context, api TaskGroupAPI, task *fixdesk.Task, prefetched map[string]*fixdesk.InstallTaskDetail) (Detail, error) {
	kind := task.Type.DetailKind()
	switch kind {
	case fixdesk.DetailInstallation:
		if d, ok := prefetched[task.ID]; ok {
			return Detail{Kind: kind, Installation: d}, nil
		}
		d, err := api.GetInstallationDetail(ctx, task.ID)
		if err != nil {
			return Detail{}, err
		}
		return Detail{Kind: kind, Installation: d}, nil
	case fixdesk.DetailWarranty:
		d, err := api.GetWarrantyDetail(ctx, task.ID)
		if err != nil {
			return Detail{}, err
		}
		return Detail{Kind: kind, Warranty: d}, nil
	case fixdesk.DetailRepair:
		d, err := api.GetRepairDetail(ctx, task.ID)
		if err != nil {
			return Detail{}, err
		}
		return Detail{Kind: kind, Repair: d}, nil
	case fixdesk.DetailNone:
		return Detail{Kind: kind}, nil
	default:
		return Detail{}, fmt.Errorf("unhandled detail kind %v", kind)
	}
}
