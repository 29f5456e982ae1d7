package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fixdesk/fixdesk/pkg/dashboard"
	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

const timeLayout = "2006-01-02 15:04"

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func paginationJSON(p fixdesk.Pagination) map[string]interface{} {
	return map[string]interface{}{
		"page":        p.Page,
		"per_page":    p.PerPage,
		"total":       p.Total,
		"total_pages": p.TotalPages,
	}
}

func printPageFooter(w io.Writer, page, totalPages, total int, noun string) {
	if totalPages > 1 {
		fmt.Fprintf(w, "\nPage %d of %d (%d total %s)\n", page, totalPages, total, noun)
	}
}

// printGroupList prints task groups with pagination info
func printGroupList(w io.Writer, list *fixdesk.TaskGroupList, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{"data": list.Groups, "pagination": paginationJSON(list.Pagination)})
		return
	}

	if len(list.Groups) == 0 {
		fmt.Fprintln(w, "No task groups found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tTYPE\tTASKS\tCREATED\n")
	fmt.Fprintf(tw, "--\t----\t----\t-----\t-------\n")
	for _, g := range list.Groups {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			g.ID, truncate(g.GroupName, 40), g.Type, len(g.Tasks), g.CreatedAt.Format(timeLayout))
	}
	tw.Flush()

	printPageFooter(w, list.Pagination.Page, list.Pagination.TotalPages, list.Pagination.Total, "groups")
}

// printGroupState prints a loaded task group page: header, ordered tasks,
// the installation details that could be fetched and any notices.
func printGroupState(w io.Writer, state dashboard.State, notices []dashboard.Notice, jsonOutput bool) {
	group := state.Group
	if jsonOutput {
		out := map[string]interface{}{
			"group":           group,
			"install_details": state.InstallDetails,
			"devices":         state.Devices,
		}
		if state.ActiveInstallTaskID != "" {
			out["active_install_task_id"] = state.ActiveInstallTaskID
		}
		if len(notices) > 0 {
			msgs := make([]string, 0, len(notices))
			for _, n := range notices {
				msgs = append(msgs, noticeText(n))
			}
			out["notices"] = msgs
		}
		printJSON(w, out)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", group.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", group.GroupName)
	fmt.Fprintf(tw, "Type:\t%s\n", group.Type)
	fmt.Fprintf(tw, "Created:\t%s\n", group.CreatedAt.Format(timeLayout))
	tw.Flush()

	fmt.Fprintln(w)
	printTaskTable(w, dashboard.SortTasks(group.Tasks))

	if len(state.InstallDetails) > 0 {
		fmt.Fprintln(w, "\nInstallations:")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "\tTASK\tOLD DEVICE\tNEW DEVICE\tLOCATION\n")
		for _, t := range group.Tasks {
			d, ok := state.InstallDetails[t.ID]
			if !ok {
				continue
			}
			marker := ""
			if t.ID == state.ActiveInstallTaskID {
				marker = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", marker, t.ID,
				deviceLabel(d.OldDeviceID, state.Devices), deviceLabel(d.NewDeviceID, state.Devices),
				location(d.Area, d.Building, d.Floor, d.Room))
		}
		tw.Flush()
	}

	for _, n := range notices {
		fmt.Fprintf(w, "\nNote: %s\n", noticeText(n))
	}
}

func noticeText(n dashboard.Notice) string {
	if n.Err != nil {
		return fmt.Sprintf("%s: %v", n.Message, n.Err)
	}
	return n.Message
}

func printTaskTable(w io.Writer, tasks []*fixdesk.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tID\tNAME\tTYPE\tSTATUS\tPRIORITY\tASSIGNEE\n")
	fmt.Fprintf(tw, "-\t--\t----\t----\t------\t--------\t--------\n")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.OrderIndex, t.ID, truncate(t.Name, 40), t.Type, t.Status,
			priorityString(t.Priority), deref(t.AssigneeName))
	}
	tw.Flush()
}

// printTask prints a single task to the writer
func printTask(w io.Writer, task *fixdesk.Task, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, task)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", task.ID)
	fmt.Fprintf(tw, "Group:\t%s\n", task.TaskGroupID)
	fmt.Fprintf(tw, "Name:\t%s\n", task.Name)
	fmt.Fprintf(tw, "Type:\t%s\n", task.Type)
	fmt.Fprintf(tw, "Status:\t%s\n", task.Status)
	fmt.Fprintf(tw, "Priority:\t%s\n", priorityString(task.Priority))
	if task.Description != nil && *task.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", *task.Description)
	}
	if task.AssigneeName != nil && *task.AssigneeName != "" {
		fmt.Fprintf(tw, "Assignee:\t%s\n", *task.AssigneeName)
	}
	printTimeField(tw, "Start", task.StartTime)
	printTimeField(tw, "Expected", task.ExpectedTime)
	printTimeField(tw, "End", task.EndTime)
	fmt.Fprintf(tw, "Created:\t%s\n", task.CreatedAt.Format(timeLayout))
	fmt.Fprintf(tw, "Updated:\t%s\n", task.UpdatedAt.Format(timeLayout))
	tw.Flush()
}

func printTimeField(tw io.Writer, label string, t *time.Time) {
	if t != nil {
		fmt.Fprintf(tw, "%s:\t%s\n", label, t.Format(timeLayout))
	}
}

// printDetail prints the type-specific detail of a task
func printDetail(w io.Writer, d dashboard.Detail, jsonOutput bool) {
	if jsonOutput {
		switch d.Kind {
		case fixdesk.DetailInstallation:
			printJSON(w, d.Installation)
		case fixdesk.DetailWarranty:
			printJSON(w, d.Warranty)
		case fixdesk.DetailRepair:
			printJSON(w, d.Repair)
		default:
			printJSON(w, map[string]interface{}{})
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	switch d.Kind {
	case fixdesk.DetailInstallation:
		in := d.Installation
		fmt.Fprintf(tw, "Old Device:\t%s\n", deref(in.OldDeviceID))
		fmt.Fprintf(tw, "New Device:\t%s\n", deref(in.NewDeviceID))
		fmt.Fprintf(tw, "Location:\t%s\n", location(in.Area, in.Building, in.Floor, in.Room))
		printTimeField(tw, "Installed", in.InstalledAt)
		if in.Notes != nil {
			fmt.Fprintf(tw, "Notes:\t%s\n", *in.Notes)
		}
	case fixdesk.DetailWarranty:
		wd := d.Warranty
		fmt.Fprintf(tw, "Device:\t%s\n", wd.DeviceID)
		fmt.Fprintf(tw, "Claim:\t%s\n", deref(wd.ClaimNumber))
		fmt.Fprintf(tw, "Claim Status:\t%s\n", wd.ClaimStatus)
		fmt.Fprintf(tw, "Service Center:\t%s\n", wd.ServiceCenter)
		fmt.Fprintf(tw, "Issue:\t%s\n", wd.IssueDescription)
		printTimeField(tw, "Submitted", wd.SubmittedAt)
		printTimeField(tw, "Expected Return", wd.ExpectedReturnAt)
		printTimeField(tw, "Returned", wd.ReturnedAt)
	case fixdesk.DetailRepair:
		r := d.Repair
		fmt.Fprintf(tw, "Device:\t%s\n", r.DeviceID)
		fmt.Fprintf(tw, "Technician:\t%s\n", r.Technician)
		fmt.Fprintf(tw, "Diagnosis:\t%s\n", r.Diagnosis)
		fmt.Fprintf(tw, "Cost:\t%.2f\n", r.Cost)
		for _, p := range r.Parts {
			fmt.Fprintf(tw, "Part:\t%s x%d\n", p.SparePartID, p.Quantity)
		}
		printTimeField(tw, "Repaired", r.RepairedAt)
	default:
		fmt.Fprintln(tw, "This task type has no detail")
	}
}

// printHistory prints task history/audit entries
func printHistory(w io.Writer, entries []*fixdesk.AuditEntry, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, entries)
		return
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No history found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TIME\tENTITY\tACTION\tFIELD\tOLD\tNEW\tBY\n")
	fmt.Fprintf(tw, "----\t------\t------\t-----\t---\t---\t--\n")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.ChangedAt.Format("2006-01-02 15:04:05"),
			entry.EntityType,
			entry.Action,
			deref(entry.Field),
			truncate(deref(entry.OldValue), 20),
			truncate(deref(entry.NewValue), 20),
			truncate(entry.ChangedBy, 30))
	}
	tw.Flush()
}

// printAuditList prints an audit query result with pagination info
func printAuditList(w io.Writer, list *fixdesk.AuditList, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{"data": list.Entries, "pagination": paginationJSON(list.Pagination)})
		return
	}
	printHistory(w, list.Entries, false)
	printPageFooter(w, list.Pagination.Page, list.Pagination.TotalPages, list.Pagination.Total, "entries")
}

// printDeviceList prints devices with pagination info
func printDeviceList(w io.Writer, list *fixdesk.DeviceList, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{"data": list.Devices, "pagination": paginationJSON(list.Pagination)})
		return
	}

	if len(list.Devices) == 0 {
		fmt.Fprintln(w, "No devices found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tCODE\tNAME\tSTATUS\tWARRANTY\tLOCATION\n")
	fmt.Fprintf(tw, "--\t----\t----\t------\t--------\t--------\n")
	for _, d := range list.Devices {
		warranty := "no"
		if d.UnderWarranty {
			warranty = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Code, truncate(d.Name, 30), d.Status, warranty,
			location(d.Area, d.Building, d.Floor, d.Room))
	}
	tw.Flush()

	printPageFooter(w, list.Pagination.Page, list.Pagination.TotalPages, list.Pagination.Total, "devices")
}

// printDevice prints a single device
func printDevice(w io.Writer, d *fixdesk.Device, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, d)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", d.ID)
	fmt.Fprintf(tw, "Code:\t%s\n", d.Code)
	fmt.Fprintf(tw, "Name:\t%s\n", d.Name)
	fmt.Fprintf(tw, "Model:\t%s %s\n", d.Manufacturer, d.Model)
	fmt.Fprintf(tw, "Status:\t%s\n", d.Status)
	fmt.Fprintf(tw, "Location:\t%s\n", location(d.Area, d.Building, d.Floor, d.Room))
	if d.UnderWarranty {
		fmt.Fprintf(tw, "Warranty:\tyes\n")
		printTimeField(tw, "Warranty Expires", d.WarrantyExpiresAt)
	}
	tw.Flush()
}

// printPartsPage prints one inventory page
func printPartsPage(w io.Writer, page *dashboard.InventoryPage, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{
			"data": page.Items,
			"pagination": map[string]interface{}{
				"page":        page.Page,
				"per_page":    page.PageSize,
				"total":       page.Total,
				"total_pages": page.TotalPages,
			},
		})
		return
	}

	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No spare parts found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tCATEGORY\tMACHINE\tQTY\tMIN\tSTOCK\tSUPPLIER\n")
	fmt.Fprintf(tw, "--\t----\t--------\t-------\t---\t---\t-----\t--------\n")
	for _, p := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d %s\t%d\t%s\t%s\n",
			p.ID, truncate(p.Name, 30), p.Category, p.MachineType,
			p.Quantity, p.Unit, p.MinThreshold, p.StockLevel(), truncate(p.Supplier, 20))
	}
	tw.Flush()

	printPageFooter(w, page.Page, page.TotalPages, page.Total, "parts")
}

// printPart prints a single spare part
func printPart(w io.Writer, p *fixdesk.SparePart, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, p)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Category:\t%s\n", p.Category)
	fmt.Fprintf(tw, "Machine Type:\t%s\n", p.MachineType)
	fmt.Fprintf(tw, "Quantity:\t%d %s\n", p.Quantity, p.Unit)
	fmt.Fprintf(tw, "Minimum:\t%d\n", p.MinThreshold)
	fmt.Fprintf(tw, "Stock:\t%s\n", p.StockLevel())
	fmt.Fprintf(tw, "Supplier:\t%s\n", p.Supplier)
	fmt.Fprintf(tw, "Price:\t%.2f\n", p.Price)
	tw.Flush()
}

// printSummary prints inventory totals
func printSummary(w io.Writer, s fixdesk.InventorySummary, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, s)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Parts:\t%d\n", s.TotalParts)
	fmt.Fprintf(tw, "Units in stock:\t%d\n", s.TotalStock)
	fmt.Fprintf(tw, "Low stock:\t%d\n", s.LowStockCount)
	fmt.Fprintf(tw, "Out of stock:\t%d\n", s.OutOfStockCount)
	tw.Flush()
}

// printUserList prints users with pagination info
func printUserList(w io.Writer, list *fixdesk.UserList, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{"data": list.Users, "pagination": paginationJSON(list.Pagination)})
		return
	}

	if len(list.Users) == 0 {
		fmt.Fprintln(w, "No users found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tUSERNAME\tNAME\tROLE\tACTIVE\n")
	fmt.Fprintf(tw, "--\t--------\t----\t----\t------\n")
	for _, u := range list.Users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Username, truncate(u.FullName, 30), u.Role, u.Active)
	}
	tw.Flush()

	printPageFooter(w, list.Pagination.Page, list.Pagination.TotalPages, list.Pagination.Total, "users")
}

// printUser prints a single user
func printUser(w io.Writer, u *fixdesk.User, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, u)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "Name:\t%s\n", u.FullName)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	if u.Email != "" {
		fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	}
	if u.Phone != "" {
		fmt.Fprintf(tw, "Phone:\t%s\n", u.Phone)
	}
	tw.Flush()
}

// printWorkingHours prints shifts and holidays
func printWorkingHours(w io.Writer, wh *fixdesk.WorkingHours, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, wh)
		return
	}

	if len(wh.Shifts) == 0 {
		fmt.Fprintln(w, "No shifts configured")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "ID\tSHIFT\tFROM\tTO\tACTIVE\tOFFICE\n")
		fmt.Fprintf(tw, "--\t-----\t----\t--\t------\t------\n")
		for _, s := range wh.Shifts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%t\n", s.ID, s.Name, s.StartTime, s.EndTime, s.Active, s.IsOfficeHour)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	if len(wh.Holidays) == 0 {
		fmt.Fprintln(w, "No holidays configured")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tHOLIDAY\tDATE\tACTIVE\n")
	fmt.Fprintf(tw, "--\t-------\t----\t------\n")
	for _, h := range wh.Holidays {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", h.ID, h.Name, h.Date, h.Active)
	}
	tw.Flush()
}

// printEvent prints one live event
func printEvent(w io.Writer, evt fixdesk.Event, jsonOutput bool) {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.Encode(evt)
		return
	}

	switch evt.Type {
	case fixdesk.EventTaskGroupUpdated:
		fmt.Fprintf(w, "[%s] task group %s updated\n", time.Now().Format("15:04:05"), evt.TaskGroupID)
	case fixdesk.EventNotificationReceived:
		fmt.Fprintf(w, "[%s] notification: %s\n", time.Now().Format("15:04:05"), evt.Message)
	default:
		fmt.Fprintf(w, "[%s] %s\n", time.Now().Format("15:04:05"), evt.Type)
	}
}

// printError prints an error message, with field errors when present
func printError(w io.Writer, err error, jsonOutput bool) {
	fields := fixdesk.FieldErrors(err)
	var formErr formError
	if errors.As(err, &formErr) {
		fields = formErr
	}

	if jsonOutput {
		body := map[string]interface{}{"message": err.Error()}
		if len(fields) > 0 {
			body["fields"] = fields
		}
		printJSON(w, map[string]interface{}{"error": body})
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{
			"message": message,
		})
		return
	}

	fmt.Fprintln(w, message)
}

// priorityString converts a priority int to a human-readable string
func priorityString(priority int) string {
	switch priority {
	case fixdesk.PriorityCritical:
		return "critical"
	case fixdesk.PriorityHigh:
		return "high"
	case fixdesk.PriorityNormal:
		return "normal"
	case fixdesk.PriorityLow:
		return "low"
	case fixdesk.PriorityLowest:
		return "lowest"
	default:
		return strconv.Itoa(priority)
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func deviceLabel(id *string, names map[string]string) string {
	if id == nil {
		return "-"
	}
	if name, ok := names[*id]; ok && name != "" {
		return name
	}
	return *id
}

func location(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "-"
	}
	return strings.Join(kept, " / ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
