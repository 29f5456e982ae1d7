package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fixdesk/fixdesk/pkg/dashboard"
	"github.com/fixdesk/fixdesk/pkg/fixdesk"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Work with individual tasks",
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task and its type-specific detail",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := runTaskShow(context.Background(), c, os.Stdout, args[0]); err != nil {
			handleError(err)
		}
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change a task's status",
	Long: `Change a task's status. Allowed moves:

  suggested   -> pending, rejected, cancelled
  pending     -> in_progress, delayed, rejected, cancelled
  in_progress -> completed, delayed, rejected
  delayed     -> pending, in_progress, cancelled`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		status, err := parseStatus(args[1])
		if err != nil {
			handleError(err)
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.UpdateTask(context.Background(), args[0], fixdesk.WithStatus(status))
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task's fields",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := taskUpdateOptions(cmd)
		if err != nil {
			handleError(err)
		}
		if len(opts) == 0 {
			handleError(fmt.Errorf("nothing to update"))
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		task, err := c.UpdateTask(context.Background(), args[0], opts...)
		if err != nil {
			handleError(err)
		}

		printTask(os.Stdout, task, jsonOutput)
	},
}

var taskHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show a task's change history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		entries, err := c.GetTaskHistory(context.Background(), args[0])
		if err != nil {
			handleError(err)
		}

		printHistory(os.Stdout, entries, jsonOutput)
	},
}

var taskDetailCmd = &cobra.Command{
	Use:   "set-detail <id> <file>",
	Short: "Replace a task's detail from a JSON file",
	Long: `Replace the installation, warranty or repair detail of a task. The
file holds the detail as JSON; use - to read standard input. The task's
type decides which detail is written.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		r := io.Reader(os.Stdin)
		if args[1] != "-" {
			f, err := os.Open(args[1])
			if err != nil {
				handleError(err)
			}
			defer f.Close()
			r = f
		}

		if err := runSetDetail(context.Background(), c, os.Stdout, args[0], r); err != nil {
			handleError(err)
		}
	},
}

var taskConfirmWarrantyCmd = &cobra.Command{
	Use:   "confirm-warranty <id>",
	Short: "Confirm a warranty claim",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		d, err := c.ConfirmWarranty(context.Background(), args[0])
		if err != nil {
			handleError(err)
		}

		printDetail(os.Stdout, dashboard.Detail{Kind: fixdesk.DetailWarranty, Warranty: d}, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskShowCmd, taskStatusCmd, taskUpdateCmd, taskHistoryCmd, taskDetailCmd, taskConfirmWarrantyCmd)

	addTaskUpdateFlags(taskUpdateCmd)
}

func addTaskUpdateFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Task name")
	cmd.Flags().String("description", "", "Task description")
	cmd.Flags().StringP("priority", "p", "", "Priority (0-4 or critical/high/normal/low/lowest)")
	cmd.Flags().String("assignee", "", "Assignee name")
	cmd.Flags().Int("order", 0, "Order index within the group")
	cmd.Flags().String("expected", "", "Expected completion time (RFC3339)")
}

// taskUpdateOptions turns the changed flags of taskUpdateCmd into update options
func taskUpdateOptions(cmd *cobra.Command) ([]fixdesk.UpdateTaskOption, error) {
	var opts []fixdesk.UpdateTaskOption
	flags := cmd.Flags()

	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		opts = append(opts, fixdesk.WithName(v))
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		opts = append(opts, fixdesk.WithDescription(v))
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := parsePriority(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fixdesk.WithPriority(p))
	}
	if flags.Changed("assignee") {
		v, _ := flags.GetString("assignee")
		opts = append(opts, fixdesk.WithAssignee(v))
	}
	if flags.Changed("order") {
		v, _ := flags.GetInt("order")
		opts = append(opts, fixdesk.WithOrderIndex(v))
	}
	if flags.Changed("expected") {
		v, _ := flags.GetString("expected")
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid --expected: %w", err)
		}
		opts = append(opts, fixdesk.WithSchedule(nil, &t, nil))
	}
	return opts, nil
}

// runTaskShow prints a task and, for typed tasks, its detail. The detail
// is read through the task's group page so it is dispatched by task type.
func runTaskShow(ctx context.Context, c *fixdesk.Client, w io.Writer, taskID string) error {
	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	page := dashboard.NewTaskGroupPage(c, task.TaskGroupID, dashboard.WithLogger(quietLogger))
	defer page.Close()
	if _, err := page.LoadTaskGroup(ctx); err != nil {
		return err
	}
	if err := page.SelectTask(ctx, taskID); err != nil && !fixdesk.IsDetailNotFound(err) {
		return err
	}
	detail := page.State().Selected

	if jsonOutput {
		out := map[string]interface{}{"task": task}
		switch detail.Kind {
		case fixdesk.DetailInstallation:
			out["detail"] = detail.Installation
		case fixdesk.DetailWarranty:
			out["detail"] = detail.Warranty
		case fixdesk.DetailRepair:
			out["detail"] = detail.Repair
		}
		printJSON(w, out)
		return nil
	}

	printTask(w, task, false)
	if !detail.IsZero() {
		fmt.Fprintf(w, "\n%s detail:\n", detail.Kind)
		printDetail(w, detail, false)
	}
	return nil
}

// runSetDetail decodes r according to the task's detail kind and writes it
func runSetDetail(ctx context.Context, c *fixdesk.Client, w io.Writer, taskID string, r io.Reader) error {
	task, err := c.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(r)
	var detail dashboard.Detail
	switch kind := task.Type.DetailKind(); kind {
	case fixdesk.DetailInstallation:
		var in fixdesk.InstallTaskDetail
		if err := dec.Decode(&in); err != nil {
			return fmt.Errorf("invalid installation detail: %w", err)
		}
		in.TaskID = taskID
		out, err := c.PutInstallationDetail(ctx, &in)
		if err != nil {
			return err
		}
		detail = dashboard.Detail{Kind: kind, Installation: out}
	case fixdesk.DetailWarranty:
		var in fixdesk.WarrantyTaskDetail
		if err := dec.Decode(&in); err != nil {
			return fmt.Errorf("invalid warranty detail: %w", err)
		}
		in.TaskID = taskID
		out, err := c.PutWarrantyDetail(ctx, &in)
		if err != nil {
			return err
		}
		detail = dashboard.Detail{Kind: kind, Warranty: out}
	case fixdesk.DetailRepair:
		var in fixdesk.RepairTaskDetail
		if err := dec.Decode(&in); err != nil {
			return fmt.Errorf("invalid repair detail: %w", err)
		}
		in.TaskID = taskID
		out, err := c.PutRepairDetail(ctx, &in)
		if err != nil {
			return err
		}
		detail = dashboard.Detail{Kind: kind, Repair: out}
	default:
		return fmt.Errorf("task %s (%s) has no detail", taskID, task.Type)
	}

	printDetail(w, detail, jsonOutput)
	return nil
}
