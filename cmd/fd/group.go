package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fixdesk/fixdesk/internal/config"
	"github.com/fixdesk/fixdesk/internal/identity"
	"github.com/fixdesk/fixdesk/pkg/dashboard"
	"github.com/fixdesk/fixdesk/pkg/fixdesk"
	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:     "group",
	Aliases: []string{"groups"},
	Short:   "Work with task groups",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List task groups",
	Run: func(cmd *cobra.Command, args []string) {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		groupType, _ := cmd.Flags().GetString("type")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		list, err := c.ListTaskGroups(context.Background(), fixdesk.TaskGroupFilter{
			ListOptions: fixdesk.ListOptions{Page: page, PerPage: perPage},
			Type:        fixdesk.GroupType(groupType),
		})
		if err != nil {
			handleError(err)
		}

		printGroupList(os.Stdout, list, jsonOutput)
	},
}

var groupShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task group with its tasks and installations",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := runGroupShow(context.Background(), c, os.Stdout, args[0]); err != nil {
			handleError(err)
		}
	},
}

var groupApplyCmd = &cobra.Command{
	Use:   "apply <id>",
	Short: "Move every suggested task of a group to pending",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := runGroupApply(context.Background(), c, os.Stdout, args[0]); err != nil {
			handleError(err)
		}
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task group and its tasks",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := c.DeleteTaskGroup(context.Background(), args[0]); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Deleted task group %s", args[0]), jsonOutput)
	},
}

var groupWatchCmd = &cobra.Command{
	Use:   "watch <id>",
	Short: "Show a task group and reprint it on live updates",
	Long: `Subscribe to the site's live channel and reprint the group whenever it
changes. NotificationReceived events also trigger a reload unless
[live] refresh_on_notification = false is set in ~/.fixdesk/config.toml.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		role, _ := cmd.Flags().GetString("role")

		cfg, err := resolveConfig()
		if err != nil {
			handleError(err)
		}
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		ctx, stop := commandContext()
		defer stop()
		if err := runGroupWatch(ctx, c, cfg, os.Stdout, args[0], fixdesk.Role(role)); err != nil && ctx.Err() == nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupListCmd, groupShowCmd, groupApplyCmd, groupDeleteCmd, groupWatchCmd)

	groupListCmd.Flags().Int("page", 1, "Page number")
	groupListCmd.Flags().Int("per-page", 20, "Items per page")
	groupListCmd.Flags().String("type", "", "Filter by group type")

	groupWatchCmd.Flags().String("role", string(fixdesk.RoleStaff), "Role to subscribe as")
}

// loadPage opens a task group page and loads the group with its
// installation details.
func loadPage(ctx context.Context, c *fixdesk.Client, groupID string) (*dashboard.TaskGroupPage, error) {
	page := dashboard.NewTaskGroupPage(c, groupID, dashboard.WithLogger(quietLogger))
	if err := page.Refresh(ctx); err != nil {
		page.Close()
		return nil, err
	}
	if st := page.State(); st.Err != nil {
		page.Close()
		return nil, st.Err
	}
	return page, nil
}

func runGroupShow(ctx context.Context, c *fixdesk.Client, w io.Writer, groupID string) error {
	page, err := loadPage(ctx, c, groupID)
	if err != nil {
		return err
	}
	defer page.Close()

	printGroupState(w, page.State(), page.Notices(), jsonOutput)
	return nil
}

func runGroupApply(ctx context.Context, c *fixdesk.Client, w io.Writer, groupID string) error {
	page, err := loadPage(ctx, c, groupID)
	if err != nil {
		return err
	}
	defer page.Close()

	n := len(page.SuggestedTasks())
	if err := page.ApplySuggested(ctx); err != nil {
		return err
	}

	printSuccess(w, fmt.Sprintf("Moved %d suggested task(s) to pending", n), jsonOutput)
	printGroupState(w, page.State(), nil, jsonOutput)
	return nil
}

func runGroupWatch(ctx context.Context, c *fixdesk.Client, cfg *config.ResolvedConfig, w io.Writer, groupID string, role fixdesk.Role) error {
	page, err := loadPage(ctx, c, groupID)
	if err != nil {
		return err
	}
	defer page.Close()
	printGroupState(w, page.State(), page.Notices(), jsonOutput)

	sub, err := c.Subscribe(ctx, identity.SessionToken(), role)
	if err != nil {
		return err
	}
	defer sub.Close()

	live := dashboard.NewLiveRefresher(page, dashboard.WithNotificationRefresh(cfg.RefreshOnNotification))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-sub.Events():
			if !ok {
				return sub.Err()
			}
			if evt.Type == fixdesk.EventNotificationReceived {
				printEvent(w, evt, jsonOutput)
			}
			if !live.Handle(ctx, evt) {
				continue
			}
			st := page.State()
			if st.Group == nil {
				printError(w, fmt.Errorf("reload of %s failed: %w", groupID, st.Err), jsonOutput)
				continue
			}
			printGroupState(w, st, nil, jsonOutput)
		}
	}
}
