package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Search the site's audit log",
	Run: func(cmd *cobra.Command, args []string) {
		query, err := auditQueryFromFlags(cmd)
		if err != nil {
			handleError(err)
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		list, err := c.QueryAuditLog(context.Background(), query)
		if err != nil {
			handleError(err)
		}

		printAuditList(os.Stdout, list, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().String("entity", "", "Entity type (task, task_group, device, spare_part, user)")
	auditCmd.Flags().String("action", "", "Action (create, update, delete, status, apply_suggested, confirm, replace, import)")
	auditCmd.Flags().String("actor", "", "Who made the change")
	auditCmd.Flags().Duration("since", 0, "Only changes newer than this, e.g. 24h")
	auditCmd.Flags().Int("page", 1, "Page number")
	auditCmd.Flags().Int("per-page", 50, "Items per page")
}

func auditQueryFromFlags(cmd *cobra.Command) (fixdesk.AuditQuery, error) {
	flags := cmd.Flags()
	page, _ := flags.GetInt("page")
	perPage, _ := flags.GetInt("per-page")
	entity, _ := flags.GetString("entity")
	action, _ := flags.GetString("action")
	actor, _ := flags.GetString("actor")
	since, _ := flags.GetDuration("since")

	q := fixdesk.AuditQuery{
		ListOptions: fixdesk.ListOptions{Page: page, PerPage: perPage},
		EntityType:  entity,
		Action:      action,
		ChangedBy:   actor,
	}
	if since < 0 {
		return q, fmt.Errorf("--since must be positive")
	}
	if since > 0 {
		start := time.Now().Add(-since)
		q.Start = &start
	}
	return q, nil
}
