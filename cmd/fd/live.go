package main

import (
	"context"
	"io"
	"os"

	"github.com/fixdesk/fixdesk/internal/identity"
	"github.com/fixdesk/fixdesk/pkg/fixdesk"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify <message>",
	Short: "Broadcast a notification to the site",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		roles, _ := cmd.Flags().GetStringSlice("role")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		targets := make([]fixdesk.Role, 0, len(roles))
		for _, r := range roles {
			targets = append(targets, fixdesk.Role(r))
		}
		evt, err := c.Notify(context.Background(), args[0], targets...)
		if err != nil {
			handleError(err)
		}

		printEvent(os.Stdout, *evt, jsonOutput)
	},
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print live events for the site until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		role, _ := cmd.Flags().GetString("role")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		ctx, stop := commandContext()
		defer stop()
		if err := runListen(ctx, c, os.Stdout, fixdesk.Role(role)); err != nil && ctx.Err() == nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd, listenCmd)

	notifyCmd.Flags().StringSlice("role", nil, "Only deliver to these roles")
	listenCmd.Flags().String("role", string(fixdesk.RoleStaff), "Role to subscribe as")
}

func runListen(ctx context.Context, c *fixdesk.Client, w io.Writer, role fixdesk.Role) error {
	sub, err := c.Subscribe(ctx, identity.SessionToken(), role)
	if err != nil {
		return err
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-sub.Events():
			if !ok {
				return sub.Err()
			}
			printEvent(w, evt, jsonOutput)
		}
	}
}
