package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:     "device",
	Aliases: []string{"devices"},
	Short:   "Work with devices",
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List devices",
	Run: func(cmd *cobra.Command, args []string) {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		status, _ := cmd.Flags().GetString("status")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		list, err := c.ListDevices(context.Background(), fixdesk.DeviceFilter{
			ListOptions: fixdesk.ListOptions{Page: page, PerPage: perPage},
			Status:      fixdesk.DeviceStatus(status),
		})
		if err != nil {
			handleError(err)
		}

		printDeviceList(os.Stdout, list, jsonOutput)
	},
}

var deviceShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a device",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		d, err := c.GetDevice(context.Background(), args[0])
		if err != nil {
			handleError(err)
		}

		printDevice(os.Stdout, d, jsonOutput)
	},
}

var deviceReplaceCmd = &cobra.Command{
	Use:   "replace <id> <new-id>",
	Short: "Plan the replacement of a device",
	Long: `Create a replacement task group for a device. The group holds suggested
tasks to uninstall the old device, install the new one and send the old
one to warranty or repair. The new device must be available.

Run 'fd group apply <group-id>' to turn the suggestions into pending work.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		reason, _ := cmd.Flags().GetString("reason")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		group, err := c.ReplaceDevice(context.Background(), args[0], args[1], reason)
		if err != nil {
			handleError(err)
		}

		if jsonOutput {
			printJSON(os.Stdout, group)
			return
		}
		printSuccess(os.Stdout, fmt.Sprintf("Created replacement group %s", group.ID), false)
		fmt.Fprintln(os.Stdout)
		printTaskTable(os.Stdout, group.Tasks)
	},
}

var deviceConfirmCmd = &cobra.Command{
	Use:   "confirm <id>",
	Short: "Confirm a returned device is available again",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		d, err := c.ConfirmAvailability(context.Background(), args[0])
		if err != nil {
			handleError(err)
		}

		printDevice(os.Stdout, d, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(deviceCmd)
	deviceCmd.AddCommand(deviceListCmd, deviceShowCmd, deviceReplaceCmd, deviceConfirmCmd)

	deviceListCmd.Flags().Int("page", 1, "Page number")
	deviceListCmd.Flags().Int("per-page", 20, "Items per page")
	deviceListCmd.Flags().String("status", "", "Filter by status (active, available, in_repair, in_warranty, decommissioned)")

	deviceReplaceCmd.Flags().String("reason", "", "Why the device is replaced")
}
