package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
	"github.com/spf13/cobra"
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Show and edit shifts and holidays",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		wh, err := c.WorkingHours(context.Background())
		if err != nil {
			handleError(err)
		}

		printWorkingHours(os.Stdout, wh, jsonOutput)
	},
}

var hoursOfficeCmd = &cobra.Command{
	Use:   "office",
	Short: "Show the office-hour shifts",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		shifts, err := c.OfficeHours(context.Background())
		if err != nil {
			handleError(err)
		}

		printWorkingHours(os.Stdout, &fixdesk.WorkingHours{Shifts: shifts}, jsonOutput)
	},
}

var shiftSetCmd = &cobra.Command{
	Use:   "shift <name> <start> <end>",
	Short: "Add a shift, or replace one with --id",
	Long: `Add a shift running from start to end (HH:MM). With --id the existing
shift is replaced instead.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		id, _ := cmd.Flags().GetString("id")
		office, _ := cmd.Flags().GetBool("office")
		inactive, _ := cmd.Flags().GetBool("inactive")

		active := !inactive
		in := fixdesk.ShiftInput{
			Name:         args[0],
			StartTime:    args[1],
			EndTime:      args[2],
			Active:       &active,
			IsOfficeHour: office,
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		var shift *fixdesk.Shift
		if id == "" {
			shift, err = c.CreateShift(context.Background(), in)
		} else {
			shift, err = c.UpdateShift(context.Background(), id, in)
		}
		if err != nil {
			handleError(err)
		}

		printWorkingHours(os.Stdout, &fixdesk.WorkingHours{Shifts: []*fixdesk.Shift{shift}}, jsonOutput)
	},
}

var holidayAddCmd = &cobra.Command{
	Use:   "holiday <name> <date>",
	Short: "Add a holiday (date as YYYY-MM-DD)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		h, err := c.CreateHoliday(context.Background(), fixdesk.HolidayInput{Name: args[0], Date: args[1]})
		if err != nil {
			handleError(err)
		}

		printWorkingHours(os.Stdout, &fixdesk.WorkingHours{Holidays: []*fixdesk.Holiday{h}}, jsonOutput)
	},
}

var holidayRemoveCmd = &cobra.Command{
	Use:   "rm-holiday <id>",
	Short: "Remove a holiday",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := c.DeleteHoliday(context.Background(), args[0]); err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Removed holiday %s", args[0]), jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(hoursCmd)
	hoursCmd.AddCommand(hoursOfficeCmd, shiftSetCmd, holidayAddCmd, holidayRemoveCmd)

	shiftSetCmd.Flags().String("id", "", "Shift to replace")
	shiftSetCmd.Flags().Bool("office", false, "Mark as an office-hour shift")
	shiftSetCmd.Flags().Bool("inactive", false, "Create the shift inactive")
}
