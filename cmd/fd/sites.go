package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the sites known to the server",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		sites, err := c.ListSites(context.Background())
		if err != nil {
			handleError(err)
		}

		if jsonOutput {
			printJSON(os.Stdout, sites)
			return
		}
		if len(sites) == 0 {
			fmt.Fprintln(os.Stdout, "No sites found")
			return
		}
		for _, s := range sites {
			marker := " "
			if s == c.Site() {
				marker = "*"
			}
			fmt.Fprintf(os.Stdout, "%s %s\n", marker, s)
		}
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the server is reachable",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		if err := c.Health(context.Background()); err != nil {
			handleError(err)
		}
		status, err := c.Status(context.Background())
		if err != nil {
			handleError(err)
		}

		if jsonOutput {
			printJSON(os.Stdout, status)
			return
		}
		printSuccess(os.Stdout, fmt.Sprintf("Server is up (site %s, actor %s)", c.Site(), c.Actor()), false)
		fmt.Fprintf(os.Stdout, "  sites: %d, live subscribers: %d, hand-off: %s\n",
			status.Sites, status.LiveSubscribers, status.Handoff)
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd, pingCmd)
}
