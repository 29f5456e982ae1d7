package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fd",
	Short: "Fixdesk maintenance CLI",
	Long: `A CLI for the Fixdesk maintenance dashboard.

The site, actor and server come from ~/.fixdesk/config.toml, then the
nearest fd.toml, then the flags below.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Global flags
var (
	jsonOutput bool
	siteFlag   string
	actorFlag  string
	hostFlag   string
	portFlag   int
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&siteFlag, "site", "", "Site to operate on")
	rootCmd.PersistentFlags().StringVar(&actorFlag, "actor", "", "Name recorded in the audit log")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Server host")
	rootCmd.PersistentFlags().IntVar(&portFlag, "port", 0, "Server port")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		handleError(err)
	}
}
