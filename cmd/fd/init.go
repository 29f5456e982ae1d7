package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fixdesk/fixdesk/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <site>",
	Short: "Pin this directory to a site",
	Long: `Create an fd.toml file in the current directory.

Commands run from this directory or below it operate on the named site
unless --site says otherwise.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			handleError(err)
		}

		path, err := runInit(cwd, args[0])
		if err != nil {
			handleError(err)
		}

		printSuccess(os.Stdout, fmt.Sprintf("Created %s for site '%s'", path, args[0]), jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// runInit writes fd.toml into dir
func runInit(dir, site string) (string, error) {
	if site == "" {
		return "", errors.New("site name is required")
	}
	return config.WriteWorkspaceConfig(dir, site)
}
