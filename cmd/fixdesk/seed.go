package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fixdesk/fixdesk/internal/seed"
	"github.com/fixdesk/fixdesk/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed <site> <file.yaml>",
	Short: "Load devices, inventory, users and task groups into a site",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		actor, _ := cmd.Flags().GetString("actor")

		f, err := seed.Load(args[1])
		if err != nil {
			return err
		}

		manager, err := store.NewManager(cfg.Database.Dir)
		if err != nil {
			return fmt.Errorf("open database directory: %w", err)
		}
		defer manager.Close()

		db, err := manager.GetDB(args[0])
		if err != nil {
			return err
		}

		res, err := seed.Apply(cmd.Context(), db, f, actor)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the sites with a database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		manager, err := store.NewManager(cfg.Database.Dir)
		if err != nil {
			return err
		}
		defer manager.Close()

		sites, err := manager.ListSites()
		if err != nil {
			return err
		}
		for _, s := range sites {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(sitesCmd)
	seedCmd.Flags().String("actor", "seed", "Actor recorded in the audit log")
}
