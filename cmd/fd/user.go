package main

import (
	"context"
	"os"

	"github.com/fixdesk/fixdesk/pkg/dashboard"
	"github.com/fixdesk/fixdesk/pkg/fixdesk"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Manage dashboard accounts",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Run: func(cmd *cobra.Command, args []string) {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		role, _ := cmd.Flags().GetString("role")

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		list, err := c.ListUsers(context.Background(), fixdesk.UserFilter{
			ListOptions: fixdesk.ListOptions{Page: page, PerPage: perPage},
			Role:        fixdesk.Role(role),
		})
		if err != nil {
			handleError(err)
		}

		printUserList(os.Stdout, list, jsonOutput)
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		u, err := c.GetUser(context.Background(), args[0])
		if err != nil {
			handleError(err)
		}

		printUser(os.Stdout, u, jsonOutput)
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user",
	Long: `Create a dashboard account. The password may also be given in the
FIXDESK_PASSWORD environment variable. Passwords need at least 8
characters with an upper-case letter, a lower-case letter and a digit.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := newUserFromFlags(cmd, args[0])
		if errs := dashboard.ValidateNewUser(in); len(errs) > 0 {
			handleError(formError(errs))
		}

		c, err := getClient()
		if err != nil {
			handleError(err)
		}

		u, err := c.CreateUser(context.Background(), in)
		if err != nil {
			handleError(err)
		}

		printUser(os.Stdout, u, jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd, userShowCmd, userCreateCmd)

	userListCmd.Flags().Int("page", 1, "Page number")
	userListCmd.Flags().Int("per-page", 20, "Items per page")
	userListCmd.Flags().String("role", "", "Filter by role")

	userCreateCmd.Flags().String("name", "", "Full name")
	userCreateCmd.Flags().String("email", "", "Email address")
	userCreateCmd.Flags().String("phone", "", "Phone number")
	userCreateCmd.Flags().String("role", string(fixdesk.RoleStaff), "Role (admin, manager, technician, staff)")
	userCreateCmd.Flags().String("password", "", "Initial password")
}

func newUserFromFlags(cmd *cobra.Command, username string) fixdesk.NewUser {
	flags := cmd.Flags()
	name, _ := flags.GetString("name")
	email, _ := flags.GetString("email")
	phone, _ := flags.GetString("phone")
	role, _ := flags.GetString("role")
	password, _ := flags.GetString("password")
	if password == "" {
		password = os.Getenv("FIXDESK_PASSWORD")
	}

	return fixdesk.NewUser{
		Username: username,
		FullName: name,
		Email:    email,
		Phone:    phone,
		Role:     fixdesk.Role(role),
		Password: password,
	}
}
