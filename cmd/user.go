package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/curaious/civicpulse/internal/config"
	"github.com/curaious/civicpulse/internal/db"
	"github.com/curaious/civicpulse/internal/services/user"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts and roles",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(cmd.Help())
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account with any role",
	Run: func(cmd *cobra.Command, args []string) {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")
		superuser, _ := cmd.Flags().GetBool("superuser")

		conn := db.NewConn(config.ReadConfig())
		defer conn.Close()

		svc := user.NewUserService(user.NewUserRepo(conn))
		u, err := svc.CreateUser(context.Background(), username, email, password, user.Role(strings.ToUpper(role)), superuser)
		if err != nil {
			fmt.Println("Unable to create user", err)
			os.Exit(1)
		}

		fmt.Printf("Created user %s (id %d, role %s)\n", u.Username, u.ID, u.Role)
	},
}

var userSetRoleCmd = &cobra.Command{
	Use:   "set-role",
	Short: "Change the role of an existing account",
	Run: func(cmd *cobra.Command, args []string) {
		username, _ := cmd.Flags().GetString("username")
		role, _ := cmd.Flags().GetString("role")
		staff, _ := cmd.Flags().GetBool("staff")

		conn := db.NewConn(config.ReadConfig())
		defer conn.Close()

		svc := user.NewUserService(user.NewUserRepo(conn))
		u, err := svc.SetRole(context.Background(), username, user.Role(strings.ToUpper(role)), staff)
		if err != nil {
			fmt.Println("Unable to set role", err)
			os.Exit(1)
		}

		fmt.Printf("User %s is now %s\n", u.Username, u.Role)
	},
}

// Register the "user" command
func init() {
	userCreateCmd.Flags().StringP("username", "u", "", "Username")
	userCreateCmd.Flags().StringP("email", "e", "", "Email address")
	userCreateCmd.Flags().StringP("password", "p", "", "Password")
	userCreateCmd.Flags().StringP("role", "r", string(user.RoleCitizen), "ADMIN, OFFICIAL or CITIZEN")
	userCreateCmd.Flags().Bool("superuser", false, "Grant staff and superuser flags")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)

	userSetRoleCmd.Flags().StringP("username", "u", "", "Username")
	userSetRoleCmd.Flags().StringP("role", "r", "", "ADMIN, OFFICIAL or CITIZEN")
	userSetRoleCmd.Flags().Bool("staff", false, "Set the staff flag")
	_ = userSetRoleCmd.MarkFlagRequired("username")
	_ = userSetRoleCmd.MarkFlagRequired("role")
	userCmd.AddCommand(userSetRoleCmd)

	rootCmd.AddCommand(userCmd)
}
