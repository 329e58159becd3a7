package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/curaious/civicpulse/internal/config"
	"github.com/curaious/civicpulse/internal/db"
	"github.com/curaious/civicpulse/internal/services/project"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo projects (skips titles that already exist)",
	Run: func(cmd *cobra.Command, args []string) {
		conn := db.NewConn(config.ReadConfig())
		defer conn.Close()

		svc := project.NewProjectService(project.NewProjectRepo(conn))
		created, skipped, err := svc.SeedDemo(context.Background())
		if err != nil {
			fmt.Println("Unable to seed projects", err)
			os.Exit(1)
		}

		fmt.Printf("Seed complete. Created: %d, Skipped (already existed): %d\n", created, skipped)
	},
}

// Register the "seed" command
func init() {
	rootCmd.AddCommand(seedCmd)
}
