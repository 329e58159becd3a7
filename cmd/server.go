package cmd

import (
	"log"

	"github.com/curaious/civicpulse/internal/api"
	"github.com/curaious/civicpulse/internal/config"
	"github.com/curaious/civicpulse/internal/telemetry"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()

		shutdownTelemetry := telemetry.NewProvider(conf.OTEL_EXPORTER_OTLP_ENDPOINT)
		defer shutdownTelemetry()

		s, err := api.New(conf)
		if err != nil {
			log.Fatalln("Unable to start server", err)
		}
		s.Start()
	},
}

// Register the "server" command
func init() {
	rootCmd.AddCommand(serverCmd)
}
