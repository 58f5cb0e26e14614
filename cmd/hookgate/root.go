package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hookgate",
	Short: "Webhook ingestion gateway",
	Long: `hookgate is an HTTP gateway that accepts webhook deliveries, classifies
them by transport metadata, and dispatches provider events downstream.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml, /etc/hookgate/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}
