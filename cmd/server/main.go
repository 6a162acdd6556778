package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"farmops/config"
)

var rootCmd = &cobra.Command{
	Use:   "farmops",
	Short: "farmops - grow cycle stage engine",
	Long:  `Serves the grow cycle dashboard API: current day, active stage, stage edits and deployment of the running stage to rack controllers.`,
	RunE:  runServe,
}

var (
	cfg        config.AppConfig
	listenPort string
)

func init() {
	cobra.OnInitialize(func() { cfg = config.Load() })
	rootCmd.PersistentFlags().StringVar(&listenPort, "port", "", "HTTP port (overrides PORT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(templatesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
