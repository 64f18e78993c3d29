package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

//go:generate swag init -g cmd/import-service/main.go -d ../../ -o ../../internal/importer/docs --outputTypes go,json

// @title Stock Importer API
// @version 1.0
// @description CSV import of daily stock prices and news.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "import-service", SilenceUsage: true}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-importer.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, importCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing import-service CLI: %s\n", err)
		os.Exit(1)
	}
}
