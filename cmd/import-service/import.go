package main

import (
	"encoding/json"
	"fmt"
	"os"

	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/pkg/textenc"

	"github.com/spf13/cobra"
)

var (
	importStrategy string
	importDateFrom string
	importDateTo   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Imports a local CSV file",
}

var importPricesCmd = &cobra.Command{
	Use:   "prices <stock-code> <file>",
	Short: "Imports daily prices for a stock",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args, func(a *app, text string) (*pipeline.Result, error) {
			return a.priceService.ImportFromCSV(cmd.Context(), args[0], text, pipeline.DuplicateStrategy(importStrategy))
		})
	},
}

var importNewsCmd = &cobra.Command{
	Use:   "news <stock-code> <file>",
	Short: "Imports news for a stock",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args, func(a *app, text string) (*pipeline.Result, error) {
			return a.newsService.ImportFromCSV(cmd.Context(), args[0], text, pipeline.Options{
				DuplicateStrategy: pipeline.DuplicateStrategy(importStrategy),
				DateFrom:          importDateFrom,
				DateTo:            importDateTo,
			})
		})
	},
}

func runImport(cmd *cobra.Command, args []string, run func(a *app, text string) (*pipeline.Result, error)) error {
	raw, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}
	text, err := textenc.DecodeCSV(raw)
	if err != nil {
		return err
	}

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := run(a, text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func init() {
	importCmd.PersistentFlags().StringVar(&importStrategy, "duplicate-strategy", "skip", "skip or overwrite")
	importNewsCmd.Flags().StringVar(&importDateFrom, "date-from", "", "Only import news published on or after YYYY-MM-DD")
	importNewsCmd.Flags().StringVar(&importDateTo, "date-to", "", "Only import news published on or before YYYY-MM-DD")
	importCmd.AddCommand(importPricesCmd, importNewsCmd)
}
