package main

import (
	"errors"

	"golang-stock-importer/internal/importer/dto"
	"golang-stock-importer/internal/importer/service"
	"golang-stock-importer/pkg/logger"

	"github.com/spf13/cobra"
)

var seedStocks = []dto.CreateStockRequest{
	{Code: "7203", Name: "トヨタ自動車"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Creates the sample stocks when absent",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.close()

		for i := range seedStocks {
			_, err := a.stockService.Create(cmd.Context(), &seedStocks[i])
			if errors.Is(err, service.ErrStockCodeDuplicate) {
				a.logger.Info("Stock already present", logger.StringField("stock_code", seedStocks[i].Code))
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	},
}
