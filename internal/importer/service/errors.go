package service

import (
	"errors"
	"strings"
	"time"

	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/pkg/utils"
)

var (
	// ErrStockCodeDuplicate is returned by Create when the code is taken.
	ErrStockCodeDuplicate = errors.New("stock code already exists")
	// ErrStockNotFound is returned by lookups by numeric id.
	ErrStockNotFound = errors.New("stock not found")
	// ErrNoData is returned by list queries that match nothing.
	ErrNoData = errors.New("no data found")
)

// NormalizeCode trims and upper-cases a stock code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func parseQueryDate(option, value string, loc *time.Location) (*time.Time, error) {
	t, err := utils.ParseOptionalDate(value, loc)
	if err != nil {
		return nil, &pipeline.OptionError{Option: option, Value: value, Reason: "expected YYYY-MM-DD"}
	}
	return t, nil
}
