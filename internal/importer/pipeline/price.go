package pipeline

import (
	"fmt"
	"regexp"
	"time"

	"golang-stock-importer/pkg/utils"

	"github.com/shopspring/decimal"
)

// PriceHeader is the exact header of a price CSV: date, open, high, low,
// close, volume.
var PriceHeader = []string{"日付", "始値", "高値", "安値", "終値", "出来高"}

// PriceRow is one parsed line of a price CSV.
type PriceRow struct {
	Date string
	// TradeDate is Date at midnight UTC. It is only meaningful when
	// dateValid is set.
	TradeDate time.Time
	dateValid bool
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

var (
	dateFormat   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	minDate      = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	maxVolume    = decimal.New(1, 12)
	maxSwingRate = decimal.NewFromFloat(0.5)
	two          = decimal.NewFromInt(2)
)

// NewPriceSchema returns the schema for daily OHLCV price files. Any
// non-numeric price or volume aborts the import.
func NewPriceSchema(settings Settings) *Schema[PriceRow] {
	settings = settings.withDefaults()
	return &Schema[PriceRow]{
		Name:     "price",
		IDPrefix: "import",
		Header:   PriceHeader,
		Split:    SplitPlain,
		ParseRow: parsePriceRow,
		Validate: func(row PriceRow) string {
			return validatePriceRow(row, settings.Now().In(settings.Location))
		},
		Key: func(row PriceRow) map[string]string {
			return map[string]string{"date": row.Date}
		},
	}
}

func parsePriceRow(fields []string, _ int) (PriceRow, error) {
	row := PriceRow{Date: fields[0]}
	if row.Date == "" {
		return row, fmt.Errorf("date is empty")
	}
	if t, err := time.ParseInLocation(utils.DateLayout, row.Date, time.UTC); err == nil {
		row.TradeDate = t
		row.dateValid = true
	}

	targets := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"open price", &row.Open},
		{"high price", &row.High},
		{"low price", &row.Low},
		{"close price", &row.Close},
		{"volume", &row.Volume},
	}
	for i, target := range targets {
		value, err := decimal.NewFromString(fields[i+1])
		if err != nil {
			return row, fmt.Errorf("%s is not numeric: %s", target.name, fields[i+1])
		}
		*target.dst = value
	}
	return row, nil
}

// validatePriceRow checks date, positivity, OHLC ordering, swing and volume,
// in that order, and returns the first failure.
func validatePriceRow(row PriceRow, now time.Time) string {
	if !dateFormat.MatchString(row.Date) {
		return "invalid date format (expected YYYY-MM-DD): " + row.Date
	}
	if !row.dateValid {
		return "invalid date: " + row.Date
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if row.TradeDate.After(today) {
		return "future dates are not allowed: " + row.Date
	}
	if row.TradeDate.Before(minDate) {
		return "dates before 1900-01-01 are not allowed: " + row.Date
	}

	for _, p := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"open", row.Open},
		{"high", row.High},
		{"low", row.Low},
		{"close", row.Close},
	} {
		if !p.value.IsPositive() {
			return fmt.Sprintf("%s price must be positive", p.name)
		}
	}

	switch {
	case row.High.LessThan(row.Low):
		return "high price is below low price"
	case row.High.LessThan(row.Open):
		return "high price is below open price"
	case row.High.LessThan(row.Close):
		return "high price is below close price"
	case row.Low.GreaterThan(row.Open):
		return "low price is above open price"
	case row.Low.GreaterThan(row.Close):
		return "low price is above close price"
	}

	highest := decimal.Max(row.Open, row.High, row.Low, row.Close)
	lowest := decimal.Min(row.Open, row.High, row.Low, row.Close)
	average := highest.Add(lowest).Div(two)
	if highest.Sub(lowest).GreaterThan(average.Mul(maxSwingRate)) {
		return "daily price range is abnormally large, check the data"
	}

	switch {
	case row.Volume.IsNegative():
		return "volume must not be negative"
	case !row.Volume.IsInteger():
		return "volume must be an integer"
	case row.Volume.GreaterThan(maxVolume):
		return "volume is abnormally large, check the data"
	}
	return ""
}
