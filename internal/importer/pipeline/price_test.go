package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{Location: time.UTC, Now: func() time.Time { return fixedNow }}
}

func priceRow(date, open, high, low, close, volume string) PriceRow {
	row, err := parsePriceRow([]string{date, open, high, low, close, volume}, 2)
	if err != nil {
		panic(err)
	}
	return row
}

func TestPriceSchemaParse(t *testing.T) {
	schema := NewPriceSchema(testSettings())
	text := "日付,始値,高値,安値,終値,出来高\r\n2024-01-15, 150.5 ,153.0,149.8,152.3,15000000\r\n\r\n2024-01-16,152.3,154.0,151.0,153.5,12000000\r\n"

	records, err := schema.Parse(text)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, 3, records[1].Row)
	assert.True(t, records[0].Data.Open.Equal(decimal.RequireFromString("150.5")))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), records[0].Data.TradeDate)
	assert.Equal(t, int64(15000000), records[0].Data.Volume.IntPart())
}

func TestPriceSchemaHeaderOnlyIsEmptyImport(t *testing.T) {
	records, err := NewPriceSchema(testSettings()).Parse("日付,始値,高値,安値,終値,出来高\n")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPriceSchemaParseFailuresAreFatal(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		message string
	}{
		{"non numeric open", "2024-01-16,abc,154.0,151.0,153.5,100", "row 3: open price is not numeric: abc"},
		{"non numeric volume", "2024-01-16,152.3,154.0,151.0,153.5,many", "row 3: volume is not numeric: many"},
		{"missing column", "2024-01-16,152.3,154.0,151.0,153.5", "row 3: expected 6 columns, got 5"},
		{"empty date", ",152.3,154.0,151.0,153.5,100", "row 3: date is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "日付,始値,高値,安値,終値,出来高\n2024-01-15,150.5,153.0,149.8,152.3,15000000\n" + tt.line
			records, err := NewPriceSchema(testSettings()).Parse(text)
			assert.Nil(t, records)

			var parseErr *RowParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, 3, parseErr.Line)
			assert.EqualError(t, err, tt.message)
			assert.Equal(t, KindBadFormat, KindOf(err))
		})
	}
}

func TestValidatePriceRow(t *testing.T) {
	tests := []struct {
		name string
		row  PriceRow
		want string
	}{
		{"valid", priceRow("2024-01-15", "150.5", "153.0", "149.8", "152.3", "15000000"), ""},
		{"bad format", priceRow("2024/01/15", "150.5", "153.0", "149.8", "152.3", "1"), "invalid date format (expected YYYY-MM-DD): 2024/01/15"},
		{"impossible date", priceRow("2023-02-29", "150.5", "153.0", "149.8", "152.3", "1"), "invalid date: 2023-02-29"},
		{"future date", priceRow("2024-06-02", "150.5", "153.0", "149.8", "152.3", "1"), "future dates are not allowed: 2024-06-02"},
		{"today is allowed", priceRow("2024-06-01", "150.5", "153.0", "149.8", "152.3", "1"), ""},
		{"before 1900", priceRow("1899-12-31", "150.5", "153.0", "149.8", "152.3", "1"), "dates before 1900-01-01 are not allowed: 1899-12-31"},
		{"year one", priceRow("0001-01-01", "150.5", "153.0", "149.8", "152.3", "1"), "dates before 1900-01-01 are not allowed: 0001-01-01"},
		{"1900-01-01 is allowed", priceRow("1900-01-01", "150.5", "153.0", "149.8", "152.3", "1"), ""},
		{"zero open", priceRow("2024-01-15", "0", "153.0", "149.8", "152.3", "1"), "open price must be positive"},
		{"negative close", priceRow("2024-01-15", "150.5", "153.0", "149.8", "-1", "1"), "close price must be positive"},
		{"high below low", priceRow("2024-01-15", "150.5", "149.0", "150.0", "150.2", "1"), "high price is below low price"},
		{"high below open", priceRow("2024-01-15", "152.0", "151.0", "150.0", "150.5", "1"), "high price is below open price"},
		{"high below close", priceRow("2024-01-15", "150.5", "151.0", "150.0", "152.0", "1"), "high price is below close price"},
		{"low above open", priceRow("2024-01-15", "150.0", "153.0", "151.0", "152.0", "1"), "low price is above open price"},
		{"low above close", priceRow("2024-01-15", "152.0", "153.0", "151.0", "150.0", "1"), "low price is above close price"},
		{"abnormal swing", priceRow("2024-01-15", "100", "200", "90", "150", "1"), "daily price range is abnormally large, check the data"},
		{"negative volume", priceRow("2024-01-15", "150.5", "153.0", "149.8", "152.3", "-5"), "volume must not be negative"},
		{"fractional volume", priceRow("2024-01-15", "150.5", "153.0", "149.8", "152.3", "10.5"), "volume must be an integer"},
		{"huge volume", priceRow("2024-01-15", "150.5", "153.0", "149.8", "152.3", "1000000000001"), "volume is abnormally large, check the data"},
		{"zero volume", priceRow("2024-01-15", "150.5", "153.0", "149.8", "152.3", "0"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validatePriceRow(tt.row, fixedNow))
		})
	}
}

func TestValidatePriceRowUsesLocationForToday(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2024-06-01 20:00 UTC is already 2024-06-02 in Tokyo.
	now := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	schema := NewPriceSchema(Settings{Location: tokyo, Now: func() time.Time { return now }})
	assert.Equal(t, "", schema.Validate(priceRow("2024-06-02", "150.5", "153.0", "149.8", "152.3", "1")))
}

func TestPriceValidateAllReportsRowNumbers(t *testing.T) {
	schema := NewPriceSchema(testSettings())
	records, err := schema.Parse("日付,始値,高値,安値,終値,出来高\n" +
		"2024-01-15,150.5,153.0,149.8,152.3,15000000\n" +
		"2024-01-16,152.0,151.0,150.0,150.5,12000000\n" +
		"2024-01-17,150.0,152.0,149.0,151.0,10000000\n")
	require.NoError(t, err)

	valid, errs := schema.ValidateAll(records)
	require.Len(t, valid, 2)
	require.Len(t, errs, 1)
	assert.Equal(t, RowError{
		Row:     3,
		Key:     map[string]string{"date": "2024-01-16"},
		Message: "high price is below open price",
		Kind:    KindValidationFailed,
	}, errs[0])
}
