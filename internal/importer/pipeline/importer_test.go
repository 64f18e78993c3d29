package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const priceCSV = "日付,始値,高値,安値,終値,出来高\n" +
	"2024-01-15,150.5,153.0,149.8,152.3,15000000\n" +
	"2024-01-16,152.3,154.0,151.0,153.5,12000000\n"

func newPriceImporter(store RowStore[PriceRow]) *Importer[PriceRow] {
	im := NewImporter(NewPriceSchema(testSettings()), newDirectory(), store, testSettings())
	im.newID = func() string { return "abcd1234" }
	return im
}

func newNewsImporter(store RowStore[NewsRow]) *Importer[NewsRow] {
	return NewImporter(NewNewsSchema(testSettings()), newDirectory(), store, testSettings())
}

func TestImportSkipIsIdempotent(t *testing.T) {
	store := &bulkMemoryStore[PriceRow]{memoryStore: newMemoryStore(priceKey)}
	im := newPriceImporter(store)

	first, err := im.ImportFromCSV(context.Background(), "7203", priceCSV, Options{DuplicateStrategy: StrategySkip})
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalRows)
	assert.Equal(t, 2, first.SuccessCount)
	assert.Equal(t, 0, first.SkipCount)
	assert.Equal(t, StatusCompleted, first.Status)
	assert.Equal(t, "import_20240601120000_abcd1234", first.ImportID)
	assert.Equal(t, "トヨタ自動車", first.StockName)
	assert.Equal(t, fixedNow, first.ImportedAt)
	assert.NotNil(t, first.Errors)

	second, err := im.ImportFromCSV(context.Background(), "7203", priceCSV, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.SuccessCount)
	assert.Equal(t, 2, second.SkipCount)
	assert.Len(t, store.rows, 2)
	assert.Equal(t, 2, store.bulkCalls)
}

func TestImportOverwriteKeepsLatestValue(t *testing.T) {
	store := newMemoryStore(priceKey)
	im := newPriceImporter(store)

	_, err := im.ImportFromCSV(context.Background(), "7203", priceCSV, Options{DuplicateStrategy: StrategyOverwrite})
	require.NoError(t, err)

	updated := "日付,始値,高値,安値,終値,出来高\n2024-01-15,151.0,154.0,150.0,153.0,16000000\n"
	result, err := im.ImportFromCSV(context.Background(), "7203", updated, Options{DuplicateStrategy: StrategyOverwrite})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 0, result.SkipCount)

	assert.Len(t, store.rows, 2)
	assert.Equal(t, "151", store.rows["1/2024-01-15"].Open.String())
}

func TestImportPartialSuccess(t *testing.T) {
	store := newMemoryStore(priceKey)
	text := "日付,始値,高値,安値,終値,出来高\n" +
		"2024-01-15,150.5,153.0,149.8,152.3,15000000\n" +
		"2024-01-16,152.0,151.0,150.0,150.5,12000000\n" +
		"2024-01-17,150.0,152.0,149.0,151.0,10000000\n"

	result, err := newPriceImporter(store).ImportFromCSV(context.Background(), "7203", text, Options{DuplicateStrategy: StrategyOverwrite})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, StatusPartial, result.Status)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "high price is below open price", result.Errors[0].Message)
	assert.Equal(t, KindValidationFailed, result.Errors[0].Kind)
}

func TestImportAllRowsInvalidIsFailed(t *testing.T) {
	text := "日付,始値,高値,安値,終値,出来高\n2099-01-15,150.5,153.0,149.8,152.3,15000000\n"
	result, err := newPriceImporter(newMemoryStore(priceKey)).ImportFromCSV(context.Background(), "7203", text, Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
}

func TestImportMergesErrorsInRowOrder(t *testing.T) {
	store := newMemoryStore(priceKey)
	store.failOn["2024-01-15"] = errors.New("deadlock detected")
	text := "日付,始値,高値,安値,終値,出来高\n" +
		"2024-01-15,150.5,153.0,149.8,152.3,15000000\n" +
		"2024-01-16,152.0,151.0,150.0,150.5,12000000\n" +
		"2024-01-17,150.0,152.0,149.0,151.0,10000000\n"

	result, err := newPriceImporter(store).ImportFromCSV(context.Background(), "7203", text, Options{DuplicateStrategy: StrategyOverwrite})
	require.NoError(t, err)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, KindPersistenceFailed, result.Errors[0].Kind)
	assert.Equal(t, "database error: deadlock detected", result.Errors[0].Message)
	assert.Equal(t, 3, result.Errors[1].Row)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.ErrorCount)
}

func TestImportBadHeaderWritesNothing(t *testing.T) {
	store := newMemoryStore(priceKey)
	text := "日付,始値,高値,安値,終値\n2024-01-15,150.5,153.0,149.8,152.3\n"

	result, err := newPriceImporter(store).ImportFromCSV(context.Background(), "7203", text, Options{})
	assert.Nil(t, result)
	var headerErr *HeaderFormatError
	require.True(t, errors.As(err, &headerErr))
	assert.Equal(t, KindBadFormat, KindOf(err))
	assert.Empty(t, store.rows)
}

// A single non-numeric price aborts the whole price import, while the news
// format only drops a non-numeric sentiment score.
func TestImportParsePolicyDiffersBetweenFormats(t *testing.T) {
	priceStore := newMemoryStore(priceKey)
	priceText := priceCSV + "2024-01-17,n/a,152.0,149.0,151.0,10000000\n"
	_, err := newPriceImporter(priceStore).ImportFromCSV(context.Background(), "7203", priceText, Options{})
	var parseErr *RowParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 4, parseErr.Line)
	assert.Empty(t, priceStore.rows)

	newsStore := newMemoryStore(newsKey)
	newsText := newsHeaderLine + "\n" +
		"2024-01-15 09:00:00,Headline,,,,positive,n/a\n" +
		"2024-01-16 09:00:00,Other headline,,,,negative,-0.4\n"
	result, err := newNewsImporter(newsStore).ImportFromCSV(context.Background(), "7203", newsText, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Len(t, newsStore.rows, 2)
}

func TestImportUnknownStock(t *testing.T) {
	store := newMemoryStore(priceKey)
	_, err := newPriceImporter(store).ImportFromCSV(context.Background(), "9999", priceCSV, Options{})

	var notFound *EntityNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "9999", notFound.Code)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Empty(t, store.rows)
}

func TestImportDirectoryFailure(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("connection refused")}
	im := NewImporter(NewPriceSchema(testSettings()), dir, RowStore[PriceRow](newMemoryStore(priceKey)), testSettings())

	_, err := im.ImportFromCSV(context.Background(), "7203", priceCSV, Options{})
	require.Error(t, err)
	assert.Equal(t, Kind(""), KindOf(err))
}

func TestImportRejectsUnknownStrategy(t *testing.T) {
	_, err := newPriceImporter(newMemoryStore(priceKey)).ImportFromCSV(context.Background(), "7203", priceCSV, Options{DuplicateStrategy: "merge"})
	var optErr *OptionError
	require.True(t, errors.As(err, &optErr))
}

func TestImportHeaderOnly(t *testing.T) {
	result, err := newPriceImporter(newMemoryStore(priceKey)).ImportFromCSV(context.Background(), "7203", "日付,始値,高値,安値,終値,出来高\n", Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalRows)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Empty(t, result.Errors)
}

func TestNewsImportDedupesOnPublishedAtAndTitle(t *testing.T) {
	text := newsHeaderLine + "\n" +
		"2024-01-15 09:00:00,Same headline,First summary,,,,\n" +
		"2024-01-15 09:00:00,Same headline,Second summary,,,,\n" +
		"2024-01-15 09:00:00,Different headline,First summary,,,,\n"

	store := newMemoryStore(newsKey)
	result, err := newNewsImporter(store).ImportFromCSV(context.Background(), "7203", text, Options{DuplicateStrategy: StrategySkip})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.SkipCount)
	assert.True(t, strings.HasPrefix(result.ImportID, "news_import_20240601120000_"))

	store = newMemoryStore(newsKey)
	result, err = newNewsImporter(store).ImportFromCSV(context.Background(), "7203", text, Options{DuplicateStrategy: StrategyOverwrite})
	require.NoError(t, err)
	assert.Equal(t, 3, result.SuccessCount)
	require.Len(t, store.rows, 2)
	stored := store.rows[store.order[0]]
	assert.Equal(t, "Second summary", *stored.Summary)
}

func TestNewsImportKeepsEmbeddedQuotesInTitle(t *testing.T) {
	text := newsHeaderLine + "\n" +
		"2024-01-15 09:00:00,\"CEO says \"\"we will grow\"\"\",summary,,,positive,0.5\n"

	store := newMemoryStore(newsKey)
	result, err := newNewsImporter(store).ImportFromCSV(context.Background(), "7203", text, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Empty(t, result.Errors)

	require.Len(t, store.order, 1)
	assert.Equal(t, `CEO says "we will grow"`, store.rows[store.order[0]].Title)
}

func TestNewsImportDateRangeFilter(t *testing.T) {
	text := newsHeaderLine + "\n" +
		"2024-01-10 09:00:00,Ten,,,,,\n" +
		"2024-01-15 23:59:59,Fifteen,,,,,\n" +
		"2024-01-20 00:00:00,Twenty,,,,,\n" +
		"2024-01-30 09:00:00,Thirty,,,,,\n"

	store := newMemoryStore(newsKey)
	result, err := newNewsImporter(store).ImportFromCSV(context.Background(), "7203", text,
		Options{DateFrom: "2024-01-15", DateTo: "2024-01-25"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Empty(t, result.Errors)

	var titles []string
	for _, k := range store.order {
		titles = append(titles, store.rows[k].Title)
	}
	assert.Equal(t, []string{"Fifteen", "Twenty"}, titles)
}

func TestNewsImportFilterKeepsUnparsedTimestampsForValidation(t *testing.T) {
	text := newsHeaderLine + "\n" +
		"someday,Broken,,,,,\n" +
		"2024-01-20 00:00:00,Twenty,,,,,\n"

	result, err := newNewsImporter(newMemoryStore(newsKey)).ImportFromCSV(context.Background(), "7203", text,
		Options{DateFrom: "2024-01-15"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, map[string]string{"published_at": "someday", "title": "Broken"}, result.Errors[0].Key)
}

func TestNewsImportRejectsMalformedDateBound(t *testing.T) {
	_, err := newNewsImporter(newMemoryStore(newsKey)).ImportFromCSV(context.Background(), "7203", newsHeaderLine, Options{DateTo: "01/25/2024"})
	var optErr *OptionError
	require.True(t, errors.As(err, &optErr))
	assert.Equal(t, "dateTo", optErr.Option)
}

func TestPriceImportIgnoresDateFilter(t *testing.T) {
	result, err := newPriceImporter(newMemoryStore(priceKey)).ImportFromCSV(context.Background(), "7203", priceCSV,
		Options{DateFrom: "2030-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
}
