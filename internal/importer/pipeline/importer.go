package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang-stock-importer/internal/entity"
	"golang-stock-importer/pkg/logger"
	"golang-stock-importer/pkg/utils"

	"github.com/google/uuid"
)

// Directory resolves stock codes. FindByCode returns nil, nil for an
// unknown code.
type Directory interface {
	FindByCode(ctx context.Context, code string) (*entity.Stock, error)
}

// Options are the caller-selected knobs of one import. DateFrom and DateTo
// are inclusive YYYY-MM-DD bounds and only apply to formats with a date
// filter.
type Options struct {
	DuplicateStrategy DuplicateStrategy
	DateFrom          string
	DateTo            string
}

// Status summarises a Result for callers.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// Result is the summary of one import call.
type Result struct {
	ImportID     string     `json:"import_id"`
	StockCode    string     `json:"stock_code"`
	StockName    string     `json:"stock_name"`
	TotalRows    int        `json:"total_rows"`
	SuccessCount int        `json:"success_count"`
	SkipCount    int        `json:"skip_count"`
	ErrorCount   int        `json:"error_count"`
	Status       Status     `json:"status"`
	Errors       []RowError `json:"errors"`
	ImportedAt   time.Time  `json:"imported_at"`
}

func statusOf(successCount, errorCount int) Status {
	switch {
	case errorCount == 0:
		return StatusCompleted
	case successCount > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// Importer runs one schema end to end: stock lookup, parse, filter,
// validate, persist and summarise.
type Importer[T any] struct {
	schema    *Schema[T]
	directory Directory
	store     RowStore[T]
	settings  Settings
	newID     func() string
}

// NewImporter wires a schema to its collaborators. Stores that also
// implement BulkCreator get the bulk path for the skip strategy.
func NewImporter[T any](schema *Schema[T], directory Directory, store RowStore[T], settings Settings) *Importer[T] {
	return &Importer[T]{
		schema:    schema,
		directory: directory,
		store:     store,
		settings:  settings.withDefaults(),
		newID:     func() string { return uuid.NewString()[:8] },
	}
}

// ImportFromCSV imports text for the stock identified by code. Unknown
// codes, malformed CSV and bad options are returned as errors and nothing is
// written; row-level problems are reported in the Result.
func (im *Importer[T]) ImportFromCSV(ctx context.Context, code, text string, opts Options) (*Result, error) {
	strategy, err := ParseDuplicateStrategy(string(opts.DuplicateStrategy))
	if err != nil {
		return nil, err
	}

	stock, err := im.directory.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up stock %s: %w", code, err)
	}
	if stock == nil {
		return nil, &EntityNotFoundError{Code: code}
	}

	filter, err := im.dateFilter(opts)
	if err != nil {
		return nil, err
	}

	records, err := im.schema.Parse(text)
	if err != nil {
		return nil, err
	}
	records = filter(records)

	valid, rowErrors := im.schema.ValidateAll(records)
	outcome := im.writer(strategy).Write(ctx, stock.ID, valid)

	rowErrors = append(rowErrors, outcome.Errors...)
	sort.SliceStable(rowErrors, func(i, j int) bool { return rowErrors[i].Row < rowErrors[j].Row })
	if rowErrors == nil {
		rowErrors = []RowError{}
	}

	now := im.settings.Now()
	return &Result{
		ImportID:     fmt.Sprintf("%s_%s_%s", im.schema.IDPrefix, now.Format("20060102150405"), im.newID()),
		StockCode:    stock.Code,
		StockName:    stock.Name,
		TotalRows:    len(records),
		SuccessCount: outcome.Success,
		SkipCount:    outcome.Skipped,
		ErrorCount:   len(rowErrors),
		Status:       statusOf(outcome.Success, len(rowErrors)),
		Errors:       rowErrors,
		ImportedAt:   now,
	}, nil
}

func (im *Importer[T]) writer(strategy DuplicateStrategy) Writer[T] {
	sequential := &SequentialWriter[T]{Store: im.store, Strategy: strategy, Key: im.schema.Key}
	if strategy != StrategySkip {
		return sequential
	}
	bulk, ok := im.store.(BulkCreator[T])
	if !ok {
		return sequential
	}
	return &BulkThenSequentialWriter[T]{
		Bulk:     bulk,
		Fallback: sequential,
		OnFallback: func(err error) {
			im.settings.Logger.Warn("Bulk insert failed, retrying row by row",
				logger.StringField("format", im.schema.Name), logger.ErrorField(err))
		},
	}
}

// dateFilter builds the inclusive publishedAt filter. Rows whose timestamp
// did not parse are kept so validation reports them.
func (im *Importer[T]) dateFilter(opts Options) (func([]Record[T]) []Record[T], error) {
	keepAll := func(records []Record[T]) []Record[T] { return records }
	if im.schema.FilterTime == nil || (opts.DateFrom == "" && opts.DateTo == "") {
		return keepAll, nil
	}

	for _, bound := range []struct{ option, value string }{
		{"dateFrom", opts.DateFrom},
		{"dateTo", opts.DateTo},
	} {
		if bound.value == "" {
			continue
		}
		if _, err := utils.ParseDate(bound.value, im.settings.Location); err != nil {
			return nil, &OptionError{Option: bound.option, Value: bound.value, Reason: "expected YYYY-MM-DD"}
		}
	}

	return func(records []Record[T]) []Record[T] {
		kept := make([]Record[T], 0, len(records))
		for _, rec := range records {
			t, ok := im.schema.FilterTime(rec.Data)
			if ok {
				day := t.In(im.settings.Location).Format(utils.DateLayout)
				if (opts.DateFrom != "" && day < opts.DateFrom) || (opts.DateTo != "" && day > opts.DateTo) {
					continue
				}
			}
			kept = append(kept, rec)
		}
		return kept
	}, nil
}
