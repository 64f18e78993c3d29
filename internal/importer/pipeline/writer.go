package pipeline

import (
	"context"
)

// DuplicateStrategy decides what happens when a row's natural key is
// already stored.
type DuplicateStrategy string

const (
	StrategySkip      DuplicateStrategy = "skip"
	StrategyOverwrite DuplicateStrategy = "overwrite"
)

// ParseDuplicateStrategy maps "" to skip and rejects unknown values.
func ParseDuplicateStrategy(value string) (DuplicateStrategy, error) {
	switch DuplicateStrategy(value) {
	case "", StrategySkip:
		return StrategySkip, nil
	case StrategyOverwrite:
		return StrategyOverwrite, nil
	}
	return "", &OptionError{Option: "duplicate strategy", Value: value, Reason: "must be skip or overwrite"}
}

// RowStore persists rows of one kind for a stock, keyed by the row's
// natural key.
type RowStore[T any] interface {
	Exists(ctx context.Context, stockID uint, row T) (bool, error)
	Create(ctx context.Context, stockID uint, row T) error
	Upsert(ctx context.Context, stockID uint, row T) error
}

// BulkCreator is implemented by stores that can insert many rows at once,
// silently skipping natural-key duplicates. The call is all or nothing.
type BulkCreator[T any] interface {
	CreateManySkipDuplicates(ctx context.Context, stockID uint, rows []T) (int64, error)
}

// WriteOutcome is what a Writer reports back to the importer.
type WriteOutcome struct {
	Success int
	Skipped int
	Errors  []RowError
}

// Writer persists validated records under one duplicate strategy.
type Writer[T any] interface {
	Write(ctx context.Context, stockID uint, records []Record[T]) WriteOutcome
}

// SequentialWriter writes one record at a time in source order. A failing
// record becomes a RowError and the remaining records are still written.
type SequentialWriter[T any] struct {
	Store    RowStore[T]
	Strategy DuplicateStrategy
	Key      func(row T) map[string]string
}

func (w *SequentialWriter[T]) Write(ctx context.Context, stockID uint, records []Record[T]) WriteOutcome {
	var out WriteOutcome
	for _, rec := range records {
		if w.Strategy == StrategyOverwrite {
			if err := w.Store.Upsert(ctx, stockID, rec.Data); err != nil {
				out.Errors = append(out.Errors, w.persistenceError(rec, err))
				continue
			}
			out.Success++
			continue
		}

		exists, err := w.Store.Exists(ctx, stockID, rec.Data)
		if err != nil {
			out.Errors = append(out.Errors, w.persistenceError(rec, err))
			continue
		}
		if exists {
			out.Skipped++
			continue
		}
		if err := w.Store.Create(ctx, stockID, rec.Data); err != nil {
			out.Errors = append(out.Errors, w.persistenceError(rec, err))
			continue
		}
		out.Success++
	}
	return out
}

func (w *SequentialWriter[T]) persistenceError(rec Record[T], err error) RowError {
	return RowError{
		Row:     rec.Row,
		Key:     w.Key(rec.Data),
		Message: "database error: " + err.Error(),
		Kind:    KindPersistenceFailed,
	}
}

// BulkThenSequentialWriter tries one bulk insert first. When the bulk call
// fails nothing was written, and every record is handed to Fallback.
type BulkThenSequentialWriter[T any] struct {
	Bulk       BulkCreator[T]
	Fallback   Writer[T]
	OnFallback func(err error)
}

func (w *BulkThenSequentialWriter[T]) Write(ctx context.Context, stockID uint, records []Record[T]) WriteOutcome {
	if len(records) == 0 {
		return WriteOutcome{}
	}

	rows := make([]T, len(records))
	for i, rec := range records {
		rows[i] = rec.Data
	}

	inserted, err := w.Bulk.CreateManySkipDuplicates(ctx, stockID, rows)
	if err == nil {
		return WriteOutcome{Success: int(inserted), Skipped: len(records) - int(inserted)}
	}

	if w.OnFallback != nil {
		w.OnFallback(err)
	}
	return w.Fallback.Write(ctx, stockID, records)
}
