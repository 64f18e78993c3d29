package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-stock-importer/internal/entity"
)

type fakeDirectory struct {
	stocks map[string]*entity.Stock
	err    error
}

func (d *fakeDirectory) FindByCode(_ context.Context, code string) (*entity.Stock, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.stocks[code], nil
}

func newDirectory() *fakeDirectory {
	return &fakeDirectory{stocks: map[string]*entity.Stock{
		"7203": {ID: 1, Code: "7203", Name: "トヨタ自動車"},
	}}
}

// memoryStore is a RowStore keyed by a caller-supplied natural key.
type memoryStore[T any] struct {
	key     func(T) string
	rows    map[string]T
	order   []string
	failOn  map[string]error
	creates int
	upserts int
}

func newMemoryStore[T any](key func(T) string) *memoryStore[T] {
	return &memoryStore[T]{key: key, rows: map[string]T{}, failOn: map[string]error{}}
}

func (s *memoryStore[T]) storageKey(stockID uint, row T) string {
	return fmt.Sprintf("%d/%s", stockID, s.key(row))
}

func (s *memoryStore[T]) Exists(_ context.Context, stockID uint, row T) (bool, error) {
	_, ok := s.rows[s.storageKey(stockID, row)]
	return ok, nil
}

func (s *memoryStore[T]) Create(_ context.Context, stockID uint, row T) error {
	k := s.storageKey(stockID, row)
	if err, ok := s.failOn[s.key(row)]; ok {
		return err
	}
	if _, ok := s.rows[k]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	s.rows[k] = row
	s.order = append(s.order, k)
	s.creates++
	return nil
}

func (s *memoryStore[T]) Upsert(_ context.Context, stockID uint, row T) error {
	if err, ok := s.failOn[s.key(row)]; ok {
		return err
	}
	k := s.storageKey(stockID, row)
	if _, ok := s.rows[k]; !ok {
		s.order = append(s.order, k)
	}
	s.rows[k] = row
	s.upserts++
	return nil
}

// bulkMemoryStore adds an all-or-nothing bulk insert to memoryStore.
type bulkMemoryStore[T any] struct {
	*memoryStore[T]
	bulkErr   error
	bulkCalls int
}

func (s *bulkMemoryStore[T]) CreateManySkipDuplicates(_ context.Context, stockID uint, rows []T) (int64, error) {
	s.bulkCalls++
	if s.bulkErr != nil {
		return 0, s.bulkErr
	}
	var inserted int64
	for _, row := range rows {
		k := s.storageKey(stockID, row)
		if _, ok := s.rows[k]; ok {
			continue
		}
		s.rows[k] = row
		s.order = append(s.order, k)
		inserted++
	}
	return inserted, nil
}

func priceKey(r PriceRow) string { return r.Date }

func newsKey(r NewsRow) string {
	return r.PublishedAt.UTC().Format(time.RFC3339Nano) + "|" + r.Title
}
