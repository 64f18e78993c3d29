package pipeline

import (
	"fmt"
	"time"

	"golang-stock-importer/pkg/logger"
)

// Settings carries the environment shared by the schemas and the importer.
type Settings struct {
	// Location decides what "today" means for the future-date checks and
	// how zone-less timestamps are read.
	Location *time.Location
	Now      func() time.Time
	Logger   *logger.Logger
}

func (s Settings) withDefaults() Settings {
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.Logger == nil {
		s.Logger = logger.NewNop()
	}
	return s
}

// Record is a parsed row together with the row number reported in errors:
// the header is row 1 and blank lines are not counted.
type Record[T any] struct {
	Row  int
	Data T
}

// Schema describes one CSV format: its header, how lines split into fields,
// how fields become a typed row, which invariants a row must satisfy and the
// natural key echoed back in errors.
type Schema[T any] struct {
	Name     string
	IDPrefix string
	Header   []string
	Split    func(line string) []string
	// ParseRow converts one line's fields. Any error aborts the whole import.
	ParseRow func(fields []string, row int) (T, error)
	// Validate returns "" for a valid row or the first failing check.
	Validate func(row T) string
	Key      func(row T) map[string]string
	// FilterTime returns the timestamp the date range filter applies to.
	// A nil FilterTime means the format has no date filter; ok=false keeps
	// the row so validation can report it.
	FilterTime func(row T) (t time.Time, ok bool)
}

// Parse tokenizes text, checks the header and parses every data line. It
// either returns all records or fails without returning any.
func (s *Schema[T]) Parse(text string) ([]Record[T], error) {
	lines, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	if err := ValidateHeader(s.Header, s.Split(lines[0])); err != nil {
		return nil, err
	}

	records := make([]Record[T], 0, len(lines)-1)
	for i, line := range lines[1:] {
		rowNum := i + 2
		fields := s.Split(line)
		if len(fields) != len(s.Header) {
			return nil, &RowParseError{
				Line:    rowNum,
				Message: fmt.Sprintf("expected %d columns, got %d", len(s.Header), len(fields)),
			}
		}
		row, err := s.ParseRow(fields, rowNum)
		if err != nil {
			return nil, &RowParseError{Line: rowNum, Message: err.Error()}
		}
		records = append(records, Record[T]{Row: rowNum, Data: row})
	}
	return records, nil
}

// ValidateAll partitions records into valid ones and row errors, keeping
// source order in both.
func (s *Schema[T]) ValidateAll(records []Record[T]) ([]Record[T], []RowError) {
	valid := make([]Record[T], 0, len(records))
	var errs []RowError
	for _, rec := range records {
		if msg := s.Validate(rec.Data); msg != "" {
			errs = append(errs, RowError{
				Row:     rec.Row,
				Key:     s.Key(rec.Data),
				Message: msg,
				Kind:    KindValidationFailed,
			})
			continue
		}
		valid = append(valid, rec)
	}
	return valid, errs
}
