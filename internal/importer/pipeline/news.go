package pipeline

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang-stock-importer/internal/entity"
	"golang-stock-importer/pkg/logger"

	"github.com/shopspring/decimal"
)

// NewsHeader is the exact header of a news CSV: published at, title, summary,
// url, source, sentiment, sentiment score.
var NewsHeader = []string{"公開日時", "タイトル", "要約", "URL", "ソース", "センチメント", "センチメントスコア"}

const (
	maxTitleLength  = 255
	maxURLLength    = 500
	maxSourceLength = 100
)

var (
	minScore = decimal.NewFromInt(-1)
	maxScore = decimal.NewFromInt(1)

	zonedLayouts = []string{time.RFC3339Nano}
	localLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"}
)

// NewsRow is one parsed line of a news CSV. Optional fields are nil when the
// column is empty.
type NewsRow struct {
	PublishedAtText string
	// PublishedAt is zero when PublishedAtText is not a recognised timestamp.
	PublishedAt    time.Time
	Title          string
	Summary        *string
	URL            *string
	Source         *string
	Sentiment      entity.Sentiment
	SentimentScore *decimal.Decimal
}

// ParsePublishedAt accepts "YYYY-MM-DD HH:MM:SS" (read in loc) or an
// ISO-8601 timestamp with offset.
func ParsePublishedAt(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date-time %q", value)
}

// NewNewsSchema returns the schema for news files. Structural problems abort
// the import; an unknown sentiment or a non-numeric score only logs a warning.
func NewNewsSchema(settings Settings) *Schema[NewsRow] {
	settings = settings.withDefaults()
	p := newsParser{loc: settings.Location, log: settings.Logger}
	return &Schema[NewsRow]{
		Name:     "news",
		IDPrefix: "news_import",
		Header:   NewsHeader,
		Split:    SplitQuoted,
		ParseRow: p.parse,
		Validate: func(row NewsRow) string {
			return validateNewsRow(row, settings.Now())
		},
		Key: func(row NewsRow) map[string]string {
			return map[string]string{"published_at": row.PublishedAtText, "title": row.Title}
		},
		FilterTime: func(row NewsRow) (time.Time, bool) {
			return row.PublishedAt, !row.PublishedAt.IsZero()
		},
	}
}

type newsParser struct {
	loc *time.Location
	log *logger.Logger
}

func (p newsParser) parse(fields []string, rowNum int) (NewsRow, error) {
	row := NewsRow{PublishedAtText: fields[0], Title: fields[1]}
	if row.PublishedAtText == "" {
		return row, fmt.Errorf("published at is empty")
	}
	if row.Title == "" {
		return row, fmt.Errorf("title is empty")
	}
	if t, err := ParsePublishedAt(row.PublishedAtText, p.loc); err == nil {
		row.PublishedAt = t
	}

	row.Summary = optional(fields[2])
	row.URL = optional(fields[3])
	row.Source = optional(fields[4])
	row.Sentiment = p.sentiment(fields[5], rowNum)
	row.SentimentScore = p.score(fields[6], rowNum)
	return row, nil
}

func (p newsParser) sentiment(value string, rowNum int) entity.Sentiment {
	if value == "" {
		return entity.SentimentNeutral
	}
	s := entity.Sentiment(strings.ToLower(value))
	if s.Valid() {
		return s
	}
	p.log.Warn("Unknown sentiment, using neutral",
		logger.StringField("sentiment", value), logger.IntField("row", rowNum))
	return entity.SentimentNeutral
}

func (p newsParser) score(value string, rowNum int) *decimal.Decimal {
	if value == "" {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		p.log.Warn("Sentiment score is not numeric, ignoring it",
			logger.StringField("sentiment_score", value), logger.IntField("row", rowNum))
		return nil
	}
	return &d
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// validateNewsRow checks published at, title, url, source, sentiment and
// score, in that order, and returns the first failure.
func validateNewsRow(row NewsRow, now time.Time) string {
	if strings.TrimSpace(row.PublishedAtText) == "" {
		return "published at is required"
	}
	if row.PublishedAt.IsZero() {
		return "invalid published at format: " + row.PublishedAtText
	}
	if row.PublishedAt.After(now) {
		return "future published at is not allowed: " + row.PublishedAtText
	}
	if row.PublishedAt.Before(minDate) {
		return "published at before 1900-01-01 is not allowed: " + row.PublishedAtText
	}

	if strings.TrimSpace(row.Title) == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(row.Title) > maxTitleLength {
		return fmt.Sprintf("title must be at most %d characters", maxTitleLength)
	}

	if row.URL != nil {
		if msg := validateURL(*row.URL); msg != "" {
			return msg
		}
	}
	if row.Source != nil && utf8.RuneCountInString(*row.Source) > maxSourceLength {
		return fmt.Sprintf("source must be at most %d characters", maxSourceLength)
	}

	if !row.Sentiment.Valid() {
		return "sentiment must be positive, negative or neutral"
	}
	if row.SentimentScore != nil && (row.SentimentScore.LessThan(minScore) || row.SentimentScore.GreaterThan(maxScore)) {
		return "sentiment score must be between -1.00 and 1.00"
	}
	return ""
}

func validateURL(raw string) string {
	if utf8.RuneCountInString(raw) > maxURLLength {
		return fmt.Sprintf("url must be at most %d characters", maxURLLength)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "invalid url format: " + raw
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "url must start with http:// or https://"
	}
	return ""
}
