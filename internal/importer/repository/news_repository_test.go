package repository

import (
	"context"
	"testing"
	"time"

	"golang-stock-importer/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsItem(stockID uint, publishedAt time.Time, title, summary string) *entity.News {
	return &entity.News{
		StockID:     stockID,
		PublishedAt: publishedAt,
		Title:       title,
		Summary:     &summary,
		Sentiment:   entity.SentimentNeutral,
	}
}

func TestNewsRepositoryFindByKey(t *testing.T) {
	db := newTestDB(t)
	stock := seedStock(t, db, "7203", "トヨタ自動車")
	repo := NewNewsRepository(db)
	ctx := context.Background()

	tokyo := time.FixedZone("JST", 9*60*60)
	published := time.Date(2024, 1, 15, 9, 0, 0, 0, tokyo)
	require.NoError(t, repo.Create(ctx, newsItem(stock.ID, published, "Headline", "summary")))

	// The same instant expressed in another zone matches.
	got, err := repo.FindByKey(ctx, stock.ID, published.UTC(), "Headline")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "summary", *got.Summary)

	got, err = repo.FindByKey(ctx, stock.ID, published, "Other headline")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewsRepositoryUpsertKeyIsPublishedAtAndTitle(t *testing.T) {
	db := newTestDB(t)
	stock := seedStock(t, db, "7203", "トヨタ自動車")
	repo := NewNewsRepository(db)
	ctx := context.Background()
	published := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, newsItem(stock.ID, published, "Headline", "first")))

	second := newsItem(stock.ID, published, "Headline", "second")
	second.Sentiment = entity.SentimentPositive
	second.SentimentScore = decimal.NewNullDecimal(decimal.RequireFromString("0.85"))
	require.NoError(t, repo.Upsert(ctx, second))

	require.NoError(t, repo.Upsert(ctx, newsItem(stock.ID, published, "Another headline", "third")))

	news, err := repo.FindByStockID(ctx, stock.ID, nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, news, 2)

	got, err := repo.FindByKey(ctx, stock.ID, published, "Headline")
	require.NoError(t, err)
	assert.Equal(t, "second", *got.Summary)
	assert.Equal(t, entity.SentimentPositive, got.Sentiment)
	assert.True(t, got.SentimentScore.Valid)
	assert.True(t, got.SentimentScore.Decimal.Equal(decimal.RequireFromString("0.85")))
}

func TestNewsRepositoryDeleteAndFindByRange(t *testing.T) {
	db := newTestDB(t)
	stock := seedStock(t, db, "7203", "トヨタ自動車")
	repo := NewNewsRepository(db)
	ctx := context.Background()

	for _, ts := range []time.Time{
		time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 20, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC),
	} {
		require.NoError(t, repo.Create(ctx, newsItem(stock.ID, ts, "News "+ts.Format(time.RFC3339), "")))
	}

	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)

	found, err := repo.FindByStockID(ctx, stock.ID, &from, &before, 0)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.True(t, found[0].PublishedAt.After(found[1].PublishedAt), "newest first")

	limited, err := repo.FindByStockID(ctx, stock.ID, nil, nil, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.True(t, limited[0].PublishedAt.Equal(before))

	deleted, err := repo.DeleteByPublishedRange(ctx, stock.ID, &from, &before)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = repo.DeleteByPublishedRange(ctx, stock.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
