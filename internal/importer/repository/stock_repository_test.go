package repository

import (
	"context"
	"testing"
	"time"

	"golang-stock-importer/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewStockRepository(db)
	ctx := context.Background()

	toyota := seedStock(t, db, "7203", "トヨタ自動車")
	seedStock(t, db, "6758", "ソニーグループ")

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "6758", all[0].Code)

	got, err := repo.FindByCode(ctx, "7203")
	require.NoError(t, err)
	assert.Equal(t, toyota.ID, got.ID)

	got, err = repo.FindByID(ctx, toyota.ID)
	require.NoError(t, err)
	assert.Equal(t, "トヨタ自動車", got.Name)

	missing, err := repo.FindByCode(ctx, "0000")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Create(ctx, &entity.Stock{Code: "7203", Name: "Duplicate"})
	assert.Error(t, err)
}

type countingStockRepository struct {
	StockRepository
	findByCode int
}

func (r *countingStockRepository) FindByCode(ctx context.Context, code string) (*entity.Stock, error) {
	r.findByCode++
	return r.StockRepository.FindByCode(ctx, code)
}

func TestCachedStockRepository(t *testing.T) {
	db := newTestDB(t)
	seedStock(t, db, "7203", "トヨタ自動車")
	inner := &countingStockRepository{StockRepository: NewStockRepository(db)}
	repo := NewCachedStockRepository(inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := repo.FindByCode(ctx, "7203")
		require.NoError(t, err)
		assert.Equal(t, "トヨタ自動車", got.Name)
	}
	assert.Equal(t, 1, inner.findByCode)

	// Misses are not cached.
	for i := 0; i < 2; i++ {
		got, err := repo.FindByCode(ctx, "6758")
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, 3, inner.findByCode)

	require.NoError(t, repo.Create(ctx, &entity.Stock{Code: "6758", Name: "ソニーグループ"}))
	got, err := repo.FindByCode(ctx, "6758")
	require.NoError(t, err)
	assert.Equal(t, "ソニーグループ", got.Name)
	assert.Equal(t, 3, inner.findByCode)
}
