package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-stock-importer/internal/importer/pipeline"

	"github.com/redis/go-redis/v9"
)

// ImportEvent is the payload published when an import finishes.
type ImportEvent struct {
	ImportID     string          `json:"import_id"`
	Format       string          `json:"format"`
	StockCode    string          `json:"stock_code"`
	TotalRows    int             `json:"total_rows"`
	SuccessCount int             `json:"success_count"`
	SkipCount    int             `json:"skip_count"`
	ErrorCount   int             `json:"error_count"`
	Status       pipeline.Status `json:"status"`
}

// NewImportEvent summarises result for downstream consumers.
func NewImportEvent(format string, result *pipeline.Result) ImportEvent {
	return ImportEvent{
		ImportID:     result.ImportID,
		Format:       format,
		StockCode:    result.StockCode,
		TotalRows:    result.TotalRows,
		SuccessCount: result.SuccessCount,
		SkipCount:    result.SkipCount,
		ErrorCount:   result.ErrorCount,
		Status:       result.Status,
	}
}

// ImportEventRepository publishes import completion events.
type ImportEventRepository interface {
	Publish(ctx context.Context, stream string, event ImportEvent) error
}

// NewImportEventRepository publishes to capped Redis streams.
func NewImportEventRepository(client *redis.Client, maxLen int64) ImportEventRepository {
	return &redisImportEventRepository{client: client, maxLen: maxLen}
}

type redisImportEventRepository struct {
	client *redis.Client
	maxLen int64
}

func (r *redisImportEventRepository) Publish(ctx context.Context, stream string, event ImportEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal import event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"payload": payload},
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}
	if err := r.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to publish import event to %s: %w", stream, err)
	}
	return nil
}

// NewNoopImportEventRepository is used when Redis is not configured.
func NewNoopImportEventRepository() ImportEventRepository {
	return noopImportEventRepository{}
}

type noopImportEventRepository struct{}

func (noopImportEventRepository) Publish(context.Context, string, ImportEvent) error { return nil }
