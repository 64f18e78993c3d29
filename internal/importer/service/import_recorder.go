package service

import (
	"context"
	"time"

	"golang-stock-importer/internal/importer/metrics"
	"golang-stock-importer/internal/importer/pipeline"
	"golang-stock-importer/internal/importer/repository"
	"golang-stock-importer/pkg/logger"
)

// importRecorder logs, measures and announces every finished import.
type importRecorder struct {
	format  string
	stream  string
	events  repository.ImportEventRepository
	metrics *metrics.ImportMetrics
	logger  *logger.Logger
}

func (r *importRecorder) record(ctx context.Context, code string, started time.Time, result *pipeline.Result, err error) {
	if err != nil {
		r.metrics.ObserveRejected(r.format, err)
		r.logger.WarnContext(ctx, "Import rejected",
			logger.StringField("format", r.format),
			logger.StringField("stock_code", code),
			logger.StringField("kind", string(pipeline.KindOf(err))),
			logger.ErrorField(err))
		return
	}

	r.metrics.ObserveResult(r.format, result, time.Since(started))
	r.logger.InfoContext(ctx, "Import finished",
		logger.StringField("format", r.format),
		logger.StringField("import_id", result.ImportID),
		logger.StringField("stock_code", result.StockCode),
		logger.IntField("total_rows", result.TotalRows),
		logger.IntField("success_count", result.SuccessCount),
		logger.IntField("skip_count", result.SkipCount),
		logger.IntField("error_count", result.ErrorCount))

	if err := r.events.Publish(ctx, r.stream, repository.NewImportEvent(r.format, result)); err != nil {
		r.logger.ErrorContext(ctx, "Failed to publish import event",
			logger.StringField("import_id", result.ImportID), logger.ErrorField(err))
	}
}
