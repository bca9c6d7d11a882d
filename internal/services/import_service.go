package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"finance-app/internal/config"
	"finance-app/internal/importer"
	"finance-app/internal/models"
	"finance-app/internal/repositories"

	"github.com/shopspring/decimal"
)

const duplicateLookupService = "duplicate_lookup"

// ImportService runs uploaded spreadsheets through the import pipeline
// against the current category snapshot and transaction store.
type ImportService struct {
	categories importer.CategorySource
	finder     importer.DuplicateFinder
	pipeline   *importer.Pipeline
	readOpts   importer.ReadOptions
	metrics    MetricsRecorderInterface
	logger     *slog.Logger
}

// NewImportService creates the import service. A nil categoryRepo gives an
// empty category snapshot and a nil transactionRepo disables duplicate
// detection; both are used for offline previews. A non-nil breaker guards
// the duplicate lookups.
func NewImportService(
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	pipeline *importer.Pipeline,
	readOpts importer.ReadOptions,
	breaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ImportServiceInterface {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if pipeline == nil {
		pipeline = importer.NewPipeline(importer.WithLogger(logger))
	}

	s := &ImportService{
		pipeline: pipeline,
		readOpts: readOpts,
		metrics:  metrics,
		logger:   logger,
	}
	if categoryRepo != nil {
		s.categories = categoryRepo
	}
	if transactionRepo != nil {
		s.finder = &guardedFinder{
			repo:    transactionRepo,
			breaker: breaker,
			metrics: metrics,
		}
	}
	return s
}

// NewImportServiceFromConfig assembles the pipeline, read limits and
// duplicate lookup breaker from the import configuration.
func NewImportServiceFromConfig(
	cfg config.ImportConfig,
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ImportServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}

	pipeline := importer.NewPipeline(
		importer.WithWorkers(cfg.Workers),
		importer.WithDefaultCurrency(cfg.DefaultCurrency),
		importer.WithLogger(logger),
	)
	readOpts := importer.ReadOptions{
		MaxBytes:          cfg.MaxUploadBytes,
		AllowedExtensions: cfg.AllowedExtensions,
	}

	var breaker CircuitBreakerInterface
	if transactionRepo != nil {
		breaker = NewCircuitBreaker(CircuitBreakerConfig{
			MaxFailures:  cfg.FinderMaxFailures,
			ResetTimeout: cfg.FinderResetTimeout,
		})
	}

	return NewImportService(categoryRepo, transactionRepo, pipeline, readOpts, breaker, metrics, logger)
}

func (s *ImportService) Preview(ctx context.Context, filename string, r io.Reader) (*models.ImportResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordProcessingTime(MetricImportPreview, time.Since(start))
	}()

	table, err := importer.ReadTable(filename, r, s.readOpts)
	if err != nil {
		s.metrics.IncrementCounter(MetricImportRejected, map[string]string{
			"reason": rejectionReason(err),
		})
		s.logger.Warn("upload rejected",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	categories, err := s.snapshot(ctx)
	if err != nil {
		s.recordPreview("error")
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	result, err := s.pipeline.Run(ctx, table, categories, s.finder)
	if err != nil {
		s.recordPreview("error")
		s.logger.Error("import pipeline failed",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("import preview failed: %w", err)
	}

	if !result.Success {
		s.recordPreview("invalid_structure")
		s.logger.Info("upload has invalid structure",
			slog.String("filename", filename),
			slog.Any("errors", result.Errors),
		)
		return result, nil
	}

	s.recordPreview("success")
	s.metrics.RecordGauge(MetricImportRows, float64(len(table.Rows)), nil)
	s.metrics.RecordGauge(MetricImportRows, float64(len(result.Rows)), map[string]string{"outcome": "processed"})
	s.metrics.RecordGauge(MetricImportRows, float64(result.DuplicateCount), map[string]string{"outcome": "duplicate"})
	s.metrics.RecordGauge(MetricImportRows, float64(len(result.SkippedRows)), map[string]string{"outcome": "skipped"})

	s.logger.Info("import preview generated",
		slog.String("filename", filename),
		slog.Int("rows", len(result.Rows)),
		slog.Int("duplicates", result.DuplicateCount),
		slog.Int("skipped", len(result.SkippedRows)),
		slog.Int("warnings", len(result.Warnings)),
		slog.Int("categories", len(categories)),
	)

	return result, nil
}

func (s *ImportService) snapshot(ctx context.Context) ([]models.Category, error) {
	if s.categories == nil {
		return nil, nil
	}
	return s.categories.ListWithKeywords(ctx)
}

func (s *ImportService) recordPreview(status string) {
	s.metrics.IncrementCounter(MetricImportPreview, map[string]string{"status": status})
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, importer.ErrUnsupportedFileType):
		return "unsupported_type"
	case errors.Is(err, importer.ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, importer.ErrEmptyFile):
		return "empty"
	case errors.Is(err, importer.ErrUnreadableFile):
		return "unreadable"
	default:
		return "other"
	}
}

// guardedFinder puts the transaction store's natural key lookup behind a
// circuit breaker and measures it.
type guardedFinder struct {
	repo    repositories.TransactionRepositoryInterface
	breaker CircuitBreakerInterface
	metrics MetricsRecorderInterface
}

func (f *guardedFinder) FindByKey(ctx context.Context, date time.Time, amount decimal.Decimal, partnerName string) (uint, bool, error) {
	if f.breaker != nil && f.breaker.IsOpen() {
		f.metrics.IncrementCounter(MetricDuplicateLookup, map[string]string{"result": "rejected"})
		return 0, false, ErrCircuitBreakerOpen
	}

	start := time.Now()
	id, found, err := f.repo.FindByKey(ctx, date, amount, partnerName)
	f.metrics.RecordProcessingTime(MetricDuplicateLookup, time.Since(start))

	if err != nil {
		// A cancelled request says nothing about the database
		if f.breaker != nil && ctx.Err() == nil {
			f.breaker.RecordFailure()
		}
		f.metrics.IncrementCounter(MetricDuplicateLookup, map[string]string{"result": "error"})
		f.recordState()
		return 0, false, err
	}

	if f.breaker != nil {
		f.breaker.RecordSuccess()
	}
	result := "miss"
	if found {
		result = "hit"
	}
	f.metrics.IncrementCounter(MetricDuplicateLookup, map[string]string{"result": result})
	f.recordState()
	return id, found, nil
}

func (f *guardedFinder) recordState() {
	if f.breaker == nil {
		return
	}
	f.metrics.RecordGauge(MetricCircuitBreakerState, float64(f.breaker.GetState()), map[string]string{
		"service": duplicateLookupService,
	})
}
