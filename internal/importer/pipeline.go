package importer

import (
	"context"
	"fmt"
	"log/slog"

	"finance-app/internal/models"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds the row fan-out when no worker count is configured
const DefaultWorkers = 4

// Pipeline turns a parsed table into a reviewed import preview
type Pipeline struct {
	workers         int
	defaultCurrency string
	logger          *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithWorkers sets how many rows are normalized concurrently
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithDefaultCurrency sets the currency applied to rows without one
func WithDefaultCurrency(code string) Option {
	return func(p *Pipeline) {
		if code != "" {
			p.defaultCurrency = code
		}
	}
}

// WithLogger sets the logger used for run diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		workers:         DefaultWorkers,
		defaultCurrency: models.DefaultCurrency,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// rowMatcher suggests a category for a partner name
type rowMatcher interface {
	Match(partnerName string) *models.CategoryRef
}

type rowOutcome struct {
	row      *models.NormalizedTransaction
	skipped  *models.SkippedRow
	warnings []string
}

// Run validates, normalizes, categorizes and de-duplicates the table.
// A structural problem yields an unsuccessful result and no rows; the
// returned error is reserved for failures of the duplicate lookup.
// A nil finder disables duplicate detection.
func (p *Pipeline) Run(ctx context.Context, table *Table, categories []models.Category, finder DuplicateFinder) (*models.ImportResult, error) {
	schema := ValidateSchema(table.Header)
	if !schema.Valid() {
		return &models.ImportResult{
			Success:          false,
			Message:          "Invalid file structure",
			Rows:             []models.NormalizedTransaction{},
			Duplicates:       []models.DuplicateInfo{},
			Warnings:         []string{},
			Errors:           schema.Errors(),
			AvailableColumns: table.Columns(),
			SkippedRows:      []models.SkippedRow{},
			EmptyRowsRemoved: table.EmptyRowsRemoved,
		}, nil
	}

	cols := newColumnMap(table.Header)
	records := make([]rawRecord, len(table.Rows))
	for i, row := range table.Rows {
		records[i] = cols.record(row)
	}

	warnings := append([]string{}, schema.Warnings()...)
	warnings = append(warnings, validateRecords(records)...)

	index := BuildKeywordIndex(categories)
	for _, c := range index.Conflicts() {
		p.logger.Warn("keyword claimed by several categories",
			slog.String("keyword", c.Keyword),
			slog.String("kept", c.Kept.Name),
			slog.String("ignored", c.Ignored.Name),
		)
	}

	outcomes := make([]rowOutcome, len(records))
	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i, rec := range records {
		g.Go(func() error {
			outcomes[i] = p.processRow(rec, index)
			return nil
		})
	}
	_ = g.Wait()

	rows := make([]models.NormalizedTransaction, 0, len(records))
	skipped := []models.SkippedRow{}
	for _, out := range outcomes {
		warnings = append(warnings, out.warnings...)
		if out.skipped != nil {
			skipped = append(skipped, *out.skipped)
			continue
		}
		rows = append(rows, *out.row)
	}

	if finder == nil {
		finder = NoDuplicates{}
	}
	duplicates, err := detectDuplicates(ctx, rows, finder)
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{
		Success:          true,
		Rows:             rows,
		DuplicateCount:   len(duplicates),
		Duplicates:       duplicates,
		Warnings:         warnings,
		Errors:           []string{},
		SkippedRows:      skipped,
		EmptyRowsRemoved: table.EmptyRowsRemoved,
		Statistics:       computeStatistics(rows),
	}
	result.Message = fmt.Sprintf("File processed: %d rows, %d duplicates, %d skipped, %d warnings",
		len(rows), len(duplicates), len(skipped), len(warnings))

	p.logger.Debug("import run finished",
		slog.Int("rows", len(rows)),
		slog.Int("duplicates", len(duplicates)),
		slog.Int("skipped", len(skipped)),
		slog.Int("warnings", len(warnings)),
	)

	return result, nil
}

// processRow normalizes and categorizes one record. A failure of any kind,
// panics included, turns into a skipped row.
func (p *Pipeline) processRow(rec rawRecord, matcher rowMatcher) (out rowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("row transform panicked",
				slog.Int("row_number", rec.line),
				slog.Any("panic", r),
			)
			out = skipRow(rec.line, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	row, warnings, err := normalizeRecord(rec, p.defaultCurrency)
	if err != nil {
		return skipRow(rec.line, err.Error())
	}

	row.SuggestedCategory = matcher.Match(row.PartnerName)
	return rowOutcome{row: row, warnings: warnings}
}

func skipRow(line int, reason string) rowOutcome {
	return rowOutcome{
		skipped:  &models.SkippedRow{RowNumber: line, Reason: reason},
		warnings: []string{fmt.Sprintf("Row %d skipped: %s", line, reason)},
	}
}
