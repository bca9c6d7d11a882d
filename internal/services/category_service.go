package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance-app/internal/importer"
	"finance-app/internal/models"
	"finance-app/internal/repositories"
)

const (
	DefaultKeywordLimit = 100
	MaxKeywordLimit     = 1000
)

var (
	ErrCategoryExists      = errors.New("category already exists")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInvalidCategoryType = models.ErrInvalidCategoryType
	ErrInvalidKeyword      = errors.New("invalid keyword")
	ErrKeywordNotFound     = errors.New("keyword not found")
	ErrKeywordExists       = errors.New("keyword already exists for this category")
	ErrKeywordConflict     = errors.New("keyword is already assigned to another category")
)

// CategoryService manages categories and their keywords. Keywords are stored
// upper-cased and each keyword belongs to at most one category.
type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
}

func NewCategoryService(categoryRepo repositories.CategoryRepositoryInterface, metrics MetricsRecorderInterface, logger *slog.Logger) CategoryServiceInterface {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		metrics:      metrics,
		logger:       logger,
	}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, name, categoryType string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrCategoryNameEmpty
	}
	if !models.IsValidCategoryType(categoryType) {
		return nil, ErrInvalidCategoryType
	}

	_, err := s.categoryRepo.GetByName(ctx, name)
	switch {
	case err == nil:
		return nil, ErrCategoryExists
	case !errors.Is(err, repositories.ErrCategoryNotFound):
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}

	category := &models.Category{Name: name, Type: categoryType}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("category created",
		slog.Uint64("category_id", uint64(category.ID)),
		slog.String("name", category.Name),
		slog.String("type", category.Type),
	)
	return category, nil
}

func (s *CategoryService) ListKeywords(ctx context.Context, offset, limit int) ([]models.CategoryKeyword, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}
	if limit > MaxKeywordLimit {
		limit = MaxKeywordLimit
	}

	keywords, total, err := s.categoryRepo.ListKeywords(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list keywords: %w", err)
	}
	return keywords, total, nil
}

func (s *CategoryService) GetKeyword(ctx context.Context, id uint) (*models.CategoryKeyword, error) {
	keyword, err := s.categoryRepo.GetKeywordByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrKeywordNotFound) {
			return nil, ErrKeywordNotFound
		}
		return nil, fmt.Errorf("failed to get keyword: %w", err)
	}
	return keyword, nil
}

func (s *CategoryService) AddKeyword(ctx context.Context, categoryID uint, keyword string) (*models.CategoryKeyword, error) {
	normalized, err := normalizeKeyword(keyword)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, normalized, categoryID, 0); err != nil {
		return nil, err
	}

	created := &models.CategoryKeyword{CategoryID: categoryID, Keyword: normalized}
	if err := s.categoryRepo.CreateKeyword(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create keyword: %w", err)
	}

	s.metrics.IncrementCounter(MetricKeywordChanged, map[string]string{"operation": "create"})
	s.logger.Info("keyword added",
		slog.Uint64("keyword_id", uint64(created.ID)),
		slog.Uint64("category_id", uint64(categoryID)),
		slog.String("keyword", normalized),
	)
	return created, nil
}

func (s *CategoryService) UpdateKeyword(ctx context.Context, id uint, keyword string) (*models.CategoryKeyword, error) {
	normalized, err := normalizeKeyword(keyword)
	if err != nil {
		return nil, err
	}

	existing, err := s.GetKeyword(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, normalized, existing.CategoryID, existing.ID); err != nil {
		return nil, err
	}

	previous := existing.Keyword
	existing.Keyword = normalized
	if err := s.categoryRepo.UpdateKeyword(ctx, existing); err != nil {
		if errors.Is(err, repositories.ErrKeywordNotFound) {
			return nil, ErrKeywordNotFound
		}
		return nil, fmt.Errorf("failed to update keyword: %w", err)
	}

	s.metrics.IncrementCounter(MetricKeywordChanged, map[string]string{"operation": "update"})
	s.logger.Info("keyword updated",
		slog.Uint64("keyword_id", uint64(id)),
		slog.String("from", previous),
		slog.String("to", normalized),
	)
	return existing, nil
}

func (s *CategoryService) DeleteKeyword(ctx context.Context, id uint) error {
	if err := s.categoryRepo.DeleteKeyword(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrKeywordNotFound) {
			return ErrKeywordNotFound
		}
		return fmt.Errorf("failed to delete keyword: %w", err)
	}

	s.metrics.IncrementCounter(MetricKeywordChanged, map[string]string{"operation": "delete"})
	return nil
}

func (s *CategoryService) DeleteKeywordsByCategory(ctx context.Context, categoryID uint) (int64, error) {
	if err := s.ensureCategory(ctx, categoryID); err != nil {
		return 0, err
	}

	deleted, err := s.categoryRepo.DeleteKeywordsByCategory(ctx, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete keywords: %w", err)
	}

	s.logger.Info("category keywords deleted",
		slog.Uint64("category_id", uint64(categoryID)),
		slog.Int64("deleted", deleted),
	)
	return deleted, nil
}

func (s *CategoryService) ensureCategory(ctx context.Context, categoryID uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get category: %w", err)
	}
	return nil
}

// checkOwnership rejects a keyword registered anywhere else. excludeID is the
// keyword being updated, zero on create.
func (s *CategoryService) checkOwnership(ctx context.Context, keyword string, categoryID, excludeID uint) error {
	existing, err := s.categoryRepo.FindKeywords(ctx, keyword)
	if err != nil {
		return fmt.Errorf("failed to check keyword: %w", err)
	}

	for _, k := range existing {
		if k.ID == excludeID {
			continue
		}
		if k.CategoryID == categoryID {
			return ErrKeywordExists
		}
		return ErrKeywordConflict
	}
	return nil
}

func normalizeKeyword(keyword string) (string, error) {
	normalized := importer.NormalizeKeyword(keyword)
	if err := models.ValidateKeyword(normalized); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidKeyword, err)
	}
	return normalized, nil
}
