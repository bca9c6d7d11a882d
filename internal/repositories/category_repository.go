package repositories

import (
	"context"
	"errors"
	"fmt"

	"finance-app/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrKeywordNotFound  = errors.New("keyword not found")
)

// categoryRepository implements CategoryRepositoryInterface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &categoryRepository{
		db: db,
	}
}

// ListWithKeywords loads the full category snapshot used by an import run
func (r *categoryRepository) ListWithKeywords(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Preload("Keywords", func(db *gorm.DB) *gorm.DB {
			return db.Order("category_keywords.id ASC")
		}).
		Order("id ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories with keywords: %w", err)
	}
	return categories, nil
}

// List returns all categories ordered by type and name
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Order("type ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Create creates a new category
func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by ID
func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// GetByName retrieves a category by its unique name
func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return &category, nil
}

// CreateKeyword creates a new category keyword
func (r *categoryRepository) CreateKeyword(ctx context.Context, keyword *models.CategoryKeyword) error {
	if err := r.db.WithContext(ctx).Create(keyword).Error; err != nil {
		return fmt.Errorf("failed to create keyword: %w", err)
	}
	return nil
}

// GetKeywordByID retrieves a keyword by ID
func (r *categoryRepository) GetKeywordByID(ctx context.Context, id uint) (*models.CategoryKeyword, error) {
	var keyword models.CategoryKeyword
	if err := r.db.WithContext(ctx).First(&keyword, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeywordNotFound
		}
		return nil, fmt.Errorf("failed to get keyword: %w", err)
	}
	return &keyword, nil
}

// ListKeywords retrieves keywords with pagination
func (r *categoryRepository) ListKeywords(ctx context.Context, offset, limit int) ([]models.CategoryKeyword, int64, error) {
	var keywords []models.CategoryKeyword
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.CategoryKeyword{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count keywords: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&keywords).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list keywords: %w", err)
	}

	return keywords, total, nil
}

// FindKeywords returns every registration of an exact keyword across categories
func (r *categoryRepository) FindKeywords(ctx context.Context, keyword string) ([]models.CategoryKeyword, error) {
	var keywords []models.CategoryKeyword
	if err := r.db.WithContext(ctx).
		Where("keyword = ?", keyword).
		Order("id ASC").
		Find(&keywords).Error; err != nil {
		return nil, fmt.Errorf("failed to find keyword: %w", err)
	}
	return keywords, nil
}

// UpdateKeyword saves the keyword text and owner
func (r *categoryRepository) UpdateKeyword(ctx context.Context, keyword *models.CategoryKeyword) error {
	result := r.db.WithContext(ctx).Model(keyword).
		Select("keyword", "category_id").
		Updates(keyword)
	if result.Error != nil {
		return fmt.Errorf("failed to update keyword: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrKeywordNotFound
	}
	return nil
}

// DeleteKeyword removes a keyword by ID
func (r *categoryRepository) DeleteKeyword(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CategoryKeyword{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete keyword: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrKeywordNotFound
	}
	return nil
}

// DeleteKeywordsByCategory removes every keyword of a category and returns how many were deleted
func (r *categoryRepository) DeleteKeywordsByCategory(ctx context.Context, categoryID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Delete(&models.CategoryKeyword{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete keywords of category: %w", result.Error)
	}
	return result.RowsAffected, nil
}
