package dto

import (
	"finance-app/internal/models"
)

// Category Request DTOs

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Type string `json:"type" validate:"required,category_type"`
}

// CreateKeywordRequest registers a keyword for a category
type CreateKeywordRequest struct {
	CategoryID uint   `json:"category_id" validate:"required,gt=0"`
	Keyword    string `json:"keyword" validate:"required,keyword"`
}

// UpdateKeywordRequest replaces the text of a keyword
type UpdateKeywordRequest struct {
	Keyword string `json:"keyword" validate:"required,keyword"`
}

// Category Response DTOs

// CategoryListResponse represents the full category list
type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
}

// KeywordListResponse represents a paginated list of keywords
type KeywordListResponse struct {
	Keywords []models.CategoryKeyword `json:"keywords"`
	Total    int64                    `json:"total"`
	Offset   int                      `json:"offset"`
	Limit    int                      `json:"limit"`
}

// DeleteKeywordsResponse reports how many keywords a category lost
type DeleteKeywordsResponse struct {
	CategoryID   uint  `json:"category_id"`
	DeletedCount int64 `json:"deleted_count"`
}
