package handlers

import (
	"net/http"

	"finance-app/internal/dto"
	"finance-app/internal/errors"
	"finance-app/internal/models"
	"finance-app/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandler handles category and keyword HTTP requests
type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories returns every category ordered by type and name
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} dto.CategoryListResponse
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}

	return c.JSON(http.StatusOK, dto.CategoryListResponse{Categories: categories})
}

// CreateCategory adds an income or expense category
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body or CATEGORY_003 - Invalid type"
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_002 - Category already exists"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), req.Name, req.Type)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, category)
}

// ListKeywords returns a page of keywords ordered by id
// @Summary List category keywords
// @Tags Category Keywords
// @Produce json
// @Param offset query int false "Rows to skip (alias: skip)" default(0)
// @Param limit query int false "Page size (max 1000)" default(100)
// @Success 200 {object} dto.KeywordListResponse
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /category-keywords [get]
func (h *CategoryHandler) ListKeywords(c echo.Context) error {
	page := getPagination(c)

	keywords, total, err := h.categoryService.ListKeywords(c.Request().Context(), page.Offset, page.Limit)
	if err != nil {
		return SendSystemError(c, err)
	}
	if keywords == nil {
		keywords = []models.CategoryKeyword{}
	}

	return c.JSON(http.StatusOK, dto.KeywordListResponse{
		Keywords: keywords,
		Total:    total,
		Offset:   page.Offset,
		Limit:    page.Limit,
	})
}

// GetKeyword retrieves one keyword
// @Summary Get category keyword
// @Tags Category Keywords
// @Produce json
// @Param id path int true "Keyword ID"
// @Success 200 {object} models.CategoryKeyword
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid keyword ID"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_004 - Keyword not found"
// @Router /category-keywords/{id} [get]
func (h *CategoryHandler) GetKeyword(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	keyword, err := h.categoryService.GetKeyword(c.Request().Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, keyword)
}

// CreateKeyword registers a keyword for a category
// @Summary Create category keyword
// @Description The keyword is trimmed and stored upper-cased. A keyword can belong to one category only.
// @Tags Category Keywords
// @Accept json
// @Produce json
// @Param request body dto.CreateKeywordRequest true "Keyword"
// @Success 201 {object} models.CategoryKeyword
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or CATEGORY_007 - Invalid keyword"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_005 - Keyword exists or CATEGORY_006 - Owned by another category"
// @Router /category-keywords [post]
func (h *CategoryHandler) CreateKeyword(c echo.Context) error {
	var req dto.CreateKeywordRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	keyword, err := h.categoryService.AddKeyword(c.Request().Context(), req.CategoryID, req.Keyword)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, keyword)
}

// UpdateKeyword replaces the text of a keyword
// @Summary Update category keyword
// @Tags Category Keywords
// @Accept json
// @Produce json
// @Param id path int true "Keyword ID"
// @Param request body dto.UpdateKeywordRequest true "Keyword"
// @Success 200 {object} models.CategoryKeyword
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or CATEGORY_007 - Invalid keyword"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_004 - Keyword not found"
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_005 or CATEGORY_006 - Keyword taken"
// @Router /category-keywords/{id} [put]
func (h *CategoryHandler) UpdateKeyword(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	var req dto.UpdateKeywordRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	keyword, err := h.categoryService.UpdateKeyword(c.Request().Context(), id, req.Keyword)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, keyword)
}

// DeleteKeyword removes a keyword
// @Summary Delete category keyword
// @Tags Category Keywords
// @Param id path int true "Keyword ID"
// @Success 204 "Deleted"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_004 - Keyword not found"
// @Router /category-keywords/{id} [delete]
func (h *CategoryHandler) DeleteKeyword(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	if err := h.categoryService.DeleteKeyword(c.Request().Context(), id); err != nil {
		return sendServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteKeywordsByCategory removes every keyword of a category
// @Summary Delete all keywords of a category
// @Tags Category Keywords
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {object} dto.DeleteKeywordsResponse
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001 - Category not found"
// @Router /category-keywords/category/{categoryId} [delete]
func (h *CategoryHandler) DeleteKeywordsByCategory(c echo.Context) error {
	categoryID, err := parseIDParam(c, "categoryId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	deleted, err := h.categoryService.DeleteKeywordsByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.DeleteKeywordsResponse{
		CategoryID:   categoryID,
		DeletedCount: deleted,
	})
}
