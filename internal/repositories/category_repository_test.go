package repositories

import (
	"context"
	"testing"

	"finance-app/internal/database"
	"finance-app/internal/models"

	"github.com/stretchr/testify/suite"
)

// CategoryRepositorySuite defines the test suite for CategoryRepository
type CategoryRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo CategoryRepositoryInterface
	ctx  context.Context
}

func (s *CategoryRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewCategoryRepository(s.db.DB)
	s.ctx = context.Background()
}

func (s *CategoryRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestCategoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(CategoryRepositorySuite))
}

func (s *CategoryRepositorySuite) TestCreate() {
	category := &models.Category{Name: "Kamat", Type: models.CategoryTypeIncome}

	err := s.repo.Create(s.ctx, category)

	s.NoError(err)
	s.NotZero(category.ID)
	s.NotZero(category.CreatedAt)
}

func (s *CategoryRepositorySuite) TestCreate_InvalidType() {
	err := s.repo.Create(s.ctx, &models.Category{Name: "Kamat", Type: "savings"})

	s.ErrorIs(err, models.ErrInvalidCategoryType)
}

func (s *CategoryRepositorySuite) TestCreate_DuplicateName() {
	s.NoError(s.repo.Create(s.ctx, &models.Category{Name: "Kamat", Type: models.CategoryTypeIncome}))

	err := s.repo.Create(s.ctx, &models.Category{Name: "Kamat", Type: models.CategoryTypeExpense})

	s.Error(err)
}

func (s *CategoryRepositorySuite) TestListWithKeywords() {
	food := database.CreateTestCategory(s.T(), s.db, "Élelmiszer", models.CategoryTypeExpense, "TESCO", "ALDI")
	fun := database.CreateTestCategory(s.T(), s.db, "Szórakozás", models.CategoryTypeExpense, "NETFLIX")
	database.CreateTestCategory(s.T(), s.db, "Kamat", models.CategoryTypeIncome)

	categories, err := s.repo.ListWithKeywords(s.ctx)

	s.NoError(err)
	s.Require().Len(categories, 3)
	s.Equal(food.ID, categories[0].ID)
	s.Require().Len(categories[0].Keywords, 2)
	s.Equal("TESCO", categories[0].Keywords[0].Keyword)
	s.Equal("ALDI", categories[0].Keywords[1].Keyword)
	s.Equal(fun.ID, categories[1].ID)
	s.Len(categories[1].Keywords, 1)
	s.Empty(categories[2].Keywords)
}

func (s *CategoryRepositorySuite) TestList_OrderedByTypeAndName() {
	database.CreateTestCategory(s.T(), s.db, "Szórakozás", models.CategoryTypeExpense)
	database.CreateTestCategory(s.T(), s.db, "Munkabér", models.CategoryTypeIncome)
	database.CreateTestCategory(s.T(), s.db, "Bankköltség", models.CategoryTypeExpense)

	categories, err := s.repo.List(s.ctx)

	s.NoError(err)
	s.Require().Len(categories, 3)
	s.Equal("Bankköltség", categories[0].Name)
	s.Equal("Szórakozás", categories[1].Name)
	s.Equal("Munkabér", categories[2].Name)
}

func (s *CategoryRepositorySuite) TestGetByIDAndName() {
	created := database.CreateTestCategory(s.T(), s.db, "Lakhatás", models.CategoryTypeExpense)

	byID, err := s.repo.GetByID(s.ctx, created.ID)
	s.NoError(err)
	s.Equal("Lakhatás", byID.Name)

	byName, err := s.repo.GetByName(s.ctx, "Lakhatás")
	s.NoError(err)
	s.Equal(created.ID, byName.ID)

	_, err = s.repo.GetByID(s.ctx, created.ID+1)
	s.ErrorIs(err, ErrCategoryNotFound)

	_, err = s.repo.GetByName(s.ctx, "Nincs ilyen")
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *CategoryRepositorySuite) TestKeywordLifecycle() {
	food := database.CreateTestCategory(s.T(), s.db, "Élelmiszer", models.CategoryTypeExpense)
	other := database.CreateTestCategory(s.T(), s.db, "Egyéb kiadás", models.CategoryTypeExpense)

	keyword := &models.CategoryKeyword{CategoryID: food.ID, Keyword: "SPAR"}
	s.Require().NoError(s.repo.CreateKeyword(s.ctx, keyword))
	s.NotZero(keyword.ID)

	found, err := s.repo.GetKeywordByID(s.ctx, keyword.ID)
	s.NoError(err)
	s.Equal("SPAR", found.Keyword)

	matches, err := s.repo.FindKeywords(s.ctx, "SPAR")
	s.NoError(err)
	s.Len(matches, 1)

	keyword.Keyword = "INTERSPAR"
	keyword.CategoryID = other.ID
	s.Require().NoError(s.repo.UpdateKeyword(s.ctx, keyword))

	found, err = s.repo.GetKeywordByID(s.ctx, keyword.ID)
	s.NoError(err)
	s.Equal("INTERSPAR", found.Keyword)
	s.Equal(other.ID, found.CategoryID)

	s.NoError(s.repo.DeleteKeyword(s.ctx, keyword.ID))
	_, err = s.repo.GetKeywordByID(s.ctx, keyword.ID)
	s.ErrorIs(err, ErrKeywordNotFound)
	s.ErrorIs(s.repo.DeleteKeyword(s.ctx, keyword.ID), ErrKeywordNotFound)
}

func (s *CategoryRepositorySuite) TestCreateKeyword_Empty() {
	food := database.CreateTestCategory(s.T(), s.db, "Élelmiszer", models.CategoryTypeExpense)

	err := s.repo.CreateKeyword(s.ctx, &models.CategoryKeyword{CategoryID: food.ID, Keyword: "  "})

	s.ErrorIs(err, models.ErrKeywordEmpty)
}

func (s *CategoryRepositorySuite) TestUpdateKeyword_NotFound() {
	err := s.repo.UpdateKeyword(s.ctx, &models.CategoryKeyword{ID: 404, CategoryID: 1, Keyword: "X"})

	s.ErrorIs(err, ErrKeywordNotFound)
}

func (s *CategoryRepositorySuite) TestListKeywords_Paginated() {
	database.CreateTestCategory(s.T(), s.db, "Élelmiszer", models.CategoryTypeExpense, "TESCO", "ALDI", "LIDL", "SPAR")

	page, total, err := s.repo.ListKeywords(s.ctx, 1, 2)

	s.NoError(err)
	s.Equal(int64(4), total)
	s.Require().Len(page, 2)
	s.Equal("ALDI", page[0].Keyword)
	s.Equal("LIDL", page[1].Keyword)
}

func (s *CategoryRepositorySuite) TestDeleteKeywordsByCategory() {
	food := database.CreateTestCategory(s.T(), s.db, "Élelmiszer", models.CategoryTypeExpense, "TESCO", "ALDI")
	fun := database.CreateTestCategory(s.T(), s.db, "Szórakozás", models.CategoryTypeExpense, "NETFLIX")

	deleted, err := s.repo.DeleteKeywordsByCategory(s.ctx, food.ID)

	s.NoError(err)
	s.Equal(int64(2), deleted)

	categories, err := s.repo.ListWithKeywords(s.ctx)
	s.NoError(err)
	for _, c := range categories {
		if c.ID == fun.ID {
			s.Len(c.Keywords, 1)
		} else {
			s.Empty(c.Keywords)
		}
	}
}
