package repositories

import (
	"context"
	"testing"
	"time"

	"finance-app/internal/database"
	"finance-app/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// TransactionRepositorySuite defines the test suite for TransactionRepository
type TransactionRepositorySuite struct {
	suite.Suite
	db       *database.DB
	repo     TransactionRepositoryInterface
	ctx      context.Context
	category *models.Category
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)
	s.ctx = context.Background()
	s.category = database.CreateTestCategory(s.T(), s.db, "Élelmiszer", models.CategoryTypeExpense, "TESCO")
}

func (s *TransactionRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestTransactionRepositorySuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTransaction(date, amount, partner string) models.Transaction {
	return models.Transaction{
		TransactionDate: day(date),
		Direction:       models.DirectionOutgoing,
		PartnerName:     partner,
		Amount:          decimal.RequireFromString(amount),
		Currency:        "HUF",
	}
}

func (s *TransactionRepositorySuite) TestFindByKey_ExactMatch() {
	existing := database.CreateTestTransaction(s.T(), s.db, "2024-01-15", "-1500.00", "Tesco")

	id, found, err := s.repo.FindByKey(s.ctx, day("2024-01-15"), decimal.NewFromInt(-1500), "Tesco")

	s.NoError(err)
	s.True(found)
	s.Equal(existing.ID, id)
}

func (s *TransactionRepositorySuite) TestFindByKey_AnyFieldDifferent() {
	database.CreateTestTransaction(s.T(), s.db, "2024-01-15", "-1500.00", "Tesco")

	cases := []struct {
		name    string
		date    time.Time
		amount  decimal.Decimal
		partner string
	}{
		{"date", day("2024-01-16"), decimal.NewFromInt(-1500), "Tesco"},
		{"amount", day("2024-01-15"), decimal.RequireFromString("-1500.01"), "Tesco"},
		{"sign", day("2024-01-15"), decimal.NewFromInt(1500), "Tesco"},
		{"partner", day("2024-01-15"), decimal.NewFromInt(-1500), "TESCO"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, found, err := s.repo.FindByKey(s.ctx, tc.date, tc.amount, tc.partner)
			s.NoError(err)
			s.False(found)
		})
	}
}

func (s *TransactionRepositorySuite) TestFindByKey_IgnoresTimeOfDay() {
	existing := database.CreateTestTransaction(s.T(), s.db, "2024-03-01", "-1490", "NETFLIX.COM")

	id, found, err := s.repo.FindByKey(s.ctx, time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC), decimal.NewFromInt(-1490), "NETFLIX.COM")

	s.NoError(err)
	s.True(found)
	s.Equal(existing.ID, id)
}

func (s *TransactionRepositorySuite) TestCreate_DefaultsCurrency() {
	txn := newTransaction("2024-02-01", "-100", "ALDI")
	txn.Currency = ""

	err := s.repo.Create(s.ctx, &txn)

	s.NoError(err)
	s.NotZero(txn.ID)
	s.Equal(models.DefaultCurrency, txn.Currency)
	s.NotZero(txn.CreatedAt)
}

func (s *TransactionRepositorySuite) TestCreate_RejectsInvalidDirection() {
	txn := newTransaction("2024-02-01", "-100", "ALDI")
	txn.Direction = "Vegyes"

	err := s.repo.Create(s.ctx, &txn)

	s.Error(err)
	s.ErrorIs(err, models.ErrInvalidDirection)
}

func (s *TransactionRepositorySuite) TestCreateSkippingExisting() {
	database.CreateTestTransaction(s.T(), s.db, "2024-01-15", "-1500", "Tesco")

	batch := []models.Transaction{
		newTransaction("2024-01-15", "-1500", "Tesco"),
		newTransaction("2024-01-16", "-2000", "Aldi"),
		newTransaction("2024-01-17", "450000", "ACME Kft"),
		newTransaction("2024-01-16", "-2000", "Aldi"),
	}

	created, err := s.repo.CreateSkippingExisting(s.ctx, batch)

	s.Require().NoError(err)
	s.Require().Len(created, 2)
	s.Equal("Aldi", created[0].PartnerName)
	s.Equal("ACME Kft", created[1].PartnerName)
	s.NotZero(created[0].ID)
	s.NotZero(created[1].ID)

	var count int64
	s.NoError(s.db.Model(&models.Transaction{}).Count(&count).Error)
	s.Equal(int64(3), count)
}

func (s *TransactionRepositorySuite) TestCreateSkippingExisting_RollsBackOnError() {
	bad := newTransaction("2024-01-18", "-10", "Posta")
	bad.Direction = ""

	_, err := s.repo.CreateSkippingExisting(s.ctx, []models.Transaction{
		newTransaction("2024-01-17", "-10", "MÁV"),
		bad,
	})

	s.Error(err)
	var count int64
	s.NoError(s.db.Model(&models.Transaction{}).Count(&count).Error)
	s.Zero(count)
}

func (s *TransactionRepositorySuite) TestCreateSkippingExisting_Empty() {
	created, err := s.repo.CreateSkippingExisting(s.ctx, nil)

	s.NoError(err)
	s.Empty(created)
}

func (s *TransactionRepositorySuite) TestGetByID() {
	existing := database.CreateTestTransaction(s.T(), s.db, "2024-01-15", "-1500", "Tesco")

	found, err := s.repo.GetByID(s.ctx, existing.ID)
	s.NoError(err)
	s.Equal("Tesco", found.PartnerName)
	s.Equal("2024-01-15", found.TransactionDate.Format(models.DateLayout))

	_, err = s.repo.GetByID(s.ctx, existing.ID+100)
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestGetWithFilters() {
	categoryID := s.category.ID
	tesco := newTransaction("2024-01-10", "-5000", "Tesco Áruház")
	tesco.CategoryID = &categoryID
	salary := newTransaction("2024-01-05", "450000", "ACME Kft")
	salary.Direction = models.DirectionIncoming

	for _, txn := range []models.Transaction{
		tesco,
		salary,
		newTransaction("2024-02-01", "-1490", "NETFLIX.COM"),
		newTransaction("2023-12-30", "-800", "BKV"),
	} {
		s.Require().NoError(s.repo.Create(s.ctx, &txn))
	}

	all, total, err := s.repo.GetWithFilters(s.ctx, models.TransactionFilters{})
	s.NoError(err)
	s.Equal(int64(4), total)
	s.Require().Len(all, 4)
	s.Equal("NETFLIX.COM", all[0].PartnerName, "newest first")
	s.Equal("BKV", all[3].PartnerName)

	start, end := day("2024-01-01"), day("2024-01-31")
	inJanuary, total, err := s.repo.GetWithFilters(s.ctx, models.TransactionFilters{StartDate: &start, EndDate: &end})
	s.NoError(err)
	s.Equal(int64(2), total)
	s.Len(inJanuary, 2)

	incoming, _, err := s.repo.GetWithFilters(s.ctx, models.TransactionFilters{Direction: models.DirectionIncoming})
	s.NoError(err)
	s.Require().Len(incoming, 1)
	s.Equal("ACME Kft", incoming[0].PartnerName)

	uncategorized, total, err := s.repo.GetWithFilters(s.ctx, models.TransactionFilters{Uncategorized: true})
	s.NoError(err)
	s.Equal(int64(3), total)
	s.Len(uncategorized, 3)

	byCategory, _, err := s.repo.GetWithFilters(s.ctx, models.TransactionFilters{CategoryID: &categoryID})
	s.NoError(err)
	s.Require().Len(byCategory, 1)
	s.Equal("Tesco Áruház", byCategory[0].PartnerName)

	byPartner, _, err := s.repo.GetWithFilters(s.ctx, models.TransactionFilters{PartnerName: "netflix"})
	s.NoError(err)
	s.Len(byPartner, 1)

	page, total, err := s.repo.GetWithFilters(s.ctx, models.TransactionFilters{Offset: 1, Limit: 2})
	s.NoError(err)
	s.Equal(int64(4), total)
	s.Require().Len(page, 2)
	s.Equal("Tesco Áruház", page[0].PartnerName)
}

func (s *TransactionRepositorySuite) TestDelete() {
	existing := database.CreateTestTransaction(s.T(), s.db, "2024-01-15", "-1500", "Tesco")

	s.NoError(s.repo.Delete(s.ctx, existing.ID))
	s.ErrorIs(s.repo.Delete(s.ctx, existing.ID), ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestUpdateCategory() {
	first := database.CreateTestTransaction(s.T(), s.db, "2024-01-15", "-1500", "Tesco")
	second := database.CreateTestTransaction(s.T(), s.db, "2024-01-16", "-900", "Tesco")
	categoryID := s.category.ID

	updated, err := s.repo.UpdateCategory(s.ctx, []uint{first.ID, second.ID, 9999}, &categoryID)
	s.NoError(err)
	s.Equal(int64(2), updated)

	reloaded, err := s.repo.GetByID(s.ctx, first.ID)
	s.NoError(err)
	s.Require().NotNil(reloaded.CategoryID)
	s.Equal(categoryID, *reloaded.CategoryID)

	cleared, err := s.repo.UpdateCategory(s.ctx, []uint{first.ID}, nil)
	s.NoError(err)
	s.Equal(int64(1), cleared)

	reloaded, err = s.repo.GetByID(s.ctx, first.ID)
	s.NoError(err)
	s.Nil(reloaded.CategoryID)

	none, err := s.repo.UpdateCategory(s.ctx, nil, &categoryID)
	s.NoError(err)
	s.Zero(none)
}

func (s *TransactionRepositorySuite) TestUpdate_WritesEditableFieldsOnly() {
	existing := database.CreateTestTransaction(s.T(), s.db, "2024-01-15", "-1500", "Tesco")
	categoryID := s.category.ID

	edited := *existing
	edited.CategoryID = &categoryID
	edited.PartnerName = "TESCO Budaörs"
	edited.Description = "heti bevásárlás"
	edited.ExpenseCategory = "Élelmiszer"
	edited.Amount = decimal.NewFromInt(-1)

	s.Require().NoError(s.repo.Update(s.ctx, &edited))

	reloaded, err := s.repo.GetByID(s.ctx, existing.ID)
	s.Require().NoError(err)
	s.Require().NotNil(reloaded.CategoryID)
	s.Equal(categoryID, *reloaded.CategoryID)
	s.Equal("TESCO Budaörs", reloaded.PartnerName)
	s.Equal("heti bevásárlás", reloaded.Description)
	s.Equal("Élelmiszer", reloaded.ExpenseCategory)
	s.True(reloaded.Amount.Equal(decimal.NewFromInt(-1500)))
}

func (s *TransactionRepositorySuite) TestUpdate_NotFound() {
	missing := newTransaction("2024-01-15", "-1500", "Tesco")
	missing.ID = 9999

	s.ErrorIs(s.repo.Update(s.ctx, &missing), ErrTransactionNotFound)
}
