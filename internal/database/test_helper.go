package database

import (
	"fmt"
	"testing"
	"time"

	"finance-app/internal/config"
	"finance-app/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	// Every connection to :memory: opens a separate database
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = testDB.Close()
	})

	return testDB
}

// CreateTestCategory inserts a category with the given keywords
func CreateTestCategory(t *testing.T, db *DB, name, categoryType string, keywords ...string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Type: categoryType}
	for _, kw := range keywords {
		category.Keywords = append(category.Keywords, models.CategoryKeyword{Keyword: kw})
	}

	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	return category
}

// CreateTestTransaction inserts an outgoing HUF transaction with the given natural key
func CreateTestTransaction(t *testing.T, db *DB, date string, amount string, partnerName string) *models.Transaction {
	t.Helper()

	txDate, err := time.Parse(models.DateLayout, date)
	if err != nil {
		t.Fatalf("invalid test date %q: %v", date, err)
	}

	transaction := &models.Transaction{
		TransactionDate: txDate,
		Direction:       models.DirectionOutgoing,
		PartnerName:     partnerName,
		Amount:          decimal.RequireFromString(amount),
		Currency:        models.DefaultCurrency,
	}

	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	return transaction
}

// CleanupTestDB empties every table, children first
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	tables := []string{
		"transactions",
		"category_keywords",
		"categories",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
