package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"finance-app/internal/config"
	"finance-app/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

// DefaultCategories are created on first start so keyword matching has targets
var DefaultCategories = []models.Category{
	{Name: "Munkabér", Type: models.CategoryTypeIncome},
	{Name: "Kamat", Type: models.CategoryTypeIncome},
	{Name: "Egyéb bevétel", Type: models.CategoryTypeIncome},
	{Name: "Élelmiszer", Type: models.CategoryTypeExpense},
	{Name: "Lakhatás", Type: models.CategoryTypeExpense},
	{Name: "Közlekedés", Type: models.CategoryTypeExpense},
	{Name: "Szórakozás", Type: models.CategoryTypeExpense},
	{Name: "Egészségügy", Type: models.CategoryTypeExpense},
	{Name: "Egyéb kiadás", Type: models.CategoryTypeExpense},
	{Name: "Bankköltség", Type: models.CategoryTypeExpense},
}

func New(cfg *config.DatabaseConfig) (*DB, error) {
	logLevel := logger.Warn
	if cfg.LogQueries {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

// AutoMigrate creates the schema from the models, natural key unique index included
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Category{},
		&models.CategoryKeyword{},
		&models.Transaction{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CreateIndexes adds the secondary indexes the models cannot express
func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_partner_name_lower ON transactions(LOWER(partner_name))",
		"CREATE INDEX IF NOT EXISTS idx_transactions_uncategorized ON transactions(transaction_date) WHERE category_id IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_transactions_direction ON transactions(direction)",
	}

	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			log.Printf("Failed to create index: %s, error: %v", query, err)
		}
	}

	return nil
}

// SeedDefaultCategories inserts the default categories that do not exist yet
func (db *DB) SeedDefaultCategories(ctx context.Context) error {
	for _, c := range DefaultCategories {
		category := c
		if err := db.DB.WithContext(ctx).
			Where(models.Category{Name: category.Name}).
			FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}
	}
	return nil
}

// Initialize creates and configures the database connection
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}

		opts := MigrateOptions{
			MigrationsPath: cfg.Database.MigrationsPath,
			SeedsPath:      cfg.Database.SeedsPath,
			Seed:           cfg.Database.Seed,
		}
		if err := Migrate(ctx, sqlDB, opts); err != nil {
			log.Printf("Warning: migration runner failed: %v", err)
			log.Println("Falling back to GORM AutoMigrate...")

			if err := db.AutoMigrate(); err != nil {
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			if cfg.Database.Seed {
				if err := db.SeedDefaultCategories(ctx); err != nil {
					log.Printf("Warning: %v", err)
				}
			}
		}
	}

	if err := db.CreateIndexes(); err != nil {
		log.Printf("Warning: failed to create some indexes: %v", err)
	}

	log.Println("Database initialized successfully")

	return db, nil
}
