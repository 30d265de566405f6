package database

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"warbler/models"
)

// Connect opens the database named by the DSN. Postgres DSNs (postgres:// URLs
// or key=value strings) use the postgres driver; anything else is treated as a
// sqlite path, which is what development and tests run on.
func Connect(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if dialector.Name() == "sqlite" {
		// sqlite ships with foreign keys off, which would silently skip the
		// message cascade.
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	}

	return db, nil
}

// Migrate registers the join models for the follow and like relations and
// auto-migrates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.User{}, "Following", &models.Follow{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.User{}, "Followers", &models.Follow{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.User{}, "LikedMessages", &models.Like{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.Message{}, "Likers", &models.Like{}); err != nil {
		return err
	}

	return db.AutoMigrate(&models.User{}, &models.Message{})
}
