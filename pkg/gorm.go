package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skilltrack/certification-service/internal/config"
	"github.com/skilltrack/certification-service/internal/models"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// AutoMigrate creates or updates the service's tables. Course catalog tables
// are owned by the catalog service but migrated here for local development.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Course{},
		&models.CourseModule{},
		&models.Enrollment{},
		&models.ModuleCompletion{},
		&models.Quiz{},
		&models.QuizAttempt{},
		&models.Assignment{},
		&models.AssignmentSubmission{},
		&models.Test{},
		&models.TestSubmission{},
		&models.Certificate{},
		&models.ActivityLog{},
		&models.Notification{},
	)
}
