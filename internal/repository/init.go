package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/inboxpulse/inboxpulse/config"
	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/models"
)

type Repositories struct {
	ScanRecordRepository interfaces.ScanRecordRepository
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		ScanRecordRepository: NewScanRecordRepository(db),
	}
}

func MigrateDB(dbConfig *config.DatabaseConfig, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxOpenConns(5)

	err = db.AutoMigrate(
		&models.ScanRecord{},
	)

	sqlDB.Close()

	sqlDB, _ = db.DB()
	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConn)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConn)
	sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return err
}
