package models

import (
	"time"

	"github.com/inboxpulse/inboxpulse/internal/enum"
)

// ScanRecord is the audit row written after every scan attempt. It is
// operational history only; counts are never restored from it.
type ScanRecord struct {
	ID              string          `gorm:"column:id;type:uuid;primaryKey"`
	Status          enum.ScanStatus `gorm:"column:status;type:varchar(20);index;not null"`
	StartedAt       time.Time       `gorm:"column:started_at;type:timestamp;not null"`
	FinishedAt      time.Time       `gorm:"column:finished_at;type:timestamp;not null"`
	ScannedMessages int             `gorm:"column:scanned_messages;not null"`
	ThreadCount     int             `gorm:"column:thread_count;not null"`
	ArchiveCount    int             `gorm:"column:archive_count;not null"`
	Error           string          `gorm:"column:error;type:text"`
	CreatedAt       time.Time       `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
}

func (ScanRecord) TableName() string {
	return "scan_records"
}
