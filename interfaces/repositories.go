package interfaces

import (
	"context"

	"github.com/inboxpulse/inboxpulse/internal/models"
)

type ScanRecordRepository interface {
	Create(ctx context.Context, record *models.ScanRecord) error
	GetLatest(ctx context.Context) (*models.ScanRecord, error)
	DeleteOlderThan(ctx context.Context, days int) error
}
