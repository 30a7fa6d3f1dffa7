package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/models"
	"github.com/inboxpulse/inboxpulse/internal/tracing"
	"github.com/inboxpulse/inboxpulse/internal/utils"
)

type scanRecordRepository struct {
	db *gorm.DB
}

func NewScanRecordRepository(db *gorm.DB) interfaces.ScanRecordRepository {
	return &scanRecordRepository{db: db}
}

// Create persists the audit row for one scan attempt
func (r *scanRecordRepository) Create(ctx context.Context, record *models.ScanRecord) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "scanRecordRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if record.ID == "" {
		record.ID = utils.GenerateUUID()
	}

	result := r.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to create scan record: %w", result.Error)
	}

	return nil
}

// GetLatest returns the most recent scan record, or nil when none exist
func (r *scanRecordRepository) GetLatest(ctx context.Context) (*models.ScanRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "scanRecordRepository.GetLatest")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var record models.ScanRecord
	result := r.db.WithContext(ctx).
		Order("finished_at DESC").
		First(&record)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		tracing.TraceErr(span, result.Error)
		return nil, fmt.Errorf("failed to get latest scan record: %w", result.Error)
	}

	return &record, nil
}

// DeleteOlderThan prunes audit rows older than the retention window
func (r *scanRecordRepository) DeleteOlderThan(ctx context.Context, days int) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "scanRecordRepository.DeleteOlderThan")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	cutoff := time.Now().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).
		Where("finished_at < ?", cutoff).
		Delete(&models.ScanRecord{})

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to prune scan records: %w", result.Error)
	}

	return nil
}
