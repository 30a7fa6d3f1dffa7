package unread

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/inboxpulse/inboxpulse/config"
	inboxpulse_errors "github.com/inboxpulse/inboxpulse/errors"
	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/enum"
	"github.com/inboxpulse/inboxpulse/internal/logger"
	"github.com/inboxpulse/inboxpulse/internal/models"
	"github.com/inboxpulse/inboxpulse/internal/tracing"
)

// UnreadCounterService materializes unread-thread counts per label. Full
// scans replace the counts wholesale; label-change deltas patch them in place
// between scans. A completed scan always wins over deltas applied while it
// was in flight, which bounds how long incremental drift can survive.
type UnreadCounterService struct {
	scanConfig  *config.ScanConfig
	log         logger.Logger
	gmail       interfaces.GmailClient
	tokens      interfaces.TokenProvider
	publisher   interfaces.EventsPublisher      // optional
	scanRecords interfaces.ScanRecordRepository // optional

	mu         sync.Mutex
	scanning   bool
	loading    bool
	scanErr    string
	user       map[string]int
	system     map[string]int
	archive    int
	scanned    int
	lastScanAt *time.Time
}

func NewUnreadCounterService(
	scanConfig *config.ScanConfig,
	log logger.Logger,
	gmail interfaces.GmailClient,
	tokens interfaces.TokenProvider,
	publisher interfaces.EventsPublisher,
	scanRecords interfaces.ScanRecordRepository,
) *UnreadCounterService {
	return &UnreadCounterService{
		scanConfig:  scanConfig,
		log:         log,
		gmail:       gmail,
		tokens:      tokens,
		publisher:   publisher,
		scanRecords: scanRecords,
		user:        make(map[string]int),
		system:      make(map[string]int),
	}
}

// Start runs the initial scan. The service stays usable for deltas and
// snapshots for its whole lifetime regardless of scan outcomes.
func (s *UnreadCounterService) Start(ctx context.Context) {
	s.Refresh(ctx)
}

// Refresh triggers a full scan unless one is already in flight, in which
// case the call is dropped, not queued.
func (s *UnreadCounterService) Refresh(ctx context.Context) bool {
	if !s.beginScan() {
		s.log.Info("Scan already in progress, dropping refresh")
		return false
	}
	s.runScan(ctx)
	return true
}

func (s *UnreadCounterService) beginScan() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanning {
		return false
	}
	s.scanning = true
	s.loading = true
	return true
}

func (s *UnreadCounterService) runScan(ctx context.Context) {
	span, ctx := tracing.StartTracerSpan(ctx, "UnreadCounterService.runScan")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	startedAt := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("scan panic: %v", r)
			tracing.TraceErr(span, err)
			s.failScan(ctx, startedAt, err)
		}
	}()

	if _, ok := s.tokens.AccessToken(ctx); !ok {
		tracing.TraceErr(span, inboxpulse_errors.ErrNoCredential)
		s.failScan(ctx, startedAt, inboxpulse_errors.ErrNoCredential)
		return
	}

	ids := s.listUnreadMessageIDs(ctx)
	metas := s.fetchMessageMetas(ctx, ids)
	counts := AggregateThreadCounts(metas)

	finishedAt := time.Now()
	s.mu.Lock()
	s.user = counts.User
	s.system = counts.System
	s.archive = counts.Archive
	s.scanned = len(metas)
	s.lastScanAt = &finishedAt
	s.scanErr = ""
	s.loading = false
	s.scanning = false
	s.mu.Unlock()

	s.log.Infof("Scan completed: %d messages, %d threads, %d archived", len(metas), counts.ThreadCount, counts.Archive)

	s.recordScan(ctx, &models.ScanRecord{
		Status:          enum.ScanStatusCompleted,
		StartedAt:       startedAt,
		FinishedAt:      finishedAt,
		ScannedMessages: len(metas),
		ThreadCount:     counts.ThreadCount,
		ArchiveCount:    counts.Archive,
	})

	if s.publisher != nil {
		if err := s.publisher.PublishUnreadCountsUpdated(ctx, s.Snapshot()); err != nil {
			s.log.Errorf("Failed to publish counts update: %v", err)
		}
	}
}

// failScan surfaces the error on the snapshot and keeps the previous counts.
func (s *UnreadCounterService) failScan(ctx context.Context, startedAt time.Time, err error) {
	s.mu.Lock()
	s.scanErr = err.Error()
	s.loading = false
	s.scanning = false
	s.mu.Unlock()

	s.log.Errorf("Scan failed, keeping previous counts: %v", err)

	s.recordScan(ctx, &models.ScanRecord{
		Status:     enum.ScanStatusFailed,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Error:      err.Error(),
	})
}

// recordScan writes the audit row; best effort, never affects the scan.
func (s *UnreadCounterService) recordScan(ctx context.Context, record *models.ScanRecord) {
	if s.scanRecords == nil {
		return
	}
	if err := s.scanRecords.Create(ctx, record); err != nil {
		s.log.Errorf("Failed to record scan: %v", err)
	}
}

// ApplyLabelDelta patches the counts for one observed label change. The
// adjustment is a best-effort approximation; the next full scan overwrites
// whatever it produced.
func (s *UnreadCounterService) ApplyLabelDelta(ctx context.Context, direction enum.CountDirection, labelIDs []string) {
	delta := direction.Delta()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, labelID := range labelIDs {
		bucket := s.user
		if enum.IsSystemLabel(labelID) {
			bucket = s.system
		}
		next := bucket[labelID] + delta
		if next < 0 {
			next = 0
		}
		bucket[labelID] = next
	}

	// The archive moves only when the change touches no excluded label.
	for _, labelID := range labelIDs {
		if enum.IsArchiveExcluded(labelID) {
			return
		}
	}
	next := s.archive + delta
	if next < 0 {
		next = 0
	}
	s.archive = next
}

// Snapshot returns a copy of the materialized state.
func (s *UnreadCounterService) Snapshot() interfaces.UnreadSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := interfaces.UnreadSnapshot{
		UserLabelCounts:   make(map[string]int, len(s.user)),
		SystemLabelCounts: make(map[string]int, len(s.system)),
		ArchiveCount:      s.archive,
		Loading:           s.loading,
		Error:             s.scanErr,
		LastScanAt:        s.lastScanAt,
		ScannedMessages:   s.scanned,
	}
	for labelID, count := range s.user {
		snapshot.UserLabelCounts[labelID] = count
	}
	for labelID, count := range s.system {
		snapshot.SystemLabelCounts[labelID] = count
	}
	return snapshot
}
