package interfaces

import (
	"context"
	"time"

	"github.com/inboxpulse/inboxpulse/internal/enum"
)

// UnreadSnapshot is the read-only view of the materialized counts exposed to
// API consumers. Maps are copies; mutating them does not affect the engine.
type UnreadSnapshot struct {
	UserLabelCounts   map[string]int `json:"userLabelCounts"`
	SystemLabelCounts map[string]int `json:"systemLabelCounts"`
	ArchiveCount      int            `json:"archiveCount"`
	Loading           bool           `json:"loading"`
	Error             string         `json:"error,omitempty"`
	LastScanAt        *time.Time     `json:"lastScanAt,omitempty"`
	ScannedMessages   int            `json:"scannedMessages"`
}

type UnreadCounterService interface {
	// Start runs the initial scan and keeps the counter attached for the
	// lifetime of the service.
	Start(ctx context.Context)
	// Refresh triggers a full scan. Returns false when a scan is already in
	// flight and the call was dropped.
	Refresh(ctx context.Context) bool
	Snapshot() UnreadSnapshot
	// ApplyLabelDelta patches the materialized counts in place for a single
	// observed label change.
	ApplyLabelDelta(ctx context.Context, direction enum.CountDirection, labelIDs []string)
}
