package unread

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inboxpulse/inboxpulse/config"
	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/enum"
	"github.com/inboxpulse/inboxpulse/internal/logger"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func getScanConfig() *config.ScanConfig {
	return &config.ScanConfig{
		LookbackDays: 7,
		MaxMessages:  1000,
		PageSize:     500,
		BatchSize:    10,
		BatchDelayMs: 0,
	}
}

type fakeTokenProvider struct {
	token string
	ok    bool
}

func (p *fakeTokenProvider) AccessToken(ctx context.Context) (string, bool) {
	return p.token, p.ok
}

type fakeGmailClient struct {
	mu          sync.Mutex
	pages       []*interfaces.MessagePage
	pageErrs    map[int]error
	pageCalls   int
	pageSizes   []int64
	metas       map[string]*interfaces.MessageMeta
	metaCalls   []string
	inflight    int
	maxInflight int
	listGate    chan struct{}
}

func (f *fakeGmailClient) ListMessagePage(ctx context.Context, query string, pageSize int64, pageToken string) (*interfaces.MessagePage, error) {
	if f.listGate != nil {
		<-f.listGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.pageCalls
	f.pageCalls++
	f.pageSizes = append(f.pageSizes, pageSize)
	if err := f.pageErrs[call]; err != nil {
		return nil, err
	}
	if call >= len(f.pages) {
		return &interfaces.MessagePage{}, nil
	}
	return f.pages[call], nil
}

func (f *fakeGmailClient) GetMessageMeta(ctx context.Context, messageID string) (*interfaces.MessageMeta, error) {
	f.mu.Lock()
	f.inflight++
	if f.inflight > f.maxInflight {
		f.maxInflight = f.inflight
	}
	f.metaCalls = append(f.metaCalls, messageID)
	f.mu.Unlock()

	time.Sleep(time.Millisecond)

	f.mu.Lock()
	f.inflight--
	meta := f.metas[messageID]
	f.mu.Unlock()

	if meta == nil {
		return nil, fmt.Errorf("message %s not found", messageID)
	}
	return meta, nil
}

func singlePageClient(metas ...*interfaces.MessageMeta) *fakeGmailClient {
	client := &fakeGmailClient{metas: map[string]*interfaces.MessageMeta{}}
	ids := make([]string, 0, len(metas))
	for _, meta := range metas {
		ids = append(ids, meta.ID)
		client.metas[meta.ID] = meta
	}
	client.pages = []*interfaces.MessagePage{{MessageIDs: ids}}
	return client
}

func TestRefresh_ReplacesCountsWholesale(t *testing.T) {
	// Arrange
	client := singlePageClient(
		&interfaces.MessageMeta{ID: "m1", ThreadID: "t1", LabelIDs: []string{"INBOX", "ProjectX"}},
		&interfaces.MessageMeta{ID: "m2", ThreadID: "t1", LabelIDs: []string{"INBOX"}},
		&interfaces.MessageMeta{ID: "m3", ThreadID: "t2", LabelIDs: []string{"ProjectX"}},
	)
	svc := NewUnreadCounterService(getScanConfig(), getLogger(), client, &fakeTokenProvider{token: "token", ok: true}, nil, nil)

	// Act
	started := svc.Refresh(context.Background())

	// Assert
	assert.True(t, started)
	snapshot := svc.Snapshot()
	assert.False(t, snapshot.Loading)
	assert.Empty(t, snapshot.Error)
	assert.Equal(t, 3, snapshot.ScannedMessages)
	assert.Equal(t, 1, snapshot.SystemLabelCounts["INBOX"])
	assert.Equal(t, 2, snapshot.UserLabelCounts["ProjectX"])
	assert.Equal(t, 1, snapshot.ArchiveCount)
	assert.NotNil(t, snapshot.LastScanAt)
}

func TestRefresh_DroppedWhileScanInProgress(t *testing.T) {
	// Arrange - listing blocks until the gate opens
	client := singlePageClient(&interfaces.MessageMeta{ID: "m1", ThreadID: "t1", LabelIDs: []string{"INBOX"}})
	client.listGate = make(chan struct{})
	svc := NewUnreadCounterService(getScanConfig(), getLogger(), client, &fakeTokenProvider{token: "token", ok: true}, nil, nil)

	firstDone := make(chan bool, 1)
	go func() {
		firstDone <- svc.Refresh(context.Background())
	}()

	// Wait until the first scan is visibly in flight
	assert.Eventually(t, func() bool {
		return svc.Snapshot().Loading
	}, time.Second, time.Millisecond)

	// Act - second refresh while the first is still scanning
	second := svc.Refresh(context.Background())

	// Assert - dropped, not queued
	assert.False(t, second)

	close(client.listGate)
	assert.True(t, <-firstDone)
	assert.Equal(t, 1, client.pageCalls)
}

func TestRefresh_CredentialFailureKeepsPreviousCounts(t *testing.T) {
	// Arrange - first scan succeeds, then the credential disappears
	client := singlePageClient(&interfaces.MessageMeta{ID: "m1", ThreadID: "t1", LabelIDs: []string{"INBOX"}})
	tokens := &fakeTokenProvider{token: "token", ok: true}
	svc := NewUnreadCounterService(getScanConfig(), getLogger(), client, tokens, nil, nil)
	svc.Refresh(context.Background())

	tokens.ok = false

	// Act
	started := svc.Refresh(context.Background())

	// Assert - error surfaced, counts untouched
	assert.True(t, started)
	snapshot := svc.Snapshot()
	assert.NotEmpty(t, snapshot.Error)
	assert.False(t, snapshot.Loading)
	assert.Equal(t, 1, snapshot.SystemLabelCounts["INBOX"])
}

func TestRefresh_SuccessClearsPreviousError(t *testing.T) {
	client := singlePageClient(&interfaces.MessageMeta{ID: "m1", ThreadID: "t1", LabelIDs: []string{"INBOX"}})
	tokens := &fakeTokenProvider{}
	svc := NewUnreadCounterService(getScanConfig(), getLogger(), client, tokens, nil, nil)

	svc.Refresh(context.Background())
	assert.NotEmpty(t, svc.Snapshot().Error)

	tokens.token = "token"
	tokens.ok = true
	svc.Refresh(context.Background())

	assert.Empty(t, svc.Snapshot().Error)
}

func TestApplyLabelDelta_IncrementAndDecrement(t *testing.T) {
	svc := NewUnreadCounterService(getScanConfig(), getLogger(), &fakeGmailClient{}, &fakeTokenProvider{}, nil, nil)
	ctx := context.Background()

	svc.ApplyLabelDelta(ctx, enum.CountIncrease, []string{"INBOX", "ProjectX"})
	svc.ApplyLabelDelta(ctx, enum.CountIncrease, []string{"ProjectX"})

	snapshot := svc.Snapshot()
	assert.Equal(t, 1, snapshot.SystemLabelCounts["INBOX"])
	assert.Equal(t, 2, snapshot.UserLabelCounts["ProjectX"])

	svc.ApplyLabelDelta(ctx, enum.CountDecrease, []string{"INBOX", "ProjectX"})

	snapshot = svc.Snapshot()
	assert.Equal(t, 0, snapshot.SystemLabelCounts["INBOX"])
	assert.Equal(t, 1, snapshot.UserLabelCounts["ProjectX"])
}

func TestApplyLabelDelta_ClampsAtZero(t *testing.T) {
	svc := NewUnreadCounterService(getScanConfig(), getLogger(), &fakeGmailClient{}, &fakeTokenProvider{}, nil, nil)
	ctx := context.Background()

	svc.ApplyLabelDelta(ctx, enum.CountDecrease, []string{"ProjectX"})

	assert.Equal(t, 0, svc.Snapshot().UserLabelCounts["ProjectX"])
}

func TestApplyLabelDelta_ArchiveMovesOnlyWithoutExcludedLabels(t *testing.T) {
	svc := NewUnreadCounterService(getScanConfig(), getLogger(), &fakeGmailClient{}, &fakeTokenProvider{}, nil, nil)
	ctx := context.Background()

	// User-only labels move the archive
	svc.ApplyLabelDelta(ctx, enum.CountIncrease, []string{"ProjectX"})
	assert.Equal(t, 1, svc.Snapshot().ArchiveCount)

	// An excluded label pins it
	svc.ApplyLabelDelta(ctx, enum.CountIncrease, []string{"INBOX"})
	assert.Equal(t, 1, svc.Snapshot().ArchiveCount)

	svc.ApplyLabelDelta(ctx, enum.CountIncrease, []string{"CATEGORY_PROMOTIONS", "Newsletters"})
	assert.Equal(t, 1, svc.Snapshot().ArchiveCount)

	// An empty label list still moves it
	svc.ApplyLabelDelta(ctx, enum.CountIncrease, nil)
	assert.Equal(t, 2, svc.Snapshot().ArchiveCount)

	svc.ApplyLabelDelta(ctx, enum.CountDecrease, []string{"ProjectX"})
	assert.Equal(t, 1, svc.Snapshot().ArchiveCount)
}

func TestApplyLabelDelta_ArchiveClampsAtZero(t *testing.T) {
	svc := NewUnreadCounterService(getScanConfig(), getLogger(), &fakeGmailClient{}, &fakeTokenProvider{}, nil, nil)

	svc.ApplyLabelDelta(context.Background(), enum.CountDecrease, []string{"ProjectX"})

	assert.Equal(t, 0, svc.Snapshot().ArchiveCount)
}

func TestRefresh_OverwritesDeltasAppliedBefore(t *testing.T) {
	// Arrange - drift the counts with deltas, then scan
	client := singlePageClient(&interfaces.MessageMeta{ID: "m1", ThreadID: "t1", LabelIDs: []string{"INBOX"}})
	svc := NewUnreadCounterService(getScanConfig(), getLogger(), client, &fakeTokenProvider{token: "token", ok: true}, nil, nil)
	ctx := context.Background()

	svc.ApplyLabelDelta(ctx, enum.CountIncrease, []string{"INBOX"})
	svc.ApplyLabelDelta(ctx, enum.CountIncrease, []string{"INBOX"})
	svc.ApplyLabelDelta(ctx, enum.CountIncrease, []string{"ProjectX"})

	// Act
	svc.Refresh(ctx)

	// Assert - the scan result replaces the drifted state
	snapshot := svc.Snapshot()
	assert.Equal(t, 1, snapshot.SystemLabelCounts["INBOX"])
	assert.Equal(t, 0, snapshot.UserLabelCounts["ProjectX"])
}

func TestSnapshot_ReturnsIndependentCopy(t *testing.T) {
	svc := NewUnreadCounterService(getScanConfig(), getLogger(), &fakeGmailClient{}, &fakeTokenProvider{}, nil, nil)
	ctx := context.Background()
	svc.ApplyLabelDelta(ctx, enum.CountIncrease, []string{"ProjectX"})

	snapshot := svc.Snapshot()
	snapshot.UserLabelCounts["ProjectX"] = 100

	assert.Equal(t, 1, svc.Snapshot().UserLabelCounts["ProjectX"])
}
