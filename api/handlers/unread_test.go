package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

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

type fakeCounter struct {
	snapshot  interfaces.UnreadSnapshot
	refreshed chan struct{}
}

func (f *fakeCounter) Start(ctx context.Context) {}

func (f *fakeCounter) Refresh(ctx context.Context) bool {
	if f.refreshed != nil {
		close(f.refreshed)
	}
	return true
}

func (f *fakeCounter) Snapshot() interfaces.UnreadSnapshot {
	return f.snapshot
}

func (f *fakeCounter) ApplyLabelDelta(ctx context.Context, direction enum.CountDirection, labelIDs []string) {
}

func TestGetUnreadCounts(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	counter := &fakeCounter{snapshot: interfaces.UnreadSnapshot{
		UserLabelCounts:   map[string]int{"ProjectX": 2},
		SystemLabelCounts: map[string]int{"INBOX": 5},
		ArchiveCount:      3,
		ScannedMessages:   42,
	}}
	router := gin.New()
	router.GET("/v1/unread", GetUnreadCounts(counter))

	// Act
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/unread", nil)
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	var body interfaces.UnreadSnapshot
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 5, body.SystemLabelCounts["INBOX"])
	assert.Equal(t, 2, body.UserLabelCounts["ProjectX"])
	assert.Equal(t, 3, body.ArchiveCount)
	assert.Equal(t, 42, body.ScannedMessages)
}

func TestRefreshUnreadCounts_RespondsAcceptedWithoutWaiting(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	counter := &fakeCounter{refreshed: make(chan struct{})}
	router := gin.New()
	router.POST("/v1/unread/refresh", RefreshUnreadCounts(counter, getLogger()))

	// Act
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/unread/refresh", nil)
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"accepted": true}`, w.Body.String())

	select {
	case <-counter.refreshed:
	case <-time.After(time.Second):
		t.Error("Refresh was never triggered")
	}
}
