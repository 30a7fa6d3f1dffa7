package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/logger"
	"github.com/inboxpulse/inboxpulse/internal/tracing"
	"github.com/inboxpulse/inboxpulse/internal/utils"
)

// GetUnreadCounts returns the current materialized counts snapshot
func GetUnreadCounts(counter interfaces.UnreadCounterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, counter.Snapshot())
	}
}

// RefreshUnreadCounts triggers a full rescan. The scan runs detached from
// the request; a refresh that lands while a scan is already in flight is
// dropped and reported as not accepted.
func RefreshUnreadCounts(counter interfaces.UnreadCounterService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		scanCtx := utils.WithCustomContext(context.Background(), utils.GetContext(c.Request.Context()))

		go func() {
			defer tracing.RecoverAndLogToJaeger(log)
			counter.Refresh(scanCtx)
		}()

		c.JSON(http.StatusAccepted, gin.H{
			"accepted": true,
		})
	}
}
