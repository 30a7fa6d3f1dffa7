package unread

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"golang.org/x/sync/errgroup"

	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/tracing"
)

func (s *UnreadCounterService) unreadQuery(now time.Time) string {
	windowStart := now.AddDate(0, 0, -s.scanConfig.LookbackDays)
	return fmt.Sprintf("is:unread after:%s", windowStart.Format("2006/01/02"))
}

// listUnreadMessageIDs pages through the mailbox search until the message cap
// is reached or the server runs out of pages. A failed page request ends the
// listing early; whatever was collected so far is used.
func (s *UnreadCounterService) listUnreadMessageIDs(ctx context.Context) []string {
	span, ctx := opentracing.StartSpanFromContext(ctx, "UnreadCounterService.listUnreadMessageIDs")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	query := s.unreadQuery(time.Now())
	ids := make([]string, 0, s.scanConfig.MaxMessages)
	pageToken := ""

	for len(ids) < s.scanConfig.MaxMessages {
		pageSize := s.scanConfig.PageSize
		if remaining := int64(s.scanConfig.MaxMessages - len(ids)); remaining < pageSize {
			pageSize = remaining
		}

		page, err := s.gmail.ListMessagePage(ctx, query, pageSize, pageToken)
		if err != nil {
			s.log.Warnf("Message listing stopped early, keeping %d ids: %v", len(ids), err)
			tracing.TraceErr(span, err)
			break
		}

		ids = append(ids, page.MessageIDs...)
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(ids) > s.scanConfig.MaxMessages {
		ids = ids[:s.scanConfig.MaxMessages]
	}
	span.LogFields(tracingLog.Int("ids", len(ids)))
	return ids
}

// fetchMessageMetas resolves ids to metadata in fixed-size concurrent
// batches. Batches never overlap and are separated by the configured delay;
// the pause is quota pacing against the remote API, not a tuning knob. A
// failed id is dropped without aborting its batch.
func (s *UnreadCounterService) fetchMessageMetas(ctx context.Context, ids []string) []*interfaces.MessageMeta {
	span, ctx := opentracing.StartSpanFromContext(ctx, "UnreadCounterService.fetchMessageMetas")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	metas := make([]*interfaces.MessageMeta, 0, len(ids))
	var metasMutex sync.Mutex

	for start := 0; start < len(ids); start += s.scanConfig.BatchSize {
		end := start + s.scanConfig.BatchSize
		if end > len(ids) {
			end = len(ids)
		}

		group, groupCtx := errgroup.WithContext(ctx)
		for _, id := range ids[start:end] {
			id := id
			group.Go(func() error {
				meta, err := s.gmail.GetMessageMeta(groupCtx, id)
				if err != nil {
					s.log.Warnf("Dropping message %s from scan: %v", id, err)
					return nil
				}
				metasMutex.Lock()
				metas = append(metas, meta)
				metasMutex.Unlock()
				return nil
			})
		}
		_ = group.Wait()

		if end < len(ids) {
			time.Sleep(s.scanConfig.BatchDelay())
		}
	}

	span.LogFields(tracingLog.Int("resolved", len(metas)), tracingLog.Int("requested", len(ids)))
	return metas
}
