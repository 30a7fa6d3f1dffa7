package unread

import (
	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/enum"
)

// LabelCounts is the result of one full aggregation pass.
type LabelCounts struct {
	User        map[string]int
	System      map[string]int
	Archive     int
	ThreadCount int
}

// AggregateThreadCounts folds message metadata into per-label counts of
// distinct unread threads. A thread's label set is the union of the labels of
// every message sharing its thread id, and the thread contributes at most one
// unit per label no matter how many of its messages carry that label. Threads
// whose accumulated set intersects none of the archive exclusions count
// toward the archive bucket. Messages without a thread id are skipped.
func AggregateThreadCounts(metas []*interfaces.MessageMeta) LabelCounts {
	threads := make(map[string]map[string]struct{})
	for _, meta := range metas {
		if meta == nil || meta.ThreadID == "" {
			continue
		}
		labels := threads[meta.ThreadID]
		if labels == nil {
			labels = make(map[string]struct{})
			threads[meta.ThreadID] = labels
		}
		for _, labelID := range meta.LabelIDs {
			labels[labelID] = struct{}{}
		}
	}

	counts := LabelCounts{
		User:        make(map[string]int),
		System:      make(map[string]int),
		ThreadCount: len(threads),
	}
	for _, labels := range threads {
		archived := true
		for labelID := range labels {
			if enum.IsSystemLabel(labelID) {
				counts.System[labelID]++
			} else {
				counts.User[labelID]++
			}
			if enum.IsArchiveExcluded(labelID) {
				archived = false
			}
		}
		if archived {
			counts.Archive++
		}
	}
	return counts
}
