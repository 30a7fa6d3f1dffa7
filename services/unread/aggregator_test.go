package unread

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inboxpulse/inboxpulse/interfaces"
)

func TestAggregateThreadCounts_ThreadCountedOncePerLabel(t *testing.T) {
	// Arrange - five messages in the same thread, all carrying the same labels
	metas := []*interfaces.MessageMeta{}
	for i := 0; i < 5; i++ {
		metas = append(metas, &interfaces.MessageMeta{
			ID:       "m" + string(rune('a'+i)),
			ThreadID: "thread-1",
			LabelIDs: []string{"INBOX", "ProjectX"},
		})
	}

	// Act
	counts := AggregateThreadCounts(metas)

	// Assert - one thread, one unit per label
	assert.Equal(t, 1, counts.ThreadCount)
	assert.Equal(t, 1, counts.System["INBOX"])
	assert.Equal(t, 1, counts.User["ProjectX"])
}

func TestAggregateThreadCounts_LabelSetIsUnionAcrossMessages(t *testing.T) {
	// Arrange - messages of one thread carry different labels
	metas := []*interfaces.MessageMeta{
		{ID: "m1", ThreadID: "thread-1", LabelIDs: []string{"INBOX"}},
		{ID: "m2", ThreadID: "thread-1", LabelIDs: []string{"ProjectX"}},
		{ID: "m3", ThreadID: "thread-1", LabelIDs: []string{"ProjectX", "STARRED"}},
	}

	// Act
	counts := AggregateThreadCounts(metas)

	// Assert
	assert.Equal(t, 1, counts.ThreadCount)
	assert.Equal(t, 1, counts.System["INBOX"])
	assert.Equal(t, 1, counts.System["STARRED"])
	assert.Equal(t, 1, counts.User["ProjectX"])
}

func TestAggregateThreadCounts_SystemAndUserBucketsSeparated(t *testing.T) {
	metas := []*interfaces.MessageMeta{
		{ID: "m1", ThreadID: "t1", LabelIDs: []string{"INBOX", "Work"}},
		{ID: "m2", ThreadID: "t2", LabelIDs: []string{"INBOX"}},
		{ID: "m3", ThreadID: "t3", LabelIDs: []string{"Work"}},
	}

	counts := AggregateThreadCounts(metas)

	assert.Equal(t, 2, counts.System["INBOX"])
	assert.Equal(t, 2, counts.User["Work"])
	assert.Equal(t, 0, counts.User["INBOX"])
	assert.Equal(t, 0, counts.System["Work"])
}

func TestAggregateThreadCounts_ArchiveCountsThreadsWithoutExclusions(t *testing.T) {
	// Arrange - one archived thread, one inboxed, one categorized
	metas := []*interfaces.MessageMeta{
		{ID: "m1", ThreadID: "archived", LabelIDs: []string{"ProjectX"}},
		{ID: "m2", ThreadID: "inboxed", LabelIDs: []string{"INBOX", "ProjectX"}},
		{ID: "m3", ThreadID: "promo", LabelIDs: []string{"CATEGORY_PROMOTIONS"}},
	}

	// Act
	counts := AggregateThreadCounts(metas)

	// Assert - only the thread carrying no excluded label is archived
	assert.Equal(t, 1, counts.Archive)
	assert.Equal(t, 2, counts.User["ProjectX"])
}

func TestAggregateThreadCounts_ThreadWithNoLabelsIsArchived(t *testing.T) {
	metas := []*interfaces.MessageMeta{
		{ID: "m1", ThreadID: "bare", LabelIDs: nil},
	}

	counts := AggregateThreadCounts(metas)

	assert.Equal(t, 1, counts.ThreadCount)
	assert.Equal(t, 1, counts.Archive)
}

func TestAggregateThreadCounts_SkipsMessagesWithoutThreadId(t *testing.T) {
	metas := []*interfaces.MessageMeta{
		{ID: "m1", ThreadID: "", LabelIDs: []string{"INBOX"}},
		nil,
		{ID: "m2", ThreadID: "t1", LabelIDs: []string{"INBOX"}},
	}

	counts := AggregateThreadCounts(metas)

	assert.Equal(t, 1, counts.ThreadCount)
	assert.Equal(t, 1, counts.System["INBOX"])
}

func TestAggregateThreadCounts_EmptyInput(t *testing.T) {
	counts := AggregateThreadCounts(nil)

	assert.Equal(t, 0, counts.ThreadCount)
	assert.Equal(t, 0, counts.Archive)
	assert.Empty(t, counts.User)
	assert.Empty(t, counts.System)
}
