package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSystemLabel(t *testing.T) {
	for _, labelID := range []string{"INBOX", "SENT", "DRAFT", "TRASH", "SPAM", "STARRED", "IMPORTANT"} {
		assert.True(t, IsSystemLabel(labelID), labelID)
	}

	assert.False(t, IsSystemLabel("ProjectX"))
	assert.False(t, IsSystemLabel("CATEGORY_PROMOTIONS"))
	assert.False(t, IsSystemLabel("inbox"))
}

func TestIsArchiveExcluded(t *testing.T) {
	// Every system label is excluded
	for labelID := range SystemLabels {
		assert.True(t, IsArchiveExcluded(labelID), labelID)
	}

	// Plus the fixed category labels
	for _, labelID := range []string{"CATEGORY_FORUMS", "CATEGORY_UPDATES", "CATEGORY_PROMOTIONS", "CATEGORY_SOCIAL"} {
		assert.True(t, IsArchiveExcluded(labelID), labelID)
	}

	assert.False(t, IsArchiveExcluded("ProjectX"))
	assert.False(t, IsArchiveExcluded("CATEGORY_PERSONAL"))
}
