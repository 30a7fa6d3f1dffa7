package enum

// Gmail built-in label identifiers.
const (
	LabelInbox     = "INBOX"
	LabelSent      = "SENT"
	LabelDraft     = "DRAFT"
	LabelTrash     = "TRASH"
	LabelSpam      = "SPAM"
	LabelStarred   = "STARRED"
	LabelImportant = "IMPORTANT"

	CategoryForums     = "CATEGORY_FORUMS"
	CategoryUpdates    = "CATEGORY_UPDATES"
	CategoryPromotions = "CATEGORY_PROMOTIONS"
	CategorySocial     = "CATEGORY_SOCIAL"
)

// SystemLabels is the closed set of built-in mailbox labels. Threads are
// counted against these buckets separately from user-defined labels.
var SystemLabels = map[string]bool{
	LabelInbox:     true,
	LabelSent:      true,
	LabelDraft:     true,
	LabelTrash:     true,
	LabelSpam:      true,
	LabelStarred:   true,
	LabelImportant: true,
}

// ArchiveExclusions is the set of labels that disqualify a thread from the
// archive bucket: every system label plus the fixed category labels. A thread
// belongs to the archive only when it carries none of these.
var ArchiveExclusions = map[string]bool{
	LabelInbox:         true,
	LabelSent:          true,
	LabelDraft:         true,
	LabelTrash:         true,
	LabelSpam:          true,
	LabelStarred:       true,
	LabelImportant:     true,
	CategoryForums:     true,
	CategoryUpdates:    true,
	CategoryPromotions: true,
	CategorySocial:     true,
}

func IsSystemLabel(labelID string) bool {
	return SystemLabels[labelID]
}

func IsArchiveExcluded(labelID string) bool {
	return ArchiveExclusions[labelID]
}
