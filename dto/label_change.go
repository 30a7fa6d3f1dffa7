package dto

// LabelsChanged is emitted by the mailbox watcher whenever labels are added to
// or removed from an unread thread. Direction is "increase" or "decrease".
type LabelsChanged struct {
	Direction string   `json:"direction"`
	LabelIds  []string `json:"labelIds"`
}

// UnreadCountsUpdated is published on the fanout exchange after every
// completed scan so downstream consumers can refresh their caches.
type UnreadCountsUpdated struct {
	UserLabelCounts   map[string]int `json:"userLabelCounts"`
	SystemLabelCounts map[string]int `json:"systemLabelCounts"`
	ArchiveCount      int            `json:"archiveCount"`
	ScannedMessages   int            `json:"scannedMessages"`
}
