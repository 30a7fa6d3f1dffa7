package interfaces

import "context"

// MessagePage is a single page of a mailbox search.
type MessagePage struct {
	MessageIDs    []string
	NextPageToken string
}

// MessageMeta carries the label-bearing metadata of one message.
type MessageMeta struct {
	ID       string
	ThreadID string
	LabelIDs []string
}

// GmailClient is the narrow Gmail surface required by the unread counter.
type GmailClient interface {
	ListMessagePage(ctx context.Context, query string, pageSize int64, pageToken string) (*MessagePage, error)
	GetMessageMeta(ctx context.Context, messageID string) (*MessageMeta, error)
}

// TokenProvider supplies the current access token for the scanned mailbox.
// ok is false when no usable credential is available.
type TokenProvider interface {
	AccessToken(ctx context.Context) (token string, ok bool)
}
