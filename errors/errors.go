package inboxpulse_errors

import "github.com/pkg/errors"

var (
	// common errors
	ErrTenantNotSet = errors.New("tenant not set on context")

	// scan errors
	ErrNoCredential   = errors.New("no access token available")
	ErrScanInProgress = errors.New("scan already in progress")

	// gmail errors
	ErrMessageNotFound = errors.New("gmail message not found")
)
