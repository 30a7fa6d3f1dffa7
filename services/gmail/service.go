package gmail

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	inboxpulse_errors "github.com/inboxpulse/inboxpulse/errors"
	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/logger"
)

// Gmail API quota units, see https://developers.google.com/gmail/api/reference/quota
const (
	quotaUnitsPerMessagesList = 5
	quotaUnitsPerMessagesGet  = 5

	quotaUnitsPerSecond = 250
	rateLimitPerSecond  = quotaUnitsPerSecond * 0.8
	rateLimitBurst      = quotaUnitsPerSecond
)

// GmailService provides the read-only Gmail surface used by the unread
// counter. A fresh API client is built per call from the current token so a
// rotated credential is picked up without restarting.
type GmailService struct {
	tokens  interfaces.TokenProvider
	limiter *rate.Limiter
	log     logger.Logger
}

func NewGmailService(tokens interfaces.TokenProvider, log logger.Logger) interfaces.GmailClient {
	return &GmailService{
		tokens:  tokens,
		limiter: rate.NewLimiter(rateLimitPerSecond, rateLimitBurst),
		log:     log,
	}
}

func (s *GmailService) service(ctx context.Context) (*gmailv1.Service, error) {
	token, ok := s.tokens.AccessToken(ctx)
	if !ok {
		return nil, inboxpulse_errors.ErrNoCredential
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	svc, err := gmailv1.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, errors.Wrap(err, "create gmail service")
	}
	return svc, nil
}

func (s *GmailService) ListMessagePage(ctx context.Context, query string, pageSize int64, pageToken string) (*interfaces.MessagePage, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.WaitN(ctx, quotaUnitsPerMessagesList); err != nil {
		return nil, err
	}

	call := svc.Users.Messages.List("me").Q(query).MaxResults(pageSize).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, errors.Wrap(err, "listing messages from gmail")
	}

	page := &interfaces.MessagePage{
		MessageIDs:    make([]string, 0, len(resp.Messages)),
		NextPageToken: resp.NextPageToken,
	}
	for _, msg := range resp.Messages {
		page.MessageIDs = append(page.MessageIDs, msg.Id)
	}
	return page, nil
}

func (s *GmailService) GetMessageMeta(ctx context.Context, messageID string) (*interfaces.MessageMeta, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.WaitN(ctx, quotaUnitsPerMessagesGet); err != nil {
		return nil, err
	}

	msg, err := svc.Users.Messages.Get("me", messageID).
		Format("minimal").
		Fields("id", "threadId", "labelIds").
		Context(ctx).
		Do()
	if err != nil {
		if gerr, ok := errors.Cause(err).(*googleapi.Error); ok && gerr.Code == http.StatusNotFound {
			return nil, errors.Wrapf(inboxpulse_errors.ErrMessageNotFound, "message %s", messageID)
		}
		return nil, errors.Wrapf(err, "getting message %v from gmail", messageID)
	}

	return &interfaces.MessageMeta{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		LabelIDs: msg.LabelIds,
	}, nil
}
