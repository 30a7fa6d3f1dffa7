package services

import (
	"github.com/inboxpulse/inboxpulse/config"
	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/logger"
	"github.com/inboxpulse/inboxpulse/internal/repository"
	"github.com/inboxpulse/inboxpulse/services/events"
	"github.com/inboxpulse/inboxpulse/services/gmail"
	"github.com/inboxpulse/inboxpulse/services/unread"
)

type Services struct {
	EventsService        *events.EventsService
	GmailClient          interfaces.GmailClient
	TokenProvider        interfaces.TokenProvider
	UnreadCounterService interfaces.UnreadCounterService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	// events
	var eventsService *events.EventsService
	var publisher interfaces.EventsPublisher
	if cfg.AppConfig.RabbitMQURL != "" {
		publisherConfig := &events.PublisherConfig{
			MessageTTL:          events.DefaultMessageTTL,
			MaxRetries:          events.DefaultMaxRetries,
			PublishTimeout:      events.DefaultPublishTimeout,
			ReconnectBackoff:    events.DefaultReconnectBackoff,
			MaxReconnectBackoff: events.DefaultMaxReconnectBackoff,
		}

		subscriberConfig := &events.SubscriberConfig{
			MaxRetries:          events.DefaultMaxRetries,
			ReconnectBackoff:    events.DefaultReconnectBackoff,
			MaxReconnectBackoff: events.DefaultMaxReconnectBackoff,
		}

		svc, err := events.NewEventsService(cfg.AppConfig.RabbitMQURL, log, publisherConfig, subscriberConfig)
		if err != nil {
			return nil, err
		}
		eventsService = svc
		publisher = svc.Publisher
	} else {
		log.Warn("RabbitMQ URL not configured, live label-change updates disabled")
	}

	var scanRecords interfaces.ScanRecordRepository
	if repos != nil {
		scanRecords = repos.ScanRecordRepository
	}

	tokenProvider := gmail.NewTokenProvider(cfg.GmailConfig)
	gmailClient := gmail.NewGmailService(tokenProvider, log)
	counter := unread.NewUnreadCounterService(cfg.ScanConfig, log, gmailClient, tokenProvider, publisher, scanRecords)

	services := Services{
		EventsService:        eventsService,
		GmailClient:          gmailClient,
		TokenProvider:        tokenProvider,
		UnreadCounterService: counter,
	}

	return &services, nil
}
