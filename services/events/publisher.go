package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"github.com/inboxpulse/inboxpulse/dto"
	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/logger"
	"github.com/inboxpulse/inboxpulse/internal/tracing"
	"github.com/inboxpulse/inboxpulse/internal/utils"
)

const (
	// Exchange names
	ExchangeInboxpulseFanout = "inboxpulse-fanout"
	ExchangeInboxpulseDirect = "inboxpulse-direct"
	ExchangeDeadLetter       = "dead-letter"

	// queues
	QueueLabelChange = "label-change"
	DLQLabelChange   = QueueLabelChange + "-dlq"

	// routing keys
	RoutingKeyDeadLetter  = "dead-letter"
	RoutingKeyLabelChange = "label-change"

	// entity types carried on the event envelope
	EntityTypeUnreadCounts = "UNREAD_COUNTS"

	// event types
	EventUnreadCountsUpdated = "UnreadCountsUpdated"

	// Default configurations
	DefaultMessageTTL          = 240 * time.Hour // after TTL message moves to DLQ
	DefaultMaxRetries          = 3
	DefaultPublishTimeout      = 5 * time.Second
	DefaultReconnectBackoff    = time.Second
	DefaultMaxReconnectBackoff = 30 * time.Second
)

type PublisherConfig struct {
	MessageTTL          time.Duration
	MaxRetries          int
	PublishTimeout      time.Duration
	ReconnectBackoff    time.Duration
	MaxReconnectBackoff time.Duration
}

type RabbitMQPublisher struct {
	connection      *amqp091.Connection
	connectionMutex sync.Mutex
	publishChannel  *amqp091.Channel
	publishMutex    sync.Mutex
	url             string
	logger          logger.Logger
	config          PublisherConfig
}

func NewRabbitMQPublisher(rabbitmqURL string, logger logger.Logger, config *PublisherConfig) (*RabbitMQPublisher, error) {
	if config == nil {
		config = &PublisherConfig{
			MessageTTL:          DefaultMessageTTL,
			MaxRetries:          DefaultMaxRetries,
			PublishTimeout:      DefaultPublishTimeout,
			ReconnectBackoff:    DefaultReconnectBackoff,
			MaxReconnectBackoff: DefaultMaxReconnectBackoff,
		}
	}

	publisher := &RabbitMQPublisher{
		url:    rabbitmqURL,
		logger: logger,
		config: *config,
	}

	err := publisher.connect()
	if err != nil {
		return nil, err
	}

	return publisher, nil
}

// PublishUnreadCountsUpdated fans out the post-scan counts so downstream
// consumers can refresh their caches.
func (r *RabbitMQPublisher) PublishUnreadCountsUpdated(ctx context.Context, snapshot interfaces.UnreadSnapshot) error {
	message := dto.UnreadCountsUpdated{
		UserLabelCounts:   snapshot.UserLabelCounts,
		SystemLabelCounts: snapshot.SystemLabelCounts,
		ArchiveCount:      snapshot.ArchiveCount,
		ScannedMessages:   snapshot.ScannedMessages,
	}
	return r.publishEventOnExchange(ctx, utils.GenerateNanoID(), EntityTypeUnreadCounts, EventUnreadCountsUpdated, message, ExchangeInboxpulseFanout, "")
}

func (r *RabbitMQPublisher) publishEventOnExchange(ctx context.Context, entityId, entityType, eventType string, message interface{}, exchange, routingKey string) error {
	span, ctx := tracing.StartTracerSpan(ctx, "RabbitMQPublisher.publishEventOnExchange")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("exchange", exchange)
	span.SetTag("event_type", eventType)

	event := dto.Event{
		Event: dto.EventDetails{
			Id:         utils.GenerateNanoID(),
			Tenant:     utils.GetTenantFromContext(ctx),
			EntityId:   entityId,
			EntityType: entityType,
			EventType:  eventType,
			Data:       message,
		},
		Metadata: dto.EventMetadata{
			UberTraceId: tracing.GetTraceId(span),
			AppSource:   utils.GetAppSourceFromContext(ctx),
			UserId:      utils.GetUserIdFromContext(ctx),
			UserEmail:   utils.GetUserEmailFromContext(ctx),
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		},
	}

	body, err := json.Marshal(event)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to marshal event")
	}

	channel, err := r.getPublishChannel()
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, r.config.PublishTimeout)
	defer cancel()

	err = channel.PublishWithContext(
		publishCtx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to publish event")
	}

	return nil
}

func (r *RabbitMQPublisher) getPublishChannel() (*amqp091.Channel, error) {
	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()

	if r.publishChannel != nil && !r.publishChannel.IsClosed() {
		return r.publishChannel, nil
	}

	channel, err := r.connection.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open publish channel")
	}
	r.publishChannel = channel
	return channel, nil
}

func (r *RabbitMQPublisher) connect() error {
	r.connectionMutex.Lock()
	defer r.connectionMutex.Unlock()

	var err error
	r.connection, err = amqp091.Dial(r.url)
	if err != nil {
		return errors.Wrap(err, "Failed to connect to RabbitMQ")
	}

	go func() {
		notifyClose := r.connection.NotifyClose(make(chan *amqp091.Error))
		<-notifyClose
		r.logger.Warn("RabbitMQ connection closed, attempting to reconnect")
		_ = r.connect()
	}()

	return nil
}

func (r *RabbitMQPublisher) Close() error {
	r.connectionMutex.Lock()
	defer r.connectionMutex.Unlock()

	if r.connection != nil && !r.connection.IsClosed() {
		return r.connection.Close()
	}
	return nil
}
