package listeners

import (
	"context"

	"github.com/opentracing/opentracing-go"

	"github.com/inboxpulse/inboxpulse/dto"
	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/enum"
	"github.com/inboxpulse/inboxpulse/internal/logger"
	"github.com/inboxpulse/inboxpulse/internal/tracing"
	"github.com/inboxpulse/inboxpulse/services/events"
)

// LabelChangeListener feeds label-change notifications into the unread
// counter as incremental deltas. It stays attached for the lifetime of the
// subscriber, independent of scan state.
type LabelChangeListener struct {
	events.BaseEventListener
	counter interfaces.UnreadCounterService
}

func NewLabelChangeListener(logger logger.Logger, counter interfaces.UnreadCounterService) interfaces.EventListener {
	return &LabelChangeListener{
		BaseEventListener: events.NewBaseEventListener(
			logger,
			events.GetEventType[dto.LabelsChanged](), // subscribed event
			events.QueueLabelChange,                  // listening on Direct queue
		),
		counter: counter,
	}
}

func (l *LabelChangeListener) Handle(ctx context.Context, baseEvent any) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "LabelChangeListener.Handle")
	defer span.Finish()
	tracing.SetDefaultListenerSpanTags(ctx, span)
	tracing.LogObjectAsJson(span, "event", baseEvent)

	validatedEvent, err := l.ValidateBaseEvent(ctx, baseEvent)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	labelsChanged, err := events.DecodeEventData[dto.LabelsChanged](ctx, validatedEvent)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	direction := enum.DecodeCountDirection(labelsChanged.Direction)
	l.counter.ApplyLabelDelta(ctx, direction, labelsChanged.LabelIds)
	return nil
}
