package listeners

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inboxpulse/inboxpulse/dto"
	"github.com/inboxpulse/inboxpulse/interfaces"
	"github.com/inboxpulse/inboxpulse/internal/enum"
	"github.com/inboxpulse/inboxpulse/internal/logger"
	"github.com/inboxpulse/inboxpulse/services/events"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

type capturedDelta struct {
	direction enum.CountDirection
	labelIDs  []string
}

type fakeCounter struct {
	deltas []capturedDelta
}

func (f *fakeCounter) Start(ctx context.Context) {}

func (f *fakeCounter) Refresh(ctx context.Context) bool { return true }

func (f *fakeCounter) Snapshot() interfaces.UnreadSnapshot {
	return interfaces.UnreadSnapshot{}
}

func (f *fakeCounter) ApplyLabelDelta(ctx context.Context, direction enum.CountDirection, labelIDs []string) {
	f.deltas = append(f.deltas, capturedDelta{direction: direction, labelIDs: labelIDs})
}

func labelsChangedEvent(direction string, labelIDs []interface{}) dto.Event {
	return dto.Event{
		Event: dto.EventDetails{
			Id:        "event-1",
			EventType: events.GetEventType[dto.LabelsChanged](),
			Data: map[string]interface{}{
				"direction": direction,
				"labelIds":  labelIDs,
			},
		},
	}
}

func TestLabelChangeListener_AppliesDecreaseDelta(t *testing.T) {
	// Arrange
	counter := &fakeCounter{}
	listener := NewLabelChangeListener(getLogger(), counter)
	event := labelsChangedEvent("decrease", []interface{}{"INBOX", "ProjectX"})

	// Act
	err := listener.Handle(context.Background(), event)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, counter.deltas, 1)
	assert.Equal(t, enum.CountDecrease, counter.deltas[0].direction)
	assert.Equal(t, []string{"INBOX", "ProjectX"}, counter.deltas[0].labelIDs)
}

func TestLabelChangeListener_UnknownDirectionDefaultsToIncrease(t *testing.T) {
	counter := &fakeCounter{}
	listener := NewLabelChangeListener(getLogger(), counter)
	event := labelsChangedEvent("sideways", []interface{}{"ProjectX"})

	err := listener.Handle(context.Background(), event)

	assert.NoError(t, err)
	assert.Len(t, counter.deltas, 1)
	assert.Equal(t, enum.CountIncrease, counter.deltas[0].direction)
}

func TestLabelChangeListener_RejectsNonEventPayload(t *testing.T) {
	counter := &fakeCounter{}
	listener := NewLabelChangeListener(getLogger(), counter)

	err := listener.Handle(context.Background(), "not an event")

	assert.Error(t, err)
	assert.Empty(t, counter.deltas)
}

func TestLabelChangeListener_RejectsEventWithoutData(t *testing.T) {
	counter := &fakeCounter{}
	listener := NewLabelChangeListener(getLogger(), counter)
	event := dto.Event{
		Event: dto.EventDetails{
			Id:        "event-1",
			EventType: events.GetEventType[dto.LabelsChanged](),
		},
	}

	err := listener.Handle(context.Background(), event)

	assert.Error(t, err)
	assert.Empty(t, counter.deltas)
}

func TestLabelChangeListener_SubscribesToLabelsChanged(t *testing.T) {
	listener := NewLabelChangeListener(getLogger(), &fakeCounter{})

	assert.Equal(t, "LabelsChanged", listener.GetEventType())
	assert.Equal(t, events.QueueLabelChange, listener.GetQueueName())
}
