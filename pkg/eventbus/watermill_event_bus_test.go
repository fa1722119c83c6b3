package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireground/talentgate/pkg/channels/gochannel"
	"github.com/hireground/talentgate/pkg/eventbus"
	"github.com/hireground/talentgate/pkg/events"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	return eventbus.NewWatermillEventBus(pub, sub)
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan any, 1)

	require.NoError(t, bus.Handle(events.WorkflowActivatedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	published := events.WorkflowActivated{
		BaseEvent:  events.NewBaseEvent(events.WorkflowActivatedEvent),
		WorkflowID: "workflow-1",
	}
	require.NoError(t, bus.Publish(ctx, "workflow-1", published))

	select {
	case event := <-received:
		activated, ok := event.(*events.WorkflowActivated)
		require.True(t, ok)
		assert.Equal(t, "workflow-1", activated.WorkflowID)
		assert.Equal(t, published.ID, activated.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillEventBus_UnhandledEventTypeIsAcked(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan any, 2)

	require.NoError(t, bus.Handle(events.RuleDeletedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for this one; it must not block the stream.
	require.NoError(t, bus.Publish(ctx, "stage-1", events.RuleCreated{
		BaseEvent: events.NewBaseEvent(events.RuleCreatedEvent),
		StageID:   "stage-1",
		RuleID:    "rule-1",
	}))

	require.NoError(t, bus.Publish(ctx, "stage-1", events.RuleDeleted{
		BaseEvent: events.NewBaseEvent(events.RuleDeletedEvent),
		StageID:   "stage-1",
		RuleID:    "rule-1",
	}))

	select {
	case event := <-received:
		deleted, ok := event.(*events.RuleDeleted)
		require.True(t, ok)
		assert.Equal(t, "rule-1", deleted.RuleID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
