package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should call handlers in subscription order", func(t *testing.T) {
		bus := NewEventBus()
		var calls []int
		bus.Subscribe("test", func(e Event) error { calls = append(calls, 1); return nil })
		bus.Subscribe("test", func(e Event) error { calls = append(calls, 2); return nil })
		bus.Subscribe("test", func(e Event) error { calls = append(calls, 3); return nil })

		err := bus.Publish(NewEvent(context.Background(), "test", nil))

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, calls)
	})

	t.Run("should not call unsubscribed handler", func(t *testing.T) {
		bus := NewEventBus()
		called := 0
		unsubscribe := bus.Subscribe("test", func(e Event) error { called++; return nil })
		unsubscribe()

		err := bus.Publish(NewEvent(context.Background(), "test", nil))

		require.NoError(t, err)
		assert.Equal(t, 0, called)
	})

	t.Run("should continue after failing and panicking handlers", func(t *testing.T) {
		bus := NewEventBus()
		failure := errors.New("boom")
		reached := false
		bus.Subscribe("test", func(e Event) error { return failure })
		bus.Subscribe("test", func(e Event) error { panic("kaboom") })
		bus.Subscribe("test", func(e Event) error { reached = true; return nil })

		err := bus.Publish(NewEvent(context.Background(), "test", nil))

		require.Error(t, err)
		assert.ErrorIs(t, err, failure)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.True(t, reached)
	})

	t.Run("should refuse to publish with cancelled context", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		bus.Subscribe("test", func(e Event) error { called = true; return nil })
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(NewEvent(ctx, "test", nil))

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestSubscribeTyped(t *testing.T) {
	t.Run("should deliver matching payloads only", func(t *testing.T) {
		bus := NewEventBus()
		var received []ScheduleChanged
		SubscribeTyped(bus, ScheduleChangedEvent, func(e EventT[ScheduleChanged]) error {
			received = append(received, e.Data)
			return nil
		})

		require.NoError(t, bus.Publish(NewEvent(context.Background(), ScheduleChangedEvent, "not a payload")))
		require.NoError(t, bus.Publish(NewEvent(context.Background(), ScheduleChangedEvent, ScheduleChanged{Operation: ScheduleAdded, Count: 2})))

		require.Len(t, received, 1)
		assert.Equal(t, ScheduleAdded, received[0].Operation)
		assert.Equal(t, 2, received[0].Count)
	})
}
