package event_test

import (
	"testing"

	"github.com/cofocus/focusd/internal/event"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishToSubscribers(t *testing.T) {
	bus := event.NewBus()
	topic := event.SessionTopic("s1")

	ch1, cancel1 := bus.Subscribe(topic)
	defer cancel1()
	ch2, cancel2 := bus.Subscribe(topic)
	defer cancel2()

	err := bus.Publish(topic, event.Event{Name: "session_start"})
	require.NoError(t, err)

	evt := <-ch1
	require.Equal(t, "session_start", evt.Name)
	evt = <-ch2
	require.Equal(t, "session_start", evt.Name)
}

func TestBus_TopicIsolation(t *testing.T) {
	bus := event.NewBus()

	ch, cancel := bus.Subscribe(event.SessionTopic("s1"))
	defer cancel()

	require.NoError(t, bus.Publish(event.SessionTopic("s2"), event.Event{Name: "unlock_request"}))
	select {
	case evt := <-ch:
		t.Fatalf("received event %q for a different session", evt.Name)
	default:
	}
}

func TestBus_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	bus := event.NewBus()
	require.NoError(t, bus.Publish(event.SessionTopic("empty"), event.Event{Name: "unlock_resolved"}))
}

func TestBus_SlowSubscriberDropsEvents(t *testing.T) {
	bus := event.NewBus()
	topic := event.SessionTopic("s1")

	ch, cancel := bus.Subscribe(topic)
	defer cancel()

	// Overfill the subscriber buffer; Publish must never block.
	for i := 0; i < 100; i++ {
		require.NoError(t, bus.Publish(topic, event.Event{Name: "participant_change", Payload: i}))
	}

	delivered := 0
	for {
		select {
		case <-ch:
			delivered++
			continue
		default:
		}
		break
	}
	require.Greater(t, delivered, 0)
	require.Less(t, delivered, 100)
}

func TestBus_CancelRemovesSubscription(t *testing.T) {
	bus := event.NewBus()
	topic := event.SessionTopic("s1")

	ch, cancel := bus.Subscribe(topic)
	cancel()
	cancel() // idempotent

	_, open := <-ch
	require.False(t, open)
	require.NoError(t, bus.Publish(topic, event.Event{Name: "session_start"}))
}
