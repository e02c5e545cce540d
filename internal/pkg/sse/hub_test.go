package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch chan Event) []Event {
	t.Helper()
	var out []Event
	for {
		select {
		case e := <-ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestPublishRoutesByTopic(t *testing.T) {
	hub := NewHub()
	tasks, stopTasks := hub.Subscribe("tasks")
	defer stopTasks()
	all, stopAll := hub.Subscribe()
	defer stopAll()
	both, stopBoth := hub.Subscribe("tasks", "leave")
	defer stopBoth()

	hub.Publish("tasks", Event{Event: "version", Data: 1})
	hub.Publish("leave", Event{Event: "version", Data: 2})

	got := receive(t, tasks)
	require.Len(t, got, 1)
	assert.Equal(t, "tasks", got[0].Topic)
	assert.Len(t, receive(t, all), 2)
	assert.Len(t, receive(t, both), 2)

	hub.Publish(Wildcard, Event{Event: "version", Data: 3})
	assert.Len(t, receive(t, tasks), 1)
	assert.Len(t, receive(t, all), 1)
	assert.Len(t, receive(t, both), 1)
}

func TestPublishDropsWhenFull(t *testing.T) {
	hub := NewHub()
	ch, stop := hub.Subscribe("tasks")
	defer stop()

	for i := 0; i < hub.buffer+5; i++ {
		hub.Publish("tasks", Event{Event: "version", Data: i})
	}
	assert.Len(t, receive(t, ch), hub.buffer)
}

func TestCleanup(t *testing.T) {
	hub := NewHub()
	_, stopA := hub.Subscribe("tasks", "leave")
	_, stopB := hub.Subscribe()
	assert.Equal(t, 2, hub.TotalSubscribers())
	assert.Equal(t, 1, hub.SubscriberCount("leave"))

	stopA()
	stopA()
	assert.Equal(t, 1, hub.TotalSubscribers())
	assert.Zero(t, hub.SubscriberCount("tasks"))

	stopB()
	assert.Zero(t, hub.TotalSubscribers())
	hub.Publish("tasks", Event{Event: "version"})
}
