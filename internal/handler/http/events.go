package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/capacity-planner/internal/pkg/sse"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

type EventHandler interface {
	// Stream pushes a "version" event after every state change
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	hub       *sse.Hub
	store     *store.Store
	keepalive time.Duration
}

func NewEventHandler(hub *sse.Hub, s *store.Store) EventHandler {
	return &eventHandlerImpl{hub: hub, store: s, keepalive: 30 * time.Second}
}

// Stream handles GET /events?topics=tasks,leave
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var topics []string
	for _, t := range strings.Split(r.URL.Query().Get("topics"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(topics...)
	defer cleanup()

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"version\":%d}\n\n", h.store.Version())
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// PublishChanges forwards store changes to the hub as "version" events on
// the topic of the changed scope.
func PublishChanges(hub *sse.Hub) store.Notifier {
	return store.NotifierFunc(func(c store.Change) {
		topic := string(c.Scope)
		if c.Scope == store.ScopeAll {
			topic = sse.Wildcard
		}
		hub.Publish(topic, sse.Event{Event: "version", Data: c})
	})
}
