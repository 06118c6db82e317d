package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

// EventVitalsUpdate is the SSE event name for a newly recorded reading.
const EventVitalsUpdate = "vitals_update"

const (
	outboundBuffer           = 10
	defaultHeartbeatInterval = 15 * time.Second
)

// Message is a VitalsEvent addressed to one sharing session.
type Message struct {
	SessionID string             `json:"session_id"`
	Event     string             `json:"event"`
	Data      domain.VitalsEvent `json:"data"`
}

// Subscriber receives the messages of one sharing session. Outbound is closed
// by Unsubscribe.
type Subscriber struct {
	ID        uuid.UUID
	SessionID string
	Outbound  chan Message

	done chan struct{}
	once sync.Once
}

// Hub fans out events to the subscribers of each session. Delivery is
// at-most-once: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu            sync.RWMutex
	log           *slog.Logger
	subscriptions map[string]map[*Subscriber]struct{}
	heartbeat     time.Duration
}

func NewHub() *Hub {
	return &Hub{
		log:           logger.Component("realtime_hub"),
		subscriptions: make(map[string]map[*Subscriber]struct{}),
		heartbeat:     defaultHeartbeatInterval,
	}
}

// SetHeartbeat changes the SSE keep-alive interval.
func (h *Hub) SetHeartbeat(d time.Duration) {
	h.heartbeat = d
}

var (
	_ domain.EventPublisher = (*Hub)(nil)
	_ domain.SessionCloser  = (*Hub)(nil)
)

func (h *Hub) Subscribe(sessionID string) *Subscriber {
	sub := &Subscriber{
		ID:        uuid.New(),
		SessionID: strings.TrimSpace(sessionID),
		Outbound:  make(chan Message, outboundBuffer),
		done:      make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subscriptions[sub.SessionID]
	if !ok {
		subs = make(map[*Subscriber]struct{})
		h.subscriptions[sub.SessionID] = subs
	}
	subs[sub] = struct{}{}

	h.log.Debug("Subscriber added", "subscriber_id", sub.ID, "session_id", sub.SessionID)
	return sub
}

// Unsubscribe is safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	sub.once.Do(func() {
		h.mu.Lock()
		if subs, ok := h.subscriptions[sub.SessionID]; ok {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(h.subscriptions, sub.SessionID)
			}
		}
		close(sub.done)
		close(sub.Outbound)
		h.mu.Unlock()

		h.log.Debug("Subscriber removed", "subscriber_id", sub.ID, "session_id", sub.SessionID)
	})
}

// Publish delivers event to the current subscribers of sessionID. It never
// blocks on a slow subscriber.
func (h *Hub) Publish(_ context.Context, sessionID string, event domain.VitalsEvent) error {
	h.Deliver(Message{SessionID: sessionID, Event: EventVitalsUpdate, Data: event})
	return nil
}

// Deliver hands msg to local subscribers; bus forwarders call it directly.
func (h *Hub) Deliver(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscriptions[msg.SessionID] {
		select {
		case sub.Outbound <- msg:
		default:
			h.log.Warn("Dropping event; subscriber buffer full",
				"subscriber_id", sub.ID, "session_id", msg.SessionID)
		}
	}
}

// CloseSession unsubscribes every subscriber of sessionID, ending their
// streams.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subscriptions[sessionID]))
	for sub := range h.subscriptions[sessionID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		h.Unsubscribe(sub)
	}
}

// Subscribers returns the number of subscribers of sessionID.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[sessionID])
}

// ServeSSE streams sub's messages until the request ends or sub is removed.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request, sub *Subscriber) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.done:
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, ok := <-sub.Outbound:
			if !ok {
				return
			}
			data, err := json.Marshal(msg.Data)
			if err != nil {
				h.log.Warn("Failed to marshal event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, data)
			flusher.Flush()
		}
	}
}
