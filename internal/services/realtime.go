package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindwell-app/mindwell-backend/internal/database"
)

// Event types published on a user's journal channel.
const (
	EventEntrySaved    = "entry_saved"
	EventSaveFailed    = "save_failed"
	EventAdvisoryReady = "advisory_ready"
)

// JournalEvent is the payload broadcast to a user's connected clients so every
// open tab shows the same save status. Origin identifies the publishing
// instance so the Redis round-trip is not re-delivered locally.
type JournalEvent struct {
	Type      string    `json:"type"`
	EntryID   string    `json:"entry_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Origin    string    `json:"origin,omitempty"`
}

func journalChannel(userID string) string {
	return "journal:user:" + userID
}

// RealtimeHub fans journal events out to local WebSocket subscribers and
// relays them across instances through Redis pub/sub. Exactly one Redis
// subscription is held per user with local listeners, regardless of how many
// connections that user has open.
type RealtimeHub struct {
	instanceID string

	mu          sync.Mutex
	subscribers map[string]map[chan JournalEvent]struct{}
	listeners   map[string]context.CancelFunc
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{
		instanceID:  uuid.New().String(),
		subscribers: make(map[string]map[chan JournalEvent]struct{}),
		listeners:   make(map[string]context.CancelFunc),
	}
}

// Subscribe registers a local listener for a user's events. The returned
// channel is buffered; slow consumers drop events rather than block saves.
// The first subscriber for a user starts the shared Redis listener.
func (h *RealtimeHub) Subscribe(userID string) chan JournalEvent {
	ch := make(chan JournalEvent, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan JournalEvent]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}

	if _, running := h.listeners[userID]; !running && database.RedisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.listeners[userID] = cancel
		go h.listenRemote(ctx, userID)
	}
	return ch
}

// Unsubscribe removes a listener and closes its channel. The last subscriber
// for a user stops the shared Redis listener.
func (h *RealtimeHub) Unsubscribe(userID string, ch chan JournalEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subscribers[userID]; ok {
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, userID)
			if cancel, ok := h.listeners[userID]; ok {
				cancel()
				delete(h.listeners, userID)
			}
		}
	}
}

func (h *RealtimeHub) deliver(userID string, event JournalEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
		default:
			// Drop for slow consumers
		}
	}
}

// Publish sends an event to the user's local subscribers and to Redis for
// other instances. The Origin tag keeps the remote listener from delivering
// this instance's own publish a second time.
func (h *RealtimeHub) Publish(ctx context.Context, userID string, event JournalEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Origin = h.instanceID

	h.deliver(userID, event)

	if database.RedisClient == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Failed to marshal journal event: %v", err)
		return
	}
	if err := database.RedisClient.Publish(ctx, journalChannel(userID), data).Err(); err != nil {
		log.Printf("⚠️ Failed to publish journal event to Redis: %v", err)
	}
}

// handleRemotePayload decodes an event received over Redis and delivers it to
// local subscribers unless this instance published it.
func (h *RealtimeHub) handleRemotePayload(userID string, payload []byte) {
	var event JournalEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("⚠️ Bad journal event payload: %v", err)
		return
	}
	if event.Origin == h.instanceID {
		return
	}
	h.deliver(userID, event)
}

// listenRemote holds the single Redis subscription for a user until the last
// local subscriber goes away.
func (h *RealtimeHub) listenRemote(ctx context.Context, userID string) {
	pubsub := database.RedisClient.Subscribe(ctx, journalChannel(userID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleRemotePayload(userID, []byte(msg.Payload))
		}
	}
}
