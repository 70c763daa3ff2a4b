package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch chan JournalEvent) []JournalEvent {
	var out []JournalEvent
	for {
		select {
		case evt := <-ch:
			out = append(out, evt)
		case <-time.After(50 * time.Millisecond):
			return out
		}
	}
}

func TestPublishDeliversOncePerSubscriber(t *testing.T) {
	h := NewRealtimeHub()
	a := h.Subscribe("user-1")
	b := h.Subscribe("user-1")
	defer h.Unsubscribe("user-1", a)
	defer h.Unsubscribe("user-1", b)

	h.Publish(context.Background(), "user-1", JournalEvent{Type: EventEntrySaved, EntryID: "e1"})

	require.Len(t, drain(a), 1)
	require.Len(t, drain(b), 1)
}

func TestOwnRedisPublishIsNotRedelivered(t *testing.T) {
	h := NewRealtimeHub()
	ch := h.Subscribe("user-1")
	defer h.Unsubscribe("user-1", ch)

	// Simulate this instance's own publish coming back over Redis
	own, err := json.Marshal(JournalEvent{Type: EventEntrySaved, EntryID: "e1", Origin: h.instanceID})
	require.NoError(t, err)
	h.handleRemotePayload("user-1", own)

	assert.Empty(t, drain(ch))
}

func TestRemotePublishFromOtherInstanceIsDelivered(t *testing.T) {
	h := NewRealtimeHub()
	ch := h.Subscribe("user-1")
	defer h.Unsubscribe("user-1", ch)

	remote, err := json.Marshal(JournalEvent{Type: EventSaveFailed, EntryID: "e2", Origin: "some-other-instance"})
	require.NoError(t, err)
	h.handleRemotePayload("user-1", remote)

	got := drain(ch)
	require.Len(t, got, 1)
	assert.Equal(t, EventSaveFailed, got[0].Type)
	assert.Equal(t, "e2", got[0].EntryID)
}

func TestEventsAreScopedToTheirUser(t *testing.T) {
	h := NewRealtimeHub()
	mine := h.Subscribe("user-1")
	other := h.Subscribe("user-2")
	defer h.Unsubscribe("user-1", mine)
	defer h.Unsubscribe("user-2", other)

	h.Publish(context.Background(), "user-1", JournalEvent{Type: EventAdvisoryReady})

	require.Len(t, drain(mine), 1)
	assert.Empty(t, drain(other))
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewRealtimeHub()
	ch := h.Subscribe("user-1")
	h.Unsubscribe("user-1", ch)

	_, open := <-ch
	assert.False(t, open)

	// Double unsubscribe is a no-op
	h.Unsubscribe("user-1", ch)
}
