package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mindwell-app/mindwell-backend/internal/services"
)

var journalUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// JournalWebSocket streams save and advisory events to the editor so every
// open tab shows the same status. Authentication uses the session token
// (Authorization: Bearer <token>, or ?token= for browser clients).
func JournalWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	userID, err := services.ValidateSession(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := journalUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// The hub holds a single shared Redis subscription per user, so opening
	// more tabs never multiplies deliveries.
	eventsCh := realtimeHub.Subscribe(userID)
	defer realtimeHub.Unsubscribe(userID, eventsCh)

	// Writer goroutine: forward hub events to this connection
	go func() {
		for evt := range eventsCh {
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
	}()

	// Reader loop: the client only sends pings; any read error ends the
	// connection and flushes the pending draft.
	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			journalManager.Session(userID).Flush()
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	}
}
