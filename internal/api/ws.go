package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The family code is the only admission control; no origin policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Subscribe handles GET /api/v1/families/{code}/subscribe. The connection is
// upgraded to a websocket; the current document is sent immediately, then
// every subsequent write to the namespace by any client, the subscriber's own
// writes included.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	// Reject unknown namespaces before upgrading so the client sees a
	// regular 404 problem instead of a dropped socket.
	if _, err := h.store.GetSharedData(r.Context(), code); err != nil {
		MapStoreError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err, "code", code)
		return
	}

	sub := h.hub.Subscribe(code)
	h.metrics.ActiveSubscribers.Inc()
	slog.Info("subscriber connected", "code", code, "remote", r.RemoteAddr)

	done := make(chan struct{})

	// Read loop: the client never sends documents, but reads are needed to
	// observe close frames and pong responses.
	go func() {
		defer close(done)
		conn.SetReadLimit(1 << 20)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		sub.Close()
		conn.Close()
		h.metrics.ActiveSubscribers.Dec()
		slog.Info("subscriber disconnected", "code", code, "remote", r.RemoteAddr)
	}()

	// The snapshot is read only after hub registration: a write landing in
	// between arrives both in the snapshot and as a push, never neither.
	// The duplicate is harmless, documents are replaced wholesale.
	data, err := h.store.GetSharedData(r.Context(), code)
	if err != nil {
		slog.Error("read snapshot for subscriber failed", "error", err, "code", code)
		return
	}

	// Initial delivery: the current value, exactly once.
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(data); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case doc, ok := <-sub.C():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(doc); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
