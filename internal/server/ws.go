package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ReadingsHandler pushes each published Snapshot to WebSocket clients as JSON.
type ReadingsHandler struct {
	hub    *Hub
	logger *slog.Logger
}

// NewReadingsHandler creates a new ReadingsHandler reading from hub.
func NewReadingsHandler(hub *Hub, logger *slog.Logger) *ReadingsHandler {
	return &ReadingsHandler{hub: hub, logger: logger}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ReadingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain client messages so a disconnect ends the handler.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var version uint64
	for {
		_, snap, v, err := h.hub.Wait(ctx, version)
		if err != nil {
			return
		}
		version = v

		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}
}
