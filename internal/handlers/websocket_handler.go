package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
	"github.com/haratakeru-crypto/Tab-button-game/internal/services"
)

// WebSocketHandler upgrades connections that watch a dataset for updates
type WebSocketHandler struct {
	hub      *services.UpdateHub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(hub *services.UpdateHub, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log,
	}
}

// HandleWebSocket subscribes the connection to one dataset
// GET /ws?app=word&mode=button
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	key, err := models.ParseDatasetKey(r.URL.Query().Get("app"), r.URL.Query().Get("mode"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.Subscribe(conn, key)
}
