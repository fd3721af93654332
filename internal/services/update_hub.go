package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 16
)

// UpdateMessage is broadcast to subscribers of a dataset after a save
type UpdateMessage struct {
	Type     string          `json:"type"`
	App      string          `json:"app"`
	Mode     string          `json:"mode"`
	Question models.Question `json:"question"`
}

// HubClient is one websocket subscriber
type HubClient struct {
	hub     *UpdateHub
	conn    *websocket.Conn
	dataset models.DatasetKey
	send    chan []byte
}

type hubBroadcast struct {
	dataset models.DatasetKey
	payload []byte
}

// UpdateHub fans question updates out to websocket clients watching the
// same dataset, so concurrent authors see each other's saves.
type UpdateHub struct {
	log *zap.Logger

	register   chan *HubClient
	unregister chan *HubClient
	broadcast  chan hubBroadcast
	done       chan struct{}
	stopOnce   sync.Once

	clients map[models.DatasetKey]map[*HubClient]bool
}

// NewUpdateHub creates a hub; call Run to start it
func NewUpdateHub(log *zap.Logger) *UpdateHub {
	return &UpdateHub{
		log:        log,
		register:   make(chan *HubClient),
		unregister: make(chan *HubClient),
		broadcast:  make(chan hubBroadcast, 64),
		done:       make(chan struct{}),
		clients:    make(map[models.DatasetKey]map[*HubClient]bool),
	}
}

// Run processes registrations and broadcasts until Stop is called
func (h *UpdateHub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.dataset]
			if !ok {
				set = make(map[*HubClient]bool)
				h.clients[client.dataset] = set
			}
			set[client] = true
			h.log.Debug("Websocket client subscribed", zap.String("dataset", client.dataset.String()))

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			for client := range h.clients[msg.dataset] {
				select {
				case client.send <- msg.payload:
				default:
					// Slow client, drop it
					h.remove(client)
				}
			}

		case <-h.done:
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[models.DatasetKey]map[*HubClient]bool)
			return
		}
	}
}

// Stop shuts the hub down and disconnects all clients
func (h *UpdateHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *UpdateHub) remove(client *HubClient) {
	set, ok := h.clients[client.dataset]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.dataset)
	}
}

// PublishQuestionUpdate implements UpdatePublisher
func (h *UpdateHub) PublishQuestionUpdate(key models.DatasetKey, q models.Question) {
	payload, err := json.Marshal(UpdateMessage{
		Type:     "question_updated",
		App:      key.App.Slug(),
		Mode:     string(key.Mode),
		Question: q,
	})
	if err != nil {
		h.log.Error("Failed to marshal update message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- hubBroadcast{dataset: key, payload: payload}:
	case <-h.done:
	}
}

// Subscribe attaches a websocket connection to a dataset's updates and
// starts its pumps
func (h *UpdateHub) Subscribe(conn *websocket.Conn, key models.DatasetKey) {
	client := &HubClient{
		hub:     h,
		conn:    conn,
		dataset: key,
		send:    make(chan []byte, clientSendSize),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

// readPump only watches for close and pong frames; clients never send data
func (c *HubClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("Websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (c *HubClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
