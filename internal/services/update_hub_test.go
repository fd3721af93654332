package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

// TestHubDeliversToDatasetSubscribers checks only matching subscribers receive updates.
func TestHubDeliversToDatasetSubscribers(t *testing.T) {
	hub := NewUpdateHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := models.ParseDatasetKey(r.URL.Query().Get("app"), r.URL.Query().Get("mode"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Subscribe(conn, key)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	watcher, _, err := websocket.DefaultDialer.Dial(wsURL+"?app=word&mode=button", nil)
	if err != nil {
		t.Fatalf("dial watcher: %v", err)
	}
	defer watcher.Close()
	other, _, err := websocket.DefaultDialer.Dial(wsURL+"?app=excel&mode=button", nil)
	if err != nil {
		t.Fatalf("dial other: %v", err)
	}
	defer other.Close()

	// Give the hub time to register both clients
	time.Sleep(100 * time.Millisecond)

	q := sampleQuestions()[0]
	hub.PublishQuestionUpdate(wordButtons, q)

	watcher.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := watcher.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg UpdateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != "question_updated" || msg.App != "word" || msg.Mode != "button" || msg.Question.ID != q.ID {
		t.Fatalf("unexpected message %+v", msg)
	}

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Fatalf("subscriber of another dataset must not receive the update")
	}
}
