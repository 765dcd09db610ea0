package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"pet-community/internal/middleware"
	"pet-community/internal/ports/realtime"
)

func TestPublish_NoConnectionsIsNoOp(t *testing.T) {
	h := New(nil)

	// Must not panic or block.
	h.Publish("nobody", realtime.Event{Type: "lost_pet_alert", Payload: "x"})

	if got := h.ConnectedUsers(); got != 0 {
		t.Fatalf("expected 0 connected users, got %d", got)
	}
}

func TestPublish_DeliversToConnectedUser(t *testing.T) {
	h := New(nil)
	defer h.Close()

	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	NewHandler(h).RegisterRoutes(r)

	ts := httptest.NewServer(r)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/alerts"
	header := http.Header{"X-Debug-User-ID": []string{"u1"}}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Attach happens in the upgrade handler before it returns, but the
	// server goroutine may still be finishing; wait for registration.
	deadline := time.Now().Add(2 * time.Second)
	for h.ConnectedUsers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	h.Publish("u1", realtime.Event{Type: "lost_pet_alert", Payload: map[string]string{"report_id": "r1"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var ev struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != "lost_pet_alert" || ev.Payload["report_id"] != "r1" {
		t.Fatalf("unexpected event: %s", data)
	}

	// Events for other users never cross over.
	h.Publish("u2", realtime.Event{Type: "lost_pet_alert", Payload: map[string]string{"report_id": "r2"}})
	conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("received an event addressed to another user")
	}
}

func TestPublish_ConcurrentWithDisconnect(t *testing.T) {
	// A client can disconnect (or be evicted as a slow consumer) while
	// a publish to the same user is in flight. The publish must never
	// write to the closed send channel; a panic here would take down
	// the dispatch goroutine and the process with it.
	h := New(nil)

	for i := 0; i < 2000; i++ {
		c := &client{hub: h, send: make(chan []byte, 1), userID: "u1"}
		h.mu.Lock()
		h.clients["u1"] = map[*client]struct{}{c: {}}
		h.mu.Unlock()

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			h.unregister(c)
		}()
		for j := 0; j < 2; j++ {
			go func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("Publish panicked: %v", r)
					}
				}()
				h.Publish("u1", realtime.Event{Type: "lost_pet_alert", Payload: "x"})
			}()
		}
		wg.Wait()

		if t.Failed() {
			t.FailNow()
		}
	}
}

func TestServeAlerts_RequiresAuth(t *testing.T) {
	h := New(nil)

	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	NewHandler(h).RegisterRoutes(r)

	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ws/alerts")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.StatusCode)
	}
}
