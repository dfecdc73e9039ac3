package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// socket serializes writes: the hub publishes from conversion goroutines while
// the read loop writes acknowledgements.
type socket struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *socket) Send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.WriteJSON(v)
}

type socketMessage struct {
	Action     string `json:"action"`
	DocumentID string `json:"documentId"`
}

func (h *Handler) handleSocket(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")

	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(w, r, nil)

	if err != nil {
		return
	}

	s := &socket{conn: conn}

	h.hub.Connect(clientID, s)

	defer func() {
		h.hub.Disconnect(clientID)
		conn.Close()
	}()

	for {
		var msg socketMessage

		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Error("websocket read failed", "client", clientID, "error", err)
			}

			return
		}

		if msg.DocumentID == "" {
			continue
		}

		switch msg.Action {
		case "subscribe":
			h.hub.Subscribe(clientID, msg.DocumentID)

			s.Send(map[string]string{
				"type":       "subscribed",
				"documentId": msg.DocumentID,
			})

		case "unsubscribe":
			h.hub.Unsubscribe(clientID, msg.DocumentID)

			s.Send(map[string]string{
				"type":       "unsubscribed",
				"documentId": msg.DocumentID,
			})

		case "get_status":
			s.Send(h.hub.Status(msg.DocumentID))
		}
	}
}
