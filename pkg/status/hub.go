package status

import (
	"log/slog"
	"sync"
)

// Sender is one live client channel. Implementations must be safe for use from
// the hub's publishing goroutine.
type Sender interface {
	Send(v any) error
}

// Hub tracks live connections, per-document subscriber sets and the latest
// known status per document. Subscription membership is evaluated at send
// time, not at subscribe time.
type Hub struct {
	mu sync.Mutex

	connections map[string]Sender
	subscribers map[string]map[string]struct{}
	latest      map[string]Event
}

func NewHub() *Hub {
	return &Hub{
		connections: map[string]Sender{},
		subscribers: map[string]map[string]struct{}{},
		latest:      map[string]Event{},
	}
}

func (h *Hub) Connect(id string, s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[id] = s

	slog.Info("client connected", "client", id)
}

// Disconnect removes the channel and prunes it from every document's
// subscriber set.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.disconnect(id)
}

func (h *Hub) disconnect(id string) {
	if _, ok := h.connections[id]; !ok {
		return
	}

	delete(h.connections, id)

	for documentID, set := range h.subscribers {
		delete(set, id)

		if len(set) == 0 {
			delete(h.subscribers, documentID)
		}
	}

	slog.Info("client disconnected", "client", id)
}

func (h *Hub) Subscribe(id, documentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[documentID]

	if !ok {
		set = map[string]struct{}{}
		h.subscribers[documentID] = set
	}

	set[id] = struct{}{}

	slog.Info("client subscribed", "client", id, "document", documentID)
}

func (h *Hub) Unsubscribe(id, documentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[documentID]

	if !ok {
		return
	}

	delete(set, id)

	if len(set) == 0 {
		delete(h.subscribers, documentID)
	}

	slog.Info("client unsubscribed", "client", id, "document", documentID)
}

// Publish stores the event as the latest status for the document and delivers
// it to every currently-subscribed, currently-connected channel. Channels that
// fail to receive are treated as implicitly disconnected and pruned. Sends
// happen under the hub lock, so events for one document reach a given
// subscriber in emission order.
func (h *Hub) Publish(documentID string, e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest[documentID] = e

	var failed []string

	for id := range h.subscribers[documentID] {
		s, ok := h.connections[id]

		if !ok {
			continue
		}

		if err := s.Send(e); err != nil {
			slog.Error("send failed", "client", id, "error", err)

			failed = append(failed, id)
		}
	}

	for _, id := range failed {
		h.disconnect(id)
	}
}

// Status returns the latest stored event, or a synthesized unknown event if
// nothing was published yet.
func (h *Hub) Status(documentID string) Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e, ok := h.latest[documentID]; ok {
		return e
	}

	return Unknown(documentID)
}
