package status

import (
	"time"
)

const EventType = "conversion_status"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusUnknown    = "unknown"
)

// Event is a single progress notification tied to a document. Immutable once
// constructed; the latest one replaces the previous as the current status.
type Event struct {
	Type       string         `json:"type"`
	DocumentID string         `json:"documentId"`
	Status     string         `json:"status"`
	Progress   int            `json:"progress"`
	Message    string         `json:"message"`
	Timestamp  string         `json:"timestamp"`
	Metadata   map[string]any `json:"metadata"`
}

func NewEvent(documentID, status string, progress int, message string, metadata map[string]any) Event {
	if metadata == nil {
		metadata = map[string]any{}
	}

	return Event{
		Type:       EventType,
		DocumentID: documentID,
		Status:     status,
		Progress:   progress,
		Message:    message,
		Timestamp:  time.Now().Format(time.RFC3339),
		Metadata:   metadata,
	}
}

// Unknown synthesizes the status returned for documents nothing was ever
// published for.
func Unknown(documentID string) Event {
	return NewEvent(documentID, StatusUnknown, 0, "No status available", nil)
}
