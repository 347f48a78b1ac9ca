package types

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of real-time event
type EventType string

const (
	EventMediaUploaded EventType = "media.uploaded"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// MediaUploadedEvent is broadcast when a new video or image lands in
// the catalog, so open feed and gallery views can refresh live.
type MediaUploadedEvent struct {
	Item         MediaItem `json:"item"`
	UploaderName string    `json:"uploader_name"`
}

// NewEvent creates a new event with a fresh ID and the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
