package events

import (
	"github.com/hornhub/hornhub-service/internal/types"
)

// Publisher interface for publishing events
type Publisher interface {
	PublishMediaUploaded(item types.MediaItem, uploaderName string)
}

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastAll(event *types.Event)
}

// EventPublisher pushes catalog changes to every connected viewer, so
// open feed/gallery views refresh from a real signal instead of
// polling or fabricated progress.
type EventPublisher struct {
	hub WebSocketHub
}

func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{hub: hub}
}

// PublishMediaUploaded announces a new catalog item to all clients.
func (p *EventPublisher) PublishMediaUploaded(item types.MediaItem, uploaderName string) {
	event := types.NewEvent(types.EventMediaUploaded, &types.MediaUploadedEvent{
		Item:         item,
		UploaderName: uploaderName,
	})
	p.hub.BroadcastAll(event)
}

// NopPublisher drops every event. Used by the auditor binary and in
// tests where no hub is running.
type NopPublisher struct{}

func (NopPublisher) PublishMediaUploaded(types.MediaItem, string) {}
