// ABOUTME: Generation lifecycle events streamed to editing sessions
// ABOUTME: The four event types are the whole inbound protocol of the sync channel

package domain

import "encoding/json"

// EventType names a generation lifecycle event
type EventType string

const (
	EventBuildingStarted   EventType = "BuildingStarted"
	EventBuildingProgress  EventType = "BuildingProgress"
	EventContentReplaced   EventType = "ContentReplaced"
	EventBuildingCompleted EventType = "BuildingCompleted"
)

// Valid reports whether t is one of the known event types
func (t EventType) Valid() bool {
	switch t {
	case EventBuildingStarted, EventBuildingProgress, EventContentReplaced, EventBuildingCompleted:
		return true
	}
	return false
}

// Event is one generation lifecycle event
type Event struct {
	Type EventType `json:"type"`

	// Message is the human status line (BuildingStarted, BuildingProgress)
	Message string `json:"message,omitempty"`

	// Step and TotalSteps report progress (BuildingProgress)
	Step       int `json:"step,omitempty"`
	TotalSteps int `json:"total_steps,omitempty"`

	// Payload is the replacement page content (ContentReplaced). It may be a
	// JSON object or a JSON string holding the serialized content.
	Payload json.RawMessage `json:"payload,omitempty"`
}
