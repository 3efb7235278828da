package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "AUDIO_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation used across the system.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes
const (
	TypeAudioIngested         = "AUDIO_INGESTED"
	TypeConsultationCompleted = "CONSULTATION_COMPLETED"
)

func NewAudioIngested(resourceID, filename string) Event {
	return BaseEvent{
		Type: TypeAudioIngested,
		Data: map[string]interface{}{
			"audio_resource_id": resourceID,
			"filename":          filename,
		},
		OccurredAt: time.Now(),
	}
}

func NewConsultationCompleted(sessionID string, audioProvided bool) Event {
	return BaseEvent{
		Type: TypeConsultationCompleted,
		Data: map[string]interface{}{
			"session_id":     sessionID,
			"audio_provided": audioProvided,
		},
		OccurredAt: time.Now(),
	}
}
