package protocol

import "time"

// EventType enumerates all outbound frame types.
type EventType string

const (
	EventAudio  EventType = "audio"
	EventError  EventType = "error"
	EventStatus EventType = "status"
)

// MaxTextLength is the largest accepted inbound text, in characters.
const MaxTextLength = 1000

// InboundMessage is a validated client frame. Text has surrounding whitespace
// already stripped.
type InboundMessage struct {
	Text string `json:"text"`
}

// OutboundEvent is the single frame sent back per processed inbound message.
//
//	{ "type": "audio", "llm_text": "...", "audio_data": "<base64>" }
//	{ "type": "error", "message": "..." }
//	{ "type": "status", "message": "ready" }
type OutboundEvent struct {
	Type      EventType `json:"type"`
	LLMText   string    `json:"llm_text,omitempty"`
	AudioData string    `json:"audio_data,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAudioEvent builds a success event carrying the reply text and
// base64-encoded audio.
func NewAudioEvent(llmText, audioData string) OutboundEvent {
	return OutboundEvent{
		Type:      EventAudio,
		LLMText:   llmText,
		AudioData: audioData,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorEvent builds an error event with a user-safe description.
func NewErrorEvent(message string) OutboundEvent {
	return OutboundEvent{
		Type:      EventError,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatusEvent builds an informational event, e.g. the readiness
// notification sent right after the handshake.
func NewStatusEvent(message string) OutboundEvent {
	return OutboundEvent{
		Type:      EventStatus,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}
