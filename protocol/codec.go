package protocol

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"voicerelay/core"

	"github.com/bytedance/sonic"
)

// DecodeInbound parses and validates a raw client frame. On failure it returns
// a *core.ValidationError whose Reason is safe to send back to the client.
// Field presence is checked explicitly; a frame is never trusted to carry text.
func DecodeInbound(data []byte) (InboundMessage, error) {
	var raw struct {
		Text *string `json:"text"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return InboundMessage{}, &core.ValidationError{Reason: "invalid message format"}
	}
	if raw.Text == nil {
		return InboundMessage{}, &core.ValidationError{Reason: "missing text field"}
	}

	text := strings.TrimSpace(*raw.Text)
	if text == "" {
		return InboundMessage{}, &core.ValidationError{Reason: "text cannot be empty"}
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return InboundMessage{}, &core.ValidationError{
			Reason: fmt.Sprintf("text exceeds maximum length of %d characters", MaxTextLength),
		}
	}

	return InboundMessage{Text: text}, nil
}

// EncodeOutbound serializes an event for transmission as a text frame.
func EncodeOutbound(ev OutboundEvent) ([]byte, error) {
	data, err := sonic.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("protocol: marshal %q event: %w", ev.Type, err)
	}
	return data, nil
}
