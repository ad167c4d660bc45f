// Package session sequences the chat and speech calls for one inbound message.
package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"voicerelay/core"
	"voicerelay/protocol"
)

// User-safe descriptions surfaced in error events. Internal error detail stays
// in the logs only.
const (
	msgChatTimeout   = "The assistant took too long to respond. Please try again."
	msgSpeechTimeout = "Audio generation took too long. Please try again."
	msgChatFailed    = "The assistant is currently unavailable. Please try again later."
	msgSpeechFailed  = "Audio could not be generated for this reply."
	msgInternal      = "An internal error occurred while processing your message."
)

// Orchestrator is the per-connection pipeline controller. It holds no state
// between messages; each call to Process is independent.
type Orchestrator struct {
	chat   core.ChatService
	speech core.SpeechService
	logger *core.Logger
}

// NewOrchestrator creates an orchestrator with explicitly injected upstream
// clients. Both are required.
func NewOrchestrator(chat core.ChatService, speech core.SpeechService, logger *core.Logger) *Orchestrator {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Orchestrator{
		chat:   chat,
		speech: speech,
		logger: logger,
	}
}

// Process runs the chat -> speech pipeline for one validated message and
// returns exactly one outbound event. Every failure, including a panic in a
// client, is converted into a well-formed error event; nothing escapes to
// crash the connection handler.
func (o *Orchestrator) Process(ctx context.Context, msg protocol.InboundMessage) (ev protocol.OutboundEvent) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Errorf("pipeline panic: %v", r)
			ev = protocol.NewErrorEvent(msgInternal)
		}
	}()

	reply, err := o.chat.Complete(ctx, msg.Text)
	if err != nil {
		o.logger.With(map[string]interface{}{"error": err}).Error("chat completion failed")
		return protocol.NewErrorEvent(userSafeMessage(err))
	}

	payload, err := o.speech.Synthesize(ctx, reply.Text)
	if err != nil {
		o.logger.With(map[string]interface{}{"error": err}).Error("speech synthesis failed")
		// Keep the reply text so the client can at least display it.
		errEv := protocol.NewErrorEvent(userSafeMessage(err))
		errEv.LLMText = reply.Text
		return errEv
	}

	o.logger.Infof("message processed: %d chars in -> %d audio bytes out", len(msg.Text), len(payload.Data))

	return protocol.NewAudioEvent(reply.Text, base64.StdEncoding.EncodeToString(payload.Data))
}

// userSafeMessage maps a pipeline failure onto a description fit for the
// client. Timeouts and upstream failures get distinct wording per service.
func userSafeMessage(err error) string {
	var timeout *core.UpstreamTimeout
	if errors.As(err, &timeout) {
		if timeout.Service == "speech" {
			return msgSpeechTimeout
		}
		return msgChatTimeout
	}

	var upstream *core.UpstreamError
	if errors.As(err, &upstream) {
		if upstream.Service == "speech" {
			return msgSpeechFailed
		}
		return msgChatFailed
	}

	var validation *core.ValidationError
	if errors.As(err, &validation) {
		return fmt.Sprintf("Invalid message: %s.", validation.Reason)
	}

	return msgInternal
}
