// Package openaiapi holds helpers shared by the OpenAI-backed chat and speech
// services.
package openaiapi

import (
	"context"
	"errors"
	"net"
	"time"

	"voicerelay/core"

	"github.com/sashabaranov/go-openai"
)

// ClassifyError maps a go-openai client failure onto the relay's upstream
// error taxonomy. service names the caller ("chat" or "speech").
func ClassifyError(service string, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &core.UpstreamTimeout{Service: service, Timeout: timeout}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &core.UpstreamError{
			Service: service,
			Status:  apiErr.HTTPStatusCode,
			Message: apiErr.Message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &core.UpstreamError{
			Service: service,
			Status:  reqErr.HTTPStatusCode,
			Message: reqErr.Error(),
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &core.UpstreamTimeout{Service: service, Timeout: timeout}
	}

	return &core.UpstreamError{Service: service, Message: err.Error()}
}
