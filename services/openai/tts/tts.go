package tts

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"voicerelay/core"
	openaiapi "voicerelay/services/openai"
	"voicerelay/utils/audio"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// openaiPCMSampleRate is the fixed sample rate of OpenAI's pcm response format.
const openaiPCMSampleRate = 24000

// telephonySampleRate is the mu-law rate expected by telephony consumers.
const telephonySampleRate = 8000

// Config holds the configuration for the OpenAI speech service
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Voice    string
	Encoding core.AudioEncoding
	Timeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults. APIKey must still be
// provided by the caller.
func DefaultConfig() Config {
	return Config{
		Model:    string(openai.TTSModel1),
		Voice:    string(openai.VoiceAlloy),
		Encoding: core.AudioEncodingMP3,
		Timeout:  30 * time.Second,
	}
}

// OpenAISpeechService implements core.SpeechService using the OpenAI speech
// synthesis endpoint.
type OpenAISpeechService struct {
	client *openai.Client
	config Config
	logger *core.Logger
}

// NewOpenAISpeechService creates a new speech service with the provided config
func NewOpenAISpeechService(config Config, logger *core.Logger) *OpenAISpeechService {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	if logger == nil {
		logger = core.GetLogger()
	}
	return &OpenAISpeechService{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: logger.With(map[string]interface{}{"service": "speech"}),
	}
}

// Synthesize converts text to audio in the configured encoding. For the
// telephony encoding the upstream is asked for PCM, which is then downsampled
// and transcoded to mu-law locally.
func (s *OpenAISpeechService) Synthesize(ctx context.Context, text string) (core.AudioPayload, error) {
	if s.config.APIKey == "" {
		return core.AudioPayload{}, errors.New("OpenAI API key is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.config.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.config.Voice),
		ResponseFormat: responseFormat(s.config.Encoding),
	}

	start := time.Now()
	resp, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		return core.AudioPayload{}, openaiapi.ClassifyError("speech", s.config.Timeout, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return core.AudioPayload{}, openaiapi.ClassifyError("speech", s.config.Timeout, err)
	}

	if s.config.Encoding == core.AudioEncodingULaw8000 {
		data, err = audio.PCM16ToULaw(data, openaiPCMSampleRate, telephonySampleRate)
		if err != nil {
			return core.AudioPayload{}, &core.UpstreamError{Service: "speech", Message: err.Error()}
		}
	}

	s.logger.Debugf("synthesis finished in %s (%d bytes)", time.Since(start).Round(time.Millisecond), len(data))

	return core.AudioPayload{Data: data, Encoding: s.config.Encoding}, nil
}

// responseFormat maps the relay encoding to the upstream response_format param.
func responseFormat(encoding core.AudioEncoding) openai.SpeechResponseFormat {
	switch encoding {
	case core.AudioEncodingPCM, core.AudioEncodingULaw8000:
		return openai.SpeechResponseFormatPcm
	default:
		return openai.SpeechResponseFormatMp3
	}
}
