package factories

import (
	"errors"

	"voicerelay/core"
	"voicerelay/services/openai/llm"
	"voicerelay/services/openai/tts"
)

// BuildServices constructs the chat and speech clients from settings plus the
// env-provided API key and base URL. Both clients are created once at process
// start and injected wherever needed; there are no ambient singletons.
func BuildServices(settings Settings, e Env, logger *core.Logger) (core.ChatService, core.SpeechService, error) {
	if e.OpenAIAPIKey == "" {
		return nil, nil, errors.New("OPENAI_API_KEY is required")
	}

	chatConfig := llm.DefaultConfig()
	chatConfig.APIKey = e.OpenAIAPIKey
	chatConfig.BaseURL = e.OpenAIBaseURL
	chatConfig.Model = settings.LLM.Model
	chatConfig.MaxTokens = settings.LLM.MaxTokens
	chatConfig.Temperature = settings.LLM.Temperature
	chatConfig.SystemPrompt = settings.LLM.SystemPrompt
	chatConfig.Timeout = settings.RequestTimeout()

	speechConfig := tts.DefaultConfig()
	speechConfig.APIKey = e.OpenAIAPIKey
	speechConfig.BaseURL = e.OpenAIBaseURL
	speechConfig.Model = settings.TTS.Model
	speechConfig.Voice = settings.TTS.Voice
	speechConfig.Encoding = core.AudioEncoding(settings.TTS.Encoding)
	speechConfig.Timeout = settings.RequestTimeout()

	return llm.NewOpenAIChatService(chatConfig, logger),
		tts.NewOpenAISpeechService(speechConfig, logger),
		nil
}
