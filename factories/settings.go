package factories

import (
	"fmt"
	"os"
	"time"

	"voicerelay/core"

	"github.com/bytedance/sonic"
	"github.com/caarlos0/env/v11"
)

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// LLMSettings configures the chat completion upstream.
type LLMSettings struct {
	Model        string  `json:"model"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float32 `json:"temperature"`
	SystemPrompt string  `json:"system_prompt"`
}

// TTSSettings configures the speech synthesis upstream.
type TTSSettings struct {
	Model    string `json:"model"`
	Voice    string `json:"voice"`
	Encoding string `json:"encoding"` // mp3, pcm or ulaw_8000
}

// Settings is the top-level config, loadable from settings.json with env
// overrides applied on top. API keys never live here.
type Settings struct {
	Server                ServerSettings `json:"server"`
	LLM                   LLMSettings    `json:"llm"`
	TTS                   TTSSettings    `json:"tts"`
	RequestTimeoutSeconds int            `json:"request_timeout_seconds"`
}

// DefaultSettings returns a Settings pre-filled with working defaults.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 8000,
		},
		LLM: LLMSettings{
			Model:       "gpt-3.5-turbo",
			MaxTokens:   150,
			Temperature: 0.7,
			SystemPrompt: "You are a helpful AI assistant. " +
				"Provide clear, concise, and accurate responses. " +
				"Keep answers brief unless asked for details.",
		},
		TTS: TTSSettings{
			Model:    "tts-1",
			Voice:    "alloy",
			Encoding: string(core.AudioEncodingMP3),
		},
		RequestTimeoutSeconds: 30,
	}
}

// SettingsFromJSON parses a JSON blob into a Settings, starting from defaults
// so partial files only override what they mention.
func SettingsFromJSON(data []byte) (Settings, error) {
	settings := DefaultSettings()
	if err := sonic.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}
	return settings, nil
}

// SettingsFromFile loads Settings from a JSON file.
func SettingsFromFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: read %s: %w", path, err)
	}
	return SettingsFromJSON(data)
}

// RequestTimeout returns the per-call upstream timeout as a duration.
func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// Env carries all process-environment configuration, including secrets that
// must never appear in settings files.
type Env struct {
	OpenAIAPIKey          string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL         string `env:"OPENAI_BASE_URL"`
	Host                  string `env:"HOST"`
	Port                  int    `env:"PORT"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT"`
	SettingsPath          string `env:"SETTINGS_PATH" envDefault:"./settings.json"`
}

// EnvFromProcess parses Env from the process environment.
func EnvFromProcess() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("env: %w", err)
	}
	return e, nil
}

// ApplyEnv overrides settings with any values set in the environment.
func (s *Settings) ApplyEnv(e Env) {
	if e.Host != "" {
		s.Server.Host = e.Host
	}
	if e.Port != 0 {
		s.Server.Port = e.Port
	}
	if e.RequestTimeoutSeconds != 0 {
		s.RequestTimeoutSeconds = e.RequestTimeoutSeconds
	}
}
