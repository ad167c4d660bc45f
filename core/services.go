package core

import "context"

// AudioEncoding tags the container/codec of synthesized audio.
type AudioEncoding string

const (
	AudioEncodingMP3      AudioEncoding = "mp3"
	AudioEncodingPCM      AudioEncoding = "pcm"       // 16-bit LE mono, 24 kHz
	AudioEncodingULaw8000 AudioEncoding = "ulaw_8000" // 8-bit mu-law, 8 kHz
)

// ChatReply is the text produced by one chat completion.
type ChatReply struct {
	Text string
}

// AudioPayload is the raw audio produced by one synthesis call.
type AudioPayload struct {
	Data     []byte
	Encoding AudioEncoding
}

// ChatService sends conversation text to a hosted completion endpoint and
// returns the generated reply. A single attempt is made per call; timeout and
// retry policy are owned by the implementation.
type ChatService interface {
	Complete(ctx context.Context, text string) (ChatReply, error)
}

// SpeechService converts reply text into audio via a hosted synthesis
// endpoint. Same failure taxonomy and single-attempt policy as ChatService.
type SpeechService interface {
	Synthesize(ctx context.Context, text string) (AudioPayload, error)
}
