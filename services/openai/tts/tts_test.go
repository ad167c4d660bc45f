package tts

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voicerelay/core"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *OpenAISpeechService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config := DefaultConfig()
	config.APIKey = "test-key"
	config.BaseURL = srv.URL + "/v1"
	config.Timeout = 2 * time.Second
	return NewOpenAISpeechService(config, nil)
}

func TestSynthesizeReturnsAudioBytes(t *testing.T) {
	want := []byte{0x00, 0x01}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(want)
	})

	payload, err := svc.Synthesize(context.Background(), "Hi there!")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if !bytes.Equal(payload.Data, want) {
		t.Fatalf("expected %v, got %v", want, payload.Data)
	}
	if payload.Encoding != core.AudioEncodingMP3 {
		t.Fatalf("expected mp3 encoding tag, got %s", payload.Encoding)
	}
}

func TestSynthesizeMapsFailureStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "input too long", "type": "invalid_request_error"}}`))
	})

	_, err := svc.Synthesize(context.Background(), "Hi there!")
	var upstream *core.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *core.UpstreamError, got %T: %v", err, err)
	}
	if upstream.Status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", upstream.Status)
	}
	if upstream.Service != "speech" {
		t.Fatalf("expected speech service tag, got %q", upstream.Service)
	}
}

func TestSynthesizeMapsTimeout(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	svc.config.Timeout = 50 * time.Millisecond

	_, err := svc.Synthesize(context.Background(), "Hi there!")
	var timeout *core.UpstreamTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("expected *core.UpstreamTimeout, got %T: %v", err, err)
	}
}

func TestSynthesizeTelephonyEncodingTranscodes(t *testing.T) {
	// Three 16-bit samples at 24 kHz decimate to one sample at 8 kHz, which
	// mu-law encodes to a single byte.
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	})
	svc.config.Encoding = core.AudioEncodingULaw8000

	payload, err := svc.Synthesize(context.Background(), "Hi there!")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(payload.Data) != 1 {
		t.Fatalf("expected 1 mu-law byte, got %d", len(payload.Data))
	}
	if payload.Encoding != core.AudioEncodingULaw8000 {
		t.Fatalf("expected ulaw_8000 encoding tag, got %s", payload.Encoding)
	}
}

func TestResponseFormatMapping(t *testing.T) {
	if got := responseFormat(core.AudioEncodingMP3); got != "mp3" {
		t.Fatalf("mp3 -> %q", got)
	}
	if got := responseFormat(core.AudioEncodingPCM); got != "pcm" {
		t.Fatalf("pcm -> %q", got)
	}
	if got := responseFormat(core.AudioEncodingULaw8000); got != "pcm" {
		t.Fatalf("ulaw_8000 should request pcm upstream, got %q", got)
	}
}
