package audio

import "testing"

func TestPCM16ToULawDecimates(t *testing.T) {
	// Six samples of silence at 24 kHz become two mu-law bytes at 8 kHz.
	pcm := make([]byte, 12)
	out, err := PCM16ToULaw(pcm, 24000, 8000)
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 bytes, got %d", len(out))
	}
	for i, b := range out {
		if b != 0xFF {
			t.Fatalf("byte %d: silence must encode to 0xFF, got 0x%02X", i, b)
		}
	}
}

func TestPCM16ToULawSameRate(t *testing.T) {
	pcm := make([]byte, 8)
	out, err := PCM16ToULaw(pcm, 8000, 8000)
	if err != nil {
		t.Fatalf("transcode: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(out))
	}
}

func TestPCM16ToULawRejectsOddLength(t *testing.T) {
	if _, err := PCM16ToULaw(make([]byte, 3), 24000, 8000); err == nil {
		t.Fatal("expected error for odd-length pcm")
	}
}

func TestPCM16ToULawRejectsNonIntegerFactor(t *testing.T) {
	if _, err := PCM16ToULaw(make([]byte, 4), 22050, 8000); err == nil {
		t.Fatal("expected error for non-integer decimation factor")
	}
}

func TestPCM16ToULawRejectsBadRates(t *testing.T) {
	if _, err := PCM16ToULaw(make([]byte, 4), 0, 8000); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := PCM16ToULaw(make([]byte, 4), 24000, 0); err == nil {
		t.Fatal("expected error for zero target rate")
	}
}
