package player

import (
	"encoding/binary"
	"testing"

	"github.com/hammamikhairi/kitchentape/internal/logger"
)

// buildWAV assembles a minimal RIFF/WAVE file around the given PCM bytes.
func buildWAV(pcm []byte) []byte {
	var buf []byte
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = append(buf, make([]byte, 16)...)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)
	return buf
}

func TestExtractPCM(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	got, err := extractPCM(buildWAV(pcm))
	if err != nil {
		t.Fatalf("extractPCM: %v", err)
	}
	if string(got) != string(pcm) {
		t.Fatalf("expected %v, got %v", pcm, got)
	}
}

func TestExtractPCMRejectsGarbage(t *testing.T) {
	if _, err := extractPCM([]byte("short")); err == nil {
		t.Fatal("expected error for short data")
	}

	junk := make([]byte, 64)
	if _, err := extractPCM(junk); err == nil {
		t.Fatal("expected error for missing RIFF header")
	}
}

func TestParseMime(t *testing.T) {
	tests := []struct {
		in       string
		base     string
		rate     int
		channels int
	}{
		{"audio/pcm;rate=48000;channels=1;format=s16le", "audio/pcm", 48000, 1},
		{"audio/wav", "audio/wav", 0, 0},
		{"AUDIO/PCM; Rate=16000 ; channels=2", "audio/pcm", 16000, 2},
		{"", "", 0, 0},
	}

	for _, tt := range tests {
		base, params := parseMime(tt.in)
		if base != tt.base {
			t.Errorf("%q: expected base %q, got %q", tt.in, tt.base, base)
		}
		if params["rate"] != tt.rate {
			t.Errorf("%q: expected rate %d, got %d", tt.in, tt.rate, params["rate"])
		}
		if params["channels"] != tt.channels {
			t.Errorf("%q: expected channels %d, got %d", tt.in, tt.channels, params["channels"])
		}
	}
}

func TestToPCMChecksParameters(t *testing.T) {
	p := &Player{log: logger.New(logger.LevelOff, nil), rate: 48000, channels: 1}

	data := []byte{0, 0, 0, 0}

	if _, err := p.toPCM(data, "audio/pcm;rate=48000;channels=1;format=s16le"); err != nil {
		t.Fatalf("matching raw PCM rejected: %v", err)
	}
	if _, err := p.toPCM(data, "audio/pcm;rate=16000"); err == nil {
		t.Fatal("expected rate mismatch error")
	}
	if _, err := p.toPCM(data, "audio/pcm;channels=2"); err == nil {
		t.Fatal("expected channel mismatch error")
	}
	if _, err := p.toPCM(data, "video/webm"); err == nil {
		t.Fatal("expected unsupported type error")
	}

	got, err := p.toPCM(buildWAV([]byte{9, 9}), "audio/wav")
	if err != nil {
		t.Fatalf("wav path: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 PCM bytes from wav, got %d", len(got))
	}
}
