package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

// Player handles audio playback of recorded sessions via oto.
type Player struct {
	ctx      *oto.Context
	log      *logger.Logger
	rate     int
	channels int
	mu       sync.Mutex
	active   *oto.Player // currently playing, nil when idle
}

// New creates an audio player for signed 16-bit little-endian PCM at the
// given rate and channel count. Initializes the system audio context.
// Returns an error if the audio device is unavailable.
func New(log *logger.Logger, sampleRate, channels int) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("audio player initialized (rate=%d, channels=%d)", sampleRate, channels)
	return &Player{ctx: ctx, log: log, rate: sampleRate, channels: channels}, nil
}

// PlayResult plays back a finished recording synchronously. Blocks until
// playback finishes or Stop is called.
func (p *Player) PlayResult(result *domain.RecordingResult) error {
	if result == nil || len(result.Artifact.Data) == 0 {
		return domain.ErrNoArtifact
	}

	pcm, err := p.toPCM(result.Artifact.Data, result.Artifact.MimeType)
	if err != nil {
		return err
	}
	return p.playPCM(pcm)
}

// Play plays WAV audio data synchronously.
func (p *Player) Play(wavData []byte) error {
	pcm, err := extractPCM(wavData)
	if err != nil {
		return err
	}
	return p.playPCM(pcm)
}

func (p *Player) playPCM(pcm []byte) error {
	player := p.ctx.NewPlayer(bytes.NewReader(pcm))

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()

	player.Play()
	p.log.Debug("audio player: playing %d bytes of PCM", len(pcm))

	// Wait for playback to complete or be interrupted.
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	p.mu.Lock()
	p.active = nil
	p.mu.Unlock()

	return player.Close()
}

// Stop interrupts the currently playing audio, if any. Safe to call
// concurrently and when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("audio player: interrupted")
	}
}

// toPCM prepares artifact bytes for the output context based on the
// artifact's MIME type. Raw PCM is played as-is after checking that its
// parameters match the context; WAV data has its header stripped.
func (p *Player) toPCM(data []byte, mimeType string) ([]byte, error) {
	base, params := parseMime(mimeType)
	switch base {
	case "audio/pcm", "":
		if r, ok := params["rate"]; ok && r != p.rate {
			return nil, fmt.Errorf("artifact sample rate %d does not match player rate %d", r, p.rate)
		}
		if c, ok := params["channels"]; ok && c != p.channels {
			return nil, fmt.Errorf("artifact channel count %d does not match player channels %d", c, p.channels)
		}
		return data, nil
	case "audio/wav", "audio/x-wav", "audio/wave":
		return extractPCM(data)
	default:
		return nil, fmt.Errorf("unsupported artifact type %q", mimeType)
	}
}

// parseMime splits "audio/pcm;rate=48000;channels=1;format=s16le" into the
// base type and its integer parameters. Non-integer parameters are ignored.
func parseMime(mimeType string) (string, map[string]int) {
	parts := strings.Split(mimeType, ";")
	base := strings.ToLower(strings.TrimSpace(parts[0]))

	params := make(map[string]int)
	for _, part := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		if n, err := strconv.Atoi(kv[1]); err == nil {
			params[strings.ToLower(kv[0])] = n
		}
	}
	return base, params
}

// extractPCM strips the WAV/RIFF header and returns raw PCM data.
func extractPCM(wav []byte) ([]byte, error) {
	if len(wav) < 44 {
		return nil, errors.New("wav data too short")
	}

	// Verify RIFF header.
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a valid WAV file")
	}

	// Walk chunks to find the "data" chunk.
	pos := 12
	for pos < len(wav)-8 {
		chunkID := string(wav[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))

		if chunkID == "data" {
			start := pos + 8
			end := start + chunkSize
			if end > len(wav) {
				end = len(wav)
			}
			return wav[start:end], nil
		}

		pos += 8 + chunkSize
		// Chunks are word-aligned.
		if chunkSize%2 != 0 {
			pos++
		}
	}

	return nil, errors.New("data chunk not found in WAV")
}
