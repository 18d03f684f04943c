package capture

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

const (
	defaultSampleRate    = 48000
	defaultChannels      = 1
	defaultChunkInterval = 250 * time.Millisecond
	chunkQueueCap        = 64
)

// Compile-time interface checks.
var (
	_ domain.DeviceOpener  = (*MiniaudioOpener)(nil)
	_ domain.CaptureDevice = (*miniaudioDevice)(nil)
)

// MiniaudioOpener opens the kitchen microphone through miniaudio (malgo).
// Video-oriented constraint fields (resolution, facing) have no audio
// equivalent and are silently ignored, per the hints contract.
type MiniaudioOpener struct {
	log *logger.Logger
}

// NewMiniaudioOpener creates the default device opener.
func NewMiniaudioOpener(log *logger.Logger) *MiniaudioOpener {
	return &MiniaudioOpener{log: log}
}

// Open initialises a capture device honoring the audio hints in c. The
// hardware goes live immediately (that is what feeds the level preview);
// chunk emission stays gated behind Begin.
func (o *MiniaudioOpener) Open(ctx context.Context, c domain.CaptureConstraints) (domain.CaptureDevice, error) {
	rate := c.SampleRate
	if rate <= 0 {
		rate = defaultSampleRate
	}
	channels := c.Channels
	if channels <= 0 {
		channels = defaultChannels
	}
	interval := c.ChunkInterval
	if interval <= 0 {
		interval = defaultChunkInterval
	}

	mCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(_ string) {})
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}

	devCfg := malgo.DefaultDeviceConfig(malgo.Capture)
	devCfg.SampleRate = uint32(rate)
	devCfg.Capture.Format = malgo.FormatS16
	devCfg.Capture.Channels = uint32(channels)
	devCfg.Alsa.NoMMap = 1

	d := &miniaudioDevice{
		log: o.log,
		ctx: mCtx,
		// One chunk per interval of S16 frames.
		chunkBytes: rate * channels * 2 * int(interval.Milliseconds()) / 1000,
		mime:       fmt.Sprintf("audio/pcm;rate=%d;channels=%d;format=s16le", rate, channels),
		chunks:     make(chan []byte, chunkQueueCap),
	}
	d.active.Store(true)

	callbacks := malgo.DeviceCallbacks{Data: d.onData}

	device, err := malgo.InitDevice(mCtx.Context, devCfg, callbacks)
	if err != nil {
		_ = mCtx.Uninit()
		mCtx.Free()
		return nil, fmt.Errorf("initializing capture device: %w", err)
	}
	d.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = mCtx.Uninit()
		mCtx.Free()
		return nil, fmt.Errorf("starting capture device: %w", err)
	}

	o.log.Debug("miniaudio: capture open (rate=%d, channels=%d, chunk=%s)", rate, channels, interval)
	return d, nil
}

// miniaudioDevice adapts a malgo capture device to domain.CaptureDevice.
// The data callback always computes the input level; sample bytes are only
// forwarded to the chunk channel while armed.
type miniaudioDevice struct {
	log        *logger.Logger
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	chunkBytes int
	mime       string

	chunks chan []byte
	armed  atomic.Bool
	active atomic.Bool
	level  atomic.Uint64 // float64 bits, 0..1 RMS
	drops  atomic.Int64

	mu      sync.Mutex
	pending []byte
	ended   bool
}

// onData runs on the miniaudio thread. Keep it allocation-light and never
// block on the chunk channel.
func (d *miniaudioDevice) onData(_ []byte, raw []byte, _ uint32) {
	if len(raw) == 0 {
		return
	}

	// RMS over S16 samples for the live preview.
	var sumSq float64
	n := len(raw) / 2
	for i := 0; i < n; i++ {
		v := float64(int16(uint16(raw[i*2]) | uint16(raw[i*2+1])<<8))
		sumSq += v * v
	}
	if n > 0 {
		rms := math.Sqrt(sumSq/float64(n)) / 32768.0
		d.level.Store(math.Float64bits(rms))
	}

	if !d.armed.Load() {
		return
	}

	d.mu.Lock()
	if d.ended {
		d.mu.Unlock()
		return
	}
	d.pending = append(d.pending, raw...)
	var out [][]byte
	for len(d.pending) >= d.chunkBytes {
		chunk := make([]byte, d.chunkBytes)
		copy(chunk, d.pending[:d.chunkBytes])
		rem := copy(d.pending, d.pending[d.chunkBytes:])
		d.pending = d.pending[:rem]
		out = append(out, chunk)
	}
	d.mu.Unlock()

	for _, chunk := range out {
		select {
		case d.chunks <- chunk:
		default:
			d.drops.Add(1)
		}
	}
}

// Begin arms chunk emission.
func (d *miniaudioDevice) Begin() error {
	if !d.active.Load() {
		return domain.ErrDeviceClosed
	}
	d.armed.Store(true)
	return nil
}

// Pause suspends chunk emission; the hardware keeps running.
func (d *miniaudioDevice) Pause() error {
	d.armed.Store(false)
	return nil
}

// Resume re-arms chunk emission.
func (d *miniaudioDevice) Resume() error {
	if !d.active.Load() {
		return domain.ErrDeviceClosed
	}
	d.armed.Store(true)
	return nil
}

// End flushes the partial trailing chunk, releases the hardware, and
// closes the chunk channel. Idempotent.
func (d *miniaudioDevice) End() error {
	d.mu.Lock()
	if d.ended {
		d.mu.Unlock()
		return nil
	}
	d.ended = true
	tail := d.pending
	d.pending = nil
	armed := d.armed.Load()
	d.mu.Unlock()

	d.armed.Store(false)
	d.active.Store(false)

	_ = d.device.Stop()
	d.device.Uninit()
	_ = d.ctx.Uninit()
	d.ctx.Free()

	// The trailing partial chunk belongs to the artifact if emission was
	// still armed when the session ended.
	if armed && len(tail) > 0 {
		select {
		case d.chunks <- tail:
		default:
			d.drops.Add(1)
		}
	}
	close(d.chunks)

	if n := d.drops.Load(); n > 0 {
		d.log.Warn("miniaudio: dropped %d chunks (consumer too slow)", n)
	}
	d.log.Debug("miniaudio: capture released")
	return nil
}

// Chunks delivers captured fragments in emission order.
func (d *miniaudioDevice) Chunks() <-chan []byte { return d.chunks }

// Active reports whether the device is still held open.
func (d *miniaudioDevice) Active() bool { return d.active.Load() }

// MimeType describes the chunk stream; the artifact is the plain
// concatenation of chunks in this encoding.
func (d *miniaudioDevice) MimeType() string { return d.mime }

// Level returns the most recent input RMS level, 0..1.
func (d *miniaudioDevice) Level() float64 {
	return math.Float64frombits(d.level.Load())
}
