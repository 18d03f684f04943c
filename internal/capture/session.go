// Package capture implements the recording session: device permission
// acquisition, the chunked capture pipeline, the phase state machine, and
// the duration clock.
package capture

import (
	"sync"
	"time"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

// Option configures a Session.
type Option func(*Session)

// WithTickInterval sets the duration-clock tick interval. Defaults to one
// second; tests inject a long interval and drive ticks directly.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		s.tickInterval = d
	}
}

// WithOnResult registers the completion handler that receives the
// RecordingResult emitted at the stop transition. Called exactly once per
// session, outside the session lock.
func WithOnResult(fn func(*domain.RecordingResult)) Option {
	return func(s *Session) {
		s.onResult = fn
	}
}

// Session is one recording session. It owns at most one capture device,
// accumulates chunks into the final artifact, and enforces the phase
// transition table:
//
//	idle -> ready -> recording <-> paused -> stopped
//
// Operations called outside their valid phase are absorbed as no-ops
// rather than surfaced as errors. stopped is terminal; record again by
// constructing a fresh Session. All methods are safe for concurrent use;
// every transition is atomic under the session mutex.
type Session struct {
	log          *logger.Logger
	tickInterval time.Duration
	onResult     func(*domain.RecordingResult)

	mu        sync.Mutex
	phase     domain.RecordingPhase
	perm      domain.PermissionState
	dev       domain.CaptureDevice
	chunks    [][]byte
	elapsed   int // seconds counted while recording
	result    *domain.RecordingResult
	clock     *clock
	drainDone chan struct{}
	stopping  bool
	closed    bool
}

// NewSession creates a session in the idle phase with no device access.
func NewSession(log *logger.Logger, opts ...Option) *Session {
	s := &Session{
		log:          log,
		tickInterval: 1 * time.Second,
		phase:        domain.PhaseIdle,
		perm:         domain.PermissionUnrequested,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach binds a granted capture device to the session and moves it from
// idle to ready. The session takes exclusive ownership of the device and
// is responsible for releasing it on every exit path.
func (s *Session) Attach(dev domain.CaptureDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseIdle {
		s.log.Debug("session: attach ignored in phase %s", s.phase)
		return
	}

	s.dev = dev
	s.perm = domain.PermissionGranted
	s.phase = domain.PhaseReady
	s.drainDone = make(chan struct{})
	go s.drain(dev, s.drainDone)

	s.log.Info("session: device attached (%s), ready to record", dev.MimeType())
}

// Deny records a failed access request so the UI can show the denied state.
// The session stays idle and the user may retry.
func (s *Session) Deny() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == domain.PhaseIdle {
		s.perm = domain.PermissionDenied
	}
}

// Start begins recording. Valid only in the ready phase; otherwise a no-op.
// Clears any previous chunk accumulator, resets elapsed time to zero, and
// starts the duration clock.
func (s *Session) Start() {
	s.mu.Lock()

	if s.phase != domain.PhaseReady {
		s.log.Debug("session: start ignored in phase %s", s.phase)
		s.mu.Unlock()
		return
	}

	s.chunks = nil
	s.elapsed = 0
	s.phase = domain.PhaseRecording
	s.clock = newClock(s.tickInterval)
	dev := s.dev
	s.mu.Unlock()

	if err := dev.Begin(); err != nil {
		s.log.Error("session: device begin: %v", err)
	}
	s.clock.start(s.tick)
	s.log.Info("session: recording started")
}

// Pause suspends chunk production and freezes the elapsed counter. Valid
// only while recording; otherwise a no-op. The clock keeps ticking -- only
// the counter increment is skipped while paused.
func (s *Session) Pause() {
	s.mu.Lock()

	if s.phase != domain.PhaseRecording {
		s.log.Debug("session: pause ignored in phase %s", s.phase)
		s.mu.Unlock()
		return
	}

	s.phase = domain.PhasePaused
	dev := s.dev
	s.mu.Unlock()

	if err := dev.Pause(); err != nil {
		s.log.Error("session: device pause: %v", err)
	}
	s.log.Info("session: paused at %ds", s.Elapsed())
}

// Resume restarts chunk production, appending to the same accumulator.
// Valid only while paused; otherwise a no-op.
func (s *Session) Resume() {
	s.mu.Lock()

	if s.phase != domain.PhasePaused {
		s.log.Debug("session: resume ignored in phase %s", s.phase)
		s.mu.Unlock()
		return
	}

	s.phase = domain.PhaseRecording
	dev := s.dev
	s.mu.Unlock()

	if err := dev.Resume(); err != nil {
		s.log.Error("session: device resume: %v", err)
	}
	s.log.Info("session: resumed")
}

// Stop halts chunk production, concatenates the accumulated chunks into
// the final artifact, releases the device, and emits the RecordingResult
// exactly once to the registered handler. Valid while recording or paused;
// otherwise a no-op returning nil.
func (s *Session) Stop() *domain.RecordingResult {
	s.mu.Lock()

	if s.stopping || (s.phase != domain.PhaseRecording && s.phase != domain.PhasePaused) {
		s.log.Debug("session: stop ignored in phase %s", s.phase)
		s.mu.Unlock()
		return nil
	}

	s.stopping = true
	dev := s.dev
	drained := s.drainDone
	s.mu.Unlock()

	// Release the device first: End closes the chunk channel, so waiting
	// on the drain goroutine guarantees every emitted chunk has been
	// accumulated before the artifact is assembled.
	if err := dev.End(); err != nil {
		s.log.Error("session: device end: %v", err)
	}
	if drained != nil {
		<-drained
	}

	s.mu.Lock()
	if s.clock != nil {
		s.clock.stop()
	}

	var size int
	for _, c := range s.chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range s.chunks {
		data = append(data, c...)
	}
	count := len(s.chunks)

	res := domain.NewRecordingResult(
		domain.Artifact{Data: data, MimeType: dev.MimeType()},
		s.elapsed,
		time.Now(),
	)
	s.result = res
	s.phase = domain.PhaseStopped
	handler := s.onResult
	s.mu.Unlock()

	s.log.Info("session: stopped (%ds, %d bytes, %d chunks)", res.Duration, size, count)

	if handler != nil {
		handler(res)
	}
	return res
}

// Close releases the capture device without producing a result. It covers
// every exit path that isn't an explicit Stop: navigation away, teardown,
// errors. Safe to call multiple times and after Stop.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	dev := s.dev
	drained := s.drainDone
	if s.clock != nil {
		s.clock.stop()
	}
	s.mu.Unlock()

	if dev != nil && dev.Active() {
		if err := dev.End(); err != nil {
			s.log.Error("session: device release: %v", err)
		}
		s.log.Info("session: abandoned, device released")
	}
	if drained != nil {
		<-drained
	}
}

// Phase returns the current phase.
func (s *Session) Phase() domain.RecordingPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Elapsed returns the elapsed recording time in seconds.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// HasAccess reports whether a capture device has been granted.
func (s *Session) HasAccess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perm == domain.PermissionGranted
}

// Permission returns the permission state for UI display.
func (s *Session) Permission() domain.PermissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perm
}

// Result returns the finalized result, or nil before the stop transition.
func (s *Session) Result() *domain.RecordingResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// InputLevel returns the live input level (0..1) when the attached device
// reports one, for the UI preview. Zero otherwise.
func (s *Session) InputLevel() float64 {
	s.mu.Lock()
	dev := s.dev
	s.mu.Unlock()

	if lv, ok := dev.(interface{ Level() float64 }); ok {
		return lv.Level()
	}
	return 0
}

// tick advances the elapsed counter by one second while recording. Ticks
// arriving in any other phase (including paused) are counted ticks of the
// clock but do not advance the counter.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == domain.PhaseRecording {
		s.elapsed++
	}
}

// drain moves chunks from the device channel into the accumulator in
// arrival order. Zero-length chunks are discarded. Ends when the device
// closes its channel (explicit End or device failure -- the latter is
// fatal to the session per the error model).
func (s *Session) drain(dev domain.CaptureDevice, done chan struct{}) {
	defer close(done)
	for chunk := range dev.Chunks() {
		if len(chunk) == 0 {
			continue
		}
		s.mu.Lock()
		s.chunks = append(s.chunks, chunk)
		s.mu.Unlock()
	}
}
