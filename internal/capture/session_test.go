package capture

import (
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

// fakeDevice is an in-memory capture device for tests. Emit delivers a
// chunk only while emission is armed, mirroring the real device gating.
type fakeDevice struct {
	mu      sync.Mutex
	ch      chan []byte
	active  bool
	armed   bool
	ended   bool
	begins  int
	pauses  int
	resumes int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		ch:     make(chan []byte, 64),
		active: true,
	}
}

func (f *fakeDevice) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed = true
	f.begins++
	return nil
}

func (f *fakeDevice) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed = false
	f.pauses++
	return nil
}

func (f *fakeDevice) Resume() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed = true
	f.resumes++
	return nil
}

func (f *fakeDevice) End() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ended {
		return nil
	}
	f.ended = true
	f.armed = false
	f.active = false
	close(f.ch)
	return nil
}

func (f *fakeDevice) Chunks() <-chan []byte { return f.ch }

func (f *fakeDevice) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeDevice) MimeType() string { return "audio/test" }

// Emit sends a chunk as the platform recorder would: dropped unless
// emission is armed.
func (f *fakeDevice) Emit(chunk []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ended || !f.armed {
		return
	}
	f.ch <- chunk
}

// newTestSession returns a session whose real clock never fires, so tests
// drive ticks directly for deterministic elapsed counts.
func newTestSession(opts ...Option) *Session {
	log := logger.New(logger.LevelOff, nil)
	opts = append([]Option{WithTickInterval(time.Hour)}, opts...)
	return NewSession(log, opts...)
}

func ticks(s *Session, n int) {
	for i := 0; i < n; i++ {
		s.tick()
	}
}

func TestStartWithoutAccessIsNoOp(t *testing.T) {
	s := newTestSession()

	s.Start()

	if s.Phase() != domain.PhaseIdle {
		t.Fatalf("expected phase idle, got %s", s.Phase())
	}
	if s.Result() != nil {
		t.Fatal("expected no artifact without access")
	}
	if s.HasAccess() {
		t.Fatal("expected no access on a fresh session")
	}
}

func TestInvalidOperationsAreNoOps(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Session, *fakeDevice)
		op    func(*Session)
		want  domain.RecordingPhase
	}{
		{"pause in idle", func(s *Session, d *fakeDevice) {}, (*Session).Pause, domain.PhaseIdle},
		{"resume in idle", func(s *Session, d *fakeDevice) {}, (*Session).Resume, domain.PhaseIdle},
		{"stop in idle", func(s *Session, d *fakeDevice) { s.Stop() }, func(s *Session) {}, domain.PhaseIdle},
		{"pause in ready", func(s *Session, d *fakeDevice) { s.Attach(d) }, (*Session).Pause, domain.PhaseReady},
		{"resume in ready", func(s *Session, d *fakeDevice) { s.Attach(d) }, (*Session).Resume, domain.PhaseReady},
		{"start while recording", func(s *Session, d *fakeDevice) { s.Attach(d); s.Start() }, (*Session).Start, domain.PhaseRecording},
		{"resume while recording", func(s *Session, d *fakeDevice) { s.Attach(d); s.Start() }, (*Session).Resume, domain.PhaseRecording},
		{"start while paused", func(s *Session, d *fakeDevice) { s.Attach(d); s.Start(); s.Pause() }, (*Session).Start, domain.PhasePaused},
		{"start after stop", func(s *Session, d *fakeDevice) { s.Attach(d); s.Start(); s.Stop() }, (*Session).Start, domain.PhaseStopped},
		{"pause after stop", func(s *Session, d *fakeDevice) { s.Attach(d); s.Start(); s.Stop() }, (*Session).Pause, domain.PhaseStopped},
		{"resume after stop", func(s *Session, d *fakeDevice) { s.Attach(d); s.Start(); s.Stop() }, (*Session).Resume, domain.PhaseStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			d := newFakeDevice()
			tt.setup(s, d)
			tt.op(s)
			if s.Phase() != tt.want {
				t.Fatalf("expected phase %s, got %s", tt.want, s.Phase())
			}
		})
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	s := newTestSession()
	d := newFakeDevice()
	s.Attach(d)
	s.Start()
	ticks(s, 3)

	s.Pause()
	before := s.Elapsed()
	s.Pause()

	if s.Phase() != domain.PhasePaused {
		t.Fatalf("expected paused, got %s", s.Phase())
	}
	if s.Elapsed() != before {
		t.Fatalf("elapsed changed across repeated pause: %d -> %d", before, s.Elapsed())
	}
	if d.pauses != 1 {
		t.Fatalf("expected 1 device pause, got %d", d.pauses)
	}
}

func TestElapsedMonotonicAndGatedByPhase(t *testing.T) {
	s := newTestSession()
	d := newFakeDevice()
	s.Attach(d)

	// Ticks before start don't count.
	ticks(s, 2)
	if s.Elapsed() != 0 {
		t.Fatalf("expected 0 before start, got %d", s.Elapsed())
	}

	s.Start()
	ticks(s, 4)
	if s.Elapsed() != 4 {
		t.Fatalf("expected 4 while recording, got %d", s.Elapsed())
	}

	// Frozen while paused, even though the clock keeps ticking.
	s.Pause()
	ticks(s, 5)
	if s.Elapsed() != 4 {
		t.Fatalf("expected 4 while paused, got %d", s.Elapsed())
	}

	s.Resume()
	ticks(s, 1)
	if s.Elapsed() != 5 {
		t.Fatalf("expected 5 after resume, got %d", s.Elapsed())
	}

	s.Stop()
	ticks(s, 3)
	if s.Elapsed() != 5 {
		t.Fatalf("expected 5 after stop, got %d", s.Elapsed())
	}
}

func TestArtifactIsOrderedConcatenationExcludingEmptyChunks(t *testing.T) {
	var (
		mu      sync.Mutex
		results []*domain.RecordingResult
	)
	s := newTestSession(WithOnResult(func(r *domain.RecordingResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}))
	d := newFakeDevice()
	s.Attach(d)
	s.Start()

	d.Emit([]byte("sizzle-"))
	d.Emit(nil)          // zero-length: discarded
	d.Emit([]byte{})     // zero-length: discarded
	d.Emit([]byte("chop-"))

	s.Pause()
	d.Emit([]byte("dropped")) // not armed: never emitted

	s.Resume()
	d.Emit([]byte("serve"))

	res := s.Stop()
	if res == nil {
		t.Fatal("expected a result from stop")
	}

	want := "sizzle-chop-serve"
	if string(res.Artifact.Data) != want {
		t.Fatalf("artifact mismatch: want %q, got %q", want, res.Artifact.Data)
	}
	if res.Artifact.MimeType != "audio/test" {
		t.Fatalf("unexpected mime type %q", res.Artifact.MimeType)
	}
	if _, err := time.Parse(time.RFC3339, res.Timestamp); err != nil {
		t.Fatalf("timestamp not ISO-8601: %q (%v)", res.Timestamp, err)
	}

	mu.Lock()
	n := len(results)
	mu.Unlock()
	if n != 1 {
		t.Fatalf("expected exactly one result emission, got %d", n)
	}
}

func TestStopEmitsResultExactlyOnce(t *testing.T) {
	var count int
	s := newTestSession(WithOnResult(func(*domain.RecordingResult) { count++ }))
	d := newFakeDevice()
	s.Attach(d)
	s.Start()

	first := s.Stop()
	second := s.Stop()

	if first == nil {
		t.Fatal("first stop should produce a result")
	}
	if second != nil {
		t.Fatal("second stop should be a no-op")
	}
	if count != 1 {
		t.Fatalf("expected 1 handler call, got %d", count)
	}
	if s.Result() != first {
		t.Fatal("Result() should return the finalized result")
	}
}

func TestDeviceReleasedOnStop(t *testing.T) {
	s := newTestSession()
	d := newFakeDevice()
	s.Attach(d)
	s.Start()
	s.Stop()

	if d.Active() {
		t.Fatal("device should be released after stop")
	}
}

func TestDeviceReleasedOnAbandonment(t *testing.T) {
	s := newTestSession()
	d := newFakeDevice()
	s.Attach(d)
	s.Start()

	// Navigate away mid-recording.
	s.Close()

	if d.Active() {
		t.Fatal("device should be released on abandonment")
	}
	if s.Result() != nil {
		t.Fatal("abandonment must not produce a result")
	}

	// Close is idempotent and safe after the device is gone.
	s.Close()
}

func TestStopFromPaused(t *testing.T) {
	s := newTestSession()
	d := newFakeDevice()
	s.Attach(d)
	s.Start()
	d.Emit([]byte("abc"))
	s.Pause()

	res := s.Stop()
	if res == nil {
		t.Fatal("stop from paused should produce a result")
	}
	if s.Phase() != domain.PhaseStopped {
		t.Fatalf("expected stopped, got %s", s.Phase())
	}
	if string(res.Artifact.Data) != "abc" {
		t.Fatalf("artifact mismatch: %q", res.Artifact.Data)
	}
}

func TestEndToEndRecordingScenario(t *testing.T) {
	s := newTestSession()
	d := newFakeDevice()

	s.Attach(d)
	if s.Phase() != domain.PhaseReady || !s.HasAccess() {
		t.Fatalf("expected ready with access, got %s (access=%v)", s.Phase(), s.HasAccess())
	}

	s.Start()
	if s.Phase() != domain.PhaseRecording || s.Elapsed() != 0 {
		t.Fatalf("expected recording at 0s, got %s at %ds", s.Phase(), s.Elapsed())
	}

	d.Emit([]byte("first-"))
	ticks(s, 5)
	if s.Elapsed() != 5 {
		t.Fatalf("expected 5 after 5 ticks, got %d", s.Elapsed())
	}

	s.Pause()
	ticks(s, 3)
	if s.Phase() != domain.PhasePaused || s.Elapsed() != 5 {
		t.Fatalf("expected paused at 5s, got %s at %ds", s.Phase(), s.Elapsed())
	}

	s.Resume()
	d.Emit([]byte("second"))
	ticks(s, 2)
	if s.Phase() != domain.PhaseRecording || s.Elapsed() != 7 {
		t.Fatalf("expected recording at 7s, got %s at %ds", s.Phase(), s.Elapsed())
	}

	res := s.Stop()
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Duration != 7 {
		t.Fatalf("expected duration 7, got %d", res.Duration)
	}
	if string(res.Artifact.Data) != "first-second" {
		t.Fatalf("artifact mismatch: %q", res.Artifact.Data)
	}
	if s.Phase() != domain.PhaseStopped {
		t.Fatalf("expected stopped, got %s", s.Phase())
	}
	if d.Active() {
		t.Fatal("device should be released")
	}
}

func TestClockTicksAreDelivered(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	s := NewSession(log, WithTickInterval(20*time.Millisecond))
	d := newFakeDevice()
	s.Attach(d)
	s.Start()

	time.Sleep(150 * time.Millisecond)
	if s.Elapsed() == 0 {
		t.Fatal("expected the clock to advance elapsed time")
	}

	s.Stop()
	settled := s.Elapsed()
	time.Sleep(80 * time.Millisecond)
	if s.Elapsed() != settled {
		t.Fatal("clock should be cancelled after stop")
	}
}
