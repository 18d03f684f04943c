// Package domain defines the core types and interfaces for kitchentape.
// All other packages depend on domain; domain depends on nothing.
package domain

import "time"

// RecordingPhase is the discrete state of a recording session.
//
// Valid transitions:
//
//	idle --(access granted)--> ready
//	ready --(start)--> recording
//	recording --(pause)--> paused
//	paused --(resume)--> recording
//	recording --(stop)--> stopped
//	paused --(stop)--> stopped
//
// stopped is terminal; a new recording requires a fresh session.
type RecordingPhase int

const (
	PhaseIdle RecordingPhase = iota
	PhaseReady
	PhaseRecording
	PhasePaused
	PhaseStopped
)

// String returns a human-readable recording phase.
func (p RecordingPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseReady:
		return "ready"
	case PhaseRecording:
		return "recording"
	case PhasePaused:
		return "paused"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// PermissionState tracks capture-device access for a session.
type PermissionState int

const (
	PermissionUnrequested PermissionState = iota
	PermissionGranted
	PermissionDenied
)

// String returns a human-readable permission state.
func (p PermissionState) String() string {
	switch p {
	case PermissionUnrequested:
		return "unrequested"
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// CaptureConstraints are hints passed to the device opener. The platform
// picks the closest supported configuration and silently ignores hints it
// cannot honor; no field is validated here.
type CaptureConstraints struct {
	Width            int    // resolution hint
	Height           int    // resolution hint
	Facing           string // "user" or "environment"
	EchoCancellation bool
	NoiseSuppression bool
	SampleRate       int
	Channels         int
	ChunkInterval    time.Duration // how often the device emits a chunk
}

// Artifact is the finalized, immutable binary produced by a recording:
// the ordered concatenation of every non-empty chunk the device emitted.
type Artifact struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType"`
}

// RecordingResult is the handoff value produced exactly once at the
// recording/paused -> stopped transition. Field names and types round-trip
// unchanged through the extraction boundary.
type RecordingResult struct {
	Artifact  Artifact `json:"artifact"`
	Duration  int      `json:"duration"` // elapsed seconds while recording
	Timestamp string   `json:"timestamp"`
}

// NewRecordingResult builds a result stamped with the given creation time
// in ISO-8601/RFC 3339 UTC.
func NewRecordingResult(artifact Artifact, durationSec int, at time.Time) *RecordingResult {
	return &RecordingResult{
		Artifact:  artifact,
		Duration:  durationSec,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}
