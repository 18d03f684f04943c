package domain

import "errors"

// Sentinel errors used across layers.
var (
	// ErrPermissionDenied covers both "user declined" and "no compatible
	// device" -- the two are deliberately not distinguished.
	ErrPermissionDenied = errors.New("capture access denied or unavailable")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrNoArtifact       = errors.New("recording produced no artifact")
	ErrDeviceClosed     = errors.New("capture device closed")
)
