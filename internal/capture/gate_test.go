package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

// fakeOpener hands out fresh fake devices, or fails every request.
type fakeOpener struct {
	fail   bool
	opened []*fakeDevice
}

func (f *fakeOpener) Open(_ context.Context, _ domain.CaptureConstraints) (domain.CaptureDevice, error) {
	if f.fail {
		return nil, errors.New("no capture device")
	}
	d := newFakeDevice()
	f.opened = append(f.opened, d)
	return d, nil
}

func TestGateGrantsAccess(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	gate := NewGate(&fakeOpener{}, log)

	dev, err := gate.Request(context.Background(), domain.CaptureConstraints{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dev.Active() {
		t.Fatal("granted device should be live")
	}
}

func TestGateMapsAllFailuresToPermissionDenied(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	gate := NewGate(&fakeOpener{fail: true}, log)

	_, err := gate.Request(context.Background(), domain.CaptureConstraints{})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestGateDeniedSessionStaysIdleAndCanRetry(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	opener := &fakeOpener{fail: true}
	gate := NewGate(opener, log)
	s := newTestSession()

	if _, err := gate.Request(context.Background(), domain.CaptureConstraints{}); err != nil {
		s.Deny()
	}
	if s.Phase() != domain.PhaseIdle || s.Permission() != domain.PermissionDenied {
		t.Fatalf("expected idle/denied, got %s/%s", s.Phase(), s.Permission())
	}

	// User retries after fixing the device.
	opener.fail = false
	dev, err := gate.Request(context.Background(), domain.CaptureConstraints{})
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	s.Attach(dev)
	if s.Phase() != domain.PhaseReady || !s.HasAccess() {
		t.Fatalf("expected ready with access, got %s", s.Phase())
	}
}

// A repeat request acquires a fresh device without releasing the previous
// one. The session only releases the device it owns.
func TestGateRepeatRequestDoesNotReleasePriorDevice(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	opener := &fakeOpener{}
	gate := NewGate(opener, log)
	ctx := context.Background()

	first, err := gate.Request(ctx, domain.CaptureConstraints{})
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := gate.Request(ctx, domain.CaptureConstraints{})
	if err != nil {
		t.Fatalf("second request: %v", err)
	}

	if first == second {
		t.Fatal("expected distinct devices")
	}
	if !first.Active() {
		t.Fatal("prior device must stay live; only the owning session releases it")
	}
	if !second.Active() {
		t.Fatal("new device should be live")
	}
}
