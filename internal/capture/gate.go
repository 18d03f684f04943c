package capture

import (
	"context"

	"github.com/hammamikhairi/kitchentape/internal/domain"
	"github.com/hammamikhairi/kitchentape/internal/logger"
)

// Gate requests capture-device access from the platform on behalf of a
// session. Constraints are hints: the opener picks the closest supported
// configuration and nothing is validated here.
type Gate struct {
	opener domain.DeviceOpener
	log    *logger.Logger
}

// NewGate creates a permission gate over the given opener.
func NewGate(opener domain.DeviceOpener, log *logger.Logger) *Gate {
	return &Gate{opener: opener, log: log}
}

// Request asks the platform for a capture device. On success the device is
// live (its input level feeds the UI preview) and exclusively owned by the
// caller. Every failure -- user declined, no compatible device, backend
// error -- surfaces as the single undifferentiated ErrPermissionDenied;
// the user may retry.
//
// A repeat Request does not release a previously granted device. The
// session releases the device it owns; a granted device that was never
// attached stays live until process exit.
func (g *Gate) Request(ctx context.Context, c domain.CaptureConstraints) (domain.CaptureDevice, error) {
	dev, err := g.opener.Open(ctx, c)
	if err != nil {
		g.log.Warn("gate: access request failed: %v", err)
		return nil, domain.ErrPermissionDenied
	}

	g.log.Info("gate: capture access granted (%s)", dev.MimeType())
	return dev, nil
}
