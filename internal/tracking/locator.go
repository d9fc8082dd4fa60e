package tracking

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrPermissionDenied    = errors.New("location access denied by user")
	ErrPositionUnavailable = errors.New("location information unavailable")
	ErrTimeout             = errors.New("location request timed out")
	ErrUnsupported         = errors.New("geolocation is not supported by this device")
	ErrLocationUnknown     = errors.New("an unknown location error occurred")
)

// IsLocationError reports whether err came from acquiring a position.
func IsLocationError(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrPositionUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnsupported) ||
		errors.Is(err, ErrLocationUnknown)
}

// ParseLocationError maps a device error code, symbolic or numeric, to its
// sentinel error.
func ParseLocationError(code string) error {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "1", "PERMISSION_DENIED":
		return ErrPermissionDenied
	case "2", "POSITION_UNAVAILABLE":
		return ErrPositionUnavailable
	case "3", "TIMEOUT":
		return ErrTimeout
	case "UNSUPPORTED":
		return ErrUnsupported
	default:
		return ErrLocationUnknown
	}
}

// Locator acquires the current position of the device.
type Locator interface {
	Current(ctx context.Context) (Reading, error)
}

// Fix is a Locator that replays a single client-reported outcome.
type Fix struct {
	Reading Reading
	Err     error
}

func (f Fix) Current(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	if f.Err != nil {
		return Reading{}, f.Err
	}
	return f.Reading, nil
}
