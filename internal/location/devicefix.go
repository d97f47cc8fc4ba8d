package location

import (
	"errors"
	"math"

	"vendorhub/models"
)

// Device geolocation failures. Each needs a different corrective action from
// the user, so each has its own message.
var (
	ErrGeolocationUnsupported = errors.New("geolocation not supported")
	ErrPermissionDenied       = errors.New("location permission denied")
	ErrPositionUnavailable    = errors.New("location unavailable")
	ErrPositionTimeout        = errors.New("location request timed out")
	ErrInvalidCoordinates     = errors.New("coordinates out of range")
)

var fixMessages = map[error]string{
	ErrGeolocationUnsupported: "Geolocation is not supported by this browser.",
	ErrPermissionDenied:       "Location permission denied. Please allow location access in your browser settings and try again.",
	ErrPositionUnavailable:    "Location information is unavailable. Check that location services are turned on.",
	ErrPositionTimeout:        "Location request timed out. Please try again.",
	ErrInvalidCoordinates:     "The reported coordinates are out of range.",
}

// Position error codes reported by browsers.
const (
	codePermissionDenied    = 1
	codePositionUnavailable = 2
	codeTimeout             = 3
)

// ClassifyFix validates a device fix and maps failures to blocking errors.
func ClassifyFix(fix models.DeviceFix) error {
	if fix.Supported != nil && !*fix.Supported {
		return ErrGeolocationUnsupported
	}
	if fix.Permission == models.PermissionDenied {
		return ErrPermissionDenied
	}
	switch fix.ErrorCode {
	case 0:
	case codePermissionDenied:
		return ErrPermissionDenied
	case codeTimeout:
		return ErrPositionTimeout
	case codePositionUnavailable:
		return ErrPositionUnavailable
	default:
		return ErrPositionUnavailable
	}
	switch fix.Permission {
	case "", models.PermissionGranted:
	case models.PermissionPrompt:
		// The user has not answered the prompt yet, so no position exists.
		if fix.Latitude == 0 && fix.Longitude == 0 {
			return ErrPositionUnavailable
		}
	default:
		return ErrPositionUnavailable
	}
	if math.IsNaN(fix.Latitude) || math.IsNaN(fix.Longitude) ||
		fix.Latitude < -90 || fix.Latitude > 90 || fix.Longitude < -180 || fix.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// FixMessage is the user-facing text for a ClassifyFix error.
func FixMessage(err error) string {
	if msg, ok := fixMessages[err]; ok {
		return msg
	}
	return err.Error()
}
