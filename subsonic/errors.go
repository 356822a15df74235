package subsonic

import "errors"

const (
	StatusOK = "ok"

	// StatusMalformed is reported when the body carries no usable envelope.
	StatusMalformed = "malformed"
)

// ErrNoServer is returned when a request is attempted before a server is known.
var ErrNoServer = errors.New("subsonic: no server configured")

// ProtocolError is returned when the envelope status is not "ok" or when the
// response has no envelope at all.
type ProtocolError struct {
	Status     string
	Code       int
	Message    string
	HTTPStatus int
	Err        error
}

// Error returns the server-supplied message, or the raw status when the
// server gave none.
func (e *ProtocolError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Status
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
