package backend

import "github.com/pkg/errors"

// user-facing fallback messages
const (
	networkErrMsg = "unable to reach the server; check your connection and try again"
	genericErrMsg = "something went wrong, please try again"
	expiredErrMsg = "your session has expired, please log in again"
)

// Kind tags every error the client surfaces so callers pattern-match instead of
// poking at raw status codes or envelope fields.
type Kind int

const (
	// KindNetwork - no response reached the client (offline, DNS, timeout).
	KindNetwork Kind = iota + 1
	// KindUnauthorized - 401; the session teardown side effects have already fired.
	KindUnauthorized
	// KindForbidden - 403; surfaced to the calling page as a message.
	KindForbidden
	// KindRequest - any other non-2xx (validation, business or server error),
	// carrying the backend's message field.
	KindRequest
)

// Error is the tagged union returned by every client call.
type Error struct {
	Kind       Kind
	StatusCode int // 0 for network errors
	Message    string
}

func (e *Error) Error() string { return e.Message }

// KindOf returns the error's Kind, or 0 for errors that did not come from the client.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsNetwork(err error) bool      { return KindOf(err) == KindNetwork }
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }
func IsForbidden(err error) bool    { return KindOf(err) == KindForbidden }
