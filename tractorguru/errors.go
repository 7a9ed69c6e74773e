package tractorguru

import (
	"errors"
	"fmt"

	"github.com/use-agent/tractorguru/engine"
)

// ErrInvalidPath is returned when a caller passes a blank path, or a URL
// that points outside the configured site.
var ErrInvalidPath = errors.New("tractorguru: a site path is required")

// InitializationError reports that the client's transport could not be
// constructed. Callers should treat the service as unavailable.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("tractorguru: initialize client: %v", e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// FetchError reports a network failure or a non-2xx response while fetching
// a page. StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tractorguru: fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("tractorguru: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newFetchError(url string, err error) *FetchError {
	fe := &FetchError{URL: url, Err: err}
	var statusErr *engine.StatusError
	if errors.As(err, &statusErr) {
		fe.StatusCode = statusErr.StatusCode
	}
	return fe
}
