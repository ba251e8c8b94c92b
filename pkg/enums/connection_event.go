package enums

import "fmt"

// ConnectionEvent names an effective connection transition for the
// notification channel. Idempotent no-ops never produce one.
type ConnectionEvent string

const (
	ConnectionEventRequested ConnectionEvent = "connection_requested"
	ConnectionEventAccepted  ConnectionEvent = "connection_accepted"
	ConnectionEventRejected  ConnectionEvent = "connection_rejected"
)

var validConnectionEvents = []ConnectionEvent{
	ConnectionEventRequested,
	ConnectionEventAccepted,
	ConnectionEventRejected,
}

// String implements fmt.Stringer.
func (e ConnectionEvent) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ConnectionEvent.
func (e ConnectionEvent) IsValid() bool {
	for _, candidate := range validConnectionEvents {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseConnectionEvent converts raw input into a ConnectionEvent.
func ParseConnectionEvent(value string) (ConnectionEvent, error) {
	for _, candidate := range validConnectionEvents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid connection event %q", value)
}
