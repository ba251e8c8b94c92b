package enums

import "fmt"

// ConnectionStatus maps to the connection_status enum in Postgres.
//
// Lifecycle: records are born pending, move to active on accept or
// rejected on reject. Rejected blocks duplicates but can be reopened to
// pending by a fresh request. Active has no further outbound transition.
type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusActive   ConnectionStatus = "active"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

var validConnectionStatuses = []ConnectionStatus{
	ConnectionStatusPending,
	ConnectionStatusActive,
	ConnectionStatusRejected,
}

// String implements fmt.Stringer.
func (s ConnectionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical enum.
func (s ConnectionStatus) IsValid() bool {
	for _, candidate := range validConnectionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsLive reports whether the status blocks a new request for the same
// organization pair.
func (s ConnectionStatus) IsLive() bool {
	return s == ConnectionStatusPending || s == ConnectionStatusActive
}

// ParseConnectionStatus converts raw input into a ConnectionStatus.
func ParseConnectionStatus(value string) (ConnectionStatus, error) {
	for _, candidate := range validConnectionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid connection status %q", value)
}
