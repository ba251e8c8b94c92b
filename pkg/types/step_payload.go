package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StepPayload is the opaque per-step JSON blob attached to an onboarding
// step record. The tracker never inspects it.
type StepPayload json.RawMessage

// MarshalJSON returns the raw payload, or null when empty.
func (p StepPayload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// UnmarshalJSON stores the raw payload verbatim.
func (p *StepPayload) UnmarshalJSON(data []byte) error {
	if p == nil {
		return fmt.Errorf("step payload: unmarshal into nil pointer")
	}
	*p = append((*p)[:0], data...)
	return nil
}

// Value passes the payload to Postgres as JSONB.
func (p StepPayload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return []byte(p), nil
}

// Scan reads JSONB back into the payload.
func (p *StepPayload) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		*p = StepPayload([]byte(v))
	case []byte:
		*p = append((*p)[:0], v...)
	default:
		return fmt.Errorf("step payload: unsupported scan type %T", value)
	}
	return nil
}
