package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrgSettings is a free-form settings blob persisted as JSONB, e.g. the
// provider verification marker or store sample-data flags.
type OrgSettings map[string]any

// Value marshals the map into JSON for Postgres.
func (s OrgSettings) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (s *OrgSettings) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("org settings: unsupported scan type %T", value)
	}

	result := make(OrgSettings)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*s = result
	return nil
}
