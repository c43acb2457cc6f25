package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ID identifies a backend record. Backends return numeric and string identifiers
// interchangeably, so both JSON forms decode into the same value.
type ID string

// UnmarshalJSON accepts JSON numbers, strings, and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}

	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(value))
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	*id = ID(number.String())
	return nil
}

// String returns the identifier as used in URLs.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// MarshalJSON emits integer identifiers as JSON numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	value := strings.TrimSpace(string(id))
	if value == "" {
		return []byte("null"), nil
	}
	if isDigits(value) {
		return []byte(value), nil
	}
	return json.Marshal(value)
}

func isDigits(value string) bool {
	if len(value) > 18 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value[0] != '0' || len(value) == 1
}
