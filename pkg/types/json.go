package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores an ordered list of strings as a JSON column so the same
// model works on Postgres and SQLite.
type StringList []string

// Value serializes the list to JSON.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan decodes a JSON column into the list.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded StringList
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// PrintFiles maps an aspect-ratio tag ("2:3", "3:4") to a production file URL.
type PrintFiles map[string]string

// Value serializes the map to JSON.
func (p PrintFiles) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// Scan decodes a JSON column into the map.
func (p *PrintFiles) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	decoded := make(PrintFiles)
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*p = decoded
	return nil
}

// PrintSize is one purchasable variant of a map: the id doubles as the
// fulfillment provider's catalog variant id.
type PrintSize struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
	Ratio string  `json:"ratio"`
}

// SizeList persists the ordered variant list as JSON.
type SizeList []PrintSize

// Value serializes the sizes to JSON.
func (s SizeList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan decodes a JSON column into the size list.
func (s *SizeList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded SizeList
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// ByID returns the size with the given variant id.
func (s SizeList) ByID(id string) (PrintSize, bool) {
	for _, size := range s {
		if size.ID == id {
			return size, true
		}
	}
	return PrintSize{}, false
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
