package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Color is a named swatch on a product variant.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// ColorList is a jsonb-backed slice of colors.
type ColorList []Color

// Value implements driver.Valuer.
func (l ColorList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (l *ColorList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported color list source %T", src)
	}
}
