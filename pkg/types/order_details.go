package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ShippingDetails is the destination snapshot stored on an order.
type ShippingDetails struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// PaymentDetails is the instrument snapshot stored on an order. Card fields
// are kept as the caller supplied them; no gateway interaction happens here.
type PaymentDetails struct {
	Method     string `json:"method" validate:"required,oneof=card paypal bank"`
	CardNumber string `json:"cardNumber,omitempty"`
	CardExpiry string `json:"cardExpiry,omitempty"`
	CardName   string `json:"cardName,omitempty"`
}

// BackingPrefs records the opt-ins the buyer checked at checkout.
type BackingPrefs struct {
	Newsletter bool `json:"newsletter"`
	Reviews    bool `json:"reviews"`
	Updates    bool `json:"updates"`
	Special    bool `json:"special"`
}

// Value implements driver.Valuer.
func (d ShippingDetails) Value() (driver.Value, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (d *ShippingDetails) Scan(src any) error {
	return scanJSON(src, d)
}

// Value implements driver.Valuer.
func (d PaymentDetails) Value() (driver.Value, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (d *PaymentDetails) Scan(src any) error {
	return scanJSON(src, d)
}

// Value implements driver.Valuer.
func (p BackingPrefs) Value() (driver.Value, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (p *BackingPrefs) Scan(src any) error {
	return scanJSON(src, p)
}

func scanJSON(src, dst any) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported json source %T", src)
	}
}
