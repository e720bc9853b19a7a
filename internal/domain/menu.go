package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemID identifies a menu item. The backend sends numbers, older payloads send strings.
type ItemID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*id = ItemID(strings.TrimSpace(text))
		return nil
	}

	var number json.Number
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&number); err == nil {
		*id = ItemID(number.String())
		return nil
	}

	return fmt.Errorf("item id must be a string or number")
}

// MarshalJSON emits canonical integer ids as numbers so the backend receives
// its own id type back. "007" or "+5" stay strings.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

func (id ItemID) String() string {
	return string(id)
}

// MenuItem is one dish as fetched from the backend. Prices are in the smallest currency unit.
type MenuItem struct {
	ID          ItemID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Available   bool   `json:"available"`
}

// Category groups menu items by their category label.
type Category struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// RestaurantStatus reports whether a restaurant accepts orders.
type RestaurantStatus string

const (
	RestaurantActive   RestaurantStatus = "active"
	RestaurantInactive RestaurantStatus = "inactive"
)

// ViewMode selects how the menu is laid out.
type ViewMode string

const (
	ViewList  ViewMode = "list"
	ViewCards ViewMode = "cards"
)

// ThemeColor is the restaurant accent color.
type ThemeColor string

const (
	ThemeGreen  ThemeColor = "green"
	ThemeYellow ThemeColor = "yellow"
	ThemeBlue   ThemeColor = "blue"
	ThemeRed    ThemeColor = "red"
	ThemeBlack  ThemeColor = "black"
)

// ParseThemeColor falls back to green for unknown values.
func ParseThemeColor(v string) ThemeColor {
	switch c := ThemeColor(strings.ToLower(strings.TrimSpace(v))); c {
	case ThemeGreen, ThemeYellow, ThemeBlue, ThemeRed, ThemeBlack:
		return c
	default:
		return ThemeGreen
	}
}

// FieldType controls input normalization for an order field.
type FieldType string

const (
	FieldNumeric FieldType = "numeric"
	FieldText    FieldType = "text"
)

// OrderField describes one value collected at checkout.
type OrderField struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Placeholder string    `json:"placeholder,omitempty"`
	Shown       bool      `json:"shown"`
	Required    bool      `json:"required"`
}

// Restaurant stores restaurant metadata and checkout configuration.
type Restaurant struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Logo             string           `json:"logo"`
	Status           RestaurantStatus `json:"status"`
	View             ViewMode         `json:"view"`
	Currency         string           `json:"currency"`
	CurrencyExponent int32            `json:"currency_exponent,omitempty"`
	Theme            ThemeColor       `json:"theme_color"`
	PrimaryField     *OrderField      `json:"primary_field,omitempty"`
	SecondaryField   *OrderField      `json:"secondary_field,omitempty"`
	RequiredInfo     string           `json:"required_info,omitempty"`
}

// IsActive reports whether the restaurant currently takes orders.
func (r Restaurant) IsActive() bool {
	return r.Status != RestaurantInactive
}
