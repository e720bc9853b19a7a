package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mekedron/tableorder-cli/internal/domain"
)

const (
	defaultRestaurantName = "مطعم"
	defaultLogo           = "/api/logo"
	defaultRequiredInfo   = "رقم الطاولة"
	defaultCategory       = "أخرى"
)

type fieldPayload struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Placeholder string `json:"placeholder"`
	Shown       *bool  `json:"shown"`
	Required    *bool  `json:"required"`
}

type menuItemPayload struct {
	ID          domain.ItemID `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Price       *int64        `json:"price"`
	Category    *string       `json:"category"`
	Image       string        `json:"image"`
	ImageURL    string        `json:"image_url"`
	Available   *bool         `json:"available"`
}

type restaurantPayload struct {
	ID               domain.ItemID   `json:"id"`
	Name             string          `json:"name"`
	Logo             string          `json:"logo"`
	Status           string          `json:"status"`
	View             string          `json:"view"`
	Currency         string          `json:"currency"`
	CurrencyExponent int32           `json:"currency_exponent"`
	ThemeColor       string          `json:"theme_color"`
	PrimaryField     *fieldPayload   `json:"primary_field"`
	SecondaryField   *fieldPayload   `json:"secondary_field"`
	RequiredInfo     string          `json:"required_info"`
	MenuItems        json.RawMessage `json:"menu_items"`
}

func (p restaurantPayload) toDomain(requestedID string) domain.Restaurant {
	r := domain.Restaurant{
		ID:               strings.TrimSpace(p.ID.String()),
		Name:             strings.TrimSpace(p.Name),
		Logo:             strings.TrimSpace(p.Logo),
		Status:           domain.RestaurantActive,
		View:             domain.ViewList,
		Currency:         strings.TrimSpace(p.Currency),
		CurrencyExponent: p.CurrencyExponent,
		Theme:            domain.ParseThemeColor(p.ThemeColor),
		PrimaryField:     p.PrimaryField.toDomain("primary"),
		SecondaryField:   p.SecondaryField.toDomain("secondary"),
		RequiredInfo:     strings.TrimSpace(p.RequiredInfo),
	}
	if r.ID == "" {
		r.ID = requestedID
	}
	if r.Name == "" {
		r.Name = defaultRestaurantName
	}
	if r.Logo == "" {
		r.Logo = defaultLogo
	}
	if strings.EqualFold(strings.TrimSpace(p.Status), string(domain.RestaurantInactive)) {
		r.Status = domain.RestaurantInactive
	}
	if strings.EqualFold(strings.TrimSpace(p.View), string(domain.ViewCards)) {
		r.View = domain.ViewCards
	}
	if r.RequiredInfo == "" {
		r.RequiredInfo = defaultRequiredInfo
	}
	if r.CurrencyExponent < 0 {
		r.CurrencyExponent = 0
	}
	return r
}

func (f *fieldPayload) toDomain(fallbackName string) *domain.OrderField {
	if f == nil {
		return nil
	}
	field := &domain.OrderField{
		Name:        strings.TrimSpace(f.Name),
		Label:       strings.TrimSpace(f.Label),
		Type:        domain.FieldText,
		Placeholder: f.Placeholder,
		Shown:       true,
	}
	if field.Name == "" {
		field.Name = fallbackName
	}
	if strings.EqualFold(strings.TrimSpace(f.Type), string(domain.FieldNumeric)) || strings.EqualFold(strings.TrimSpace(f.Type), "number") {
		field.Type = domain.FieldNumeric
	}
	if f.Shown != nil {
		field.Shown = *f.Shown
	}
	if f.Required != nil {
		field.Required = *f.Required
	}
	return field
}

func (p restaurantPayload) menuItems() ([]domain.MenuItem, error) {
	raw := bytes.TrimSpace(p.MenuItems)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: missing menu_items", ErrInvalidData)
	}
	var rows []menuItemPayload
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: menu_items is empty", ErrInvalidData)
	}

	items := make([]domain.MenuItem, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.ID.String()) == "" {
			return nil, fmt.Errorf("%w: menu item %d has no id", ErrInvalidData, i)
		}
		if row.Price == nil || *row.Price < 0 {
			return nil, fmt.Errorf("%w: menu item %s has no valid price", ErrInvalidData, row.ID)
		}
		item := domain.MenuItem{
			ID:        row.ID,
			Name:      row.Name,
			Price:     *row.Price,
			Category:  defaultCategory,
			Image:     row.Image,
			ImageURL:  row.ImageURL,
			Available: row.Available == nil || *row.Available,
		}
		if row.Description != nil {
			item.Description = *row.Description
		}
		if row.Category != nil && strings.TrimSpace(*row.Category) != "" {
			item.Category = *row.Category
		}
		items = append(items, item)
	}
	return items, nil
}
