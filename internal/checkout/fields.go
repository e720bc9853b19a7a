// Package checkout validates order fields and drives order submission.
package checkout

import (
	"errors"
	"sort"
	"strings"

	"github.com/mekedron/tableorder-cli/internal/domain"
)

// LegacyFieldName is the field derived from a restaurant's required_info label.
const LegacyFieldName = "table_number"

// ErrValidationFailed indicates a required field is blank.
var ErrValidationFailed = errors.New("required fields are missing")

// ValidationError lists the required fields that were left blank.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return ErrValidationFailed.Error()
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Fields returns the checkout fields of a restaurant in slot order.
// Restaurants without configured slots get one required numeric field
// labelled with their required_info text.
func Fields(restaurant domain.Restaurant) []domain.OrderField {
	fields := make([]domain.OrderField, 0, 2)
	for _, slot := range []*domain.OrderField{restaurant.PrimaryField, restaurant.SecondaryField} {
		if slot != nil {
			fields = append(fields, *slot)
		}
	}
	if len(fields) > 0 {
		return fields
	}
	return []domain.OrderField{{
		Name:     LegacyFieldName,
		Label:    restaurant.RequiredInfo,
		Type:     domain.FieldNumeric,
		Shown:    true,
		Required: true,
	}}
}

// NormalizeDigits maps Arabic-Indic digits to 0-9 and leaves other runes unchanged.
func NormalizeDigits(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '٠' && r <= '٩' {
			return '0' + (r - '٠')
		}
		return r
	}, value)
}

// NormalizeValue trims value and normalizes digits for numeric fields.
func NormalizeValue(field domain.OrderField, value string) string {
	value = strings.TrimSpace(value)
	if field.Type == domain.FieldNumeric {
		value = NormalizeDigits(value)
	}
	return value
}

// Validate checks values against fields and returns the payload values.
// Hidden fields and blank optional fields are left out.
func Validate(fields []domain.OrderField, values map[string]string) (map[string]string, error) {
	payload := map[string]string{}
	missing := []string{}
	for _, field := range fields {
		if !field.Shown {
			continue
		}
		value := NormalizeValue(field, values[field.Name])
		if value == "" {
			if field.Required {
				missing = append(missing, field.Name)
			}
			continue
		}
		payload[field.Name] = value
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}
	return payload, nil
}

// UnknownFields returns value names that match no shown field, sorted.
func UnknownFields(fields []domain.OrderField, values map[string]string) []string {
	known := map[string]struct{}{}
	for _, field := range fields {
		if field.Shown {
			known[field.Name] = struct{}{}
		}
	}
	unknown := []string{}
	for name := range values {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}
