package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a minor-unit amount with thousands separators.
// exponent is the number of minor-unit digits of the currency.
func FormatPrice(amount int64, exponent int32) string {
	if exponent < 0 {
		exponent = 0
	}
	value := decimal.New(amount, -exponent).StringFixed(exponent)

	sign := ""
	if strings.HasPrefix(value, "-") {
		sign = "-"
		value = value[1:]
	}
	whole, fraction, hasFraction := strings.Cut(value, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFraction {
		b.WriteByte('.')
		b.WriteString(fraction)
	}
	return sign + b.String()
}

// FormatAmount renders an amount followed by the restaurant currency label.
func (r Restaurant) FormatAmount(amount int64) string {
	price := FormatPrice(amount, r.CurrencyExponent)
	if strings.TrimSpace(r.Currency) == "" {
		return price
	}
	return price + " " + r.Currency
}

// FormatAvailability renders the availability column.
func (i MenuItem) FormatAvailability() string {
	if i.Available {
		return "yes"
	}
	return "no"
}

// DisplayLabel returns the display label, falling back to the field name.
func (f OrderField) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}
