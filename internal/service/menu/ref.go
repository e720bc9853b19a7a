package menu

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidRestaurantRef is returned for values that name no restaurant.
var ErrInvalidRestaurantRef = errors.New("invalid restaurant reference")

// ParseRestaurantRef extracts a restaurant id from a bare id or a QR link
// whose path contains /restaurants/<id>.
func ParseRestaurantRef(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidRestaurantRef)
	}
	if !strings.ContainsAny(value, "/?#:") {
		if strings.ContainsAny(value, " \t") {
			return "", fmt.Errorf("%w: %q", ErrInvalidRestaurantRef, value)
		}
		return value, nil
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRestaurantRef, err)
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] != "restaurants" {
			continue
		}
		id := strings.TrimSuffix(segments[i+1], ".json")
		if strings.TrimSpace(id) != "" {
			return strings.TrimSpace(id), nil
		}
	}
	return "", fmt.Errorf("%w: no /restaurants/<id> segment in %q", ErrInvalidRestaurantRef, value)
}
