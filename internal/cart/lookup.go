package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mekedron/tableorder-cli/internal/domain"
)

var (
	// ErrItemNotFound indicates the menu has no item with the requested id.
	ErrItemNotFound = errors.New("menu item not found")
	// ErrItemUnavailable indicates the item exists but cannot be ordered right now.
	ErrItemUnavailable = errors.New("menu item is not available")
)

// LookupItem finds an orderable menu item by id.
func LookupItem(items []domain.MenuItem, itemID domain.ItemID) (domain.MenuItem, error) {
	want := strings.TrimSpace(itemID.String())
	for _, item := range items {
		if item.ID.String() != want {
			continue
		}
		if !item.Available {
			return item, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
		}
		return item, nil
	}
	return domain.MenuItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, want)
}
