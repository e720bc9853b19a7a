package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mekedron/tableorder-cli/internal/domain"
)

type itemSort string

const (
	itemSortMenu  itemSort = "menu"
	itemSortPrice itemSort = "price"
	itemSortName  itemSort = "name"
)

type itemFilters struct {
	HideUnavailable bool
	MinPriceSet     bool
	MinPrice        int64
	MaxPriceSet     bool
	MaxPrice        int64
	Sort            itemSort
}

func (f itemFilters) validate() error {
	if f.MinPriceSet && f.MinPrice < 0 {
		return fmt.Errorf("--min-price must be >= 0")
	}
	if f.MaxPriceSet && f.MaxPrice < 0 {
		return fmt.Errorf("--max-price must be >= 0")
	}
	if f.MinPriceSet && f.MaxPriceSet && f.MinPrice > f.MaxPrice {
		return fmt.Errorf("--min-price cannot be greater than --max-price")
	}
	return nil
}

func (f itemFilters) keep(item domain.MenuItem) bool {
	if f.HideUnavailable && !item.Available {
		return false
	}
	if f.MinPriceSet && item.Price < f.MinPrice {
		return false
	}
	if f.MaxPriceSet && item.Price > f.MaxPrice {
		return false
	}
	return true
}

// applyItemFilters filters and sorts items within each category. Categories
// left without items are dropped; category order is untouched.
func applyItemFilters(categories []domain.Category, filters itemFilters) []domain.Category {
	out := make([]domain.Category, 0, len(categories))
	for _, category := range categories {
		items := make([]domain.MenuItem, 0, len(category.Items))
		for _, item := range category.Items {
			if filters.keep(item) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		sortItems(items, filters.Sort)
		category.Items = items
		out = append(out, category)
	}
	return out
}

func parseItemSort(raw string) (itemSort, error) {
	value := itemSort(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return itemSortMenu, nil
	}
	switch value {
	case itemSortMenu, itemSortPrice, itemSortName:
		return value, nil
	default:
		return "", fmt.Errorf("invalid --sort value %q; expected one of: menu, price, name", raw)
	}
}

func sortItems(items []domain.MenuItem, mode itemSort) {
	if len(items) == 0 || mode == itemSortMenu || mode == "" {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		switch mode {
		case itemSortPrice:
			return items[i].Price < items[j].Price
		case itemSortName:
			return strings.ToLower(strings.TrimSpace(items[i].Name)) < strings.ToLower(strings.TrimSpace(items[j].Name))
		default:
			return false
		}
	})
}
