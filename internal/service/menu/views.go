package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mekedron/tableorder-cli/internal/domain"
)

// FilterCategories keeps categories whose id equals query or whose name contains it.
func FilterCategories(categories []domain.Category, query string) []domain.Category {
	lowered := strings.ToLower(strings.TrimSpace(query))
	if lowered == "" {
		return categories
	}
	out := []domain.Category{}
	for _, category := range categories {
		if strings.EqualFold(category.ID, strings.TrimSpace(query)) || strings.Contains(strings.ToLower(category.Name), lowered) {
			out = append(out, category)
		}
	}
	return out
}

// BuildRestaurantView builds the restaurant payload with its checkout fields.
func BuildRestaurantView(restaurant domain.Restaurant, fields []domain.OrderField) map[string]any {
	fieldRows := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		fieldRows = append(fieldRows, map[string]any{
			"name":        field.Name,
			"label":       field.DisplayLabel(),
			"type":        string(field.Type),
			"placeholder": field.Placeholder,
			"shown":       field.Shown,
			"required":    field.Required,
		})
	}
	return map[string]any{
		"restaurant_id":   restaurant.ID,
		"name":            restaurant.Name,
		"logo":            restaurant.Logo,
		"status":          string(restaurant.Status),
		"accepts_orders":  restaurant.IsActive(),
		"view":            string(restaurant.View),
		"currency":        restaurant.Currency,
		"theme_color":     string(restaurant.Theme),
		"checkout_fields": fieldRows,
	}
}

// RestaurantTableRows renders the restaurant payload as key/value rows.
func RestaurantTableRows(restaurant domain.Restaurant, fields []domain.OrderField) [][]string {
	status := string(restaurant.Status)
	if !restaurant.IsActive() {
		status += " (ordering paused)"
	}
	rows := [][]string{
		{"id", restaurant.ID},
		{"name", restaurant.Name},
		{"status", status},
		{"view", string(restaurant.View)},
		{"currency", restaurant.Currency},
		{"theme", string(restaurant.Theme)},
	}
	for _, field := range fields {
		if !field.Shown {
			continue
		}
		requirement := "optional"
		if field.Required {
			requirement = "required"
		}
		rows = append(rows, []string{"field " + field.Name, fmt.Sprintf("%s (%s, %s)", field.DisplayLabel(), field.Type, requirement)})
	}
	return rows
}

// BuildMenuView builds the grouped menu payload.
func BuildMenuView(restaurant domain.Restaurant, categories []domain.Category, collisions []Collision) (map[string]any, []string) {
	warnings := []string{}
	if !restaurant.IsActive() {
		warnings = append(warnings, "restaurant is not accepting orders right now")
	}
	for _, collision := range collisions {
		warnings = append(warnings, fmt.Sprintf("categories %s share id %s", strings.Join(quoteAll(collision.Names), ", "), collision.ID))
	}

	categoryRows := make([]map[string]any, 0, len(categories))
	itemCount := 0
	for _, category := range categories {
		items := make([]map[string]any, 0, len(category.Items))
		for _, item := range category.Items {
			row := map[string]any{
				"id":              item.ID.String(),
				"name":            item.Name,
				"description":     item.Description,
				"price":           item.Price,
				"formatted_price": restaurant.FormatAmount(item.Price),
				"available":       item.Available,
			}
			if image := firstNonEmpty(item.ImageURL, item.Image); image != "" {
				row["image"] = image
			}
			items = append(items, row)
		}
		itemCount += len(items)
		categoryRows = append(categoryRows, map[string]any{
			"id":    category.ID,
			"name":  category.Name,
			"items": items,
		})
	}
	if len(categoryRows) == 0 {
		warnings = append(warnings, "no menu items matched")
	}

	return map[string]any{
		"restaurant_id": restaurant.ID,
		"view":          string(restaurant.View),
		"item_count":    itemCount,
		"categories":    categoryRows,
	}, warnings
}

// MenuTableRows renders one row per item, grouped by category.
func MenuTableRows(restaurant domain.Restaurant, categories []domain.Category) [][]string {
	rows := [][]string{}
	for _, category := range categories {
		for _, item := range category.Items {
			rows = append(rows, []string{
				category.Name,
				item.ID.String(),
				item.Name,
				restaurant.FormatAmount(item.Price),
				item.FormatAvailability(),
			})
		}
	}
	return rows
}

// BuildCartView builds the cart payload.
func BuildCartView(restaurant domain.Restaurant, state domain.CartState) map[string]any {
	lines := make([]map[string]any, 0, len(state.Items))
	for _, line := range state.Items {
		lines = append(lines, map[string]any{
			"item_id":              line.Item.ID.String(),
			"name":                 line.Item.Name,
			"price":                line.Item.Price,
			"quantity":             line.Quantity,
			"line_total":           line.LineTotal(),
			"formatted_line_total": restaurant.FormatAmount(line.LineTotal()),
		})
	}
	return map[string]any{
		"restaurant_id":   state.RestaurantID,
		"items":           lines,
		"item_count":      state.ItemCount(),
		"total":           state.Total,
		"formatted_total": restaurant.FormatAmount(state.Total),
	}
}

// CartTableRows renders cart lines plus a total row.
func CartTableRows(restaurant domain.Restaurant, state domain.CartState) [][]string {
	rows := make([][]string, 0, len(state.Items)+1)
	for _, line := range state.Items {
		rows = append(rows, []string{
			line.Item.ID.String(),
			line.Item.Name,
			strconv.Itoa(line.Quantity),
			restaurant.FormatAmount(line.Item.Price),
			restaurant.FormatAmount(line.LineTotal()),
		})
	}
	rows = append(rows, []string{"", "total", strconv.Itoa(state.ItemCount()), "", restaurant.FormatAmount(state.Total)})
	return rows
}

// BuildOrderView builds the payload reported after a successful submission.
func BuildOrderView(restaurant domain.Restaurant, request domain.OrderRequest) map[string]any {
	details := make([]map[string]any, 0, len(request.Order.Details))
	for _, detail := range request.Order.Details {
		details = append(details, map[string]any{
			"item_id":  detail.ItemID.String(),
			"name":     detail.Name,
			"price":    detail.Price,
			"quantity": detail.Quantity,
		})
	}
	view := map[string]any{
		"restaurant_id":   restaurant.ID,
		"status":          "submitted",
		"total":           request.Order.Total,
		"formatted_total": restaurant.FormatAmount(request.Order.Total),
		"details":         details,
	}
	if request.Order.Fields != nil {
		view["fields"] = request.Order.Fields
	}
	if request.Order.TableNumber != nil {
		view["table_number"] = *request.Order.TableNumber
	}
	return view
}

func quoteAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strconv.Quote(value))
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
