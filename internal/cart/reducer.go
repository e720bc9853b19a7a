// Package cart holds the per-restaurant cart state machine.
package cart

import "github.com/mekedron/tableorder-cli/internal/domain"

// ActionKind tags a cart transition.
type ActionKind int

const (
	ActionSetRestaurant ActionKind = iota + 1
	ActionLoadCart
	ActionAddItem
	ActionRemoveItem
	ActionUpdateQuantity
	ActionClearCart
)

func (k ActionKind) String() string {
	switch k {
	case ActionSetRestaurant:
		return "set_restaurant"
	case ActionLoadCart:
		return "load_cart"
	case ActionAddItem:
		return "add_item"
	case ActionRemoveItem:
		return "remove_item"
	case ActionUpdateQuantity:
		return "update_quantity"
	case ActionClearCart:
		return "clear_cart"
	default:
		return "unknown"
	}
}

// Action is one cart transition. Only the fields used by Kind are read.
type Action struct {
	Kind         ActionKind
	RestaurantID string
	Loaded       domain.CartState
	Item         domain.MenuItem
	ItemID       domain.ItemID
	Quantity     int
}

// SetRestaurant binds the cart to a restaurant.
func SetRestaurant(id string) Action {
	return Action{Kind: ActionSetRestaurant, RestaurantID: id}
}

// LoadCart replaces the state with a persisted record.
func LoadCart(state domain.CartState) Action {
	return Action{Kind: ActionLoadCart, Loaded: state}
}

// AddItem adds one unit of item.
func AddItem(item domain.MenuItem) Action {
	return Action{Kind: ActionAddItem, Item: item}
}

// RemoveItem drops the line for itemID.
func RemoveItem(itemID domain.ItemID) Action {
	return Action{Kind: ActionRemoveItem, ItemID: itemID}
}

// UpdateQuantity sets the absolute quantity of a line.
func UpdateQuantity(itemID domain.ItemID, quantity int) Action {
	return Action{Kind: ActionUpdateQuantity, ItemID: itemID, Quantity: quantity}
}

// ClearCart empties the cart and keeps the restaurant binding.
func ClearCart() Action {
	return Action{Kind: ActionClearCart}
}

// Reduce applies action to state and returns the next state. state is not modified.
func Reduce(state domain.CartState, action Action) domain.CartState {
	next := state.Clone()

	switch action.Kind {
	case ActionSetRestaurant:
		if next.RestaurantID != "" && next.RestaurantID != action.RestaurantID {
			return domain.CartState{RestaurantID: action.RestaurantID, Items: []domain.CartItem{}}
		}
		next.RestaurantID = action.RestaurantID

	case ActionLoadCart:
		next = Sanitize(action.Loaded)

	case ActionAddItem:
		if idx := next.Find(action.Item.ID); idx >= 0 {
			next.Items[idx].Quantity++
		} else {
			next.Items = append(next.Items, domain.CartItem{Item: action.Item, Quantity: 1})
		}

	case ActionRemoveItem:
		next.Items = removeLine(next.Items, action.ItemID)

	case ActionUpdateQuantity:
		if action.Quantity <= 0 {
			next.Items = removeLine(next.Items, action.ItemID)
			break
		}
		if idx := next.Find(action.ItemID); idx >= 0 {
			next.Items[idx].Quantity = action.Quantity
		}

	case ActionClearCart:
		next.Items = []domain.CartItem{}

	default:
		return next
	}

	if next.Items == nil {
		next.Items = []domain.CartItem{}
	}
	next.Total = domain.ComputeTotal(next.Items)
	return next
}

// Sanitize drops non-positive lines, merges duplicate ids and recomputes the total.
func Sanitize(state domain.CartState) domain.CartState {
	out := domain.CartState{RestaurantID: state.RestaurantID, Items: []domain.CartItem{}}
	for _, line := range state.Items {
		if line.Quantity <= 0 || line.Item.ID == "" || line.Item.Price < 0 {
			continue
		}
		if idx := out.Find(line.Item.ID); idx >= 0 {
			out.Items[idx].Quantity += line.Quantity
			continue
		}
		out.Items = append(out.Items, line)
	}
	out.Total = domain.ComputeTotal(out.Items)
	return out
}

func removeLine(items []domain.CartItem, itemID domain.ItemID) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, line := range items {
		if line.Item.ID != itemID {
			out = append(out, line)
		}
	}
	return out
}
