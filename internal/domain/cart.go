package domain

// CartItem is a menu item snapshot and its quantity.
type CartItem struct {
	Item     MenuItem `json:"item"`
	Quantity int      `json:"quantity"`
}

// LineTotal returns price times quantity.
func (c CartItem) LineTotal() int64 {
	return c.Item.Price * int64(c.Quantity)
}

// CartState is the cart of one restaurant.
type CartState struct {
	RestaurantID string     `json:"restaurantId"`
	Items        []CartItem `json:"items"`
	Total        int64      `json:"total"`
}

// ComputeTotal sums all line totals.
func ComputeTotal(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// IsEmpty reports whether the cart holds no items.
func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}

// ItemCount returns the summed quantity of all lines.
func (s CartState) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Find returns the index of the line for itemID, or -1.
func (s CartState) Find(itemID ItemID) int {
	for i, item := range s.Items {
		if item.Item.ID == itemID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy safe to hand out to callers.
func (s CartState) Clone() CartState {
	out := CartState{RestaurantID: s.RestaurantID, Total: s.Total}
	if s.Items != nil {
		out.Items = make([]CartItem, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}
