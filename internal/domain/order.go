package domain

import "encoding/json"

// OrderDetail is a line snapshot taken at submit time.
type OrderDetail struct {
	ItemID   ItemID `json:"item_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Order is the body of an order submission. A nil Fields map leaves the key
// out (legacy payloads); an empty one is sent as {}.
type Order struct {
	Total       int64             `json:"total"`
	Fields      map[string]string `json:"fields,omitempty"`
	TableNumber *string           `json:"table_number,omitempty"`
	Details     []OrderDetail     `json:"details"`
}

func (o Order) MarshalJSON() ([]byte, error) {
	type wire struct {
		Total       int64              `json:"total"`
		Fields      *map[string]string `json:"fields,omitempty"`
		TableNumber *string            `json:"table_number,omitempty"`
		Details     []OrderDetail      `json:"details"`
	}
	w := wire{Total: o.Total, TableNumber: o.TableNumber, Details: o.Details}
	if o.Fields != nil {
		w.Fields = &o.Fields
	}
	return json.Marshal(w)
}

// OrderRequest is the wire envelope posted to the backend.
type OrderRequest struct {
	Order Order `json:"order"`
}

// OrderDetailsFromCart snapshots cart lines into order details.
func OrderDetailsFromCart(items []CartItem) []OrderDetail {
	details := make([]OrderDetail, 0, len(items))
	for _, line := range items {
		details = append(details, OrderDetail{
			ItemID:   line.Item.ID,
			Name:     line.Item.Name,
			Price:    line.Item.Price,
			Quantity: line.Quantity,
		})
	}
	return details
}
