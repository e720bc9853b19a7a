package backend

import (
	"context"

	"github.com/mekedron/tableorder-cli/internal/domain"
)

// API describes the backend operations used by the ordering client.
type API interface {
	FetchRestaurantInfo(ctx context.Context, restaurantID string) (*domain.Restaurant, error)
	FetchMenuItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	SubmitOrder(ctx context.Context, restaurantID string, order domain.OrderRequest) error
}
