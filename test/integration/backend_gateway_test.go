package integration_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/gateway/backend"
	"github.com/mekedron/tableorder-cli/internal/mockapi"
	"github.com/mekedron/tableorder-cli/internal/service/menu"
)

func newMockBackend(t *testing.T) (*mockapi.Server, *backend.Client) {
	t.Helper()
	mock := mockapi.NewServer()
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)
	return mock, backend.NewClient(backend.WithBaseURL(srv.URL + "/api/v1"))
}

func TestFetchDemoRestaurant(t *testing.T) {
	_, client := newMockBackend(t)

	restaurant, err := client.FetchRestaurantInfo(context.Background(), "demo-restaurant-001")
	require.NoError(t, err)
	require.Equal(t, "demo-restaurant-001", restaurant.ID)
	require.True(t, restaurant.IsActive())
	require.Equal(t, domain.ThemeGreen, restaurant.Theme)
	require.Nil(t, restaurant.PrimaryField)
	require.Equal(t, "رقم الطاولة", restaurant.RequiredInfo)

	fielded, err := client.FetchRestaurantInfo(context.Background(), "restaurant-002")
	require.NoError(t, err)
	require.Equal(t, domain.ViewCards, fielded.View)
	require.NotNil(t, fielded.PrimaryField)
	require.Equal(t, domain.FieldNumeric, fielded.PrimaryField.Type)
	require.True(t, fielded.PrimaryField.Required)
	require.NotNil(t, fielded.SecondaryField)
	require.False(t, fielded.SecondaryField.Required)

	paused, err := client.FetchRestaurantInfo(context.Background(), "restaurant-003")
	require.NoError(t, err)
	require.False(t, paused.IsActive())
}

func TestFetchDemoMenuGroupsIntoCategories(t *testing.T) {
	_, client := newMockBackend(t)

	items, err := client.FetchMenuItems(context.Background(), "demo-restaurant-001")
	require.NoError(t, err)
	require.Len(t, items, 12)
	require.False(t, items[5].Available)
	require.Equal(t, "أخرى", items[11].Category)

	grouped := menu.GroupItemsByCategory(items)
	require.Empty(t, grouped.Collisions)
	ids := make([]string, 0, len(grouped.Categories))
	for _, category := range grouped.Categories {
		ids = append(ids, category.ID)
	}
	require.Equal(t, []string{
		"cat-مقبلات",
		"cat-أطباق رئيسية",
		"cat-سلطات",
		"cat-مشروبات",
		"cat-حلويات",
		"cat-أخرى",
	}, ids)
}

func TestUnknownRestaurantIsNotFound(t *testing.T) {
	_, client := newMockBackend(t)

	_, err := client.FetchRestaurantInfo(context.Background(), "nope")
	require.ErrorIs(t, err, backend.ErrNotFound)
	require.False(t, errors.Is(err, backend.ErrUnreachable))
}

func TestClosedBackendIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(mockapi.NewServer().Handler())
	client := backend.NewClient(backend.WithBaseURL(srv.URL + "/api/v1"))
	srv.Close()

	_, err := client.FetchMenuItems(context.Background(), "demo-restaurant-001")
	require.ErrorIs(t, err, backend.ErrUnreachable)
}

func TestSubmitOrderRoundTrip(t *testing.T) {
	mock, client := newMockBackend(t)

	order := domain.OrderRequest{Order: domain.Order{
		Total:  58,
		Fields: map[string]string{"table_number": "12"},
		Details: []domain.OrderDetail{
			{ItemID: "1", Name: "حمص", Price: 15, Quantity: 2},
			{ItemID: "4", Name: "شاورما دجاج", Price: 28, Quantity: 1},
		},
	}}
	require.NoError(t, client.SubmitOrder(context.Background(), "restaurant-002", order))

	orders := mock.Orders()
	require.Len(t, orders, 1)
	require.Equal(t, "restaurant-002", orders[0].RestaurantID)
	require.Equal(t, "12", orders[0].Fields["table_number"])
	require.Equal(t, int64(58), orders[0].Total)
}

func TestSubmitOrderRejectedByBackend(t *testing.T) {
	mock, client := newMockBackend(t)

	missingTable := domain.OrderRequest{Order: domain.Order{
		Total:   15,
		Details: []domain.OrderDetail{{ItemID: "1", Name: "حمص", Price: 15, Quantity: 1}},
	}}
	err := client.SubmitOrder(context.Background(), "restaurant-002", missingTable)
	require.ErrorIs(t, err, backend.ErrUnreachable)

	var upstreamErr *backend.UpstreamRequestError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, 422, upstreamErr.StatusCode)
	require.Empty(t, mock.Orders())
}

func TestLegacyOrderAccepted(t *testing.T) {
	mock, client := newMockBackend(t)

	table := "7"
	order := domain.OrderRequest{Order: domain.Order{
		Total:       10,
		TableNumber: &table,
		Details:     []domain.OrderDetail{{ItemID: "10", Name: "عصير ليمون", Price: 10, Quantity: 1}},
	}}
	require.NoError(t, client.SubmitOrder(context.Background(), "demo-restaurant-001", order))
	require.Equal(t, "7", mock.Orders()[0].TableNumber)
}
