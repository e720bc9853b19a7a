package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mekedron/tableorder-cli/internal/config"
	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/gateway/backend"
	"github.com/mekedron/tableorder-cli/internal/service/profile"
	"github.com/mekedron/tableorder-cli/internal/storage"
)

type testBackend struct {
	restaurant   *domain.Restaurant
	items        []domain.MenuItem
	fetchErr     error
	submitErr    error
	submitted    []domain.OrderRequest
	submittedFor []string
	baseURL      string
}

func (b *testBackend) FetchRestaurantInfo(context.Context, string) (*domain.Restaurant, error) {
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	restaurant := *b.restaurant
	return &restaurant, nil
}

func (b *testBackend) FetchMenuItems(context.Context, string) ([]domain.MenuItem, error) {
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	return append([]domain.MenuItem(nil), b.items...), nil
}

func (b *testBackend) SubmitOrder(_ context.Context, restaurantID string, order domain.OrderRequest) error {
	if b.submitErr != nil {
		return b.submitErr
	}
	b.submitted = append(b.submitted, order)
	b.submittedFor = append(b.submittedFor, restaurantID)
	return nil
}

type testConfigManager struct {
	cfg     domain.Config
	missing bool
	saves   int
}

func (m *testConfigManager) Path() string {
	return "/tmp/tableorder-test-config.json"
}

func (m *testConfigManager) Load(context.Context) (domain.Config, error) {
	if m.missing {
		return domain.Config{}, config.ErrConfigNotFound
	}
	return m.cfg, nil
}

func (m *testConfigManager) Save(_ context.Context, cfg domain.Config) error {
	m.cfg = cfg
	m.missing = false
	m.saves++
	return nil
}

type testMockServer struct {
	addr  string
	calls int
}

func (m *testMockServer) RestaurantIDs() []string {
	return []string{"demo-restaurant-001", "restaurant-002"}
}

func (m *testMockServer) ListenAndServe(_ context.Context, addr string) error {
	m.addr = addr
	m.calls++
	return nil
}

func fieldRestaurant() *domain.Restaurant {
	return &domain.Restaurant{
		ID:       "res_1",
		Name:     "Grosto",
		Status:   domain.RestaurantActive,
		View:     domain.ViewList,
		Currency: "KWD",
		Theme:    domain.ThemeGreen,
		PrimaryField: &domain.OrderField{
			Name:     "table_number",
			Label:    "Table",
			Type:     domain.FieldNumeric,
			Shown:    true,
			Required: true,
		},
		SecondaryField: &domain.OrderField{
			Name:  "customer_name",
			Label: "Name",
			Type:  domain.FieldText,
			Shown: true,
		},
	}
}

func testMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "1", Name: "Hummus", Price: 1500, Category: "Starters", Available: true},
		{ID: "2", Name: "Falafel", Price: 1200, Category: "Starters", Available: true},
		{ID: "3", Name: "Juice", Price: 500, Category: "Drinks", Available: true},
		{ID: "4", Name: "Kunafa", Price: 900, Category: "Desserts", Available: false},
	}
}

type testEnv struct {
	backend *testBackend
	config  *testConfigManager
	carts   *storage.Memory
	mock    *testMockServer
	deps    Dependencies
}

func newTestEnv() *testEnv {
	env := &testEnv{
		backend: &testBackend{restaurant: fieldRestaurant(), items: testMenu()},
		config: &testConfigManager{cfg: domain.Config{Profiles: []domain.Profile{
			{Name: "default", IsDefault: true, RestaurantID: "res_1", APIBaseURL: "http://profile.test/api/v1"},
		}}},
		carts: storage.NewMemory(),
		mock:  &testMockServer{},
	}
	env.deps = Dependencies{
		Backend: func(baseURL string) backend.API {
			env.backend.baseURL = baseURL
			return env.backend
		},
		Profiles: profile.NewResolver(env.config),
		Config:   env.config,
		Carts:    env.carts,
		Mock:     env.mock,
		Version:  "test",
	}
	return env
}

func (e *testEnv) run(args ...string) (int, string, string) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := Execute(context.Background(), args, e.deps, stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func decodeEnvelope(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, raw)
	}
	return payload
}

func envelopeData(t *testing.T, raw string) map[string]any {
	t.Helper()
	data, ok := decodeEnvelope(t, raw)["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data in envelope:\n%s", raw)
	}
	return data
}

func envelopeErrorCode(t *testing.T, raw string) (string, string) {
	t.Helper()
	payload, ok := decodeEnvelope(t, raw)["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error payload in envelope:\n%s", raw)
	}
	code, _ := payload["code"].(string)
	message, _ := payload["message"].(string)
	return code, message
}

func (e *testEnv) storedCart(t *testing.T, restaurantID string) (domain.CartState, bool) {
	t.Helper()
	raw, err := e.carts.Get(context.Background(), "tableorder:cart:"+restaurantID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.CartState{}, false
	}
	if err != nil {
		t.Fatalf("read stored cart: %v", err)
	}
	var state domain.CartState
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("decode stored cart: %v", err)
	}
	return state, true
}
