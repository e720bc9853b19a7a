package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/storage"
)

// KeyPrefix scopes persisted carts by restaurant id.
const KeyPrefix = "tableorder:cart:"

// ErrPersist is returned when the in-memory transition succeeded but storage did not.
var ErrPersist = errors.New("persist cart")

// Storage persists raw cart records by key. Get returns storage.ErrNotFound for absent keys.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// StorageKey returns the persistence key for a restaurant.
func StorageKey(restaurantID string) string {
	return KeyPrefix + restaurantID
}

// Store is the single source of truth for the current cart.
type Store struct {
	mu      sync.Mutex
	state   domain.CartState
	storage Storage
	logger  *zap.Logger
}

// Option applies Store options.
type Option func(*Store)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an unbound, empty cart store.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		state:   domain.CartState{Items: []domain.CartItem{}},
		storage: storage,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current cart.
func (s *Store) State() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// RestaurantID returns the bound restaurant id, empty before the first bind.
func (s *Store) RestaurantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RestaurantID
}

// ItemCount returns the summed quantity of all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ItemCount()
}

// SetRestaurant binds the store to id and restores its persisted cart.
// Rebinding to the current id is a no-op.
func (s *Store) SetRestaurant(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("restaurant id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.RestaurantID == id {
		return nil
	}

	s.state = Reduce(s.state, SetRestaurant(id))
	if loaded, ok := s.restore(ctx, id); ok {
		s.state = Reduce(s.state, LoadCart(loaded))
		s.logger.Debug("cart restored",
			zap.String("restaurant_id", id),
			zap.Int("lines", len(s.state.Items)),
			zap.Int64("total", s.state.Total),
		)
	}
	return s.persist(ctx)
}

// AddItem adds one unit of item.
func (s *Store) AddItem(ctx context.Context, item domain.MenuItem) error {
	return s.Dispatch(ctx, AddItem(item))
}

// RemoveItem deletes the line for itemID if present.
func (s *Store) RemoveItem(ctx context.Context, itemID domain.ItemID) error {
	return s.Dispatch(ctx, RemoveItem(itemID))
}

// UpdateQuantity sets the quantity of a line. quantity <= 0 removes it.
func (s *Store) UpdateQuantity(ctx context.Context, itemID domain.ItemID, quantity int) error {
	return s.Dispatch(ctx, UpdateQuantity(itemID, quantity))
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) error {
	return s.Dispatch(ctx, ClearCart())
}

// Dispatch applies action and persists the result. The transition is kept
// even when persisting fails.
func (s *Store) Dispatch(ctx context.Context, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	s.logger.Debug("cart action",
		zap.Stringer("action", action.Kind),
		zap.String("restaurant_id", s.state.RestaurantID),
		zap.Int("lines", len(s.state.Items)),
		zap.Int64("total", s.state.Total),
	)
	return s.persist(ctx)
}

func (s *Store) restore(ctx context.Context, id string) (domain.CartState, bool) {
	key := StorageKey(id)
	raw, err := s.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("cart record could not be read", zap.String("key", key), zap.Error(err))
		}
		return domain.CartState{}, false
	}

	var loaded domain.CartState
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.logger.Warn("discarding unreadable cart record", zap.String("key", key), zap.Error(err))
		return domain.CartState{}, false
	}
	if loaded.RestaurantID != id {
		s.logger.Warn("discarding cart record of another restaurant",
			zap.String("key", key),
			zap.String("stored_restaurant_id", loaded.RestaurantID),
		)
		return domain.CartState{}, false
	}
	return loaded, true
}

func (s *Store) persist(ctx context.Context) error {
	if s.state.RestaurantID == "" {
		return nil
	}
	key := StorageKey(s.state.RestaurantID)

	if s.state.IsEmpty() {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("cart record could not be deleted", zap.String("key", key), zap.Error(err))
			return fmt.Errorf("%w: %v", ErrPersist, err)
		}
		return nil
	}

	payload, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPersist, err)
	}
	if err := s.storage.Set(ctx, key, payload); err != nil {
		s.logger.Warn("cart record could not be written", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
