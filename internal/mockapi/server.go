// Package mockapi serves a local restaurant backend with demo data.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Order is an order accepted by the mock backend.
type Order struct {
	ID           string            `json:"id"`
	RestaurantID string            `json:"restaurant_id"`
	Status       string            `json:"status"`
	Total        int64             `json:"total"`
	Fields       map[string]string `json:"fields,omitempty"`
	TableNumber  string            `json:"table_number,omitempty"`
	Details      []OrderDetail     `json:"details"`
	CreatedAt    time.Time         `json:"created_at"`
}

// OrderDetail is one accepted order line.
type OrderDetail struct {
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type orderRequest struct {
	Order *struct {
		Total       *int64            `json:"total"`
		Fields      map[string]string `json:"fields"`
		TableNumber *string           `json:"table_number"`
		Details     []OrderDetail     `json:"details"`
	} `json:"order"`
}

// Server holds the demo restaurants and accepted orders.
type Server struct {
	mu          sync.Mutex
	restaurants map[string]restaurantRecord
	orders      []Order
	logger      *zap.Logger
	now         func() time.Time
}

// Option applies Server options.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a mock backend seeded with the demo restaurants.
func NewServer(opts ...Option) *Server {
	s := &Server{
		restaurants: map[string]restaurantRecord{},
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, restaurant := range demoRestaurants() {
		s.restaurants[restaurant.ID] = restaurant
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RestaurantIDs returns the served restaurant ids, sorted.
func (s *Server) RestaurantIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.restaurants))
	for id := range s.restaurants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Orders returns a copy of the accepted orders.
func (s *Server) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Order(nil), s.orders...)
}

// Handler builds the HTTP router.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api/v1")
	api.GET("/restaurants/:ref", s.getRestaurant)
	api.GET("/restaurants/:ref/orders.json", s.listOrders)
	api.POST("/restaurants/:ref/orders.json", s.createOrder)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		c.Next()
		s.logger.Info("mock request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(startedAt)),
		)
	}
}

func (s *Server) restaurant(c *gin.Context) (restaurantRecord, bool) {
	id := strings.TrimSuffix(c.Param("ref"), ".json")
	s.mu.Lock()
	restaurant, ok := s.restaurants[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
	}
	return restaurant, ok
}

func (s *Server) getRestaurant(c *gin.Context) {
	if !strings.HasSuffix(c.Param("ref"), ".json") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	restaurant, ok := s.restaurant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (s *Server) listOrders(c *gin.Context) {
	restaurant, ok := s.restaurant(c)
	if !ok {
		return
	}
	orders := []Order{}
	for _, order := range s.Orders() {
		if order.RestaurantID == restaurant.ID {
			orders = append(orders, order)
		}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) createOrder(c *gin.Context) {
	restaurant, ok := s.restaurant(c)
	if !ok {
		return
	}
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := validateOrder(restaurant, req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	order.ID = "order-" + uuid.NewString()
	order.RestaurantID = restaurant.ID
	order.Status = "pending"
	order.CreatedAt = s.now().UTC()

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"id": order.ID, "status": order.Status})
}

func validateOrder(restaurant restaurantRecord, req orderRequest) (Order, error) {
	if restaurant.Status == "inactive" {
		return Order{}, errors.New("restaurant is not accepting orders")
	}
	if req.Order == nil {
		return Order{}, errors.New("order is required")
	}
	if req.Order.Total == nil {
		return Order{}, errors.New("order.total is required")
	}
	if len(req.Order.Details) == 0 {
		return Order{}, errors.New("order.details must not be empty")
	}

	prices := map[int64]itemRecord{}
	for _, item := range restaurant.MenuItems {
		prices[item.ID] = item
	}
	var total int64
	for _, detail := range req.Order.Details {
		item, ok := prices[detail.ItemID]
		if !ok {
			return Order{}, fmt.Errorf("unknown item %d", detail.ItemID)
		}
		if item.Available != nil && !*item.Available {
			return Order{}, fmt.Errorf("item %d is unavailable", detail.ItemID)
		}
		if detail.Quantity < 1 {
			return Order{}, fmt.Errorf("item %d has invalid quantity %d", detail.ItemID, detail.Quantity)
		}
		if detail.Price != item.Price {
			return Order{}, fmt.Errorf("item %d price mismatch", detail.ItemID)
		}
		total += detail.Price * int64(detail.Quantity)
	}
	if total != *req.Order.Total {
		return Order{}, fmt.Errorf("order.total %d does not match details %d", *req.Order.Total, total)
	}

	values := map[string]string{}
	for name, value := range req.Order.Fields {
		values[name] = value
	}
	if req.Order.TableNumber != nil {
		values["table_number"] = *req.Order.TableNumber
	}
	required := []*fieldRecord{restaurant.PrimaryField, restaurant.SecondaryField}
	if restaurant.PrimaryField == nil && restaurant.SecondaryField == nil {
		required = []*fieldRecord{{Name: "table_number", Shown: true, Required: true}}
	}
	for _, field := range required {
		if field == nil || !field.Shown || !field.Required {
			continue
		}
		if strings.TrimSpace(values[field.Name]) == "" {
			return Order{}, fmt.Errorf("field %s is required", field.Name)
		}
	}

	order := Order{
		Total:   total,
		Fields:  req.Order.Fields,
		Details: req.Order.Details,
	}
	if req.Order.TableNumber != nil {
		order.TableNumber = *req.Order.TableNumber
	}
	return order, nil
}

// ListenAndServe serves the mock backend on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock backend listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown mock backend: %w", err)
		}
		return nil
	}
}
