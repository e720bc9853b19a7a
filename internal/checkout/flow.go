package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mekedron/tableorder-cli/internal/domain"
)

// ResetDelay is how long a submitted order stays confirmed before the form resets.
const ResetDelay = 2 * time.Second

var (
	// ErrSubmissionInProgress is returned when a submission is already running.
	ErrSubmissionInProgress = errors.New("order submission already in progress")
	// ErrEmptyCart is returned when there is nothing to order.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrRestaurantInactive is returned when the restaurant has paused ordering.
	ErrRestaurantInactive = errors.New("restaurant is not accepting orders right now")
	// ErrSubmissionFailed is the generic failure reported to the customer.
	ErrSubmissionFailed = errors.New("something went wrong, please try again")
)

// SubmissionError keeps the cause of a failed submission for diagnostics.
// Its message is always the generic one.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	return ErrSubmissionFailed.Error()
}

func (e *SubmissionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSubmissionFailed}
	}
	return []error{ErrSubmissionFailed, e.Cause}
}

// State is the submission lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateFailed     State = "failed"
)

// Scheme selects the order payload shape.
type Scheme string

const (
	SchemeFields Scheme = "fields"
	SchemeLegacy Scheme = "legacy"
)

// ParseScheme parses a payload scheme value. Empty means fields.
func ParseScheme(value string) (Scheme, error) {
	switch s := Scheme(strings.ToLower(strings.TrimSpace(value))); s {
	case "":
		return SchemeFields, nil
	case SchemeFields, SchemeLegacy:
		return s, nil
	default:
		return "", fmt.Errorf("invalid order scheme %q", value)
	}
}

// Cart is the cart capability the flow reads and clears.
type Cart interface {
	State() domain.CartState
	ClearCart(ctx context.Context) error
}

// Submitter posts orders to the backend.
type Submitter interface {
	SubmitOrder(ctx context.Context, restaurantID string, order domain.OrderRequest) error
}

// Stopper cancels a scheduled callback.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Stopper

func defaultAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Flow drives one checkout form.
type Flow struct {
	mu         sync.Mutex
	state      State
	values     map[string]string
	cart       Cart
	submitter  Submitter
	logger     *zap.Logger
	scheme     Scheme
	resetDelay time.Duration
	afterFunc  AfterFunc
	resetTimer Stopper
}

// Option applies Flow options.
type Option func(*Flow)

// WithLogger sets the logger used for submission diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithScheme selects the payload shape.
func WithScheme(scheme Scheme) Option {
	return func(f *Flow) {
		if scheme != "" {
			f.scheme = scheme
		}
	}
}

// WithResetDelay overrides ResetDelay.
func WithResetDelay(delay time.Duration) Option {
	return func(f *Flow) {
		if delay >= 0 {
			f.resetDelay = delay
		}
	}
}

// WithAfterFunc replaces the timer used for the post-success reset.
func WithAfterFunc(afterFunc AfterFunc) Option {
	return func(f *Flow) {
		if afterFunc != nil {
			f.afterFunc = afterFunc
		}
	}
}

// NewFlow creates an idle checkout flow.
func NewFlow(cart Cart, submitter Submitter, opts ...Option) *Flow {
	f := &Flow{
		state:      StateIdle,
		values:     map[string]string{},
		cart:       cart,
		submitter:  submitter,
		logger:     zap.NewNop(),
		scheme:     SchemeFields,
		resetDelay: ResetDelay,
		afterFunc:  defaultAfterFunc,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the lifecycle state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Values returns a copy of the entered form values.
func (f *Flow) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for name, value := range f.values {
		out[name] = value
	}
	return out
}

// SetValue stores the raw value of a form field.
func (f *Flow) SetValue(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
}

// Submit validates the form, posts the cart as an order and clears the cart on success.
func (f *Flow) Submit(ctx context.Context, restaurant domain.Restaurant) (domain.OrderRequest, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return domain.OrderRequest{}, ErrSubmissionInProgress
	}
	if !restaurant.IsActive() {
		f.mu.Unlock()
		return domain.OrderRequest{}, ErrRestaurantInactive
	}
	snapshot := f.cart.State()
	if snapshot.IsEmpty() {
		f.mu.Unlock()
		return domain.OrderRequest{}, ErrEmptyCart
	}
	fields := Fields(restaurant)
	fieldValues, err := Validate(fields, f.values)
	if err != nil {
		f.mu.Unlock()
		return domain.OrderRequest{}, err
	}
	request := f.buildRequest(snapshot, fields, fieldValues)
	if f.resetTimer != nil {
		f.resetTimer.Stop()
		f.resetTimer = nil
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	f.logger.Debug("submitting order",
		zap.String("restaurant_id", restaurant.ID),
		zap.Int("lines", len(request.Order.Details)),
		zap.Int64("total", request.Order.Total),
	)
	submitErr := f.submitter.SubmitOrder(ctx, restaurant.ID, request)

	f.mu.Lock()
	defer f.mu.Unlock()
	if submitErr != nil {
		f.state = StateFailed
		f.logger.Error("order submission failed",
			zap.String("restaurant_id", restaurant.ID),
			zap.Error(submitErr),
		)
		return domain.OrderRequest{}, &SubmissionError{Cause: submitErr}
	}

	f.state = StateSubmitted
	if err := f.cart.ClearCart(ctx); err != nil {
		f.logger.Warn("cart could not be cleared after submission",
			zap.String("restaurant_id", restaurant.ID),
			zap.Error(err),
		)
	}
	f.resetTimer = f.afterFunc(f.resetDelay, f.reset)
	return request, nil
}

func (f *Flow) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSubmitted {
		return
	}
	f.state = StateIdle
	f.values = map[string]string{}
	f.resetTimer = nil
}

func (f *Flow) buildRequest(snapshot domain.CartState, fields []domain.OrderField, fieldValues map[string]string) domain.OrderRequest {
	order := domain.Order{
		Total:   snapshot.Total,
		Details: domain.OrderDetailsFromCart(snapshot.Items),
	}
	switch f.scheme {
	case SchemeLegacy:
		if value, ok := fieldValues[LegacyFieldName]; ok {
			order.TableNumber = &value
			break
		}
		for _, field := range fields {
			if value, ok := fieldValues[field.Name]; ok {
				order.TableNumber = &value
				break
			}
		}
	default:
		order.Fields = map[string]string{}
		for name, value := range fieldValues {
			order.Fields[name] = value
		}
	}
	return domain.OrderRequest{Order: order}
}
