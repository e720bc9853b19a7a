package checkout_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mekedron/tableorder-cli/internal/cart"
	"github.com/mekedron/tableorder-cli/internal/checkout"
	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/storage"
)

type fakeSubmitter struct {
	submitFn func(ctx context.Context, restaurantID string, order domain.OrderRequest) error
	calls    int
	last     domain.OrderRequest
}

func (f *fakeSubmitter) SubmitOrder(ctx context.Context, restaurantID string, order domain.OrderRequest) error {
	f.calls++
	f.last = order
	if f.submitFn != nil {
		return f.submitFn(ctx, restaurantID, order)
	}
	return nil
}

type fakeTimer struct {
	delay   time.Duration
	fire    func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

type timerRecorder struct {
	timers []*fakeTimer
}

func (r *timerRecorder) afterFunc(d time.Duration, f func()) checkout.Stopper {
	timer := &fakeTimer{delay: d, fire: f}
	r.timers = append(r.timers, timer)
	return timer
}

func tableRestaurant() domain.Restaurant {
	return domain.Restaurant{
		ID:     "res_1",
		Status: domain.RestaurantActive,
		PrimaryField: &domain.OrderField{
			Name: "table_number", Label: "Table", Type: domain.FieldNumeric, Shown: true, Required: true,
		},
		SecondaryField: &domain.OrderField{
			Name: "notes", Label: "Notes", Type: domain.FieldText, Shown: true,
		},
	}
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	ctx := context.Background()
	store := cart.NewStore(storage.NewMemory())
	require.NoError(t, store.SetRestaurant(ctx, "res_1"))
	require.NoError(t, store.AddItem(ctx, domain.MenuItem{ID: "1", Name: "Hummus", Price: 1000, Available: true}))
	require.NoError(t, store.UpdateQuantity(ctx, "1", 2))
	require.NoError(t, store.AddItem(ctx, domain.MenuItem{ID: "2", Name: "Juice", Price: 500, Available: true}))
	return store
}

func TestNormalizeDigits(t *testing.T) {
	require.Equal(t, "34", checkout.NormalizeDigits("٣٤"))
	require.Equal(t, "34", checkout.NormalizeDigits("٣4"))
	require.Equal(t, "0123456789", checkout.NormalizeDigits("٠١٢٣٤٥٦٧٨٩"))
	require.Equal(t, "A-12 ب", checkout.NormalizeDigits("A-١٢ ب"))
}

func TestNormalizeValueOnlyTouchesNumericFields(t *testing.T) {
	numeric := domain.OrderField{Type: domain.FieldNumeric}
	text := domain.OrderField{Type: domain.FieldText}
	require.Equal(t, "34", checkout.NormalizeValue(numeric, "  ٣٤ "))
	require.Equal(t, "٣٤", checkout.NormalizeValue(text, " ٣٤ "))
}

func TestFieldsLegacyFallback(t *testing.T) {
	fields := checkout.Fields(domain.Restaurant{RequiredInfo: "رقم الطاولة"})
	require.Len(t, fields, 1)
	require.Equal(t, checkout.LegacyFieldName, fields[0].Name)
	require.Equal(t, "رقم الطاولة", fields[0].Label)
	require.Equal(t, domain.FieldNumeric, fields[0].Type)
	require.True(t, fields[0].Shown)
	require.True(t, fields[0].Required)

	require.Len(t, checkout.Fields(tableRestaurant()), 2)
}

func TestValidate(t *testing.T) {
	fields := checkout.Fields(tableRestaurant())

	_, err := checkout.Validate(fields, map[string]string{"table_number": "   ", "notes": "no onions"})
	require.ErrorIs(t, err, checkout.ErrValidationFailed)
	var validationErr *checkout.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, []string{"table_number"}, validationErr.Missing)

	values, err := checkout.Validate(fields, map[string]string{"table_number": "٣4"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"table_number": "34"}, values)

	values, err = checkout.Validate(fields, map[string]string{"table_number": "7", "notes": " extra bread "})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"table_number": "7", "notes": "extra bread"}, values)
}

func TestValidateSkipsHiddenFields(t *testing.T) {
	fields := []domain.OrderField{{Name: "table_number", Type: domain.FieldNumeric, Shown: false, Required: true}}

	values, err := checkout.Validate(fields, map[string]string{"table_number": "5"})
	require.NoError(t, err)
	require.Empty(t, values)
}

func TestUnknownFields(t *testing.T) {
	fields := checkout.Fields(tableRestaurant())
	unknown := checkout.UnknownFields(fields, map[string]string{"table_number": "1", "seat": "2", "floor": "3"})
	require.Equal(t, []string{"floor", "seat"}, unknown)
}

func TestParseScheme(t *testing.T) {
	scheme, err := checkout.ParseScheme("")
	require.NoError(t, err)
	require.Equal(t, checkout.SchemeFields, scheme)

	scheme, err = checkout.ParseScheme(" LEGACY ")
	require.NoError(t, err)
	require.Equal(t, checkout.SchemeLegacy, scheme)

	_, err = checkout.ParseScheme("xml")
	require.Error(t, err)
}

func TestSubmitSuccessClearsCartAndResetsLater(t *testing.T) {
	store := filledCart(t)
	submitter := &fakeSubmitter{}
	timers := &timerRecorder{}
	flow := checkout.NewFlow(store, submitter, checkout.WithAfterFunc(timers.afterFunc))
	flow.SetValue("table_number", "٣٤")

	request, err := flow.Submit(context.Background(), tableRestaurant())
	require.NoError(t, err)
	require.Equal(t, checkout.StateSubmitted, flow.State())
	require.Equal(t, 1, submitter.calls)

	require.Equal(t, int64(2500), request.Order.Total)
	require.Equal(t, map[string]string{"table_number": "34"}, request.Order.Fields)
	require.Nil(t, request.Order.TableNumber)
	require.Equal(t, []domain.OrderDetail{
		{ItemID: "1", Name: "Hummus", Price: 1000, Quantity: 2},
		{ItemID: "2", Name: "Juice", Price: 500, Quantity: 1},
	}, request.Order.Details)

	state := store.State()
	require.True(t, state.IsEmpty())
	require.Equal(t, "res_1", state.RestaurantID)

	require.Len(t, timers.timers, 1)
	require.Equal(t, checkout.ResetDelay, timers.timers[0].delay)
	require.Equal(t, "٣٤", flow.Values()["table_number"])
	timers.timers[0].fire()
	require.Equal(t, checkout.StateIdle, flow.State())
	require.Empty(t, flow.Values())
}

func TestSubmitPayloadWireShape(t *testing.T) {
	submitter := &fakeSubmitter{}
	flow := checkout.NewFlow(filledCart(t), submitter, checkout.WithAfterFunc((&timerRecorder{}).afterFunc))
	flow.SetValue("table_number", "34")

	_, err := flow.Submit(context.Background(), tableRestaurant())
	require.NoError(t, err)

	payload, err := json.Marshal(submitter.last)
	require.NoError(t, err)
	require.JSONEq(t, `{"order":{"total":2500,"fields":{"table_number":"34"},"details":[
		{"item_id":1,"name":"Hummus","price":1000,"quantity":2},
		{"item_id":2,"name":"Juice","price":500,"quantity":1}
	]}}`, string(payload))
}

func TestSubmitLegacyScheme(t *testing.T) {
	submitter := &fakeSubmitter{}
	flow := checkout.NewFlow(filledCart(t), submitter,
		checkout.WithScheme(checkout.SchemeLegacy),
		checkout.WithAfterFunc((&timerRecorder{}).afterFunc),
	)
	flow.SetValue("table_number", "١٢")

	restaurant := domain.Restaurant{ID: "res_1", Status: domain.RestaurantActive, RequiredInfo: "رقم الطاولة"}
	request, err := flow.Submit(context.Background(), restaurant)
	require.NoError(t, err)
	require.Nil(t, request.Order.Fields)
	require.NotNil(t, request.Order.TableNumber)
	require.Equal(t, "12", *request.Order.TableNumber)

	payload, err := json.Marshal(submitter.last)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"table_number":"12"`)
	require.NotContains(t, string(payload), `"fields"`)
}

func TestSubmitValidationFailureSkipsNetwork(t *testing.T) {
	store := filledCart(t)
	submitter := &fakeSubmitter{}
	flow := checkout.NewFlow(store, submitter)

	_, err := flow.Submit(context.Background(), tableRestaurant())
	require.ErrorIs(t, err, checkout.ErrValidationFailed)
	require.Zero(t, submitter.calls)
	require.Equal(t, checkout.StateIdle, flow.State())
	require.False(t, store.State().IsEmpty())
}

func TestSubmitHiddenRequiredFieldDoesNotBlock(t *testing.T) {
	submitter := &fakeSubmitter{}
	flow := checkout.NewFlow(filledCart(t), submitter, checkout.WithAfterFunc((&timerRecorder{}).afterFunc))
	flow.SetValue("table_number", "9")

	restaurant := tableRestaurant()
	restaurant.PrimaryField.Shown = false
	request, err := flow.Submit(context.Background(), restaurant)
	require.NoError(t, err)
	require.NotContains(t, request.Order.Fields, "table_number")
}

func TestSubmitRefusesEmptyCartAndInactiveRestaurant(t *testing.T) {
	store := cart.NewStore(storage.NewMemory())
	require.NoError(t, store.SetRestaurant(context.Background(), "res_1"))
	submitter := &fakeSubmitter{}
	flow := checkout.NewFlow(store, submitter)
	flow.SetValue("table_number", "1")

	_, err := flow.Submit(context.Background(), tableRestaurant())
	require.ErrorIs(t, err, checkout.ErrEmptyCart)

	inactive := tableRestaurant()
	inactive.Status = domain.RestaurantInactive
	_, err = checkout.NewFlow(filledCart(t), submitter).Submit(context.Background(), inactive)
	require.ErrorIs(t, err, checkout.ErrRestaurantInactive)
	require.Zero(t, submitter.calls)
}

func TestSubmitFailureKeepsFormAndAllowsRetry(t *testing.T) {
	store := filledCart(t)
	cause := errors.New("status=500")
	submitter := &fakeSubmitter{submitFn: func(context.Context, string, domain.OrderRequest) error { return cause }}
	timers := &timerRecorder{}
	flow := checkout.NewFlow(store, submitter, checkout.WithAfterFunc(timers.afterFunc))
	flow.SetValue("table_number", "5")

	_, err := flow.Submit(context.Background(), tableRestaurant())
	require.ErrorIs(t, err, checkout.ErrSubmissionFailed)
	require.ErrorIs(t, err, cause)
	require.Equal(t, checkout.ErrSubmissionFailed.Error(), err.Error())
	require.Equal(t, checkout.StateFailed, flow.State())
	require.Equal(t, "5", flow.Values()["table_number"])
	require.False(t, store.State().IsEmpty())
	require.Empty(t, timers.timers)

	submitter.submitFn = nil
	_, err = flow.Submit(context.Background(), tableRestaurant())
	require.NoError(t, err)
	require.Equal(t, checkout.StateSubmitted, flow.State())
	require.Equal(t, 2, submitter.calls)
}

func TestSubmitRefusesReentry(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	submitter := &fakeSubmitter{submitFn: func(context.Context, string, domain.OrderRequest) error {
		close(started)
		<-release
		return nil
	}}
	flow := checkout.NewFlow(filledCart(t), submitter, checkout.WithAfterFunc((&timerRecorder{}).afterFunc))
	flow.SetValue("table_number", "5")

	done := make(chan error, 1)
	go func() {
		_, err := flow.Submit(context.Background(), tableRestaurant())
		done <- err
	}()
	<-started
	require.Equal(t, checkout.StateSubmitting, flow.State())

	_, err := flow.Submit(context.Background(), tableRestaurant())
	require.ErrorIs(t, err, checkout.ErrSubmissionInProgress)

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, 1, submitter.calls)
}

func TestResetTimerUsesRealClock(t *testing.T) {
	flow := checkout.NewFlow(filledCart(t), &fakeSubmitter{}, checkout.WithResetDelay(10*time.Millisecond))
	flow.SetValue("table_number", "5")

	_, err := flow.Submit(context.Background(), tableRestaurant())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return flow.State() == checkout.StateIdle
	}, time.Second, 5*time.Millisecond)
}

func TestSubmitSendsEmptyFieldsObjectWhenNothingQualifies(t *testing.T) {
	submitter := &fakeSubmitter{}
	flow := checkout.NewFlow(filledCart(t), submitter, checkout.WithAfterFunc((&timerRecorder{}).afterFunc))

	restaurant := domain.Restaurant{
		ID:     "res_1",
		Status: domain.RestaurantActive,
		PrimaryField: &domain.OrderField{
			Name: "table_number", Type: domain.FieldNumeric, Shown: false, Required: true,
		},
		SecondaryField: &domain.OrderField{
			Name: "customer_name", Type: domain.FieldText, Shown: true,
		},
	}
	request, err := flow.Submit(context.Background(), restaurant)
	require.NoError(t, err)
	require.NotNil(t, request.Order.Fields)
	require.Empty(t, request.Order.Fields)

	payload, err := json.Marshal(submitter.last)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"fields":{}`)
	require.NotContains(t, string(payload), `"table_number"`)
}
