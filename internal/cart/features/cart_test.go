package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/mekedron/tableorder-cli/internal/cart"
	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/storage"
)

type cartTestContext struct {
	backend *storage.Memory
	store   *cart.Store
	menu    map[domain.ItemID]domain.MenuItem
}

func (c *cartTestContext) reset() {
	c.backend = storage.NewMemory()
	c.store = cart.NewStore(c.backend)
	c.menu = map[domain.ItemID]domain.MenuItem{}
}

func (c *cartTestContext) theMenuItemNamedCosts(id, name string, price int) error {
	c.menu[domain.ItemID(id)] = domain.MenuItem{ID: domain.ItemID(id), Name: name, Price: int64(price), Available: true}
	return nil
}

func (c *cartTestContext) theCartIsBoundToRestaurant(id string) error {
	return c.store.SetRestaurant(context.Background(), id)
}

func (c *cartTestContext) theStoredRecordForRestaurantIs(id, payload string) error {
	return c.backend.Set(context.Background(), cart.StorageKey(id), []byte(payload))
}

func (c *cartTestContext) iAddItem(id string) error {
	item, ok := c.menu[domain.ItemID(id)]
	if !ok {
		return fmt.Errorf("menu item %s is not defined", id)
	}
	return c.store.AddItem(context.Background(), item)
}

func (c *cartTestContext) iSetTheQuantityOfItemTo(id string, quantity int) error {
	return c.store.UpdateQuantity(context.Background(), domain.ItemID(id), quantity)
}

func (c *cartTestContext) iClearTheCart() error {
	return c.store.ClearCart(context.Background())
}

func (c *cartTestContext) thePageIsReloadedForRestaurant(id string) error {
	c.store = cart.NewStore(c.backend)
	return c.store.SetRestaurant(context.Background(), id)
}

func (c *cartTestContext) theCartHasLines(count int) error {
	if got := len(c.store.State().Items); got != count {
		return fmt.Errorf("expected %d lines, got %d", count, got)
	}
	return nil
}

func (c *cartTestContext) itemHasQuantity(id string, quantity int) error {
	state := c.store.State()
	idx := state.Find(domain.ItemID(id))
	if idx < 0 {
		return fmt.Errorf("item %s is not in the cart", id)
	}
	if got := state.Items[idx].Quantity; got != quantity {
		return fmt.Errorf("expected quantity %d for item %s, got %d", quantity, id, got)
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(total int) error {
	if got := c.store.State().Total; got != int64(total) {
		return fmt.Errorf("expected total %d, got %d", total, got)
	}
	return nil
}

func (c *cartTestContext) theCartHoldsUnits(units int) error {
	if got := c.store.ItemCount(); got != units {
		return fmt.Errorf("expected %d units, got %d", units, got)
	}
	return nil
}

func (c *cartTestContext) theCartIsEmpty() error {
	state := c.store.State()
	if !state.IsEmpty() || state.Total != 0 {
		return fmt.Errorf("expected empty cart, got %+v", state)
	}
	return nil
}

func (c *cartTestContext) theCartIsStillBoundToRestaurant(id string) error {
	if got := c.store.RestaurantID(); got != id {
		return fmt.Errorf("expected binding %s, got %s", id, got)
	}
	return nil
}

func (c *cartTestContext) aRecordIsStoredForRestaurant(id string) error {
	_, err := c.backend.Get(context.Background(), cart.StorageKey(id))
	return err
}

func (c *cartTestContext) noRecordIsStoredForRestaurant(id string) error {
	_, err := c.backend.Get(context.Background(), cart.StorageKey(id))
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("expected no record for %s, got %v", id, err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the menu item "([^"]*)" named "([^"]*)" costs (\d+)$`, tc.theMenuItemNamedCosts)
	ctx.Step(`^the cart is bound to restaurant "([^"]*)"$`, tc.theCartIsBoundToRestaurant)
	ctx.Step(`^the stored record for restaurant "([^"]*)" is "([^"]*)"$`, tc.theStoredRecordForRestaurantIs)

	// When steps
	ctx.Step(`^I add item "([^"]*)"$`, tc.iAddItem)
	ctx.Step(`^I set the quantity of item "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfItemTo)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^I bind the cart to restaurant "([^"]*)"$`, tc.theCartIsBoundToRestaurant)
	ctx.Step(`^the page is reloaded for restaurant "([^"]*)"$`, tc.thePageIsReloadedForRestaurant)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^item "([^"]*)" has quantity (\d+)$`, tc.itemHasQuantity)
	ctx.Step(`^the cart total is (\d+)$`, tc.theCartTotalIs)
	ctx.Step(`^the cart holds (\d+) units$`, tc.theCartHoldsUnits)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the cart is still bound to restaurant "([^"]*)"$`, tc.theCartIsStillBoundToRestaurant)
	ctx.Step(`^a record is stored for restaurant "([^"]*)"$`, tc.aRecordIsStoredForRestaurant)
	ctx.Step(`^no record is stored for restaurant "([^"]*)"$`, tc.noRecordIsStoredForRestaurant)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
