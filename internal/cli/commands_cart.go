package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mekedron/tableorder-cli/internal/cart"
	"github.com/mekedron/tableorder-cli/internal/checkout"
	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/service/menu"
	"github.com/mekedron/tableorder-cli/internal/service/output"
)

func newCartCommand(deps Dependencies) *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and update the cart of the current restaurant.",
	}
	cartCmd.AddCommand(newCartShowCommand(deps))
	cartCmd.AddCommand(newCartAddCommand(deps))
	cartCmd.AddCommand(newCartSetCommand(deps))
	cartCmd.AddCommand(newCartRemoveCommand(deps))
	cartCmd.AddCommand(newCartClearCommand(deps))
	return cartCmd
}

// cartRestaurant loads restaurant details for amount formatting. Cart
// commands still work offline; amounts are then printed unformatted.
func (s *session) cartRestaurant() (domain.Restaurant, []string) {
	restaurant, err := s.restaurant()
	if err != nil {
		code, _ := classifyError(err)
		return domain.Restaurant{ID: s.restaurantID}, []string{fmt.Sprintf("restaurant details unavailable (%s), amounts are unformatted", code)}
	}
	return restaurant, []string{}
}

func (s *session) renderCart(restaurant domain.Restaurant, state domain.CartState, warnings []string) error {
	return s.render(func() string {
		title := fmt.Sprintf("Cart: %s", firstNonBlank(restaurant.Name, restaurant.ID))
		if state.IsEmpty() {
			return title + "\ncart is empty"
		}
		return output.RenderTable(title, []string{"ID", "Item", "Qty", "Price", "Line total"}, menu.CartTableRows(restaurant, state))
	}, menu.BuildCartView(restaurant, state), warnings)
}

func newCartShowCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show cart lines, item count, and total.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, deps, &flags)
			if err != nil {
				return err
			}
			store, err := s.bindCart()
			if err != nil {
				return s.fail(err)
			}
			restaurant, warnings := s.cartRestaurant()
			return s.renderCart(restaurant, store.State(), warnings)
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newCartAddCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <item-id>",
		Short: "Add a menu item to the cart.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, deps, &flags)
			if err != nil {
				return err
			}
			if quantity < 1 {
				return s.invalidArgument("--quantity must be greater than 0")
			}
			itemID := domain.ItemID(strings.TrimSpace(args[0]))
			if itemID == "" {
				return s.invalidArgument("item-id is required")
			}

			restaurant, err := s.restaurant()
			if err != nil {
				return s.fail(err)
			}
			if !restaurant.IsActive() {
				return s.fail(checkout.ErrRestaurantInactive)
			}
			items, err := s.api.FetchMenuItems(cmd.Context(), s.restaurantID)
			if err != nil {
				return s.fail(err)
			}
			item, err := cart.LookupItem(items, itemID)
			if err != nil {
				return s.fail(err)
			}

			store, err := s.bindCart()
			if err != nil {
				return s.fail(err)
			}
			if err := store.AddItem(cmd.Context(), item); err != nil {
				return s.fail(err)
			}
			if quantity > 1 {
				state := store.State()
				current := state.Items[state.Find(item.ID)].Quantity
				if err := store.UpdateQuantity(cmd.Context(), item.ID, current+quantity-1); err != nil {
					return s.fail(err)
				}
			}
			return s.renderCart(restaurant, store.State(), []string{})
		},
	}

	cmd.Flags().IntVar(&quantity, "quantity", 1, "Number of units to add.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newCartSetCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "set <item-id> <quantity>",
		Short: "Set the quantity of a cart line. A quantity of 0 removes it.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, deps, &flags)
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil {
				return s.invalidArgument(fmt.Sprintf("quantity must be a whole number, got %q", args[1]))
			}
			itemID := domain.ItemID(strings.TrimSpace(args[0]))

			store, err := s.bindCart()
			if err != nil {
				return s.fail(err)
			}
			warnings := []string{}
			if store.State().Find(itemID) < 0 {
				warnings = append(warnings, fmt.Sprintf("item %s is not in the cart", itemID))
			}
			if err := store.UpdateQuantity(cmd.Context(), itemID, quantity); err != nil {
				return s.fail(err)
			}
			restaurant, restaurantWarnings := s.cartRestaurant()
			return s.renderCart(restaurant, store.State(), append(warnings, restaurantWarnings...))
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newCartRemoveCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a line from the cart.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, deps, &flags)
			if err != nil {
				return err
			}
			itemID := domain.ItemID(strings.TrimSpace(args[0]))

			store, err := s.bindCart()
			if err != nil {
				return s.fail(err)
			}
			warnings := []string{}
			if store.State().Find(itemID) < 0 {
				warnings = append(warnings, fmt.Sprintf("item %s is not in the cart", itemID))
			}
			if err := store.RemoveItem(cmd.Context(), itemID); err != nil {
				return s.fail(err)
			}
			restaurant, restaurantWarnings := s.cartRestaurant()
			return s.renderCart(restaurant, store.State(), append(warnings, restaurantWarnings...))
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newCartClearCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart of the current restaurant.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, deps, &flags)
			if err != nil {
				return err
			}
			store, err := s.bindCart()
			if err != nil {
				return s.fail(err)
			}
			if err := store.ClearCart(cmd.Context()); err != nil {
				return s.fail(err)
			}
			restaurant, warnings := s.cartRestaurant()
			return s.renderCart(restaurant, store.State(), warnings)
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
