package cli

import (
	"github.com/spf13/cobra"

	"github.com/mekedron/tableorder-cli/internal/checkout"
	"github.com/mekedron/tableorder-cli/internal/service/menu"
	"github.com/mekedron/tableorder-cli/internal/service/output"
)

func newRestaurantCommand(deps Dependencies) *cobra.Command {
	restaurant := &cobra.Command{
		Use:   "restaurant",
		Short: "Inspect the restaurant behind a QR link.",
	}
	restaurant.AddCommand(newRestaurantShowCommand(deps))
	return restaurant
}

func newRestaurantShowCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show restaurant status, theme, and checkout fields.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, deps, &flags)
			if err != nil {
				return err
			}
			restaurant, err := s.restaurant()
			if err != nil {
				return s.fail(err)
			}
			fields := checkout.Fields(restaurant)
			warnings := []string{}
			if !restaurant.IsActive() {
				warnings = append(warnings, checkout.ErrRestaurantInactive.Error())
			}
			return s.render(func() string {
				return output.RenderTable(restaurant.Name, []string{"Field", "Value"}, menu.RestaurantTableRows(restaurant, fields))
			}, menu.BuildRestaurantView(restaurant, fields), warnings)
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}
