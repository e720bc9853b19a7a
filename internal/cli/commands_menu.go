package cli

import (
	"github.com/spf13/cobra"

	"github.com/mekedron/tableorder-cli/internal/service/menu"
	"github.com/mekedron/tableorder-cli/internal/service/output"
)

func newMenuCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var category string
	var sortValue string
	var filters itemFilters

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List menu items grouped by category.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, deps, &flags)
			if err != nil {
				return err
			}
			sortMode, err := parseItemSort(sortValue)
			if err != nil {
				return s.invalidArgument(err.Error())
			}
			filters.Sort = sortMode
			filters.MinPriceSet = cmd.Flags().Changed("min-price")
			filters.MaxPriceSet = cmd.Flags().Changed("max-price")
			if err := filters.validate(); err != nil {
				return s.invalidArgument(err.Error())
			}

			restaurant, err := s.restaurant()
			if err != nil {
				return s.fail(err)
			}
			items, err := s.api.FetchMenuItems(cmd.Context(), s.restaurantID)
			if err != nil {
				return s.fail(err)
			}

			grouped := menu.GroupItemsByCategory(items)
			categories := applyItemFilters(menu.FilterCategories(grouped.Categories, category), filters)
			data, warnings := menu.BuildMenuView(restaurant, categories, grouped.Collisions)
			return s.render(func() string {
				return output.RenderTable(
					restaurant.Name,
					[]string{"Category", "ID", "Item", "Price", "Available"},
					menu.MenuTableRows(restaurant, categories),
				)
			}, data, warnings)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only show categories whose id matches or whose name contains this value.")
	cmd.Flags().StringVar(&sortValue, "sort", "menu", "Item order within a category: menu, price, or name.")
	cmd.Flags().BoolVar(&filters.HideUnavailable, "hide-unavailable", false, "Hide items that cannot be ordered right now.")
	cmd.Flags().Int64Var(&filters.MinPrice, "min-price", 0, "Minimum item price in minor currency units.")
	cmd.Flags().Int64Var(&filters.MaxPrice, "max-price", 0, "Maximum item price in minor currency units.")
	addGlobalFlags(cmd, &flags)
	return cmd
}
