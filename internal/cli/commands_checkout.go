package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mekedron/tableorder-cli/internal/checkout"
	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/service/menu"
	"github.com/mekedron/tableorder-cli/internal/service/output"
)

func newCheckoutCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var fieldInputs []string
	var schemeInput string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Validate checkout fields and place the order for the current cart.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, deps, &flags)
			if err != nil {
				return err
			}
			scheme := deps.Scheme
			if strings.TrimSpace(schemeInput) != "" {
				parsed, err := checkout.ParseScheme(schemeInput)
				if err != nil {
					return s.invalidArgument(err.Error())
				}
				scheme = parsed
			}
			values, err := parseFieldInputs(fieldInputs)
			if err != nil {
				return s.invalidArgument(err.Error())
			}

			restaurant, err := s.restaurant()
			if err != nil {
				return s.fail(err)
			}
			store, err := s.bindCart()
			if err != nil {
				return s.fail(err)
			}

			opts := []checkout.Option{checkout.WithLogger(deps.logger())}
			if scheme != "" {
				opts = append(opts, checkout.WithScheme(scheme))
			}
			flow := checkout.NewFlow(store, s.api, opts...)
			for name, value := range values {
				flow.SetValue(name, value)
			}
			warnings := []string{}
			for _, name := range checkout.UnknownFields(checkout.Fields(restaurant), values) {
				warnings = append(warnings, fmt.Sprintf("ignoring unknown field %q", name))
			}

			request, err := flow.Submit(cmd.Context(), restaurant)
			if err != nil {
				return s.fail(err)
			}
			return s.render(func() string {
				return renderOrderTable(restaurant, request)
			}, menu.BuildOrderView(restaurant, request), warnings)
		},
	}

	cmd.Flags().StringArrayVar(&fieldInputs, "field", nil, "Checkout field value as name=value (repeatable), for example --field table_number=12.")
	cmd.Flags().StringVar(&schemeInput, "scheme", "", "Order payload scheme: fields or legacy. Defaults to TABLEORDER_ORDER_SCHEME, then fields.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func parseFieldInputs(raw []string) (map[string]string, error) {
	values := make(map[string]string, len(raw))
	for _, input := range raw {
		name, value, ok := strings.Cut(input, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --field %q, expected name=value", input)
		}
		values[name] = value
	}
	return values, nil
}

func renderOrderTable(restaurant domain.Restaurant, request domain.OrderRequest) string {
	rows := make([][]string, 0, len(request.Order.Details)+1)
	for _, detail := range request.Order.Details {
		rows = append(rows, []string{
			detail.ItemID.String(),
			detail.Name,
			strconv.Itoa(detail.Quantity),
			restaurant.FormatAmount(detail.Price),
		})
	}
	rows = append(rows, []string{"", "total", "", restaurant.FormatAmount(request.Order.Total)})
	title := fmt.Sprintf("Order submitted to %s", firstNonBlank(restaurant.Name, restaurant.ID))
	return output.RenderTable(title, []string{"ID", "Item", "Qty", "Price"}, rows)
}
