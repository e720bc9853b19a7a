package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const defaultMockAddr = ":3000"

func newServeMockCommand(deps Dependencies) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-mock",
		Short: "Serve the demo restaurant backend locally until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Mock == nil {
				return fmt.Errorf("mock backend is not available")
			}
			listenAddr := firstNonBlank(addr, deps.MockAddr, defaultMockAddr)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "mock backend listening on %s\n", listenAddr)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "demo restaurants: %s\n", strings.Join(deps.Mock.RestaurantIDs(), ", "))
			return deps.Mock.ListenAndServe(cmd.Context(), listenAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address. Defaults to TABLEORDER_MOCK_ADDR, then :3000.")
	return cmd
}
