package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mekedron/tableorder-cli/internal/config"
	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/service/menu"
)

func newConfigureCommand(deps Dependencies) *cobra.Command {
	var profileName string
	var restaurantRef string
	var apiURL string
	var makeDefault bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Save a restaurant to a local profile.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Config == nil {
				return fmt.Errorf("config store is not available")
			}
			name := strings.TrimSpace(profileName)
			if name == "" {
				return fmt.Errorf("--profile must not be empty")
			}
			restaurantID, err := menu.ParseRestaurantRef(restaurantRef)
			if err != nil {
				return err
			}

			cfg, err := deps.Config.Load(cmd.Context())
			created := errors.Is(err, config.ErrConfigNotFound)
			if err != nil && !created {
				return err
			}

			cfg = config.UpsertProfile(cfg, domain.Profile{
				Name:         name,
				IsDefault:    makeDefault,
				RestaurantID: restaurantID,
				APIBaseURL:   strings.TrimRight(strings.TrimSpace(apiURL), "/"),
			})
			if err := deps.Config.Save(cmd.Context(), cfg); err != nil {
				return err
			}

			message := fmt.Sprintf("Profile %q now points at restaurant %s.", name, restaurantID)
			if created {
				message = fmt.Sprintf("Config was created at %s. %s", deps.Config.Path(), message)
			}
			return writeTable(cmd, message, "")
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "default", "Profile name to create or update.")
	cmd.Flags().StringVar(&restaurantRef, "restaurant", "", "Restaurant id or QR link to save.")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "Backend base URL for this profile, for example http://localhost:3000/api/v1.")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Make this the default profile.")
	_ = cmd.MarkFlagRequired("restaurant")
	return cmd
}
