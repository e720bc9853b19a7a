package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mekedron/tableorder-cli/internal/config"
	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/service/menu"
)

var (
	// ErrDefaultProfileNotFound indicates config has no default profile.
	ErrDefaultProfileNotFound = errors.New("no default profile found")
	// ErrProfileNotFound indicates requested profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrRestaurantNotSelected indicates neither a flag nor a profile names a restaurant.
	ErrRestaurantNotSelected = errors.New("no restaurant selected, pass --restaurant or run configure")
)

// Loader provides config payloads.
type Loader interface {
	Load(ctx context.Context) (domain.Config, error)
}

// Session is the restaurant a command works against.
type Session struct {
	ProfileName  string
	RestaurantID string
	APIBaseURL   string
}

// Resolver resolves profile names.
type Resolver struct {
	loader Loader
}

// NewResolver creates a profile resolver.
func NewResolver(loader Loader) *Resolver {
	return &Resolver{loader: loader}
}

// Find resolves explicit profile names or defaults.
func (r *Resolver) Find(ctx context.Context, profileName string) (domain.Profile, error) {
	cfg, err := r.loader.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	if strings.TrimSpace(profileName) == "" {
		for _, profile := range cfg.Profiles {
			if profile.IsDefault {
				return profile, nil
			}
		}
		return domain.Profile{}, ErrDefaultProfileNotFound
	}

	want := strings.ToLower(strings.TrimSpace(profileName))
	for _, profile := range cfg.Profiles {
		if strings.ToLower(profile.Name) == want {
			return profile, nil
		}
	}
	available := make([]string, 0, len(cfg.Profiles))
	for _, profile := range cfg.Profiles {
		available = append(available, profile.Name)
	}
	return domain.Profile{}, fmt.Errorf("%w: %s (available: %s)", ErrProfileNotFound, want, strings.Join(available, ", "))
}

// Resolve picks the restaurant for a command. An explicit restaurant
// reference wins over the profile; a named profile must exist, while a
// missing default profile is only an error when no reference is given.
func (r *Resolver) Resolve(ctx context.Context, profileName, restaurantRef string) (Session, error) {
	profile, err := r.Find(ctx, profileName)
	hasProfile := err == nil
	if err != nil {
		explicitProfile := strings.TrimSpace(profileName) != ""
		missingDefault := errors.Is(err, ErrDefaultProfileNotFound) || errors.Is(err, config.ErrConfigNotFound)
		if explicitProfile || !missingDefault {
			return Session{}, err
		}
	}

	session := Session{}
	if hasProfile {
		session = Session{
			ProfileName:  profile.Name,
			RestaurantID: profile.RestaurantID,
			APIBaseURL:   profile.APIBaseURL,
		}
	}
	if strings.TrimSpace(restaurantRef) != "" {
		id, err := menu.ParseRestaurantRef(restaurantRef)
		if err != nil {
			return Session{}, err
		}
		session.RestaurantID = id
	}
	if strings.TrimSpace(session.RestaurantID) == "" {
		return Session{}, ErrRestaurantNotSelected
	}
	return session, nil
}
