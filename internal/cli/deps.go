package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"go.uber.org/zap"

	"github.com/mekedron/tableorder-cli/internal/cart"
	"github.com/mekedron/tableorder-cli/internal/checkout"
	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/gateway/backend"
	"github.com/mekedron/tableorder-cli/internal/service/profile"
)

var unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)

// SessionResolver picks the profile and restaurant a command works against.
type SessionResolver interface {
	Resolve(ctx context.Context, profileName, restaurantRef string) (profile.Session, error)
}

// ConfigManager stores profile config payloads.
type ConfigManager interface {
	Path() string
	Load(ctx context.Context) (domain.Config, error)
	Save(ctx context.Context, cfg domain.Config) error
}

// MockServer serves the demo backend.
type MockServer interface {
	RestaurantIDs() []string
	ListenAndServe(ctx context.Context, addr string) error
}

// BackendFactory builds a gateway for a base URL. An empty URL selects the configured default.
type BackendFactory func(baseURL string) backend.API

// Dependencies wires runtime services.
type Dependencies struct {
	Backend  BackendFactory
	Profiles SessionResolver
	Config   ConfigManager
	Carts    cart.Storage
	Logger   *zap.Logger
	LogLevel *zap.AtomicLevel
	Scheme   checkout.Scheme
	Mock     MockServer
	MockAddr string
	Version  string
}

func (d Dependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

var errVersionShown = fmt.Errorf("version shown")

// Execute runs the CLI with injected dependencies.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil || errors.Is(err, errVersionShown) {
		return 0
	}
	var controlled *exitError
	if errors.As(err, &controlled) {
		return controlled.code
	}

	if matches := unknownCommandPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		_, _ = fmt.Fprintf(stderr, "No such command '%s'\n", matches[1])
		return 2
	}

	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, msg)
	}
	return 1
}
